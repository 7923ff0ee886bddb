package favorites

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Memory is an in-process Store. Raw returns the last saved bytes so tests
// can check exactly what was persisted.
type Memory struct {
	*codecStore
	slot *memorySlot
}

type memorySlot struct {
	mu   sync.Mutex
	raw  []byte
	err  error
	puts int
}

// NewMemory returns an empty in-memory Store.
func NewMemory(logger *log.Logger) *Memory {
	s := &memorySlot{}
	return &Memory{codecStore: newCodecStore("memory", s, logger), slot: s}
}

// NewMemoryWith returns an in-memory Store preloaded with raw.
func NewMemoryWith(raw string, logger *log.Logger) *Memory {
	m := NewMemory(logger)
	m.slot.raw = []byte(raw)
	return m
}

// Raw returns the stored bytes.
func (m *Memory) Raw() string {
	m.slot.mu.Lock()
	defer m.slot.mu.Unlock()
	return string(m.slot.raw)
}

// Saves returns how many writes have happened.
func (m *Memory) Saves() int {
	m.slot.mu.Lock()
	defer m.slot.mu.Unlock()
	return m.slot.puts
}

// FailWrites makes every later Save fail with err (nil restores writes).
func (m *Memory) FailWrites(err error) {
	m.slot.mu.Lock()
	m.slot.err = err
	m.slot.mu.Unlock()
}

func (s *memorySlot) get() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.raw...), nil
}

func (s *memorySlot) put(raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.raw = append([]byte(nil), raw...)
	s.puts++
	return nil
}

func (s *memorySlot) close() error { return nil }
