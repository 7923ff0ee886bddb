package favorites

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/renameio"
)

// fileSlot keeps the value in a JSON file replaced atomically on write.
type fileSlot struct {
	path string
	mu   sync.Mutex
}

// OpenFile returns a Store backed by the JSON file at path. The file need
// not exist yet; its directory is created if missing.
func OpenFile(path string, logger *log.Logger) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create favorites directory: %w", err)
	}
	return newCodecStore("file", &fileSlot{path: path}, logger), nil
}

func (f *fileSlot) get() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	return raw, err
}

func (f *fileSlot) put(raw []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return renameio.WriteFile(f.path, raw, 0644)
}

func (f *fileSlot) close() error { return nil }
