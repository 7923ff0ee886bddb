// Package otel records feedbox's structured events.
//
// Events are typed structs written as JSONL by an asynchronous Logger. A
// RingBuffer keeps the most recent events in memory for the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level is an event's severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind is a dot-delimited "<subsystem>.<action>" category.
type EventKind string

const (
	// Backend API calls
	KindAPIRequest EventKind = "api.request"
	KindAPIError   EventKind = "api.error"

	// Container operations
	KindInit       EventKind = "state.init"
	KindFeedAdd    EventKind = "state.feed_add"
	KindFeedRemove EventKind = "state.feed_remove"
	KindFavorite   EventKind = "state.favorite"
	KindRefresh    EventKind = "state.refresh"
	KindStateError EventKind = "state.error"
	KindStoreError EventKind = "store.error"

	// UI
	KindRoute EventKind = "ui.route"

	// Process lifecycle
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
)

// Event is one observability record. Only Kind is required.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "gateway", "state", "ui", "main"
	SessionID string         `json:"session_id,omitempty"`
	Method    string         `json:"method,omitempty"`
	Path      string         `json:"path,omitempty"`
	Status    int            `json:"status,omitempty"`
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"`
	Count     int            `json:"count,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON writes Dur as fractional milliseconds.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	p := plain(e)
	if e.Dur > 0 {
		p.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(p)
}

// Emitter accepts events. *Logger implements it; a nil *Logger is a no-op.
type Emitter interface {
	Emit(Event)
}
