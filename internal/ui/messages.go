// Package ui provides the Bubble Tea shell for feedbox: routing between the
// feeds, news and favorites pages, the status and error bars, and the debug
// overlay.
package ui

import "github.com/abelbrown/feedbox/internal/state"

// snapshotMsg carries a container state change into the update loop.
type snapshotMsg state.Snapshot

// InitDone is sent when the initial fetch settles.
type InitDone struct {
	Err error
}
