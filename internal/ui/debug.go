package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/feedbox/internal/otel"
	"github.com/abelbrown/feedbox/internal/ui/card"
	"github.com/abelbrown/feedbox/internal/ui/styles"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders the debug panel showing request/state stats and
// recent events. Returns empty string if ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	var lines []string
	lines = append(lines, styles.DebugHeaderStyle.Render("Stats"))
	lines = append(lines, fmt.Sprintf("  Requests:   %d ok, %d errors",
		stats[otel.KindAPIRequest], stats[otel.KindAPIError]))
	lines = append(lines, fmt.Sprintf("  Feeds:      %d added, %d removed",
		stats[otel.KindFeedAdd], stats[otel.KindFeedRemove]))
	lines = append(lines, fmt.Sprintf("  Articles:   %d init, %d refresh",
		stats[otel.KindInit], stats[otel.KindRefresh]))
	lines = append(lines, fmt.Sprintf("  Favorites:  %d saved, %d store errors",
		stats[otel.KindFavorite], stats[otel.KindStoreError]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	lines = append(lines, styles.DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		line := fmt.Sprintf("  %6s  %-18s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Method != "" {
			line += fmt.Sprintf("  %s %s", e.Method, e.Path)
		}
		if e.Status != 0 {
			line += fmt.Sprintf(" %d", e.Status)
		}
		if e.Msg != "" {
			line += "  " + card.TruncateRunes(e.Msg, 40)
		}
		if e.Err != "" {
			line += "  ERR:" + card.TruncateRunes(e.Err, 30)
		}
		lines = append(lines, line)
	}

	// Truncate to fit terminal height (subtract chrome added by DebugPanel border/padding)
	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 76
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	return styles.DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration as a compact human string.
// Handles negative durations from clock skew by clamping to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	return styles.StatusBar.Width(width).Render("  [DEBUG]  " + styles.KeyHint("D", "close"))
}
