// Package card formats articles for display: source hostname, publish time
// and the rendered card block used by the news and favorites pages.
package card

import (
	"net/url"
	"strings"
	"time"

	"github.com/abelbrown/feedbox/internal/model"
	"github.com/abelbrown/feedbox/internal/ui/styles"
	"github.com/dustin/go-humanize"
)

// DefaultTimeLayout shows hours and minutes.
const DefaultTimeLayout = "15:04"

// maxContent caps the content excerpt shown on a card.
const maxContent = 200

// Hostname returns the host part of an absolute URL. Input that does not
// parse, or has no host, is returned unchanged.
func Hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}

// parseTime accepts RFC 3339 timestamps with or without fractional seconds.
func parseTime(iso string) (time.Time, bool) {
	if iso == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatTime renders iso's time of day using layout in loc. Empty or
// malformed input gives "". An empty layout means DefaultTimeLayout and a
// nil loc means time.Local.
func FormatTime(iso, layout string, loc *time.Location) string {
	t, ok := parseTime(iso)
	if !ok {
		return ""
	}
	if layout == "" {
		layout = DefaultTimeLayout
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(layout)
}

// Relative renders iso as an age relative to now ("2 hours ago").
// Empty or malformed input gives "".
func Relative(iso string, now time.Time) string {
	t, ok := parseTime(iso)
	if !ok {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Options controls how cards render.
type Options struct {
	TimeLayout   string
	Location     *time.Location
	RelativeTime bool
	Now          func() time.Time
	Width        int
}

// Render draws a card for a. favorite is only consulted when toggle is
// true, which adds the Favorite/Unfavorite action label.
func Render(a model.Article, opts Options, selected, toggle, favorite bool) string {
	var lines []string

	header := styles.SourceBadge.Render(Hostname(a.FeedSourceURL))
	if ts := FormatTime(a.PublishedAt, opts.TimeLayout, opts.Location); ts != "" {
		meta := ts
		if opts.RelativeTime {
			now := time.Now
			if opts.Now != nil {
				now = opts.Now
			}
			if rel := Relative(a.PublishedAt, now()); rel != "" {
				meta += " · " + rel
			}
		}
		header += styles.CardMeta.Render(meta)
	}
	lines = append(lines, header)
	lines = append(lines, styles.CardTitle.Render(a.Title))

	if content := strings.TrimSpace(a.Content); content != "" {
		lines = append(lines, TruncateRunes(content, maxContent))
	}
	if a.Link != "" {
		lines = append(lines, styles.CardMeta.Render(a.Link))
	}
	if toggle {
		lines = append(lines, styles.FavoriteLabel.Render("["+FavoriteLabel(favorite)+"]"))
	}

	style := styles.Card
	if selected {
		style = styles.CardSelected
	}
	if opts.Width > 4 {
		style = style.Width(opts.Width - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// FavoriteLabel is the action a toggle would perform.
func FavoriteLabel(favorite bool) string {
	if favorite {
		return "Unfavorite"
	}
	return "Favorite"
}

// TruncateRunes shortens s to at most n runes, ending with "…" when cut.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
