// Package styles holds the lipgloss styles shared by the shell and pages.
package styles

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	ColorPrimary   = lipgloss.Color("62")  // Purple
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorMuted     = lipgloss.Color("240") // Darker gray
	ColorHighlight = lipgloss.Color("212") // Pink
	ColorSuccess   = lipgloss.Color("78")  // Green
	ColorError     = lipgloss.Color("196") // Red
)

// Title style for page headings ("My Feeds", "All News").
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorHighlight).
	Padding(0, 1).
	MarginBottom(1)

// NavActive style for the current route in the header.
var NavActive = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(ColorPrimary).
	Padding(0, 1)

// NavItem style for inactive routes in the header.
var NavItem = lipgloss.NewStyle().
	Foreground(ColorSecondary).
	Padding(0, 1)

// SelectedItem style for the currently highlighted row.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(ColorPrimary).
	Padding(0, 1)

// NormalItem style for unselected rows.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// Empty style for "nothing here" placeholders.
var Empty = lipgloss.NewStyle().
	Foreground(ColorMuted).
	Italic(true).
	Padding(0, 1)

// Card style for an unselected article card.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorMuted).
	Padding(0, 1)

// CardSelected style for the highlighted article card.
var CardSelected = Card.
	BorderForeground(ColorHighlight)

// SourceBadge style for the hostname badge on a card.
var SourceBadge = lipgloss.NewStyle().
	Foreground(ColorPrimary).
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

// CardTitle style for an article title.
var CardTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// CardMeta style for time and link lines.
var CardMeta = lipgloss.NewStyle().
	Foreground(ColorSecondary)

// FavoriteLabel style for the Favorite/Unfavorite action label.
var FavoriteLabel = lipgloss.NewStyle().
	Foreground(ColorSuccess).
	Bold(true)

// Status style for transient page status lines.
var Status = lipgloss.NewStyle().
	Foreground(ColorSuccess).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(ColorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(ColorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorError).
	Bold(true).
	Padding(0, 1)

// InputBar style for the add-feed prompt.
var InputBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(ColorMuted).
	Padding(0, 1)

// DebugPanel style for the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headings inside the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorHighlight)

// KeyHint renders "key:desc" pairs for a status bar.
func KeyHint(pairs ...string) string {
	var out string
	for i := 0; i+1 < len(pairs); i += 2 {
		if out != "" {
			out += "  "
		}
		out += StatusBarKey.Render(pairs[i]) + StatusBarText.Render(":"+pairs[i+1])
	}
	return out
}
