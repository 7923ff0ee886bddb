// Package feeds is the feed management page: list, add and remove
// subscriptions, and trigger a backend update.
package feeds

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abelbrown/feedbox/internal/model"
	"github.com/abelbrown/feedbox/internal/ui/styles"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Status lines shown while and after an update.
const (
	StatusUpdating  = "Updating feeds, please wait..."
	StatusFailed    = "An error occurred during the update."
	StatusThrottled = "Update already requested, try again shortly."
)

// StatusComplete is the status after a successful update.
func StatusComplete(n int) string {
	return fmt.Sprintf("Update complete! Found %d new articles.", n)
}

// ErrThrottled marks an update refused because one ran too recently.
// The shell maps its container's sentinel onto this.
var ErrThrottled = errors.New("update throttled")

// Messages the page expects back from its actions.
type (
	// AddedMsg reports the outcome of an add.
	AddedMsg struct {
		URL string
		Err error
	}
	// RemovedMsg reports the outcome of a remove.
	RemovedMsg struct {
		URL string
		Err error
	}
	// UpdatedMsg reports the outcome of an update trigger.
	UpdatedMsg struct {
		NewArticles int
		Err         error
	}
)

// Actions are the side effects the page can request.
type Actions struct {
	Add    func(url string) tea.Cmd
	Remove func(url string) tea.Cmd
	Update func() tea.Cmd
}

var keys = struct {
	Up     key.Binding
	Down   key.Binding
	Add    key.Binding
	Remove key.Binding
	Update key.Binding
	Submit key.Binding
	Cancel key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("k", "up")),
	Down:   key.NewBinding(key.WithKeys("j", "down")),
	Add:    key.NewBinding(key.WithKeys("a")),
	Remove: key.NewBinding(key.WithKeys("x", "delete")),
	Update: key.NewBinding(key.WithKeys("u")),
	Submit: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc")),
}

// Model is the feeds page.
type Model struct {
	actions  Actions
	feeds    []model.Feed
	cursor   int
	input    textinput.Model
	adding   bool
	updating bool
	status   string
	width    int
	height   int
}

// New creates the page.
func New(actions Actions) Model {
	ti := textinput.New()
	ti.Placeholder = "https://example.com/rss"
	ti.Prompt = "Feed URL: "
	ti.CharLimit = 2048
	ti.Width = 60

	return Model{actions: actions, input: ti}
}

// SetFeeds replaces the displayed feed list, keeping the cursor in range.
func (m *Model) SetFeeds(feeds []model.Feed) {
	m.feeds = feeds
	if m.cursor >= len(m.feeds) {
		m.cursor = len(m.feeds) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if width > 20 {
		m.input.Width = width - 20
	}
}

// Capturing reports whether the page is consuming raw keystrokes, so the
// shell must not treat them as global shortcuts.
func (m Model) Capturing() bool {
	return m.adding
}

// Status returns the transient update status line.
func (m Model) Status() string { return m.status }

// Cursor returns the selected row.
func (m Model) Cursor() int { return m.cursor }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.handleKey(msg)

	case UpdatedMsg:
		m.updating = false
		switch {
		case errors.Is(msg.Err, ErrThrottled):
			m.status = StatusThrottled
		case msg.Err != nil:
			m.status = StatusFailed
		default:
			m.status = StatusComplete(msg.NewArticles)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.feeds)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Add):
		m.adding = true
		m.input.SetValue("")
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, keys.Remove):
		if m.cursor < len(m.feeds) && m.actions.Remove != nil {
			return m, m.actions.Remove(m.feeds[m.cursor])
		}

	case key.Matches(msg, keys.Update):
		if m.updating || m.actions.Update == nil {
			return m, nil
		}
		m.updating = true
		m.status = StatusUpdating
		return m, m.actions.Update()
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.adding = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Submit):
		url := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		m.input.SetValue("")
		if url == "" || m.actions.Add == nil {
			return m, nil
		}
		return m, m.actions.Add(url)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the page.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("My Feeds"))
	b.WriteString("\n")

	if m.adding {
		b.WriteString(styles.InputBar.Render(m.input.View()))
		b.WriteString("\n\n")
	}
	if m.status != "" {
		b.WriteString(styles.Status.Render(m.status))
		b.WriteString("\n\n")
	}

	if len(m.feeds) == 0 {
		b.WriteString(styles.Empty.Render("No feeds added yet."))
		b.WriteString("\n")
		return b.String()
	}
	for i, f := range m.feeds {
		if i == m.cursor {
			b.WriteString(styles.SelectedItem.Render("> " + f))
		} else {
			b.WriteString(styles.NormalItem.Render("  " + f))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Help returns the page's key hints.
func (m Model) Help() string {
	if m.adding {
		return styles.KeyHint("enter", "add", "esc", "cancel")
	}
	return styles.KeyHint("a", "add", "x", "remove", "u", "update")
}
