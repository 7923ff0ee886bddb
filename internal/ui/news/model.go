// Package news is the all-articles page.
package news

import (
	"strings"

	"github.com/abelbrown/feedbox/internal/model"
	"github.com/abelbrown/feedbox/internal/ui/card"
	"github.com/abelbrown/feedbox/internal/ui/styles"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ToggledMsg reports the outcome of a favorite toggle.
type ToggledMsg struct {
	ID       model.ArticleID
	Favorite bool
	Err      error
}

var keys = struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Toggle key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("k", "up")),
	Down:   key.NewBinding(key.WithKeys("j", "down")),
	Top:    key.NewBinding(key.WithKeys("g", "home")),
	Bottom: key.NewBinding(key.WithKeys("G", "end")),
	Toggle: key.NewBinding(key.WithKeys("f", "enter")),
}

// Model is the news page.
type Model struct {
	toggle    func(id model.ArticleID) tea.Cmd
	articles  []model.Article
	favorites model.FavoriteSet
	loading   bool
	cursor    int
	opts      card.Options
	width     int
	height    int
}

// New creates the page. toggle may be nil, which disables favoriting.
func New(toggle func(id model.ArticleID) tea.Cmd, opts card.Options) Model {
	return Model{toggle: toggle, opts: opts, loading: true}
}

// SetState replaces the displayed articles and favorite set.
func (m *Model) SetState(articles []model.Article, favorites model.FavoriteSet, loading bool) {
	m.articles = articles
	m.favorites = favorites
	m.loading = loading
	if m.cursor >= len(m.articles) {
		m.cursor = len(m.articles) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.opts.Width = width
}

// Cursor returns the selected article index.
func (m Model) Cursor() int { return m.cursor }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(km, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, keys.Down):
		if m.cursor < len(m.articles)-1 {
			m.cursor++
		}
	case key.Matches(km, keys.Top):
		m.cursor = 0
	case key.Matches(km, keys.Bottom):
		if len(m.articles) > 0 {
			m.cursor = len(m.articles) - 1
		}
	case key.Matches(km, keys.Toggle):
		if m.toggle != nil && m.cursor < len(m.articles) {
			return m, m.toggle(m.articles[m.cursor].ID)
		}
	}
	return m, nil
}

// View renders the page.
func (m Model) View() string {
	if m.loading {
		return styles.Title.Render("Loading articles...")
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("All News"))
	b.WriteString("\n")
	b.WriteString(card.List(m.articles, m.cursor, m.height-2, m.opts, m.toggle != nil, m.favorites.Has))
	return b.String()
}

// Help returns the page's key hints.
func (m Model) Help() string {
	return styles.KeyHint("j/k", "move", "f", "favorite")
}
