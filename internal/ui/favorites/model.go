// Package favorites is the favorite-articles page. Cards here are
// read-only; favorites are toggled from the news page.
package favorites

import (
	"strings"

	"github.com/abelbrown/feedbox/internal/model"
	"github.com/abelbrown/feedbox/internal/ui/card"
	"github.com/abelbrown/feedbox/internal/ui/styles"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var keys = struct {
	Up   key.Binding
	Down key.Binding
}{
	Up:   key.NewBinding(key.WithKeys("k", "up")),
	Down: key.NewBinding(key.WithKeys("j", "down")),
}

// Model is the favorites page.
type Model struct {
	articles []model.Article
	cursor   int
	opts     card.Options
	width    int
	height   int
}

// New creates the page.
func New(opts card.Options) Model {
	return Model{opts: opts}
}

// SetState shows the articles whose IDs are in favorites, in article
// order. IDs with no loaded article are skipped.
func (m *Model) SetState(articles []model.Article, favs model.FavoriteSet) {
	m.articles = model.FilterFavorites(articles, favs)
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

// Articles returns the displayed articles.
func (m Model) Articles() []model.Article { return m.articles }

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
	}
	return m, nil
}

// View renders the page.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Favorite Articles"))
	b.WriteString("\n")
	if len(m.articles) == 0 {
		b.WriteString(styles.Empty.Render("You have no favorite articles yet."))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(card.List(m.articles, m.cursor, m.height-2, m.opts, false, nil))
	return b.String()
}

// Help returns the page's key hints.
func (m Model) Help() string {
	return styles.KeyHint("j/k", "move")
}
