package news

import (
	"strings"
	"testing"

	"github.com/abelbrown/feedbox/internal/model"
	"github.com/abelbrown/feedbox/internal/ui/card"
	tea "github.com/charmbracelet/bubbletea"
)

func testArticles() []model.Article {
	return []model.Article{
		{ID: 1, Title: "First", FeedSourceURL: "https://example.com/rss", PublishedAt: "2024-01-01T10:30:00Z"},
		{ID: 2, Title: "Second", FeedSourceURL: "https://other.example/rss"},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadingView(t *testing.T) {
	m := New(nil, card.Options{})
	if view := m.View(); !strings.Contains(view, "Loading articles...") {
		t.Errorf("new page should show loading, got:\n%s", view)
	}
}

func TestShowsArticles(t *testing.T) {
	m := New(func(model.ArticleID) tea.Cmd { return nil }, card.Options{})
	m.SetSize(120, 40)
	m.SetState(testArticles(), model.NewFavoriteSet(2), false)

	view := m.View()
	for _, want := range []string{"All News", "First", "Second", "example.com", "[Favorite]", "[Unfavorite]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Loading articles...") {
		t.Error("loading text should be gone")
	}
}

func TestToggleSelected(t *testing.T) {
	var toggled []model.ArticleID
	toggle := func(id model.ArticleID) tea.Cmd {
		toggled = append(toggled, id)
		return func() tea.Msg { return ToggledMsg{ID: id, Favorite: true} }
	}
	m := New(toggle, card.Options{})
	m.SetState(testArticles(), model.NewFavoriteSet(), false)

	m, cmd := m.Update(runes("f"))
	if cmd == nil {
		t.Fatal("f should return the toggle command")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(toggled) != 2 || toggled[0] != 1 || toggled[1] != 2 {
		t.Errorf("expected toggles [1 2], got %v", toggled)
	}
}

func TestToggleWithNoArticles(t *testing.T) {
	called := false
	m := New(func(model.ArticleID) tea.Cmd { called = true; return nil }, card.Options{})
	m.SetState(nil, model.NewFavoriteSet(), false)

	if _, cmd := m.Update(runes("f")); cmd != nil || called {
		t.Error("toggle with no articles should do nothing")
	}
}

func TestNavigationBounds(t *testing.T) {
	m := New(nil, card.Options{})
	m.SetState(testArticles(), model.NewFavoriteSet(), false)

	m, _ = m.Update(runes("k"))
	if m.Cursor() != 0 {
		t.Errorf("cursor should stay at 0, got %d", m.Cursor())
	}
	m, _ = m.Update(runes("G"))
	if m.Cursor() != 1 {
		t.Errorf("G should go to last, got %d", m.Cursor())
	}
	m, _ = m.Update(runes("j"))
	if m.Cursor() != 1 {
		t.Errorf("cursor should stay at last, got %d", m.Cursor())
	}
	m, _ = m.Update(runes("g"))
	if m.Cursor() != 0 {
		t.Errorf("g should go to first, got %d", m.Cursor())
	}

	m, _ = m.Update(runes("G"))
	m.SetState(testArticles()[:1], model.NewFavoriteSet(), false)
	if m.Cursor() != 0 {
		t.Errorf("cursor should clamp after shrink, got %d", m.Cursor())
	}
}
