package favorites

import (
	"strings"
	"testing"

	"github.com/abelbrown/feedbox/internal/model"
	"github.com/abelbrown/feedbox/internal/ui/card"
)

func TestEmpty(t *testing.T) {
	m := New(card.Options{})
	m.SetState([]model.Article{{ID: 1, Title: "One"}}, model.NewFavoriteSet())

	view := m.View()
	if !strings.Contains(view, "Favorite Articles") {
		t.Error("view should contain title")
	}
	if !strings.Contains(view, "You have no favorite articles yet.") {
		t.Errorf("view should show empty text, got:\n%s", view)
	}
}

func TestShowsOnlyFavorites(t *testing.T) {
	m := New(card.Options{})
	m.SetSize(120, 40)
	m.SetState([]model.Article{
		{ID: 1, Title: "One"},
		{ID: 2, Title: "Two"},
		{ID: 3, Title: "Three"},
	}, model.NewFavoriteSet(3, 1))

	got := m.Articles()
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("expected articles 1 and 3 in article order, got %v", got)
	}

	view := m.View()
	if strings.Contains(view, "Two") {
		t.Error("non-favorite should not render")
	}
	if strings.Contains(view, "avorite]") {
		t.Error("favorites cards are read-only")
	}
}

func TestStaleFavoriteIDIsSkipped(t *testing.T) {
	m := New(card.Options{})
	m.SetState([]model.Article{{ID: 1, Title: "One"}}, model.NewFavoriteSet(42))

	if len(m.Articles()) != 0 {
		t.Errorf("id with no article should yield no card, got %v", m.Articles())
	}
	if !strings.Contains(m.View(), "You have no favorite articles yet.") {
		t.Error("all-stale favorites should show the empty text")
	}
}
