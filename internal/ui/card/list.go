package card

import (
	"strings"

	"github.com/abelbrown/feedbox/internal/model"
)

// approxHeight is the rendered height of a typical card, border included.
const approxHeight = 7

// List renders articles as stacked cards, scrolled so that cursor is
// visible within height lines. isFavorite is only used when toggle is set.
func List(articles []model.Article, cursor, height int, opts Options, toggle bool, isFavorite func(model.ArticleID) bool) string {
	if len(articles) == 0 {
		return ""
	}
	perPage := 1
	if height > approxHeight {
		perPage = height / approxHeight
	}
	offset := 0
	if cursor >= perPage {
		offset = cursor - perPage + 1
	}
	end := offset + perPage
	if end > len(articles) {
		end = len(articles)
	}

	cards := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		a := articles[i]
		fav := toggle && isFavorite != nil && isFavorite(a.ID)
		cards = append(cards, Render(a, opts, i == cursor, toggle, fav))
	}
	return strings.Join(cards, "\n")
}
