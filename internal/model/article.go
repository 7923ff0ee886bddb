// Package model holds the data types shared by feedbox's layers.
package model

// Feed is a subscribed RSS source, identified by its URL.
type Feed = string

// ArticleID is the backend's opaque article identifier.
type ArticleID int64

// Article is a single aggregated news item. Articles are immutable once
// fetched; the full list is replaced on every fetch.
type Article struct {
	ID            ArticleID `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Link          string    `json:"link"`
	FeedSourceURL string    `json:"feedSourceUrl"`
	PublishedAt   string    `json:"publishedAt"` // raw ISO-8601, may be empty
}

// FilterFavorites returns the articles whose ID is in favs, in article order.
// IDs in favs with no matching article are ignored.
func FilterFavorites(articles []Article, favs FavoriteSet) []Article {
	out := make([]Article, 0, favs.Len())
	for _, a := range articles {
		if favs.Has(a.ID) {
			out = append(out, a)
		}
	}
	return out
}

// RemoveFeed returns feeds without url. Other entries keep their order.
func RemoveFeed(feeds []Feed, url Feed) []Feed {
	out := make([]Feed, 0, len(feeds))
	for _, f := range feeds {
		if f != url {
			out = append(out, f)
		}
	}
	return out
}
