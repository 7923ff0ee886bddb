package state

import "github.com/abelbrown/feedbox/internal/model"

// Snapshot is a point-in-time copy of the container state. Its slices are
// owned by the receiver.
type Snapshot struct {
	Feeds     []model.Feed
	Articles  []model.Article
	Favorites model.FavoriteSet
	Loading   bool
	Results   map[Op]Result
	Version   uint64
}

// IsFavorite reports whether id is in the favorite set.
func (s Snapshot) IsFavorite(id model.ArticleID) bool {
	return s.Favorites.Has(id)
}

// FavoriteArticles returns the loaded articles that are favorites, in
// article order. Favorite IDs with no loaded article are skipped.
func (s Snapshot) FavoriteArticles() []model.Article {
	return model.FilterFavorites(s.Articles, s.Favorites)
}

// LastError returns the error of the most recent failed operation, if the
// most recent operation overall failed.
func (s Snapshot) LastError() (Op, error) {
	var latest Result
	for _, r := range s.Results {
		if r.At.After(latest.At) || latest.Op == "" {
			latest = r
		}
	}
	if latest.Err == nil {
		return "", nil
	}
	return latest.Op, latest.Err
}
