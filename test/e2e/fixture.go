package e2e

import (
	"net/http/httptest"
	"time"

	"github.com/abelbrown/feedbox/internal/apitest"
	"github.com/abelbrown/feedbox/internal/model"
)

const (
	fixtureFeed  = "https://fixture.example/rss"
	fixtureTitle = "Fixture Article One"
)

// startFixtureBackend serves one feed and one article (ID 1).
func startFixtureBackend() (*apitest.Backend, *httptest.Server) {
	b := apitest.NewBackend()
	b.SeedFeeds(fixtureFeed)
	b.SeedArticles(model.Article{
		Title:         fixtureTitle,
		Content:       "A deterministic article for UI tests.",
		Link:          "https://fixture.example/posts/1",
		FeedSourceURL: fixtureFeed,
		PublishedAt:   time.Now().UTC().Add(-time.Hour).Format(time.RFC3339),
	})
	return b, b.Start()
}
