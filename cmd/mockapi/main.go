// Command mockapi serves an in-memory aggregation backend for local
// development and end-to-end tests.
//
//	mockapi -addr :8080 -seed
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abelbrown/feedbox/internal/apitest"
	"github.com/abelbrown/feedbox/internal/logging"
	"github.com/abelbrown/feedbox/internal/model"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	seed := flag.Bool("seed", false, "Start with demo feeds and articles")
	level := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	logger := logging.New(os.Stderr, *level)

	backend := apitest.NewBackend()
	if *seed {
		seedDemo(backend)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           backend,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("mock backend listening", "addr", *addr, "seeded", *seed)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", "err", err)
	}
	logger.Info("mock backend stopped", "requests", len(backend.Requests()))
}

func seedDemo(b *apitest.Backend) {
	now := time.Now().UTC()
	b.SeedFeeds(
		"https://news.ycombinator.com/rss",
		"https://lobste.rs/rss",
	)
	b.SeedArticles(
		model.Article{
			Title:         "Show HN: A terminal feed reader",
			Content:       "A small TUI for reading aggregated feeds.",
			Link:          "https://news.ycombinator.com/item?id=1",
			FeedSourceURL: "https://news.ycombinator.com/rss",
			PublishedAt:   now.Add(-20 * time.Minute).Format(time.RFC3339),
		},
		model.Article{
			Title:         "Notes on structured logging",
			Content:       "Key/value logs beat format strings.",
			Link:          "https://lobste.rs/s/abc123",
			FeedSourceURL: "https://lobste.rs/rss",
			PublishedAt:   now.Add(-3 * time.Hour).Format(time.RFC3339),
		},
		model.Article{
			Title:         "An undated post",
			Link:          "https://lobste.rs/s/def456",
			FeedSourceURL: "https://lobste.rs/rss",
		},
	)
	b.QueueArticles(model.Article{
		Title:         "Fresh from the last poll",
		Link:          "https://news.ycombinator.com/item?id=2",
		FeedSourceURL: "https://news.ycombinator.com/rss",
		PublishedAt:   now.Format(time.RFC3339),
	})
}
