package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/abelbrown/feedbox/internal/config"
	"github.com/abelbrown/feedbox/internal/favorites"
	"github.com/abelbrown/feedbox/internal/gateway"
	"github.com/abelbrown/feedbox/internal/logging"
)

var logger = logging.New(os.Stderr, "info")

// configFlag registers the shared -config flag on fs.
func configFlag(fs *flag.FlagSet) *string {
	return fs.String("config", "", "Path to config file (default ~/.feedbox/config.json)")
}

// loadConfig loads the config or fatals.
func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	return cfg
}

// openFavorites opens the configured favorites store or fatals.
func openFavorites(cfg *config.Config) favorites.Store {
	if err := os.MkdirAll(cfg.ResolvedDataDir(), 0755); err != nil {
		logger.Fatal("failed to create data directory", "err", err)
	}
	st, err := favorites.Open(cfg.Favorites.Backend, cfg.FavoritesPath(), logging.Discard())
	if err != nil {
		logger.Fatal("failed to open favorites", "backend", cfg.Favorites.Backend, "err", err)
	}
	return st
}

// newClient returns a gateway client for the configured backend.
func newClient(cfg *config.Config) *gateway.Client {
	return gateway.NewClient(cfg.API.BaseURL, gateway.Options{Timeout: cfg.Timeout()})
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// commandContext bounds a one-shot backend call by the configured timeout,
// or a minute when the config disables it.
func commandContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	d := cfg.Timeout()
	if d <= 0 {
		d = time.Minute
	}
	return context.WithTimeout(context.Background(), d)
}
