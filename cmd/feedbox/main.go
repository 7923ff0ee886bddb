// Command feedbox is a terminal client for the feed aggregation backend.
//
// It lists and manages subscribed feeds, shows the aggregated articles,
// and keeps a local set of favorite articles.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/abelbrown/feedbox/internal/config"
	"github.com/abelbrown/feedbox/internal/favorites"
	"github.com/abelbrown/feedbox/internal/gateway"
	"github.com/abelbrown/feedbox/internal/logging"
	"github.com/abelbrown/feedbox/internal/otel"
	"github.com/abelbrown/feedbox/internal/state"
	"github.com/abelbrown/feedbox/internal/ui"
	"github.com/abelbrown/feedbox/internal/ui/card"
	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default ~/.feedbox/config.json)")
	apiURL := flag.String("api", "", "Backend base URL (overrides config and FEEDBOX_API_URL)")
	start := flag.String("page", "", "Initial page: /, /news or /favorites")
	flag.Parse()

	if err := run(*configPath, *apiURL, ui.Route(*start)); err != nil {
		fmt.Fprintf(os.Stderr, "feedbox: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, apiURL string, start ui.Route) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	dataDir := cfg.ResolvedDataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger, err := logging.Init(dataDir, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	events, closeEvents := openEventLog(cfg.EventLogPath())
	defer closeEvents()
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	events.SetRingBuffer(ring)
	events.Info(otel.KindStartup, "main", "feedbox starting")

	store, err := favorites.Open(cfg.Favorites.Backend, cfg.FavoritesPath(), logger)
	if err != nil {
		return fmt.Errorf("open favorites: %w", err)
	}
	defer store.Close()
	logging.OrDiscard(logger).Info("favorites store opened", "backend", cfg.Favorites.Backend, "path", cfg.FavoritesPath())

	client := gateway.NewClient(cfg.API.BaseURL, gateway.Options{
		Timeout: cfg.Timeout(),
		Logger:  logger,
		Events:  events,
	})

	container := state.New(client, store,
		state.WithLogger(logger),
		state.WithEvents(events),
		state.WithUpdateCooldown(cfg.UpdateCooldown()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := ui.NewApp(container, ui.Options{
		Context: ctx,
		Ring:    ring,
		Events:  events,
		Start:   start,
		Card: card.Options{
			TimeLayout:   cfg.UI.TimeFormat,
			Location:     time.Local,
			RelativeTime: cfg.UI.RelativeTime,
		},
	})
	defer app.Close()

	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()

	events.Info(otel.KindShutdown, "main", "feedbox exiting")
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// openEventLog opens the JSONL event log, falling back to a null logger
// that still feeds the debug overlay.
func openEventLog(path string) (*otel.Logger, func()) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			l := otel.NewLogger(f)
			return l, func() {
				l.Close()
				_ = f.Close()
			}
		}
	}
	l := otel.NewNullLogger()
	return l, l.Close
}
