package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

func runPing() {
	fs := flag.NewFlagSet("ping", flag.ExitOnError)
	configPath := configFlag(fs)
	_ = fs.Parse(os.Args[1:])

	cfg := loadConfig(*configPath)
	client := newClient(cfg)

	ctx, cancel := commandContext(cfg)
	defer cancel()

	start := time.Now()
	feeds, err := client.ListFeeds(ctx)
	if err != nil {
		logger.Fatal("backend unreachable", "url", client.BaseURL(), "err", err)
	}
	fmt.Printf("Backend:               %s (%s)\n", client.BaseURL(), time.Since(start).Round(time.Millisecond))
	fmt.Printf("Feeds (%d):\n", len(feeds))
	for _, f := range feeds {
		fmt.Printf("  %s\n", f)
	}

	articles, err := client.ListArticles(ctx)
	if err != nil {
		logger.Fatal("failed to list articles", "err", err)
	}
	fmt.Printf("Articles:              %d\n", len(articles))
}

func runUpdate() {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	configPath := configFlag(fs)
	_ = fs.Parse(os.Args[1:])

	cfg := loadConfig(*configPath)
	client := newClient(cfg)

	ctx, cancel := commandContext(cfg)
	defer cancel()

	res, err := client.TriggerUpdate(ctx)
	if err != nil {
		logger.Fatal("update failed", "err", err)
	}
	fmt.Printf("Update complete! Found %d new articles.\n", res.NewArticles)
}
