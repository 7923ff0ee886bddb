// Command feedboxctl is the maintenance CLI for feedbox.
//
// Usage:
//
//	feedboxctl                  Show help
//	feedboxctl events           JSONL event log viewer
//	feedboxctl stats            Event log and favorites statistics
//	feedboxctl favorites        List stored favorite article IDs
//	feedboxctl ping             Check the backend and list feeds
//	feedboxctl update           Ask the backend to poll all feeds
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

const usage = `feedboxctl - feedbox debug & maintenance CLI

Usage:
  feedboxctl <command> [flags]

Commands:
  events      JSONL event log viewer
  stats       Event counts, API latency and favorites summary
  favorites   List stored favorite article IDs (-resolve fetches titles)
  ping        Check the backend and list subscribed feeds
  update      Trigger a backend update of all feeds

Environment:
  FEEDBOX_API_URL             Backend base URL
  FEEDBOX_DATA_DIR            Data directory (default ~/.feedbox)
  FEEDBOX_FAVORITES_BACKEND   sqlite, bolt, file or memory

Run 'feedboxctl <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "events":
		runEvents()
	case "stats":
		runStats()
	case "favorites":
		runFavorites()
	case "ping":
		runPing()
	case "update":
		runUpdate()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "feedboxctl: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
