package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

// eventSummary aggregates an event log.
type eventSummary struct {
	Total     int
	Malformed int
	ByKind    map[string]int
	ByLevel   map[string]int
	Sessions  map[string]struct{}
	First     time.Time
	Last      time.Time

	Requests   int
	APIErrors  int
	TotalDurMs float64
	MaxDurMs   float64
	SlowestReq string
}

// AvgDurMs is the mean latency of timed API calls.
func (s eventSummary) AvgDurMs() float64 {
	if s.Requests+s.APIErrors == 0 {
		return 0
	}
	return s.TotalDurMs / float64(s.Requests+s.APIErrors)
}

func summarize(r io.Reader) eventSummary {
	s := eventSummary{
		ByKind:   map[string]int{},
		ByLevel:  map[string]int{},
		Sessions: map[string]struct{}{},
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(raw, &ev) != nil {
			s.Malformed++
			continue
		}
		s.Total++
		s.ByKind[ev.Kind]++
		if ev.Level != "" {
			s.ByLevel[ev.Level]++
		}
		if ev.SessionID != "" {
			s.Sessions[ev.SessionID] = struct{}{}
		}
		if !ev.Time.IsZero() {
			if s.First.IsZero() || ev.Time.Before(s.First) {
				s.First = ev.Time
			}
			if ev.Time.After(s.Last) {
				s.Last = ev.Time
			}
		}

		switch ev.Kind {
		case "api.request":
			s.Requests++
		case "api.error":
			s.APIErrors++
		default:
			continue
		}
		s.TotalDurMs += ev.DurMs
		if ev.DurMs > s.MaxDurMs {
			s.MaxDurMs = ev.DurMs
			s.SlowestReq = ev.Method + " " + ev.Path
		}
	}
	return s
}

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := configFlag(fs)
	noFavs := fs.Bool("no-favorites", false, "Skip opening the favorites store")
	_ = fs.Parse(os.Args[1:])

	cfg := loadConfig(*configPath)

	// --- Event log ---

	logPath := cfg.EventLogPath()
	f, err := os.Open(logPath)
	if err != nil {
		fmt.Printf("Event log:             none (%s)\n", logPath)
	} else {
		s := summarize(f)
		f.Close()
		printSummary(s)
	}

	// --- Favorites ---
	if *noFavs {
		return
	}

	st := openFavorites(cfg)
	defer st.Close()

	set := st.Load()
	fmt.Println()
	fmt.Println("=== Favorites ===")
	fmt.Printf("Backend:               %s\n", cfg.Favorites.Backend)
	if p := cfg.FavoritesPath(); p != "" {
		fmt.Printf("Path:                  %s\n", p)
	}
	fmt.Printf("Stored IDs:            %s\n", humanize.Comma(int64(set.Len())))
}

func printSummary(s eventSummary) {
	fmt.Printf("Events:                %s\n", humanize.Comma(int64(s.Total)))
	if s.Malformed > 0 {
		fmt.Printf("Malformed lines:       %d\n", s.Malformed)
	}
	fmt.Printf("Sessions:              %d\n", len(s.Sessions))
	if !s.First.IsZero() {
		fmt.Printf("First event:           %s (%s)\n", s.First.Format(time.RFC3339), humanize.Time(s.First))
		fmt.Printf("Last event:            %s (%s)\n", s.Last.Format(time.RFC3339), humanize.Time(s.Last))
	}

	fmt.Println()
	fmt.Println("=== API ===")
	fmt.Printf("Requests:              %d ok, %d errors\n", s.Requests, s.APIErrors)
	if s.Requests+s.APIErrors > 0 {
		fmt.Printf("Mean latency:          %.1fms\n", s.AvgDurMs())
		fmt.Printf("Slowest:               %.1fms %s\n", s.MaxDurMs, s.SlowestReq)
	}

	fmt.Println()
	fmt.Println("=== By level ===")
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		if n := s.ByLevel[lvl]; n > 0 {
			fmt.Printf("  %-8s %d\n", lvl, n)
		}
	}

	fmt.Println()
	fmt.Printf("=== By kind (%d) ===\n", len(s.ByKind))
	kinds := make([]string, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-22s %d\n", k, s.ByKind[k])
	}
}
