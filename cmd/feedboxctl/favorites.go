package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/abelbrown/feedbox/internal/model"
)

func runFavorites() {
	fs := flag.NewFlagSet("favorites", flag.ExitOnError)
	configPath := configFlag(fs)
	resolve := fs.Bool("resolve", false, "Fetch article titles from the backend")
	_ = fs.Parse(os.Args[1:])

	cfg := loadConfig(*configPath)
	st := openFavorites(cfg)
	defer st.Close()

	ids := st.Load().IDs()
	if len(ids) == 0 {
		fmt.Println("No favorite articles stored.")
		return
	}

	if !*resolve {
		for _, id := range ids {
			fmt.Println(id)
		}
		return
	}

	ctx, cancel := commandContext(cfg)
	defer cancel()
	articles, err := newClient(cfg).ArticlesByIDs(ctx, ids)
	if err != nil {
		logger.Fatal("failed to fetch favorite articles", "err", err)
	}
	for _, line := range favoriteLines(ids, articles) {
		fmt.Println(line)
	}
}

// favoriteLines renders one line per stored ID, in stored order. IDs the
// backend no longer knows are marked as missing.
func favoriteLines(ids []model.ArticleID, articles []model.Article) []string {
	byID := make(map[model.ArticleID]model.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			lines = append(lines, fmt.Sprintf("%-8d (missing on backend)", id))
			continue
		}
		lines = append(lines, fmt.Sprintf("%-8d %s", id, truncate(a.Title, 70)))
	}
	return lines
}
