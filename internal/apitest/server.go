// Package apitest is an in-memory stand-in for the aggregation backend.
//
// It serves the same REST surface as the real backend, keeps its data in
// memory, and lets tests inject failures per route. cmd/mockapi serves it
// over a real listener for local development.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"time"

	"github.com/abelbrown/feedbox/internal/model"
	"github.com/gorilla/mux"
)

// Backend holds the fake backend's state.
type Backend struct {
	mu       sync.Mutex
	feeds    []model.Feed // newest first, like ORDER BY created_at DESC
	articles []model.Article
	pending  []model.Article // delivered by the next update trigger
	nextID   model.ArticleID
	faults   map[string]int // "METHOD path" -> status
	requests []string
	router   *mux.Router
}

// NewBackend returns an empty backend.
func NewBackend() *Backend {
	b := &Backend{
		nextID: 1,
		faults: make(map[string]int),
	}

	r := mux.NewRouter()
	r.Use(b.record)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/feeds", b.listFeeds).Methods(http.MethodGet)
	api.HandleFunc("/feeds", b.addFeed).Methods(http.MethodPost)
	api.HandleFunc("/feeds", b.removeFeed).Methods(http.MethodDelete)
	api.HandleFunc("/articles", b.listArticles).Methods(http.MethodGet)
	api.HandleFunc("/articles/by-ids", b.articlesByIDs).Methods(http.MethodPost)
	api.HandleFunc("/articles/update", b.update).Methods(http.MethodPost)
	b.router = r
	return b
}

// Start serves b on a loopback httptest server. Close it when done.
func (b *Backend) Start() *httptest.Server {
	return httptest.NewServer(b)
}

// ServeHTTP implements http.Handler.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// SeedFeeds replaces the feed list. feeds are given newest first.
func (b *Backend) SeedFeeds(feeds ...model.Feed) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.feeds = append([]model.Feed(nil), feeds...)
}

// SeedArticles adds articles, assigning IDs to those with ID 0.
func (b *Backend) SeedArticles(articles ...model.Article) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.articles = append(b.articles, b.assignIDs(articles)...)
	sortArticles(b.articles)
}

// QueueArticles stages articles that the next update trigger will add.
func (b *Backend) QueueArticles(articles ...model.Article) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, articles...)
}

// Fail makes method+path answer with status until Heal is called.
func (b *Backend) Fail(method, path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults[method+" "+path] = status
}

// Heal clears every injected fault.
func (b *Backend) Heal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults = make(map[string]int)
}

// Feeds returns the backend's current feed list.
func (b *Backend) Feeds() []model.Feed {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Feed(nil), b.feeds...)
}

// Requests returns "METHOD path" for every request served so far.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

// Count returns how many times "METHOD path" was requested.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r == method+" "+path {
			n++
		}
	}
	return n
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		b.mu.Lock()
		b.requests = append(b.requests, key)
		status, faulty := b.faults[key]
		b.mu.Unlock()

		if faulty {
			http.Error(w, "injected failure", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) listFeeds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, b.Feeds())
}

type feedRequest struct {
	URL string `json:"url"`
}

func (b *Backend) addFeed(w http.ResponseWriter, r *http.Request) {
	var req feedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, f := range b.feeds {
		if f == req.URL {
			http.Error(w, "Failed to add feed", http.StatusInternalServerError)
			return
		}
	}
	b.feeds = append([]model.Feed{req.URL}, b.feeds...)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "success"})
}

func (b *Backend) removeFeed(w http.ResponseWriter, r *http.Request) {
	var req feedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	b.feeds = model.RemoveFeed(b.feeds, req.URL)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (b *Backend) listArticles(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	out := append([]model.Article{}, b.articles...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) articlesByIDs(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []model.ArticleID `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	want := model.NewFavoriteSet(req.IDs...)

	b.mu.Lock()
	out := model.FilterFavorites(b.articles, want)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) update(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	added := b.assignIDs(b.pending)
	b.pending = nil
	b.articles = append(b.articles, added...)
	sortArticles(b.articles)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "success",
		"new_articles_count": len(added),
	})
}

// assignIDs gives fresh IDs to articles without one. Caller holds b.mu.
func (b *Backend) assignIDs(articles []model.Article) []model.Article {
	out := make([]model.Article, len(articles))
	for i, a := range articles {
		if a.ID == 0 {
			a.ID = b.nextID
		}
		if a.ID >= b.nextID {
			b.nextID = a.ID + 1
		}
		out[i] = a
	}
	return out
}

// sortArticles orders newest first with undated articles last.
func sortArticles(articles []model.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		ti, erri := time.Parse(time.RFC3339, articles[i].PublishedAt)
		tj, errj := time.Parse(time.RFC3339, articles[j].PublishedAt)
		switch {
		case erri != nil:
			return false
		case errj != nil:
			return true
		default:
			return ti.After(tj)
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
