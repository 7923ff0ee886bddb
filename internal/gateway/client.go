// Package gateway is the HTTP client for the aggregation backend's REST API.
//
// Each call is a single request/response round trip. The client never
// retries; callers decide what a failure means.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abelbrown/feedbox/internal/logging"
	"github.com/abelbrown/feedbox/internal/model"
	"github.com/abelbrown/feedbox/internal/otel"
	"github.com/charmbracelet/log"
)

// API paths.
const (
	PathFeeds          = "/api/feeds"
	PathArticles       = "/api/articles"
	PathArticlesByIDs  = "/api/articles/by-ids"
	PathArticlesUpdate = "/api/articles/update"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 512

// UpdateResult is the backend's answer to an update trigger.
type UpdateResult struct {
	NewArticles int `json:"new_articles_count"`
}

// Options configures a Client. The zero value is usable.
type Options struct {
	Timeout    time.Duration // 0 = no client timeout
	HTTPClient *http.Client  // overrides Timeout when set
	Logger     *log.Logger
	Events     otel.Emitter
}

// Client talks to the backend at a fixed base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
	events     otel.Emitter
}

// NewClient returns a Client for baseURL (e.g. "http://localhost:8080").
func NewClient(baseURL string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: hc,
		logger:     logging.OrDiscard(opts.Logger),
		events:     opts.Events,
	}
}

// BaseURL returns the backend root this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListFeeds returns the subscribed feed URLs in backend order.
func (c *Client) ListFeeds(ctx context.Context) ([]model.Feed, error) {
	var feeds []model.Feed
	if err := c.call(ctx, "list feeds", http.MethodGet, PathFeeds, nil, &feeds); err != nil {
		return nil, err
	}
	if feeds == nil {
		feeds = []model.Feed{}
	}
	return feeds, nil
}

// ListArticles returns every article the backend knows, in backend order.
func (c *Client) ListArticles(ctx context.Context) ([]model.Article, error) {
	var articles []model.Article
	if err := c.call(ctx, "list articles", http.MethodGet, PathArticles, nil, &articles); err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []model.Article{}
	}
	return articles, nil
}

// ArticlesByIDs returns the articles with the given IDs. An empty ids
// slice returns an empty result without a request.
func (c *Client) ArticlesByIDs(ctx context.Context, ids []model.ArticleID) ([]model.Article, error) {
	if len(ids) == 0 {
		return []model.Article{}, nil
	}
	body := struct {
		IDs []model.ArticleID `json:"ids"`
	}{IDs: ids}

	var articles []model.Article
	if err := c.call(ctx, "articles by ids", http.MethodPost, PathArticlesByIDs, body, &articles); err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []model.Article{}
	}
	return articles, nil
}

// AddFeed subscribes url. It does not refresh anything.
func (c *Client) AddFeed(ctx context.Context, url model.Feed) error {
	return c.call(ctx, "add feed", http.MethodPost, PathFeeds, feedRequest{URL: url}, nil)
}

// RemoveFeed unsubscribes url.
func (c *Client) RemoveFeed(ctx context.Context, url model.Feed) error {
	return c.call(ctx, "remove feed", http.MethodDelete, PathFeeds, feedRequest{URL: url}, nil)
}

// TriggerUpdate asks the backend to poll all feeds now.
func (c *Client) TriggerUpdate(ctx context.Context) (UpdateResult, error) {
	var res UpdateResult
	if err := c.call(ctx, "trigger update", http.MethodPost, PathArticlesUpdate, nil, &res); err != nil {
		return UpdateResult{}, err
	}
	return res, nil
}

type feedRequest struct {
	URL string `json:"url"`
}

// call performs one request. in is JSON-encoded as the body when non-nil;
// out, when non-nil, receives the decoded 2xx response body.
func (c *Client) call(ctx context.Context, op, method, path string, in, out any) error {
	start := time.Now()
	status, err := c.do(ctx, op, method, path, in, out)
	dur := time.Since(start)

	ev := otel.Event{
		Level:  otel.LevelInfo,
		Kind:   otel.KindAPIRequest,
		Comp:   "gateway",
		Method: method,
		Path:   path,
		Status: status,
		Dur:    dur,
	}
	if err != nil {
		ev.Level = otel.LevelError
		ev.Kind = otel.KindAPIError
		ev.Err = err.Error()
		c.logger.Warn("api request failed", "op", op, "method", method, "path", path, "status", status, "err", err)
	} else {
		c.logger.Debug("api request", "op", op, "method", method, "path", path, "status", status, "dur", dur)
	}
	if c.events != nil {
		c.events.Emit(ev)
	}
	return err
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (int, error) {
	fail := func(status int, err error) (int, error) {
		return status, &RequestError{Op: op, Method: method, Path: path, StatusCode: status, Err: err}
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fail(0, fmt.Errorf("encoding request: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fail(0, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, fmt.Errorf("executing request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, &RequestError{
			Op:         op,
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fail(resp.StatusCode, fmt.Errorf("decoding response: %w", err))
		}
	}
	return resp.StatusCode, nil
}
