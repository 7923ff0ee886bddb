// Package state holds the client's shared application state: the feed list,
// the article list, the favorite set and the loading flag.
//
// The Container is the only writer. Pages read immutable Snapshots and ask
// the Container to mutate; it talks to the backend through a Gateway and
// persists favorites through a favorites.Store.
package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/abelbrown/feedbox/internal/favorites"
	"github.com/abelbrown/feedbox/internal/gateway"
	"github.com/abelbrown/feedbox/internal/logging"
	"github.com/abelbrown/feedbox/internal/model"
	"github.com/abelbrown/feedbox/internal/otel"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrUpdateThrottled is returned by RefreshArticles when an update was
// requested too recently.
var ErrUpdateThrottled = errors.New("update already requested")

// Gateway is the subset of the backend client the container needs.
// *gateway.Client satisfies it.
type Gateway interface {
	ListFeeds(ctx context.Context) ([]model.Feed, error)
	ListArticles(ctx context.Context) ([]model.Article, error)
	AddFeed(ctx context.Context, url model.Feed) error
	RemoveFeed(ctx context.Context, url model.Feed) error
	TriggerUpdate(ctx context.Context) (gateway.UpdateResult, error)
}

// Op names a container operation in the result surface.
type Op string

const (
	OpInit           Op = "init"
	OpAddFeed        Op = "add_feed"
	OpRemoveFeed     Op = "remove_feed"
	OpToggleFavorite Op = "toggle_favorite"
	OpRefresh        Op = "refresh"
)

// Result is the outcome of the most recent call of an Op.
type Result struct {
	Op  Op
	Err error
	At  time.Time
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger. nil discards.
func WithLogger(l *log.Logger) Option {
	return func(c *Container) { c.logger = logging.OrDiscard(l) }
}

// WithEvents sets the event sink for state transitions.
func WithEvents(e otel.Emitter) Option {
	return func(c *Container) { c.events = e }
}

// WithUpdateCooldown limits RefreshArticles to one call per d.
// Zero or negative disables the limit.
func WithUpdateCooldown(d time.Duration) Option {
	return func(c *Container) {
		if d <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithClock overrides time.Now for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Container) { c.now = now }
}

// Container owns the application state.
//
// mu guards the state fields. Gateway and store I/O run without mu held;
// saveMu serializes favorite writes so saves land in toggle order.
type Container struct {
	gw    Gateway
	store favorites.Store

	logger  *log.Logger
	events  otel.Emitter
	limiter *rate.Limiter
	now     func() time.Time

	mu        sync.RWMutex
	feeds     []model.Feed
	articles  []model.Article
	favorites model.FavoriteSet
	loading   bool
	results   map[Op]Result
	version   uint64

	saveMu sync.Mutex

	subMu  sync.Mutex
	subs   map[int]chan Snapshot
	nextID int
}

// New builds a Container and synchronously loads the persisted favorites.
// The container starts in the loading state; call Init to fetch.
func New(gw Gateway, store favorites.Store, opts ...Option) *Container {
	c := &Container{
		gw:       gw,
		store:    store,
		logger:   logging.OrDiscard(nil),
		now:      time.Now,
		feeds:    []model.Feed{},
		articles: []model.Article{},
		loading:  true,
		results:  make(map[Op]Result),
		subs:     make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	if store != nil {
		c.favorites = store.Load()
	}
	return c
}

// Init fetches feeds and articles concurrently. Both lists are replaced
// only if both requests succeed. Loading is cleared either way.
func (c *Container) Init(ctx context.Context) error {
	c.mutate(func() { c.loading = true })

	var (
		feeds    []model.Feed
		articles []model.Article
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		feeds, err = c.gw.ListFeeds(gctx)
		return err
	})
	g.Go(func() (err error) {
		articles, err = c.gw.ListArticles(gctx)
		return err
	})
	err := g.Wait()
	if err != nil {
		err = fmt.Errorf("initial fetch: %w", err)
		c.logger.Error("initial fetch failed", "err", err)
	} else {
		c.logger.Info("initial fetch", "feeds", len(feeds), "articles", len(articles))
	}

	c.mutate(func() {
		if err == nil {
			c.feeds = feeds
			c.articles = articles
		}
		c.loading = false
		c.record(OpInit, err)
	})
	c.emit(otel.KindInit, err, len(articles))
	return err
}

// AddFeed subscribes url (trimmed) and then reloads the feed list from the
// backend. A blank url is ignored.
func (c *Container) AddFeed(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}

	err := c.gw.AddFeed(ctx, url)
	var feeds []model.Feed
	if err == nil {
		feeds, err = c.gw.ListFeeds(ctx)
		if err != nil {
			err = fmt.Errorf("reloading feeds: %w", err)
		}
	}
	if err != nil {
		c.logger.Error("add feed failed", "url", url, "err", err)
	} else {
		c.logger.Info("feed added", "url", url)
	}

	c.mutate(func() {
		if err == nil {
			c.feeds = feeds
		}
		c.record(OpAddFeed, err)
	})
	c.emit(otel.KindFeedAdd, err, len(feeds))
	return err
}

// RemoveFeed unsubscribes url and drops it from the local list.
func (c *Container) RemoveFeed(ctx context.Context, url string) error {
	err := c.gw.RemoveFeed(ctx, url)
	if err != nil {
		c.logger.Error("remove feed failed", "url", url, "err", err)
	} else {
		c.logger.Info("feed removed", "url", url)
	}

	c.mutate(func() {
		if err == nil {
			c.feeds = model.RemoveFeed(c.feeds, url)
		}
		c.record(OpRemoveFeed, err)
	})
	c.emit(otel.KindFeedRemove, err, 0)
	return err
}

// ToggleFavorite flips id's membership in the favorite set and persists
// the whole set. It returns whether id is now a favorite. A failed save
// keeps the in-memory change; the next successful save rewrites the set.
func (c *Container) ToggleFavorite(id model.ArticleID) (bool, error) {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	var (
		set    model.FavoriteSet
		member bool
	)
	c.mutate(func() {
		c.favorites, member = c.favorites.Toggle(id)
		set = c.favorites
	})

	var err error
	if c.store != nil {
		if err = c.store.Save(set); err != nil {
			err = fmt.Errorf("saving favorites: %w", err)
			c.logger.Warn("favorite not persisted", "id", id, "err", err)
		}
	}

	c.mutate(func() { c.record(OpToggleFavorite, err) })
	if err != nil {
		c.emit(otel.KindStoreError, err, set.Len())
	} else {
		c.emit(otel.KindFavorite, nil, set.Len())
	}
	return member, err
}

// SetArticles replaces the article list with articles fetched by the
// caller. The app itself reloads through RefreshArticles, which fetches and
// replaces in one step.
func (c *Container) SetArticles(articles []model.Article) {
	cp := append([]model.Article{}, articles...)
	c.mutate(func() { c.articles = cp })
}

// RefreshArticles asks the backend to poll its feeds and then reloads the
// article list. It does not touch the loading flag.
func (c *Container) RefreshArticles(ctx context.Context) (gateway.UpdateResult, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		c.logger.Debug("update throttled")
		return gateway.UpdateResult{}, ErrUpdateThrottled
	}

	res, err := c.gw.TriggerUpdate(ctx)
	var articles []model.Article
	if err == nil {
		articles, err = c.gw.ListArticles(ctx)
		if err != nil {
			err = fmt.Errorf("reloading articles: %w", err)
		}
	}
	if err != nil {
		res = gateway.UpdateResult{}
		c.logger.Error("update failed", "err", err)
	} else {
		c.logger.Info("update complete", "new_articles", res.NewArticles)
	}

	c.mutate(func() {
		if err == nil {
			c.articles = articles
		}
		c.record(OpRefresh, err)
	})
	c.emit(otel.KindRefresh, err, res.NewArticles)
	return res, err
}

// Snapshot returns a copy of the current state.
func (c *Container) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// LastResult returns the most recent result of op. The zero Result means
// op has not run yet.
func (c *Container) LastResult(op Op) Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.results[op]
}

// Subscribe returns a channel that receives a Snapshot after every state
// change, starting with the current one. Only the newest undelivered
// snapshot is kept. Call cancel to unsubscribe; the channel is then closed.
func (c *Container) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	c.mu.RLock()
	snap := c.snapshotLocked()
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	offer(ch, snap)
	c.subMu.Unlock()
	c.mu.RUnlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// mutate runs fn under the write lock and publishes the resulting state.
func (c *Container) mutate(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
	c.version++
	c.publishLocked(c.snapshotLocked())
}

// record stores a Result. Caller holds mu.
func (c *Container) record(op Op, err error) {
	c.results[op] = Result{Op: op, Err: err, At: c.now()}
}

func (c *Container) snapshotLocked() Snapshot {
	results := make(map[Op]Result, len(c.results))
	for k, v := range c.results {
		results[k] = v
	}
	return Snapshot{
		Feeds:     append([]model.Feed{}, c.feeds...),
		Articles:  append([]model.Article{}, c.articles...),
		Favorites: c.favorites,
		Loading:   c.loading,
		Results:   results,
		Version:   c.version,
	}
}

// publishLocked hands snap to every subscriber. Caller holds mu, which
// keeps deliveries in version order.
func (c *Container) publishLocked(snap Snapshot) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		offer(ch, snap)
	}
}

// offer replaces whatever is buffered in ch with snap. ch has capacity 1
// and offer is only called with subMu held, so this never blocks.
func offer(ch chan Snapshot, snap Snapshot) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

func (c *Container) emit(kind otel.EventKind, err error, count int) {
	if c.events == nil {
		return
	}
	ev := otel.Event{Level: otel.LevelInfo, Kind: kind, Comp: "state", Count: count}
	if err != nil {
		ev.Level = otel.LevelError
		ev.Err = err.Error()
	}
	c.events.Emit(ev)
}
