package state

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/abelbrown/feedbox/internal/apitest"
	"github.com/abelbrown/feedbox/internal/favorites"
	"github.com/abelbrown/feedbox/internal/gateway"
	"github.com/abelbrown/feedbox/internal/model"
	"github.com/abelbrown/feedbox/internal/otel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockGateway is a testify mock of Gateway.
type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) ListFeeds(ctx context.Context) ([]model.Feed, error) {
	args := m.Called(ctx)
	feeds, _ := args.Get(0).([]model.Feed)
	return feeds, args.Error(1)
}

func (m *mockGateway) ListArticles(ctx context.Context) ([]model.Article, error) {
	args := m.Called(ctx)
	articles, _ := args.Get(0).([]model.Article)
	return articles, args.Error(1)
}

func (m *mockGateway) AddFeed(ctx context.Context, url model.Feed) error {
	return m.Called(ctx, url).Error(0)
}

func (m *mockGateway) RemoveFeed(ctx context.Context, url model.Feed) error {
	return m.Called(ctx, url).Error(0)
}

func (m *mockGateway) TriggerUpdate(ctx context.Context) (gateway.UpdateResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(gateway.UpdateResult)
	return res, args.Error(1)
}

// harness wires a Container to the in-memory backend through a real client.
type harness struct {
	backend *apitest.Backend
	store   *favorites.Memory
	c       *Container
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	b := apitest.NewBackend()
	srv := b.Start()
	t.Cleanup(srv.Close)

	store := favorites.NewMemory(nil)
	gw := gateway.NewClient(srv.URL, gateway.Options{Timeout: 5 * time.Second})
	return &harness{backend: b, store: store, c: New(gw, store, opts...)}
}

var boom = errors.New("boom")

func TestNewLoadsFavoritesAndStartsLoading(t *testing.T) {
	store := favorites.NewMemoryWith("[5,6]", nil)
	c := New(new(mockGateway), store)

	snap := c.Snapshot()
	assert.True(t, snap.Loading)
	assert.True(t, snap.IsFavorite(5))
	assert.True(t, snap.IsFavorite(6))
	assert.Empty(t, snap.Feeds)
	assert.Empty(t, snap.Articles)
}

func TestInitReplacesFeedsAndArticles(t *testing.T) {
	h := newHarness(t)
	h.backend.SeedFeeds("https://b.example/rss", "https://a.example/rss")
	h.backend.SeedArticles(
		model.Article{ID: 1, Title: "older", PublishedAt: "2024-01-01T10:30:00Z"},
		model.Article{ID: 2, Title: "newer", PublishedAt: "2024-01-02T10:30:00Z"},
	)

	require.NoError(t, h.c.Init(context.Background()))

	snap := h.c.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []model.Feed{"https://b.example/rss", "https://a.example/rss"}, snap.Feeds)
	require.Len(t, snap.Articles, 2)
	assert.Equal(t, "newer", snap.Articles[0].Title)
	assert.True(t, h.c.LastResult(OpInit).OK())
}

func TestInitFailureReplacesNothing(t *testing.T) {
	h := newHarness(t)
	h.backend.SeedFeeds("https://a.example/rss")
	h.backend.Fail(http.MethodGet, gateway.PathArticles, http.StatusInternalServerError)

	existing := []model.Article{{ID: 9, Title: "cached"}}
	h.c.SetArticles(existing)

	err := h.c.Init(context.Background())
	require.Error(t, err)
	assert.True(t, gateway.IsStatus(err, http.StatusInternalServerError))

	snap := h.c.Snapshot()
	assert.False(t, snap.Loading, "loading must clear on failure")
	assert.Empty(t, snap.Feeds, "feeds must not be replaced when articles fail")
	assert.Equal(t, existing, snap.Articles)

	res := h.c.LastResult(OpInit)
	assert.Equal(t, OpInit, res.Op)
	assert.ErrorIs(t, err, res.Err)
}

func TestInitBothFail(t *testing.T) {
	gw := new(mockGateway)
	gw.On("ListFeeds", mock.Anything).Return(nil, boom)
	gw.On("ListArticles", mock.Anything).Return(nil, boom)

	c := New(gw, nil)
	err := c.Init(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Snapshot().Loading)
}

// gatedGateway blocks ListFeeds until release is closed.
type gatedGateway struct {
	mockGateway
	entered chan struct{}
	release chan struct{}
}

func (g *gatedGateway) ListFeeds(ctx context.Context) ([]model.Feed, error) {
	close(g.entered)
	<-g.release
	return []model.Feed{"https://a.example/rss"}, nil
}

func (g *gatedGateway) ListArticles(ctx context.Context) ([]model.Article, error) {
	return []model.Article{{ID: 1}}, nil
}

func TestInitLoadingWhileInFlight(t *testing.T) {
	gw := &gatedGateway{entered: make(chan struct{}), release: make(chan struct{})}
	c := New(gw, nil)

	done := make(chan error, 1)
	go func() { done <- c.Init(context.Background()) }()

	<-gw.entered
	assert.True(t, c.Snapshot().Loading, "loading should be set while fetches are pending")

	close(gw.release)
	require.NoError(t, <-done)

	snap := c.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []model.Feed{"https://a.example/rss"}, snap.Feeds)
}

func TestAddFeedAdoptsBackendList(t *testing.T) {
	h := newHarness(t)
	h.backend.SeedFeeds("https://old.example/rss")
	require.NoError(t, h.c.Init(context.Background()))

	require.NoError(t, h.c.AddFeed(context.Background(), "  https://new.example/rss  "))

	assert.Equal(t, h.backend.Feeds(), h.c.Snapshot().Feeds)
	assert.Equal(t, []model.Feed{"https://new.example/rss", "https://old.example/rss"}, h.c.Snapshot().Feeds)
	assert.Equal(t, 2, h.backend.Count(http.MethodGet, gateway.PathFeeds), "add should re-fetch the feed list")
}

func TestAddFeedBlankIsNoop(t *testing.T) {
	h := newHarness(t)

	for _, url := range []string{"", "   ", "\t\n"} {
		require.NoError(t, h.c.AddFeed(context.Background(), url))
	}
	assert.Empty(t, h.backend.Requests())
	assert.Equal(t, Result{}, h.c.LastResult(OpAddFeed))
}

func TestAddFeedFailureKeepsFeeds(t *testing.T) {
	h := newHarness(t)
	h.backend.SeedFeeds("https://dup.example/rss")
	require.NoError(t, h.c.Init(context.Background()))

	err := h.c.AddFeed(context.Background(), "https://dup.example/rss")
	require.Error(t, err)

	assert.Equal(t, []model.Feed{"https://dup.example/rss"}, h.c.Snapshot().Feeds)
	assert.False(t, h.c.LastResult(OpAddFeed).OK())
}

func TestAddFeedReloadFailure(t *testing.T) {
	gw := new(mockGateway)
	gw.On("AddFeed", mock.Anything, "https://a.example/rss").Return(nil)
	gw.On("ListFeeds", mock.Anything).Return(nil, boom)

	c := New(gw, nil)
	err := c.AddFeed(context.Background(), "https://a.example/rss")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, c.Snapshot().Feeds)
	gw.AssertExpectations(t)
}

func TestRemoveFeedFiltersLocally(t *testing.T) {
	gw := new(mockGateway)
	gw.On("ListFeeds", mock.Anything).Return([]model.Feed{"a", "b", "c"}, nil).Once()
	gw.On("ListArticles", mock.Anything).Return([]model.Article{}, nil).Once()
	gw.On("RemoveFeed", mock.Anything, "b").Return(nil).Once()

	c := New(gw, nil)
	require.NoError(t, c.Init(context.Background()))
	require.NoError(t, c.RemoveFeed(context.Background(), "b"))

	assert.Equal(t, []model.Feed{"a", "c"}, c.Snapshot().Feeds)
	gw.AssertNumberOfCalls(t, "ListFeeds", 1)
	gw.AssertExpectations(t)
}

func TestRemoveFeedFailureLeavesState(t *testing.T) {
	h := newHarness(t)
	h.backend.SeedFeeds("a", "b")
	require.NoError(t, h.c.Init(context.Background()))
	h.backend.Fail(http.MethodDelete, gateway.PathFeeds, http.StatusInternalServerError)

	require.Error(t, h.c.RemoveFeed(context.Background(), "a"))
	assert.Equal(t, []model.Feed{"a", "b"}, h.c.Snapshot().Feeds)
	assert.False(t, h.c.LastResult(OpRemoveFeed).OK())
}

func TestToggleFavoriteIsInvolution(t *testing.T) {
	store := favorites.NewMemoryWith("[3]", nil)
	c := New(new(mockGateway), store)
	before := c.Snapshot().Favorites.IDs()

	on, err := c.ToggleFavorite(7)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := c.ToggleFavorite(7)
	require.NoError(t, err)
	assert.False(t, off)

	assert.Equal(t, before, c.Snapshot().Favorites.IDs())
	assert.Equal(t, "[3]", store.Raw())
	assert.Equal(t, 2, store.Saves())
}

func TestToggleFavoriteScenario(t *testing.T) {
	h := newHarness(t)
	h.backend.SeedArticles(model.Article{ID: 1, Title: "one"}, model.Article{ID: 2, Title: "two"})
	require.NoError(t, h.c.Init(context.Background()))

	on, err := h.c.ToggleFavorite(1)
	require.NoError(t, err)
	assert.True(t, on)

	favs := h.c.Snapshot().FavoriteArticles()
	require.Len(t, favs, 1)
	assert.Equal(t, model.ArticleID(1), favs[0].ID)
	assert.Equal(t, "[1]", h.store.Raw())
	assert.Zero(t, h.backend.Count(http.MethodPost, gateway.PathArticlesByIDs), "toggling is local")
}

func TestToggleFavoriteSaveFailureKeepsToggle(t *testing.T) {
	store := favorites.NewMemory(nil)
	store.FailWrites(boom)
	c := New(new(mockGateway), store)

	on, err := c.ToggleFavorite(4)
	assert.ErrorIs(t, err, boom)
	assert.True(t, on)
	assert.True(t, c.Snapshot().IsFavorite(4))
	assert.False(t, c.LastResult(OpToggleFavorite).OK())

	store.FailWrites(nil)
	_, err = c.ToggleFavorite(5)
	require.NoError(t, err)
	assert.Equal(t, "[4,5]", store.Raw(), "next save rewrites the full set")
}

func TestConcurrentTogglesAllPersist(t *testing.T) {
	store := favorites.NewMemory(nil)
	c := New(new(mockGateway), store)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(id model.ArticleID) {
			defer wg.Done()
			_, _ = c.ToggleFavorite(id)
		}(model.ArticleID(i))
	}
	wg.Wait()

	assert.Equal(t, 50, c.Snapshot().Favorites.Len())
	assert.Equal(t, 50, favorites.NewMemoryWith(store.Raw(), nil).Load().Len())
}

func TestRefreshArticlesScenario(t *testing.T) {
	h := newHarness(t)
	h.backend.SeedArticles(model.Article{Title: "a"}, model.Article{Title: "b"})
	require.NoError(t, h.c.Init(context.Background()))
	before := len(h.c.Snapshot().Articles)

	h.backend.QueueArticles(model.Article{Title: "c"}, model.Article{Title: "d"}, model.Article{Title: "e"})
	res, err := h.c.RefreshArticles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.NewArticles)
	snap := h.c.Snapshot()
	assert.Len(t, snap.Articles, before+3)
	assert.False(t, snap.Loading, "refresh does not touch loading")
	assert.True(t, h.c.LastResult(OpRefresh).OK())
}

func TestRefreshArticlesFailureKeepsArticles(t *testing.T) {
	h := newHarness(t)
	h.backend.SeedArticles(model.Article{Title: "a"})
	require.NoError(t, h.c.Init(context.Background()))
	h.backend.Fail(http.MethodPost, gateway.PathArticlesUpdate, http.StatusInternalServerError)

	res, err := h.c.RefreshArticles(context.Background())
	require.Error(t, err)
	assert.Zero(t, res.NewArticles)
	assert.Len(t, h.c.Snapshot().Articles, 1)
	assert.Equal(t, 1, h.backend.Count(http.MethodGet, gateway.PathArticles), "no reload after a failed trigger")
}

func TestRefreshArticlesThrottled(t *testing.T) {
	h := newHarness(t, WithUpdateCooldown(time.Hour))

	_, err := h.c.RefreshArticles(context.Background())
	require.NoError(t, err)

	_, err = h.c.RefreshArticles(context.Background())
	assert.ErrorIs(t, err, ErrUpdateThrottled)
	assert.Equal(t, 1, h.backend.Count(http.MethodPost, gateway.PathArticlesUpdate))
}

func TestSubscribeDeliversLatest(t *testing.T) {
	c := New(new(mockGateway), nil)
	ch, cancel := c.Subscribe()

	initial := <-ch
	assert.True(t, initial.Loading)

	c.SetArticles([]model.Article{{ID: 1}})
	c.SetArticles([]model.Article{{ID: 1}, {ID: 2}})
	c.SetArticles([]model.Article{{ID: 1}, {ID: 2}, {ID: 3}})

	latest := <-ch
	assert.Len(t, latest.Articles, 3)
	assert.Equal(t, c.Snapshot().Version, latest.Version)

	select {
	case s := <-ch:
		t.Fatalf("expected no buffered snapshot, got version %d", s.Version)
	default:
	}

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open, "cancel should close the channel")

	c.SetArticles(nil) // must not panic after unsubscribe
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New(new(mockGateway), nil)
	c.SetArticles([]model.Article{{ID: 1, Title: "orig"}})

	snap := c.Snapshot()
	snap.Articles[0].Title = "changed"
	snap.Results[OpInit] = Result{Op: OpInit}

	assert.Equal(t, "orig", c.Snapshot().Articles[0].Title)
	assert.Equal(t, Result{}, c.LastResult(OpInit))
}

func TestSnapshotLastError(t *testing.T) {
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	gw := new(mockGateway)
	gw.On("RemoveFeed", mock.Anything, "a").Return(boom).Once()
	gw.On("RemoveFeed", mock.Anything, "b").Return(nil).Once()

	c := New(gw, nil, WithClock(clock))
	op, err := c.Snapshot().LastError()
	assert.Equal(t, Op(""), op)
	assert.NoError(t, err)

	_ = c.RemoveFeed(context.Background(), "a")
	op, err = c.Snapshot().LastError()
	assert.Equal(t, OpRemoveFeed, op)
	assert.ErrorIs(t, err, boom)

	require.NoError(t, c.RemoveFeed(context.Background(), "b"))
	_, err = c.Snapshot().LastError()
	assert.NoError(t, err)
}

func TestEventsEmitted(t *testing.T) {
	ring := otel.NewRingBuffer(16)
	events := otel.NewNullLogger()
	events.SetRingBuffer(ring)

	store := favorites.NewMemory(nil)
	store.FailWrites(boom)
	gw := new(mockGateway)
	gw.On("ListFeeds", mock.Anything).Return([]model.Feed{}, nil)
	gw.On("ListArticles", mock.Anything).Return([]model.Article{}, nil)

	c := New(gw, store, WithEvents(events))
	require.NoError(t, c.Init(context.Background()))
	_, _ = c.ToggleFavorite(1)
	events.Close()

	stats := ring.Stats()
	assert.Equal(t, 1, stats[otel.KindInit])
	assert.Equal(t, 1, stats[otel.KindStoreError])
}
