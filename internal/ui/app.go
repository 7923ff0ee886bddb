package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abelbrown/feedbox/internal/gateway"
	"github.com/abelbrown/feedbox/internal/model"
	"github.com/abelbrown/feedbox/internal/otel"
	"github.com/abelbrown/feedbox/internal/state"
	"github.com/abelbrown/feedbox/internal/ui/card"
	"github.com/abelbrown/feedbox/internal/ui/favorites"
	"github.com/abelbrown/feedbox/internal/ui/feeds"
	"github.com/abelbrown/feedbox/internal/ui/news"
	"github.com/abelbrown/feedbox/internal/ui/styles"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Route identifies a page.
type Route string

const (
	RouteFeeds     Route = "/"
	RouteNews      Route = "/news"
	RouteFavorites Route = "/favorites"
)

var routes = []Route{RouteFeeds, RouteNews, RouteFavorites}

func (r Route) label() string {
	switch r {
	case RouteNews:
		return "News"
	case RouteFavorites:
		return "Favorites"
	default:
		return "Feeds"
	}
}

// Container is the state the shell drives. *state.Container satisfies it.
type Container interface {
	Init(ctx context.Context) error
	AddFeed(ctx context.Context, url string) error
	RemoveFeed(ctx context.Context, url string) error
	ToggleFavorite(id model.ArticleID) (bool, error)
	RefreshArticles(ctx context.Context) (gateway.UpdateResult, error)
	Subscribe() (<-chan state.Snapshot, func())
}

// Options configures the App.
type Options struct {
	Context context.Context  // parent for container calls; nil = Background
	Ring    *otel.RingBuffer // feeds the debug overlay; nil disables it
	Events  otel.Emitter     // receives route changes
	Card    card.Options     // time and layout settings for article cards
	Start   Route            // initial page; "" = feeds
}

// Key bindings
var keys = struct {
	Quit      key.Binding
	Feeds     key.Binding
	News      key.Binding
	Favorites key.Binding
	Next      key.Binding
	Prev      key.Binding
	Debug     key.Binding
}{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Feeds:     key.NewBinding(key.WithKeys("1")),
	News:      key.NewBinding(key.WithKeys("2")),
	Favorites: key.NewBinding(key.WithKeys("3")),
	Next:      key.NewBinding(key.WithKeys("tab")),
	Prev:      key.NewBinding(key.WithKeys("shift+tab")),
	Debug:     key.NewBinding(key.WithKeys("D")),
}

// App is the root Bubble Tea model.
// App does not hold the container's state; it renders Snapshots received
// over its subscription and sends every mutation back through commands.
type App struct {
	container   Container
	ctx         context.Context
	updates     <-chan state.Snapshot
	unsubscribe func()
	ring        *otel.RingBuffer
	events      otel.Emitter

	route     Route
	feeds     feeds.Model
	news      news.Model
	favorites favorites.Model
	spinner   spinner.Model

	snap         state.Snapshot
	err          error
	width        int
	height       int
	ready        bool
	debugVisible bool
}

// NewApp wires the pages to c and subscribes to its state.
func NewApp(c Container, opts Options) App {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	route := opts.Start
	if route == "" {
		route = RouteFeeds
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	a := App{
		container: c,
		ctx:       ctx,
		ring:      opts.Ring,
		events:    opts.Events,
		route:     route,
		spinner:   s,
		snap:      state.Snapshot{Loading: true},
	}
	a.updates, a.unsubscribe = c.Subscribe()

	a.feeds = feeds.New(feeds.Actions{
		Add:    a.addFeed,
		Remove: a.removeFeed,
		Update: a.refresh,
	})
	a.news = news.New(a.toggleFavorite, opts.Card)
	a.favorites = favorites.New(opts.Card)
	return a
}

// Close drops the state subscription.
func (a App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// Init starts the spinner, the state listener and the initial fetch.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.listenForState(),
		a.initialFetch(),
	)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resizePages()
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case snapshotMsg:
		a.applySnapshot(state.Snapshot(msg))
		cmds = append(cmds, a.listenForState())

	case InitDone:
		if msg.Err != nil {
			a.err = msg.Err
		}

	case feeds.AddedMsg:
		if msg.Err != nil {
			a.err = msg.Err
		}

	case feeds.RemovedMsg:
		if msg.Err != nil {
			a.err = msg.Err
		}

	case feeds.UpdatedMsg:
		if msg.Err != nil && !errors.Is(msg.Err, feeds.ErrThrottled) {
			a.err = msg.Err
		}
		var cmd tea.Cmd
		a.feeds, cmd = a.feeds.Update(msg)
		cmds = append(cmds, cmd)

	case news.ToggledMsg:
		if msg.Err != nil {
			a.err = msg.Err
		}
	}

	return a, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear any existing error on key press
	a.err = nil

	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.debugVisible {
		switch {
		case key.Matches(msg, keys.Debug):
			a.debugVisible = false
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		}
		return a, nil
	}

	// The add-feed input owns every key while open.
	if a.route == RouteFeeds && a.feeds.Capturing() {
		var cmd tea.Cmd
		a.feeds, cmd = a.feeds.Update(msg)
		return a, cmd
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Feeds):
		return a.navigate(RouteFeeds), nil
	case key.Matches(msg, keys.News):
		return a.navigate(RouteNews), nil
	case key.Matches(msg, keys.Favorites):
		return a.navigate(RouteFavorites), nil
	case key.Matches(msg, keys.Next):
		return a.navigate(a.step(1)), nil
	case key.Matches(msg, keys.Prev):
		return a.navigate(a.step(-1)), nil
	case key.Matches(msg, keys.Debug):
		if a.ring != nil {
			a.debugVisible = true
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.route {
	case RouteFeeds:
		a.feeds, cmd = a.feeds.Update(msg)
	case RouteNews:
		a.news, cmd = a.news.Update(msg)
	case RouteFavorites:
		a.favorites, cmd = a.favorites.Update(msg)
	}
	return a, cmd
}

func (a App) step(delta int) Route {
	for i, r := range routes {
		if r == a.route {
			return routes[(i+delta+len(routes))%len(routes)]
		}
	}
	return RouteFeeds
}

func (a App) navigate(r Route) App {
	if r == a.route {
		return a
	}
	a.route = r
	if a.events != nil {
		a.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindRoute, Comp: "ui", Msg: string(r)})
	}
	return a
}

func (a *App) applySnapshot(s state.Snapshot) {
	a.snap = s
	a.feeds.SetFeeds(s.Feeds)
	a.news.SetState(s.Articles, s.Favorites, s.Loading)
	a.favorites.SetState(s.Articles, s.Favorites)
}

func (a *App) resizePages() {
	h := a.contentHeight()
	a.feeds.SetSize(a.width, h)
	a.news.SetSize(a.width, h)
	a.favorites.SetSize(a.width, h)
}

// contentHeight is the terminal height minus header, status bar and the
// error bar when present.
func (a App) contentHeight() int {
	h := a.height - 2
	if a.err != nil {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

// listenForState waits for the next Snapshot from the container.
func (a App) listenForState() tea.Cmd {
	updates := a.updates
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

func (a App) initialFetch() tea.Cmd {
	c, ctx := a.container, a.ctx
	return func() tea.Msg {
		return InitDone{Err: c.Init(ctx)}
	}
}

func (a App) addFeed(url string) tea.Cmd {
	c, ctx := a.container, a.ctx
	return func() tea.Msg {
		return feeds.AddedMsg{URL: url, Err: c.AddFeed(ctx, url)}
	}
}

func (a App) removeFeed(url string) tea.Cmd {
	c, ctx := a.container, a.ctx
	return func() tea.Msg {
		return feeds.RemovedMsg{URL: url, Err: c.RemoveFeed(ctx, url)}
	}
}

func (a App) refresh() tea.Cmd {
	c, ctx := a.container, a.ctx
	return func() tea.Msg {
		res, err := c.RefreshArticles(ctx)
		if errors.Is(err, state.ErrUpdateThrottled) {
			err = fmt.Errorf("%w: %w", feeds.ErrThrottled, err)
		}
		return feeds.UpdatedMsg{NewArticles: res.NewArticles, Err: err}
	}
}

func (a App) toggleFavorite(id model.ArticleID) tea.Cmd {
	c := a.container
	return func() tea.Msg {
		fav, err := c.ToggleFavorite(id)
		return news.ToggledMsg{ID: id, Favorite: fav, Err: err}
	}
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.debugVisible {
		overlay := debugOverlay(a.ring, a.width, a.height-1)
		return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, overlay) + "\n" + debugStatusBar(a.width)
	}

	var b strings.Builder
	b.WriteString(a.renderNav())
	b.WriteString("\n")

	body := a.pageView()
	b.WriteString(lipgloss.NewStyle().Height(a.contentHeight()).MaxHeight(a.contentHeight()).Render(body))
	b.WriteString("\n")

	if a.err != nil {
		b.WriteString(styles.ErrorStyle.Width(a.width).Render("Error: " + a.err.Error() + " (press any key to dismiss)"))
		b.WriteString("\n")
	}
	b.WriteString(a.renderStatusBar())
	return b.String()
}

func (a App) pageView() string {
	switch a.route {
	case RouteNews:
		return a.news.View()
	case RouteFavorites:
		return a.favorites.View()
	default:
		return a.feeds.View()
	}
}

func (a App) renderNav() string {
	items := make([]string, 0, len(routes))
	for i, r := range routes {
		label := fmt.Sprintf("%d %s", i+1, r.label())
		if r == a.route {
			items = append(items, styles.NavActive.Render(label))
		} else {
			items = append(items, styles.NavItem.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (a App) renderStatusBar() string {
	var left string
	if a.snap.Loading {
		left = " " + a.spinner.View() + " Loading... "
	} else {
		left = fmt.Sprintf(" %d feeds · %d articles · %d favorites ",
			len(a.snap.Feeds), len(a.snap.Articles), a.snap.Favorites.Len())
	}

	var help string
	switch a.route {
	case RouteNews:
		help = a.news.Help()
	case RouteFavorites:
		help = a.favorites.Help()
	default:
		help = a.feeds.Help()
	}
	right := help + "  " + styles.KeyHint("tab", "page", "q", "quit")
	if a.ring != nil {
		right += "  " + styles.KeyHint("D", "debug")
	}

	padding := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return styles.StatusBar.Width(a.width).Render(left + strings.Repeat(" ", padding) + right)
}

// Route returns the active page (for testing).
func (a App) Route() Route {
	return a.route
}

// Err returns the error shown in the error bar (for testing).
func (a App) Err() error {
	return a.err
}
