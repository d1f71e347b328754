package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/deevus/sankhya-tui/internal"
	"github.com/deevus/sankhya-tui/views"
	"github.com/deevus/sankhya-tui/widgets"
	"golang.org/x/sync/errgroup"
)

// Tab names.
const (
	TabOverview   = "overview"
	TabAutomation = "automation"
)

// Tab indexes, in display order.
const (
	tabOverview = iota
	tabAutomation
)

var tabNames = []string{TabOverview, TabAutomation}

// ErrUnknownTab is returned by SwitchTab for a name with no tab.
var ErrUnknownTab = errors.New("unknown tab")

// Connected is posted when the background connection succeeds.
type Connected struct {
	Services *internal.Services
}

// ConnectFailed is posted when the background connection fails.
type ConnectFailed struct {
	Err error
}

// SplashDone is posted once the boot splash has been shown long enough.
type SplashDone struct{}

// ToastExpired is posted when the oldest toast may have expired.
type ToastExpired struct{}

// Params holds configuration for creating an App.
type Params struct {
	// Services, when set, makes the app start connected.
	Services   *internal.Services
	ServerName string
	StaleTTL   time.Duration
	// Connect, when set, is run in the background on Init.
	Connect func(ctx context.Context) (*internal.Services, error)

	Logger *slog.Logger

	ExportDir     string
	ExportFormat  string
	DefaultBranch int

	// SplashDelay is how long the boot splash stays up. Zero disables it.
	SplashDelay  time.Duration
	ToastTimeout time.Duration
}

// App is the root vxfw widget for sankhya-tui.
type App struct {
	params     Params
	services   *internal.Services
	serverName string
	staleTTL   time.Duration
	connectFn  func(ctx context.Context) (*internal.Services, error)
	connectErr error
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	tabBar     *widgets.TabBar
	overview   *views.OverviewView
	automation *views.AutomationView
	postEvent  func(vaxis.Event)

	splash     *views.Splash
	showSplash bool
	toasts     *widgets.ToastStack
	confirm    *widgets.Confirm

	timerMu    sync.Mutex
	toastTimer *time.Timer
}

// New creates the root App widget. If p.Services is nil, the app starts in
// the connecting state and calls p.Connect on Init.
func New(p Params) *App {
	logger := p.Logger
	if logger == nil {
		logger = internal.DiscardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		params:     p,
		serverName: p.ServerName,
		staleTTL:   p.StaleTTL,
		connectFn:  p.Connect,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		tabBar: widgets.NewTabBar([]widgets.Tab{
			{Name: tabNames[tabOverview], Label: "Overview"},
			{Name: tabNames[tabAutomation], Label: "Automation"},
		}),
		splash: &views.Splash{
			Title:    "sankhya-tui",
			Subtitle: "Connecting to " + p.ServerName + "...",
		},
		showSplash: p.SplashDelay > 0,
		toasts:     widgets.NewToastStack(p.ToastTimeout),
	}
	if p.Services != nil {
		a.setServices(p.Services)
	}
	return a
}

func (a *App) setServices(svc *internal.Services) {
	a.services = svc
	a.connectErr = nil
	a.automation = views.NewAutomationView(views.AutomationViewParams{
		Service:       svc.Automation,
		Events:        svc.Events,
		PostEvent:     a.post,
		Logger:        a.logger.With(slog.String("view", TabAutomation)),
		ExportDir:     a.params.ExportDir,
		ExportFormat:  a.params.ExportFormat,
		DefaultBranch: a.params.DefaultBranch,
	})
	a.overview = views.NewOverviewView(views.OverviewViewParams{
		Service:    svc.Automation,
		Stream:     a.automation,
		ServerName: a.serverName,
		BaseURL:    svc.BaseURL,
		SessionID:  svc.SessionID,
		StaleTTL:   a.staleTTL,
	})
	if a.tabBar.ActiveName() == TabAutomation {
		a.automation.Start(a.ctx)
	}
}

// IsConnected reports whether services are available.
func (a *App) IsConnected() bool {
	return a.services != nil
}

// SetPostEvent sets the function used to post events to the vaxis event loop.
// Must be called before LoadAll.
func (a *App) SetPostEvent(fn func(vaxis.Event)) {
	a.postEvent = fn
}

func (a *App) post(ev vaxis.Event) {
	if a.postEvent != nil {
		a.postEvent(ev)
	}
}

// ActiveTab returns the current tab index.
func (a *App) ActiveTab() int {
	return a.tabBar.Active()
}

// ActiveTabName returns the name of the current tab.
func (a *App) ActiveTabName() string {
	return a.tabBar.ActiveName()
}

// SwitchTab activates the named tab. Switching to the current tab is a
// no-op; an unknown name returns ErrUnknownTab and leaves the selection
// unchanged.
func (a *App) SwitchTab(name string) error {
	prev := a.tabBar.ActiveName()
	if !a.tabBar.SetActiveName(name) {
		return fmt.Errorf("%w: %q", ErrUnknownTab, name)
	}
	a.startActive()
	if name != prev {
		a.refetchIfStale()
	}
	return nil
}

// startActive opens the automation event stream the first time its tab is
// shown.
func (a *App) startActive() {
	if a.tabBar.ActiveName() == TabAutomation && a.automation != nil {
		a.automation.Start(a.ctx)
	}
}

// ServerName returns the connected server profile name.
func (a *App) ServerName() string {
	return a.serverName
}

// Overview returns the overview view, or nil when not connected.
func (a *App) Overview() *views.OverviewView {
	return a.overview
}

// Automation returns the automation view, or nil when not connected.
func (a *App) Automation() *views.AutomationView {
	return a.automation
}

// Toasts returns the toast stack.
func (a *App) Toasts() *widgets.ToastStack {
	return a.toasts
}

// SplashVisible reports whether the boot splash is still shown.
func (a *App) SplashVisible() bool {
	return a.showSplash
}

// Confirming reports whether the quit confirmation is shown.
func (a *App) Confirming() bool {
	return a.confirm != nil
}

// loaders returns the data loaders keyed by tab index. The automation tab
// has no data of its own; it is fed by the event stream.
func (a *App) loaders() map[int]func(context.Context) error {
	return map[int]func(context.Context) error{
		tabOverview: a.overview.Load,
	}
}

// LoadAll loads data for all views in parallel using goroutines.
// Each view posts a ViewLoaded event when done.
func (a *App) LoadAll(ctx context.Context) {
	if a.services == nil {
		return
	}
	var g errgroup.Group
	for tab, load := range a.loaders() {
		g.Go(func() error {
			err := load(ctx)
			a.post(views.ViewLoaded{Tab: tab, Err: err})
			return err
		})
	}
	go func() {
		if err := g.Wait(); err != nil {
			a.logger.Warn("initial load failed", "err", err)
		}
	}()
}

// refetchIfStale reloads the active view's data in the background if it has
// become stale.
func (a *App) refetchIfStale() {
	if a.services == nil || a.tabBar.Active() != tabOverview || !a.overview.Stale() {
		return
	}
	go func() {
		err := a.overview.Load(a.ctx)
		a.post(views.ViewLoaded{Tab: tabOverview, Err: err})
	}()
}

// Teardown stops background work and fires the end-of-session beacon.
func (a *App) Teardown(ctx context.Context) {
	a.cancel()
	a.timerMu.Lock()
	if a.toastTimer != nil {
		a.toastTimer.Stop()
	}
	a.timerMu.Unlock()
	if a.automation != nil {
		a.automation.Teardown(ctx)
	}
}

// scheduleToastExpiry arms a one-shot timer that prunes the toast stack.
func (a *App) scheduleToastExpiry() {
	a.timerMu.Lock()
	defer a.timerMu.Unlock()
	if a.toastTimer != nil {
		a.toastTimer.Stop()
	}
	a.toastTimer = time.AfterFunc(a.toasts.TTL(), func() {
		a.post(ToastExpired{})
	})
}

// recoverPanic turns a panic inside event handling into a log record and a
// toast, keeping the app alive.
func (a *App) recoverPanic(cmd *vxfw.Command, err *error) {
	if r := recover(); r != nil {
		a.logger.Error("panic while handling event", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		a.toasts.Push(widgets.LevelError, views.MsgUnexpectedError)
		a.scheduleToastExpiry()
		*cmd, *err = vxfw.RedrawCmd{}, nil
	}
}

// editing reports whether keys should go to the automation form.
func (a *App) editing() bool {
	return a.tabBar.ActiveName() == TabAutomation && a.automation != nil && a.automation.Editing()
}

func (a *App) activeView() vxfw.Widget {
	if a.services == nil {
		return nil
	}
	switch a.tabBar.Active() {
	case tabAutomation:
		return a.automation
	default:
		return a.overview
	}
}

// CaptureEvent handles global keybindings before views process them.
func (a *App) CaptureEvent(ev vaxis.Event) (cmd vxfw.Command, err error) {
	defer a.recoverPanic(&cmd, &err)

	key, ok := ev.(vaxis.Key)
	if !ok {
		return nil, nil
	}
	if key.Matches('c', vaxis.ModCtrl) {
		return vxfw.QuitCmd{}, nil
	}

	if a.confirm != nil {
		yes, decided := a.confirm.Answer(key)
		if !decided {
			return vxfw.ConsumeAndRedraw(), nil
		}
		a.confirm = nil
		if yes {
			return vxfw.QuitCmd{}, nil
		}
		return vxfw.ConsumeAndRedraw(), nil
	}

	editing := a.editing()
	if key.Matches('q') {
		if editing {
			return nil, nil
		}
		if a.automation != nil && a.automation.Processing() {
			a.confirm = &widgets.Confirm{Message: "Automation in progress. Quit anyway?"}
			return vxfw.ConsumeAndRedraw(), nil
		}
		return vxfw.QuitCmd{}, nil
	}

	if !a.IsConnected() {
		return nil, nil
	}

	target := ""
	switch {
	case key.Matches(vaxis.KeyTab):
		target = a.tabName(a.tabBar.Active() + 1)
	case key.Matches(vaxis.KeyTab, vaxis.ModShift):
		target = a.tabName(a.tabBar.Active() - 1)
	case editing:
		return nil, nil
	case key.Matches('r'):
		a.refresh()
		return vxfw.ConsumeAndRedraw(), nil
	case key.Matches('1'):
		target = TabOverview
	case key.Matches('2'):
		target = TabAutomation
	default:
		return nil, nil
	}
	if err := a.SwitchTab(target); err != nil {
		return nil, err
	}
	return vxfw.ConsumeAndRedraw(), nil
}

// tabName returns the name of tab i, wrapping around in both directions.
func (a *App) tabName(i int) string {
	n := a.tabBar.Len()
	return tabNames[((i%n)+n)%n]
}

// refresh reloads the active view in the background. Tabs without a
// loader are left alone.
func (a *App) refresh() {
	tab := a.tabBar.Active()
	load, ok := a.loaders()[tab]
	if !ok {
		return
	}
	go func() {
		err := load(a.ctx)
		a.post(views.ViewLoaded{Tab: tab, Err: err})
	}()
}

// HandleEvent delegates to the active view, and handles custom events.
func (a *App) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (cmd vxfw.Command, err error) {
	defer a.recoverPanic(&cmd, &err)

	switch ev := ev.(type) {
	case vxfw.Init:
		return a.init(), nil
	case Connected:
		a.setServices(ev.Services)
		a.LoadAll(a.ctx)
		return vxfw.RedrawCmd{}, nil
	case ConnectFailed:
		a.connectErr = ev.Err
		a.showSplash = false
		a.logger.Error("connect failed", "server", a.serverName, "err", ev.Err)
		return vxfw.RedrawCmd{}, nil
	case SplashDone:
		a.showSplash = false
		return vxfw.RedrawCmd{}, nil
	case views.ViewLoaded:
		if ev.Err != nil {
			a.logger.Warn("error loading tab", "tab", ev.Tab, "err", ev.Err)
		}
		return vxfw.RedrawCmd{}, nil
	case views.AutomationUpdated:
		return vxfw.RedrawCmd{}, nil
	case views.ShowToast:
		a.toasts.Push(ev.Level, ev.Message)
		a.scheduleToastExpiry()
		return vxfw.RedrawCmd{}, nil
	case ToastExpired:
		if a.toasts.Prune() && a.toasts.Len() > 0 {
			a.scheduleToastExpiry()
		}
		return vxfw.RedrawCmd{}, nil
	default:
		type handler interface {
			HandleEvent(vaxis.Event, vxfw.EventPhase) (vxfw.Command, error)
		}
		if h, ok := a.activeView().(handler); ok {
			return h.HandleEvent(ev, phase)
		}
	}
	return nil, nil
}

// init starts the splash timer and the background connect.
func (a *App) init() vxfw.Command {
	if a.showSplash {
		time.AfterFunc(a.params.SplashDelay, func() {
			a.post(SplashDone{})
		})
	}
	if a.connectFn == nil || a.services != nil {
		return nil
	}
	go func() {
		svc, err := a.connectFn(a.ctx)
		if err != nil {
			a.post(ConnectFailed{Err: err})
			return
		}
		a.post(Connected{Services: svc})
	}()
	return nil
}

// Draw renders the tab bar, the active view and any overlays.
func (a *App) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, a)
	if ctx.Max.Height == 0 {
		return s, nil
	}

	if a.showSplash {
		splashSurf, err := a.splash.Draw(ctx)
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, 0, splashSurf)
		return s, nil
	}

	// Tab bar (1 row)
	tabCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1})
	tabSurf, err := a.tabBar.Draw(tabCtx)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, tabSurf)

	// Active view (remaining space)
	viewCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: ctx.Max.Height - 1})
	var viewSurf vxfw.Surface
	if view := a.activeView(); view != nil {
		viewSurf, err = view.Draw(viewCtx)
	} else {
		viewSurf, err = a.drawConnecting(viewCtx)
	}
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 1, viewSurf)

	// Toasts (top-right, below the tab bar)
	if a.toasts.Len() > 0 {
		toastSurf, err := a.toasts.Draw(viewCtx)
		if err != nil {
			return vxfw.Surface{}, err
		}
		col := max(int(ctx.Max.Width)-int(toastSurf.Size.Width)-1, 0)
		s.AddChild(col, 1, toastSurf)
	}

	// Quit confirmation (bottom row, centred)
	if a.confirm != nil {
		confirmSurf, err := a.confirm.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		col := max((int(ctx.Max.Width)-int(confirmSurf.Size.Width))/2, 0)
		s.AddChild(col, int(ctx.Max.Height)-1, confirmSurf)
	}

	return s, nil
}

// drawConnecting renders the placeholder shown until services are ready.
func (a *App) drawConnecting(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, a)
	segs := []vaxis.Segment{
		{Text: " Connecting to ", Style: vaxis.Style{Attribute: vaxis.AttrDim}},
		{Text: a.serverName, Style: vaxis.Style{Attribute: vaxis.AttrBold}},
		{Text: "...", Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	}
	if a.connectErr != nil {
		segs = []vaxis.Segment{
			{Text: " Connection to ", Style: vaxis.Style{Foreground: vaxis.IndexColor(1)}},
			{Text: a.serverName, Style: vaxis.Style{Foreground: vaxis.IndexColor(1), Attribute: vaxis.AttrBold}},
			{Text: " failed: " + a.connectErr.Error(), Style: vaxis.Style{Foreground: vaxis.IndexColor(1)}},
		}
	}
	lines := [][]vaxis.Segment{
		segs,
		{{Text: " Press q to quit", Style: vaxis.Style{Attribute: vaxis.AttrDim}}},
	}
	for i, l := range lines {
		if 1+i >= int(ctx.Max.Height) {
			break
		}
		surf, err := richtext.New(l).Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, 1+i, surf)
	}
	return s, nil
}
