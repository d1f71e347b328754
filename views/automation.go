package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/deevus/sankhya-tui/internal"
	"github.com/deevus/sankhya-tui/sankhya"
	"github.com/deevus/sankhya-tui/widgets"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/singleflight"
)

// Toast messages for failures outside the panel log.
const (
	MsgUnexpectedError    = "An unexpected error occurred. Check the log for details."
	MsgCommunicationError = "Communication error with the server."
)

// ErrAutomationRunning is returned by StartAutomation while a run is active.
var ErrAutomationRunning = errors.New("automation already in progress")

// Form field names.
const (
	FieldDate       = "date"
	FieldBranch     = "branch"
	FieldRoundStart = "round_start"
	FieldRoundEnd   = "round_end"
)

// AutomationViewParams holds configuration for creating an AutomationView.
type AutomationViewParams struct {
	Service   sankhya.AutomationServiceAPI
	Events    sankhya.EventServiceAPI
	PostEvent func(vaxis.Event)
	Logger    *slog.Logger

	ExportDir     string
	ExportFormat  string
	DefaultBranch int

	// Now is the clock for log stamps, the default date and export names.
	// Nil uses time.Now.
	Now func() time.Time
}

// AutomationView drives an automation run: it relays verify/search/start
// requests, mirrors the push-event stream into AutomationState and renders
// it.
type AutomationView struct {
	svc       sankhya.AutomationServiceAPI
	events    sankhya.EventServiceAPI
	logger    *slog.Logger
	postEvent func(vaxis.Event)
	now       func() time.Time

	exportDir    string
	exportFormat string

	// Protected by mu
	mu        sync.Mutex
	state     *AutomationState
	created   *widgets.Sparkline
	status    StreamStatus
	lastEvent time.Time
	started   bool
	sub       *sankhya.Subscription
	cancelSub context.CancelFunc

	summaryGroup singleflight.Group
	pending      sync.WaitGroup

	// UI thread only
	form    *widgets.Form
	editing bool

	// RetryBaseDelay is the base delay for subscription retry backoff.
	// Defaults to 1s; tests can set to a small value.
	RetryBaseDelay time.Duration
}

// NewAutomationView creates an AutomationView backed by the given services.
func NewAutomationView(p AutomationViewParams) *AutomationView {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	logger := p.Logger
	if logger == nil {
		logger = internal.DiscardLogger()
	}
	branch := p.DefaultBranch
	if branch <= 0 {
		branch = 1
	}

	state := NewAutomationState()
	state.Now = now

	return &AutomationView{
		svc:          p.Service,
		events:       p.Events,
		logger:       logger,
		postEvent:    p.PostEvent,
		now:          now,
		exportDir:    p.ExportDir,
		exportFormat: p.ExportFormat,
		state:        state,
		created:      widgets.NewSparkline(60),
		editing:      true,
		form: widgets.NewForm(
			&widgets.FormField{Name: FieldDate, Label: "Planning date", Default: now().Format(sankhya.DateLayout),
				Required: true, Accept: widgets.DateRunes, MaxLen: len(sankhya.DateLayout)},
			&widgets.FormField{Name: FieldBranch, Label: "Branch", Default: strconv.Itoa(branch),
				Required: true, Accept: widgets.Digits, MaxLen: 4},
			&widgets.FormField{Name: FieldRoundStart, Label: "Round start", Default: "1",
				Required: true, Accept: widgets.Digits, MaxLen: 4},
			&widgets.FormField{Name: FieldRoundEnd, Label: "Round end", Default: "1",
				Required: true, Accept: widgets.Digits, MaxLen: 4},
		),
	}
}

// Form exposes the parameter form.
func (v *AutomationView) Form() *widgets.Form {
	return v.form
}

// Editing reports whether keys are going to the form.
func (v *AutomationView) Editing() bool {
	return v.editing
}

// Processing reports whether a run is in progress.
func (v *AutomationView) Processing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Processing
}

// Snapshot returns a copy of the current state.
func (v *AutomationView) Snapshot() AutomationState {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := *v.state
	st.Log = append([]LogEntry(nil), v.state.Log...)
	return st
}

// StreamState returns the push channel status and the time of the last
// event received.
func (v *AutomationView) StreamState() (StreamStatus, time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status, v.lastEvent
}

// Wait blocks until requests started from key handlers have finished.
func (v *AutomationView) Wait() {
	v.pending.Wait()
}

func (v *AutomationView) notify() {
	if v.postEvent != nil {
		v.postEvent(AutomationUpdated{})
	}
}

func (v *AutomationView) toast(level widgets.Level, msg string) {
	if v.postEvent != nil {
		v.postEvent(ShowToast{Level: level, Message: msg})
	}
}

func (v *AutomationView) addLog(level sankhya.Level, msg string) {
	v.mu.Lock()
	v.state.AddLog(level, msg)
	v.mu.Unlock()
}

// recoverBackground turns a panic in a background goroutine into a log
// record and a generic toast.
func (v *AutomationView) recoverBackground(op string) {
	if r := recover(); r != nil {
		v.logger.Error("panic in background task", "op", op, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		v.toast(widgets.LevelError, MsgCommunicationError)
	}
}

// run executes fn on a new goroutine.
func (v *AutomationView) run(op string, fn func(ctx context.Context)) {
	v.pending.Add(1)
	go func() {
		defer v.pending.Done()
		defer v.recoverBackground(op)
		fn(context.Background())
	}()
}

// failureText extracts the server-supplied message of an application
// failure.
func failureText(err error) (string, bool) {
	var apiErr *sankhya.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message, true
	}
	return err.Error(), false
}

// Start opens the push-event subscription for the session. Calling it again
// is a no-op.
func (v *AutomationView) Start(ctx context.Context) {
	v.mu.Lock()
	if v.started || v.events == nil {
		v.mu.Unlock()
		return
	}
	v.started = true
	v.status = StreamConnecting
	subCtx, cancel := context.WithCancel(ctx)
	v.cancelSub = cancel
	v.mu.Unlock()

	go v.runEvents(subCtx)
}

// Started reports whether Start has been called.
func (v *AutomationView) Started() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.started
}

// Stop closes the push-event subscription.
func (v *AutomationView) Stop() {
	v.mu.Lock()
	cancel, sub := v.cancelSub, v.sub
	v.cancelSub, v.sub = nil, nil
	v.status = StreamIdle
	v.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sub != nil {
		sub.Close()
	}
}

// retryBackoff sleeps with exponential backoff, returning false if ctx is cancelled.
func (v *AutomationView) retryBackoff(ctx context.Context, attempt int) bool {
	base := v.RetryBaseDelay
	if base == 0 {
		base = time.Second
	}
	delay := base * time.Duration(1<<min(attempt, 5)) // base*1, base*2, base*4, ... base*32 max
	select {
	case <-ctx.Done():
		return false
	case <-time.After(delay):
		return true
	}
}

func (v *AutomationView) setStatus(s StreamStatus) {
	v.mu.Lock()
	v.status = s
	v.mu.Unlock()
	v.notify()
}

func (v *AutomationView) runEvents(ctx context.Context) {
	defer v.recoverBackground("event stream")

	for attempt := 0; ; attempt++ {
		sub, err := v.events.Subscribe(ctx)
		if err != nil {
			v.logger.Warn("event subscription failed", "err", err, "attempt", attempt+1)
			v.setStatus(StreamReconnecting)
			if !v.retryBackoff(ctx, attempt) {
				return
			}
			continue
		}
		v.mu.Lock()
		v.sub = sub
		v.status = StreamLive
		v.mu.Unlock()
		v.notify()
		attempt = 0

		for {
			select {
			case <-ctx.Done():
				sub.Close()
				return
			case ev, ok := <-sub.C:
				if !ok {
					v.logger.Info("event stream closed, reconnecting")
					break
				}
				v.HandlePush(ev)
				continue
			}
			break
		}

		sub.Close()
		v.setStatus(StreamReconnecting)
		if !v.retryBackoff(ctx, 0) {
			return
		}
	}
}

// HandlePush applies one push event to the panel state. A completion event
// starts the summary fetch in the background.
func (v *AutomationView) HandlePush(ev sankhya.Event) {
	v.mu.Lock()
	v.lastEvent = v.now()
	effect, err := v.state.Apply(ev)
	if err == nil && ev.Kind == sankhya.EventCounters {
		v.created.PushChanged(float64(v.state.Counters.Created))
	}
	v.mu.Unlock()

	if err != nil {
		v.logger.Debug("ignoring push event", "event", string(ev.Kind), "err", err)
		return
	}
	v.notify()

	if effect == EffectFetchSummary {
		v.run("fetch summary", v.FetchSummary)
	}
}

// VerifyConnections resets the backend and the panel, then asks the backend
// to check its connections. On success the search action is revealed.
func (v *AutomationView) VerifyConnections(ctx context.Context) error {
	defer v.notify()

	v.addLog(sankhya.LevelInfo, msgResetting)
	if _, err := v.svc.Reset(ctx); err != nil {
		if _, ok := failureText(err); !ok {
			v.addLog(sankhya.LevelError, msgVerifyFailed+err.Error())
			return err
		}
		v.logger.Debug("reset reported failure", "err", err)
	}

	v.mu.Lock()
	v.state.Reset()
	v.state.Used = true
	v.created.Reset()
	v.state.AddLog(sankhya.LevelInfo, msgResetDone)
	v.mu.Unlock()
	v.notify()

	res, err := v.svc.VerifyConnections(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		if msg, ok := failureText(err); ok {
			v.state.AddLog(sankhya.LevelError, "❌ "+msg)
		} else {
			v.state.AddLog(sankhya.LevelError, msgVerifyFailed+err.Error())
		}
		return err
	}
	v.state.AddLog(sankhya.LevelSuccess, "✅ "+res.Text())
	v.state.ShowSearch = true
	return nil
}

// SearchPlans counts pending plans. Invalid parameters are reported in the
// log without contacting the backend.
func (v *AutomationView) SearchPlans(ctx context.Context, p sankhya.SearchParams) error {
	defer v.notify()

	if err := p.Validate(); err != nil {
		v.logger.Debug("search rejected", "err", err)
		v.addLog(sankhya.LevelError, msgBadParams)
		return err
	}

	v.addLog(sankhya.LevelInfo, fmt.Sprintf(msgSearching, internal.FormatWireDate(p.Date)))
	v.notify()

	res, err := v.svc.SearchPlans(ctx, p)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		if msg, ok := failureText(err); ok {
			v.state.AddLog(sankhya.LevelError, "❌ "+msg)
		} else {
			v.state.AddLog(sankhya.LevelError, msgSearchFailed+err.Error())
		}
		return err
	}
	if res.Total > 0 {
		v.state.AddLog(sankhya.LevelSuccess, fmt.Sprintf("✅ Found %d pending plans.", res.Total))
		v.state.ShowStart = true
	} else {
		v.state.AddLog(sankhya.LevelWarning, msgNoPlans)
		v.state.ShowStart = false
	}
	return nil
}

// StartAutomation asks the backend to start a run. It returns as soon as
// the backend accepts; completion arrives as a push event. A call while a
// run is active logs a warning and sends nothing.
func (v *AutomationView) StartAutomation(ctx context.Context, p sankhya.SearchParams) error {
	v.mu.Lock()
	ok := v.state.BeginStart()
	v.mu.Unlock()
	v.notify()
	if !ok {
		return ErrAutomationRunning
	}

	if _, err := v.svc.StartAutomation(ctx, p); err != nil {
		msg, isAPI := failureText(err)
		v.mu.Lock()
		if isAPI {
			v.state.RollbackStart(msgStartRejected + msg)
		} else {
			v.state.RollbackStart(msgStartFailed + err.Error())
		}
		v.mu.Unlock()
		v.notify()
		return err
	}
	return nil
}

// FetchSummary loads the last run's report and reveals it. Concurrent
// calls share one request.
func (v *AutomationView) FetchSummary(ctx context.Context) {
	_, _, _ = v.summaryGroup.Do("summary", func() (any, error) {
		sum, err := v.svc.FetchSummary(ctx)
		v.mu.Lock()
		if err != nil {
			v.state.AddLog(sankhya.LevelError, msgSummaryFailed+err.Error())
		} else {
			v.state.SetSummary(sum)
		}
		v.mu.Unlock()
		return sum, err
	})
	v.notify()
}

// Teardown stops the event stream and, if the backend was ever asked to
// open its connections, fires the finalize-connections beacon. Beacon
// errors are only logged.
func (v *AutomationView) Teardown(ctx context.Context) {
	v.Stop()

	v.mu.Lock()
	used := v.state.Used
	v.mu.Unlock()
	if !used || v.svc == nil {
		return
	}
	if err := v.svc.FinalizeConnections(ctx); err != nil {
		v.logger.Debug("finalize beacon failed", "err", err)
	}
}

// ExportSummary writes the summary to the export directory and returns the
// file path.
func (v *AutomationView) ExportSummary() (string, error) {
	v.mu.Lock()
	sum := v.state.Summary
	v.mu.Unlock()

	path, err := internal.ExportSummary(v.exportDir, v.exportFormat, sum, v.now())
	if err != nil {
		v.logger.Error("summary export failed", "err", err)
		v.toast(widgets.LevelError, "Export failed: "+err.Error())
		return "", err
	}
	v.logger.Info("summary exported", "path", path)
	v.toast(widgets.LevelSuccess, "Summary exported to "+path)
	return path, nil
}

// CopySummary returns the command that places the summary text on the
// terminal clipboard.
func (v *AutomationView) CopySummary() (vxfw.Command, error) {
	v.mu.Lock()
	text := internal.SummaryText(v.state.Summary)
	v.mu.Unlock()

	if text == "" {
		err := errors.New("no summary to copy")
		v.toast(widgets.LevelError, "Copy failed: "+err.Error())
		return nil, err
	}
	v.toast(widgets.LevelSuccess, "Summary copied to clipboard")
	return vxfw.CopyToClipboardCmd(text), nil
}

// formParams validates the form and parses it into SearchParams.
func (v *AutomationView) formParams() (sankhya.SearchParams, error) {
	if !v.form.Validate() {
		return sankhya.SearchParams{}, &sankhya.ValidationError{Field: "form", Reason: "required fields are empty"}
	}
	return sankhya.ParseSearchParams(
		v.form.Value(FieldDate),
		v.form.Value(FieldBranch),
		v.form.Value(FieldRoundStart),
		v.form.Value(FieldRoundEnd),
	)
}

func (v *AutomationView) visible(show func(*AutomationState) bool) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return show(v.state)
}

// submit parses the form and runs op in the background.
func (v *AutomationView) submit(name string, op func(context.Context, sankhya.SearchParams) error) {
	p, err := v.formParams()
	if err != nil {
		v.logger.Debug("form rejected", "action", name, "err", err)
		v.addLog(sankhya.LevelError, msgBadParams)
		return
	}
	v.run(name, func(ctx context.Context) { _ = op(ctx, p) })
}

// HandleEvent handles panel key bindings and forwards the rest to the form.
func (v *AutomationView) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	key, ok := ev.(vaxis.Key)
	if !ok {
		return nil, nil
	}

	switch {
	case key.Matches('v', vaxis.ModCtrl):
		v.run("verify connections", func(ctx context.Context) { _ = v.VerifyConnections(ctx) })
	case key.Matches('s', vaxis.ModCtrl):
		if !v.visible(func(s *AutomationState) bool { return s.ShowSearch }) {
			return nil, nil
		}
		v.submit("search plans", v.SearchPlans)
	case key.Matches('g', vaxis.ModCtrl):
		if !v.visible(func(s *AutomationState) bool { return s.ShowStart }) {
			return nil, nil
		}
		v.submit("start automation", v.StartAutomation)
	case key.Matches('e', vaxis.ModCtrl):
		if !v.visible(func(s *AutomationState) bool { return s.ShowSummary }) {
			return nil, nil
		}
		_, _ = v.ExportSummary()
	case key.Matches('y', vaxis.ModCtrl):
		if !v.visible(func(s *AutomationState) bool { return s.ShowSummary }) {
			return nil, nil
		}
		copyCmd, err := v.CopySummary()
		if err != nil {
			return vxfw.ConsumeAndRedraw(), nil
		}
		return vxfw.BatchCmd{copyCmd, vxfw.ConsumeAndRedraw()}, nil
	case key.Matches(vaxis.KeyEsc):
		if !v.editing {
			return nil, nil
		}
		v.editing = false
	case !v.editing:
		if !key.Matches(vaxis.KeyEnter) && !key.Matches(vaxis.KeyUp) && !key.Matches(vaxis.KeyDown) {
			return nil, nil
		}
		v.editing = true
	default:
		if !v.form.HandleKey(key) {
			return nil, nil
		}
	}
	return vxfw.ConsumeAndRedraw(), nil
}

// Draw renders the panel.
func (v *AutomationView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	st := v.Snapshot()

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, v)
	height := int(ctx.Max.Height)
	row := 0

	line := func(segs ...vaxis.Segment) error {
		if row >= height {
			return nil
		}
		surf, err := richtext.New(segs).Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
		if err != nil {
			return err
		}
		s.AddChild(0, row, surf)
		row++
		return nil
	}
	bold := vaxis.Style{Attribute: vaxis.AttrBold}
	dim := vaxis.Style{Attribute: vaxis.AttrDim}

	// === Title ===
	title := []vaxis.Segment{{Text: " Production order automation", Style: bold}}
	if st.Processing {
		title = append(title, vaxis.Segment{Text: "  ● running", Style: vaxis.Style{Foreground: vaxis.IndexColor(3)}})
	}
	if err := line(title...); err != nil {
		return vxfw.Surface{}, err
	}

	// === Form ===
	if row < height {
		formHeight := min(len(v.form.Fields), height-row)
		formSurf, err := v.form.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: uint16(formHeight)}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(1, row, formSurf)
		row += formHeight
	}

	// === Actions ===
	actions := []vaxis.Segment{{Text: " ^V", Style: bold}, {Text: " verify", Style: dim}}
	if st.ShowSearch {
		actions = append(actions, vaxis.Segment{Text: "  ^S", Style: bold}, vaxis.Segment{Text: " search", Style: dim})
	}
	if st.ShowStart {
		actions = append(actions, vaxis.Segment{Text: "  ^G", Style: bold}, vaxis.Segment{Text: " start", Style: dim})
	}
	if st.ShowSummary {
		actions = append(actions,
			vaxis.Segment{Text: "  ^E", Style: bold}, vaxis.Segment{Text: " export", Style: dim},
			vaxis.Segment{Text: "  ^Y", Style: bold}, vaxis.Segment{Text: " copy", Style: dim})
	}
	if v.editing {
		actions = append(actions, vaxis.Segment{Text: "  ^L clear  Esc done", Style: dim})
	} else {
		actions = append(actions, vaxis.Segment{Text: "  Enter edit", Style: dim})
	}
	if err := line(actions...); err != nil {
		return vxfw.Surface{}, err
	}
	row++

	// === Counters + created sparkline ===
	counters := fmt.Sprintf(" OPs created %s   Failures %s   Round %s",
		humanize.Comma(int64(st.Counters.Created)), humanize.Comma(int64(st.Counters.Failed)), st.Counters.Round)
	if row < height {
		rowAt := row
		if err := line(
			vaxis.Segment{Text: " OPs created ", Style: dim},
			vaxis.Segment{Text: humanize.Comma(int64(st.Counters.Created)), Style: vaxis.Style{Foreground: vaxis.IndexColor(2), Attribute: vaxis.AttrBold}},
			vaxis.Segment{Text: "   Failures ", Style: dim},
			vaxis.Segment{Text: humanize.Comma(int64(st.Counters.Failed)), Style: vaxis.Style{Foreground: vaxis.IndexColor(1), Attribute: vaxis.AttrBold}},
			vaxis.Segment{Text: "   Round ", Style: dim},
			vaxis.Segment{Text: st.Counters.Round.String(), Style: bold},
		); err != nil {
			return vxfw.Surface{}, err
		}

		sparkCol := len([]rune(counters)) + 3
		sparkWidth := min(30, int(ctx.Max.Width)-sparkCol)
		if sparkWidth > 0 {
			v.mu.Lock()
			sparkSurf, err := v.created.Draw(ctx.WithMax(vxfw.Size{Width: uint16(sparkWidth), Height: 1}))
			v.mu.Unlock()
			if err == nil {
				s.AddChild(sparkCol, rowAt, sparkSurf)
			}
		}
	}

	// === Progress ===
	if st.ShowProgress && row < height {
		gauge := &widgets.BarGauge{
			Label:    " Progress",
			Value:    float64(st.Progress.Percent()),
			Suffix:   fmt.Sprintf("%d/%d", st.Progress.Current, st.Progress.Total),
			BarWidth: 30,
		}
		gaugeSurf, err := gauge.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, gaugeSurf)
		row++
	}
	row++

	// === Summary ===
	remaining := height - row
	if st.ShowSummary && st.Summary != nil && remaining > 4 {
		summaryHeight := min(remaining/2, 2+max(len(st.Summary.Created), len(st.Summary.Failures), 1))
		summarySurf, err := drawSummary(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: uint16(summaryHeight)}), v, st.Summary)
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, summarySurf)
		row += summaryHeight + 1
	}

	// === Log ===
	if err := line(vaxis.Segment{Text: " Log", Style: bold}); err != nil {
		return vxfw.Surface{}, err
	}
	if remaining := height - row; remaining > 0 {
		lp := &widgets.LogPanel{Placeholder: msgWaiting, Lines: make([]widgets.LogLine, len(st.Log))}
		for i, e := range st.Log {
			lp.Lines[i] = widgets.LogLine{Time: e.Time, Level: widgets.ParseLevel(string(e.Level)), Text: e.Message}
		}
		logWidth := max(int(ctx.Max.Width)-1, 0)
		logSurf, err := lp.Draw(ctx.WithMax(vxfw.Size{Width: uint16(logWidth), Height: uint16(remaining)}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(1, row, logSurf)
	}

	return s, nil
}

// drawSummary renders the successes and failures side by side.
func drawSummary(ctx vxfw.DrawContext, owner vxfw.Widget, sum *sankhya.Summary) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, owner)
	half := int(ctx.Max.Width) / 2
	if half < 4 || ctx.Max.Height < 2 {
		return s, nil
	}
	tableHeight := ctx.Max.Height - 1

	okTitle := richtext.New([]vaxis.Segment{{
		Text:  fmt.Sprintf(" ✔ Created (%s)", humanize.Comma(int64(sum.TotalCreated))),
		Style: vaxis.Style{Foreground: vaxis.IndexColor(2), Attribute: vaxis.AttrBold},
	}})
	okTitleSurf, err := okTitle.Draw(ctx.WithMax(vxfw.Size{Width: uint16(half), Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, okTitleSurf)

	created := &widgets.Table{
		Columns: []widgets.TableColumn{{Width: 12}, {Width: max(half-16, 4)}},
		Header:  []string{"NUPLAN", "OP"},
		Gap:     2,
		Empty:   "No OP created",
	}
	for _, op := range sum.Created {
		created.Rows = append(created.Rows, []string{op.PlanID.String(), op.OpID.String()})
	}
	createdSurf, err := created.Draw(ctx.WithMax(vxfw.Size{Width: uint16(half - 1), Height: tableHeight}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(1, 1, createdSurf)

	failTitle := richtext.New([]vaxis.Segment{{
		Text:  fmt.Sprintf(" ✖ Failures (%s)", humanize.Comma(int64(sum.TotalFailures))),
		Style: vaxis.Style{Foreground: vaxis.IndexColor(1), Attribute: vaxis.AttrBold},
	}})
	failTitleSurf, err := failTitle.Draw(ctx.WithMax(vxfw.Size{Width: uint16(half), Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(half, 0, failTitleSurf)

	failed := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 12},
			{Width: max(half-16, 4), Style: vaxis.Style{Foreground: vaxis.IndexColor(1)}},
		},
		Header: []string{"NUPLAN", "ERROR"},
		Gap:    2,
		Empty:  "No failures",
	}
	for _, f := range sum.Failures {
		failed.Rows = append(failed.Rows, []string{f.PlanID.String(), f.Error})
	}
	failedSurf, err := failed.Draw(ctx.WithMax(vxfw.Size{Width: uint16(int(ctx.Max.Width) - half - 1), Height: tableHeight}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(half+1, 1, failedSurf)

	return s, nil
}
