package views

import (
	"context"
	"fmt"
	"sync"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/list"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/deevus/sankhya-tui/internal"
	"github.com/deevus/sankhya-tui/sankhya"
	"github.com/dustin/go-humanize"
)

// StreamReporter exposes the push channel state shown on the overview.
type StreamReporter interface {
	StreamState() (StreamStatus, time.Time)
}

// OverviewViewParams holds configuration for creating an OverviewView.
type OverviewViewParams struct {
	Service    sankhya.AutomationServiceAPI
	Stream     StreamReporter
	ServerName string
	BaseURL    string
	SessionID  string
	StaleTTL   time.Duration
}

// OverviewView is the default tab: connection details, key help and the
// backend's last run summary.
type OverviewView struct {
	service    sankhya.AutomationServiceAPI
	stream     StreamReporter
	serverName string
	baseURL    string
	sessionID  string

	mu       sync.Mutex
	summary  *sankhya.Summary
	rows     []summaryRow
	loadErr  error
	loaded   bool
	loadedAt time.Time
	staleTTL time.Duration

	list list.Dynamic
}

type summaryRow struct {
	ok     bool
	planID string
	detail string
}

// NewOverviewView creates an OverviewView backed by the given params.
func NewOverviewView(p OverviewViewParams) *OverviewView {
	ov := &OverviewView{
		service:    p.Service,
		stream:     p.Stream,
		serverName: p.ServerName,
		baseURL:    p.BaseURL,
		sessionID:  p.SessionID,
		staleTTL:   p.StaleTTL,
	}
	ov.list.DrawCursor = true
	ov.list.Builder = ov.buildItem
	return ov
}

// Load fetches the last run summary from the backend.
func (ov *OverviewView) Load(ctx context.Context) error {
	sum, err := ov.service.FetchSummary(ctx)

	ov.mu.Lock()
	defer ov.mu.Unlock()
	ov.loadErr = err
	if err != nil {
		return err
	}
	if sum == nil {
		sum = &sankhya.Summary{}
	}
	ov.summary = sum
	ov.rows = summaryRows(sum)
	ov.loaded = true
	ov.loadedAt = time.Now()
	return nil
}

func summaryRows(sum *sankhya.Summary) []summaryRow {
	if sum == nil {
		return nil
	}
	rows := make([]summaryRow, 0, len(sum.Created)+len(sum.Failures))
	for _, op := range sum.Created {
		rows = append(rows, summaryRow{ok: true, planID: op.PlanID.String(), detail: "OP " + op.OpID.String()})
	}
	for _, f := range sum.Failures {
		rows = append(rows, summaryRow{planID: f.PlanID.String(), detail: f.Error})
	}
	return rows
}

// Loaded reports whether data has been successfully fetched.
func (ov *OverviewView) Loaded() bool {
	ov.mu.Lock()
	defer ov.mu.Unlock()
	return ov.loaded
}

// Stale reports whether the cached data is older than the configured TTL.
func (ov *OverviewView) Stale() bool {
	ov.mu.Lock()
	defer ov.mu.Unlock()
	if !ov.loaded {
		return true
	}
	return time.Since(ov.loadedAt) > ov.staleTTL
}

// Summary returns the last loaded summary.
func (ov *OverviewView) Summary() *sankhya.Summary {
	ov.mu.Lock()
	defer ov.mu.Unlock()
	return ov.summary
}

// ItemCount returns the number of summary rows.
func (ov *OverviewView) ItemCount() int {
	ov.mu.Lock()
	defer ov.mu.Unlock()
	return len(ov.rows)
}

func (ov *OverviewView) buildItem(i uint, cursor uint) vxfw.Widget {
	ov.mu.Lock()
	defer ov.mu.Unlock()

	if int(i) >= len(ov.rows) {
		return nil
	}
	r := ov.rows[i]

	mark := vaxis.Segment{Text: " ✔ ", Style: vaxis.Style{Foreground: vaxis.IndexColor(2)}}
	detailStyle := vaxis.Style{}
	if !r.ok {
		mark = vaxis.Segment{Text: " ✖ ", Style: vaxis.Style{Foreground: vaxis.IndexColor(1)}}
		detailStyle.Foreground = vaxis.IndexColor(1)
	}
	return richtext.New([]vaxis.Segment{
		mark,
		{Text: fmt.Sprintf("NUPLAN %-12s", r.planID)},
		{Text: r.detail, Style: detailStyle},
	})
}

// Draw renders connection details, key help and the summary list.
func (ov *OverviewView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, ov)
	height := int(ctx.Max.Height)
	row := 0

	bold := vaxis.Style{Attribute: vaxis.AttrBold}
	dim := vaxis.Style{Attribute: vaxis.AttrDim}
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

	status, last := StreamIdle, time.Time{}
	if ov.stream != nil {
		status, last = ov.stream.StreamState()
	}
	statusStyle := vaxis.Style{Foreground: vaxis.IndexColor(3)}
	if status == StreamLive {
		statusStyle.Foreground = vaxis.IndexColor(2)
	}
	lastText := "no events yet"
	if !last.IsZero() {
		lastText = fmt.Sprintf("last event %s (%s)", internal.FormatDateTime(last), humanize.Time(last))
	}

	lines := [][]vaxis.Segment{
		{{Text: " Server   ", Style: dim}, {Text: ov.serverName, Style: bold}},
		{{Text: " Backend  ", Style: dim}, {Text: ov.baseURL}},
		{{Text: " Session  ", Style: dim}, {Text: ov.sessionID}},
		{{Text: " Events   ", Style: dim}, {Text: status.String(), Style: statusStyle}, {Text: "  " + lastText, Style: dim}},
		{},
		{{Text: " Keys  ", Style: bold}, {Text: "1/2 tabs  Tab cycle  r refresh  q quit  ^C force quit", Style: dim}},
		{{Text: "       ", Style: bold}, {Text: "automation: ^V verify  ^S search  ^G start  ^E export  ^Y copy", Style: dim}},
		{},
	}
	for _, segs := range lines {
		if len(segs) == 0 {
			row++
			continue
		}
		if err := line(segs...); err != nil {
			return vxfw.Surface{}, err
		}
	}

	ov.mu.Lock()
	loaded, loadErr, sum := ov.loaded, ov.loadErr, ov.summary
	ov.mu.Unlock()

	switch {
	case loadErr != nil && !loaded:
		if err := line(
			vaxis.Segment{Text: " Last run  ", Style: bold},
			vaxis.Segment{Text: "unavailable: " + loadErr.Error(), Style: vaxis.Style{Foreground: vaxis.IndexColor(1)}},
		); err != nil {
			return vxfw.Surface{}, err
		}
		return s, nil
	case !loaded:
		if row < height {
			loading, err := drawLoadingState(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}), ov)
			if err != nil {
				return vxfw.Surface{}, err
			}
			s.AddChild(1, row, loading)
		}
		return s, nil
	}

	if err := line(
		vaxis.Segment{Text: " Last run  ", Style: bold},
		vaxis.Segment{Text: humanize.Comma(int64(sum.TotalCreated)) + " created", Style: vaxis.Style{Foreground: vaxis.IndexColor(2)}},
		vaxis.Segment{Text: "  "},
		vaxis.Segment{Text: humanize.Comma(int64(sum.TotalFailures)) + " failed", Style: vaxis.Style{Foreground: vaxis.IndexColor(1)}},
	); err != nil {
		return vxfw.Surface{}, err
	}

	if remaining := height - row; remaining > 0 {
		listSurf, err := ov.list.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: uint16(remaining)}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, listSurf)
	}

	return s, nil
}

// HandleEvent delegates to the list widget for navigation.
func (ov *OverviewView) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	return ov.list.HandleEvent(ev, phase)
}
