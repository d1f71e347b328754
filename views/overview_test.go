package views_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/deevus/sankhya-tui/sankhya"
	"github.com/deevus/sankhya-tui/views"
)

type fakeStream struct {
	status views.StreamStatus
	last   time.Time
}

func (f fakeStream) StreamState() (views.StreamStatus, time.Time) {
	return f.status, f.last
}

func newOverview(svc sankhya.AutomationServiceAPI, ttl time.Duration) *views.OverviewView {
	return views.NewOverviewView(views.OverviewViewParams{
		Service:    svc,
		Stream:     fakeStream{status: views.StreamLive, last: time.Now().Add(-time.Minute)},
		ServerName: "plant",
		BaseURL:    "http://localhost:5000",
		SessionID:  "3f1c",
		StaleTTL:   ttl,
	})
}

func TestOverviewView_Load(t *testing.T) {
	svc := &sankhya.MockAutomationService{
		FetchSummaryFunc: func(ctx context.Context) (*sankhya.Summary, error) {
			return &sankhya.Summary{
				TotalCreated:  2,
				Created:       []sankhya.CreatedOp{{PlanID: "1", OpID: "10"}, {PlanID: "2", OpID: "11"}},
				TotalFailures: 1,
				Failures:      []sankhya.Failure{{PlanID: "3", Error: "no stock"}},
			}, nil
		},
	}
	ov := newOverview(svc, time.Minute)

	if ov.Loaded() {
		t.Error("expected not loaded before Load")
	}
	if err := ov.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ov.Loaded() {
		t.Error("expected loaded")
	}
	if ov.ItemCount() != 3 {
		t.Errorf("expected 3 rows, got %d", ov.ItemCount())
	}
	if ov.Summary().TotalCreated != 2 {
		t.Errorf("expected 2 created, got %d", ov.Summary().TotalCreated)
	}
}

func TestOverviewView_LoadNilSummary(t *testing.T) {
	svc := &sankhya.MockAutomationService{
		FetchSummaryFunc: func(ctx context.Context) (*sankhya.Summary, error) {
			return nil, nil
		},
	}
	ov := newOverview(svc, time.Minute)
	if err := ov.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ov.Summary() == nil {
		t.Fatal("expected an empty summary")
	}
	if _, err := ov.Draw(testDrawContext(80, 20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOverviewView_LoadError(t *testing.T) {
	svc := &sankhya.MockAutomationService{
		FetchSummaryFunc: func(ctx context.Context) (*sankhya.Summary, error) {
			return nil, errors.New("backend down")
		},
	}
	ov := newOverview(svc, time.Minute)

	if err := ov.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if ov.Loaded() {
		t.Error("expected not loaded after error")
	}
	if _, err := ov.Draw(testDrawContext(80, 20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOverviewView_Stale(t *testing.T) {
	ov := newOverview(&sankhya.MockAutomationService{}, time.Hour)
	if !ov.Stale() {
		t.Error("expected stale before first load")
	}
	if err := ov.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ov.Stale() {
		t.Error("expected fresh after load")
	}

	ov = newOverview(&sankhya.MockAutomationService{}, time.Nanosecond)
	if err := ov.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(time.Millisecond)
	if !ov.Stale() {
		t.Error("expected stale after TTL")
	}
}

func TestOverviewView_Draw(t *testing.T) {
	ov := newOverview(&sankhya.MockAutomationService{}, time.Minute)

	// Before load
	if _, err := ov.Draw(testDrawContext(80, 20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ov.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, size := range []struct{ w, h uint16 }{{100, 30}, {40, 5}, {0, 0}} {
		s, err := ov.Draw(testDrawContext(size.w, size.h))
		if err != nil {
			t.Fatalf("Draw(%dx%d): %v", size.w, size.h, err)
		}
		if s.Size.Width != size.w || s.Size.Height != size.h {
			t.Errorf("expected %dx%d, got %dx%d", size.w, size.h, s.Size.Width, s.Size.Height)
		}
	}
}

func TestOverviewView_DrawLastEvent(t *testing.T) {
	last := time.Date(2025, 7, 21, 9, 58, 0, 0, time.UTC)
	ov := views.NewOverviewView(views.OverviewViewParams{
		Service:    &sankhya.MockAutomationService{},
		Stream:     fakeStream{status: views.StreamLive, last: last},
		ServerName: "plant",
	})

	s, err := ov.Draw(testDrawContext(100, 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := surfaceText(s); !strings.Contains(text, "last event 21/07/2025 09:58:00") {
		t.Errorf("expected pt-BR last event stamp, got:\n%s", text)
	}
}

func TestOverviewView_DrawWithoutStream(t *testing.T) {
	ov := views.NewOverviewView(views.OverviewViewParams{Service: &sankhya.MockAutomationService{}})
	if _, err := ov.Draw(testDrawContext(60, 12)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSplash_Draw(t *testing.T) {
	sp := &views.Splash{Title: "sankhya-tui", Subtitle: "connecting to plant"}
	for _, size := range []struct{ w, h uint16 }{{80, 24}, {5, 1}, {0, 0}} {
		s, err := sp.Draw(testDrawContext(size.w, size.h))
		if err != nil {
			t.Fatalf("Draw(%dx%d): %v", size.w, size.h, err)
		}
		if s.Size.Width != size.w || s.Size.Height != size.h {
			t.Errorf("expected %dx%d, got %dx%d", size.w, size.h, s.Size.Width, s.Size.Height)
		}
	}
}
