package views_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/deevus/sankhya-tui/sankhya"
	"github.com/deevus/sankhya-tui/views"
)

var testNow = time.Date(2025, 7, 21, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func mustEvent(t *testing.T, kind sankhya.EventKind, payload any) sankhya.Event {
	t.Helper()
	ev, err := sankhya.NewEvent(kind, payload)
	if err != nil {
		t.Fatalf("NewEvent(%s): %v", kind, err)
	}
	return ev
}

func lastLog(st views.AutomationState) string {
	if len(st.Log) == 0 {
		return ""
	}
	return st.Log[len(st.Log)-1].Message
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		current, total int
		want           int
	}{
		{5, 20, 25},
		{0, 0, 0},
		{3, 0, 0},
		{1, 3, 33},
		{2, 3, 67},
		{20, 20, 100},
		{25, 20, 100},
		{-1, 20, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.current, tt.total), func(t *testing.T) {
			if got := views.ProgressPercent(tt.current, tt.total); got != tt.want {
				t.Errorf("ProgressPercent(%d, %d) = %d, want %d", tt.current, tt.total, got, tt.want)
			}
		})
	}
}

func TestAutomationState_Initial(t *testing.T) {
	s := views.NewAutomationState()
	if s.Processing || s.Used {
		t.Error("expected idle, unused state")
	}
	if s.ShowSearch || s.ShowStart || s.ShowProgress || s.ShowSummary {
		t.Error("expected every optional section hidden")
	}
	if len(s.Log) != 0 {
		t.Errorf("expected empty log, got %d entries", len(s.Log))
	}
}

func TestAutomationState_ApplyLog(t *testing.T) {
	s := views.NewAutomationState()
	s.Now = fixedClock

	effect, err := s.Apply(mustEvent(t, sankhya.EventLog, sankhya.LogUpdate{Message: "Plan 9 ok", Type: sankhya.LevelSuccess}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if effect != views.EffectNone {
		t.Errorf("expected no effect, got %v", effect)
	}
	if len(s.Log) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(s.Log))
	}
	e := s.Log[0]
	if e.Message != "Plan 9 ok" || e.Level != sankhya.LevelSuccess || !e.Time.Equal(testNow) {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestAutomationState_ApplyLog_DefaultLevel(t *testing.T) {
	s := views.NewAutomationState()
	if _, err := s.Apply(mustEvent(t, sankhya.EventLog, map[string]string{"message": "hello"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Log[0].Level != sankhya.LevelInfo {
		t.Errorf("expected info level, got %q", s.Log[0].Level)
	}
}

func TestAutomationState_CountersReplayIsIdempotent(t *testing.T) {
	s := views.NewAutomationState()
	ev := mustEvent(t, sankhya.EventCounters, sankhya.CountersUpdate{OpsCreated: 4, OpsFailed: 1, Round: "2"})

	for range 3 {
		if _, err := s.Apply(ev); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	want := views.Counters{Created: 4, Failed: 1, Round: "2"}
	if s.Counters != want {
		t.Errorf("expected %+v, got %+v", want, s.Counters)
	}
	if len(s.Log) != 0 {
		t.Error("counters must not write to the log")
	}
}

func TestAutomationState_CountersNumericRound(t *testing.T) {
	s := views.NewAutomationState()
	ev := sankhya.Event{Kind: sankhya.EventCounters, Data: []byte(`{"ops_criadas":1,"ops_falhas":0,"rodada_atual":3}`)}
	if _, err := s.Apply(ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Counters.Round.String() != "3" {
		t.Errorf("expected round 3, got %q", s.Counters.Round)
	}
}

func TestAutomationState_ApplyProgress(t *testing.T) {
	s := views.NewAutomationState()
	if _, err := s.Apply(mustEvent(t, sankhya.EventProgress, sankhya.ProgressUpdate{Current: 5, Total: 20})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Progress.Percent() != 25 {
		t.Errorf("expected 25%%, got %d", s.Progress.Percent())
	}

	if _, err := s.Apply(mustEvent(t, sankhya.EventProgress, sankhya.ProgressUpdate{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Progress.Percent() != 0 {
		t.Errorf("expected 0%% for empty total, got %d", s.Progress.Percent())
	}
}

func TestAutomationState_ApplyFinished(t *testing.T) {
	s := views.NewAutomationState()
	if !s.BeginStart() {
		t.Fatal("expected start to be accepted")
	}

	effect, err := s.Apply(sankhya.Event{Kind: sankhya.EventFinished})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if effect != views.EffectFetchSummary {
		t.Errorf("expected summary fetch, got %v", effect)
	}
	if s.Processing {
		t.Error("expected processing cleared")
	}
	if !s.ShowStart {
		t.Error("expected start revealed again")
	}
	if lastLog(*s) != "🎉 Automation finished!" {
		t.Errorf("unexpected last log %q", lastLog(*s))
	}
	if s.Log[len(s.Log)-1].Level != sankhya.LevelSuccess {
		t.Errorf("expected success level, got %q", s.Log[len(s.Log)-1].Level)
	}
}

func TestAutomationState_ApplyUnknown(t *testing.T) {
	s := views.NewAutomationState()
	_, err := s.Apply(sankhya.Event{Kind: "heartbeat"})
	if !errors.Is(err, views.ErrUnknownEvent) {
		t.Fatalf("expected ErrUnknownEvent, got %v", err)
	}
	if len(s.Log) != 0 {
		t.Error("unknown events must not change state")
	}
}

func TestAutomationState_ApplyMalformed(t *testing.T) {
	s := views.NewAutomationState()
	_, err := s.Apply(sankhya.Event{Kind: sankhya.EventCounters, Data: []byte(`{"ops_criadas":"many"}`)})
	if err == nil {
		t.Fatal("expected decode error")
	}
	if s.Counters != (views.Counters{}) {
		t.Errorf("expected counters untouched, got %+v", s.Counters)
	}
}

func TestAutomationState_LogCap(t *testing.T) {
	s := views.NewAutomationState()
	for i := range 510 {
		s.AddLog(sankhya.LevelInfo, fmt.Sprintf("line %d", i))
	}
	if len(s.Log) != 500 {
		t.Fatalf("expected 500 entries, got %d", len(s.Log))
	}
	if s.Log[0].Message != "line 10" {
		t.Errorf("expected oldest entries dropped, first is %q", s.Log[0].Message)
	}
	if lastLog(*s) != "line 509" {
		t.Errorf("unexpected last entry %q", lastLog(*s))
	}
}

func TestAutomationState_BeginStartGuard(t *testing.T) {
	s := views.NewAutomationState()
	s.ShowStart = true
	s.ShowSummary = true

	if !s.BeginStart() {
		t.Fatal("expected first start accepted")
	}
	if !s.Processing || !s.Used || s.ShowStart || !s.ShowProgress || s.ShowSummary {
		t.Errorf("unexpected state after start: %+v", s)
	}
	if lastLog(*s) != "🚀 Sending command to start automation..." {
		t.Errorf("unexpected log %q", lastLog(*s))
	}

	if s.BeginStart() {
		t.Fatal("expected second start refused")
	}
	if lastLog(*s) != "⚠️ Automation already in progress." {
		t.Errorf("unexpected log %q", lastLog(*s))
	}
	if s.Log[len(s.Log)-1].Level != sankhya.LevelWarning {
		t.Error("expected warning level")
	}
}

func TestAutomationState_RollbackStart(t *testing.T) {
	s := views.NewAutomationState()
	s.BeginStart()
	s.RollbackStart("❌ nope")

	if s.Processing {
		t.Error("expected processing cleared")
	}
	if !s.ShowStart {
		t.Error("expected start revealed")
	}
	if !s.Used {
		t.Error("a rolled back start still counts as used")
	}
	if lastLog(*s) != "❌ nope" {
		t.Errorf("unexpected log %q", lastLog(*s))
	}
}

func TestAutomationState_Reset(t *testing.T) {
	s := views.NewAutomationState()
	s.BeginStart()
	s.AddLog(sankhya.LevelInfo, "x")
	s.Counters = views.Counters{Created: 3}
	s.Progress = views.Progress{Current: 1, Total: 2}
	s.SetSummary(&sankhya.Summary{TotalCreated: 3})
	s.ShowSearch = true

	s.Reset()

	if len(s.Log) != 0 || s.Counters != (views.Counters{}) || s.Progress != (views.Progress{}) || s.Summary != nil {
		t.Errorf("expected data cleared, got %+v", s)
	}
	if s.ShowSearch || s.ShowStart || s.ShowProgress || s.ShowSummary {
		t.Error("expected sections hidden")
	}
	if !s.Processing || !s.Used {
		t.Error("reset must not touch processing or used")
	}
}
