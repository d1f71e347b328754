package views

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/deevus/sankhya-tui/sankhya"
)

// Log messages written by the automation panel.
const (
	msgWaiting       = "Waiting to start..."
	msgResetting     = "Resetting application state..."
	msgResetDone     = "State reset. Verifying connections..."
	msgVerifyFailed  = "❌ Critical error during verification: "
	msgBadParams     = "❌ Check the parameters (date and rounds)."
	msgSearching     = "Searching plans for %s..."
	msgNoPlans       = "⚠️ No pending plans found."
	msgSearchFailed  = "❌ Error searching plans: "
	msgAlreadyActive = "⚠️ Automation already in progress."
	msgStarting      = "🚀 Sending command to start automation..."
	msgStartRejected = "❌ Failed to start automation: "
	msgStartFailed   = "❌ Error sending start command: "
	msgFinished      = "🎉 Automation finished!"
	msgSummaryFailed = "❌ Error loading summary: "
)

// maxLogEntries bounds the visible log.
const maxLogEntries = 500

// ErrUnknownEvent is returned by Apply for event kinds without a handler.
var ErrUnknownEvent = errors.New("unknown event kind")

// LogEntry is one line of the panel log.
type LogEntry struct {
	Time    time.Time
	Level   sankhya.Level
	Message string
}

// Counters mirrors the latest counters_update.
type Counters struct {
	Created int
	Failed  int
	Round   sankhya.FlexString
}

// Progress mirrors the latest progress_bar_update.
type Progress struct {
	Current int
	Total   int
}

// Percent returns the rounded completion percentage.
func (p Progress) Percent() int {
	return ProgressPercent(p.Current, p.Total)
}

// ProgressPercent returns round(current/total*100) clamped to 0..100, and 0
// when total is not positive.
func ProgressPercent(current, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(current) / float64(total) * 100))
	return max(0, min(100, pct))
}

// Effect is a follow-up action requested by a state transition.
type Effect int

const (
	EffectNone Effect = iota
	EffectFetchSummary
)

// AutomationState is the panel's view state. It holds no locks and does no
// I/O; AutomationView serializes access to it.
type AutomationState struct {
	Processing bool
	// Used is set once the backend has been asked to open its connections.
	Used bool

	Log      []LogEntry
	Counters Counters
	Progress Progress
	Summary  *sankhya.Summary

	ShowSearch   bool
	ShowStart    bool
	ShowProgress bool
	ShowSummary  bool

	// Now stamps log entries. Nil uses time.Now.
	Now func() time.Time
}

// NewAutomationState returns the initial state: empty log, zero counters,
// every optional section hidden.
func NewAutomationState() *AutomationState {
	return &AutomationState{}
}

func (s *AutomationState) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// AddLog appends a line to the log, dropping the oldest past maxLogEntries.
func (s *AutomationState) AddLog(level sankhya.Level, msg string) {
	if level == "" {
		level = sankhya.LevelInfo
	}
	s.Log = append(s.Log, LogEntry{Time: s.now(), Level: level, Message: msg})
	if n := len(s.Log) - maxLogEntries; n > 0 {
		s.Log = append(s.Log[:0], s.Log[n:]...)
	}
}

// Reset clears the log, counters, progress and summary and hides every
// optional section. Processing and Used are untouched.
func (s *AutomationState) Reset() {
	s.Log = nil
	s.Counters = Counters{}
	s.Progress = Progress{}
	s.Summary = nil
	s.ShowSearch = false
	s.ShowStart = false
	s.ShowProgress = false
	s.ShowSummary = false
}

// BeginStart performs the check-and-set guarding start requests. It
// reports false, after logging a warning, when a run is already active.
func (s *AutomationState) BeginStart() bool {
	if s.Processing {
		s.AddLog(sankhya.LevelWarning, msgAlreadyActive)
		return false
	}
	s.Processing = true
	s.Used = true
	s.ShowStart = false
	s.ShowProgress = true
	s.ShowSummary = false
	s.AddLog(sankhya.LevelInfo, msgStarting)
	return true
}

// RollbackStart restores the start action after a failed start request.
func (s *AutomationState) RollbackStart(msg string) {
	s.AddLog(sankhya.LevelError, msg)
	s.Processing = false
	s.ShowStart = true
}

// SetSummary stores a fetched summary and reveals it.
func (s *AutomationState) SetSummary(sum *sankhya.Summary) {
	s.Summary = sum
	s.ShowSummary = true
}

type eventHandler func(*AutomationState, json.RawMessage) (Effect, error)

// eventHandlers maps each push-event kind to its state transition. Every
// transition overwrites rather than accumulates, so replaying an event
// leaves counters and progress unchanged.
var eventHandlers = map[sankhya.EventKind]eventHandler{
	sankhya.EventLog:      applyLogUpdate,
	sankhya.EventCounters: applyCountersUpdate,
	sankhya.EventProgress: applyProgressUpdate,
	sankhya.EventFinished: applyProcessFinished,
}

// Apply runs the handler registered for ev.Kind.
func (s *AutomationState) Apply(ev sankhya.Event) (Effect, error) {
	h, ok := eventHandlers[ev.Kind]
	if !ok {
		return EffectNone, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
	return h(s, ev.Data)
}

func decodePayload(kind sankhya.EventKind, data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", kind, err)
	}
	return nil
}

func applyLogUpdate(s *AutomationState, data json.RawMessage) (Effect, error) {
	var p sankhya.LogUpdate
	if err := decodePayload(sankhya.EventLog, data, &p); err != nil {
		return EffectNone, err
	}
	s.AddLog(p.Type, p.Message)
	return EffectNone, nil
}

func applyCountersUpdate(s *AutomationState, data json.RawMessage) (Effect, error) {
	var p sankhya.CountersUpdate
	if err := decodePayload(sankhya.EventCounters, data, &p); err != nil {
		return EffectNone, err
	}
	s.Counters = Counters{Created: p.OpsCreated, Failed: p.OpsFailed, Round: p.Round}
	return EffectNone, nil
}

func applyProgressUpdate(s *AutomationState, data json.RawMessage) (Effect, error) {
	var p sankhya.ProgressUpdate
	if err := decodePayload(sankhya.EventProgress, data, &p); err != nil {
		return EffectNone, err
	}
	s.Progress = Progress{Current: p.Current, Total: p.Total}
	return EffectNone, nil
}

func applyProcessFinished(s *AutomationState, _ json.RawMessage) (Effect, error) {
	s.AddLog(sankhya.LevelSuccess, msgFinished)
	s.Processing = false
	s.ShowStart = true
	return EffectFetchSummary, nil
}
