package sankhya

import (
	"encoding/json"
	"io"
	"sync"
)

// EventKind names a server-pushed event.
type EventKind string

const (
	EventLog      EventKind = "log_update"
	EventCounters EventKind = "counters_update"
	EventProgress EventKind = "progress_bar_update"
	EventFinished EventKind = "process_finished"
)

// Event is one frame of the push channel.
type Event struct {
	Kind EventKind       `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent encodes payload into an Event. A nil payload yields an empty object.
func NewEvent(kind EventKind, payload any) (Event, error) {
	if payload == nil {
		return Event{Kind: kind, Data: json.RawMessage(`{}`)}, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: kind, Data: b}, nil
}

// Level is the severity attached to log lines.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// LogUpdate is the payload of log_update.
type LogUpdate struct {
	Message string `json:"message"`
	Type    Level  `json:"type"`
}

// CountersUpdate is the payload of counters_update.
type CountersUpdate struct {
	OpsCreated int        `json:"ops_criadas"`
	OpsFailed  int        `json:"ops_falhas"`
	Round      FlexString `json:"rodada_atual"`
}

// ProgressUpdate is the payload of progress_bar_update.
type ProgressUpdate struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Subscription is a live push-event stream. C is closed when the stream ends.
type Subscription struct {
	C <-chan Event

	closer io.Closer
	once   sync.Once
	err    error
}

// NewSubscription wraps an event channel and the resource that feeds it.
// closer may be nil.
func NewSubscription(c <-chan Event, closer io.Closer) *Subscription {
	return &Subscription{C: c, closer: closer}
}

// Close releases the underlying stream. Safe to call more than once.
func (s *Subscription) Close() error {
	s.once.Do(func() {
		if s.closer != nil {
			s.err = s.closer.Close()
		}
	})
	return s.err
}
