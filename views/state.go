package views

import "github.com/deevus/sankhya-tui/widgets"

// ViewLoaded is a custom vaxis event posted when a view finishes loading data.
// It is sent from background goroutines via PostEvent to notify the UI.
type ViewLoaded struct {
	Tab int
	Err error
}

// AutomationUpdated is posted by the automation panel whenever its state
// changes off the UI thread (request finished, push event applied),
// triggering a redraw.
type AutomationUpdated struct{}

// ShowToast asks the root widget to display a transient notification.
type ShowToast struct {
	Level   widgets.Level
	Message string
}

// StreamStatus describes the push-event connection.
type StreamStatus int

const (
	StreamIdle StreamStatus = iota
	StreamConnecting
	StreamLive
	StreamReconnecting
)

func (s StreamStatus) String() string {
	switch s {
	case StreamConnecting:
		return "connecting"
	case StreamLive:
		return "live"
	case StreamReconnecting:
		return "reconnecting"
	default:
		return "idle"
	}
}
