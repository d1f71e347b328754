package widgets

import (
	"strings"

	"git.sr.ht/~rockorager/vaxis"
)

// Level is the severity used to colour log lines and toasts.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// ParseLevel maps a severity name to a Level. Unknown names are info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "success":
		return LevelSuccess
	case "warning", "warn":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Color returns the foreground colour for the level. Info uses the
// terminal default.
func (l Level) Color() vaxis.Color {
	switch l {
	case LevelSuccess:
		return vaxis.IndexColor(2) // green
	case LevelWarning:
		return vaxis.IndexColor(3) // yellow
	case LevelError:
		return vaxis.IndexColor(1) // red
	default:
		return 0
	}
}

// Icon returns the glyph shown in front of toasts of this level.
func (l Level) Icon() string {
	switch l {
	case LevelSuccess:
		return "✔"
	case LevelWarning:
		return "⚠"
	case LevelError:
		return "✖"
	default:
		return "ℹ"
	}
}
