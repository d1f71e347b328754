package widgets

import (
	"sync"
	"time"
	"unicode/utf8"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Toast is a transient notification.
type Toast struct {
	Level   Level
	Message string
	Expires time.Time
}

// ToastStack holds transient notifications, oldest first. It is safe for
// concurrent use.
type ToastStack struct {
	// Timeout is how long a toast stays visible. Zero means 5s.
	Timeout time.Duration
	// Now is the clock; nil uses time.Now.
	Now func() time.Time

	mu     sync.Mutex
	toasts []Toast
}

const defaultToastTimeout = 5 * time.Second

// NewToastStack creates a ToastStack with the given timeout.
func NewToastStack(timeout time.Duration) *ToastStack {
	return &ToastStack{Timeout: timeout}
}

func (ts *ToastStack) now() time.Time {
	if ts.Now != nil {
		return ts.Now()
	}
	return time.Now()
}

// TTL returns the effective toast lifetime.
func (ts *ToastStack) TTL() time.Duration {
	if ts.Timeout <= 0 {
		return defaultToastTimeout
	}
	return ts.Timeout
}

// Push adds a toast that expires after TTL.
func (ts *ToastStack) Push(level Level, message string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.toasts = append(ts.toasts, Toast{
		Level:   level,
		Message: message,
		Expires: ts.now().Add(ts.TTL()),
	})
}

// Prune drops expired toasts and reports whether any were removed.
func (ts *ToastStack) Prune() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	now := ts.now()
	kept := ts.toasts[:0]
	for _, t := range ts.toasts {
		if now.Before(t.Expires) {
			kept = append(kept, t)
		}
	}
	removed := len(kept) != len(ts.toasts)
	ts.toasts = kept
	return removed
}

// Toasts returns a copy of the live toasts.
func (ts *ToastStack) Toasts() []Toast {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]Toast(nil), ts.toasts...)
}

// Len returns the number of live toasts.
func (ts *ToastStack) Len() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.toasts)
}

func toastBackground(l Level) vaxis.Color {
	switch l {
	case LevelSuccess:
		return vaxis.IndexColor(2)
	case LevelWarning:
		return vaxis.IndexColor(3)
	case LevelError:
		return vaxis.IndexColor(1)
	default:
		return vaxis.IndexColor(4)
	}
}

// Draw renders one row per toast, sized to the widest message. Callers
// position the surface, usually at the top-right corner.
func (ts *ToastStack) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	toasts := ts.Toasts()

	width := 0
	for _, t := range toasts {
		if n := utf8.RuneCountInString(t.Message) + 5; n > width {
			width = n
		}
	}
	width = min(width, int(ctx.Max.Width))
	height := min(len(toasts), int(ctx.Max.Height))

	s := vxfw.NewSurface(uint16(width), uint16(height), ts)
	for i := 0; i < height; i++ {
		t := toasts[i]
		style := vaxis.Style{
			Foreground: vaxis.IndexColor(15),
			Background: toastBackground(t.Level),
			Attribute:  vaxis.AttrBold,
		}
		text := " " + t.Level.Icon() + " " + t.Message
		for n := utf8.RuneCountInString(text); n < width; n++ {
			text += " "
		}
		writeText(&s, 0, uint16(i), width, text, style, false)
	}
	return s, nil
}
