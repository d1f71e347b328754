package widgets

import (
	"math"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

var sparkBlocks = [8]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// Sparkline is a one-row history graph keeping at most a fixed number of
// samples. Older samples fall off the front.
type Sparkline struct {
	Color vaxis.Color // zero means cyan

	limit  int
	window []float64
}

// NewSparkline creates a Sparkline holding up to capacity samples.
func NewSparkline(capacity int) *Sparkline {
	return &Sparkline{limit: max(capacity, 1), window: make([]float64, 0, capacity)}
}

// Push appends a sample, dropping the oldest one when full.
func (sl *Sparkline) Push(v float64) {
	if len(sl.window) == sl.limit {
		copy(sl.window, sl.window[1:])
		sl.window = sl.window[:sl.limit-1]
	}
	sl.window = append(sl.window, v)
}

// Last returns the newest sample.
func (sl *Sparkline) Last() (float64, bool) {
	if len(sl.window) == 0 {
		return 0, false
	}
	return sl.window[len(sl.window)-1], true
}

// PushChanged pushes v only when it differs from the newest sample, and
// reports whether it did.
func (sl *Sparkline) PushChanged(v float64) bool {
	if last, ok := sl.Last(); ok && last == v {
		return false
	}
	sl.Push(v)
	return true
}

// Reset drops all samples.
func (sl *Sparkline) Reset() {
	sl.window = sl.window[:0]
}

// Count returns the number of samples held.
func (sl *Sparkline) Count() int {
	return len(sl.window)
}

// blockLevel maps v into 0..7 between lo and hi. A flat non-zero series
// sits mid-height.
func blockLevel(v, lo, hi float64) int {
	switch {
	case hi > lo:
		return min(int(math.Round((v-lo)/(hi-lo)*7)), 7)
	case hi > 0:
		return 4
	default:
		return 0
	}
}

// Draw renders the newest samples that fit in the available width.
func (sl *Sparkline) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, sl)

	vals := sl.window
	if w := int(ctx.Max.Width); len(vals) > w {
		vals = vals[len(vals)-w:]
	}
	if len(vals) == 0 {
		return s, nil
	}

	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	style := vaxis.Style{Foreground: sl.Color}
	if sl.Color == 0 {
		style.Foreground = vaxis.IndexColor(6)
	}

	for i, v := range vals {
		for _, c := range ctx.Characters(sparkBlocks[blockLevel(v, lo, hi)]) {
			s.WriteCell(uint16(i), 0, vaxis.Cell{Character: c, Style: style})
		}
	}

	return s, nil
}
