package widgets

import (
	"fmt"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// BarGauge is a horizontal bar gauge widget.
//
//	Progress [████████░░░░░░░░░░░░]  42%  5/12 plans
type BarGauge struct {
	Label    string  // left column, e.g. "Progress"
	Value    float64 // 0.0–100.0
	Suffix   string  // text after %, e.g. "5/12 plans"
	BarWidth int     // character width of the [████░░░░] portion (excluding brackets)

	// ColorFn picks the fill color for a clamped percentage. Nil uses
	// ProgressColor.
	ColorFn func(pct float64) vaxis.Color
}

const (
	barFilled = '█' // U+2588
	barEmpty  = '░' // U+2591
)

// ProgressColor is blue while work is in flight and green once complete.
func ProgressColor(pct float64) vaxis.Color {
	if pct >= 100 {
		return vaxis.IndexColor(2) // green
	}
	return vaxis.IndexColor(4) // blue
}

// ClampPercent bounds v to 0..100.
func ClampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// Draw renders the bar gauge as a single row.
func (bg *BarGauge) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, bg)

	col := uint16(0)
	put := func(text string, style vaxis.Style) {
		for _, ch := range ctx.Characters(text) {
			if col >= ctx.Max.Width {
				return
			}
			s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: style})
			col += uint16(ch.Width)
		}
	}

	if bg.Label != "" {
		put(bg.Label+" ", vaxis.Style{Attribute: vaxis.AttrBold})
	}
	put("[", vaxis.Style{})

	v := ClampPercent(bg.Value)
	filled := int(v / 100 * float64(bg.BarWidth))
	colorFn := bg.ColorFn
	if colorFn == nil {
		colorFn = ProgressColor
	}
	color := colorFn(v)

	for i := 0; i < bg.BarWidth; i++ {
		if i < filled {
			put(string(barFilled), vaxis.Style{Foreground: color})
		} else {
			put(string(barEmpty), vaxis.Style{Foreground: vaxis.IndexColor(8)}) // dim for empty
		}
	}

	put(fmt.Sprintf("] %3.0f%%", v), vaxis.Style{})

	if bg.Suffix != "" {
		put("  "+bg.Suffix, vaxis.Style{Attribute: vaxis.AttrDim})
	}

	return s, nil
}
