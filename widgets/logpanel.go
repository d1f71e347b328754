package widgets

import (
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// LogLine is one entry of a LogPanel.
type LogLine struct {
	Time  time.Time
	Level Level
	Text  string
}

// LogPanel renders the tail of a log, newest line at the bottom.
//
//	[14:30:05] State reset. Verifying connections...
//	[14:30:06] ✅ Connections OK
type LogPanel struct {
	Lines       []LogLine
	Placeholder string // shown dimmed when there are no lines
	HideTime    bool
}

// Draw fills the available height, keeping the most recent lines visible.
func (lp *LogPanel) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, lp)
	height := int(ctx.Max.Height)
	width := int(ctx.Max.Width)
	if height == 0 || width == 0 {
		return s, nil
	}

	if len(lp.Lines) == 0 {
		if lp.Placeholder != "" {
			writeText(&s, 0, 0, width, lp.Placeholder, vaxis.Style{Attribute: vaxis.AttrDim}, false)
		}
		return s, nil
	}

	lines := lp.Lines
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}

	dim := vaxis.Style{Attribute: vaxis.AttrDim}
	for row, line := range lines {
		col := 0
		if !lp.HideTime {
			stamp := "[" + line.Time.Format("15:04:05") + "] "
			writeText(&s, 0, uint16(row), width, stamp, dim, false)
			col = len(stamp)
		}
		if col >= width {
			continue
		}
		style := vaxis.Style{Foreground: line.Level.Color()}
		writeText(&s, uint16(col), uint16(row), width-col, line.Text, style, false)
	}

	return s, nil
}
