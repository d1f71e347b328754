package widgets

import (
	"fmt"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

var dimStyle = vaxis.Style{Attribute: vaxis.AttrDim}

// TableColumn defines a column in a Table.
type TableColumn struct {
	Width      int         // fixed character width
	AlignRight bool        // right-align text within the column
	Style      vaxis.Style // applied to all cells in this column
}

// Table renders rows of text in fixed-width columns. When the rows do
// not fit, the last visible line becomes a dimmed "+N more" marker.
type Table struct {
	Columns []TableColumn
	Rows    [][]string
	Header  []string // optional, rendered dimmed
	Gap     int      // spaces between columns (default 1)
	Empty   string   // shown dimmed below the header when there are no rows
}

// writeText writes s at (col, row), clipped to maxWidth display columns.
func writeText(surf *vxfw.Surface, col, row uint16, maxWidth int, s string, style vaxis.Style, alignRight bool) {
	chars := vaxis.Characters(s)

	pos := 0
	if alignRight {
		w := 0
		for _, ch := range chars {
			w += ch.Width
		}
		pos = max(maxWidth-w, 0)
	}

	for _, ch := range chars {
		if pos+ch.Width > maxWidth {
			return
		}
		surf.WriteCell(col+uint16(pos), row, vaxis.Cell{Character: ch, Style: style})
		pos += ch.Width
	}
}

func (t *Table) gap() int {
	if t.Gap == 0 {
		return 1
	}
	return t.Gap
}

// drawRow lays cells out across the columns. A nil style uses each
// column's own style.
func (t *Table) drawRow(s *vxfw.Surface, row uint16, cells []string, style *vaxis.Style) {
	col := 0
	for i, c := range t.Columns {
		if col >= int(s.Size.Width) {
			return
		}
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		st := c.Style
		if style != nil {
			st = *style
		}
		writeText(s, uint16(col), row, min(c.Width, int(s.Size.Width)-col), text, st, c.AlignRight)
		col += c.Width + t.gap()
	}
}

// Draw renders the header (if set) and as many rows as fit.
func (t *Table) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	lines := len(t.Rows)
	if lines == 0 && t.Empty != "" {
		lines = 1
	}
	if t.Header != nil {
		lines++
	}
	height := min(uint16(lines), ctx.Max.Height)

	s := vxfw.NewSurface(ctx.Max.Width, height, t)
	if height == 0 {
		return s, nil
	}

	row := uint16(0)
	if t.Header != nil {
		t.drawRow(&s, row, t.Header, &dimStyle)
		row++
	}

	if len(t.Rows) == 0 {
		if t.Empty != "" && row < height {
			writeText(&s, 0, row, int(ctx.Max.Width), t.Empty, dimStyle, false)
		}
		return s, nil
	}

	room := int(height - row)
	shown := len(t.Rows)
	if shown > room {
		shown = room - 1
	}
	for _, cells := range t.Rows[:max(shown, 0)] {
		t.drawRow(&s, row, cells, nil)
		row++
	}
	if hidden := len(t.Rows) - max(shown, 0); hidden > 0 && row < height {
		writeText(&s, 0, row, int(ctx.Max.Width), fmt.Sprintf("+%d more", hidden), dimStyle, false)
	}

	return s, nil
}
