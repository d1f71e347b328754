package widgets

import (
	"unicode/utf8"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Confirm is a one-line yes/no prompt box.
//
//	┃ Automation in progress. Quit anyway? [y/N] ┃
type Confirm struct {
	Message string
}

// Width returns the rendered width of the prompt.
func (c *Confirm) Width() int {
	return utf8.RuneCountInString(c.prompt())
}

func (c *Confirm) prompt() string {
	return "┃ " + c.Message + " [y/N] ┃"
}

// Answer interprets a key press: yes is true only for y/Y; decided is
// false for keys that neither confirm nor cancel.
func (c *Confirm) Answer(k vaxis.Key) (yes, decided bool) {
	switch {
	case k.Matches('y'), k.Matches('Y'), k.Matches('y', vaxis.ModShift):
		return true, true
	case k.Matches('n'), k.Matches('N'), k.Matches('n', vaxis.ModShift),
		k.Matches(vaxis.KeyEsc), k.Matches(vaxis.KeyEnter):
		return false, true
	}
	return false, false
}

// Draw renders the prompt on a single row.
func (c *Confirm) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	width := min(c.Width(), int(ctx.Max.Width))
	s := vxfw.NewSurface(uint16(width), 1, c)
	style := vaxis.Style{
		Foreground: vaxis.IndexColor(0),
		Background: vaxis.IndexColor(3),
		Attribute:  vaxis.AttrBold,
	}
	writeText(&s, 0, 0, width, c.prompt(), style, false)
	return s, nil
}
