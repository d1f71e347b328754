package views

import (
	"unicode/utf8"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
)

// drawLoadingState renders a "Loading..." message in the view.
func drawLoadingState(ctx vxfw.DrawContext, owner vxfw.Widget) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, owner)
	label := richtext.New([]vaxis.Segment{
		{Text: "Loading...", Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	})
	labelSurf, err := label.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, labelSurf)
	return s, nil
}

// Splash is the full-screen overlay shown while the app boots.
type Splash struct {
	Title    string
	Subtitle string
}

// Draw centres the title and subtitle.
func (sp *Splash) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, sp)
	mid := int(ctx.Max.Height) / 2

	rows := []struct {
		text  string
		style vaxis.Style
	}{
		{sp.Title, vaxis.Style{Attribute: vaxis.AttrBold}},
		{sp.Subtitle, vaxis.Style{Attribute: vaxis.AttrDim}},
	}
	for i, r := range rows {
		row := mid - 1 + i
		if r.text == "" || row < 0 || row >= int(ctx.Max.Height) {
			continue
		}
		col := max((int(ctx.Max.Width)-utf8.RuneCountInString(r.text))/2, 0)
		label := richtext.New([]vaxis.Segment{{Text: r.text, Style: r.style}})
		surf, err := label.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width - uint16(col), Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(col, row, surf)
	}
	return s, nil
}
