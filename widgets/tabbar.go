package widgets

import (
	"strconv"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// Tab is one entry of a TabBar. Name is the stable identifier, Label what
// is shown.
type Tab struct {
	Name  string
	Label string
}

// TabBar is a horizontal tab navigation widget. Exactly one tab is active.
type TabBar struct {
	tabs   []Tab
	active int
}

// NewTabBar creates a TabBar with the given tabs. Active defaults to 0.
func NewTabBar(tabs []Tab) *TabBar {
	return &TabBar{tabs: tabs}
}

// Len returns the number of tabs.
func (tb *TabBar) Len() int {
	return len(tb.tabs)
}

// Active returns the currently active tab index.
func (tb *TabBar) Active() int {
	return tb.active
}

// ActiveName returns the name of the active tab.
func (tb *TabBar) ActiveName() string {
	if len(tb.tabs) == 0 {
		return ""
	}
	return tb.tabs[tb.active].Name
}

// Index returns the index of the named tab, or -1.
func (tb *TabBar) Index(name string) int {
	for i, t := range tb.tabs {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// SetActive sets the active tab index. Out-of-range values are ignored.
func (tb *TabBar) SetActive(i int) {
	if i >= 0 && i < len(tb.tabs) {
		tb.active = i
	}
}

// SetActiveName activates the named tab and reports whether it exists.
func (tb *TabBar) SetActiveName(name string) bool {
	i := tb.Index(name)
	if i < 0 {
		return false
	}
	tb.active = i
	return true
}

// Next advances to the next tab, wrapping around.
func (tb *TabBar) Next() {
	if len(tb.tabs) == 0 {
		return
	}
	tb.active = (tb.active + 1) % len(tb.tabs)
}

// Prev moves to the previous tab, wrapping around.
func (tb *TabBar) Prev() {
	if len(tb.tabs) == 0 {
		return
	}
	tb.active = (tb.active - 1 + len(tb.tabs)) % len(tb.tabs)
}

// Draw renders the tab bar as a single row: " 1 Overview │ 2 Automation "
// The active tab is rendered bold and in reverse video.
func (tb *TabBar) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, 1, tb)

	col := uint16(0)
	for i, tab := range tb.tabs {
		if i > 0 {
			for _, ch := range ctx.Characters(" │ ") {
				s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: vaxis.Style{Attribute: vaxis.AttrDim}})
				col += uint16(ch.Width)
			}
		}

		style := vaxis.Style{}
		if i == tb.active {
			style.Attribute |= vaxis.AttrReverse | vaxis.AttrBold
		}

		text := " " + strconv.Itoa(i+1) + " " + tab.Label + " "
		for _, ch := range ctx.Characters(text) {
			if col >= ctx.Max.Width {
				return s, nil
			}
			s.WriteCell(col, 0, vaxis.Cell{Character: ch, Style: style})
			col += uint16(ch.Width)
		}
	}

	return s, nil
}
