package views_test

import (
	"strings"
	"testing"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

func testDrawContext(w, h uint16) vxfw.DrawContext {
	return vxfw.DrawContext{
		Max: vxfw.Size{Width: w, Height: h},
		Min: vxfw.Size{},
		Characters: func(s string) []vaxis.Character {
			chars := make([]vaxis.Character, 0, len(s))
			for _, r := range s {
				chars = append(chars, vaxis.Character{Grapheme: string(r), Width: 1})
			}
			return chars
		},
	}
}

// eventually polls cond until it holds or five seconds pass.
func eventually(t *testing.T, msg string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// surfaceText flattens s and its children into text, one line per row.
func surfaceText(s vxfw.Surface) string {
	var b strings.Builder
	w := int(s.Size.Width)
	for i, c := range s.Buffer {
		b.WriteString(c.Character.Grapheme)
		if w > 0 && (i+1)%w == 0 {
			b.WriteByte('\n')
		}
	}
	for _, child := range s.Children {
		b.WriteString(surfaceText(child.Surface))
	}
	return b.String()
}
