package widgets

import (
	"unicode"
	"unicode/utf8"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
)

// FormField is a single-line text input.
type FormField struct {
	Name     string
	Label    string
	Value    string
	Default  string // restored by Form.Clear
	Required bool
	MaxLen   int             // 0 means unlimited
	Accept   func(rune) bool // nil accepts any printable rune

	invalid bool
}

// Invalid reports whether the last Validate flagged this field.
func (f *FormField) Invalid() bool {
	return f.invalid
}

// Digits accepts 0-9.
func Digits(r rune) bool {
	return r >= '0' && r <= '9'
}

// DateRunes accepts the characters of an ISO date.
func DateRunes(r rune) bool {
	return Digits(r) || r == '-'
}

// Form is a vertical list of labelled text inputs with one focused field.
//
// Keys: Up/Down move focus, printable runes type, Backspace deletes,
// Ctrl+U clears the focused field, Ctrl+L resets every field.
type Form struct {
	Fields []*FormField
	focus  int
}

// NewForm creates a form. Empty values start at their defaults.
func NewForm(fields ...*FormField) *Form {
	for _, f := range fields {
		if f.Value == "" {
			f.Value = f.Default
		}
	}
	return &Form{Fields: fields}
}

// Focused returns the index of the focused field.
func (f *Form) Focused() int {
	return f.focus
}

// SetFocus focuses field i. Out-of-range values are ignored.
func (f *Form) SetFocus(i int) {
	if i >= 0 && i < len(f.Fields) {
		f.focus = i
	}
}

// FocusNext moves focus down, stopping at the last field.
func (f *Form) FocusNext() {
	f.SetFocus(f.focus + 1)
}

// FocusPrev moves focus up, stopping at the first field.
func (f *Form) FocusPrev() {
	f.SetFocus(f.focus - 1)
}

// Field returns the named field, or nil.
func (f *Form) Field(name string) *FormField {
	for _, fld := range f.Fields {
		if fld.Name == name {
			return fld
		}
	}
	return nil
}

// Value returns the value of the named field.
func (f *Form) Value(name string) string {
	if fld := f.Field(name); fld != nil {
		return fld.Value
	}
	return ""
}

// SetValue sets the value of the named field.
func (f *Form) SetValue(name, v string) {
	if fld := f.Field(name); fld != nil {
		fld.Value = v
	}
}

// Clear restores every field to its default, clears validation marks and
// focuses the first field.
func (f *Form) Clear() {
	for _, fld := range f.Fields {
		fld.Value = fld.Default
		fld.invalid = false
	}
	f.focus = 0
}

// Validate flags required fields that are empty and reports whether the
// form is complete.
func (f *Form) Validate() bool {
	ok := true
	for _, fld := range f.Fields {
		fld.invalid = fld.Required && fld.Value == ""
		if fld.invalid {
			ok = false
		}
	}
	return ok
}

// Insert types text into the focused field, dropping rejected runes.
func (f *Form) Insert(text string) {
	if len(f.Fields) == 0 {
		return
	}
	fld := f.Fields[f.focus]
	for _, r := range text {
		if !unicode.IsPrint(r) {
			continue
		}
		if fld.Accept != nil && !fld.Accept(r) {
			continue
		}
		if fld.MaxLen > 0 && utf8.RuneCountInString(fld.Value) >= fld.MaxLen {
			return
		}
		fld.Value += string(r)
	}
	fld.invalid = false
}

// Backspace removes the last rune of the focused field.
func (f *Form) Backspace() {
	if len(f.Fields) == 0 {
		return
	}
	fld := f.Fields[f.focus]
	if _, size := utf8.DecodeLastRuneInString(fld.Value); size > 0 {
		fld.Value = fld.Value[:len(fld.Value)-size]
	}
}

// ClearField empties the focused field.
func (f *Form) ClearField() {
	if len(f.Fields) == 0 {
		return
	}
	f.Fields[f.focus].Value = ""
}

// HandleKey applies k to the form and reports whether it was consumed.
func (f *Form) HandleKey(k vaxis.Key) bool {
	switch {
	case k.Matches(vaxis.KeyUp):
		f.FocusPrev()
	case k.Matches(vaxis.KeyDown), k.Matches(vaxis.KeyEnter):
		f.FocusNext()
	case k.Matches(vaxis.KeyBackspace):
		f.Backspace()
	case k.Matches('u', vaxis.ModCtrl):
		f.ClearField()
	case k.Matches('l', vaxis.ModCtrl):
		f.Clear()
	case k.Text != "" && k.Modifiers&(vaxis.ModCtrl|vaxis.ModAlt|vaxis.ModSuper) == 0:
		f.Insert(k.Text)
	default:
		return false
	}
	return true
}

const formInputWidth = 14

// Draw renders one row per field: label, then the value in an input box.
// The focused input is reversed; invalid fields are red.
func (f *Form) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	height := uint16(len(f.Fields))
	if height > ctx.Max.Height {
		height = ctx.Max.Height
	}
	s := vxfw.NewSurface(ctx.Max.Width, height, f)

	labelWidth := 0
	for _, fld := range f.Fields {
		if n := utf8.RuneCountInString(fld.Label); n > labelWidth {
			labelWidth = n
		}
	}
	labelWidth += 2

	width := int(ctx.Max.Width)
	for i, fld := range f.Fields {
		if i >= int(height) {
			break
		}
		row := uint16(i)
		labelStyle := vaxis.Style{Attribute: vaxis.AttrBold}
		if fld.invalid {
			labelStyle.Foreground = vaxis.IndexColor(1)
		}
		writeText(&s, 0, row, min(labelWidth, width), fld.Label, labelStyle, false)
		if labelWidth >= width {
			continue
		}

		inputStyle := vaxis.Style{UnderlineStyle: vaxis.UnderlineSingle}
		if i == f.focus {
			inputStyle = vaxis.Style{Attribute: vaxis.AttrReverse}
		}
		value := fld.Value
		if i == f.focus {
			value += "_"
		}
		inputWidth := min(formInputWidth, width-labelWidth)
		pad := inputWidth - utf8.RuneCountInString(value)
		for ; pad > 0; pad-- {
			value += " "
		}
		writeText(&s, uint16(labelWidth), row, inputWidth, value, inputStyle, false)

		if fld.invalid && labelWidth+inputWidth+1 < width {
			writeText(&s, uint16(labelWidth+inputWidth+1), row, width-labelWidth-inputWidth-1,
				"required", vaxis.Style{Foreground: vaxis.IndexColor(1)}, false)
		}
	}

	return s, nil
}
