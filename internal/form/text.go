package form

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/painel/internal/browser"
	"github.com/jask/painel/internal/theme"
)

// Subtype is the native text subtype for an input type.
func Subtype(t browser.InputType) string {
	switch t {
	case browser.InputPassword, browser.InputEmail, browser.InputNumber, browser.InputDate:
		return string(t)
	}
	return string(browser.InputText)
}

// Text is a single line input built on bubbles/textinput.
type Text struct {
	key      string
	subtype  string
	input    textinput.Model
	disabled bool
	set      SetFunc
	accept   func(rune) bool
	mask     func(string) string
}

func newText(field browser.FormField, t browser.InputType, value any, disabled bool, set SetFunc) *Text {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = field.Placeholder
	ti.TextStyle = theme.Input
	ti.PlaceholderStyle = theme.Muted

	c := &Text{key: field.Key, subtype: Subtype(t), disabled: disabled, set: set}
	switch c.subtype {
	case "password":
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	case "number":
		c.accept = func(r rune) bool {
			return unicode.IsDigit(r) || r == '-' || r == '.' || r == ','
		}
	case "date":
		if ti.Placeholder == "" {
			ti.Placeholder = "AAAA-MM-DD"
		}
		ti.CharLimit = 10
		c.accept = func(r rune) bool { return unicode.IsDigit(r) || r == '-' }
	}
	c.input = ti
	c.SetValue(value)
	return c
}

// NewMasked returns a text control that keeps only digits, at most maxDigits
// of them, and shows them through format. It is meant for custom inputs
// such as phone or CPF fields; changes go to props.OnChange already
// formatted.
func NewMasked(props browser.CustomProps, maxDigits int, format func(digits string) string) *Text {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = props.Field.Placeholder
	ti.TextStyle = theme.Input
	ti.PlaceholderStyle = theme.Muted

	onChange := props.OnChange
	c := &Text{
		key:      props.Field.Key,
		subtype:  "text",
		disabled: props.Disabled,
		set: func(_ string, v any) {
			if onChange != nil {
				onChange(v)
			}
		},
		accept: unicode.IsDigit,
		mask: func(s string) string {
			d := Digits(s)
			if len(d) > maxDigits {
				d = d[:maxDigits]
			}
			return format(d)
		},
	}
	c.input = ti
	c.SetValue(props.Value)
	return c
}

// Digits strips everything but ASCII digits from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (c *Text) Kind() Kind { return KindText }

func (c *Text) Subtype() string { return c.subtype }

func (c *Text) Value() string { return c.input.Value() }

func (c *Text) SetValue(v any) {
	s := browser.FormatValue(v)
	if c.mask != nil && s != "" {
		s = c.mask(s)
	}
	if s != c.input.Value() {
		c.input.SetValue(s)
	}
}

func (c *Text) Update(msg tea.KeyMsg) browser.Control {
	if c.disabled {
		return c
	}
	if msg.Type == tea.KeyRunes && c.accept != nil {
		for _, r := range msg.Runes {
			if !c.accept(r) {
				return c
			}
		}
	}
	before := c.input.Value()
	c.input, _ = c.input.Update(msg)
	after := c.input.Value()
	if c.mask != nil {
		// backspace over a separator removes the digit before it
		if msg.Type == tea.KeyBackspace && after != before && Digits(before) != "" && Digits(after) == Digits(before) {
			d := Digits(before)
			after = d[:len(d)-1]
		}
		after = c.mask(after)
		if after != c.input.Value() {
			c.input.SetValue(after)
			c.input.CursorEnd()
		}
	}
	if after != before {
		c.set(c.key, after)
	}
	return c
}

func (c *Text) View(width int) string {
	if width > 0 {
		c.input.Width = width
	}
	if !c.disabled {
		return c.input.View()
	}
	v := c.input.Value()
	switch {
	case v == "":
		v = "—"
	case c.input.EchoMode == textinput.EchoPassword:
		v = strings.Repeat(string(c.input.EchoCharacter), len([]rune(v)))
	}
	return theme.Disabled.Render(v)
}

func (c *Text) Focus() {
	if !c.disabled {
		c.input.Focus()
	}
}

func (c *Text) Blur() { c.input.Blur() }
