package form

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/painel/internal/browser"
	"github.com/jask/painel/internal/theme"
)

// Select is a single choice over the field options. left/right cycle the
// value and backspace clears it.
type Select struct {
	key      string
	options  []browser.Option
	value    string
	focused  bool
	disabled bool
	set      SetFunc
}

func newSelect(field browser.FormField, value any, disabled bool, set SetFunc) *Select {
	c := &Select{key: field.Key, options: field.Options, disabled: disabled, set: set}
	c.SetValue(value)
	return c
}

func (c *Select) Kind() Kind { return KindSelect }

func (c *Select) Value() string { return c.value }

func (c *Select) SetValue(v any) { c.value = browser.FormatValue(v) }

func (c *Select) index() int {
	for i, o := range c.options {
		if o.Value == c.value {
			return i
		}
	}
	return -1
}

func (c *Select) Update(msg tea.KeyMsg) browser.Control {
	if c.disabled || len(c.options) == 0 {
		return c
	}
	i := c.index()
	switch msg.String() {
	case "right", "l", "space", " ":
		i = (i + 1) % len(c.options)
	case "left", "h":
		if i <= 0 {
			i = len(c.options) - 1
		} else {
			i--
		}
	case "backspace", "delete":
		if c.value != "" {
			c.value = ""
			c.set(c.key, "")
		}
		return c
	default:
		return c
	}
	c.value = c.options[i].Value
	c.set(c.key, c.value)
	return c
}

func (c *Select) View(width int) string {
	label := "—"
	if i := c.index(); i >= 0 {
		label = optionLabel(c.options[i])
	} else if c.value != "" {
		label = c.value
	}
	if c.disabled {
		return theme.Disabled.Render(label)
	}
	s := theme.Input.Render(label)
	if c.focused {
		s = theme.Cursor.Render("‹ ") + theme.FocusedInput.Render(label) + theme.Cursor.Render(" ›")
	}
	if width > 0 {
		return lipgloss.NewStyle().MaxWidth(width).Render(s)
	}
	return s
}

func (c *Select) Focus() { c.focused = !c.disabled }
func (c *Select) Blur()  { c.focused = false }

// Multiselect toggles option values in and out of a list. Pasted text is
// split on ',' or ';' and replaces the list.
type Multiselect struct {
	key      string
	options  []browser.Option
	values   []string
	cursor   int
	focused  bool
	disabled bool
	set      SetFunc
}

func newMultiselect(field browser.FormField, value any, disabled bool, set SetFunc) *Multiselect {
	c := &Multiselect{key: field.Key, options: field.Options, disabled: disabled, set: set}
	c.SetValue(value)
	return c
}

func (c *Multiselect) Kind() Kind { return KindMultiselect }

func (c *Multiselect) Values() []string { return append([]string{}, c.values...) }

func (c *Multiselect) SetValue(v any) { c.values = browser.ToList(v) }

// SetText forwards a delimited payload as a list.
func (c *Multiselect) SetText(s string) {
	c.values = browser.SplitList(s)
	c.set(c.key, c.Values())
}

func (c *Multiselect) has(v string) int {
	for i, x := range c.values {
		if x == v {
			return i
		}
	}
	return -1
}

func (c *Multiselect) toggle(v string) {
	if i := c.has(v); i >= 0 {
		c.values = append(c.values[:i:i], c.values[i+1:]...)
	} else {
		c.values = append(c.values, v)
	}
	c.set(c.key, c.Values())
}

func (c *Multiselect) Update(msg tea.KeyMsg) browser.Control {
	if c.disabled {
		return c
	}
	if msg.Paste && msg.Type == tea.KeyRunes {
		c.SetText(string(msg.Runes))
		return c
	}
	switch msg.String() {
	case "right", "l":
		if c.cursor < len(c.options)-1 {
			c.cursor++
		}
	case "left", "h":
		if c.cursor > 0 {
			c.cursor--
		}
	case "space", " ", "x":
		if c.cursor < len(c.options) {
			c.toggle(c.options[c.cursor].Value)
		}
	case "backspace", "delete":
		if len(c.values) > 0 {
			c.values = []string{}
			c.set(c.key, c.Values())
		}
	}
	return c
}

func (c *Multiselect) View(width int) string {
	if c.disabled {
		if len(c.values) == 0 {
			return theme.Disabled.Render("—")
		}
		return theme.Disabled.Render(strings.Join(c.labels(), ", "))
	}
	parts := make([]string, 0, len(c.options))
	for i, o := range c.options {
		mark := "[ ]"
		style := theme.Input
		if c.has(o.Value) >= 0 {
			mark = "[x]"
			style = theme.Selected
		}
		item := style.Render(mark + " " + optionLabel(o))
		if c.focused && i == c.cursor {
			item = theme.Cursor.Render("›") + item
		} else {
			item = " " + item
		}
		parts = append(parts, item)
	}
	// values outside the option list still show
	for _, v := range c.values {
		if c.optionIndex(v) < 0 {
			parts = append(parts, " "+theme.Selected.Render("[x] "+v))
		}
	}
	s := strings.Join(parts, " ")
	if width > 0 {
		return lipgloss.NewStyle().Width(width).Render(s)
	}
	return s
}

func (c *Multiselect) optionIndex(v string) int {
	for i, o := range c.options {
		if o.Value == v {
			return i
		}
	}
	return -1
}

func (c *Multiselect) labels() []string {
	out := make([]string, 0, len(c.values))
	for _, v := range c.values {
		if i := c.optionIndex(v); i >= 0 {
			out = append(out, optionLabel(c.options[i]))
		} else {
			out = append(out, v)
		}
	}
	return out
}

func (c *Multiselect) Focus() { c.focused = !c.disabled }
func (c *Multiselect) Blur()  { c.focused = false }

func optionLabel(o browser.Option) string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}
