package form

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/painel/internal/browser"
	"github.com/jask/painel/internal/theme"
)

// Binding is the dialog state a Form edits. *browser.Browser implements it.
type Binding interface {
	Values() map[string]any
	Value(key string) any
	SetFieldValue(key string, v any)
	FieldDisabled(f browser.FormField) bool
}

// Form is the list of controls for one open dialog plus the focused index.
type Form struct {
	fields   []browser.FormField
	controls []browser.Control
	disabled []bool
	focus    int
	bind     Binding
}

func New(fields []browser.FormField, bind Binding) *Form {
	f := &Form{fields: fields, bind: bind}
	f.Rebuild()
	return f
}

// Rebuild recreates every control from the bound values, for instance
// after the access mode changed.
func (f *Form) Rebuild() {
	values := f.bind.Values()
	f.controls = make([]browser.Control, len(f.fields))
	f.disabled = make([]bool, len(f.fields))
	for i, field := range f.fields {
		f.disabled[i] = f.bind.FieldDisabled(field)
		f.controls[i] = Render(field, values[field.Key], values, f.disabled[i], f.bind.SetFieldValue)
	}
	f.focus = -1
	f.move(1)
}

func (f *Form) Len() int { return len(f.controls) }

func (f *Form) Control(i int) browser.Control { return f.controls[i] }

// Focused returns the index of the focused control, or -1 when every field
// is disabled.
func (f *Form) Focused() int { return f.focus }

// Editable reports whether any field accepts input.
func (f *Form) Editable() bool {
	for _, d := range f.disabled {
		if !d {
			return true
		}
	}
	return false
}

func (f *Form) move(step int) {
	n := len(f.controls)
	if n == 0 {
		f.focus = -1
		return
	}
	if f.focus >= 0 {
		f.controls[f.focus].Blur()
	}
	start := f.focus
	i := f.focus
	for range n {
		i = (i + step + n) % n
		if !f.disabled[i] {
			f.focus = i
			f.controls[i].Focus()
			return
		}
	}
	f.focus = -1
	if start >= 0 && !f.disabled[start] {
		f.focus = start
		f.controls[start].Focus()
	}
}

// Update moves focus on tab/shift+tab and hands every other key to the
// focused control.
func (f *Form) Update(msg tea.KeyMsg) {
	switch msg.String() {
	case "tab", "down":
		f.move(1)
		return
	case "shift+tab", "up":
		f.move(-1)
		return
	}
	if f.focus < 0 {
		return
	}
	f.controls[f.focus] = f.controls[f.focus].Update(msg)
}

func (f *Form) sync() {
	for i, field := range f.fields {
		if s, ok := f.controls[i].(valueSetter); ok {
			s.SetValue(f.bind.Value(field.Key))
		}
	}
}

// View renders each field as a label line, its control and optional
// helper text.
func (f *Form) View(width int) string {
	f.sync()
	inner := width - 2
	if inner < 10 {
		inner = 10
	}
	var lines []string
	for i, field := range f.fields {
		label := theme.Label.Render(field.Title())
		if field.Required {
			label += theme.Required.Render(" *")
		}
		prefix := "  "
		if i == f.focus {
			prefix = theme.Cursor.Render("› ")
		}
		lines = append(lines, prefix+label)
		lines = append(lines, "  "+f.controls[i].View(inner))
		if field.HelperText != "" {
			lines = append(lines, "  "+theme.Muted.Render(field.HelperText))
		}
	}
	return strings.Join(lines, "\n")
}
