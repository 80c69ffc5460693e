package browser

import tea "github.com/charmbracelet/bubbletea"

type DataType string

const (
	DataText   DataType = "text"
	DataNumber DataType = "number"
	DataDate   DataType = "date"
	DataStatus DataType = "status"
)

// Column declares one displayed attribute. Render overrides the default
// cell formatting.
type Column struct {
	Key      string
	Label    string
	DataType DataType
	Render   func(value any, row Row) string
}

// Format returns the cell text for row.
func (c Column) Format(row Row) string {
	v := row.Value(c.Key)
	if c.Render != nil {
		return c.Render(v, row)
	}
	return FormatValue(v)
}

func (c Column) Title() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

type InputType string

const (
	InputText        InputType = "text"
	InputNumber      InputType = "number"
	InputEmail       InputType = "email"
	InputPassword    InputType = "password"
	InputDate        InputType = "date"
	InputSelect      InputType = "select"
	InputMultiselect InputType = "multiselect"
)

type Option struct {
	Value string
	Label string
}

// FormField is a column that can be edited in the add/edit dialog.
type FormField struct {
	Column
	InputType    InputType
	Options      []Option
	DefaultValue any
	Required     bool
	HelperText   string
	Placeholder  string
	Disabled     bool
	Input        Input
}

// Input selects how a field is rendered: the built-in control for an input
// type or a caller supplied control.
type Input interface{ input() }

type Default struct{ Type InputType }

type Custom struct{ Render RenderFunc }

func (Default) input() {}
func (Custom) input()  {}

// ResolveInput returns the field's Input, falling back to Default for the
// declared input type.
func (f FormField) ResolveInput() Input {
	switch in := f.Input.(type) {
	case Custom:
		if in.Render != nil {
			return in
		}
	case Default:
		if in.Type != "" {
			return in
		}
	}
	t := f.InputType
	if t == "" {
		t = InputText
	}
	return Default{Type: t}
}

func (f FormField) IsMultiselect() bool {
	d, ok := f.ResolveInput().(Default)
	return ok && d.Type == InputMultiselect
}

// emptyValue is the seed for a field without a default.
func (f FormField) emptyValue() any {
	if f.IsMultiselect() {
		return []string{}
	}
	return ""
}

// Control is one rendered form input. Controls keep only focus and cursor
// state; every change is reported through the setter they were built with.
type Control interface {
	Update(msg tea.KeyMsg) Control
	View(width int) string
	Focus()
	Blur()
}

// CustomProps is handed to a Custom input.
type CustomProps struct {
	Value         any
	OnChange      func(any)
	Field         FormField
	FormValues    map[string]any
	SetFieldValue func(key string, value any)
	Disabled      bool
}

type RenderFunc func(CustomProps) Control
