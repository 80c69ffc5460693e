// Package form turns browser form fields into bubbletea controls and lays
// them out as the add/edit dialog.
package form

import (
	"github.com/jask/painel/internal/browser"
)

// SetFunc receives every value change a control makes.
type SetFunc func(key string, value any)

type Kind int

const (
	KindText Kind = iota
	KindSelect
	KindMultiselect
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindMultiselect:
		return "multiselect"
	case KindCustom:
		return "custom"
	}
	return "text"
}

// Render builds the control for field. A custom input takes over entirely
// and receives the disabled decision computed by the caller; otherwise the
// input type picks a select, multiselect or text control.
func Render(field browser.FormField, value any, values map[string]any, disabled bool, set SetFunc) browser.Control {
	if set == nil {
		set = func(string, any) {}
	}
	switch in := field.ResolveInput().(type) {
	case browser.Custom:
		c := in.Render(browser.CustomProps{
			Value:         value,
			OnChange:      func(v any) { set(field.Key, v) },
			Field:         field,
			FormValues:    values,
			SetFieldValue: set,
			Disabled:      disabled,
		})
		if c != nil {
			return &custom{Control: c}
		}
		return newText(field, browser.InputText, value, disabled, set)
	case browser.Default:
		switch in.Type {
		case browser.InputSelect:
			return newSelect(field, value, disabled, set)
		case browser.InputMultiselect:
			return newMultiselect(field, value, disabled, set)
		default:
			return newText(field, in.Type, value, disabled, set)
		}
	}
	return newText(field, browser.InputText, value, disabled, set)
}

// KindOf reports which branch of Render produced c.
func KindOf(c browser.Control) Kind {
	switch c.(type) {
	case *Select:
		return KindSelect
	case *Multiselect:
		return KindMultiselect
	case *Text:
		return KindText
	}
	return KindCustom
}

type custom struct{ browser.Control }

func (c *custom) SetValue(v any) {
	if s, ok := c.Control.(valueSetter); ok {
		s.SetValue(v)
	}
}

// valueSetter is implemented by controls that can take a value written by
// another control, such as an address filled in from a CEP lookup.
type valueSetter interface {
	SetValue(v any)
}
