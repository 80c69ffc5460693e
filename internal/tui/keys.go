package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/jask/painel/internal/theme"
)

type keyMap struct {
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	Open       key.Binding
	Back       key.Binding
	Search     key.Binding
	Filter     key.Binding
	Toggle     key.Binding
	SelectAll  key.Binding
	Add        key.Binding
	Delete     key.Binding
	BulkDelete key.Binding
	BulkAction key.Binding
	RowAction  key.Binding
	View       key.Binding
	Dismiss    key.Binding

	// dialog
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Cancel    key.Binding

	// search input
	Apply key.Binding
	Clear key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		SelectAll:  key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "select all")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d d", "delete")),
		BulkDelete: key.NewBinding(key.WithKeys("D"), key.WithHelp("D D", "delete selected")),
		BulkAction: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "bulk action"),
		),
		RowAction: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4", "alt+5", "alt+6", "alt+7", "alt+8", "alt+9"),
			key.WithHelp("alt+1-9", "row action"),
		),
		View:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "cards/table")),
		Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),

		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),

		Apply: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Clear: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	}
}

func (k keyMap) menuBindings() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Dismiss, k.Quit}
}

func (k keyMap) screenBindings(af affordances) []key.Binding {
	out := []key.Binding{k.Search, k.Filter, k.Toggle, k.SelectAll}
	if af.Add {
		out = append(out, k.Add)
	}
	if af.Open {
		out = append(out, k.Open)
	}
	if af.Delete {
		out = append(out, k.Delete)
	}
	if af.BulkDelete {
		out = append(out, k.BulkDelete)
	}
	if af.BulkActions {
		out = append(out, k.BulkAction)
	}
	if af.RowActions {
		out = append(out, k.RowAction)
	}
	return append(out, k.View, k.Back, k.Quit)
}

func (k keyMap) dialogBindings(editable bool) []key.Binding {
	if !editable {
		return []key.Binding{k.Cancel}
	}
	return []key.Binding{k.NextField, k.PrevField, k.Submit, k.Cancel}
}

func (k keyMap) searchBindings() []key.Binding {
	return []key.Binding{k.Apply, k.Clear}
}

// affordances toggles footer entries the current screen cannot use.
type affordances struct {
	Add, Open, Delete, BulkDelete, BulkActions, RowActions bool
}

func newHelp() help.Model {
	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = theme.HelpKey
	h.Styles.ShortDesc = theme.HelpDesc
	h.Styles.ShortSeparator = theme.Muted
	return h
}
