package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/painel/internal/access"
	"github.com/jask/painel/internal/browser"
	"github.com/jask/painel/internal/catalog"
	"github.com/jask/painel/internal/form"
	"github.com/jask/painel/internal/search"
	"github.com/jask/painel/internal/service"
)

// screen is one mounted entity. It owns the browser and the search lease;
// nothing survives leaving it.
type screen struct {
	id     uint64
	entity catalog.Entity
	mode   access.Mode
	lease  *search.Lease
	b      *browser.Browser

	columns   []browser.Column
	fields    []browser.FormField
	callbacks service.Callbacks
	rows      []browser.Row
	loaded    bool

	cursor int
	top    int

	form *form.Form

	searching bool
	query     textinput.Model

	preview *browser.Row

	// commands queued by action handlers, drained after each key
	queued []tea.Cmd
	run    func(s *screen, def catalog.ActionDef, ids []browser.ID)
}

func newScreen(id uint64, e catalog.Entity, fields []browser.FormField, mode access.Mode, ctx *search.Context, cb service.Callbacks) *screen {
	lease := ctx.Install(e.Slug, e.SearchFilters(), e.DefaultFilter)
	q := textinput.New()
	q.Prompt = "/ "
	q.Placeholder = "buscar"
	return &screen{
		id:        id,
		entity:    e,
		mode:      mode,
		lease:     lease,
		b:         browser.New(ctx),
		columns:   e.BrowserColumns(),
		fields:    fields,
		callbacks: cb,
		query:     q,
	}
}

// props rebuilds the browser props from the current rows and mode.
func (s *screen) props() browser.Props {
	row, bulk := s.entity.Actions(s.mode, func(def catalog.ActionDef, ids []browser.ID) {
		if s.run != nil {
			s.run(s, def, ids)
		}
	})
	p := browser.Props{
		Rows:          s.rows,
		Columns:       s.columns,
		FormFields:    s.fields,
		RowActions:    row,
		BulkActions:   bulk,
		DisableDelete: s.entity.DisableDelete,
		DisableEdit:   s.entity.DisableEdit,
		DisableView:   s.entity.DisableView,
		Access:        s.mode,
	}
	s.callbacks.Apply(&p)
	return p
}

func (s *screen) refresh() {
	s.b.SetProps(s.props())
	s.clamp()
	if !browser.IsOpen(s.b.Dialog()) {
		s.form = nil
	}
}

func (s *screen) setRows(rows []browser.Row) {
	s.rows = rows
	s.loaded = true
	s.refresh()
}

func (s *screen) setMode(m access.Mode) {
	s.mode = m
	s.refresh()
	if s.form != nil {
		s.form.Rebuild()
	}
}

func (s *screen) release() {
	s.lease.Release()
	s.form = nil
	s.preview = nil
}

func (s *screen) visible() []browser.Row { return s.b.Visible() }

func (s *screen) current() (browser.Row, bool) {
	rows := s.visible()
	if s.cursor < 0 || s.cursor >= len(rows) {
		return browser.Row{}, false
	}
	return rows[s.cursor], true
}

func (s *screen) clamp() {
	n := len(s.visible())
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// moveCursor shifts the cursor and disarms the delete confirmation of the
// row it leaves.
func (s *screen) moveCursor(step int) {
	if row, ok := s.current(); ok {
		s.b.Guard().Blur(browser.DeleteKey(row.ID))
	}
	s.cursor += step
	s.clamp()
}

// scroll keeps the cursor inside a window of the given height.
func (s *screen) scroll(visible int) {
	if visible <= 0 {
		return
	}
	if s.cursor < s.top {
		s.top = s.cursor
	} else if s.cursor >= s.top+visible {
		s.top = s.cursor - visible + 1
	}
	total := len(s.visible())
	if maxTop := total - visible; s.top > maxTop {
		s.top = max(maxTop, 0)
	}
	if s.top < 0 {
		s.top = 0
	}
}

func (s *screen) openForm() {
	s.form = form.New(s.b.Props().FormFields, s.b)
}

func (s *screen) affordances() affordances {
	af := s.b.Affordances()
	var bulkActions, rowActions bool
	for _, st := range s.b.BulkActionStates() {
		bulkActions = bulkActions || !st.Disabled
	}
	if row, ok := s.current(); ok {
		for _, st := range s.b.RowActionStates(row) {
			rowActions = rowActions || !st.Disabled
		}
	}
	return affordances{
		Add:         af.Add,
		Open:        af.Edit || af.Inspect,
		Delete:      af.Delete,
		BulkDelete:  af.BulkDelete && len(s.b.Selected()) > 0,
		BulkActions: bulkActions,
		RowActions:  rowActions,
	}
}

func (s *screen) drain() tea.Cmd {
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}
