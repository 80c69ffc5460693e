// Package tui is the terminal console: a menu of the entities the user can
// see and one record screen at a time.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/painel/internal/access"
	"github.com/jask/painel/internal/browser"
	"github.com/jask/painel/internal/catalog"
	"github.com/jask/painel/internal/config"
	"github.com/jask/painel/internal/search"
	"github.com/jask/painel/internal/service"
	"github.com/jask/painel/internal/watch"
)

// Options wires the app to its collaborators. Reload and LoadConfig are
// optional.
type Options struct {
	Catalog     *catalog.Catalog
	Entities    *service.EntityService
	Permissions *service.PermissionService
	Config      config.Config
	Reload      <-chan watch.Event
	LoadConfig  func() (config.Config, error)
	ExportDir   string
}

// App ties together the menu and the active screen.
type App struct {
	ctx    context.Context
	opts   Options
	cfg    config.Config
	cat    *catalog.Catalog
	search *search.Context

	ready  bool
	modes  map[string]access.Mode
	counts map[string]int
	menu   []catalog.Entity
	cursor int

	screen    *screen
	screenSeq uint64

	toasts   []toast
	toastSeq int

	width  int
	height int
	keys   keyMap
	help   help.Model
	now    func() time.Time
	after  func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

func New(ctx context.Context, opts Options) *App {
	return &App{
		ctx:    ctx,
		opts:   opts,
		cfg:    opts.Config,
		cat:    opts.Catalog,
		search: search.New(),
		modes:  map[string]access.Mode{},
		counts: map[string]int{},
		keys:   newKeyMap(),
		help:   newHelp(),
		now:    time.Now,
		after:  tea.Tick,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadModes(), a.waitReload())
}

// commands

func (a *App) loadModes() tea.Cmd {
	auth := a.cfg.Auth
	return func() tea.Msg {
		modes, err := a.opts.Permissions.Modes(a.ctx, auth.User, auth.Grants, auth.Mode)
		return modesMsg{modes: modes, err: err}
	}
}

func (a *App) loadCounts() tea.Cmd {
	slugs := make([]string, len(a.menu))
	for i, e := range a.menu {
		slugs[i] = e.Slug
	}
	return func() tea.Msg {
		counts, err := a.opts.Entities.Counts(a.ctx, slugs)
		return countsMsg{counts: counts, err: err}
	}
}

func (a *App) loadRows(s *screen) tea.Cmd {
	id, slug := s.id, s.entity.Slug
	return func() tea.Msg {
		rows, err := a.opts.Entities.Load(a.ctx, slug)
		return rowsMsg{screen: id, rows: rows, err: err}
	}
}

func (a *App) runOp(s *screen, op *browser.Pending) tea.Cmd {
	id, ctx := s.id, a.ctx
	return func() tea.Msg {
		return opDoneMsg{screen: id, op: op, err: op.Run(ctx)}
	}
}

func (a *App) waitReload() tea.Cmd {
	ch := a.opts.Reload
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg{event: ev}
	}
}

// active returns the screen with id when it is still mounted.
func (a *App) active(id uint64) *screen {
	if a.screen != nil && a.screen.id == id {
		return a.screen
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		if a.screen != nil {
			a.screen.b.SetWidth(m.Width)
		}
	case tea.KeyMsg:
		return a.handleKey(m)
	case modesMsg:
		return a, a.handleModes(m)
	case countsMsg:
		if m.err != nil {
			return a, a.notify(toastError, "count failed: "+m.err.Error())
		}
		a.counts = m.counts
	case rowsMsg:
		s := a.active(m.screen)
		if s == nil {
			return a, nil
		}
		if m.err != nil {
			slog.Error("load rows", "entity", s.entity.Slug, "err", m.err)
			return a, a.notify(toastError, "load failed: "+m.err.Error())
		}
		s.setRows(m.rows)
	case opDoneMsg:
		return a, a.handleOpDone(m)
	case previewMsg:
		s := a.active(m.screen)
		if s == nil {
			return a, nil
		}
		if service.IsNotFound(m.err) {
			return a, tea.Batch(a.notify(toastWarning, "record no longer exists"), a.loadRows(s), a.loadCounts())
		}
		if m.err != nil {
			slog.Error("preview", "entity", s.entity.Slug, "err", m.err)
			return a, a.notify(toastError, "preview failed: "+m.err.Error())
		}
		row := m.row
		s.preview = &row
	case exportDoneMsg:
		if a.active(m.screen) == nil {
			return a, nil
		}
		if m.err != nil {
			return a, a.notify(toastError, "export failed: "+m.err.Error())
		}
		slog.Info("rows exported", "path", m.path, "count", m.count)
		return a, a.notify(toastSuccess, fmt.Sprintf("exported %d rows to %s", m.count, m.path))
	case confirmExpiredMsg:
		if s := a.active(m.screen); s != nil {
			s.b.Guard().Expire(m.key, m.armedAt)
		}
	case toastExpiredMsg:
		a.expireToast(m.id)
	case reloadMsg:
		return a, a.handleReload(m)
	}
	return a, nil
}

func (a *App) handleModes(m modesMsg) tea.Cmd {
	a.ready = true
	if m.err != nil {
		slog.Error("resolve permissions", "user", a.cfg.Auth.User, "err", m.err)
		return a.notify(toastError, "permissions: "+m.err.Error())
	}
	a.modes = m.modes
	a.menu = a.menu[:0]
	for _, e := range a.cat.Entities {
		if !access.IsHidden(a.modes[e.Slug]) {
			a.menu = append(a.menu, e)
		}
	}
	if a.cursor >= len(a.menu) {
		a.cursor = max(len(a.menu)-1, 0)
	}
	cmds := []tea.Cmd{a.loadCounts()}
	if s := a.screen; s != nil {
		mode := a.modes[s.entity.Slug]
		if access.IsHidden(mode) {
			a.leaveScreen()
			cmds = append(cmds, a.notify(toastWarning, "access to "+s.entity.Title+" was removed"))
		} else {
			s.setMode(mode)
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) handleOpDone(m opDoneMsg) tea.Cmd {
	s := a.active(m.screen)
	if s == nil {
		return nil
	}
	s.b.Resolve(m.op, m.err)
	if !browser.IsOpen(s.b.Dialog()) {
		s.form = nil
	}
	if service.IsNotFound(m.err) {
		s.b.Close()
		s.form = nil
		return tea.Batch(a.notify(toastWarning, "record no longer exists"), a.loadRows(s), a.loadCounts())
	}
	if m.err != nil {
		slog.Error("operation failed", "entity", s.entity.Slug, "op", m.op.Kind.String(), "err", m.err)
		return a.notify(toastError, fmt.Sprintf("%s failed: %v", m.op.Kind, m.err))
	}
	var text string
	switch m.op.Kind {
	case browser.OpAdd:
		text = "record added"
	case browser.OpEdit:
		text = "record saved"
	case browser.OpDelete:
		text = "record deleted"
	default:
		text = fmt.Sprintf("%d records deleted", len(m.op.IDs))
	}
	return tea.Batch(a.notify(toastSuccess, text), a.loadRows(s), a.loadCounts())
}

func (a *App) handleReload(m reloadMsg) tea.Cmd {
	cmds := []tea.Cmd{a.waitReload()}
	if a.opts.LoadConfig != nil {
		cfg, err := a.opts.LoadConfig()
		if err != nil {
			slog.Error("reload config", "path", m.event.Path, "err", err)
			return tea.Batch(append(cmds, a.notify(toastError, "config: "+err.Error()))...)
		}
		a.cfg = cfg
		if a.screen != nil {
			a.configure(a.screen)
		}
	}
	slog.Info("config reloaded", "path", m.event.Path)
	return tea.Batch(append(cmds, a.loadModes(), a.notify(toastInfo, "configuration reloaded"))...)
}

func (a *App) configure(s *screen) {
	s.b.SetCardBreakpoint(a.cfg.UI.CardBreakpoint)
	if w := a.cfg.UI.ConfirmWindow; w > 0 {
		s.b.Guard().Window = w
	}
	s.b.SetWidth(a.width)
}

// screens

func (a *App) openScreen(e catalog.Entity) tea.Cmd {
	if a.screen != nil {
		a.leaveScreen()
	}
	a.screenSeq++
	s := newScreen(a.screenSeq, e, a.cat.FormFields(e), a.modes[e.Slug], a.search, a.opts.Entities.Bind(e.Slug))
	s.run = a.runAction
	a.configure(s)
	s.refresh()
	a.screen = s
	slog.Debug("screen opened", "entity", e.Slug, "mode", s.mode.String())
	return a.loadRows(s)
}

func (a *App) leaveScreen() {
	if a.screen == nil {
		return
	}
	a.screen.release()
	a.screen = nil
}

func (a *App) runAction(s *screen, def catalog.ActionDef, ids []browser.ID) {
	switch def.Kind {
	case catalog.ActionPreview:
		if len(ids) == 0 {
			return
		}
		// rows only carry what was loaded; the preview reads the stored record
		id, slug, rowID := s.id, s.entity.Slug, ids[0]
		s.queued = append(s.queued, func() tea.Msg {
			row, err := a.opts.Entities.Find(a.ctx, slug, rowID)
			return previewMsg{screen: id, row: row, err: err}
		})
	case catalog.ActionExport:
		id, slug, rows := s.id, s.entity.Slug, s.rows
		dir, now := a.opts.ExportDir, a.now()
		if dir == "" {
			dir = "."
		}
		s.queued = append(s.queued, func() tea.Msg {
			path, n, err := service.Export(dir, slug, rows, ids, now)
			return exportDoneMsg{screen: id, path: path, count: n, err: err}
		})
	default:
		s.queued = append(s.queued, a.notify(toastInfo, def.Label))
	}
}

// keys

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.String() == "ctrl+c" {
		return a, tea.Quit
	}
	if a.screen == nil {
		return a.handleMenuKey(m)
	}
	s := a.screen
	switch {
	case s.form != nil:
		return a, a.handleDialogKey(s, m)
	case s.searching:
		return a, a.handleSearchKey(s, m)
	case s.preview != nil:
		if key.Matches(m, a.keys.Back, a.keys.Open) {
			s.preview = nil
		}
		return a, nil
	}
	return a.handleScreenKey(s, m)
}

func (a *App) handleMenuKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.cursor < len(a.menu)-1 {
			a.cursor++
		}
	case key.Matches(m, a.keys.Open):
		if a.cursor < len(a.menu) {
			return a, a.openScreen(a.menu[a.cursor])
		}
	case key.Matches(m, a.keys.Dismiss):
		a.dismissToasts()
	}
	return a, nil
}

func (a *App) handleScreenKey(s *screen, m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Back):
		a.leaveScreen()
		return a, a.loadCounts()
	case key.Matches(m, a.keys.Up):
		s.moveCursor(-1)
	case key.Matches(m, a.keys.Down):
		s.moveCursor(1)
	case key.Matches(m, a.keys.Search):
		s.searching = true
		s.query.SetValue(a.search.Query())
		s.query.CursorEnd()
		s.query.Focus()
	case key.Matches(m, a.keys.Filter):
		a.search.Cycle()
		s.clamp()
	case key.Matches(m, a.keys.Toggle):
		if row, ok := s.current(); ok {
			s.b.Toggle(row.ID)
		}
	case key.Matches(m, a.keys.SelectAll):
		s.b.ToggleSelectAll()
	case key.Matches(m, a.keys.Add):
		if err := s.b.OpenAdd(); err != nil {
			return a, a.notify(toastWarning, errorText(err))
		}
		s.openForm()
	case key.Matches(m, a.keys.Open):
		row, ok := s.current()
		if !ok {
			return a, nil
		}
		if err := s.b.OpenEdit(row.ID); err != nil {
			return a, a.notify(toastWarning, errorText(err))
		}
		s.openForm()
	case key.Matches(m, a.keys.Delete):
		row, ok := s.current()
		if !ok {
			return a, nil
		}
		op, err := s.b.PressDelete(row.ID)
		return a, a.afterPress(s, browser.DeleteKey(row.ID), op, err)
	case key.Matches(m, a.keys.BulkDelete):
		op, err := s.b.PressBulkDelete()
		return a, a.afterPress(s, browser.BulkDeleteKey, op, err)
	case key.Matches(m, a.keys.BulkAction):
		if err := s.b.RunBulkAction(digit(m.String())); err != nil {
			return a, a.notify(toastWarning, errorText(err))
		}
		return a, s.drain()
	case key.Matches(m, a.keys.RowAction):
		row, ok := s.current()
		if !ok {
			return a, nil
		}
		if err := s.b.RunRowAction(row.ID, digit(m.String())); err != nil {
			return a, a.notify(toastWarning, errorText(err))
		}
		return a, s.drain()
	case key.Matches(m, a.keys.View):
		s.b.ToggleViewMode()
	case key.Matches(m, a.keys.Dismiss):
		a.dismissToasts()
	}
	return a, nil
}

// afterPress turns a confirm-guarded press into either an armed notice
// with its expiry timer or the dispatched operation.
func (a *App) afterPress(s *screen, guardKey string, op *browser.Pending, err error) tea.Cmd {
	if err != nil {
		return a.notify(toastWarning, errorText(err))
	}
	if op != nil {
		return a.runOp(s, op)
	}
	g := s.b.Guard()
	armedAt, _ := g.ArmedAt(guardKey)
	id := s.id
	expire := a.after(g.Window, func(time.Time) tea.Msg {
		return confirmExpiredMsg{screen: id, key: guardKey, armedAt: armedAt}
	})
	return tea.Batch(expire, a.notify(toastWarning, "press again to confirm"))
}

func (a *App) handleDialogKey(s *screen, m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Cancel):
		s.b.Close()
		s.form = nil
		return nil
	case key.Matches(m, a.keys.Submit):
		op, err := s.b.Submit()
		if err != nil {
			return a.notify(toastWarning, errorText(err))
		}
		if !browser.IsOpen(s.b.Dialog()) {
			s.form = nil
		}
		return a.runOp(s, op)
	}
	if ed, ok := s.b.Dialog().(browser.Editing); ok && ed.Inspect && key.Matches(m, a.keys.Open) {
		s.b.Close()
		s.form = nil
		return nil
	}
	s.form.Update(m)
	return nil
}

func (a *App) handleSearchKey(s *screen, m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Apply):
		s.searching = false
		s.query.Blur()
		return nil
	case key.Matches(m, a.keys.Clear):
		s.searching = false
		s.query.Blur()
		s.query.SetValue("")
		a.search.SetQuery("")
		s.clamp()
		return nil
	}
	var cmd tea.Cmd
	s.query, cmd = s.query.Update(m)
	a.search.SetQuery(s.query.Value())
	s.cursor = 0
	s.clamp()
	return cmd
}

// digit maps "3" or "alt+3" to action index 2.
func digit(k string) int {
	k = strings.TrimPrefix(k, "alt+")
	if len(k) != 1 || k[0] < '1' || k[0] > '9' {
		return -1
	}
	return int(k[0] - '1')
}

func errorText(err error) string {
	var ve *browser.ValidationError
	switch {
	case errors.As(err, &ve):
		return "required: " + ve.Error()
	case errors.Is(err, browser.ErrNotPermitted):
		return "not permitted"
	case errors.Is(err, browser.ErrReadOnly):
		return "this record is read-only"
	case errors.Is(err, browser.ErrNothingSelected):
		return "nothing selected"
	case errors.Is(err, browser.ErrActionDisabled):
		return "action unavailable"
	case errors.Is(err, browser.ErrOperationPending):
		return "still saving"
	case errors.Is(err, browser.ErrDialogBusy):
		return "close the open dialog first"
	}
	return err.Error()
}

var _ tea.Model = (*App)(nil)
