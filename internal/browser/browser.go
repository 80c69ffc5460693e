// Package browser is the generic record browser: it owns selection, the
// add/edit dialog, form values and validation for one entity screen, and
// decides which affordances the access mode allows. Rendering lives
// elsewhere; nothing here blocks.
package browser

import (
	"context"
	"sort"

	"github.com/jask/painel/internal/access"
	"github.com/jask/painel/internal/search"
)

const DefaultCardBreakpoint = 100

type ViewMode int

const (
	Card ViewMode = iota
	Table
)

func (v ViewMode) String() string {
	if v == Table {
		return "table"
	}
	return "card"
}

// Props is supplied by the screen on every render.
type Props struct {
	Rows       []Row
	Columns    []Column
	FormFields []FormField

	OnAdd        func(ctx context.Context, values map[string]any) error
	OnEdit       func(ctx context.Context, id ID, values map[string]any) error
	OnDelete     func(ctx context.Context, id ID) error
	OnBulkDelete func(ctx context.Context, ids []ID) error

	RowActions  []Action
	BulkActions []Action

	DisableDelete bool
	DisableEdit   bool
	DisableView   bool

	// Access defaults to Hidden.
	Access access.Mode
}

// Browser is the state of one mounted entity screen. Instances share
// nothing but the search context.
type Browser struct {
	// Optimistic closes the dialog and clears deleted ids as soon as an
	// operation is handed out instead of waiting for Resolve.
	Optimistic bool

	search  *search.Context
	props   Props
	version uint64

	view       ViewMode
	viewPinned bool
	breakpoint int

	selected map[ID]struct{}
	dialog   DialogState
	values   map[string]any
	seq      uint64
	inflight *Pending
	guard    *ConfirmGuard
}

func New(s *search.Context) *Browser {
	b := &Browser{
		search:     s,
		breakpoint: DefaultCardBreakpoint,
		selected:   make(map[ID]struct{}),
		dialog:     Closed{},
		guard:      NewConfirmGuard(DefaultConfirmWindow),
	}
	if s != nil {
		b.version = s.Version()
	}
	return b
}

// SetProps installs the rows and schema to render. A change of search scope
// since the previous call resets selection and dialog.
func (b *Browser) SetProps(p Props) {
	b.props = p
	if b.search != nil && b.search.Version() != b.version {
		b.version = b.search.Version()
		b.ClearSelection()
		b.closeDialog()
		b.guard.Reset()
	}
}

func (b *Browser) Props() Props         { return b.props }
func (b *Browser) Access() access.Mode  { return b.props.Access }
func (b *Browser) Guard() *ConfirmGuard { return b.guard }

// SetCardBreakpoint sets the width below which the card view is the default.
func (b *Browser) SetCardBreakpoint(w int) {
	if w > 0 {
		b.breakpoint = w
	}
}

func (b *Browser) ViewMode() ViewMode { return b.view }

// SetWidth picks the default view for the available width until the user
// has toggled it.
func (b *Browser) SetWidth(w int) {
	if b.viewPinned {
		return
	}
	if w < b.breakpoint {
		b.view = Card
	} else {
		b.view = Table
	}
}

func (b *Browser) ToggleViewMode() {
	b.viewPinned = true
	if b.view == Card {
		b.view = Table
	} else {
		b.view = Card
	}
}

// Affordances lists what the current access mode and props allow.
type Affordances struct {
	Add        bool
	Edit       bool
	Inspect    bool
	Delete     bool
	BulkDelete bool
}

func (b *Browser) Affordances() Affordances {
	m := b.props.Access
	if access.IsHidden(m) {
		return Affordances{}
	}
	canDelete := access.CanDelete(m) && !b.props.DisableDelete
	return Affordances{
		Add:        access.CanCreate(m) && b.props.OnAdd != nil,
		Edit:       access.CanEdit(m) && !b.props.DisableEdit && b.props.OnEdit != nil,
		Inspect:    access.CanVisualizeItem(m) && !b.props.DisableView,
		Delete:     canDelete && b.props.OnDelete != nil,
		BulkDelete: canDelete && b.props.OnBulkDelete != nil,
	}
}

// Selection

func (b *Browser) Toggle(id ID) {
	if _, ok := b.selected[id]; ok {
		delete(b.selected, id)
		return
	}
	b.selected[id] = struct{}{}
}

// ToggleSelectAll selects exactly the visible rows, or clears the selection
// when every visible row is already selected. With nothing visible the
// selection is left alone.
func (b *Browser) ToggleSelectAll() {
	vis := b.Visible()
	if len(vis) == 0 {
		return
	}
	all := true
	for _, r := range vis {
		if _, ok := b.selected[r.ID]; !ok {
			all = false
			break
		}
	}
	b.selected = make(map[ID]struct{}, len(vis))
	if all {
		return
	}
	for _, r := range vis {
		b.selected[r.ID] = struct{}{}
	}
}

func (b *Browser) IsSelected(id ID) bool {
	_, ok := b.selected[id]
	return ok
}

// Selected returns the selected ids ordered by their string form.
func (b *Browser) Selected() []ID {
	out := make([]ID, 0, len(b.selected))
	for id := range b.selected {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (b *Browser) ClearSelection() {
	b.selected = make(map[ID]struct{})
}

func (b *Browser) deselect(ids []ID) {
	for _, id := range ids {
		delete(b.selected, id)
	}
}

func (b *Browser) row(id ID) (Row, bool) {
	for _, r := range b.props.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}

// Dialog

func (b *Browser) Dialog() DialogState { return b.dialog }

// OpenAdd opens an empty form seeded with field defaults.
func (b *Browser) OpenAdd() error {
	if IsOpen(b.dialog) {
		return ErrDialogBusy
	}
	if !b.Affordances().Add {
		return ErrNotPermitted
	}
	values := make(map[string]any, len(b.props.FormFields))
	for _, f := range b.props.FormFields {
		values[f.Key] = seed(f, f.DefaultValue)
	}
	b.open(Adding{}, values)
	return nil
}

// OpenEdit opens the form for the row with id. Users who may inspect but not
// edit get the same dialog with every field disabled.
func (b *Browser) OpenEdit(id ID) error {
	if IsOpen(b.dialog) {
		return ErrDialogBusy
	}
	r, ok := b.row(id)
	if !ok {
		return ErrUnknownRow
	}
	af := b.Affordances()
	if !af.Edit && !af.Inspect {
		return ErrNotPermitted
	}
	values := make(map[string]any, len(b.props.FormFields))
	for _, f := range b.props.FormFields {
		v, present := r.Values[f.Key]
		if !present || v == nil {
			v = f.DefaultValue
		}
		values[f.Key] = seed(f, v)
	}
	b.open(Editing{Row: r, Inspect: !af.Edit}, values)
	return nil
}

func seed(f FormField, v any) any {
	if f.IsMultiselect() {
		return ToList(v)
	}
	if v == nil {
		return f.emptyValue()
	}
	return copyValue(v)
}

func (b *Browser) open(d DialogState, values map[string]any) {
	b.dialog = d
	b.values = values
	b.seq++
}

// Close discards the form without touching rows.
func (b *Browser) Close() {
	b.closeDialog()
}

func (b *Browser) closeDialog() {
	if !IsOpen(b.dialog) {
		return
	}
	b.dialog = Closed{}
	b.values = nil
	b.inflight = nil
	b.seq++
}

// Values returns a copy of the form values.
func (b *Browser) Values() map[string]any {
	out := make(map[string]any, len(b.values))
	for k, v := range b.values {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case []string:
		return append([]string{}, x...)
	case []any:
		return append([]any{}, x...)
	}
	return v
}

func (b *Browser) Value(key string) any { return b.values[key] }

// SetFieldValue stores v for key while an editable dialog is open.
func (b *Browser) SetFieldValue(key string, v any) {
	if !IsOpen(b.dialog) {
		return
	}
	if e, ok := b.dialog.(Editing); ok && e.Inspect {
		return
	}
	b.values[key] = v
}

func (b *Browser) operation() access.Operation {
	if _, ok := b.dialog.(Editing); ok {
		return access.OpEdit
	}
	return access.OpCreate
}

// FieldDisabled reports whether f is locked in the open dialog, either by
// its own flag or because the access mode does not allow the current
// operation.
func (b *Browser) FieldDisabled(f FormField) bool {
	switch d := b.dialog.(type) {
	case Adding:
	case Editing:
		if d.Inspect || b.props.DisableEdit {
			return true
		}
	default:
		return true
	}
	if f.Disabled {
		return true
	}
	ctx := access.Contextual(b.props.Access, b.operation())
	return access.IsHidden(ctx) || access.IsReadOnly(ctx)
}

// Submit validates the form and returns the add or edit call to run. No
// callback is invoked when validation fails.
func (b *Browser) Submit() (*Pending, error) {
	var op *Pending
	switch d := b.dialog.(type) {
	case Adding:
		if !b.Affordances().Add {
			return nil, ErrReadOnly
		}
		if err := b.checkSubmit(); err != nil {
			return nil, err
		}
		values, onAdd := b.Values(), b.props.OnAdd
		op = &Pending{Kind: OpAdd, Values: values, run: func(ctx context.Context) error {
			return onAdd(ctx, values)
		}}
	case Editing:
		if d.Inspect || !b.Affordances().Edit {
			return nil, ErrReadOnly
		}
		if err := b.checkSubmit(); err != nil {
			return nil, err
		}
		id, values, onEdit := d.Row.ID, b.Values(), b.props.OnEdit
		op = &Pending{Kind: OpEdit, IDs: []ID{id}, Values: values, run: func(ctx context.Context) error {
			return onEdit(ctx, id, values)
		}}
	default:
		return nil, ErrDialogClosed
	}
	op.seq = b.seq
	if b.Optimistic {
		b.closeDialog()
		return op, nil
	}
	b.inflight = op
	return op, nil
}

func (b *Browser) checkSubmit() error {
	if b.inflight != nil {
		return ErrOperationPending
	}
	return b.Validate()
}

// Delete returns the call that deletes the row with id.
func (b *Browser) Delete(id ID) (*Pending, error) {
	if !b.Affordances().Delete {
		return nil, ErrNotPermitted
	}
	if _, ok := b.row(id); !ok {
		return nil, ErrUnknownRow
	}
	onDelete := b.props.OnDelete
	op := &Pending{Kind: OpDelete, IDs: []ID{id}, seq: b.seq, run: func(ctx context.Context) error {
		return onDelete(ctx, id)
	}}
	if b.Optimistic {
		b.deselect(op.IDs)
	}
	return op, nil
}

// BulkDelete returns the call that deletes every selected id, including
// ids hidden by the current search.
func (b *Browser) BulkDelete() (*Pending, error) {
	if !b.Affordances().BulkDelete {
		return nil, ErrNotPermitted
	}
	ids := b.Selected()
	if len(ids) == 0 {
		return nil, ErrNothingSelected
	}
	onBulk := b.props.OnBulkDelete
	op := &Pending{Kind: OpBulkDelete, IDs: ids, seq: b.seq, run: func(ctx context.Context) error {
		return onBulk(ctx, append([]ID(nil), ids...))
	}}
	if b.Optimistic {
		b.deselect(ids)
	}
	return op, nil
}

// DeleteKey is the confirm guard key for the row with id.
func DeleteKey(id ID) string { return "delete:" + id.String() }

const BulkDeleteKey = "bulk-delete"

// PressDelete arms the delete control of a row on the first press and returns
// the delete call on a second press inside the confirm window. A nil op with
// a nil error means the control was armed.
func (b *Browser) PressDelete(id ID) (*Pending, error) {
	if !b.Affordances().Delete {
		return nil, ErrNotPermitted
	}
	if _, ok := b.row(id); !ok {
		return nil, ErrUnknownRow
	}
	if !b.guard.Press(DeleteKey(id)) {
		return nil, nil
	}
	return b.Delete(id)
}

// PressBulkDelete is PressDelete for the selection.
func (b *Browser) PressBulkDelete() (*Pending, error) {
	if !b.Affordances().BulkDelete {
		return nil, ErrNotPermitted
	}
	if len(b.selected) == 0 {
		return nil, ErrNothingSelected
	}
	if !b.guard.Press(BulkDeleteKey) {
		return nil, nil
	}
	return b.BulkDelete()
}
