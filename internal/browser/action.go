package browser

// Predicate decides whether an action is disabled for the ids it would act on.
type Predicate func(ids []ID) bool

// Static returns a predicate that ignores its input.
func Static(disabled bool) Predicate {
	return func([]ID) bool { return disabled }
}

// MinSelected disables an action until at least n ids are given.
func MinSelected(n int) Predicate {
	return func(ids []ID) bool { return len(ids) < n }
}

// Action is a caller defined command on one row or on the selection.
type Action struct {
	Label    string
	Icon     string
	OnClick  func(ids []ID)
	Disabled Predicate
}

// ActionState is an action with its disabled flag evaluated.
type ActionState struct {
	Label    string
	Icon     string
	Disabled bool
}

func evaluate(actions []Action, ids []ID) []ActionState {
	out := make([]ActionState, len(actions))
	for i, a := range actions {
		out[i] = ActionState{
			Label:    a.Label,
			Icon:     a.Icon,
			Disabled: a.OnClick == nil || (a.Disabled != nil && a.Disabled(ids)),
		}
	}
	return out
}

// BulkActionStates evaluates bulk actions against the current selection.
func (b *Browser) BulkActionStates() []ActionState {
	return evaluate(b.props.BulkActions, b.Selected())
}

// RowActionStates evaluates row actions for row.
func (b *Browser) RowActionStates(row Row) []ActionState {
	return evaluate(b.props.RowActions, []ID{row.ID})
}

// RunBulkAction invokes the i-th bulk action on the selection.
func (b *Browser) RunBulkAction(i int) error {
	return run(b.props.BulkActions, i, b.Selected())
}

// RunRowAction invokes the i-th row action on the row with id.
func (b *Browser) RunRowAction(id ID, i int) error {
	if _, ok := b.row(id); !ok {
		return ErrUnknownRow
	}
	return run(b.props.RowActions, i, []ID{id})
}

func run(actions []Action, i int, ids []ID) error {
	if i < 0 || i >= len(actions) {
		return ErrActionDisabled
	}
	a := actions[i]
	if a.OnClick == nil || (a.Disabled != nil && a.Disabled(ids)) {
		return ErrActionDisabled
	}
	a.OnClick(ids)
	return nil
}
