package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/painel/internal/access"
	"github.com/jask/painel/internal/search"
)

type calls struct {
	add    []map[string]any
	edit   []ID
	delete []ID
	bulk   [][]ID
}

func testRows() []Row {
	return []Row{
		{ID: StringID("1"), Values: map[string]any{"nome": "Ana Souza", "email": "ana@example.com", "tags": "vip"}},
		{ID: StringID("2"), Values: map[string]any{"nome": "Bruno Lima", "email": "bruno@example.com"}},
		{ID: StringID("3"), Values: map[string]any{"nome": "Ângela Reis", "email": nil}},
	}
}

func testProps(c *calls, mode access.Mode) Props {
	return Props{
		Rows: testRows(),
		Columns: []Column{
			{Key: "nome", Label: "Nome"},
			{Key: "email", Label: "E-mail"},
		},
		FormFields: []FormField{
			{Column: Column{Key: "nome", Label: "Nome"}, Required: true},
			{Column: Column{Key: "email", Label: "E-mail"}, InputType: InputEmail, Required: true},
			{Column: Column{Key: "status", Label: "Status"}, InputType: InputSelect, DefaultValue: "ativo"},
			{Column: Column{Key: "tags", Label: "Tags"}, InputType: InputMultiselect},
		},
		OnAdd: func(_ context.Context, v map[string]any) error {
			c.add = append(c.add, v)
			return nil
		},
		OnEdit: func(_ context.Context, id ID, _ map[string]any) error {
			c.edit = append(c.edit, id)
			return nil
		},
		OnDelete: func(_ context.Context, id ID) error {
			c.delete = append(c.delete, id)
			return nil
		},
		OnBulkDelete: func(_ context.Context, ids []ID) error {
			c.bulk = append(c.bulk, ids)
			return nil
		},
		Access: mode,
	}
}

func newBrowser(t *testing.T, mode access.Mode) (*Browser, *search.Context, *calls) {
	t.Helper()
	s := search.New()
	c := &calls{}
	b := New(s)
	b.SetProps(testProps(c, mode))
	return b, s, c
}

func ids(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID.String()
	}
	return out
}

func TestVisibleAnyColumn(t *testing.T) {
	t.Parallel()

	b, s, _ := newBrowser(t, access.Full())
	assert.Len(t, b.Visible(), 3)

	s.SetQuery("EXAMPLE")
	assert.Equal(t, []string{"1", "2"}, ids(b.Visible()))

	s.SetQuery("ângela")
	assert.Equal(t, []string{"3"}, ids(b.Visible()))
}

func TestVisibleActiveFilter(t *testing.T) {
	t.Parallel()

	b, s, _ := newBrowser(t, access.Full())
	s.SetFilters([]search.Filter{{ID: "email", Field: "email"}}, "")
	s.SetQuery("a")
	b.SetProps(b.Props())

	// row 3 has a nil email and never matches
	assert.Equal(t, []string{"1", "2"}, ids(b.Visible()))

	s.SetQuery("souza")
	assert.Empty(t, b.Visible())
}

func TestSelectAllOnlyVisible(t *testing.T) {
	t.Parallel()

	b, s, _ := newBrowser(t, access.Full())
	s.SetQuery("bruno")
	b.ToggleSelectAll()
	assert.Equal(t, []ID{StringID("2")}, b.Selected())

	s.SetQuery("")
	assert.Equal(t, []ID{StringID("2")}, b.Selected())
	assert.False(t, b.IsSelected(StringID("1")))

	b.ToggleSelectAll()
	assert.Len(t, b.Selected(), 3)
	b.ToggleSelectAll()
	assert.Empty(t, b.Selected())
}

func TestSelectAllWithNothingVisible(t *testing.T) {
	t.Parallel()

	b, s, _ := newBrowser(t, access.Full())
	b.Toggle(StringID("1"))
	s.SetQuery("zzz")
	require.Empty(t, b.Visible())
	b.ToggleSelectAll()

	s.SetQuery("")
	assert.Equal(t, []ID{StringID("1")}, b.Selected())
}

func TestVisibleQuerySpaces(t *testing.T) {
	t.Parallel()

	b, s, _ := newBrowser(t, access.Full())
	s.SetQuery("   ")
	assert.Len(t, b.Visible(), 3)

	s.SetQuery(" lima")
	assert.Equal(t, []string{"2"}, ids(b.Visible()))

	// "a " is not "a": Bruno Lima only has the letter
	s.SetQuery("a ")
	assert.Equal(t, []string{"1", "3"}, ids(b.Visible()))
}

func TestToggle(t *testing.T) {
	t.Parallel()

	b, _, _ := newBrowser(t, access.Full())
	b.Toggle(StringID("2"))
	b.Toggle(StringID("1"))
	assert.Equal(t, []ID{StringID("1"), StringID("2")}, b.Selected())
	b.Toggle(StringID("1"))
	assert.Equal(t, []ID{StringID("2")}, b.Selected())
}

func TestViewToggleKeepsState(t *testing.T) {
	t.Parallel()

	b, _, _ := newBrowser(t, access.Full())
	b.SetWidth(80)
	assert.Equal(t, Card, b.ViewMode())
	b.SetWidth(140)
	assert.Equal(t, Table, b.ViewMode())

	b.Toggle(StringID("1"))
	require.NoError(t, b.OpenEdit(StringID("2")))
	before := b.Dialog()

	b.ToggleViewMode()
	assert.Equal(t, Card, b.ViewMode())
	b.ToggleViewMode()
	assert.Equal(t, Table, b.ViewMode())

	assert.Equal(t, []ID{StringID("1")}, b.Selected())
	assert.Equal(t, before, b.Dialog())

	// a pinned view ignores later resizes
	b.SetWidth(40)
	assert.Equal(t, Table, b.ViewMode())
}

func TestOpenAddSeedsDefaults(t *testing.T) {
	t.Parallel()

	b, _, _ := newBrowser(t, access.Full())
	require.NoError(t, b.OpenAdd())
	assert.Equal(t, Adding{}, b.Dialog())
	v := b.Values()
	assert.Equal(t, "", v["nome"])
	assert.Equal(t, "ativo", v["status"])
	assert.Equal(t, []string{}, v["tags"])
}

func TestNoDirectTransitionBetweenDialogs(t *testing.T) {
	t.Parallel()

	b, _, _ := newBrowser(t, access.Full())
	require.NoError(t, b.OpenAdd())
	require.ErrorIs(t, b.OpenEdit(StringID("1")), ErrDialogBusy)
	b.Close()
	require.NoError(t, b.OpenEdit(StringID("1")))
	require.ErrorIs(t, b.OpenAdd(), ErrDialogBusy)
	b.Close()
	assert.Equal(t, Closed{}, b.Dialog())
}

func TestOpenEditSeedsFromRow(t *testing.T) {
	t.Parallel()

	b, _, _ := newBrowser(t, access.Full())
	require.NoError(t, b.OpenEdit(StringID("1")))
	v := b.Values()
	assert.Equal(t, "Ana Souza", v["nome"])
	assert.Equal(t, "ativo", v["status"])
	assert.Equal(t, []string{"vip"}, v["tags"])

	b.Close()
	require.ErrorIs(t, b.OpenEdit(StringID("9")), ErrUnknownRow)
}

func TestEditCloseLeavesRowsUnchanged(t *testing.T) {
	t.Parallel()

	b, _, c := newBrowser(t, access.Full())
	before := testRows()
	require.NoError(t, b.OpenEdit(StringID("1")))
	b.SetFieldValue("nome", "Outra")
	b.SetFieldValue("tags", []string{"a", "b"})
	b.Close()

	assert.Equal(t, before, b.Props().Rows)
	assert.Empty(t, c.edit)
	assert.Nil(t, b.Value("nome"))
}

func TestRequiredFieldsBlockSubmit(t *testing.T) {
	t.Parallel()

	empties := []any{"", nil, []string{}, []any{}}
	for _, empty := range empties {
		b, _, c := newBrowser(t, access.Full())
		b.SetProps(func() Props {
			p := b.Props()
			p.FormFields[3].Required = true
			return p
		}())

		require.NoError(t, b.OpenAdd())
		b.SetFieldValue("nome", "Ana")
		b.SetFieldValue("email", "ana@example.com")
		b.SetFieldValue("tags", empty)

		op, err := b.Submit()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"Tags"}, verr.Fields)
		assert.Nil(t, op)
		assert.Empty(t, c.add)
		assert.Equal(t, Adding{}, b.Dialog())
	}
}

func TestValidationMessageJoinsLabels(t *testing.T) {
	t.Parallel()

	b, _, c := newBrowser(t, access.Full())
	require.NoError(t, b.OpenEdit(StringID("3")))
	b.SetFieldValue("nome", "")
	_, err := b.Submit()
	require.EqualError(t, err, "Nome, E-mail")
	assert.Empty(t, c.edit)
}

func TestSubmitPendingThenCommit(t *testing.T) {
	t.Parallel()

	b, _, c := newBrowser(t, access.Full())
	require.NoError(t, b.OpenAdd())
	b.SetFieldValue("nome", "Carla")
	b.SetFieldValue("email", "carla@example.com")

	op, err := b.Submit()
	require.NoError(t, err)
	assert.Equal(t, StatusPending, op.Status())
	assert.Equal(t, Adding{}, b.Dialog())

	_, err = b.Submit()
	require.ErrorIs(t, err, ErrOperationPending)

	require.NoError(t, op.Run(context.Background()))
	require.Len(t, c.add, 1)
	assert.Equal(t, "Carla", c.add[0]["nome"])

	b.Resolve(op, nil)
	assert.Equal(t, StatusCommitted, op.Status())
	assert.Equal(t, Closed{}, b.Dialog())
}

func TestSubmitFailureKeepsDialog(t *testing.T) {
	t.Parallel()

	b, _, _ := newBrowser(t, access.Full())
	require.NoError(t, b.OpenEdit(StringID("1")))
	op, err := b.Submit()
	require.NoError(t, err)

	boom := errors.New("boom")
	b.Resolve(op, boom)
	assert.Equal(t, StatusFailed, op.Status())
	assert.ErrorIs(t, op.Err(), boom)
	assert.IsType(t, Editing{}, b.Dialog())

	// a retry is allowed after the failure
	op2, err := b.Submit()
	require.NoError(t, err)
	b.Resolve(op2, nil)
	assert.Equal(t, Closed{}, b.Dialog())
}

func TestStaleResolveIgnored(t *testing.T) {
	t.Parallel()

	b, _, _ := newBrowser(t, access.Full())
	require.NoError(t, b.OpenEdit(StringID("1")))
	op, err := b.Submit()
	require.NoError(t, err)
	b.Close()
	require.NoError(t, b.OpenEdit(StringID("2")))

	b.Resolve(op, nil)
	assert.Equal(t, StatusCommitted, op.Status())
	d, ok := b.Dialog().(Editing)
	require.True(t, ok)
	assert.Equal(t, StringID("2"), d.Row.ID)
}

func TestOptimisticClosesOnDispatch(t *testing.T) {
	t.Parallel()

	b, _, _ := newBrowser(t, access.Full())
	b.Optimistic = true
	require.NoError(t, b.OpenEdit(StringID("1")))
	_, err := b.Submit()
	require.NoError(t, err)
	assert.Equal(t, Closed{}, b.Dialog())

	b.Toggle(StringID("1"))
	b.Toggle(StringID("2"))
	_, err = b.BulkDelete()
	require.NoError(t, err)
	assert.Empty(t, b.Selected())
}

func TestDeleteClearsSelectionOnCommit(t *testing.T) {
	t.Parallel()

	b, s, c := newBrowser(t, access.Full())
	b.Toggle(StringID("1"))
	b.Toggle(StringID("2"))
	s.SetQuery("ana")

	op, err := b.BulkDelete()
	require.NoError(t, err)
	// hidden selected rows are included
	assert.Equal(t, []ID{StringID("1"), StringID("2")}, op.IDs)
	assert.Len(t, b.Selected(), 2)

	require.NoError(t, op.Run(context.Background()))
	require.Len(t, c.bulk, 1)
	b.Resolve(op, nil)
	assert.Empty(t, b.Selected())

	b.Toggle(StringID("3"))
	op, err = b.Delete(StringID("3"))
	require.NoError(t, err)
	b.Resolve(op, errors.New("offline"))
	assert.True(t, b.IsSelected(StringID("3")))
}

func TestBulkDeleteNothingSelected(t *testing.T) {
	t.Parallel()

	b, _, _ := newBrowser(t, access.Full())
	_, err := b.BulkDelete()
	require.ErrorIs(t, err, ErrNothingSelected)
}

func TestConfirmDeleteTiming(t *testing.T) {
	t.Parallel()

	b, _, c := newBrowser(t, access.Full())
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	b.Guard().Now = func() time.Time { return now }
	id := StringID("1")

	op, err := b.PressDelete(id)
	require.NoError(t, err)
	assert.Nil(t, op)
	assert.True(t, b.Guard().Armed(DeleteKey(id)))
	assert.Empty(t, c.delete)

	now = now.Add(2 * time.Second)
	op, err = b.PressDelete(id)
	require.NoError(t, err)
	require.NotNil(t, op)
	require.NoError(t, op.Run(context.Background()))
	assert.Equal(t, []ID{id}, c.delete)

	// a press after the window re-arms
	op, err = b.PressDelete(id)
	require.NoError(t, err)
	assert.Nil(t, op)
	now = now.Add(3 * time.Second)
	op, err = b.PressDelete(id)
	require.NoError(t, err)
	assert.Nil(t, op)
	assert.True(t, b.Guard().Armed(DeleteKey(id)))
	assert.Len(t, c.delete, 1)
}

func TestConfirmGuardExpireAndBlur(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	g := NewConfirmGuard(0)
	g.Now = func() time.Time { return now }
	assert.Equal(t, DefaultConfirmWindow, g.Window)

	assert.False(t, g.Press("k"))
	first, ok := g.ArmedAt("k")
	require.True(t, ok)

	g.Blur("k")
	assert.False(t, g.Armed("k"))
	assert.False(t, g.Press("k"))

	now = now.Add(time.Second)
	assert.False(t, g.Press("other"))
	g.Expire("k", first.Add(-time.Minute))
	assert.True(t, g.Armed("k"))

	at, _ := g.ArmedAt("k")
	g.Expire("k", at)
	assert.False(t, g.Armed("k"))
	assert.True(t, g.Armed("other"))

	g.Reset()
	assert.False(t, g.Armed("other"))
}

func TestAccessGating(t *testing.T) {
	t.Parallel()

	t.Run("hidden", func(t *testing.T) {
		b, _, _ := newBrowser(t, access.Hidden())
		assert.Equal(t, Affordances{}, b.Affordances())
		assert.ErrorIs(t, b.OpenAdd(), ErrNotPermitted)
		assert.ErrorIs(t, b.OpenEdit(StringID("1")), ErrNotPermitted)
		_, err := b.Delete(StringID("1"))
		assert.ErrorIs(t, err, ErrNotPermitted)
	})

	t.Run("list only", func(t *testing.T) {
		mode := access.Resolve(access.NewSet("vendas:pedidos:listar"), "vendas:pedidos")
		b, _, _ := newBrowser(t, mode)
		assert.ErrorIs(t, b.OpenAdd(), ErrNotPermitted)
		assert.ErrorIs(t, b.OpenEdit(StringID("1")), ErrNotPermitted)
	})

	t.Run("visualize opens read-only", func(t *testing.T) {
		mode := access.Resolve(access.NewSet("p:x:listar", "p:x:visualizar"), "p:x")
		b, _, c := newBrowser(t, mode)
		require.NoError(t, b.OpenEdit(StringID("1")))
		d := b.Dialog().(Editing)
		assert.True(t, d.Inspect)
		for _, f := range b.Props().FormFields {
			assert.True(t, b.FieldDisabled(f), f.Key)
		}
		b.SetFieldValue("nome", "x")
		assert.Equal(t, "Ana Souza", b.Value("nome"))
		_, err := b.Submit()
		assert.ErrorIs(t, err, ErrReadOnly)
		assert.Empty(t, c.edit)
	})

	t.Run("disable view blocks inspection", func(t *testing.T) {
		mode := access.Resolve(access.NewSet("p:x:listar", "p:x:visualizar"), "p:x")
		b, _, _ := newBrowser(t, mode)
		p := b.Props()
		p.DisableView = true
		b.SetProps(p)
		assert.ErrorIs(t, b.OpenEdit(StringID("1")), ErrNotPermitted)
	})

	t.Run("create only", func(t *testing.T) {
		mode := access.Resolve(access.NewSet("p:x:listar", "p:x:criar"), "p:x")
		b, _, _ := newBrowser(t, mode)
		require.NoError(t, b.OpenAdd())
		assert.False(t, b.FieldDisabled(b.Props().FormFields[0]))
	})

	t.Run("hidden while open locks fields", func(t *testing.T) {
		b, _, _ := newBrowser(t, access.Full())
		require.NoError(t, b.OpenAdd())
		p := b.Props()
		p.Access = access.Hidden()
		b.SetProps(p)
		for _, f := range p.FormFields {
			assert.True(t, b.FieldDisabled(f), f.Key)
		}
	})

	t.Run("disabled field", func(t *testing.T) {
		b, _, _ := newBrowser(t, access.Full())
		require.NoError(t, b.OpenAdd())
		f := b.Props().FormFields[0]
		f.Disabled = true
		assert.True(t, b.FieldDisabled(f))
	})

	t.Run("disable delete", func(t *testing.T) {
		b, _, _ := newBrowser(t, access.Full())
		p := b.Props()
		p.DisableDelete = true
		b.SetProps(p)
		b.Toggle(StringID("1"))
		_, err := b.PressBulkDelete()
		assert.ErrorIs(t, err, ErrNotPermitted)
	})
}

func TestScopeChangeResetsState(t *testing.T) {
	t.Parallel()

	b, s, _ := newBrowser(t, access.Full())
	b.Toggle(StringID("1"))
	require.NoError(t, b.OpenAdd())

	lease := s.Install("pessoas", []search.Filter{{ID: "nome", Field: "nome"}}, "")
	b.SetProps(b.Props())
	assert.Empty(t, b.Selected())
	assert.Equal(t, Closed{}, b.Dialog())

	b.Toggle(StringID("2"))
	b.SetProps(b.Props())
	assert.Len(t, b.Selected(), 1)
	lease.Release()
}

func TestActions(t *testing.T) {
	t.Parallel()

	b, _, _ := newBrowser(t, access.Full())
	var got []ID
	p := b.Props()
	p.BulkActions = []Action{
		{Label: "Exportar", OnClick: func(ids []ID) { got = ids }, Disabled: MinSelected(1)},
		{Label: "Arquivar", OnClick: func([]ID) {}, Disabled: Static(true)},
		{Label: "Sem ação"},
	}
	p.RowActions = []Action{
		{Label: "Ver", OnClick: func(ids []ID) { got = ids }},
	}
	b.SetProps(p)

	states := b.BulkActionStates()
	require.Len(t, states, 3)
	assert.True(t, states[0].Disabled)
	assert.ErrorIs(t, b.RunBulkAction(0), ErrActionDisabled)

	b.Toggle(StringID("2"))
	assert.False(t, b.BulkActionStates()[0].Disabled)
	require.NoError(t, b.RunBulkAction(0))
	assert.Equal(t, []ID{StringID("2")}, got)

	assert.ErrorIs(t, b.RunBulkAction(1), ErrActionDisabled)
	assert.ErrorIs(t, b.RunBulkAction(2), ErrActionDisabled)
	assert.ErrorIs(t, b.RunBulkAction(7), ErrActionDisabled)

	row := b.Props().Rows[0]
	assert.False(t, b.RowActionStates(row)[0].Disabled)
	require.NoError(t, b.RunRowAction(row.ID, 0))
	assert.Equal(t, []ID{row.ID}, got)
	assert.ErrorIs(t, b.RunRowAction(StringID("x"), 0), ErrUnknownRow)
}
