package browser

import (
	"strings"

	"golang.org/x/text/cases"
)

// Visible returns the rows matching the current search, in input order.
// With an active filter only its field is compared; otherwise a match on
// any declared column includes the row. A blank query shows every row; any
// other query is matched as typed, surrounding spaces included.
func (b *Browser) Visible() []Row {
	rows := b.props.Rows
	if b.search == nil {
		return append([]Row(nil), rows...)
	}
	q := b.search.Query()
	if strings.TrimSpace(q) == "" {
		return append([]Row(nil), rows...)
	}

	fold := cases.Fold()
	needle := fold.String(q)
	match := func(v any) bool {
		if v == nil {
			return false
		}
		return strings.Contains(fold.String(FormatValue(v)), needle)
	}

	out := make([]Row, 0, len(rows))
	if f, ok := b.search.Selected(); ok {
		for _, r := range rows {
			if match(r.Value(f.Field)) {
				out = append(out, r)
			}
		}
		return out
	}
	for _, r := range rows {
		for _, c := range b.props.Columns {
			if match(r.Value(c.Key)) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
