package browser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID identifies a row. It wraps either a string or an integer key and is
// comparable, so it can be used as a map key.
type ID struct {
	s   string
	n   int64
	num bool
}

func StringID(s string) ID { return ID{s: s} }
func IntID(n int64) ID     { return ID{n: n, num: true} }

func (id ID) String() string {
	if id.num {
		return strconv.FormatInt(id.n, 10)
	}
	return id.s
}

func (id ID) IsZero() bool { return id == ID{} }

// Row is one record of an entity. Values are keyed by column key.
type Row struct {
	ID     ID
	Values map[string]any
}

func (r Row) Value(key string) any {
	if r.Values == nil {
		return nil
	}
	return r.Values[key]
}

// FormatValue renders a cell value as plain text.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, ", ")
	case []any:
		parts := make([]string, 0, len(x))
		for _, p := range x {
			parts = append(parts, FormatValue(p))
		}
		return strings.Join(parts, ", ")
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// ToList coerces a form or row value into a list of strings. Scalars become
// one-element lists and delimited strings are split on ',' or ';'.
func ToList(v any) []string {
	switch x := v.(type) {
	case nil:
		return []string{}
	case []string:
		return append([]string{}, x...)
	case []any:
		out := make([]string, 0, len(x))
		for _, p := range x {
			if s := strings.TrimSpace(FormatValue(p)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return SplitList(x)
	default:
		s := strings.TrimSpace(FormatValue(x))
		if s == "" {
			return []string{}
		}
		return []string{s}
	}
}

// SplitList splits a ',' or ';' delimited payload, dropping blanks.
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
