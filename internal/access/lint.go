package access

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const maxSuggestDistance = 3

// Finding describes a granted permission that no entity will ever read.
type Finding struct {
	Permission string
	Problem    string
	Suggestion string
}

func (f Finding) String() string {
	if f.Suggestion == "" {
		return fmt.Sprintf("%s: %s", f.Permission, f.Problem)
	}
	return fmt.Sprintf("%s: %s (did you mean %q?)", f.Permission, f.Problem, f.Suggestion)
}

// Lint reports permissions whose base is not one of bases or whose action is
// not one of Actions, suggesting the nearest known spelling.
func Lint(perms Set, bases []string) []Finding {
	sorted := append([]string(nil), bases...)
	// longest first so "a:b:c" is preferred over "a:b"
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	var out []Finding
	for _, p := range perms.Slice() {
		base := ""
		for _, b := range sorted {
			if p == b || strings.HasPrefix(p, b+":") {
				base = b
				break
			}
		}
		if base == "" {
			out = append(out, Finding{
				Permission: p,
				Problem:    "unknown base",
				Suggestion: nearest(baseOf(p), bases),
			})
			continue
		}
		if p == base {
			continue
		}
		action := p[strings.LastIndex(p, ":")+1:]
		if !knownAction(action) {
			s := nearest(action, Actions)
			if s != "" {
				s = p[:len(p)-len(action)] + s
			}
			out = append(out, Finding{Permission: p, Problem: "unknown action " + action, Suggestion: s})
		}
	}
	return out
}

func knownAction(a string) bool {
	for _, k := range Actions {
		if k == a {
			return true
		}
	}
	return false
}

func baseOf(p string) string {
	parts := strings.SplitN(p, ":", 3)
	if len(parts) < 2 {
		return p
	}
	return parts[0] + ":" + parts[1]
}

func nearest(word string, candidates []string) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(word, c)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
