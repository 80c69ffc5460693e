package access

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Actions lists the action suffixes Resolve understands.
var Actions = []string{
	"listar", "visualizar", "criar", "adicionar", "editar",
	"excluir", "remover", "preview", "download",
}

// Permissions returns every concrete "<base>:<action>" string for bases.
func Permissions(bases []string) []string {
	out := make([]string, 0, len(bases)*len(Actions))
	for _, b := range bases {
		for _, a := range Actions {
			out = append(out, b+":"+a)
		}
	}
	return out
}

// Expand turns configured grants into a concrete permission set. Grants
// without glob metacharacters are kept as written. Patterns are matched
// against catalog with ':' as separator: '*' stays within one segment and
// '**' spans segments, so "comercial:**" grants everything under comercial
// and "**:listar" grants listar on every entity.
func Expand(grants []string, catalog []string) (Set, error) {
	out, _, err := ExpandGrants(grants, catalog)
	return out, err
}

// ExpandGrants is Expand that also returns the patterns that matched no
// catalog permission, in the order they were configured.
func ExpandGrants(grants []string, catalog []string) (Set, []string, error) {
	out := NewSet()
	var unmatched []string
	for _, g := range grants {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if !strings.ContainsAny(g, "*?[{") {
			out.Add(g)
			continue
		}
		pattern, err := glob.Compile(g, ':')
		if err != nil {
			return nil, nil, fmt.Errorf("access: grant %q: %w", g, err)
		}
		matched := false
		for _, p := range catalog {
			if pattern.Match(p) {
				out.Add(p)
				matched = true
			}
		}
		if !matched {
			unmatched = append(unmatched, g)
		}
	}
	return out, unmatched, nil
}
