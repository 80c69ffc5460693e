package access

import (
	"sort"
	"strings"
)

// Set is a flat set of permission strings such as "comercial:clientes:editar".
type Set map[string]struct{}

func NewSet(perms ...string) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		s[p] = struct{}{}
	}
	return s
}

func (s Set) Has(p string) bool {
	_, ok := s[p]
	return ok
}

func (s Set) Add(p string) {
	if p = strings.TrimSpace(p); p != "" {
		s[p] = struct{}{}
	}
}

// Slice returns the permissions sorted.
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set holding the members of both.
func (s Set) Union(o Set) Set {
	out := make(Set, len(s)+len(o))
	for p := range s {
		out[p] = struct{}{}
	}
	for p := range o {
		out[p] = struct{}{}
	}
	return out
}

// Resolve maps perms to the access mode for base, the "<domain>:<entity>"
// prefix of one manageable resource.
//
// Without "<base>:listar" or the bare "<base>" the result is Hidden no matter
// what else is granted. Delete, preview and download match by suffix over
// every permission sharing the base prefix, so "<base>:sub:excluir" also
// grants delete.
func Resolve(perms Set, base string) Mode {
	if !perms.Has(base+":listar") && !perms.Has(base) {
		return Hidden()
	}
	c := Capabilities{
		View:   true,
		Create: perms.Has(base+":criar") || perms.Has(base+":adicionar"),
		Edit:   perms.Has(base + ":editar"),
	}
	for p := range perms {
		if !strings.HasPrefix(p, base) {
			continue
		}
		switch {
		case strings.HasSuffix(p, ":excluir"), strings.HasSuffix(p, ":remover"):
			c.Delete = true
		case strings.HasSuffix(p, ":preview"):
			c.Preview = true
		case strings.HasSuffix(p, ":download"):
			c.Download = true
		}
	}
	c.VisualizeItem = perms.Has(base+":visualizar") || c.Edit
	return Scoped(c)
}
