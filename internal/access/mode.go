// Package access turns a user's permission strings into the access mode that
// gates every record browser affordance: listing, creating, editing, deleting,
// previewing, downloading and inspecting single records.
package access

import (
	"fmt"
	"strings"
)

// Kind tags the variant held by a Mode.
type Kind int

const (
	KindHidden Kind = iota
	KindReadOnly
	KindFull
	KindScoped
)

// Capabilities is the per-action breakdown produced by Resolve.
type Capabilities struct {
	View          bool
	VisualizeItem bool
	Create        bool
	Edit          bool
	Delete        bool
	Preview       bool
	Download      bool
}

// Mode is one of Full, ReadOnly, Hidden or Scoped(Capabilities).
// The zero value is Hidden.
type Mode struct {
	kind Kind
	caps Capabilities
}

func Full() Mode     { return Mode{kind: KindFull} }
func ReadOnly() Mode { return Mode{kind: KindReadOnly} }
func Hidden() Mode   { return Mode{kind: KindHidden} }

// Scoped wraps a capability record.
func Scoped(c Capabilities) Mode { return Mode{kind: KindScoped, caps: c} }

func (m Mode) Kind() Kind { return m.kind }

// Capabilities returns the record of a Scoped mode.
func (m Mode) Capabilities() (Capabilities, bool) {
	if m.kind != KindScoped {
		return Capabilities{}, false
	}
	return m.caps, true
}

func (m Mode) String() string {
	switch m.kind {
	case KindFull:
		return "full"
	case KindReadOnly:
		return "read-only"
	case KindScoped:
		var parts []string
		add := func(ok bool, name string) {
			if ok {
				parts = append(parts, name)
			}
		}
		add(m.caps.View, "view")
		add(m.caps.VisualizeItem, "visualize")
		add(m.caps.Create, "create")
		add(m.caps.Edit, "edit")
		add(m.caps.Delete, "delete")
		add(m.caps.Preview, "preview")
		add(m.caps.Download, "download")
		return "scoped(" + strings.Join(parts, ",") + ")"
	default:
		return "hidden"
	}
}

// ParseMode parses one of the coarse literals full, read-only or hidden.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full":
		return Full(), nil
	case "read-only", "readonly":
		return ReadOnly(), nil
	case "hidden":
		return Hidden(), nil
	}
	return Hidden(), fmt.Errorf("access: unknown mode %q", s)
}
