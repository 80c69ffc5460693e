package access

// Predicates normalize the coarse literals without looking at capability
// fields. A Scoped record without View behaves like Hidden everywhere.

func scoped(m Mode) (Capabilities, bool) {
	if m.kind != KindScoped || !m.caps.View {
		return Capabilities{}, false
	}
	return m.caps, true
}

func IsHidden(m Mode) bool {
	switch m.kind {
	case KindFull, KindReadOnly:
		return false
	case KindScoped:
		return !m.caps.View
	default:
		return true
	}
}

// IsReadOnly reports whether a visible mode grants neither create nor edit.
// Delete, preview and download do not affect the classification. Hidden is
// not read-only.
func IsReadOnly(m Mode) bool {
	switch m.kind {
	case KindReadOnly:
		return true
	case KindScoped:
		c, ok := scoped(m)
		return ok && !c.Edit && !c.Create
	default:
		return false
	}
}

func CanCreate(m Mode) bool {
	if m.kind == KindFull {
		return true
	}
	c, ok := scoped(m)
	return ok && c.Create
}

func CanEdit(m Mode) bool {
	if m.kind == KindFull {
		return true
	}
	c, ok := scoped(m)
	return ok && c.Edit
}

func CanDelete(m Mode) bool {
	if m.kind == KindFull {
		return true
	}
	c, ok := scoped(m)
	return ok && c.Delete
}

func CanPreview(m Mode) bool {
	if m.kind == KindFull {
		return true
	}
	c, ok := scoped(m)
	return ok && c.Preview
}

func CanDownload(m Mode) bool {
	if m.kind == KindFull {
		return true
	}
	c, ok := scoped(m)
	return ok && c.Download
}

// CanVisualizeItem reports whether a single record may be opened for
// inspection. Read-only grants inspection and nothing else.
func CanVisualizeItem(m Mode) bool {
	switch m.kind {
	case KindFull, KindReadOnly:
		return true
	case KindScoped:
		c, ok := scoped(m)
		return ok && c.VisualizeItem
	default:
		return false
	}
}

// IsFull is true when any mutating capability is present; it does not mean
// every capability was granted.
func IsFull(m Mode) bool {
	if m.kind == KindFull {
		return true
	}
	c, ok := scoped(m)
	return ok && (c.Edit || c.Create || c.Delete)
}

// Operation is the form context a field is rendered in.
type Operation int

const (
	OpCreate Operation = iota
	OpEdit
)

func (o Operation) String() string {
	if o == OpEdit {
		return "edit"
	}
	return "create"
}

// Contextual narrows m to the capability that gates mutation for op: edit
// while editing, create while creating. The result is Full when that
// capability is present and ReadOnly otherwise; Hidden stays Hidden.
func Contextual(m Mode, op Operation) Mode {
	if IsHidden(m) {
		return Hidden()
	}
	allowed := CanCreate(m)
	if op == OpEdit {
		allowed = CanEdit(m)
	}
	if allowed {
		return Full()
	}
	return ReadOnly()
}
