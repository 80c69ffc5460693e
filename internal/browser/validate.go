package browser

// Validate checks every required field against the current form values.
// It returns a *ValidationError naming the empty fields, or nil.
func (b *Browser) Validate() error {
	var missing []string
	for _, f := range b.props.FormFields {
		if !f.Required {
			continue
		}
		if isEmpty(b.values[f.Key]) {
			missing = append(missing, f.Title())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Fields: missing}
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []string:
		return len(x) == 0
	case []any:
		return len(x) == 0
	default:
		return false
	}
}
