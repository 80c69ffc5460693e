package browser

// DialogState is one of Closed, Adding or Editing.
type DialogState interface{ dialog() }

type Closed struct{}

type Adding struct{}

// Editing holds the row being edited. Inspect is set when the user may view
// the record but not change it.
type Editing struct {
	Row     Row
	Inspect bool
}

func (Closed) dialog()  {}
func (Adding) dialog()  {}
func (Editing) dialog() {}

func IsOpen(d DialogState) bool {
	_, closed := d.(Closed)
	return d != nil && !closed
}
