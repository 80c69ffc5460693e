package browser

import (
	"errors"
	"strings"
)

var (
	ErrDialogBusy       = errors.New("browser: another dialog is open")
	ErrDialogClosed     = errors.New("browser: no dialog open")
	ErrNotPermitted     = errors.New("browser: operation not permitted")
	ErrReadOnly         = errors.New("browser: record is read-only")
	ErrUnknownRow       = errors.New("browser: unknown row")
	ErrNothingSelected  = errors.New("browser: nothing selected")
	ErrOperationPending = errors.New("browser: operation already pending")
	ErrActionDisabled   = errors.New("browser: action disabled")
)

// ValidationError lists the labels of required fields left empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, ", ")
}
