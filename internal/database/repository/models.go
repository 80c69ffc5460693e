package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned by updates and deletes that matched no row.
var ErrNotFound = errors.New("repository: not found")

// Record is one row of any catalog entity. Data holds the field values
// keyed by field key.
type Record struct {
	ID        string
	Entity    string
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Grant is one permission held by a user.
type Grant struct {
	Username   string
	Permission string
	GrantedAt  time.Time
}
