// Package search holds the query and filter state shared between the screen
// that owns the search bar and the record browser that applies it.
package search

import (
	"errors"
	"strings"
)

var ErrUnknownFilter = errors.New("search: unknown filter")

// Filter restricts matching to a single row field.
type Filter struct {
	ID    string
	Label string
	Field string
	Type  string
	Page  string
}

// Context is the search state of one running console. It is not safe for
// concurrent use; the UI loop owns it.
type Context struct {
	query    string
	filters  []Filter
	selected int // index into filters, -1 when none
	version  uint64
	lease    uint64
}

func New() *Context {
	return &Context{selected: -1}
}

func (c *Context) Query() string { return c.query }

func (c *Context) SetQuery(q string) { c.query = q }

// Filters returns a copy of the declared filters.
func (c *Context) Filters() []Filter {
	return append([]Filter(nil), c.filters...)
}

// SetFilters replaces the declared filters. An empty list clears the
// selection; otherwise defaultID is selected when it names a member and the
// first filter when it does not.
func (c *Context) SetFilters(filters []Filter, defaultID string) {
	c.filters = append([]Filter(nil), filters...)
	c.selected = -1
	if len(c.filters) > 0 {
		c.selected = 0
		if i := c.index(defaultID); i >= 0 {
			c.selected = i
		}
	}
	c.version++
}

func (c *Context) Selected() (Filter, bool) {
	if c.selected < 0 || c.selected >= len(c.filters) {
		return Filter{}, false
	}
	return c.filters[c.selected], true
}

// Select makes id the active filter.
func (c *Context) Select(id string) error {
	i := c.index(id)
	if i < 0 {
		return ErrUnknownFilter
	}
	c.selected = i
	return nil
}

func (c *Context) ClearSelection() { c.selected = -1 }

// Cycle advances the selection through the declared filters and then to no
// filter at all.
func (c *Context) Cycle() {
	if len(c.filters) == 0 {
		return
	}
	c.selected++
	if c.selected >= len(c.filters) {
		c.selected = -1
	}
}

// Version changes every time the filter scope is replaced or released.
func (c *Context) Version() uint64 { return c.version }

func (c *Context) index(id string) int {
	if id == "" {
		return -1
	}
	for i, f := range c.filters {
		if strings.EqualFold(f.ID, id) {
			return i
		}
	}
	return -1
}

func (c *Context) reset() {
	c.filters = nil
	c.selected = -1
	c.query = ""
	c.version++
}
