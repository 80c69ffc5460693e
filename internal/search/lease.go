package search

// Lease is a screen's hold on the search context. Releasing it resets the
// filters and query so the next screen never inherits a stale target field.
type Lease struct {
	ctx  *Context
	id   uint64
	page string
}

// Install declares filters for page and returns the lease that removes them.
// Any previous lease becomes stale.
func (c *Context) Install(page string, filters []Filter, defaultID string) *Lease {
	scoped := make([]Filter, len(filters))
	for i, f := range filters {
		if f.Page == "" {
			f.Page = page
		}
		scoped[i] = f
	}
	c.query = ""
	c.SetFilters(scoped, defaultID)
	c.lease++
	return &Lease{ctx: c, id: c.lease, page: page}
}

func (l *Lease) Page() string { return l.page }

// Active reports whether this lease still owns the context.
func (l *Lease) Active() bool {
	return l != nil && l.ctx != nil && l.ctx.lease == l.id
}

// Release resets the context when the lease is still active. It is safe to
// call more than once.
func (l *Lease) Release() {
	if !l.Active() {
		return
	}
	l.ctx.reset()
	l.ctx.lease++
	l.ctx = nil
}
