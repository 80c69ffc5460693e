package browser

import "context"

type OpKind int

const (
	OpAdd OpKind = iota
	OpEdit
	OpDelete
	OpBulkDelete
)

func (k OpKind) String() string {
	switch k {
	case OpAdd:
		return "add"
	case OpEdit:
		return "edit"
	case OpDelete:
		return "delete"
	case OpBulkDelete:
		return "bulk-delete"
	}
	return "unknown"
}

type Status int

const (
	StatusPending Status = iota
	StatusCommitted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCommitted:
		return "committed"
	case StatusFailed:
		return "failed"
	}
	return "pending"
}

// Pending is a collaborator call handed out by the browser. The caller runs
// it off the UI loop and reports the outcome with Browser.Resolve.
type Pending struct {
	Kind   OpKind
	IDs    []ID
	Values map[string]any

	run    func(ctx context.Context) error
	seq    uint64
	status Status
	err    error
}

// Run invokes the collaborator callback.
func (p *Pending) Run(ctx context.Context) error {
	if p.run == nil {
		return nil
	}
	return p.run(ctx)
}

func (p *Pending) Status() Status { return p.status }
func (p *Pending) Err() error     { return p.err }

// Resolve records the outcome of op. On success the add/edit dialog closes
// and deleted ids leave the selection; on failure nothing changes so the
// dialog stays open for correction. Outcomes for a dialog that has since
// been closed or replaced are recorded on op but otherwise ignored.
func (b *Browser) Resolve(op *Pending, err error) {
	if op == nil || op.status != StatusPending {
		return
	}
	if b.inflight == op {
		b.inflight = nil
	}
	if err != nil {
		op.status, op.err = StatusFailed, err
		return
	}
	op.status = StatusCommitted
	if b.Optimistic {
		return
	}
	switch op.Kind {
	case OpAdd, OpEdit:
		if op.seq == b.seq {
			b.closeDialog()
		}
	case OpDelete, OpBulkDelete:
		b.deselect(op.IDs)
	}
}

// Inflight reports the add/edit submission awaiting its outcome.
func (b *Browser) Inflight() *Pending { return b.inflight }
