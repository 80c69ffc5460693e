package tui

import (
	"time"

	"github.com/jask/painel/internal/access"
	"github.com/jask/painel/internal/browser"
	"github.com/jask/painel/internal/watch"
)

type modesMsg struct {
	modes map[string]access.Mode
	err   error
}

type countsMsg struct {
	counts map[string]int
	err    error
}

// screen-scoped results carry the id of the screen that asked for them and
// are dropped when that screen is gone.

type rowsMsg struct {
	screen uint64
	rows   []browser.Row
	err    error
}

type opDoneMsg struct {
	screen uint64
	op     *browser.Pending
	err    error
}

type previewMsg struct {
	screen uint64
	row    browser.Row
	err    error
}

type exportDoneMsg struct {
	screen uint64
	path   string
	count  int
	err    error
}

type confirmExpiredMsg struct {
	screen  uint64
	key     string
	armedAt time.Time
}

type toastExpiredMsg struct {
	id int
}

type reloadMsg struct {
	event watch.Event
}
