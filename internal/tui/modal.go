package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/painel/internal/theme"
)

// composeModal frames content and draws it over the middle of base. Without
// a known terminal size the modal is appended below base.
func (a *App) composeModal(base, content string) string {
	modal := theme.Modal.Render(lipgloss.NewStyle().Width(a.modalWidth()).Render(content))
	if a.height == 0 || a.width == 0 {
		return base + "\n\n" + modal
	}
	return placeModal(base, modal, a.width, max(a.height-2, 1))
}

func (a *App) modalWidth() int {
	if a.width == 0 {
		return 60
	}
	return max(min(64, a.width-8), 20)
}

// placeModal centers modal on base, a width x height grid of lines. Modal
// lines falling below the grid are dropped.
func placeModal(base, modal string, width, height int) string {
	rows := splitLines(base)
	mw := lipgloss.Width(modal)
	x := max((width-mw)/2, 0)
	y := max((height-lipgloss.Height(modal))/2, 0)
	for i, line := range splitLines(modal) {
		row := y + i
		if row >= len(rows) || row >= height {
			break
		}
		rows[row] = spliceLine(rows[row], padRight(line, mw), x, width)
	}
	return strings.Join(rows, "\n")
}

// spliceLine writes insert over line starting at cell x, keeping the styled
// cells on either side.
func spliceLine(line, insert string, x, width int) string {
	line = padRight(line, width)
	left := padRight(ansi.Truncate(line, x, ""), x)
	right := ansi.TruncateLeft(line, x+ansi.StringWidth(insert), "")
	return left + insert + right
}
