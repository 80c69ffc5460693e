package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/painel/internal/theme"
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastWarning
	toastError
)

type toast struct {
	id   int
	text string
	kind toastKind
}

const maxToasts = 3

// notify queues a toast and returns the timer that dismisses it.
func (a *App) notify(kind toastKind, text string) tea.Cmd {
	a.toastSeq++
	t := toast{id: a.toastSeq, text: text, kind: kind}
	a.toasts = append(a.toasts, t)
	if len(a.toasts) > maxToasts {
		a.toasts = a.toasts[len(a.toasts)-maxToasts:]
	}
	timeout := a.cfg.UI.NotifyTimeout
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return a.after(timeout, func(time.Time) tea.Msg { return toastExpiredMsg{id: t.id} })
}

func (a *App) expireToast(id int) {
	for i, t := range a.toasts {
		if t.id == id {
			a.toasts = append(a.toasts[:i], a.toasts[i+1:]...)
			return
		}
	}
}

func (a *App) dismissToasts() { a.toasts = nil }

func (k toastKind) style() lipgloss.Style {
	switch k {
	case toastSuccess:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case toastWarning:
		return lipgloss.NewStyle().Foreground(theme.Warning)
	case toastError:
		return lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(theme.Info)
	}
}
