// Package theme holds the console palette (Catppuccin Mocha) and the shared
// lipgloss styles used by the form controls and the record screens.
package theme

import "github.com/charmbracelet/lipgloss"

const (
	Pink     lipgloss.Color = "#f5c2e7"
	Mauve    lipgloss.Color = "#cba6f7"
	Red      lipgloss.Color = "#f38ba8"
	Peach    lipgloss.Color = "#fab387"
	Yellow   lipgloss.Color = "#f9e2af"
	Green    lipgloss.Color = "#a6e3a1"
	Teal     lipgloss.Color = "#94e2d5"
	Blue     lipgloss.Color = "#89b4fa"
	Lavender lipgloss.Color = "#b4befe"

	Text     lipgloss.Color = "#cdd6f4"
	Subtext0 lipgloss.Color = "#a6adc8"
	Overlay1 lipgloss.Color = "#7f849c"
	Overlay0 lipgloss.Color = "#6c7086"
	Surface2 lipgloss.Color = "#585b70"
	Surface1 lipgloss.Color = "#45475a"
	Surface0 lipgloss.Color = "#313244"
	Base     lipgloss.Color = "#1e1e2e"
	Mantle   lipgloss.Color = "#181825"
)

const (
	Accent  = Pink
	Focus   = Lavender
	Success = Green
	Error   = Red
	Warning = Yellow
	Info    = Teal
)

var (
	Title    = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	Label    = lipgloss.NewStyle().Foreground(Subtext0)
	Muted    = lipgloss.NewStyle().Foreground(Overlay1)
	Value    = lipgloss.NewStyle().Foreground(Text)
	Disabled = lipgloss.NewStyle().Foreground(Overlay0).Italic(true)
	Required = lipgloss.NewStyle().Foreground(Red)
	Cursor   = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	Selected = lipgloss.NewStyle().Foreground(Green)
	Armed    = lipgloss.NewStyle().Foreground(Base).Background(Red).Bold(true)

	HelpKey  = lipgloss.NewStyle().Foreground(Lavender).Bold(true)
	HelpDesc = lipgloss.NewStyle().Foreground(Subtext0)

	Input        = lipgloss.NewStyle().Foreground(Text)
	FocusedInput = lipgloss.NewStyle().Foreground(Text).Underline(true)

	Modal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Padding(0, 1)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Surface2).
		Padding(0, 1)

	CardFocused = Card.BorderForeground(Focus)

	TableHeader = lipgloss.NewStyle().Foreground(Blue).Bold(true)

	Status = lipgloss.NewStyle().Foreground(Subtext0)
	Footer = lipgloss.NewStyle().Background(Mantle).Foreground(Subtext0).Padding(0, 1)
)
