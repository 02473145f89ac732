package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/uidclone/internal/clone"
)

// Catppuccin Mocha, the subset the clone screen uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
)

const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	labelStyle   = lipgloss.NewStyle().Foreground(colorSubtext0).Width(14)
	focusStyle   = lipgloss.NewStyle().Foreground(colorFocus).Bold(true).Width(14)
	dimStyle     = lipgloss.NewStyle().Foreground(colorOverlay1)
	textStyle    = lipgloss.NewStyle().Foreground(colorText)
	cursorStyle  = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)
	magicStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	noticeStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	statusStyle  = lipgloss.NewStyle().Foreground(colorInfo)
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)
)

// stateColor picks the badge color for a workflow state.
func stateColor(s clone.State) lipgloss.Color {
	switch s {
	case clone.StateBlock0Computed:
		return colorWarning
	case clone.StateCloned:
		return colorSuccess
	default:
		return colorSubtext0
	}
}
