package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorRose  = lipgloss.Color("#E11D48")
	colorPink  = lipgloss.Color("#F9A8D4")
	colorGreen = lipgloss.Color("#4ADE80")
	colorMuted = lipgloss.Color("#6B7280")
	colorRed   = lipgloss.Color("#F87171")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorRose)
	labelStyle = lipgloss.NewStyle().Foreground(colorPink)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	yesStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	noStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	errorStyle = lipgloss.NewStyle().Foreground(colorRed)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRose).
			Padding(1, 2)
)
