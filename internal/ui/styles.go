package ui

import "github.com/charmbracelet/lipgloss"

// Palette entries pick a shade for light and dark terminals.
var (
	inkStrong = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}
	inkMuted  = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#AAAAAA"}
	inkFaint  = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#888888"}
	inkStatus = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	inkHint   = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"}
	inkBorder = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#444444"}
	inkAccent = lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#00AEFF"}
	inkRecord = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF5F56"}
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(inkStrong)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(inkStatus)
	freqStyle   = lipgloss.NewStyle().Foreground(inkMuted)
	axisStyle   = lipgloss.NewStyle().Foreground(inkFaint)
	statusStyle = lipgloss.NewStyle().Foreground(inkStatus)
	helpStyle   = lipgloss.NewStyle().Foreground(inkHint)
	recordStyle = lipgloss.NewStyle().Bold(true).Foreground(inkRecord)

	// keypad buttons
	keyStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(inkBorder)

	keyActiveStyle = keyStyle.
			Bold(true).
			BorderForeground(inkAccent).
			Foreground(inkAccent)
)
