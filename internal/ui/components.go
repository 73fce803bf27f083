package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/dualtone/internal/keypad"
	"github.com/olivier-w/dualtone/internal/util"
)

// renderKeypad draws the 4x4 grid, highlighting active.
func renderKeypad(active rune) string {
	rows := make([]string, 0, len(keypad.Rows))
	for r := range keypad.Rows {
		cells := make([]string, 0, len(keypad.Cols))
		for c := range keypad.Cols {
			sym, _ := keypad.At(r, c)
			style := keyStyle
			if sym == active {
				style = keyActiveStyle
			}
			cells = append(cells, style.Render(string(sym)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFreqAxis labels the left and right ends of a spectrum chart.
func renderFreqAxis(width int, maxFreq float64) string {
	left := util.FormatHz(0)
	right := util.FormatHz(maxFreq)
	return left + spaces(width-len(left)-len(right)) + right
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100))
}

func spaces(n int) string {
	return strings.Repeat(" ", max(n, 1))
}
