package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// frameInterval matches the 20 fps the chart springs are tuned for.
const frameInterval = 50 * time.Millisecond

type tickMsg time.Time

// releaseKeyMsg clears the pressed-key highlight once the tone has played.
type releaseKeyMsg struct {
	seq int
}

type fileSavedMsg struct {
	destName string
	err      error
}

func tickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func releaseKeyCmd(after time.Duration, seq int) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return releaseKeyMsg{seq: seq}
	})
}
