package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Press   key.Binding
	Record  key.Binding
	Undo    key.Binding
	Mode    key.Binding
	VolUp   key.Binding
	VolDown key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Press: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "*", "#", "a", "b", "c", "d"),
			key.WithHelp("0-9 * # a-d", "play tone"),
		),
		Record:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "record/save")),
		Undo:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "undo")),
		Mode:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "spectrum view")),
		VolUp:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "volume up")),
		VolDown: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "volume down")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Press, k.Record, k.Mode, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Press, k.Record, k.Undo},
		{k.Mode, k.VolUp, k.VolDown},
		{k.Help, k.Quit},
	}
}

func isQuit(k keyMap, msg tea.KeyMsg) bool {
	return key.Matches(msg, k.Quit)
}
