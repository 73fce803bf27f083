package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/olivier-w/dualtone/internal/codec"
	"github.com/olivier-w/dualtone/internal/dsp"
	"github.com/olivier-w/dualtone/internal/keypad"
	"github.com/olivier-w/dualtone/internal/util"
	"github.com/olivier-w/dualtone/internal/visualizer"
)

const (
	waveHeight     = 9
	spectrumHeight = 8
	statusTTL      = 5 * time.Second
)

// Player plays a synthesized buffer. *player.Player satisfies it.
type Player interface {
	Play(samples []float64) error
	AdjustVolume(delta float64)
	Volume() float64
}

// Settings controls what a key press synthesizes and where recordings go.
type Settings struct {
	Duration float64 // seconds of tone per key press
	Periods  int     // low-tone periods shown in the waveform chart
	MaxFreq  float64 // spectrum cut-off in Hz
	SaveDir  string
}

// Model is the Bubbletea model for the keypad TUI.
type Model struct {
	player   Player // nil when audio output is disabled
	encoder  *codec.Encoder
	settings Settings

	keys keyMap
	help help.Model

	wave    *visualizer.Waveform
	spectra []visualizer.Chart
	mode    int

	active    keypad.Key
	hasTone   bool
	pressed   bool
	pressSeq  int
	tone      visualizer.Tone
	lowPeak   int
	highPeak  int
	session   SessionState
	recorded  []rune
	statusMsg string
	statusAt  time.Time

	width    int
	quitting bool
}

// New creates a new Model. p may be nil to run without audio.
func New(p Player, enc *codec.Encoder, s Settings, profile termenv.Profile) Model {
	if s.Duration <= 0 {
		s.Duration = dsp.DefaultDuration
	}
	if s.MaxFreq <= 0 {
		s.MaxFreq = dsp.MaxDisplayFreq
	}
	s.Periods = max(s.Periods, 0)
	return Model{
		player:   p,
		encoder:  enc,
		settings: s,
		keys:     newKeyMap(),
		help:     help.New(),
		wave:     visualizer.NewWaveform(profile),
		spectra:  visualizer.SpectrumModes(profile),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.SetWindowTitle("dualtone"))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.updateCharts()
		if m.statusMsg != "" && time.Since(m.statusAt) > statusTTL {
			m.statusMsg = ""
		}
		return m, tickCmd()

	case releaseKeyMsg:
		if msg.seq == m.pressSeq {
			m.pressed = false
		}
		return m, nil

	case fileSavedMsg:
		m.session = SessionIdle
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Save failed: %v", msg.err))
		} else {
			m.setStatus(fmt.Sprintf("Saved to %s", msg.destName))
			m.recorded = nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.updateCharts()
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if isQuit(m.keys, msg) {
		m.quitting = true
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Mode):
		m.mode = (m.mode + 1) % len(m.spectra)
		m.updateCharts()
		return m, nil
	case key.Matches(msg, m.keys.VolUp):
		if m.player != nil {
			m.player.AdjustVolume(0.05)
		}
		return m, nil
	case key.Matches(msg, m.keys.VolDown):
		if m.player != nil {
			m.player.AdjustVolume(-0.05)
		}
		return m, nil
	case key.Matches(msg, m.keys.Undo):
		if m.session == SessionRecording && len(m.recorded) > 0 {
			m.recorded = m.recorded[:len(m.recorded)-1]
		}
		return m, nil
	case key.Matches(msg, m.keys.Record):
		return m.advanceSession()
	}

	if sym, ok := keypad.FromKeyboard(msg.String()); ok {
		return m.press(sym)
	}
	return m, nil
}

// press synthesizes and plays the tone for sym and refreshes the charts.
func (m Model) press(sym rune) (Model, tea.Cmd) {
	k, err := keypad.Find(sym)
	if err != nil {
		m.setStatus(err.Error())
		return m, nil
	}
	tone, raw, err := visualizer.Build(k.Pair(), m.settings.Duration, m.settings.Periods, m.settings.MaxFreq)
	if err != nil {
		m.setStatus(fmt.Sprintf("Tone failed: %v", err))
		return m, nil
	}

	m.active = k
	m.hasTone = true
	m.pressed = true
	m.pressSeq++
	m.tone = tone
	m.lowPeak, m.highPeak, _ = tone.BandPeaks()
	m.updateCharts()

	if m.player != nil {
		if err := m.player.Play(raw); err != nil {
			m.setStatus(fmt.Sprintf("Playback failed: %v", err))
		}
	}
	if m.session == SessionRecording {
		m.recorded = append(m.recorded, k.Symbol)
	}

	hold := time.Duration(m.settings.Duration*float64(time.Second)) + 100*time.Millisecond
	return m, releaseKeyCmd(hold, m.pressSeq)
}

// advanceSession moves idle -> recording -> encoding. Encoding an empty
// recording goes straight back to idle.
func (m Model) advanceSession() (Model, tea.Cmd) {
	next := m.session.Next()
	switch next {
	case SessionRecording:
		m.session = next
		m.recorded = nil
		m.setStatus("Recording: press keys, enter to save")
		return m, nil
	case SessionEncoding:
		if len(m.recorded) == 0 || m.encoder == nil {
			m.session = SessionIdle
			m.setStatus("Nothing recorded")
			return m, nil
		}
		m.session = next
		enc, symbols, dir := m.encoder, append([]rune(nil), m.recorded...), m.settings.SaveDir
		return m, func() tea.Msg {
			name, err := saveRecording(enc, symbols, dir)
			return fileSavedMsg{destName: name, err: err}
		}
	}
	return m, nil
}

func (m *Model) setStatus(s string) {
	m.statusMsg = s
	m.statusAt = time.Now()
}

func (m *Model) chartWidth() int {
	w := m.width
	if w < 30 {
		w = 64
	}
	return w - 2
}

func (m *Model) updateCharts() {
	if !m.hasTone {
		return
	}
	w := m.chartWidth()
	m.wave.Update(m.tone, w, waveHeight)
	m.spectra[m.mode].Update(m.tone, w, spectrumHeight)
}

// recordingLength is the playing time of the recorded sequence once encoded.
func (m Model) recordingLength() time.Duration {
	if m.encoder == nil || len(m.recorded) == 0 {
		return 0
	}
	return m.encoder.Length(len(m.recorded))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w := m.chartWidth()
	var active rune
	if m.pressed {
		active = m.active.Symbol
	}

	info := []string{titleStyle.Render("no key pressed")}
	if m.hasTone {
		p := m.active.Pair()
		info = []string{
			titleStyle.Render("key " + m.active.String()),
			freqStyle.Render(util.FormatPair(p.Low, p.High)),
			freqStyle.Render(fmt.Sprintf("peaks %d Hz / %d Hz", m.lowPeak, m.highPeak)),
		}
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		renderKeypad(active),
		"    ",
		lipgloss.JoinVertical(lipgloss.Left, info...),
	)

	var b strings.Builder
	b.WriteString("\n  " + headerStyle.Render("dualtone") + "\n\n")
	for _, line := range strings.Split(top, "\n") {
		b.WriteString("  " + line + "\n")
	}
	b.WriteString("\n")

	if m.hasTone {
		spectrum := m.spectra[m.mode]
		label := "time"
		if m.settings.Periods > 0 {
			label = fmt.Sprintf("time · first %d periods of %.0f Hz", m.settings.Periods, m.active.Pair().Low)
		}
		b.WriteString("  " + axisStyle.Render(label) + "\n")
		for _, line := range strings.Split(m.wave.View(), "\n") {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n  " + axisStyle.Render("spectrum · "+spectrum.Name()) + "\n")
		for _, line := range strings.Split(spectrum.View(), "\n") {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("  " + axisStyle.Render(renderFreqAxis(w-2, m.settings.MaxFreq)) + "\n")
	}

	b.WriteString("\n  " + m.statusLine(w) + "\n")
	if m.statusMsg != "" {
		b.WriteString("  " + helpStyle.Render(m.statusMsg) + "\n")
	}
	b.WriteString("\n  " + m.help.View(m.keys) + "\n")
	return b.String()
}

func (m Model) statusLine(w int) string {
	left := m.session.String()
	leftRendered := statusStyle.Render(left)
	if icon := m.session.Icon(); icon != "" {
		left = fmt.Sprintf("%s %s  %s", icon, string(m.recorded), util.FormatDuration(m.recordingLength()))
		leftRendered = recordStyle.Render(left)
	}
	right := "audio off"
	if m.player != nil {
		right = renderVolumePercent(m.player.Volume())
	}
	return leftRendered + spaces(w-lipgloss.Width(left)-len(right)-2) + statusStyle.Render(right)
}
