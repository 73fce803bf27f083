package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/olivier-w/dualtone/internal/codec"
	"github.com/olivier-w/dualtone/internal/dsp"
)

type stubPlayer struct {
	played [][]float64
	volume float64
}

func (p *stubPlayer) Play(samples []float64) error {
	p.played = append(p.played, samples)
	return nil
}
func (p *stubPlayer) AdjustVolume(delta float64) { p.volume += delta }
func (p *stubPlayer) Volume() float64            { return p.volume }

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T, p Player) Model {
	t.Helper()
	enc, err := codec.NewEncoder(codec.DefaultOptions())
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	return New(p, enc, Settings{
		Duration: dsp.DefaultDuration,
		Periods:  3,
		MaxFreq:  dsp.MaxDisplayFreq,
		SaveDir:  t.TempDir(),
	}, termenv.Ascii)
}

func TestKeyPressPlaysToneAndUpdatesCharts(t *testing.T) {
	p := &stubPlayer{volume: 0.5}
	m := newTestModel(t, p)

	next, cmd := m.handleMsg(runeKey('5'))
	if cmd == nil {
		t.Fatal("expected key release command")
	}
	if !next.hasTone || next.active.Symbol != '5' {
		t.Fatalf("expected active key 5, got %q", next.active.Symbol)
	}
	if len(p.played) != 1 || len(p.played[0]) != 13230 {
		t.Fatalf("expected one 13230-sample buffer played, got %d", len(p.played))
	}
	if next.lowPeak < 755 || next.lowPeak > 785 || next.highPeak < 1320 || next.highPeak > 1350 {
		t.Fatalf("expected peaks near 770/1336 Hz, got %d/%d", next.lowPeak, next.highPeak)
	}

	view := next.View()
	for _, want := range []string{"key 5", "770 Hz + 1336 Hz", "spectrum · bars", "vol 50%"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestKeyPressWithoutPlayer(t *testing.T) {
	m := newTestModel(t, nil)
	next, _ := m.handleMsg(runeKey('#'))
	if next.active.Symbol != '#' {
		t.Fatalf("expected active key #, got %q", next.active.Symbol)
	}
	if !strings.Contains(next.View(), "audio off") {
		t.Fatal("expected audio off indicator")
	}
}

func TestUnmappedKeyIsIgnored(t *testing.T) {
	m := newTestModel(t, nil)
	next, cmd := m.handleMsg(runeKey('z'))
	if next.hasTone || cmd != nil {
		t.Fatal("expected unmapped key to do nothing")
	}
}

func TestReleaseKeyIgnoresStaleSeq(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = m.handleMsg(runeKey('1'))
	m, _ = m.handleMsg(runeKey('2'))

	next, _ := m.handleMsg(releaseKeyMsg{seq: 1})
	if !next.pressed {
		t.Fatal("expected stale release to keep the key highlighted")
	}
	next, _ = next.handleMsg(releaseKeyMsg{seq: 2})
	if next.pressed {
		t.Fatal("expected current release to clear the highlight")
	}
}

func TestModeCyclesSpectrumCharts(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = m.handleMsg(runeKey('1'))
	m, _ = m.handleMsg(runeKey('v'))
	if !strings.Contains(m.View(), "spectrum · braille") {
		t.Fatal("expected braille view after one mode change")
	}
	m, _ = m.handleMsg(runeKey('v'))
	if m.mode != 0 {
		t.Fatalf("expected mode to wrap to 0, got %d", m.mode)
	}
}

func TestRecordingSessionSavesWAV(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyEnter})
	if m.session != SessionRecording {
		t.Fatalf("expected recording state, got %v", m.session)
	}
	for _, r := range "129" {
		m, _ = m.handleMsg(runeKey(r))
	}
	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyBackspace})
	if string(m.recorded) != "12" {
		t.Fatalf("expected recorded 12, got %q", string(m.recorded))
	}

	m, cmd := m.handleMsg(tea.KeyMsg{Type: tea.KeyEnter})
	if m.session != SessionEncoding || cmd == nil {
		t.Fatalf("expected encoding state with save command, got %v", m.session)
	}

	// Keys pressed while encoding are not recorded.
	m, _ = m.handleMsg(runeKey('3'))

	msg := cmd()
	saved, ok := msg.(fileSavedMsg)
	if !ok {
		t.Fatalf("expected fileSavedMsg, got %T", msg)
	}
	if saved.err != nil {
		t.Fatalf("save error = %v", saved.err)
	}
	if filepath.Base(saved.destName) != "dtmf_12.wav" {
		t.Fatalf("expected dtmf_12.wav, got %s", saved.destName)
	}
	if _, err := os.Stat(saved.destName); err != nil {
		t.Fatalf("expected saved file: %v", err)
	}

	m, _ = m.handleMsg(saved)
	if m.session != SessionIdle || len(m.recorded) != 0 {
		t.Fatalf("expected idle session with empty recording, got %v %q", m.session, string(m.recorded))
	}
	if !strings.Contains(m.statusMsg, "dtmf_12.wav") {
		t.Fatalf("expected saved status, got %q", m.statusMsg)
	}
}

func TestEmptyRecordingReturnsToIdle(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := m.handleMsg(tea.KeyMsg{Type: tea.KeyEnter})
	if m.session != SessionIdle || cmd != nil {
		t.Fatalf("expected idle without command, got %v", m.session)
	}
}

func TestSaveRecordingDoesNotOverwrite(t *testing.T) {
	enc, _ := codec.NewEncoder(codec.DefaultOptions())
	dir := t.TempDir()

	first, err := saveRecording(enc, []rune("*#"), dir)
	if err != nil {
		t.Fatalf("saveRecording() error = %v", err)
	}
	second, err := saveRecording(enc, []rune("*#"), dir)
	if err != nil {
		t.Fatalf("saveRecording() error = %v", err)
	}
	if filepath.Base(first) != "dtmf_sh.wav" {
		t.Fatalf("expected dtmf_sh.wav, got %s", first)
	}
	if filepath.Base(second) != "dtmf_sh (1).wav" {
		t.Fatalf("expected numbered second file, got %s", second)
	}
}

func TestSessionStateCycle(t *testing.T) {
	if SessionIdle.Next() != SessionRecording || SessionRecording.Next() != SessionEncoding {
		t.Fatal("unexpected session transitions")
	}
	if SessionEncoding.Next() != SessionEncoding {
		t.Fatal("expected encoding to ignore the record key")
	}
	if SessionRecording.Icon() == "" || SessionIdle.Icon() != "" {
		t.Fatal("unexpected session icons")
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, nil)
	next, cmd := m.handleMsg(runeKey('q'))
	if !next.quitting || cmd == nil {
		t.Fatal("expected quit")
	}
	if next.View() != "" {
		t.Fatal("expected empty view after quit")
	}
}
