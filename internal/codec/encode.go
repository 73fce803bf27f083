package codec

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/olivier-w/dualtone/internal/dsp"
	"github.com/olivier-w/dualtone/internal/keypad"
)

// Options controls the layout of an encoded sequence.
type Options struct {
	ToneDuration time.Duration
	GapDuration  time.Duration
	SampleRate   int
}

// DefaultOptions returns 100 ms tones separated by 50 ms of silence at 44.1 kHz.
func DefaultOptions() Options {
	return Options{
		ToneDuration: 100 * time.Millisecond,
		GapDuration:  50 * time.Millisecond,
		SampleRate:   dsp.SampleRate,
	}
}

// Encoder renders symbol sequences as audio.
type Encoder struct {
	opts    Options
	toneLen int
	gapLen  int
}

// NewEncoder validates opts and returns an encoder.
func NewEncoder(opts Options) (*Encoder, error) {
	if opts.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d Hz", dsp.ErrInvalidSampleRate, opts.SampleRate)
	}
	if opts.ToneDuration <= 0 {
		return nil, fmt.Errorf("%w: tone %v", dsp.ErrInvalidDuration, opts.ToneDuration)
	}
	if opts.GapDuration < 0 {
		return nil, fmt.Errorf("%w: gap %v", dsp.ErrInvalidDuration, opts.GapDuration)
	}
	rate := float64(opts.SampleRate)
	e := &Encoder{
		opts:    opts,
		toneLen: dsp.Len(opts.ToneDuration.Seconds(), rate),
		gapLen:  dsp.Len(opts.GapDuration.Seconds(), rate),
	}
	if e.toneLen == 0 {
		return nil, fmt.Errorf("%w: tone %v is shorter than one sample", dsp.ErrInvalidDuration, opts.ToneDuration)
	}
	return e, nil
}

// Options returns the encoder configuration.
func (e *Encoder) Options() Options { return e.opts }

// Length returns the playing time of n encoded symbols.
func (e *Encoder) Length(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	d := time.Duration(n)
	return d*e.opts.ToneDuration + (d-1)*e.opts.GapDuration
}

// Samples concatenates one tone per symbol with silence between consecutive
// symbols.
func (e *Encoder) Samples(symbols []rune) ([]float64, error) {
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}
	out := make([]float64, 0, len(symbols)*e.toneLen+(len(symbols)-1)*e.gapLen)
	for i, s := range symbols {
		pair, err := keypad.Lookup(s)
		if err != nil {
			return nil, err
		}
		tone, err := dsp.Samples(pair.Low, pair.High, e.toneLen, float64(e.opts.SampleRate))
		if err != nil {
			return nil, fmt.Errorf("symbol %q: %w", s, err)
		}
		if i > 0 {
			out = append(out, make([]float64, e.gapLen)...)
		}
		out = append(out, tone...)
	}
	return out, nil
}

// WriteWAV parses text as keypad symbols and writes them to w as 16-bit mono
// PCM WAV.
func (e *Encoder) WriteWAV(w io.WriteSeeker, text string) error {
	symbols, err := keypad.Parse(text)
	if err != nil {
		return err
	}
	samples, err := e.Samples(symbols)
	if err != nil {
		return err
	}
	return WriteWAV(w, samples, e.opts.SampleRate)
}

// EncodeWAV is WriteWAV into memory.
func (e *Encoder) EncodeWAV(text string) ([]byte, error) {
	ws := &memWriteSeeker{}
	if err := e.WriteWAV(ws, text); err != nil {
		return nil, err
	}
	return ws.buf, nil
}

// WriteWAV writes samples in [-1, 1] to w as 16-bit mono PCM WAV.
func WriteWAV(w io.WriteSeeker, samples []float64, sampleRate int) error {
	enc := wav.NewEncoder(w, sampleRate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = PCM16(s)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing WAV samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing WAV header: %w", err)
	}
	return nil
}

// PCM16 converts a normalized sample to a signed 16-bit value, clamping
// anything outside [-1, 1].
func PCM16(x float64) int {
	switch {
	case math.IsNaN(x):
		return 0
	case x > 1:
		x = 1
	case x < -1:
		x = -1
	}
	return int(x * 32767)
}

// memWriteSeeker is an in-memory io.WriteSeeker; the WAV encoder seeks back
// to patch chunk sizes on Close.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	end := m.pos + len(p)
	if end > len(m.buf) {
		if end > cap(m.buf) {
			grown := make([]byte, end, 2*end)
			copy(grown, m.buf)
			m.buf = grown
		} else {
			m.buf = m.buf[:end]
		}
	}
	copy(m.buf[m.pos:], p)
	m.pos = end
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = int64(m.pos) + offset
	case io.SeekEnd:
		next = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("negative position %d", next)
	}
	m.pos = int(next)
	return next, nil
}
