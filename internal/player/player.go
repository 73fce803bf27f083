// Package player plays synthesized tone buffers on the default audio device.
package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/olivier-w/dualtone/internal/codec"
)

const (
	channelCount   = 1
	bytesPerSample = 2 // 16-bit

	// fadeSamples is the length of the linear ramp applied to each end of a
	// buffer so key presses do not click.
	fadeSamples = 220
)

var ErrClosed = errors.New("player closed")

// voice is one playing stream. *oto.Player satisfies it.
type voice interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(float64)
}

// device creates voices. The oto implementation owns the process-wide audio
// context.
type device interface {
	newVoice(r io.Reader) voice
	suspend() error
}

type otoDevice struct {
	ctx *oto.Context
}

func (d otoDevice) newVoice(r io.Reader) voice { return d.ctx.NewPlayer(r) }
func (d otoDevice) suspend() error             { return d.ctx.Suspend() }

// Player plays one buffer at a time; starting a new buffer cuts off the
// previous one.
type Player struct {
	dev        device
	sampleRate int
	current    voice
	volume     float64
	mu         sync.Mutex
	closed     bool
}

// New opens the audio device at sampleRate. The underlying oto context can be
// created only once per process, so a program should hold a single Player and
// pass it to whoever needs playback.
func New(sampleRate int, volume float64) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready
	return newPlayer(otoDevice{ctx: ctx}, sampleRate, volume), nil
}

func newPlayer(dev device, sampleRate int, volume float64) *Player {
	return &Player{
		dev:        dev,
		sampleRate: sampleRate,
		volume:     clampVolume(volume),
	}
}

// SampleRate returns the device rate buffers must be synthesized at.
func (p *Player) SampleRate() int { return p.sampleRate }

// Play starts samples (normalized to [-1, 1]) from the beginning.
func (p *Player) Play(samples []float64) error {
	pcm := encodePCM(samples)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if p.current != nil {
		p.current.Pause()
	}
	p.current = p.dev.newVoice(bytes.NewReader(pcm))
	p.current.SetVolume(p.volume)
	p.current.Play()
	return nil
}

// Stop cuts off the current buffer, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.Pause()
		p.current = nil
	}
}

// Playing reports whether a buffer is still being played.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil && p.current.IsPlaying()
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = clampVolume(v)
	if p.current != nil {
		p.current.SetVolume(p.volume)
	}
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v) // SetVolume handles clamping
}

// Close stops playback and suspends the audio device.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	if p.current != nil {
		p.current.Pause()
		p.current = nil
	}
	return p.dev.suspend()
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// encodePCM converts samples to 16-bit little-endian mono PCM with a short
// fade at each end.
func encodePCM(samples []float64) []byte {
	n := len(samples)
	fade := min(fadeSamples, n/2)
	out := make([]byte, n*bytesPerSample)
	for i, s := range samples {
		gain := 1.0
		switch {
		case i < fade:
			gain = float64(i) / float64(fade)
		case i >= n-fade:
			gain = float64(n-1-i) / float64(fade)
		}
		binary.LittleEndian.PutUint16(out[i*bytesPerSample:], uint16(int16(codec.PCM16(s*gain))))
	}
	return out
}
