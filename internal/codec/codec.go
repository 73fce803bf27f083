// Package codec turns keypad symbol sequences into dual-tone audio files and
// recovers symbol sequences from recorded audio.
package codec

import (
	"errors"
	"time"

	"github.com/olivier-w/dualtone/internal/media"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrEmptyAudio        = errors.New("audio contains no samples")
	ErrNoSymbols         = errors.New("no symbols to encode")
)

// Clip is decoded audio reduced to its first channel.
type Clip struct {
	Samples    []float64 // normalized to [-1, 1]
	SampleRate int
	Channels   int // channel count of the source
	Format     media.Format
	Title      string
}

// Duration returns the playing time of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}

// FileName returns the download name for an encoded sequence: "dtmf_" plus the
// first ten symbols.
func FileName(symbols []rune) string {
	if len(symbols) > 10 {
		symbols = symbols[:10]
	}
	return "dtmf_" + string(symbols) + ".wav"
}
