// Package dsp synthesizes dual-tone signals and turns them into displayable spectra.
//
// Every function here is a pure computation over caller-owned buffers: Raw and
// Waveform build a two-tone signal, Transform runs an in-place radix-2 Fourier
// transform, and Extract maps the transform output onto normalized magnitude bins.
package dsp

const (
	// SampleRate is the process-wide synthesis rate in Hz.
	SampleRate = 44100

	// DefaultDuration is the length of one key-press tone in seconds.
	DefaultDuration = 0.3

	// TransformSize is the number of points used for spectral analysis.
	TransformSize = 4096

	// MaxDisplayFreq caps the spectrum handed to charts, in Hz.
	MaxDisplayFreq = 2000

	// Amplitude scales the sum of the two sinusoids. With 0.5 the peak stays
	// within [-1, 1], which maps straight onto 16-bit PCM full scale.
	Amplitude = 0.5
)

// Pair holds the low and high frequencies of a dual tone, in Hz.
type Pair struct {
	Low  float64 `json:"low_hz"`
	High float64 `json:"high_hz"`
}

// Point is a single time-labelled sample, used for plotting.
type Point struct {
	T float64 `json:"t"`
	Y float64 `json:"y"`
}

// Bin is one entry of a magnitude spectrum.
type Bin struct {
	FrequencyHz int     `json:"frequency_hz"`
	Magnitude   float64 `json:"magnitude"`
}
