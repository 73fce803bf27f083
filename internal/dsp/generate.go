package dsp

import (
	"fmt"
	"math"
)

// Len returns the number of samples covering duration seconds at rate Hz.
func Len(duration, rate float64) int {
	return int(math.Round(rate * duration))
}

// Validate checks the synthesis preconditions shared by Raw, Waveform and Samples.
func Validate(low, high, duration, rate float64) error {
	if !(duration > 0) || math.IsInf(duration, 0) {
		return fmt.Errorf("%w: %v s", ErrInvalidDuration, duration)
	}
	return validateTone(low, high, rate)
}

func validateTone(low, high, rate float64) error {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return fmt.Errorf("%w: %v Hz", ErrInvalidSampleRate, rate)
	}
	nyquist := rate / 2
	for _, f := range [2]float64{low, high} {
		if !(f > 0) || f >= nyquist {
			return fmt.Errorf("%w: %v Hz (must be in (0, %v))", ErrInvalidFrequency, f, nyquist)
		}
	}
	return nil
}

// synthesize is the single sample formula behind every generator variant.
func synthesize(low, high float64, n int, rate float64, emit func(i int, t, y float64)) {
	wl := 2 * math.Pi * low
	wh := 2 * math.Pi * high
	for i := range n {
		t := float64(i) / rate
		emit(i, t, Amplitude*(math.Sin(wl*t)+math.Sin(wh*t)))
	}
}

// Raw returns round(rate*duration) samples of the dual tone low+high.
func Raw(low, high, duration, rate float64) ([]float64, error) {
	if err := Validate(low, high, duration, rate); err != nil {
		return nil, err
	}
	out := make([]float64, Len(duration, rate))
	synthesize(low, high, len(out), rate, func(i int, _, y float64) {
		out[i] = y
	})
	return out, nil
}

// Waveform returns the same samples as Raw, labelled with their time in seconds.
func Waveform(low, high, duration, rate float64) ([]Point, error) {
	if err := Validate(low, high, duration, rate); err != nil {
		return nil, err
	}
	out := make([]Point, Len(duration, rate))
	synthesize(low, high, len(out), rate, func(i int, t, y float64) {
		out[i] = Point{T: t, Y: y}
	})
	return out, nil
}

// Samples is Raw with an explicit sample count instead of a duration.
func Samples(low, high float64, n int, rate float64) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d samples", ErrInvalidDuration, n)
	}
	if err := validateTone(low, high, rate); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	synthesize(low, high, n, rate, func(i int, _, y float64) {
		out[i] = y
	})
	return out, nil
}

// Visible trims points to the first periods cycles of the low tone. A
// non-positive periods or a low frequency of zero returns points unchanged.
// The result shares its backing array with points.
func Visible(points []Point, low float64, periods int, rate float64) []Point {
	if periods <= 0 || !(low > 0) {
		return points
	}
	n := int(math.Round(rate * float64(periods) / low))
	if n >= len(points) {
		return points
	}
	return points[:n]
}
