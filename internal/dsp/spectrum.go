package dsp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// BinHz returns the spacing between adjacent transform bins.
func BinHz(rate float64, size int) float64 {
	return rate / float64(size)
}

// Frame copies samples into a fresh real buffer of length size, zero-padding
// on the right or keeping only the first size samples, and returns it with a
// zeroed imaginary buffer of the same length.
func Frame(samples []float64, size int) (real, imag []float64) {
	real = make([]float64, size)
	imag = make([]float64, size)
	copy(real, samples)
	return real, imag
}

// Extract converts transform output into magnitudes for every bin below
// maxFreq, normalized so the largest retained magnitude is 1. Bins at or above
// the Nyquist frequency are never returned. real and imag are not modified.
func Extract(real, imag []float64, rate float64, size int, maxFreq float64) ([]Bin, error) {
	if !IsPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: %d is not a power of two", ErrInvalidTransformLength, size)
	}
	if len(real) != size || len(imag) != size {
		return nil, fmt.Errorf("%w: size %d, got real=%d imag=%d",
			ErrInvalidTransformLength, size, len(real), len(imag))
	}
	if !(rate > 0) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("%w: %v Hz", ErrInvalidSampleRate, rate)
	}
	if math.IsNaN(maxFreq) || maxFreq < 0 {
		return nil, fmt.Errorf("%w: max frequency %v Hz", ErrInvalidFrequency, maxFreq)
	}

	binHz := BinHz(rate, size)
	maxBin := size / 2
	if limit := maxFreq / binHz; limit < float64(maxBin) {
		maxBin = int(math.Floor(limit))
	}

	bins := make([]Bin, maxBin)
	if maxBin == 0 {
		return bins, nil
	}

	mags := make([]float64, maxBin)
	for i := range mags {
		mags[i] = math.Sqrt(real[i]*real[i] + imag[i]*imag[i])
	}

	peak := floats.Max(mags)
	for i, m := range mags {
		bins[i].FrequencyHz = int(math.Round(float64(i) * binHz))
		if peak == 0 {
			// silent input: leave the magnitude at zero
			continue
		}
		bins[i].Magnitude = m / peak
	}
	return bins, nil
}

// Analyze frames samples to size points, transforms them and extracts the
// normalized spectrum up to maxFreq.
func Analyze(samples []float64, rate float64, size int, maxFreq float64) ([]Bin, error) {
	p, err := planFor(size)
	if err != nil {
		return nil, err
	}
	real, imag := Frame(samples, size)
	p.run(real, imag)
	return Extract(real, imag, rate, size, maxFreq)
}

// Peak returns the index of the largest magnitude, or -1 for an empty
// spectrum. Ties resolve to the lowest index.
func Peak(bins []Bin) int {
	if len(bins) == 0 {
		return -1
	}
	mags := make([]float64, len(bins))
	for i, b := range bins {
		mags[i] = b.Magnitude
	}
	return floats.MaxIdx(mags)
}

// PeakIn returns the index of the largest magnitude among bins whose
// frequency lies in [lo, hi]. Ties resolve to the lowest index.
func PeakIn(bins []Bin, lo, hi float64) (int, bool) {
	best := -1
	for i, b := range bins {
		f := float64(b.FrequencyHz)
		if f < lo || f > hi {
			continue
		}
		if best < 0 || b.Magnitude > bins[best].Magnitude {
			best = i
		}
	}
	return best, best >= 0
}
