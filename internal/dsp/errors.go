package dsp

import "errors"

var (
	// ErrInvalidDuration is returned for a duration that is not positive.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidFrequency is returned for a frequency outside (0, Nyquist).
	ErrInvalidFrequency = errors.New("invalid frequency")

	// ErrInvalidSampleRate is returned for a sample rate that is not positive.
	ErrInvalidSampleRate = errors.New("invalid sample rate")

	// ErrInvalidTransformLength is returned when transform buffers differ in
	// length or their length is not a power of two.
	ErrInvalidTransformLength = errors.New("invalid transform length")
)
