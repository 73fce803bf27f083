package dsp

import (
	"errors"
	"math"
	"testing"
)

func TestRawLength(t *testing.T) {
	tests := []struct {
		duration float64
		rate     float64
		want     int
	}{
		{duration: 0.3, rate: SampleRate, want: 13230},
		{duration: 0.1, rate: SampleRate, want: 4410},
		{duration: 1, rate: 8000, want: 8000},
		{duration: 0.00001, rate: SampleRate, want: 0},
		{duration: 0.0125, rate: 8000, want: 100},
	}

	for _, tt := range tests {
		buf, err := Raw(697, 1209, tt.duration, tt.rate)
		if err != nil {
			t.Fatalf("Raw(duration=%v, rate=%v) error = %v", tt.duration, tt.rate, err)
		}
		if len(buf) != tt.want {
			t.Fatalf("len(Raw(duration=%v, rate=%v)) = %d, want %d", tt.duration, tt.rate, len(buf), tt.want)
		}
	}
}

func TestWaveformMatchesRaw(t *testing.T) {
	raw, err := Raw(852, 1477, DefaultDuration, SampleRate)
	if err != nil {
		t.Fatalf("Raw() error = %v", err)
	}
	points, err := Waveform(852, 1477, DefaultDuration, SampleRate)
	if err != nil {
		t.Fatalf("Waveform() error = %v", err)
	}
	if len(points) != len(raw) {
		t.Fatalf("len(Waveform()) = %d, len(Raw()) = %d", len(points), len(raw))
	}
	for i := range raw {
		if points[i].Y != raw[i] {
			t.Fatalf("sample %d: Waveform y = %v, Raw = %v", i, points[i].Y, raw[i])
		}
		if want := float64(i) / SampleRate; points[i].T != want {
			t.Fatalf("sample %d: t = %v, want %v", i, points[i].T, want)
		}
	}
}

func TestSamplesMatchesRaw(t *testing.T) {
	raw, err := Raw(941, 1336, 0.05, SampleRate)
	if err != nil {
		t.Fatalf("Raw() error = %v", err)
	}
	samples, err := Samples(941, 1336, len(raw), SampleRate)
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}
	for i := range raw {
		if samples[i] != raw[i] {
			t.Fatalf("sample %d: Samples = %v, Raw = %v", i, samples[i], raw[i])
		}
	}
}

func TestRawIsDeterministicAndBounded(t *testing.T) {
	a, err := Raw(770, 1633, DefaultDuration, SampleRate)
	if err != nil {
		t.Fatalf("Raw() error = %v", err)
	}
	b, _ := Raw(770, 1633, DefaultDuration, SampleRate)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between calls: %v vs %v", i, a[i], b[i])
		}
		if math.Abs(a[i]) > 2*Amplitude {
			t.Fatalf("sample %d = %v exceeds peak %v", i, a[i], 2*Amplitude)
		}
	}
	if a[0] != 0 {
		t.Fatalf("first sample = %v, want 0", a[0])
	}
}

func TestRawSymmetricInFrequencies(t *testing.T) {
	a, _ := Raw(697, 1209, 0.01, SampleRate)
	b, _ := Raw(1209, 697, 0.01, SampleRate)
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			t.Fatalf("sample %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGeneratorRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		low      float64
		high     float64
		duration float64
		rate     float64
		want     error
	}{
		{name: "zero duration", low: 697, high: 1209, duration: 0, rate: SampleRate, want: ErrInvalidDuration},
		{name: "negative duration", low: 697, high: 1209, duration: -1, rate: SampleRate, want: ErrInvalidDuration},
		{name: "nan duration", low: 697, high: 1209, duration: math.NaN(), rate: SampleRate, want: ErrInvalidDuration},
		{name: "zero rate", low: 697, high: 1209, duration: 0.3, rate: 0, want: ErrInvalidSampleRate},
		{name: "zero low", low: 0, high: 1209, duration: 0.3, rate: SampleRate, want: ErrInvalidFrequency},
		{name: "negative high", low: 697, high: -5, duration: 0.3, rate: SampleRate, want: ErrInvalidFrequency},
		{name: "at nyquist", low: 697, high: SampleRate / 2, duration: 0.3, rate: SampleRate, want: ErrInvalidFrequency},
		{name: "above nyquist", low: 30000, high: 1209, duration: 0.3, rate: SampleRate, want: ErrInvalidFrequency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Raw(tt.low, tt.high, tt.duration, tt.rate)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Raw() error = %v, want %v", err, tt.want)
			}
			if buf != nil {
				t.Fatalf("Raw() returned %d samples alongside an error", len(buf))
			}
			points, err := Waveform(tt.low, tt.high, tt.duration, tt.rate)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Waveform() error = %v, want %v", err, tt.want)
			}
			if points != nil {
				t.Fatalf("Waveform() returned %d points alongside an error", len(points))
			}
		})
	}
}

func TestSamplesRejectsEmptyCount(t *testing.T) {
	if _, err := Samples(697, 1209, 0, SampleRate); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("Samples(n=0) error = %v, want %v", err, ErrInvalidDuration)
	}
}

func TestVisibleKeepsLowTonePeriods(t *testing.T) {
	points, err := Waveform(697, 1209, DefaultDuration, SampleRate)
	if err != nil {
		t.Fatalf("Waveform() error = %v", err)
	}

	got := Visible(points, 697, 3, SampleRate)
	if len(got) != 190 {
		t.Fatalf("len(Visible(3 periods)) = %d, want 190", len(got))
	}
	if len(Visible(points, 697, 0, SampleRate)) != len(points) {
		t.Fatal("Visible with zero periods should return every point")
	}
	if len(Visible(points, 1, 10, SampleRate)) != len(points) {
		t.Fatal("Visible longer than the buffer should return every point")
	}
}
