package dsp

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func sine(freq float64, n int, rate float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
	}
	return out
}

func TestAnalyzeDualTonePeaks(t *testing.T) {
	raw, err := Raw(697, 1209, DefaultDuration, SampleRate)
	if err != nil {
		t.Fatalf("Raw() error = %v", err)
	}
	if len(raw) != 13230 {
		t.Fatalf("len(Raw()) = %d, want 13230", len(raw))
	}

	bins, err := Analyze(raw, SampleRate, TransformSize, MaxDisplayFreq)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if want := int(math.Floor(MaxDisplayFreq / BinHz(SampleRate, TransformSize))); len(bins) != want {
		t.Fatalf("len(bins) = %d, want %d", len(bins), want)
	}

	low, ok := PeakIn(bins, 600, 800)
	if !ok || low < 64 || low > 66 {
		t.Fatalf("low peak bin = %d (ok=%v), want 65±1", low, ok)
	}
	high, ok := PeakIn(bins, 1100, 1300)
	if !ok || high < 111 || high > 113 {
		t.Fatalf("high peak bin = %d (ok=%v), want 112±1", high, ok)
	}

	global := Peak(bins)
	if global != low && global != high {
		t.Fatalf("global peak bin = %d, want %d or %d", global, low, high)
	}
	if bins[global].Magnitude != 1 {
		t.Fatalf("global peak magnitude = %v, want 1", bins[global].Magnitude)
	}
}

func TestAnalyzePureSinePeak(t *testing.T) {
	binHz := BinHz(SampleRate, TransformSize)
	for _, f := range []float64{440, 697, 1000, 1633, 1990} {
		bins, err := Analyze(sine(f, TransformSize, SampleRate), SampleRate, TransformSize, MaxDisplayFreq)
		if err != nil {
			t.Fatalf("Analyze(%v Hz) error = %v", f, err)
		}
		got := Peak(bins)
		if math.Abs(float64(got)-f/binHz) > 1 {
			t.Fatalf("peak for %v Hz at bin %d (%d Hz), want within one bin of %.2f",
				f, got, bins[got].FrequencyHz, f/binHz)
		}
	}
}

func TestAnalyzeSilence(t *testing.T) {
	bins, err := Analyze(make([]float64, 1000), SampleRate, TransformSize, MaxDisplayFreq)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(bins) == 0 {
		t.Fatal("Analyze() returned no bins")
	}
	for i, b := range bins {
		if b.Magnitude != 0 || math.IsNaN(b.Magnitude) {
			t.Fatalf("bin %d magnitude = %v, want exactly 0", i, b.Magnitude)
		}
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	raw, _ := Raw(852, 1336, DefaultDuration, SampleRate)
	re, im := Frame(raw, TransformSize)
	if err := Transform(re, im); err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	reCopy := append([]float64(nil), re...)
	imCopy := append([]float64(nil), im...)

	first, err := Extract(re, im, SampleRate, TransformSize, MaxDisplayFreq)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	second, err := Extract(re, im, SampleRate, TransformSize, MaxDisplayFreq)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated Extract() results differ")
	}
	if !reflect.DeepEqual(re, reCopy) || !reflect.DeepEqual(im, imCopy) {
		t.Fatal("Extract() modified its inputs")
	}
}

func TestExtractClampsToNyquist(t *testing.T) {
	re, im := Frame(sine(1000, TransformSize, SampleRate), TransformSize)
	if err := Transform(re, im); err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	for _, maxFreq := range []float64{SampleRate / 2, SampleRate, math.Inf(1)} {
		bins, err := Extract(re, im, SampleRate, TransformSize, maxFreq)
		if err != nil {
			t.Fatalf("Extract(maxFreq=%v) error = %v", maxFreq, err)
		}
		if len(bins) != TransformSize/2 {
			t.Fatalf("Extract(maxFreq=%v) returned %d bins, want %d", maxFreq, len(bins), TransformSize/2)
		}
		if last := bins[len(bins)-1].FrequencyHz; float64(last) >= SampleRate/2 {
			t.Fatalf("last bin at %d Hz reaches Nyquist", last)
		}
	}
}

func TestExtractFrequencyLabels(t *testing.T) {
	re, im := Frame(nil, 8)
	bins, err := Extract(re, im, 8000, 8, 4000)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []int{0, 1000, 2000, 3000}
	if len(bins) != len(want) {
		t.Fatalf("len(bins) = %d, want %d", len(bins), len(want))
	}
	for i, b := range bins {
		if b.FrequencyHz != want[i] {
			t.Fatalf("bin %d frequency = %d, want %d", i, b.FrequencyHz, want[i])
		}
	}

	empty, err := Extract(re, im, 8000, 8, 500)
	if err != nil {
		t.Fatalf("Extract(maxFreq below one bin) error = %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("Extract(maxFreq below one bin) returned %d bins", len(empty))
	}
}

func TestExtractRejectsInvalidInput(t *testing.T) {
	re, im := Frame(nil, 16)
	tests := []struct {
		name    string
		re, im  []float64
		rate    float64
		size    int
		maxFreq float64
		want    error
	}{
		{name: "size not power of two", re: re[:12], im: im[:12], rate: 8000, size: 12, maxFreq: 1000, want: ErrInvalidTransformLength},
		{name: "buffer shorter than size", re: re[:8], im: im, rate: 8000, size: 16, maxFreq: 1000, want: ErrInvalidTransformLength},
		{name: "zero rate", re: re, im: im, rate: 0, size: 16, maxFreq: 1000, want: ErrInvalidSampleRate},
		{name: "negative max frequency", re: re, im: im, rate: 8000, size: 16, maxFreq: -1, want: ErrInvalidFrequency},
		{name: "nan max frequency", re: re, im: im, rate: 8000, size: 16, maxFreq: math.NaN(), want: ErrInvalidFrequency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bins, err := Extract(tt.re, tt.im, tt.rate, tt.size, tt.maxFreq)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Extract() error = %v, want %v", err, tt.want)
			}
			if bins != nil {
				t.Fatalf("Extract() returned %d bins alongside an error", len(bins))
			}
		})
	}
}

func TestFramePadsAndTruncates(t *testing.T) {
	re, im := Frame([]float64{1, 2, 3}, 4)
	if !reflect.DeepEqual(re, []float64{1, 2, 3, 0}) {
		t.Fatalf("padded frame = %v", re)
	}
	if !reflect.DeepEqual(im, []float64{0, 0, 0, 0}) {
		t.Fatalf("imag = %v", im)
	}

	src := []float64{1, 2, 3, 4, 5, 6}
	re, _ = Frame(src, 4)
	if !reflect.DeepEqual(re, []float64{1, 2, 3, 4}) {
		t.Fatalf("truncated frame = %v", re)
	}
	re[0] = 99
	if src[0] != 1 {
		t.Fatal("Frame() aliases its input")
	}
}

func TestPeakTiesPreferLowerBin(t *testing.T) {
	bins := []Bin{
		{FrequencyHz: 0, Magnitude: 0.2},
		{FrequencyHz: 10, Magnitude: 1},
		{FrequencyHz: 20, Magnitude: 1},
		{FrequencyHz: 30, Magnitude: 0.5},
	}
	if got := Peak(bins); got != 1 {
		t.Fatalf("Peak() = %d, want 1", got)
	}
	if got, ok := PeakIn(bins, 15, 40); !ok || got != 2 {
		t.Fatalf("PeakIn(15, 40) = %d, %v, want 2, true", got, ok)
	}
	if _, ok := PeakIn(bins, 100, 200); ok {
		t.Fatal("PeakIn() found a peak outside every bin")
	}
	if got := Peak(nil); got != -1 {
		t.Fatalf("Peak(nil) = %d, want -1", got)
	}
}
