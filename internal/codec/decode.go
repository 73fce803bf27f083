package codec

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mjibson/go-dsp/window"

	"github.com/olivier-w/dualtone/internal/dsp"
	"github.com/olivier-w/dualtone/internal/keypad"
)

// DecodeOptions tunes the sliding-window detector.
type DecodeOptions struct {
	Window        time.Duration // analysis window length
	Hop           float64       // window advance as a fraction of Window
	TransformSize int           // power of two; longer windows are truncated
	SilenceRMS    float64       // windows below this RMS count as silence
	MinPeak       float64       // minimum normalized magnitude of each tone
	ToleranceHz   float64       // max distance from a keypad tone
	MinRun        int           // consecutive windows required to emit a symbol
}

// DefaultDecodeOptions returns settings that recover sequences written with
// DefaultOptions.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		Window:        25 * time.Millisecond,
		Hop:           0.5,
		TransformSize: dsp.TransformSize,
		SilenceRMS:    0.01,
		MinPeak:       0.25,
		ToleranceHz:   25,
		MinRun:        2,
	}
}

// Validate reports the first out-of-range field.
func (o DecodeOptions) Validate() error {
	switch {
	case o.Window <= 0:
		return fmt.Errorf("%w: window %v", dsp.ErrInvalidDuration, o.Window)
	case !(o.Hop > 0) || o.Hop > 1:
		return fmt.Errorf("decode hop %v must be in (0, 1]", o.Hop)
	case !dsp.IsPowerOfTwo(o.TransformSize):
		return fmt.Errorf("%w: %d", dsp.ErrInvalidTransformLength, o.TransformSize)
	case o.SilenceRMS < 0:
		return fmt.Errorf("decode silence_rms %v must not be negative", o.SilenceRMS)
	case o.MinPeak < 0 || o.MinPeak > 1:
		return fmt.Errorf("decode min_peak %v must be in [0, 1]", o.MinPeak)
	case !(o.ToleranceHz > 0):
		return fmt.Errorf("%w: tolerance %v Hz", dsp.ErrInvalidFrequency, o.ToleranceHz)
	case o.MinRun < 1:
		return fmt.Errorf("decode min_run %d must be at least 1", o.MinRun)
	}
	return nil
}

// hopLen is the window advance as a duration.
func (o DecodeOptions) hopLen() time.Duration {
	return time.Duration(math.Round(float64(o.Window) * o.Hop))
}

// MinGap is the shortest silence that still holds one fully silent window,
// which is what separates repeated symbols.
func (o DecodeOptions) MinGap() time.Duration {
	return o.Window + o.hopLen()
}

// MinTone is the shortest tone that spans MinRun consecutive windows.
func (o DecodeOptions) MinTone() time.Duration {
	return o.Window + time.Duration(o.MinRun-1)*o.hopLen()
}

// CheckLayout reports whether sequences written with enc can be decoded
// symbol for symbol with these options.
func (o DecodeOptions) CheckLayout(enc Options) error {
	if enc.GapDuration < o.MinGap() {
		return fmt.Errorf("gap %v is shorter than %v, repeated symbols would merge",
			enc.GapDuration, o.MinGap())
	}
	if enc.ToneDuration < o.MinTone() {
		return fmt.Errorf("tone %v is shorter than %v, symbols would be dropped",
			enc.ToneDuration, o.MinTone())
	}
	return nil
}

// Detection is one emitted symbol.
type Detection struct {
	Symbol string  `json:"symbol"`
	Start  float64 `json:"start_s"`
	LowHz  int     `json:"low_hz"`
	HighHz int     `json:"high_hz"`
}

// Result is the outcome of decoding one clip.
type Result struct {
	Text       string      `json:"decoded_text"`
	Detections []Detection `json:"detections"`
	Windows    int         `json:"windows"`
}

// Found reports whether any symbol was recovered.
func (r *Result) Found() bool { return r != nil && r.Text != "" }

// Decoder recovers keypad sequences from audio.
type Decoder struct {
	opts DecodeOptions
}

// NewDecoder validates opts and returns a decoder.
func NewDecoder(opts DecodeOptions) (*Decoder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{opts: opts}, nil
}

// Options returns the decoder configuration.
func (d *Decoder) Options() DecodeOptions { return d.opts }

type verdict int

const (
	silent verdict = iota
	unclear
	tone
)

type windowResult struct {
	verdict verdict
	symbol  rune
	lowHz   int
	highHz  int
}

// Decode slides the analysis window over clip and returns the symbols found.
// A symbol is emitted once it has been seen in MinRun consecutive windows and
// differs from the previous symbol; a silent window clears the previous
// symbol so repeated keys separated by a gap are reported twice.
func (d *Decoder) Decode(ctx context.Context, clip *Clip) (*Result, error) {
	if clip == nil || len(clip.Samples) == 0 {
		return nil, ErrEmptyAudio
	}
	if clip.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d Hz", dsp.ErrInvalidSampleRate, clip.SampleRate)
	}

	rate := float64(clip.SampleRate)
	size := min(max(dsp.Len(d.opts.Window.Seconds(), rate), 1), d.opts.TransformSize)
	size = min(size, len(clip.Samples))
	hop := max(int(math.Round(float64(size)*d.opts.Hop)), 1)

	res := &Result{Detections: []Detection{}}
	if size < 2 {
		return res, nil
	}
	taper := window.Hamming(size)
	var (
		last      rune
		candidate rune
		run       int
		text      []rune
	)
	for start := 0; start+size <= len(clip.Samples); start += hop {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Windows++

		w, err := d.classify(clip.Samples[start:start+size], taper, rate)
		if err != nil {
			return nil, err
		}
		switch w.verdict {
		case silent:
			last, candidate, run = 0, 0, 0
			continue
		case unclear:
			candidate, run = 0, 0
			continue
		}

		if w.symbol == candidate {
			run++
		} else {
			candidate, run = w.symbol, 1
		}
		if run == d.opts.MinRun && w.symbol != last {
			last = w.symbol
			text = append(text, w.symbol)
			res.Detections = append(res.Detections, Detection{
				Symbol: string(w.symbol),
				Start:  float64(start-(run-1)*hop) / rate,
				LowHz:  w.lowHz,
				HighHz: w.highHz,
			})
		}
	}
	res.Text = string(text)
	return res, nil
}

// classify inspects one window and maps its two dominant tones to a symbol.
func (d *Decoder) classify(frame, taper []float64, rate float64) (windowResult, error) {
	var energy float64
	for _, s := range frame {
		energy += s * s
	}
	if math.Sqrt(energy/float64(len(frame))) < d.opts.SilenceRMS {
		return windowResult{verdict: silent}, nil
	}

	weighted := make([]float64, len(frame))
	for i, s := range frame {
		weighted[i] = s * taper[i]
	}
	bins, err := dsp.Analyze(weighted, rate, d.opts.TransformSize, rate/2)
	if err != nil {
		return windowResult{}, err
	}

	rowLo, rowHi, colLo, colHi := keypad.Band(d.opts.ToleranceHz)
	lo, okLo := dsp.PeakIn(bins, rowLo, rowHi)
	hi, okHi := dsp.PeakIn(bins, colLo, colHi)
	if !okLo || !okHi {
		return windowResult{verdict: unclear}, nil
	}
	if bins[lo].Magnitude < d.opts.MinPeak || bins[hi].Magnitude < d.opts.MinPeak {
		return windowResult{verdict: unclear}, nil
	}
	if peak := dsp.Peak(bins); peak != lo && peak != hi {
		return windowResult{verdict: unclear}, nil
	}

	lowHz, highHz := bins[lo].FrequencyHz, bins[hi].FrequencyHz
	sym, ok := keypad.Symbol(float64(lowHz), float64(highHz), d.opts.ToleranceHz)
	if !ok {
		return windowResult{verdict: unclear}, nil
	}
	return windowResult{verdict: tone, symbol: sym, lowHz: lowHz, highHz: highHz}, nil
}
