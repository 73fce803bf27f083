package visualizer

import "github.com/olivier-w/dualtone/internal/dsp"

// Build synthesizes pair for duration seconds and returns the chart data
// alongside the raw samples for playback. The waveform is trimmed to the
// first periods cycles of the low tone; the spectrum covers the whole buffer
// framed to dsp.TransformSize and stops at maxFreq.
func Build(pair dsp.Pair, duration float64, periods int, maxFreq float64) (Tone, []float64, error) {
	points, err := dsp.Waveform(pair.Low, pair.High, duration, dsp.SampleRate)
	if err != nil {
		return Tone{}, nil, err
	}
	raw, err := dsp.Raw(pair.Low, pair.High, duration, dsp.SampleRate)
	if err != nil {
		return Tone{}, nil, err
	}
	bins, err := dsp.Analyze(raw, dsp.SampleRate, dsp.TransformSize, maxFreq)
	if err != nil {
		return Tone{}, nil, err
	}
	return Tone{
		Pair:     pair,
		Waveform: dsp.Visible(points, pair.Low, periods, dsp.SampleRate),
		Spectrum: bins,
	}, raw, nil
}

// BandPeaks returns the frequencies of the strongest bin below and above the
// midpoint between the two tones.
func (t Tone) BandPeaks() (low, high int, ok bool) {
	mid := (t.Pair.Low + t.Pair.High) / 2
	lo, okLo := dsp.PeakIn(t.Spectrum, 0, mid)
	hi, okHi := dsp.PeakIn(t.Spectrum, mid, dsp.SampleRate)
	if !okLo || !okHi {
		return 0, 0, false
	}
	return t.Spectrum[lo].FrequencyHz, t.Spectrum[hi].FrequencyHz, true
}
