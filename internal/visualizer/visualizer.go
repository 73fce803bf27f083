// Package visualizer renders tone waveforms and spectra as terminal text.
package visualizer

import (
	"github.com/muesli/termenv"

	"github.com/olivier-w/dualtone/internal/dsp"
)

// Tone is the data a chart draws.
type Tone struct {
	Pair     dsp.Pair
	Waveform []dsp.Point
	Spectrum []dsp.Bin
}

// Chart renders one view of a tone. Update may be called repeatedly with the
// same tone; charts animate toward it.
type Chart interface {
	Name() string
	Update(t Tone, width, height int)
	View() string
}

// SpectrumModes returns the available spectrum charts.
func SpectrumModes(profile termenv.Profile) []Chart {
	return []Chart{
		NewSpectrum(profile),
		NewBraille(profile),
	}
}
