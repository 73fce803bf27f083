package visualizer

import (
	"strings"

	"github.com/muesli/termenv"

	"github.com/olivier-w/dualtone/internal/dsp"
)

var barChars = []rune(" ▁▂▃▄▅▆▇█")

// Spectrum renders normalized magnitudes as vertical bars, one column per
// group of bins.
type Spectrum struct {
	levels  springField
	output  string
	profile termenv.Profile
}

// NewSpectrum creates a new spectrum bar chart.
func NewSpectrum(profile termenv.Profile) *Spectrum {
	return &Spectrum{
		levels:  newSpringField(20, 9.0, 0.9),
		profile: profile,
	}
}

func (s *Spectrum) Name() string { return "bars" }

func (s *Spectrum) Update(t Tone, width, height int) {
	if len(t.Spectrum) == 0 || width < 4 {
		s.output = ""
		return
	}
	height = max(height, 1)
	cols := max(width-2, 4)

	levels := s.levels.follow(columnLevels(t.Spectrum, cols))

	var out strings.Builder
	paint := newPainter(s.profile)
	for row := range height {
		if row > 0 {
			out.WriteByte('\n')
		}
		rowFromBottom := float64(height - 1 - row)
		paint.set(&out, heatColor(rowFromBottom/float64(max(height-1, 1))))
		for c := range cols {
			level := clamp01(levels[c]) * float64(height)
			charIdx := 0
			if level > rowFromBottom+1 {
				charIdx = len(barChars) - 1
			} else if level > rowFromBottom {
				charIdx = int((level - rowFromBottom) * float64(len(barChars)-1))
			}
			out.WriteRune(barChars[charIdx])
		}
		paint.reset(&out)
	}
	s.output = out.String()
}

func (s *Spectrum) View() string {
	return s.output
}

// columnLevels resamples bins onto cols columns, keeping the loudest bin
// that falls into each column so narrow peaks survive downsampling.
func columnLevels(bins []dsp.Bin, cols int) []float64 {
	out := make([]float64, cols)
	n := len(bins)
	for c := range cols {
		lo := c * n / cols
		hi := max((c+1)*n/cols, lo+1)
		for i := lo; i < hi && i < n; i++ {
			out[c] = max(out[c], bins[i].Magnitude)
		}
	}
	return out
}
