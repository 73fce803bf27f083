package visualizer

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// DetectProfile returns the color support of the current terminal, honoring
// NO_COLOR.
func DetectProfile() termenv.Profile {
	return termenv.EnvColorProfile()
}

var heatStops = []colorful.Color{
	{R: 16.0 / 255, G: 25.0 / 255, B: 70.0 / 255},
	{R: 0, G: 174.0 / 255, B: 1},
	{R: 20.0 / 255, G: 1, B: 161.0 / 255},
	{R: 1, G: 230.0 / 255, B: 92.0 / 255},
	{R: 1, G: 80.0 / 255, B: 60.0 / 255},
}

// heatColor maps t in [0, 1] onto a blue to red gradient.
func heatColor(t float64) colorful.Color {
	t = clamp01(t)
	span := float64(len(heatStops) - 1)
	i := int(t * span)
	if i >= len(heatStops)-1 {
		return heatStops[len(heatStops)-1]
	}
	return heatStops[i].BlendLab(heatStops[i+1], t*span-float64(i)).Clamped()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// painter writes foreground color changes, skipping repeats.
type painter struct {
	profile termenv.Profile
	current string
}

func newPainter(profile termenv.Profile) painter {
	return painter{profile: profile}
}

func (p *painter) set(sb *strings.Builder, c colorful.Color) {
	if p.profile == termenv.Ascii {
		return
	}
	hex := c.Clamped().Hex()
	if hex == p.current {
		return
	}
	seq := p.profile.Color(hex).Sequence(false)
	if seq == "" {
		return
	}
	sb.WriteString(termenv.CSI + seq + "m")
	p.current = hex
}

func (p *painter) reset(sb *strings.Builder) {
	if p.current == "" {
		return
	}
	sb.WriteString(termenv.CSI + termenv.ResetSeq + "m")
	p.current = ""
}
