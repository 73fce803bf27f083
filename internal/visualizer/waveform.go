package visualizer

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/olivier-w/dualtone/internal/dsp"
)

type cell uint8

const (
	cellEmpty cell = iota
	cellAxis
	cellTrace
)

// Waveform draws the time-domain trace of a tone against a fixed ±1 scale,
// easing between key presses.
type Waveform struct {
	trace   springField
	output  string
	profile termenv.Profile
}

// NewWaveform creates a new waveform chart.
func NewWaveform(profile termenv.Profile) *Waveform {
	return &Waveform{
		trace:   newSpringField(20, 14.0, 0.8),
		profile: profile,
	}
}

func (w *Waveform) Name() string { return "waveform" }

func (w *Waveform) Update(t Tone, width, height int) {
	points := t.Waveform
	if len(points) < 2 || width < 4 || height < 1 {
		w.output = ""
		return
	}

	cols := max(width-2, 8)
	targets := make([]float64, cols)
	for c := range targets {
		targets[c] = sampleAt(points, c, cols)
	}
	trace := w.trace.follow(targets)

	grid := make([][]cell, height)
	for r := range grid {
		grid[r] = make([]cell, cols)
	}
	for c := range cols {
		grid[height/2][c] = cellAxis
	}
	prev := ampToRow(trace[0], height)
	grid[prev][0] = cellTrace
	for c := 1; c < cols; c++ {
		y := ampToRow(trace[c], height)
		connect(grid, c, prev, y)
		prev = y
	}

	var out strings.Builder
	paint := newPainter(w.profile)
	for r, row := range grid {
		if r > 0 {
			out.WriteByte('\n')
		}
		for c, v := range row {
			switch v {
			case cellTrace:
				hue := 190 + 15*math.Sin(float64(c)*0.22)
				paint.set(&out, colorful.Hsv(hue, 0.7, 0.95))
				out.WriteRune('●')
			case cellAxis:
				paint.set(&out, colorful.Hsv(216, 0.2, 0.2+0.1*float64(c)/float64(cols)))
				out.WriteRune('·')
			default:
				out.WriteByte(' ')
			}
		}
		paint.reset(&out)
	}
	w.output = out.String()
}

func (w *Waveform) View() string {
	return w.output
}

// sampleAt picks the point under the centre of column c.
func sampleAt(points []dsp.Point, c, cols int) float64 {
	i := int((float64(c) + 0.5) * float64(len(points)) / float64(cols))
	return points[min(i, len(points)-1)].Y
}

// ampToRow maps an amplitude in [-1, 1] to a row, +1 at the top.
func ampToRow(amp float64, height int) int {
	if height <= 1 {
		return 0
	}
	frac := clamp01((1 - amp) / 2)
	return min(int(math.Round(frac*float64(height-1))), height-1)
}

// connect marks the rows the trace crosses going from row from in column c-1
// to row to in column c. The first half of a jump stays in column c-1.
func connect(grid [][]cell, c, from, to int) {
	if from == to {
		grid[to][c] = cellTrace
		return
	}
	step := 1
	if to < from {
		step = -1
	}
	half := (to - from) / 2
	for r := from + step; ; r += step {
		col := c
		if (r-from)*step <= half*step {
			col = c - 1
		}
		grid[r][col] = cellTrace
		if r == to {
			break
		}
	}
	grid[to][c] = cellTrace
}
