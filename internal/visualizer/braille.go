package visualizer

import (
	"strings"

	"github.com/muesli/termenv"
)

// brailleBit maps a dot at (column, row) inside one cell to its bit in the
// U+2800 block. Rows run top to bottom.
var brailleBit = [2][4]uint8{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// Braille draws the spectrum as a filled area of braille dots, two dot
// columns and four dot rows per cell, colored by the loudest dot column.
type Braille struct {
	output  string
	profile termenv.Profile
}

func NewBraille(profile termenv.Profile) *Braille {
	return &Braille{profile: profile}
}

func (b *Braille) Name() string { return "braille" }

func (b *Braille) Update(t Tone, width, height int) {
	if len(t.Spectrum) == 0 || width < 4 {
		b.output = ""
		return
	}
	height = max(height, 1)
	cells := width - 2
	dotRows := float64(height * 4)
	levels := columnLevels(t.Spectrum, cells*2)

	var out strings.Builder
	paint := newPainter(b.profile)
	for row := range height {
		if row > 0 {
			out.WriteByte('\n')
		}
		for cell := range cells {
			left, right := levels[2*cell], levels[2*cell+1]
			var dots rune
			for dy := range 4 {
				// dots counted from the bottom of the chart
				floor := dotRows - float64(row*4+dy) - 1
				if left*dotRows > floor {
					dots |= 1 << brailleBit[0][dy]
				}
				if right*dotRows > floor {
					dots |= 1 << brailleBit[1][dy]
				}
			}
			if dots != 0 {
				paint.set(&out, heatColor(max(left, right)))
			}
			out.WriteRune(0x2800 + dots)
		}
		paint.reset(&out)
	}
	b.output = out.String()
}

func (b *Braille) View() string {
	return b.output
}
