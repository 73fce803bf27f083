// Package keypad maps the 16 DTMF symbols to their row/column frequency
// pairs and back.
package keypad

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/olivier-w/dualtone/internal/dsp"
)

var ErrUnknownSymbol = errors.New("unknown keypad symbol")

// Row and column tones in Hz.
var (
	Rows = [4]float64{697, 770, 852, 941}
	Cols = [4]float64{1209, 1336, 1477, 1633}
)

var layout = [4]string{
	"123A",
	"456B",
	"789C",
	"*0#D",
}

// Key is one button of the keypad.
type Key struct {
	Symbol rune
	Row    int
	Col    int
}

// Pair returns the tone pair the key produces.
func (k Key) Pair() dsp.Pair {
	return dsp.Pair{Low: Rows[k.Row], High: Cols[k.Col]}
}

func (k Key) String() string { return string(k.Symbol) }

// Keys returns every key in row-major layout order.
func Keys() []Key {
	keys := make([]Key, 0, 16)
	for r, row := range layout {
		for c, s := range row {
			keys = append(keys, Key{Symbol: s, Row: r, Col: c})
		}
	}
	return keys
}

// Find returns the key for symbol. Letters are matched case-insensitively.
func Find(symbol rune) (Key, error) {
	symbol = unicode.ToUpper(symbol)
	for r, row := range layout {
		if c := strings.IndexRune(row, symbol); c >= 0 {
			return Key{Symbol: symbol, Row: r, Col: c}, nil
		}
	}
	return Key{}, fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
}

// Lookup returns the tone pair for symbol.
func Lookup(symbol rune) (dsp.Pair, error) {
	k, err := Find(symbol)
	if err != nil {
		return dsp.Pair{}, err
	}
	return k.Pair(), nil
}

// At returns the symbol at row r, column c.
func At(r, c int) (rune, bool) {
	if r < 0 || r >= len(layout) || c < 0 || c >= len(Cols) {
		return 0, false
	}
	return rune(layout[r][c]), true
}

// NearestRow returns the row whose tone is closest to freq, if it lies within
// tolerance Hz.
func NearestRow(freq, tolerance float64) (int, bool) {
	return nearest(Rows, freq, tolerance)
}

// NearestCol is NearestRow for column tones.
func NearestCol(freq, tolerance float64) (int, bool) {
	return nearest(Cols, freq, tolerance)
}

func nearest(tones [4]float64, freq, tolerance float64) (int, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, f := range tones {
		if d := math.Abs(freq - f); d < bestDist {
			best, bestDist = i, d
		}
	}
	if bestDist > tolerance {
		return -1, false
	}
	return best, true
}

// Symbol maps a detected low/high pair back to a keypad symbol.
func Symbol(low, high, tolerance float64) (rune, bool) {
	r, ok := NearestRow(low, tolerance)
	if !ok {
		return 0, false
	}
	c, ok := NearestCol(high, tolerance)
	if !ok {
		return 0, false
	}
	return At(r, c)
}

// Parse converts text into keypad symbols, upper-casing letters and skipping
// whitespace. Any other character fails the whole parse.
func Parse(text string) ([]rune, error) {
	var out []rune
	for i, ch := range text {
		if unicode.IsSpace(ch) {
			continue
		}
		k, err := Find(ch)
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", i, err)
		}
		out = append(out, k.Symbol)
	}
	return out, nil
}

// Band returns the frequency span that covers every row tone and every
// column tone, widened by margin Hz on each side.
func Band(margin float64) (rowLo, rowHi, colLo, colHi float64) {
	return Rows[0] - margin, Rows[3] + margin, Cols[0] - margin, Cols[3] + margin
}
