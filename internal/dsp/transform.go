package dsp

import (
	"fmt"
	"math"
	"sync"
)

// Plan holds the bit-reversal permutation and twiddle factors for one
// transform size. A Plan is read-only after NewPlan returns and may be shared
// between goroutines; the buffers passed to Transform may not.
type Plan struct {
	n   int
	rev []int
	cos []float64
	sin []float64
}

var plans sync.Map // int -> *Plan

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NewPlan precomputes the tables for an n-point transform.
func NewPlan(n int) (*Plan, error) {
	if !IsPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: %d is not a power of two", ErrInvalidTransformLength, n)
	}

	p := &Plan{
		n:   n,
		rev: make([]int, n),
		cos: make([]float64, n/2),
		sin: make([]float64, n/2),
	}

	j := 0
	for i := 1; i < n; i++ {
		bit := n >> 1
		for j&bit != 0 {
			j ^= bit
			bit >>= 1
		}
		j ^= bit
		p.rev[i] = j
	}

	for k := range n / 2 {
		angle := -2 * math.Pi * float64(k) / float64(n)
		p.cos[k] = math.Cos(angle)
		p.sin[k] = math.Sin(angle)
	}
	return p, nil
}

func planFor(n int) (*Plan, error) {
	if p, ok := plans.Load(n); ok {
		return p.(*Plan), nil
	}
	p, err := NewPlan(n)
	if err != nil {
		return nil, err
	}
	actual, _ := plans.LoadOrStore(n, p)
	return actual.(*Plan), nil
}

// Size returns the number of points the plan transforms.
func (p *Plan) Size() int { return p.n }

// Transform replaces real and imag with their discrete Fourier transform.
// Both slices must have exactly Size() elements.
func (p *Plan) Transform(real, imag []float64) error {
	if len(real) != p.n || len(imag) != p.n {
		return fmt.Errorf("%w: plan size %d, got real=%d imag=%d",
			ErrInvalidTransformLength, p.n, len(real), len(imag))
	}
	p.run(real, imag)
	return nil
}

// run performs an in-place radix-2 decimation-in-time transform. Lengths are
// assumed to match the plan.
func (p *Plan) run(real, imag []float64) {
	n := p.n
	if n <= 1 {
		return
	}

	// Bit-reversal permutation
	for i, j := range p.rev {
		if i < j {
			real[i], real[j] = real[j], real[i]
			imag[i], imag[j] = imag[j], imag[i]
		}
	}

	// Butterfly operations
	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := n / size
		for i := 0; i < n; i += size {
			for k := 0; k < half; k++ {
				wr := p.cos[k*step]
				wi := p.sin[k*step]
				a := i + k
				b := a + half
				tr := wr*real[b] - wi*imag[b]
				ti := wr*imag[b] + wi*real[b]
				real[b] = real[a] - tr
				imag[b] = imag[a] - ti
				real[a] += tr
				imag[a] += ti
			}
		}
	}
}

// Transform replaces real and imag with their discrete Fourier transform.
// The slices must have equal power-of-two length; the check happens here once
// and not inside the butterfly loops.
func Transform(real, imag []float64) error {
	if len(real) != len(imag) {
		return fmt.Errorf("%w: real=%d imag=%d", ErrInvalidTransformLength, len(real), len(imag))
	}
	p, err := planFor(len(real))
	if err != nil {
		return err
	}
	p.run(real, imag)
	return nil
}
