package graph

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/filter/biquad"
	"github.com/cwbudde/algo-ambient/dsp/filter/design"
)

// Lowpass is a resonant two-pole lowpass.
// Coefficients are recomputed once per quantum from the parameter values.
type Lowpass struct {
	node

	// Frequency is the cutoff in Hz.
	Frequency *Param
	// Q is the resonance.
	Q *Param

	section *biquad.Section
	scratch []float64
}

// NewLowpass creates a lowpass filter.
func NewLowpass(ctx *Context, cutoffHz, q float64) (*Lowpass, error) {
	if cutoffHz <= 0 || math.IsNaN(cutoffHz) {
		return nil, fmt.Errorf("lowpass cutoff must be > 0: %f", cutoffHz)
	}

	if q <= 0 || math.IsNaN(q) {
		return nil, fmt.Errorf("lowpass q must be > 0: %f", q)
	}

	f := &Lowpass{
		Frequency: newParam(ctx, cutoffHz, 10, ctx.sampleRate*0.49),
		Q:         newParam(ctx, q, 0.1, 30),
	}
	f.init(ctx, f)
	f.scratch = make([]float64, ctx.quantum)
	f.section = biquad.NewSection(design.Lowpass(f.Frequency.value, f.Q.value, ctx.sampleRate))

	return f, nil
}

func (f *Lowpass) process(in, out []float64) {
	f.scratch = core.EnsureLen(f.scratch, len(in))

	f.Q.fill(f.scratch)
	q := f.scratch[len(f.scratch)-1]
	f.Frequency.fill(f.scratch)
	cutoff := f.scratch[len(f.scratch)-1]

	f.section.SetCoefficients(design.Lowpass(cutoff, q, f.ctx.sampleRate))

	copy(out, in)
	f.section.ProcessBlock(out)
}
