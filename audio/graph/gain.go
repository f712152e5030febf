package graph

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

// MaxGain bounds every Gain parameter.
const MaxGain = 4.0

// Gain scales the sum of its inputs.
type Gain struct {
	node

	// Gain is the linear amplitude factor.
	Gain *Param

	gainBuf []float64
}

// NewGain creates a gain node with the given initial linear gain.
func NewGain(ctx *Context, initial float64) *Gain {
	g := &Gain{Gain: newParam(ctx, initial, 0, MaxGain)}
	g.init(ctx, g)
	g.gainBuf = make([]float64, ctx.quantum)

	return g
}

func (g *Gain) process(in, out []float64) {
	if g.Gain.mode == automationHold {
		vecmath.ScaleBlock(out, in, g.Gain.value)
		return
	}

	g.gainBuf = core.EnsureLen(g.gainBuf, len(in))
	g.Gain.fill(g.gainBuf)
	vecmath.MulBlock(out, in, g.gainBuf)
}
