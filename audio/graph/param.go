package graph

import (
	"math"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

type automation int

const (
	automationHold automation = iota
	automationTarget
	automationRamp
)

const settleEpsilon = 1e-6

// Param is an audio-rate parameter with smoothing.
type Param struct {
	ctx *Context

	value    float64
	min, max float64

	mode     automation
	target   float64
	coeff    float64
	rampStep float64
	rampLeft int
}

func newParam(ctx *Context, value, min, max float64) *Param {
	p := &Param{ctx: ctx, min: min, max: max}
	p.value = p.clamp(value)

	return p
}

// Value returns the current value.
func (p *Param) Value() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	return p.value
}

// Target returns the value the parameter is moving toward.
func (p *Param) Target() float64 {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	if p.mode == automationHold {
		return p.value
	}

	return p.target
}

// SetValue jumps to v immediately, cancelling any automation.
func (p *Param) SetValue(v float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	p.value = p.clamp(v)
	p.mode = automationHold
}

// SetTargetAtTime approaches target exponentially with time constant tau
// seconds, starting now. tau <= 0 jumps immediately.
func (p *Param) SetTargetAtTime(target, tau float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	target = p.clamp(target)
	if tau <= 0 || math.IsNaN(tau) {
		p.value = target
		p.mode = automationHold

		return
	}

	p.target = target
	p.coeff = 1 - math.Exp(-1/(tau*p.ctx.sampleRate))
	p.mode = automationTarget
}

// LinearRampTo moves linearly to target over seconds, starting now.
func (p *Param) LinearRampTo(target, seconds float64) {
	p.ctx.mu.Lock()
	defer p.ctx.mu.Unlock()

	target = p.clamp(target)
	frames := int(math.Round(seconds * p.ctx.sampleRate))
	if frames <= 0 {
		p.value = target
		p.mode = automationHold

		return
	}

	p.target = target
	p.rampStep = (target - p.value) / float64(frames)
	p.rampLeft = frames
	p.mode = automationRamp
}

func (p *Param) clamp(v float64) float64 {
	if math.IsNaN(v) {
		return p.value
	}

	return core.Clamp(v, p.min, p.max)
}

// next advances one frame and returns the value for that frame.
func (p *Param) next() float64 {
	switch p.mode {
	case automationTarget:
		p.value += (p.target - p.value) * p.coeff
		if math.Abs(p.target-p.value) < settleEpsilon {
			p.value = p.target
			p.mode = automationHold
		}
	case automationRamp:
		p.value += p.rampStep
		p.rampLeft--
		if p.rampLeft <= 0 {
			p.value = p.target
			p.mode = automationHold
		}
	}

	return p.value
}

// fill writes one value per frame into dst.
func (p *Param) fill(dst []float64) {
	if p.mode == automationHold {
		core.Fill(dst, p.value)
		return
	}

	for i := range dst {
		dst[i] = p.next()
	}
}
