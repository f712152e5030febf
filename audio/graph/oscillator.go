package graph

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

// Waveform selects an oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Sawtooth
	Square
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	case Sawtooth:
		return "sawtooth"
	case Square:
		return "square"
	default:
		return fmt.Sprintf("waveform(%d)", int(w))
	}
}

// Oscillator is a periodic source with frequency and detune parameters.
// It outputs silence until Start is called.
type Oscillator struct {
	node

	// Frequency is the base frequency in Hz.
	Frequency *Param
	// Detune offsets Frequency in cents.
	Detune *Param

	wave    Waveform
	phase   float64
	running bool

	freqBuf   []float64
	detuneBuf []float64
}

// NewOscillator creates a stopped oscillator.
func NewOscillator(ctx *Context, wave Waveform, freqHz float64) (*Oscillator, error) {
	if freqHz <= 0 || math.IsNaN(freqHz) || math.IsInf(freqHz, 0) {
		return nil, fmt.Errorf("oscillator frequency must be > 0: %f", freqHz)
	}

	o := &Oscillator{
		wave:      wave,
		Frequency: newParam(ctx, freqHz, 0, ctx.sampleRate/2),
		Detune:    newParam(ctx, 0, -4800, 4800),
	}
	o.init(ctx, o)
	o.freqBuf = make([]float64, ctx.quantum)
	o.detuneBuf = make([]float64, ctx.quantum)

	return o, nil
}

// Start begins output.
func (o *Oscillator) Start() error {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()

	if o.released {
		return ErrReleased
	}

	o.running = true

	return nil
}

// Stop silences output. A stopped oscillator may be started again.
func (o *Oscillator) Stop() error {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()

	if o.released {
		return ErrReleased
	}

	o.running = false

	return nil
}

// Running reports whether the oscillator produces output.
func (o *Oscillator) Running() bool {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()

	return o.running
}

// Release implements Node.
func (o *Oscillator) Release() error {
	o.ctx.mu.Lock()
	defer o.ctx.mu.Unlock()

	o.running = false

	return o.release()
}

func (o *Oscillator) process(_, out []float64) {
	o.freqBuf = core.EnsureLen(o.freqBuf, len(out))
	o.detuneBuf = core.EnsureLen(o.detuneBuf, len(out))
	o.Frequency.fill(o.freqBuf)
	o.Detune.fill(o.detuneBuf)

	if !o.running {
		core.Zero(out)
		return
	}

	sr := o.ctx.sampleRate
	for i := range out {
		out[i] = shape(o.wave, o.phase)

		f := o.freqBuf[i] * core.CentsToRatio(o.detuneBuf[i])
		o.phase += f / sr
		o.phase -= math.Floor(o.phase)
	}
}

func shape(w Waveform, phase float64) float64 {
	switch w {
	case Triangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	case Sawtooth:
		return 2*phase - 1
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
