package drone

import (
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/algo-ambient/audio/graph"
	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/drift"
	"github.com/cwbudde/algo-ambient/dsp/mapping"
	"github.com/cwbudde/algo-ambient/module"
	"github.com/cwbudde/algo-ambient/sched"
)

const (
	// MaxDriftCents is the drift depth at drift = 1.
	MaxDriftCents = 5.0
	// StageStagger separates the layer fades of a power change.
	StageStagger = 80 * time.Millisecond
	// StageRamp is the length of each layer fade.
	StageRamp = 600 * time.Millisecond
	// StopDelay is when oscillators stop after power off.
	StopDelay = 1200 * time.Millisecond
)

// Parameter names.
const (
	ParamPitch  = "pitch"
	ParamSpread = "spread"
	ParamTone   = "tone"
	ParamDrift  = "drift"
	ParamLevel  = "level"
)

var (
	pitchMap = mapping.MustPiecewise(mapping.SegmentExponential,
		mapping.Point{Norm: 0, Value: 41.2},
		mapping.Point{Norm: 0.5, Value: 110},
		mapping.Point{Norm: 1, Value: 440},
	)
	spreadMap = mapping.Linear(0, 25)
	toneMap   = mapping.MustExponential(120, 9000)
	driftMap  = mapping.Linear(0, 1)
	levelMap  = mapping.Power(0, 1, 2)
)

// Params returns the drone's parameter definitions.
func Params() []module.ParamDef {
	return []module.ParamDef{
		{Name: ParamPitch, Label: "Pitch", Default: 0.5, Map: pitchMap, Format: mapping.FormatNote(pitchMap)},
		{Name: ParamSpread, Label: "Spread", Default: 0.3, Map: spreadMap, Format: mapping.FormatCents(spreadMap)},
		{Name: ParamTone, Label: "Tone", Default: 0.6, Map: toneMap, Format: mapping.FormatHz(toneMap)},
		{Name: ParamDrift, Label: "Drift", Default: 0.5, Map: driftMap, Format: mapping.FormatPercent()},
		{Name: ParamLevel, Label: "Level", Default: 0.7, Map: levelMap, Format: mapping.FormatGainDB(levelMap)},
	}
}

type layer struct {
	wave      graph.Waveform
	semitones float64
	level     float64
	// spread is the sign applied to the spread amount for this layer.
	spread float64

	osc  *graph.Oscillator
	gain *graph.Gain
}

func defaultLayers() []*layer {
	return []*layer{
		{wave: graph.Sine, semitones: 0, level: 0.5, spread: 0},
		{wave: graph.Triangle, semitones: 7, level: 0.25, spread: 1},
		{wave: graph.Sine, semitones: -12, level: 0.35, spread: -1},
	}
}

// Drone is the reference module.
type Drone struct {
	*module.Base

	layers []*layer
	filter *graph.Lowpass
	level  *graph.Gain

	mu          sync.Mutex
	spreadCents float64
	depth       float64
	driftCents  float64
	stages      []sched.Timer
}

var _ module.Module = (*Drone)(nil)

// New constructs an uninitialized drone.
func New(id string, env module.Env) (*Drone, error) {
	base, err := module.NewBase(id, module.TypeDrone, Params(), env)
	if err != nil {
		return nil, fmt.Errorf("drone: %w", err)
	}

	d := &Drone{
		Base:   base,
		layers: defaultLayers(),
	}

	base.SetBuilder(d.build)
	base.SetApplier(d.apply)
	base.SetPowerHandler(d.power)

	return d, nil
}

// Initialize implements module.Module. It also joins the drift engine.
func (d *Drone) Initialize() error {
	if err := d.Base.Initialize(); err != nil {
		return err
	}

	d.EnableDrift(d.refreshDrift)

	return nil
}

func (d *Drone) build() (graph.Node, graph.Node, error) {
	audio := d.Env().Audio
	root := pitchMap(0.5)

	for _, l := range d.layers {
		osc, err := graph.NewOscillator(audio, l.wave, root*core.SemitonesToRatio(l.semitones))
		if err != nil {
			return nil, nil, err
		}

		l.osc = osc
		d.Track(osc)
	}

	for _, l := range d.layers {
		l.gain = graph.NewGain(audio, 0)
		d.Track(l.gain)
	}

	filter, err := graph.NewLowpass(audio, toneMap(0.6), 0.707)
	if err != nil {
		return nil, nil, err
	}
	d.filter = filter
	d.Track(filter)

	d.level = graph.NewGain(audio, levelMap(0.7))
	d.Track(d.level)

	for _, l := range d.layers {
		if err := l.osc.Connect(l.gain); err != nil {
			return nil, nil, err
		}

		if err := l.gain.Connect(filter); err != nil {
			return nil, nil, err
		}
	}

	if err := filter.Connect(d.level); err != nil {
		return nil, nil, err
	}

	d.BindParam(ParamTone, filter.Frequency)
	d.BindParam(ParamLevel, d.level.Gain)

	return nil, d.level, nil
}

func (d *Drone) apply(name string, mapped float64) {
	tau := module.SmoothingTau.Seconds()

	switch name {
	case ParamPitch:
		for _, l := range d.layers {
			if l.osc != nil {
				l.osc.Frequency.SetTargetAtTime(mapped*core.SemitonesToRatio(l.semitones), tau)
			}
		}
	case ParamSpread:
		d.mu.Lock()
		d.spreadCents = mapped
		d.mu.Unlock()
		d.updateDetune(tau)
	case ParamDrift:
		d.mu.Lock()
		d.depth = mapped
		d.mu.Unlock()
	}
}

func (d *Drone) refreshDrift(eng *drift.Engine) {
	d.mu.Lock()
	depth := d.depth
	d.mu.Unlock()

	cents := eng.DriftCents(d.ID(), MaxDriftCents, depth)

	d.mu.Lock()
	d.driftCents = cents
	d.mu.Unlock()

	d.updateDetune(d.driftTau())
}

// driftTau glides the detune across one refresh interval.
func (d *Drone) driftTau() float64 {
	return d.Env().RefreshInterval().Seconds()
}

// DriftCents returns the drift applied at the last refresh.
func (d *Drone) DriftCents() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.driftCents
}

func (d *Drone) updateDetune(tau float64) {
	d.mu.Lock()
	spread, cents := d.spreadCents, d.driftCents
	d.mu.Unlock()

	for _, l := range d.layers {
		if l.osc != nil {
			l.osc.Detune.SetTargetAtTime(l.spread*spread+cents, tau)
		}
	}
}

// power staggers the layer fades. Power off stops the oscillators once the
// fades are done; a later power call cancels any stage still pending.
func (d *Drone) power(on bool) {
	d.cancelStages()

	ramp := StageRamp.Seconds()
	for i, l := range d.layers {
		target := 0.0
		if on {
			target = l.level
			if err := l.osc.Start(); err != nil {
				d.Logger().Debug("oscillator start failed", "err", err)
			}
		}

		gain := l.gain
		fade := func() { gain.Gain.LinearRampTo(target, ramp) }
		if i == 0 {
			fade()
			continue
		}

		d.addStage(d.AfterFunc(time.Duration(i)*StageStagger, fade))
	}

	if !on {
		d.addStage(d.AfterFunc(StopDelay, d.stopOscillators))
	}
}

func (d *Drone) stopOscillators() {
	for _, l := range d.layers {
		if err := l.osc.Stop(); err != nil {
			d.Logger().Debug("oscillator stop failed", "err", err)
		}
	}
}

func (d *Drone) addStage(t sched.Timer) {
	d.mu.Lock()
	d.stages = append(d.stages, t)
	d.mu.Unlock()
}

func (d *Drone) cancelStages() {
	d.mu.Lock()
	stages := d.stages
	d.stages = nil
	d.mu.Unlock()

	for _, t := range stages {
		t.Stop()
	}
}
