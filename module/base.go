package module

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/cwbudde/algo-ambient/audio/graph"
	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/dsp/drift"
	"github.com/cwbudde/algo-ambient/dsp/mapping"
	"github.com/cwbudde/algo-ambient/sched"
)

// Builder allocates a module's nodes, registering each with Track, and
// returns the optional input port and the tail node feeding the output gate.
type Builder func() (input, tail graph.Node, err error)

// Applier routes a mapped parameter value to the module's nodes.
type Applier func(name string, mapped float64)

// PowerHandler replaces the default gate ramp on power changes.
type PowerHandler func(on bool)

// Base implements Module. Concrete modules embed it and install a Builder.
type Base struct {
	id   string
	typ  Type
	defs []ParamDef
	env  Env
	log  *slog.Logger

	mu          sync.Mutex
	index       map[string]int
	values      map[string]float64
	bound       map[string][]*graph.Param
	applier     Applier
	build       Builder
	power       PowerHandler
	powered     bool
	initialized bool
	state       State

	nodes []graph.Node
	input graph.Node
	gate  *graph.Gain

	timers    map[uint64]sched.Timer
	timerSeq  uint64
	driftTick sched.Timer
	drifting  bool
}

// NewBase validates the definitions and environment and sets every parameter
// to its default. Modules start powered.
func NewBase(id string, t Type, defs []ParamDef, env Env) (*Base, error) {
	if id == "" {
		return nil, errors.New("module: empty id")
	}

	if err := env.Validate(); err != nil {
		return nil, err
	}

	b := &Base{
		id:      id,
		typ:     t,
		defs:    make([]ParamDef, len(defs)),
		env:     env,
		index:   make(map[string]int, len(defs)),
		values:  make(map[string]float64, len(defs)),
		bound:   make(map[string][]*graph.Param),
		powered: true,
		state:   StateLive,
		timers:  make(map[uint64]sched.Timer),
	}

	for i, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("module: parameter %d has no name", i)
		}

		if _, dup := b.index[def.Name]; dup {
			return nil, fmt.Errorf("module: duplicate parameter %q", def.Name)
		}

		if def.Map == nil {
			def.Map = mapping.Identity()
		}

		if def.Format == nil {
			def.Format = mapping.FormatPercent()
		}

		def.Default = core.Clamp01(def.Default)
		b.defs[i] = def
		b.index[def.Name] = i
		b.values[def.Name] = def.Default
	}

	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b.log = logger.With("module", id, "type", t.String())

	return b, nil
}

// ID implements Module.
func (b *Base) ID() string { return b.id }

// Type implements Module.
func (b *Base) Type() Type { return b.typ }

// Params implements Module.
func (b *Base) Params() []ParamDef {
	out := make([]ParamDef, len(b.defs))
	copy(out, b.defs)

	return out
}

// Def returns the definition of name.
func (b *Base) Def(name string) (ParamDef, bool) {
	i, ok := b.index[name]
	if !ok {
		return ParamDef{}, false
	}

	return b.defs[i], true
}

// Env returns the module's collaborators.
func (b *Base) Env() Env { return b.env }

// Logger returns the module-scoped logger.
func (b *Base) Logger() *slog.Logger { return b.log }

// SetBuilder installs the node allocation step run by Initialize.
func (b *Base) SetBuilder(fn Builder) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.build = fn
}

// SetApplier installs the routing for parameters without a bound node param.
func (b *Base) SetApplier(fn Applier) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.applier = fn
}

// SetPowerHandler overrides the default power gate ramp.
func (b *Base) SetPowerHandler(fn PowerHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.power = fn
}

// BindParam routes name directly to node parameters; writes reach them via
// SetTargetAtTime with SmoothingTau.
func (b *Base) BindParam(name string, params ...*graph.Param) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bound[name] = append(b.bound[name], params...)
}

// Track appends n to the owned node list and returns it.
func (b *Base) Track(n graph.Node) graph.Node {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nodes = append(b.nodes, n)

	return n
}

// Nodes returns a copy of the owned nodes in creation order.
func (b *Base) Nodes() []graph.Node {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]graph.Node, len(b.nodes))
	copy(out, b.nodes)

	return out
}

// Gate returns the output gate, or nil before Initialize.
func (b *Base) Gate() *graph.Gain {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.gate
}

// Initialize implements Module.
func (b *Base) Initialize() error {
	b.mu.Lock()
	if b.state != StateLive {
		b.mu.Unlock()
		return nil
	}

	if b.initialized {
		b.mu.Unlock()
		return ErrAlreadyInitialized
	}

	b.initialized = true
	build := b.build
	b.mu.Unlock()

	var input, tail graph.Node
	if build != nil {
		var err error
		input, tail, err = build()
		if err != nil {
			b.releaseNodes()
			return fmt.Errorf("module: %s: build: %w", b.id, err)
		}
	}

	gate := graph.NewGain(b.env.Audio, 0)
	b.Track(gate)

	if tail != nil {
		if err := tail.Connect(gate); err != nil {
			b.releaseNodes()
			return fmt.Errorf("module: %s: wire gate: %w", b.id, err)
		}
	}

	if err := gate.Connect(b.env.Destination); err != nil {
		b.releaseNodes()
		return fmt.Errorf("module: %s: connect destination: %w", b.id, err)
	}

	b.mu.Lock()
	b.input = input
	b.gate = gate
	values := make(map[string]float64, len(b.values))
	for k, v := range b.values {
		values[k] = v
	}
	powered := b.powered
	handler := b.power
	b.mu.Unlock()

	for _, def := range b.defs {
		b.apply(def, values[def.Name])
	}

	if handler != nil {
		gate.Gain.SetTargetAtTime(1, PowerTau.Seconds())
		handler(powered)
	} else {
		b.rampGate(powered)
	}

	b.log.Debug("module initialized", "nodes", len(b.Nodes()))

	return nil
}

// Input implements Module.
func (b *Base) Input() (graph.Node, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.input, b.input != nil
}

// Output implements Module.
func (b *Base) Output() graph.Node {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gate == nil {
		return nil
	}

	return b.gate
}

// SetParamImmediate implements Module.
func (b *Base) SetParamImmediate(name string, value float64) {
	if math.IsNaN(value) {
		return
	}

	def, ok := b.Def(name)
	if !ok {
		return
	}

	value = core.Clamp01(value)

	b.mu.Lock()
	if b.state != StateLive {
		b.mu.Unlock()
		return
	}
	b.values[name] = value
	ready := b.initialized
	b.mu.Unlock()

	if ready {
		b.apply(def, value)
	}
}

// Param implements Module.
func (b *Base) Param(name string) (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.values[name]

	return v, ok
}

// AllParams implements Module.
func (b *Base) AllParams() map[string]float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]float64, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}

	return out
}

// RestoreParams implements Module.
func (b *Base) RestoreParams(values map[string]float64) {
	for _, def := range b.defs {
		if v, ok := values[def.Name]; ok {
			b.SetParamImmediate(def.Name, v)
		}
	}
}

// SetPower implements Module.
func (b *Base) SetPower(on bool) {
	b.mu.Lock()
	if b.state != StateLive {
		b.mu.Unlock()
		return
	}
	b.powered = on
	ready := b.initialized && b.gate != nil
	handler := b.power
	b.mu.Unlock()

	if !ready {
		return
	}

	if handler != nil {
		handler(on)
		return
	}

	b.rampGate(on)
}

// Powered implements Module.
func (b *Base) Powered() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.powered
}

func (b *Base) rampGate(on bool) {
	gate := b.Gate()
	if gate == nil {
		return
	}

	target := 0.0
	if on {
		target = 1
	}

	gate.Gain.SetTargetAtTime(target, PowerTau.Seconds())
}

func (b *Base) apply(def ParamDef, value float64) {
	mapped := def.Map(value)

	b.mu.Lock()
	params := b.bound[def.Name]
	applier := b.applier
	b.mu.Unlock()

	for _, p := range params {
		p.SetTargetAtTime(mapped, SmoothingTau.Seconds())
	}

	if len(params) == 0 && applier != nil {
		applier(def.Name, mapped)
	}
}

// EnableDrift retains the module id on the drift engine and calls refresh
// now and then every drift refresh interval. Each tick checks the disposed flag first and
// stops the loop once it is set. It reports false without an engine, after
// Dispose, or when drift is already enabled.
func (b *Base) EnableDrift(refresh func(eng *drift.Engine)) bool {
	eng := b.env.Drift
	if eng == nil || refresh == nil {
		return false
	}

	b.mu.Lock()
	if b.state != StateLive || b.drifting {
		b.mu.Unlock()
		return false
	}
	b.drifting = true
	b.mu.Unlock()

	eng.Retain(b.id)
	refresh(eng)

	t := b.env.Scheduler.Every(b.env.RefreshInterval(), func() {
		if b.Disposed() {
			b.stopDriftLoop()
			return
		}

		refresh(eng)
	})

	b.mu.Lock()
	b.driftTick = t
	b.mu.Unlock()

	return true
}

func (b *Base) stopDriftLoop() {
	b.mu.Lock()
	t := b.driftTick
	b.driftTick = nil
	b.mu.Unlock()

	if t != nil {
		t.Stop()
	}
}
