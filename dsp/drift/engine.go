package drift

import (
	"math"
	"math/rand"
	"time"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

type state int

const (
	stateIdle state = iota
	stateRunning
	stateStopped
	stateDisposed
)

// Engine is the shared drift oscillator. It is constructed explicitly and
// passed to every module that wants drift.
//
// Engine is not safe for concurrent use; call it from the scheduler
// goroutine. Registration happens at module construction and disposal,
// queries happen on drift refresh ticks.
type Engine struct {
	cfg   config
	rng   *rand.Rand
	state state
	start time.Time

	phases     map[string]float64
	holds      map[string]int
	registered int
}

// New creates an idle engine. Call Start before drift values become nonzero.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	rng := cfg.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Engine{
		cfg:    cfg,
		rng:    rng,
		phases: make(map[string]float64),
		holds:  make(map[string]int),
	}, nil
}

// Start records the start timestamp. Calling Start while running keeps the
// original timestamp.
func (e *Engine) Start() {
	if e.state == stateRunning || e.state == stateDisposed {
		return
	}

	e.start = e.cfg.clock()
	e.state = stateRunning
}

// Stop halts drift output. Phase assignments are kept, so modules do not
// need to register again after a later Start.
func (e *Engine) Stop() {
	if e.state != stateRunning {
		return
	}

	e.state = stateStopped
}

// Dispose stops the engine and forgets every assignment. The engine cannot
// be restarted.
func (e *Engine) Dispose() {
	if e.state == stateDisposed {
		return
	}

	e.state = stateDisposed
	e.phases = map[string]float64{}
	e.holds = map[string]int{}
}

// Running reports whether drift values are currently produced.
func (e *Engine) Running() bool {
	return e.state == stateRunning
}

// Register assigns a phase offset to id and returns it. Registering an id
// that already has an offset returns the existing one.
func (e *Engine) Register(id string) float64 {
	if e.state == stateDisposed {
		return 0
	}

	if offset, ok := e.phases[id]; ok {
		return offset
	}

	jitter := (e.rng.Float64()*2 - 1) * e.cfg.jitter
	offset := core.Frac(float64(e.registered)*e.cfg.spacing + jitter)

	e.phases[id] = offset
	e.registered++

	return offset
}

// Unregister removes the assignment for id and any holds on it. Unknown ids
// are ignored.
func (e *Engine) Unregister(id string) {
	delete(e.phases, id)
	delete(e.holds, id)
}

// Retain registers id and counts one hold on it. A module instance retains
// its id once; an instance replacing it under the same id retains again and
// keeps the existing offset.
func (e *Engine) Retain(id string) float64 {
	offset := e.Register(id)
	if e.state != stateDisposed {
		e.holds[id]++
	}

	return offset
}

// Release drops one hold on id. The assignment is removed with the last
// hold. Releasing an id without holds is a no-op.
func (e *Engine) Release(id string) {
	n, ok := e.holds[id]
	if !ok {
		return
	}

	if n > 1 {
		e.holds[id] = n - 1
		return
	}

	delete(e.holds, id)
	delete(e.phases, id)
}

// PhaseOffset returns the offset assigned to id.
func (e *Engine) PhaseOffset(id string) (float64, bool) {
	offset, ok := e.phases[id]
	return offset, ok
}

// Len returns the number of registered ids.
func (e *Engine) Len() int {
	return len(e.phases)
}

// Elapsed returns the time since Start, or 0 when not running.
func (e *Engine) Elapsed() time.Duration {
	if e.state != stateRunning {
		return 0
	}

	elapsed := e.cfg.clock().Sub(e.start)
	if elapsed < 0 {
		return 0
	}

	return elapsed
}

// DriftCents returns the current pitch offset in cents for id. Unregistered
// ids and a stopped engine yield NeutralCents.
func (e *Engine) DriftCents(id string, maxCents, depthScale float64) float64 {
	if e.state != stateRunning {
		return NeutralCents
	}

	offset, ok := e.phases[id]
	if !ok {
		return NeutralCents
	}

	scale := maxCents * depthScale
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return NeutralCents
	}

	base := core.Frac(e.Elapsed().Seconds() * e.cfg.rateHz)
	phase := core.Frac(base + offset)
	raw := math.Sin(2*math.Pi*phase) * scale

	return core.Clamp(e.cfg.snap.Apply(raw), -e.cfg.limit, e.cfg.limit)
}

// SoftSnap applies the engine's configured snap transform to raw.
func (e *Engine) SoftSnap(raw float64) float64 {
	return e.cfg.snap.Apply(raw)
}
