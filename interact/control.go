package interact

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-ambient/dsp/core"
	"github.com/cwbudde/algo-ambient/sched"
)

// State is the phase of a Control's gesture.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateSettling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// Callbacks receive a Control's output. Either may be nil.
type Callbacks struct {
	OnImmediate func(value float64)
	OnCommitted func(value float64)
}

// Control is one draggable value in [0, 1].
type Control struct {
	sched sched.Scheduler
	cfg   config
	cb    Callbacks

	mu    sync.Mutex
	state State
	value float64

	anchorPos   float64
	anchorValue float64
	lastPos     float64
	velocity    float64
	source      Source
	pointerID   int

	frame sched.Timer
}

// New creates an idle control at initial.
func New(s sched.Scheduler, initial float64, cb Callbacks, opts ...Option) (*Control, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Control{
		sched: s,
		cfg:   cfg,
		cb:    cb,
		value: core.Clamp01(initial),
	}, nil
}

// Value returns the current value.
func (c *Control) Value() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.value
}

// State returns the gesture phase.
func (c *Control) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// IsDragging reports whether a pointer is held on the control.
func (c *Control) IsDragging() bool {
	return c.State() == StateDragging
}

// Velocity returns the smoothed velocity in value units per move or frame.
func (c *Control) Velocity() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.velocity
}

// SetValue updates the value from outside a gesture, for example after
// hydration. It is ignored while dragging or settling and emits nothing.
func (c *Control) SetValue(v float64) {
	if math.IsNaN(v) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return
	}

	c.value = core.Clamp01(v)
}

// Cancel drops the current gesture without committing.
func (c *Control) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopFrameLocked()
	c.state = StateIdle
	c.velocity = 0
}

// PointerDown starts a gesture at pos. A glide in progress is cancelled
// without a commit and the new gesture anchors at the glided value. A down
// from a second pointer during a drag is ignored.
func (c *Control) PointerDown(src Source, id int, pos float64) {
	if math.IsNaN(pos) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateDragging && (src != c.source || id != c.pointerID) {
		return
	}

	c.stopFrameLocked()

	c.state = StateDragging
	c.anchorPos = pos
	c.anchorValue = c.value
	c.lastPos = pos
	c.velocity = 0
	c.source = src
	c.pointerID = id
}

// PointerMove updates the value from the active pointer. Moving up (smaller
// pos) increases the value.
func (c *Control) PointerMove(src Source, id int, pos float64) {
	if math.IsNaN(pos) {
		return
	}

	c.mu.Lock()
	if !c.activeLocked(src, id) {
		c.mu.Unlock()
		return
	}

	sens := c.cfg.sensitivity
	inst := (c.lastPos - pos) * sens
	c.velocity = velocityWeight*inst + (1-velocityWeight)*c.velocity
	c.value = core.Clamp01(c.anchorValue + (c.anchorPos-pos)*sens)
	c.lastPos = pos
	v := c.value
	c.mu.Unlock()

	c.emitImmediate(v)
}

// PointerUp ends the drag of the active pointer. Fast releases glide with
// momentum and commit when they come to rest; others commit now.
func (c *Control) PointerUp(src Source, id int) {
	c.mu.Lock()
	if !c.activeLocked(src, id) {
		c.mu.Unlock()
		return
	}

	if c.cfg.momentum && math.Abs(c.velocity) > c.cfg.releaseThreshold {
		c.state = StateSettling
		c.frame = c.sched.Every(c.cfg.frameInterval, c.step)
		c.mu.Unlock()

		return
	}

	c.state = StateIdle
	c.velocity = 0
	v := c.value
	c.mu.Unlock()

	c.emitCommitted(v)
}

func (c *Control) step() {
	c.mu.Lock()
	if c.state != StateSettling {
		c.mu.Unlock()
		return
	}

	c.value = core.Clamp01(c.value + c.velocity)
	v := c.value
	c.velocity *= c.cfg.decay
	done := math.Abs(c.velocity) < c.cfg.stopThreshold
	if done {
		c.stopFrameLocked()
		c.state = StateIdle
		c.velocity = 0
	}
	c.mu.Unlock()

	c.emitImmediate(v)

	if done {
		c.emitCommitted(v)
	}
}

func (c *Control) activeLocked(src Source, id int) bool {
	return c.state == StateDragging && src == c.source && id == c.pointerID
}

func (c *Control) stopFrameLocked() {
	if c.frame != nil {
		c.frame.Stop()
		c.frame = nil
	}
}

func (c *Control) emitImmediate(v float64) {
	if c.cb.OnImmediate != nil {
		c.cb.OnImmediate(v)
	}
}

func (c *Control) emitCommitted(v float64) {
	if c.cb.OnCommitted != nil {
		c.cb.OnCommitted(v)
	}
}
