package module

import (
	"errors"
	"time"

	"github.com/cwbudde/algo-ambient/audio/graph"
	"github.com/cwbudde/algo-ambient/sched"
)

// State is the disposal state of a module.
type State int

const (
	StateLive State = iota
	StateFading
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateLive:
		return "live"
	case StateFading:
		return "fading"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// State returns the current disposal state.
func (b *Base) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// Disposed implements Module. It is true from the moment Dispose is called.
func (b *Base) Disposed() bool {
	return b.State() != StateLive
}

// AfterFunc schedules fn on the module's scheduler. fn does not run once the
// module is disposed, and Dispose stops every pending timer.
func (b *Base) AfterFunc(d time.Duration, fn func()) sched.Timer {
	b.mu.Lock()
	if b.state != StateLive {
		b.mu.Unlock()
		return stoppedTimer{}
	}
	b.timerSeq++
	seq := b.timerSeq
	b.mu.Unlock()

	t := b.env.Scheduler.AfterFunc(d, func() {
		b.mu.Lock()
		delete(b.timers, seq)
		live := b.state == StateLive
		b.mu.Unlock()

		if live {
			fn()
		}
	})

	b.mu.Lock()
	b.timers[seq] = t
	b.mu.Unlock()

	return t
}

// Dispose implements Module. The disposed flag is set synchronously; the
// output gate fades and, after SettleTime, the drift registration is dropped
// and the nodes are released in reverse creation order.
func (b *Base) Dispose() {
	b.mu.Lock()
	if b.state != StateLive {
		b.mu.Unlock()
		return
	}
	b.state = StateFading
	gate := b.gate
	pending := make([]sched.Timer, 0, len(b.timers))
	for _, t := range b.timers {
		pending = append(pending, t)
	}
	b.timers = make(map[uint64]sched.Timer)
	b.mu.Unlock()

	for _, t := range pending {
		t.Stop()
	}

	b.log.Debug("module disposing")

	if gate == nil {
		b.teardown()
		return
	}

	gate.Gain.SetTargetAtTime(0, PowerTau.Seconds())
	b.env.Scheduler.AfterFunc(SettleTime, b.teardown)
}

func (b *Base) teardown() {
	b.mu.Lock()
	if b.state == StateDisposed {
		b.mu.Unlock()
		return
	}
	drifting := b.drifting
	b.mu.Unlock()

	if drifting && b.env.Drift != nil {
		b.env.Drift.Release(b.id)
	}

	b.releaseNodes()

	b.mu.Lock()
	b.state = StateDisposed
	b.gate = nil
	b.input = nil
	b.mu.Unlock()

	b.log.Debug("module disposed")
}

func (b *Base) releaseNodes() {
	b.mu.Lock()
	nodes := b.nodes
	b.nodes = nil
	b.mu.Unlock()

	for i := len(nodes) - 1; i >= 0; i-- {
		if err := nodes[i].Release(); err != nil {
			if errors.Is(err, graph.ErrReleased) {
				b.log.Debug("node already released", "index", i)
				continue
			}

			b.log.Debug("node release failed", "index", i, "err", err)
		}
	}
}

type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return false }
