package sched

import (
	"sync"
	"time"
)

// Manual is a Scheduler driven by an explicit virtual clock. Callbacks run
// synchronously inside Advance, in due-time order, with Now reporting each
// callback's due time.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

// NewManual creates a manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.now
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	return m.add(d, 0, fn)
}

// Every implements Scheduler.
func (m *Manual) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		d = time.Nanosecond
	}

	return m.add(d, d, fn)
}

// Advance moves the clock forward by d, firing every callback that falls due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		t := m.nextDue(target)
		if t == nil {
			m.now = target
			m.mu.Unlock()

			return
		}

		m.now = t.when
		if t.period > 0 {
			t.when = t.when.Add(t.period)
		} else {
			m.remove(t)
		}
		fn := t.fn
		m.mu.Unlock()

		fn()
	}
}

// AdvanceUntilIdle advances in steps of step until no timers remain or limit
// has elapsed, and returns the virtual time that passed.
func (m *Manual) AdvanceUntilIdle(step, limit time.Duration) time.Duration {
	if step <= 0 {
		step = time.Millisecond
	}

	var elapsed time.Duration
	for elapsed < limit && m.Pending() > 0 {
		m.Advance(step)
		elapsed += step
	}

	return elapsed
}

// Pending returns the number of active timers.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.timers)
}

func (m *Manual) add(d, period time.Duration, fn func()) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d < 0 {
		d = 0
	}

	m.seq++
	t := &manualTimer{
		owner:  m,
		when:   m.now.Add(d),
		period: period,
		seq:    m.seq,
		fn:     fn,
	}
	m.timers = append(m.timers, t)

	return t
}

func (m *Manual) nextDue(target time.Time) *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if t.when.After(target) {
			continue
		}
		if best == nil || t.when.Before(best.when) || (t.when.Equal(best.when) && t.seq < best.seq) {
			best = t
		}
	}

	return best
}

func (m *Manual) remove(t *manualTimer) bool {
	for i, x := range m.timers {
		if x == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}

	return false
}

type manualTimer struct {
	owner  *Manual
	when   time.Time
	period time.Duration
	seq    uint64
	fn     func()
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()

	return t.owner.remove(t)
}
