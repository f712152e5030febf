package sched

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrClosed is returned by Run when the loop was closed.
var ErrClosed = errors.New("sched: loop closed")

const defaultQueueSize = 256

// Loop executes every posted callback on the goroutine that calls Run.
type Loop struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithQueueSize sets the capacity of the pending-callback queue.
func WithQueueSize(n int) LoopOption {
	return func(l *Loop) {
		if n > 0 {
			l.queue = make(chan func(), n)
		}
	}
}

// WithLogger sets the logger used to report recovered callback panics.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates a loop. Callbacks run only once Run is called.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		queue:  make(chan func(), defaultQueueSize),
		done:   make(chan struct{}),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	return l
}

// Post queues fn for execution on the loop goroutine. It reports false when
// the loop is closed. Post may be called from any goroutine.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}

	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes callbacks until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return ErrClosed
		case fn := <-l.queue:
			l.invoke(fn)
		}
	}
}

// Close stops the loop. Pending callbacks are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Now returns the wall clock.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.active.Store(true)
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if !t.active.CompareAndSwap(true, false) {
				return
			}
			fn()
		})
	})

	return t
}

// Every implements Scheduler. Ticks that arrive while the previous tick is
// still queued are coalesced.
func (l *Loop) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		d = time.Millisecond
	}

	t := &loopTicker{stop: make(chan struct{})}
	t.active.Store(true)

	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-l.done:
				return
			case <-ticker.C:
				if !t.pending.CompareAndSwap(false, true) {
					continue
				}
				l.Post(func() {
					t.pending.Store(false)
					if t.active.Load() {
						fn()
					}
				})
			}
		}
	}()

	return t
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("scheduled callback panicked", "panic", r)
		}
	}()
	fn()
}

type loopTimer struct {
	timer  *time.Timer
	active atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if !t.active.CompareAndSwap(true, false) {
		return false
	}
	t.timer.Stop()

	return true
}

type loopTicker struct {
	active  atomic.Bool
	pending atomic.Bool
	stop    chan struct{}
}

func (t *loopTicker) Stop() bool {
	if !t.active.CompareAndSwap(true, false) {
		return false
	}
	close(t.stop)

	return true
}
