package midicc

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"

	"github.com/cwbudde/algo-ambient/sched"
)

// CommitDelay is the idle time after which a CC burst is committed.
const CommitDelay = 250 * time.Millisecond

// Target receives the values of one mapping. Either func may be nil.
type Target struct {
	Immediate func(value float64)
	Commit    func(value float64)
}

// Option configures a Router.
type Option func(*Router) error

// WithCommitDelay sets the idle time before a commit.
func WithCommitDelay(d time.Duration) Option {
	return func(r *Router) error {
		if d <= 0 {
			return errors.New("midicc: commit delay must be > 0")
		}

		r.delay = d

		return nil
	}
}

// WithLogger sets the router logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) error {
		if l == nil {
			return errors.New("midicc: nil logger")
		}

		r.log = l

		return nil
	}
}

type key struct {
	channel    uint8
	controller uint8
}

type route struct {
	target  Target
	last    float64
	pending sched.Timer
}

// Router dispatches CC messages to mapped targets.
type Router struct {
	sched sched.Scheduler
	delay time.Duration
	log   *slog.Logger

	mu     sync.Mutex
	routes map[key]*route
}

// NewRouter creates an empty router.
func NewRouter(s sched.Scheduler, opts ...Option) (*Router, error) {
	if s == nil {
		return nil, errors.New("midicc: nil scheduler")
	}

	r := &Router{
		sched:  s,
		delay:  CommitDelay,
		log:    slog.Default(),
		routes: make(map[key]*route),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Map routes controller on channel (0-15) to t, replacing any previous
// mapping. A pending commit of the replaced mapping is dropped.
func (r *Router) Map(channel, controller uint8, t Target) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{channel, controller}
	if old, ok := r.routes[k]; ok && old.pending != nil {
		old.pending.Stop()
	}

	r.routes[k] = &route{target: t}
}

// Unmap removes a mapping.
func (r *Router) Unmap(channel, controller uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{channel, controller}
	if old, ok := r.routes[k]; ok {
		if old.pending != nil {
			old.pending.Stop()
		}

		delete(r.routes, k)
	}
}

// Len returns the number of mappings.
func (r *Router) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.routes)
}

// Handle dispatches msg and reports whether it was a mapped control change.
func (r *Router) Handle(msg midi.Message) bool {
	var ch, cc, val uint8
	if !msg.GetControlChange(&ch, &cc, &val) {
		return false
	}

	value := float64(val) / 127

	r.mu.Lock()
	rt, ok := r.routes[key{ch, cc}]
	if !ok {
		r.mu.Unlock()
		r.log.Debug("unmapped control change", "channel", ch, "controller", cc)

		return false
	}

	rt.last = value
	if rt.pending != nil {
		rt.pending.Stop()
	}
	rt.pending = r.sched.AfterFunc(r.delay, func() { r.commit(rt) })
	immediate := rt.target.Immediate
	r.mu.Unlock()

	if immediate != nil {
		immediate(value)
	}

	return true
}

// Flush commits every pending burst now.
func (r *Router) Flush() {
	r.mu.Lock()
	var due []*route
	for _, rt := range r.routes {
		if rt.pending != nil && rt.pending.Stop() {
			rt.pending = nil
			due = append(due, rt)
		}
	}
	r.mu.Unlock()

	for _, rt := range due {
		r.fire(rt)
	}
}

func (r *Router) commit(rt *route) {
	r.mu.Lock()
	rt.pending = nil
	r.mu.Unlock()

	r.fire(rt)
}

func (r *Router) fire(rt *route) {
	r.mu.Lock()
	v := rt.last
	commit := rt.target.Commit
	r.mu.Unlock()

	if commit != nil {
		commit(v)
	}
}
