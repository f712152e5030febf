package rack

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/cwbudde/algo-ambient/audio/graph"
	"github.com/cwbudde/algo-ambient/dsp/drift"
	"github.com/cwbudde/algo-ambient/module"
	"github.com/cwbudde/algo-ambient/persist"
	"github.com/cwbudde/algo-ambient/sched"
)

// ErrSessionClosed is returned by a closed session.
var ErrSessionClosed = errors.New("rack: session closed")

type sessionConfig struct {
	driftOpts []drift.Option
	noDrift   bool
	refresh   time.Duration
	logger    *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig) error

// WithDriftOptions passes options to the session's drift engine. The engine
// clock always follows the scheduler unless overridden here.
func WithDriftOptions(opts ...drift.Option) SessionOption {
	return func(cfg *sessionConfig) error {
		cfg.driftOpts = append(cfg.driftOpts, opts...)
		return nil
	}
}

// WithoutDrift runs the session without a drift engine.
func WithoutDrift() SessionOption {
	return func(cfg *sessionConfig) error {
		cfg.noDrift = true
		return nil
	}
}

// WithDriftRefresh sets how often modules resample the drift engine.
func WithDriftRefresh(d time.Duration) SessionOption {
	return func(cfg *sessionConfig) error {
		if d <= 0 {
			return fmt.Errorf("rack: drift refresh must be > 0: %s", d)
		}

		cfg.refresh = d

		return nil
	}
}

// WithLogger sets the logger handed to modules.
func WithLogger(l *slog.Logger) SessionOption {
	return func(cfg *sessionConfig) error {
		if l == nil {
			return errors.New("rack: nil logger")
		}

		cfg.logger = l

		return nil
	}
}

// Session owns the drift engine and module registry of one running
// instrument.
type Session struct {
	env      module.Env
	registry *Registry
	log      *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewSession creates a session rendering into dest and starts its drift
// engine.
func NewSession(audio *graph.Context, dest graph.Node, s sched.Scheduler, opts ...SessionOption) (*Session, error) {
	cfg := sessionConfig{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	env := module.Env{
		Audio:        audio,
		Destination:  dest,
		Scheduler:    s,
		Logger:       cfg.logger,
		DriftRefresh: cfg.refresh,
	}

	if err := env.Validate(); err != nil {
		return nil, fmt.Errorf("rack: %w", err)
	}

	if !cfg.noDrift {
		driftOpts := append([]drift.Option{drift.WithClock(s.Now)}, cfg.driftOpts...)

		eng, err := drift.New(driftOpts...)
		if err != nil {
			return nil, fmt.Errorf("rack: drift engine: %w", err)
		}

		eng.Start()
		env.Drift = eng
	}

	return &Session{
		env:      env,
		registry: NewRegistry(),
		log:      cfg.logger,
	}, nil
}

// Env returns the collaborators modules are built with.
func (s *Session) Env() module.Env { return s.env }

// Drift returns the session's drift engine, or nil.
func (s *Session) Drift() *drift.Engine { return s.env.Drift }

// Registry returns the session's module registry.
func (s *Session) Registry() *Registry { return s.registry }

// Create builds a module of type t under a fresh id.
func (s *Session) Create(t module.Type) (module.Module, error) {
	return s.CreateWithID(xid.New().String(), t)
}

// CreateWithID builds a module of type t under id, replacing any module
// already registered there.
func (s *Session) CreateWithID(id string, t module.Type) (module.Module, error) {
	if s.isClosed() {
		return nil, ErrSessionClosed
	}

	m, err := New(t, id, s.env)
	if err != nil {
		return nil, err
	}

	if err := s.registry.Register(m); err != nil {
		m.Dispose()
		return nil, err
	}

	s.log.Info("module created", "module", id, "type", t.String())

	return m, nil
}

// Replace swaps the module under id for a new one of type t. The old module
// fades out while the new one fades in.
func (s *Session) Replace(id string, t module.Type) (module.Module, error) {
	if _, ok := s.registry.Lookup(id); !ok {
		return nil, fmt.Errorf("rack: replace: no module %q", id)
	}

	return s.CreateWithID(id, t)
}

// Restore builds a module and hydrates it from rec. It reports whether
// stored state was applied.
func (s *Session) Restore(id string, t module.Type, rec *persist.Record) (module.Module, bool, error) {
	m, err := s.CreateWithID(id, t)
	if err != nil {
		return nil, false, err
	}

	return m, persist.Hydrate(m, rec), nil
}

// Remove disposes and drops the module under id.
func (s *Session) Remove(id string) bool {
	ok := s.registry.Unregister(id)
	if ok {
		s.log.Info("module removed", "module", id)
	}

	return ok
}

// Close disposes every module and the drift engine. Pending fades still need
// the scheduler to run to finish their teardown.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.registry.Clear()

	if s.env.Drift != nil {
		s.env.Drift.Dispose()
	}

	s.log.Info("session closed")
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}
