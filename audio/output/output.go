package output

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cwbudde/algo-ambient/audio/graph"
)

// ErrNotInitialized is returned by Destination before Init has succeeded.
var ErrNotInitialized = errors.New("output: device not initialized")

// DefaultBufferDuration is the device buffer requested from the backend.
const DefaultBufferDuration = 40 * time.Millisecond

// backend is an opened device streaming from a destination.
type backend interface {
	Close() error
}

type opener func(dest *graph.Destination, sampleRate int, buffer time.Duration) (backend, error)

// Option configures a Device.
type Option func(*Device) error

// WithLogger sets the device logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Device) error {
		if l == nil {
			return errors.New("output: nil logger")
		}

		d.logger = l

		return nil
	}
}

// WithBufferDuration sets the backend buffer length.
func WithBufferDuration(buf time.Duration) Option {
	return func(d *Device) error {
		if buf <= 0 {
			return fmt.Errorf("output: buffer duration must be > 0: %s", buf)
		}

		d.buffer = buf

		return nil
	}
}

// Device owns the audio backend for one graph context.
type Device struct {
	ctx    *graph.Context
	buffer time.Duration
	logger *slog.Logger
	open   opener

	once    sync.Once
	initErr error

	mu      sync.Mutex
	backend backend
}

// New creates an unopened device rendering ctx.
func New(ctx *graph.Context, opts ...Option) (*Device, error) {
	if ctx == nil {
		return nil, errors.New("output: nil context")
	}

	d := &Device{
		ctx:    ctx,
		buffer: DefaultBufferDuration,
		logger: slog.Default(),
		open:   openBackend,
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Context returns the graph the device renders.
func (d *Device) Context() *graph.Context {
	return d.ctx
}

// Init opens the backend. Only the first call does work; later calls return
// its result.
func (d *Device) Init() error {
	d.once.Do(func() {
		b, err := d.open(d.ctx.Destination(), int(d.ctx.SampleRate()), d.buffer)
		if err != nil {
			d.initErr = fmt.Errorf("output: open device: %w", err)
			d.logger.Warn("audio device unavailable", "err", err)

			return
		}

		d.mu.Lock()
		d.backend = b
		d.mu.Unlock()

		d.logger.Info("audio device started",
			"sample_rate", d.ctx.SampleRate(),
			"buffer", d.buffer)
	})

	return d.initErr
}

// Initialized reports whether Init succeeded.
func (d *Device) Initialized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.backend != nil
}

// Destination returns the shared output node modules connect to.
func (d *Device) Destination() (graph.Node, error) {
	if !d.Initialized() {
		return nil, ErrNotInitialized
	}

	return d.ctx.Destination(), nil
}

// Close stops the backend. The device cannot be reopened.
func (d *Device) Close() error {
	d.mu.Lock()
	b := d.backend
	d.backend = nil
	d.mu.Unlock()

	if b == nil {
		return nil
	}

	if err := b.Close(); err != nil {
		return fmt.Errorf("output: close device: %w", err)
	}

	return nil
}
