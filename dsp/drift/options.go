package drift

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	// DefaultRateHz completes one drift cycle every 40 seconds.
	DefaultRateHz = 1.0 / 40
	// DefaultSpacing is the phase distance between successive registrants.
	DefaultSpacing = 1.0 / 3
	// DefaultJitter bounds the random deviation from the spaced phase.
	DefaultJitter = 0.05
	// DefaultLimitCents is the runaway guard applied after snapping.
	DefaultLimitCents = 10.0
	// NeutralCents is returned whenever no drift applies.
	NeutralCents = 0.0
)

// Option mutates engine construction parameters.
type Option func(*config) error

type config struct {
	rateHz  float64
	spacing float64
	jitter  float64
	limit   float64
	snap    Snap
	clock   func() time.Time
	rng     *rand.Rand
}

func defaultConfig() config {
	return config{
		rateHz:  DefaultRateHz,
		spacing: DefaultSpacing,
		jitter:  DefaultJitter,
		limit:   DefaultLimitCents,
		snap:    DefaultSnap(),
		clock:   time.Now,
	}
}

// WithRateHz sets the frequency of the shared drift oscillator.
func WithRateHz(rateHz float64) Option {
	return func(cfg *config) error {
		if rateHz <= 0 || math.IsNaN(rateHz) || math.IsInf(rateHz, 0) {
			return fmt.Errorf("drift rate must be > 0 and finite: %f", rateHz)
		}
		cfg.rateHz = rateHz
		return nil
	}
}

// WithSpacing sets the phase step between successive registrations.
func WithSpacing(spacing float64) Option {
	return func(cfg *config) error {
		if spacing < 0 || spacing >= 1 || math.IsNaN(spacing) {
			return fmt.Errorf("drift spacing must be in [0, 1): %f", spacing)
		}
		cfg.spacing = spacing
		return nil
	}
}

// WithJitter sets the maximum random phase deviation per registration.
func WithJitter(jitter float64) Option {
	return func(cfg *config) error {
		if jitter < 0 || jitter > 0.5 || math.IsNaN(jitter) {
			return fmt.Errorf("drift jitter must be in [0, 0.5]: %f", jitter)
		}
		cfg.jitter = jitter
		return nil
	}
}

// WithLimitCents sets the symmetric clamp applied to every result.
func WithLimitCents(limit float64) Option {
	return func(cfg *config) error {
		if limit <= 0 || math.IsNaN(limit) || math.IsInf(limit, 0) {
			return fmt.Errorf("drift limit must be > 0 and finite: %f", limit)
		}
		cfg.limit = limit
		return nil
	}
}

// WithSnap replaces the soft-snap transform.
func WithSnap(snap Snap) Option {
	return func(cfg *config) error {
		if snap.Exponent <= 0 || math.IsNaN(snap.Exponent) {
			return fmt.Errorf("drift snap exponent must be > 0: %f", snap.Exponent)
		}
		cfg.snap = snap
		return nil
	}
}

// WithClock sets the time source. Schedulers pass their Now method.
func WithClock(clock func() time.Time) Option {
	return func(cfg *config) error {
		if clock == nil {
			return fmt.Errorf("drift clock must not be nil")
		}
		cfg.clock = clock
		return nil
	}
}

// WithRand sets the jitter source, for reproducible phase assignment.
func WithRand(rng *rand.Rand) Option {
	return func(cfg *config) error {
		if rng == nil {
			return fmt.Errorf("drift rand must not be nil")
		}
		cfg.rng = rng
		return nil
	}
}
