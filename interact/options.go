package interact

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultSensitivity      = 0.005
	DefaultDecay            = 0.92
	DefaultReleaseThreshold = 0.002
	DefaultStopThreshold    = 0.0005
	DefaultFrameInterval    = time.Second / 60

	// velocityWeight is the share of the newest instantaneous velocity in
	// the smoothed release velocity.
	velocityWeight = 0.3
)

type config struct {
	sensitivity      float64
	momentum         bool
	decay            float64
	releaseThreshold float64
	stopThreshold    float64
	frameInterval    time.Duration
}

func defaultConfig() config {
	return config{
		sensitivity:      DefaultSensitivity,
		momentum:         true,
		decay:            DefaultDecay,
		releaseThreshold: DefaultReleaseThreshold,
		stopThreshold:    DefaultStopThreshold,
		frameInterval:    DefaultFrameInterval,
	}
}

// Option configures a Control.
type Option func(*config) error

// WithSensitivity sets the value change per pixel of travel.
func WithSensitivity(perPixel float64) Option {
	return func(cfg *config) error {
		if perPixel <= 0 || math.IsNaN(perPixel) || math.IsInf(perPixel, 0) {
			return fmt.Errorf("interact: sensitivity must be > 0 and finite: %f", perPixel)
		}

		cfg.sensitivity = perPixel

		return nil
	}
}

// WithMomentum enables or disables the glide after release.
func WithMomentum(enabled bool) Option {
	return func(cfg *config) error {
		cfg.momentum = enabled
		return nil
	}
}

// WithDecay sets the per-frame velocity retention, in (0, 1).
func WithDecay(decay float64) Option {
	return func(cfg *config) error {
		if !(decay > 0 && decay < 1) {
			return fmt.Errorf("interact: decay must be in (0, 1): %f", decay)
		}

		cfg.decay = decay

		return nil
	}
}

// WithReleaseThreshold sets the minimum release velocity that starts a glide.
func WithReleaseThreshold(v float64) Option {
	return func(cfg *config) error {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("interact: release threshold must be >= 0: %f", v)
		}

		cfg.releaseThreshold = v

		return nil
	}
}

// WithStopThreshold sets the velocity below which a glide ends.
func WithStopThreshold(v float64) Option {
	return func(cfg *config) error {
		if v <= 0 || math.IsNaN(v) {
			return fmt.Errorf("interact: stop threshold must be > 0: %f", v)
		}

		cfg.stopThreshold = v

		return nil
	}
}

// WithFrameInterval sets the glide frame period.
func WithFrameInterval(d time.Duration) Option {
	return func(cfg *config) error {
		if d <= 0 {
			return fmt.Errorf("interact: frame interval must be > 0: %s", d)
		}

		cfg.frameInterval = d

		return nil
	}
}
