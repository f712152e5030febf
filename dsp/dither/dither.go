package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Type selects the probability distribution of the dither noise.
type Type int

const (
	// None rounds without noise.
	None Type = iota
	// Rectangular adds uniform noise of one LSB peak to peak.
	Rectangular
	// Triangular adds TPDF noise of two LSB peak to peak.
	Triangular

	typeCount
)

var typeNames = [typeCount]string{"none", "rectangular", "triangular"}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}

	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known dither type.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}

type config struct {
	bitDepth int
	typ      Type
	rng      *rand.Rand
}

// Option configures a Quantizer.
type Option func(*config) error

// WithBitDepth sets the target bit depth (2-24, default 16).
func WithBitDepth(bits int) Option {
	return func(cfg *config) error {
		if bits < 2 || bits > 24 {
			return fmt.Errorf("dither: bit depth must be in [2, 24]: %d", bits)
		}

		cfg.bitDepth = bits

		return nil
	}
}

// WithType sets the noise distribution (default Triangular).
func WithType(t Type) Option {
	return func(cfg *config) error {
		if !t.Valid() {
			return fmt.Errorf("dither: invalid type: %d", t)
		}

		cfg.typ = t

		return nil
	}
}

// WithRNG sets a deterministic random source.
func WithRNG(rng *rand.Rand) Option {
	return func(cfg *config) error {
		cfg.rng = rng
		return nil
	}
}

// Quantizer converts samples in [-1, 1] to signed integers of a fixed bit
// depth, clipping at full scale.
type Quantizer struct {
	bitDepth int
	typ      Type
	rng      *rand.Rand

	scale  float64
	lo, hi int
}

// NewQuantizer creates a 16-bit TPDF quantizer unless options say otherwise.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := config{bitDepth: 16, typ: Triangular}
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	full := math.Exp2(float64(cfg.bitDepth - 1))

	return &Quantizer{
		bitDepth: cfg.bitDepth,
		typ:      cfg.typ,
		rng:      cfg.rng,
		scale:    full - 1,
		lo:       -int(full),
		hi:       int(full) - 1,
	}, nil
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// Type returns the dither type.
func (q *Quantizer) Type() Type { return q.typ }

// ProcessInteger quantizes one sample.
func (q *Quantizer) ProcessInteger(x float64) int {
	if math.IsNaN(x) {
		x = 0
	}

	v := int(math.Round(x*q.scale + q.noise()))

	return max(q.lo, min(q.hi, v))
}

// ProcessSample quantizes one sample and returns it rescaled to [-1, 1].
func (q *Quantizer) ProcessSample(x float64) float64 {
	return float64(q.ProcessInteger(x)) / q.scale
}

func (q *Quantizer) noise() float64 {
	switch q.typ {
	case Rectangular:
		return q.rng.Float64() - 0.5
	case Triangular:
		return q.rng.Float64() - q.rng.Float64()
	default:
		return 0
	}
}
