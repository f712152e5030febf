package drift

import (
	"math"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

// Attractor is one point the soft-snap pulls toward.
type Attractor struct {
	Center   float64
	Strength float64
}

// Snap describes the soft-snap transform: each attractor subtracts
// Strength * sign(d) * |d|^Exponent from the raw value, with d = raw - Center.
//
// The default strengths and exponent are empirical tuning constants.
type Snap struct {
	Attractors []Attractor
	Exponent   float64
}

// DefaultSnap returns the tuned transform: a strong basin at 0 cents and mild
// basins at ±5 cents, exponent 0.7. Values with |raw| >= 0.0025 cents move
// strictly closer to 0; below about 0.00224 cents the pull at 0 overshoots
// and flips the sign, by less than 0.0025 cents.
func DefaultSnap() Snap {
	return Snap{
		Attractors: []Attractor{
			{Center: 0, Strength: 0.3},
			{Center: 5, Strength: 0.15},
			{Center: -5, Strength: 0.15},
		},
		Exponent: 0.7,
	}
}

// Apply returns raw after subtracting every attractor's pull.
func (s Snap) Apply(raw float64) float64 {
	out := raw
	for _, a := range s.Attractors {
		d := raw - a.Center
		out -= a.Strength * core.Sign(d) * math.Pow(math.Abs(d), s.Exponent)
	}

	return out
}

// SoftSnap applies DefaultSnap to raw.
func SoftSnap(raw float64) float64 {
	return DefaultSnap().Apply(raw)
}
