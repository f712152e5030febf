package mapping

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

// Func maps a normalized value in [0, 1] to an engineering unit.
type Func func(norm float64) float64

// Identity returns the clamped normalized value unchanged.
func Identity() Func {
	return core.Clamp01
}

// Linear maps [0, 1] onto [min, max].
func Linear(min, max float64) Func {
	return func(norm float64) float64 {
		return min + core.Clamp01(norm)*(max-min)
	}
}

// Exponential maps [0, 1] onto [min, max] with equal ratios per step,
// which suits frequencies. Both bounds must be > 0.
func Exponential(min, max float64) (Func, error) {
	if min <= 0 || max <= 0 || math.IsNaN(min) || math.IsNaN(max) {
		return nil, fmt.Errorf("mapping: exponential bounds must be > 0: %f, %f", min, max)
	}

	ratio := max / min

	return func(norm float64) float64 {
		return min * math.Pow(ratio, core.Clamp01(norm))
	}, nil
}

// MustExponential is like Exponential but panics on invalid bounds.
func MustExponential(min, max float64) Func {
	fn, err := Exponential(min, max)
	if err != nil {
		panic(err)
	}

	return fn
}

// Power maps [0, 1] onto [min, max] through norm^curve. curve > 1 gives
// finer resolution near min, which suits gain controls.
func Power(min, max, curve float64) Func {
	if curve <= 0 || math.IsNaN(curve) {
		curve = 1
	}

	return func(norm float64) float64 {
		return min + math.Pow(core.Clamp01(norm), curve)*(max-min)
	}
}

// Point is one breakpoint of a piecewise mapping.
type Point struct {
	Norm  float64
	Value float64
}

// Segment selects how values are interpolated between breakpoints.
type Segment int

const (
	// SegmentLinear interpolates values linearly.
	SegmentLinear Segment = iota
	// SegmentExponential interpolates values geometrically. All breakpoint
	// values must be > 0.
	SegmentExponential
)

// Piecewise builds a mapping through at least two breakpoints. Breakpoints
// are sorted by Norm; inputs outside the first/last Norm hold the end value.
func Piecewise(seg Segment, points ...Point) (Func, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("mapping: piecewise needs >= 2 points: %d", len(points))
	}

	pts := make([]Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Norm < pts[j].Norm })

	for i, p := range pts {
		if math.IsNaN(p.Norm) || math.IsNaN(p.Value) {
			return nil, fmt.Errorf("mapping: piecewise point %d is NaN", i)
		}
		if seg == SegmentExponential && p.Value <= 0 {
			return nil, fmt.Errorf("mapping: exponential piecewise value must be > 0: %f", p.Value)
		}
		if i > 0 && p.Norm == pts[i-1].Norm {
			return nil, fmt.Errorf("mapping: duplicate breakpoint at %f", p.Norm)
		}
	}

	return func(norm float64) float64 {
		norm = core.Clamp01(norm)
		if norm <= pts[0].Norm {
			return pts[0].Value
		}

		last := pts[len(pts)-1]
		if norm >= last.Norm {
			return last.Value
		}

		i := sort.Search(len(pts), func(i int) bool { return pts[i].Norm >= norm })
		a, b := pts[i-1], pts[i]
		t := (norm - a.Norm) / (b.Norm - a.Norm)

		if seg == SegmentExponential {
			return a.Value * math.Pow(b.Value/a.Value, t)
		}

		return a.Value + t*(b.Value-a.Value)
	}, nil
}

// MustPiecewise is like Piecewise but panics on invalid breakpoints.
func MustPiecewise(seg Segment, points ...Point) Func {
	fn, err := Piecewise(seg, points...)
	if err != nil {
		panic(err)
	}

	return fn
}

// Steps quantizes [0, 1] into len(values) equal bins.
func Steps(values ...float64) Func {
	return func(norm float64) float64 {
		if len(values) == 0 {
			return 0
		}

		i := int(core.Clamp01(norm) * float64(len(values)))
		if i >= len(values) {
			i = len(values) - 1
		}

		return values[i]
	}
}
