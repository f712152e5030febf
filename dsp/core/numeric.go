package core

import "math"

// denormalFloor is the magnitude below which state values are flushed.
const denormalFloor = 1e-30

// Clamp limits value to [lo, hi]. Swapped bounds are put in order first.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	return math.Max(lo, math.Min(hi, value))
}

// Clamp01 limits value to the normalized range [0, 1].
// NaN maps to 0 so a normalized value is always usable.
func Clamp01(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}

	return Clamp(value, 0, 1)
}

// Frac returns the fractional part of x in [0, 1), also for negative x.
func Frac(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 {
		return 0
	}

	return f
}

// Sign returns -1, 0 or +1 according to the sign of x.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// NearlyEqual reports whether a and b agree within tol, absolutely for
// values near zero and relative to the larger magnitude otherwise.
// A tol <= 0 means 1e-12.
func NearlyEqual(a, b, tol float64) bool {
	if tol <= 0 {
		tol = 1e-12
	}

	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))

	return math.Abs(a-b) <= tol*scale
}

// FlushDenormals returns 0 for values too small to be audible.
func FlushDenormals(x float64) float64 {
	if math.Abs(x) < denormalFloor {
		return 0
	}

	return x
}

// LinearToDB converts an amplitude to decibels. Zero is -Inf and negative
// input is NaN.
func LinearToDB(amp float64) float64 {
	switch {
	case amp < 0:
		return math.NaN()
	case amp == 0:
		return math.Inf(-1)
	}

	return 20 * math.Log10(amp)
}

// CentsToRatio converts a pitch offset in cents to a frequency ratio.
func CentsToRatio(cents float64) float64 {
	return math.Exp2(cents / 1200)
}

// SemitonesToRatio converts a pitch offset in semitones to a frequency ratio.
func SemitonesToRatio(semitones float64) float64 {
	return CentsToRatio(semitones * 100)
}
