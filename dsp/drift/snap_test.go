package drift

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

func TestSoftSnapBound(t *testing.T) {
	for raw := -10.0; raw <= 10.0; raw += 0.01 {
		got := core.Clamp(SoftSnap(raw), -DefaultLimitCents, DefaultLimitCents)
		if got < -10 || got > 10 {
			t.Fatalf("snap(%v) = %v, outside [-10,10]", raw, got)
		}
	}
}

func TestSoftSnapPullsTowardZero(t *testing.T) {
	for raw := 0.05; raw < 5; raw += 0.05 {
		for _, sign := range []float64{1, -1} {
			r := sign * raw
			got := SoftSnap(r)
			if math.Abs(got) >= math.Abs(r) {
				t.Fatalf("snap(%v) = %v, want strictly closer to 0", r, got)
			}
		}
	}
}

func TestSoftSnapPullDomainLowerBound(t *testing.T) {
	for raw := 0.0025; raw < 0.05; raw += 0.0005 {
		for _, sign := range []float64{1, -1} {
			r := sign * raw
			if got := SoftSnap(r); math.Abs(got) >= math.Abs(r) {
				t.Fatalf("snap(%v) = %v, want strictly closer to 0", r, got)
			}
		}
	}
}

func TestSoftSnapOvershootsBelowLowerBound(t *testing.T) {
	tests := []struct {
		raw, want float64
	}{
		{0.001, -0.001512561815681046},
		{0.0001, -0.0003884256688557741},
	}

	for _, tt := range tests {
		got := SoftSnap(tt.raw)
		if !core.NearlyEqual(got, tt.want, 1e-9) {
			t.Fatalf("SoftSnap(%v) = %v, want %v", tt.raw, got, tt.want)
		}

		if math.Abs(got) <= math.Abs(tt.raw) {
			t.Fatalf("SoftSnap(%v) = %v, want overshoot past 0", tt.raw, got)
		}

		if math.Abs(got) > 0.0025 {
			t.Fatalf("SoftSnap(%v) = %v, overshoot larger than 0.0025 cents", tt.raw, got)
		}
	}
}

func TestSoftSnapIsOdd(t *testing.T) {
	for _, raw := range []float64{0.3, 1.7, 4.2, 6.5, 9.9} {
		if a, b := SoftSnap(raw), SoftSnap(-raw); !core.NearlyEqual(a, -b, 1e-12) {
			t.Fatalf("snap(%v) = %v, snap(-%v) = %v, want symmetric", raw, a, raw, b)
		}
	}
}

func TestSoftSnapFormula(t *testing.T) {
	raw := 3.0
	want := raw -
		0.3*math.Pow(3, 0.7) -
		0.15*-1*math.Pow(2, 0.7) -
		0.15*math.Pow(8, 0.7)

	if got := SoftSnap(raw); !core.NearlyEqual(got, want, 1e-12) {
		t.Fatalf("SoftSnap(3) = %v, want %v", got, want)
	}

	if got := SoftSnap(0); got != 0 {
		t.Fatalf("SoftSnap(0) = %v, want 0", got)
	}
}

func TestCustomSnap(t *testing.T) {
	s := Snap{Attractors: []Attractor{{Center: 0, Strength: 0.5}}, Exponent: 1}
	if got := s.Apply(4); got != 2 {
		t.Fatalf("Apply(4) = %v, want 2", got)
	}
}
