package biquad

import (
	"math"
	"testing"
)

func TestProcessBlockMatchesSample(t *testing.T) {
	c := Coefficients{B0: 0.2, B1: 0.4, B2: 0.2, A1: -0.5, A2: 0.25}

	in := []float64{1, 0, -0.5, 0.25, 0, 0, 1, -1}

	ref := NewSection(c)
	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = ref.ProcessSample(x)
	}

	blk := NewSection(c)
	got := append([]float64(nil), in...)
	blk.ProcessBlock(got[:3])
	blk.ProcessBlock(got[3:])

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-15 {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestResetClearsState(t *testing.T) {
	s := NewSection(Coefficients{B0: 1, A1: -0.9})
	s.ProcessSample(1)
	s.Reset()

	if y := s.ProcessSample(0); y != 0 {
		t.Fatalf("ProcessSample(0) after Reset = %v, want 0", y)
	}
}

func TestResponseIdentity(t *testing.T) {
	c := Coefficients{B0: 1}

	if db := c.MagnitudeDB(1000, 48000); math.Abs(db) > 1e-12 {
		t.Fatalf("MagnitudeDB() = %v, want 0", db)
	}
}
