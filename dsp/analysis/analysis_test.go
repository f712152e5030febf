package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-ambient/internal/testutil"
)

func sine(freq, sampleRate float64, n int, amp float64) []float64 {
	return testutil.DeterministicSine(freq, sampleRate, amp, n)
}

func TestPeakFrequency(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		n    int
		tol  float64
	}{
		{"bass", 55, 48000, 0.5},
		{"A3", 220, 48000, 0.5},
		{"off-bin", 1234.5, 8192, 2},
		{"treble", 9000, 4096, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PeakFrequency(sine(tt.freq, 48000, tt.n, 0.5), 48000)
			if err != nil {
				t.Fatalf("PeakFrequency() error = %v", err)
			}
			if math.Abs(got-tt.freq) > tt.tol {
				t.Fatalf("PeakFrequency() = %v, want %v +/- %v", got, tt.freq, tt.tol)
			}
		})
	}
}

func TestPeakFrequencyPicksLoudest(t *testing.T) {
	a := sine(110, 48000, 16384, 0.5)
	b := sine(440, 48000, 16384, 0.2)
	for i := range a {
		a[i] += b[i]
	}

	got, err := PeakFrequency(a, 48000)
	if err != nil {
		t.Fatalf("PeakFrequency() error = %v", err)
	}
	if math.Abs(got-110) > 1 {
		t.Fatalf("PeakFrequency() = %v, want ~110", got)
	}
}

func TestPeakFrequencySilence(t *testing.T) {
	got, err := PeakFrequency(make([]float64, 1024), 48000)
	if err != nil {
		t.Fatalf("PeakFrequency() error = %v", err)
	}
	if got != 0 {
		t.Fatalf("PeakFrequency(silence) = %v, want 0", got)
	}
}

func TestPeakFrequencyErrors(t *testing.T) {
	if _, err := PeakFrequency(make([]float64, 4), 48000); !errors.Is(err, ErrTooShort) {
		t.Fatalf("short buffer error = %v, want ErrTooShort", err)
	}
	if _, err := PeakFrequency(make([]float64, 64), 0); err == nil {
		t.Fatal("zero sample rate error = nil, want error")
	}
}

func TestRMSAndPeak(t *testing.T) {
	x := sine(1000, 48000, 48000, 0.8)

	if got, want := RMS(x), 0.8/math.Sqrt2; math.Abs(got-want) > 1e-3 {
		t.Fatalf("RMS() = %v, want %v", got, want)
	}
	if got := Peak(x); math.Abs(got-0.8) > 1e-3 {
		t.Fatalf("Peak() = %v, want 0.8", got)
	}
	if got := RMS(nil); got != 0 {
		t.Fatalf("RMS(nil) = %v, want 0", got)
	}
}

func TestMagnitudesLength(t *testing.T) {
	mag, err := Magnitudes(make([]float64, 1000))
	if err != nil {
		t.Fatalf("Magnitudes() error = %v", err)
	}
	if got, want := len(mag), 1024/2+1; got != want {
		t.Fatalf("len(Magnitudes()) = %d, want %d", got, want)
	}
}
