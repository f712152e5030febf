package analysis

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ambient/dsp/window"
)

// ErrTooShort is returned when a buffer is too short to analyze.
var ErrTooShort = errors.New("analysis: buffer too short")

const minPeakSamples = 16

// PeakFrequency returns the frequency in Hz of the strongest spectral peak
// above DC. The signal is Hann windowed, zero padded to a power of two, and the
// peak bin is refined by parabolic interpolation of the log magnitudes.
func PeakFrequency(samples []float64, sampleRate float64) (float64, error) {
	if len(samples) < minPeakSamples {
		return 0, fmt.Errorf("%w: %d samples", ErrTooShort, len(samples))
	}

	if sampleRate <= 0 || math.IsNaN(sampleRate) {
		return 0, fmt.Errorf("analysis: sample rate must be > 0: %f", sampleRate)
	}

	mag, err := Magnitudes(samples)
	if err != nil {
		return 0, err
	}

	size := 2 * (len(mag) - 1)

	k := 1
	for i := 2; i < len(mag)-1; i++ {
		if mag[i] > mag[k] {
			k = i
		}
	}

	if mag[k] == 0 {
		return 0, nil
	}

	delta := 0.0
	a, b, c := logMag(mag[k-1]), logMag(mag[k]), logMag(mag[k+1])
	if den := a - 2*b + c; den != 0 {
		delta = 0.5 * (a - c) / den
	}

	return (float64(k) + delta) * sampleRate / float64(size), nil
}

// Magnitudes returns the non-negative frequency magnitude spectrum of the
// Hann windowed, zero padded signal.
func Magnitudes(samples []float64) ([]float64, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("%w: %d samples", ErrTooShort, len(samples))
	}

	size := nextPow2(len(samples))

	windowed := make([]float64, len(samples))
	vecmath.MulBlock(windowed, samples, window.Generate(window.TypeHann, len(samples)))

	in := make([]complex128, size)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("analysis: fft plan: %w", err)
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("analysis: fft: %w", err)
	}

	half := size/2 + 1
	re := make([]float64, half)
	im := make([]float64, half)
	for i := range half {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mag := make([]float64, half)
	vecmath.Magnitude(mag, re, im)

	return mag, nil
}

// RMS returns the root mean square level of samples.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	sq := make([]float64, len(samples))
	vecmath.MulBlock(sq, samples, samples)

	var sum float64
	for _, v := range sq {
		sum += v
	}

	return math.Sqrt(sum / float64(len(samples)))
}

// Peak returns the largest absolute sample value.
func Peak(samples []float64) float64 {
	var peak float64
	for _, v := range samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	return peak
}

func logMag(m float64) float64 {
	if m <= 0 {
		return -300
	}

	return math.Log(m)
}

func nextPow2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
