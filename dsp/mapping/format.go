package mapping

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ambient/dsp/core"
)

// Formatter renders a normalized value as a display string.
type Formatter func(norm float64) string

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// FormatHz prints the mapped value as a frequency, switching to kHz at 1000.
func FormatHz(fn Func) Formatter {
	return func(norm float64) string {
		return HzString(fn(norm))
	}
}

// HzString prints hz with a unit suited to its magnitude.
func HzString(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%.1f kHz", hz/1000)
	}

	if hz >= 100 {
		return fmt.Sprintf("%.0f Hz", hz)
	}

	return fmt.Sprintf("%.1f Hz", hz)
}

// FormatNote prints the mapped frequency as the nearest equal-tempered note
// with its cent deviation, e.g. "A2 +0".
func FormatNote(fn Func) Formatter {
	return func(norm float64) string {
		return NoteString(fn(norm))
	}
}

// NoteString names the note closest to hz relative to A4 = 440 Hz.
func NoteString(hz float64) string {
	if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return "--"
	}

	midi := 69 + 12*math.Log2(hz/440)
	nearest := math.Round(midi)
	cents := int(math.Round((midi - nearest) * 100))
	n := int(nearest)

	octave := n/12 - 1
	name := noteNames[((n%12)+12)%12]

	return fmt.Sprintf("%s%d %+d", name, octave, cents)
}

// FormatPercent prints the normalized value as a whole percentage.
func FormatPercent() Formatter {
	return func(norm float64) string {
		return fmt.Sprintf("%.0f%%", core.Clamp01(norm)*100)
	}
}

// FormatCents prints the mapped value as a symmetric cent spread.
func FormatCents(fn Func) Formatter {
	return func(norm float64) string {
		return fmt.Sprintf("±%.1f ct", math.Abs(fn(norm)))
	}
}

// FormatGainDB prints the mapped linear gain in dB, or "-inf dB" for silence.
func FormatGainDB(fn Func) Formatter {
	return func(norm float64) string {
		gain := fn(norm)
		if gain <= 0 {
			return "-inf dB"
		}

		return fmt.Sprintf("%.1f dB", core.LinearToDB(gain))
	}
}

// FormatFixed prints the mapped value with the given decimals and unit.
func FormatFixed(fn Func, decimals int, unit string) Formatter {
	if decimals < 0 {
		decimals = 0
	}

	return func(norm float64) string {
		s := fmt.Sprintf("%.*f", decimals, fn(norm))
		if unit == "" {
			return s
		}

		return s + " " + unit
	}
}
