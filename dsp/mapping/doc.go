// Package mapping converts normalized control values in [0, 1] into
// engineering units and display strings.
//
// A Func maps a normalized value to a unit such as Hz, cents or linear gain.
// A Formatter renders the same normalized value for display, typically by
// composing a Func with a unit-specific printer:
//
//	cutoff := mapping.Exponential(120, 9000)
//	label := mapping.FormatHz(cutoff)
//	label(0.5) // "1.0 kHz"
//
// All constructors clamp their input, so out-of-range values resolve to the
// nearest end of the range rather than extrapolating.
package mapping
