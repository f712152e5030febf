package mapping_test

import (
	"fmt"

	"github.com/cwbudde/algo-ambient/dsp/mapping"
)

func ExamplePiecewise() {
	pitch := mapping.MustPiecewise(mapping.SegmentExponential,
		mapping.Point{Norm: 0, Value: 55},
		mapping.Point{Norm: 0.5, Value: 110},
		mapping.Point{Norm: 1, Value: 440},
	)
	label := mapping.FormatNote(pitch)

	fmt.Println(label(0.5))
	fmt.Println(label(1))

	// Output:
	// A2 +0
	// A4 +0
}
