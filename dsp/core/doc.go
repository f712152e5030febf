// Package core provides numeric helpers, pitch and level conversions, block
// buffer utilities and the render options shared by the audio graph.
package core
