// Package graph implements the processing nodes modules are built from.
//
// A Context owns a pull-based render graph. Nodes are connected source to
// destination; rendering the Destination pulls one quantum from every
// upstream node exactly once per quantum. Parameters are a-rate Param values
// that support smoothed changes (SetTargetAtTime) and linear ramps, so that
// control edits never produce audible steps.
//
// One mutex per Context serializes rendering (typically on the audio
// backend's goroutine) against structural and parameter edits from the
// control goroutine.
//
// Released nodes are inert: Release on a released node returns ErrReleased,
// and so does connecting it.
package graph
