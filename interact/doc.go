// Package interact turns pointer drags into a normalized control value.
//
// A Control has two outputs. OnImmediate fires on every change, during the
// drag and on every glide frame, and is meant for audio. OnCommitted fires
// exactly once at the end of a gesture, after any momentum glide has come to
// rest, and is meant for persistence. The two always agree on the final
// value.
package interact
