// Package midicc drives controls from MIDI control change messages.
//
// Hardware knobs have no press or release, so a mapping treats a burst of CC
// messages as one gesture: every message goes to the immediate path and the
// last value is committed once the knob has been still for CommitDelay.
package midicc
