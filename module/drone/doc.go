// Package drone implements the reference drone module: three detuned
// oscillator layers through a lowpass filter, slowly drifting in pitch.
package drone
