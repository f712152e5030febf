// Command ambient runs the tactile ambient instrument.
//
// Usage:
//
//	ambient play [flags]     open the audio device and the knob window
//	ambient render [flags]   render offline and report what came out
//
// Settings come from AMBIENT_* environment variables and an optional .env
// file; flags override both.
//
// Examples:
//
//	ambient play --modules drone,texture --state rack.json
//	ambient play --no-window --midi-in "Launch Control"
//	ambient render --seconds 8 --set drone.pitch=0.75 --out drone.f32
package main

func main() {
	Execute()
}
