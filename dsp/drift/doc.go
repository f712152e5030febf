// Package drift provides the shared pitch-drift modulation engine.
//
// One very slow virtual oscillator is sampled by every registered module.
// Each module receives a phase offset at registration, spaced roughly a third
// of a turn apart with a small random jitter, so co-registered voices wander
// quasi-independently instead of in lockstep.
//
// The drift value is a pure function of the time elapsed since Start and the
// module's phase offset:
//
//	phase = frac(frac(elapsed * rate) + offset)
//	raw   = sin(2π * phase) * maxCents * depthScale
//	cents = clamp(softSnap(raw), -10, +10)
//
// Nothing accumulates between queries, so callers may poll at any rate and
// the answer only depends on when they ask. The soft-snap transform bends the
// raw value toward consonant micro-tunings (0 and ±5 cents) without ever
// locking onto them.
package drift
