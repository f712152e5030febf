package sched

import "time"

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop prevents any future invocation. It reports whether the timer was
	// still active.
	Stop() bool
}

// Scheduler schedules callbacks and reports the time they observe.
type Scheduler interface {
	Now() time.Time
	// AfterFunc runs fn once after d.
	AfterFunc(d time.Duration, fn func()) Timer
	// Every runs fn every d until the returned timer is stopped.
	Every(d time.Duration, fn func()) Timer
}

// Hz converts a rate into the interval between callbacks.
func Hz(rate float64) time.Duration {
	if rate <= 0 {
		return 0
	}

	return time.Duration(float64(time.Second) / rate)
}
