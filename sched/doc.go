// Package sched runs instrument callbacks cooperatively on a single goroutine.
//
// Frame-rate work (momentum animation, ~60 Hz) and slow timers (drift
// refresh, ~10 Hz; fade settle timers) are all expressed as callbacks on a
// Scheduler. Callbacks never block and never run concurrently with each
// other, so state touched only from callbacks needs no locking.
//
// Loop is the realtime implementation. Manual advances a virtual clock on
// demand and is what tests use.
package sched
