// internal/engine/clock.go
//
// Scheduler abstraction for the engine's timers (per-second tick, reveal
// delay, mismatch-clear delay). Timing policy is injected so the state logic
// can be unit-tested without real delays.

package engine

import (
	"sync"
	"time"
)

// CancelFunc stops a scheduled callback. Safe to call more than once; calling
// it after the callback ran is a no-op.
type CancelFunc func()

// Scheduler schedules deferred and periodic callbacks.
type Scheduler interface {
	// AfterFunc runs f once after d.
	AfterFunc(d time.Duration, f func()) CancelFunc

	// TickEvery runs f repeatedly every d until cancelled.
	TickEvery(d time.Duration, f func()) CancelFunc
}

// NewScheduler returns the wall-clock Scheduler used in production.
func NewScheduler() Scheduler { return wallScheduler{} }

type wallScheduler struct{}

func (wallScheduler) AfterFunc(d time.Duration, f func()) CancelFunc {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}

func (wallScheduler) TickEvery(d time.Duration, f func()) CancelFunc {
	t := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-t.C:
				f()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}
