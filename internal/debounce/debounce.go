// Package debounce collapses bursts of input into a single delayed call.
package debounce

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the scheduler needs
type Timer interface {
	Stop() bool
}

// AfterFunc arms a timer that calls f after d
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Scheduler holds at most one pending timer. Each Schedule replaces the
// previous one, so a burst of calls fires once with the last query.
type Scheduler struct {
	mu         sync.Mutex
	afterFunc  AfterFunc
	pending    Timer
	generation uint64
	disposed   bool
}

// New creates a scheduler backed by time.AfterFunc
func New() *Scheduler {
	return NewWithTimer(realAfterFunc)
}

// NewWithTimer creates a scheduler with a custom timer factory
func NewWithTimer(afterFunc AfterFunc) *Scheduler {
	if afterFunc == nil {
		afterFunc = realAfterFunc
	}
	return &Scheduler{afterFunc: afterFunc}
}

// Schedule cancels any pending call and arms a new one that runs
// onFire(query) after delay. It is a no-op once the scheduler is disposed.
func (s *Scheduler) Schedule(query string, delay time.Duration, onFire func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}
	s.stopLocked()

	s.generation++
	gen := s.generation
	s.pending = s.afterFunc(delay, func() {
		s.mu.Lock()
		// A superseded timer can still fire if Stop lost the race
		if s.disposed || gen != s.generation {
			s.mu.Unlock()
			return
		}
		s.pending = nil
		s.mu.Unlock()

		onFire(query)
	})
}

// Cancel drops the pending call, if any
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.generation++
}

// Pending reports whether a call is armed
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Dispose cancels the pending call and turns every later Schedule into a no-op
func (s *Scheduler) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.generation++
	s.disposed = true
}

func (s *Scheduler) stopLocked() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}
