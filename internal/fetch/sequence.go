package fetch

import "sync/atomic"

// Sequence is a monotonic counter used to discard responses that belong to a
// superseded query or listing configuration. The zero value is ready to use.
type Sequence struct {
	current atomic.Uint64
}

// Next invalidates every outstanding ticket and returns a ticket for the new value
func (s *Sequence) Next() Ticket {
	return Ticket{ID: s.current.Add(1), seq: s}
}

// Current returns a ticket for the current value without invalidating anything
func (s *Sequence) Current() Ticket {
	return Ticket{ID: s.current.Load(), seq: s}
}

// ID returns the current value
func (s *Sequence) ID() uint64 {
	return s.current.Load()
}

// Ticket captures the sequence value valid when a request was issued
type Ticket struct {
	ID  uint64
	seq *Sequence
}

// Valid reports whether no newer ticket has been issued since this one.
// A ticket not tied to a sequence is always valid.
func (t Ticket) Valid() bool {
	if t.seq == nil {
		return true
	}
	return t.seq.current.Load() == t.ID
}
