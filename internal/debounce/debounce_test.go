package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock records armed timers so tests decide when they fire
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{delay: d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// fireAll runs every armed timer that was not stopped
func (c *fakeClock) fireAll() {
	c.mu.Lock()
	timers := append([]*fakeTimer(nil), c.timers...)
	c.mu.Unlock()
	for _, t := range timers {
		if !t.stopped {
			t.fn()
		}
	}
}

// fireStale runs every timer, including stopped ones, to simulate Stop losing the race
func (c *fakeClock) fireStale() {
	c.mu.Lock()
	timers := append([]*fakeTimer(nil), c.timers...)
	c.mu.Unlock()
	for _, t := range timers {
		t.fn()
	}
}

type recorder struct {
	mu    sync.Mutex
	fired []string
}

func (r *recorder) onFire(q string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, q)
}

func TestRapidKeystrokesFireOnce(t *testing.T) {
	clock := &fakeClock{}
	s := NewWithTimer(clock.AfterFunc)
	rec := &recorder{}

	for _, q := range []string{"d", "du", "dun", "dune"} {
		s.Schedule(q, 300*time.Millisecond, rec.onFire)
	}
	assert.True(t, s.Pending())

	clock.fireAll()

	assert.Equal(t, []string{"dune"}, rec.fired)
	assert.False(t, s.Pending())
	require.Len(t, clock.timers, 4)
	assert.Equal(t, 300*time.Millisecond, clock.timers[3].delay)
}

func TestSupersededTimerIsDropped(t *testing.T) {
	clock := &fakeClock{}
	s := NewWithTimer(clock.AfterFunc)
	rec := &recorder{}

	s.Schedule("ab", time.Millisecond, rec.onFire)
	s.Schedule("abc", time.Millisecond, rec.onFire)

	clock.fireStale()

	assert.Equal(t, []string{"abc"}, rec.fired)
}

func TestCancelDropsPending(t *testing.T) {
	clock := &fakeClock{}
	s := NewWithTimer(clock.AfterFunc)
	rec := &recorder{}

	s.Schedule("dune", time.Millisecond, rec.onFire)
	s.Cancel()
	clock.fireStale()

	assert.Empty(t, rec.fired)
	assert.False(t, s.Pending())
}

func TestDisposeStopsEverything(t *testing.T) {
	clock := &fakeClock{}
	s := NewWithTimer(clock.AfterFunc)
	rec := &recorder{}

	s.Schedule("dune", time.Millisecond, rec.onFire)
	s.Dispose()
	s.Schedule("arrival", time.Millisecond, rec.onFire)
	clock.fireStale()

	assert.Empty(t, rec.fired)
	assert.Len(t, clock.timers, 1, "schedule after dispose arms nothing")
}

func TestRealTimerFires(t *testing.T) {
	s := New()
	done := make(chan string, 1)

	s.Schedule("x", time.Millisecond, func(q string) { done <- q })

	select {
	case q := <-done:
		assert.Equal(t, "x", q)
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}
