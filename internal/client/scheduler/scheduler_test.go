package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

const waitFor = time.Second

func TestScheduleFiresAfterDelay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock)

	var fired atomic.Int32
	s.Schedule(time.Second, func() { fired.Add(1) })
	assert.True(t, s.Pending())

	clock.Advance(999 * time.Millisecond)
	assert.Zero(t, fired.Load())

	clock.Advance(time.Millisecond)
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, waitFor, time.Millisecond)
	assert.Eventually(t, func() bool { return !s.Pending() }, waitFor, time.Millisecond)
}

func TestRescheduleReplacesPendingCallback(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock)

	var first, second atomic.Int32
	s.Schedule(time.Second, func() { first.Add(1) })
	clock.Advance(600 * time.Millisecond)
	s.Schedule(time.Second, func() { second.Add(1) })
	clock.Advance(600 * time.Millisecond)

	assert.Zero(t, second.Load())
	clock.Advance(400 * time.Millisecond)
	assert.Eventually(t, func() bool { return second.Load() == 1 }, waitFor, time.Millisecond)
	assert.Zero(t, first.Load())
}

func TestCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(clock)

	var fired atomic.Int32
	s.Schedule(time.Second, func() { fired.Add(1) })
	assert.True(t, s.Cancel())
	assert.False(t, s.Cancel())

	clock.Advance(2 * time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, fired.Load())
	assert.False(t, s.Pending())
}

func TestRealClock(t *testing.T) {
	s := New(nil)
	done := make(chan struct{})
	s.Schedule(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("callback did not run")
	}
}
