package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleFires(t *testing.T) {
	s := New()
	defer s.Stop()

	fired := make(chan struct{})
	s.Schedule(1, FirstFollowup, 10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	assert.False(t, s.Pending(1, FirstFollowup))
}

func TestCancelPreventsFire(t *testing.T) {
	s := New()
	defer s.Stop()

	var fired atomic.Bool
	s.Schedule(1, FirstFollowup, 20*time.Millisecond, func() { fired.Store(true) })
	require.True(t, s.Cancel(1, FirstFollowup))

	time.Sleep(60 * time.Millisecond)
	assert.False(t, fired.Load())
	assert.False(t, s.Cancel(1, FirstFollowup), "second cancel must be a no-op")
}

func TestRescheduleReplaces(t *testing.T) {
	s := New()
	defer s.Stop()

	var first, second atomic.Bool
	s.Schedule(1, CaseAfterFollowup, 30*time.Millisecond, func() { first.Store(true) })
	s.Schedule(1, CaseAfterFollowup, 30*time.Millisecond, func() { second.Store(true) })

	time.Sleep(100 * time.Millisecond)
	assert.False(t, first.Load(), "replaced action must not run")
	assert.True(t, second.Load())
}

func TestSlotsAreIndependent(t *testing.T) {
	s := New()
	defer s.Stop()

	var a, b atomic.Bool
	s.Schedule(1, FirstFollowup, 20*time.Millisecond, func() { a.Store(true) })
	s.Schedule(1, FollowupAfterVideo, 20*time.Millisecond, func() { b.Store(true) })
	require.Equal(t, 2, s.PendingCount(1))

	s.Cancel(1, FirstFollowup)
	time.Sleep(60 * time.Millisecond)
	assert.False(t, a.Load())
	assert.True(t, b.Load())
}

func TestUsersAreIndependent(t *testing.T) {
	s := New()
	defer s.Stop()

	var u1, u2 atomic.Bool
	s.Schedule(1, FirstFollowup, 20*time.Millisecond, func() { u1.Store(true) })
	s.Schedule(2, FirstFollowup, 20*time.Millisecond, func() { u2.Store(true) })

	s.CancelAll(1)
	time.Sleep(60 * time.Millisecond)
	assert.False(t, u1.Load())
	assert.True(t, u2.Load())
}

func TestCancelAllCount(t *testing.T) {
	s := New()
	defer s.Stop()

	s.Schedule(7, FirstFollowup, time.Hour, func() {})
	s.Schedule(7, CaseAfterFollowup, time.Hour, func() {})
	s.Schedule(7, CaseAfterPresentation, time.Hour, func() {})

	assert.Equal(t, 3, s.CancelAll(7))
	assert.Equal(t, 0, s.CancelAll(7))
}

func TestStopRejectsScheduling(t *testing.T) {
	s := New()

	var fired atomic.Bool
	s.Schedule(1, FirstFollowup, 20*time.Millisecond, func() { fired.Store(true) })
	s.Stop()

	s.Schedule(1, CaseAfterFollowup, time.Millisecond, func() { fired.Store(true) })
	time.Sleep(60 * time.Millisecond)
	assert.False(t, fired.Load())
	assert.False(t, s.Pending(1, CaseAfterFollowup))
}

func TestConcurrentScheduleCancel(t *testing.T) {
	s := New()
	defer s.Stop()

	var fires atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		userID := int64(i % 5)
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Schedule(userID, FirstFollowup, time.Millisecond, func() { fires.Add(1) })
		}()
		go func() {
			defer wg.Done()
			s.CancelAll(userID)
		}()
	}
	wg.Wait()
	time.Sleep(50 * time.Millisecond)

	// Every fire must correspond to a slot that survived its races; at
	// most one fire per (user, slot) generation is a hard invariant.
	assert.LessOrEqual(t, fires.Load(), int64(50))
	for u := int64(0); u < 5; u++ {
		s.CancelAll(u)
		assert.Equal(t, 0, s.PendingCount(u))
	}
}
