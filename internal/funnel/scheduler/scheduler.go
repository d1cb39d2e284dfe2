// Package scheduler provides per-user named delayed actions with
// deterministic cancellation. Each (user, name) slot holds at most one
// pending timer; scheduling again replaces the previous one.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/miralteam/funnelbot/core/logger"
	"log/slog"
)

// Name identifies a delayed action slot for a user.
type Name string

// Timer slots of the funnel. One of each may be pending per user.
const (
	FirstFollowup          Name = "first_followup"
	CaseAfterFollowup      Name = "case_after_followup"
	CaseAfterPresentation  Name = "case_after_presentation"
	FollowupAfterVideo     Name = "followup_after_video"
	CaseAfterVideoFollowup Name = "case_after_video_followup"
)

type pending struct {
	timer *time.Timer
	gen   uint64
}

// Scheduler tracks delayed actions keyed by user and slot name.
// A fired timer claims its slot under the same lock Cancel uses, so a
// fire racing a cancel resolves one way or the other, never both.
type Scheduler struct {
	mu      sync.Mutex
	users   map[int64]map[Name]*pending
	nextGen uint64
	closed  bool
}

// New returns an empty scheduler.
func New() *Scheduler {
	return &Scheduler{users: make(map[int64]map[Name]*pending)}
}

// Schedule arms the named slot for the user after delay. Any previously
// pending action in the same slot is cancelled and replaced. The action
// runs on the timer goroutine only if the slot is still armed with the
// same generation at fire time.
func (s *Scheduler) Schedule(userID int64, name Name, delay time.Duration, action func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	slots := s.users[userID]
	if slots == nil {
		slots = make(map[Name]*pending)
		s.users[userID] = slots
	}
	if prev, ok := slots[name]; ok {
		prev.timer.Stop()
	}

	s.nextGen++
	gen := s.nextGen
	p := &pending{gen: gen}
	p.timer = time.AfterFunc(delay, func() {
		if !s.claim(userID, name, gen) {
			return
		}
		action()
	})
	slots[name] = p
	s.mu.Unlock()

	logger.Debug(context.Background(), "funnel.timer", "timer.armed",
		slog.Int64("user_id", userID),
		slog.String("timer", string(name)),
		slog.Int64("duration_ms", delay.Milliseconds()),
	)
}

// claim removes the slot if it still holds the given generation.
// Returns false when the slot was cancelled or replaced in the meantime.
func (s *Scheduler) claim(userID int64, name Name, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	slots := s.users[userID]
	p, ok := slots[name]
	if !ok || p.gen != gen {
		return false
	}
	delete(slots, name)
	if len(slots) == 0 {
		delete(s.users, userID)
	}
	return true
}

// Cancel disarms the named slot for the user. It is a no-op when nothing
// is pending. Returns true if a pending action was removed.
func (s *Scheduler) Cancel(userID int64, name Name) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots := s.users[userID]
	p, ok := slots[name]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(slots, name)
	if len(slots) == 0 {
		delete(s.users, userID)
	}
	return true
}

// CancelAll disarms every pending slot for the user and returns how many
// were removed.
func (s *Scheduler) CancelAll(userID int64) int {
	s.mu.Lock()
	slots := s.users[userID]
	n := len(slots)
	for _, p := range slots {
		p.timer.Stop()
	}
	delete(s.users, userID)
	s.mu.Unlock()

	if n > 0 {
		logger.Debug(context.Background(), "funnel.timer", "timer.cancel_all",
			slog.Int64("user_id", userID),
			slog.Int("count", n),
		)
	}
	return n
}

// Pending reports whether the named slot is armed for the user.
func (s *Scheduler) Pending(userID int64, name Name) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[userID][name]
	return ok
}

// PendingCount returns the number of armed slots for the user.
func (s *Scheduler) PendingCount(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users[userID])
}

// Stop cancels all pending actions for all users and rejects further
// scheduling. Actions already past their claim never run after Stop
// returns the lock.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, slots := range s.users {
		for _, p := range slots {
			p.timer.Stop()
		}
	}
	s.users = make(map[int64]map[Name]*pending)
}
