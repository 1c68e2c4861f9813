// Package session holds the per-chat ephemeral wizard state between updates.
// State lives only in process memory; losing it on restart is acceptable and
// surfaces to the user as an expired-session prompt.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domain "homeworkbot/internal/domain/session"
)

// DefaultIdleTimeout is how long an untouched session survives before the
// sweeper drops it.
const DefaultIdleTimeout = 30 * time.Minute

type entry struct {
	sess     domain.Session
	lastSeen time.Time
}

// Store is the in-memory per-chat session store. All methods are safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	entries map[int64]entry
	idle    time.Duration
	now     func() time.Time // swappable for tests
}

// NewStore creates a session store. A non-positive idle duration falls back
// to DefaultIdleTimeout.
func NewStore(idle time.Duration) *Store {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Store{
		entries: make(map[int64]entry),
		idle:    idle,
		now:     time.Now,
	}
}

// Get returns the chat's session, or an idle zero value when none is stored.
// Get never returns "no session": absent and idle are indistinguishable by
// design.
func (s *Store) Get(chatID int64) domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[chatID].sess
}

// Commit stores the session after an interaction. Idle sessions are removed
// outright so the map only holds chats with an active wizard.
// POST: s.Get(chatID) returns sess; an idle sess leaves no entry behind
func (s *Store) Commit(chatID int64, sess domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.IsIdle() {
		delete(s.entries, chatID)
		return
	}
	s.entries[chatID] = entry{sess: sess, lastSeen: s.now()}
}

// Evict removes the chat's session outright, active or not. Used on profile
// deletion.
func (s *Store) Evict(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, chatID)
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops sessions idle longer than the configured timeout and returns
// how many were dropped. A swept wizard shows up to the user as an expired
// session on their next input.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.idle)
	dropped := 0
	for chatID, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, chatID)
			dropped++
		}
	}
	return dropped
}

// StartSweeper runs Sweep on a timer until ctx is cancelled.
func (s *Store) StartSweeper(ctx context.Context, every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					slog.Info("sessions_swept", "count", n)
				}
			}
		}
	}()
}
