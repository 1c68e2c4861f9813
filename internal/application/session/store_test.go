package session

import (
	"testing"
	"time"

	domain "homeworkbot/internal/domain/session"
)

// TestGetAbsentIsIdle verifies an unknown chat reads as an idle session.
func TestGetAbsentIsIdle(t *testing.T) {
	s := NewStore(0)
	if got := s.Get(1); !got.IsIdle() {
		t.Errorf("absent chat session = %+v, want idle", got)
	}
}

// TestCommitAndGet verifies an active wizard round-trips.
func TestCommitAndGet(t *testing.T) {
	s := NewStore(0)

	var sess domain.Session
	sess.StartEdit()
	sess.Edit.Day = 15
	s.Commit(1, sess)

	got := s.Get(1)
	if got.Flow != domain.FlowEditing || got.Edit.Day != 15 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

// TestCommitIdleDropsEntry verifies idle sessions are not retained.
func TestCommitIdleDropsEntry(t *testing.T) {
	s := NewStore(0)

	var sess domain.Session
	sess.StartRegistration()
	s.Commit(1, sess)

	sess.Reset()
	s.Commit(1, sess)

	if s.Len() != 0 {
		t.Errorf("idle commit left %d entries", s.Len())
	}
}

// TestEvict verifies eviction removes an active session.
func TestEvict(t *testing.T) {
	s := NewStore(0)

	var sess domain.Session
	sess.StartUpload("Б9")
	s.Commit(1, sess)

	s.Evict(1)

	if !s.Get(1).IsIdle() {
		t.Error("session survived eviction")
	}
}

// TestSweepDropsOnlyExpired verifies the idle-timeout sweep.
func TestSweepDropsOnlyExpired(t *testing.T) {
	s := NewStore(30 * time.Minute)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	var stale domain.Session
	stale.StartEdit()
	s.Commit(1, stale)

	s.now = func() time.Time { return base.Add(20 * time.Minute) }
	var fresh domain.Session
	fresh.StartDatePick()
	s.Commit(2, fresh)

	s.now = func() time.Time { return base.Add(45 * time.Minute) }
	dropped := s.Sweep()

	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if !s.Get(1).IsIdle() {
		t.Error("stale session survived the sweep")
	}
	if s.Get(2).IsIdle() {
		t.Error("fresh session was swept")
	}
}
