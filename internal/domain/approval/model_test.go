package approval_test

import (
	"errors"
	"testing"
	"time"

	"homeworkbot/internal/domain/approval"
)

// TestApproveAndReject verifies decisions are terminal.
func TestApproveAndReject(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r := approval.Request{ID: "id-1", UserID: "42", Class: "Б9", Status: approval.StatusPending}
	if err := r.Approve("7", now); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if r.Status != approval.StatusApproved || r.DecidedBy != "7" || !r.DecidedAt.Equal(now) {
		t.Errorf("approve did not record decision: %+v", r)
	}

	if err := r.Reject("8", now); !errors.Is(err, approval.ErrAlreadyDecided) {
		t.Errorf("second decision error = %v, want ErrAlreadyDecided", err)
	}
	if r.Status != approval.StatusApproved {
		t.Errorf("status mutated by rejected second decision: %s", r.Status)
	}

	r2 := approval.Request{ID: "id-2", UserID: "43", Class: "Б9", Status: approval.StatusPending}
	if err := r2.Reject("7", now); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if err := r2.Approve("7", now); !errors.Is(err, approval.ErrAlreadyDecided) {
		t.Errorf("approve after reject error = %v, want ErrAlreadyDecided", err)
	}
}
