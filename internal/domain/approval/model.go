package approval

import (
	"errors"
	"time"
)

// Status of an admin request.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Domain errors
var (
	ErrAlreadyDecided = errors.New("admin request has already been decided")
)

// Request is one pending promotion of a user to the admin role, awaiting a
// decision from a privileged recipient.
type Request struct {
	ID        string // uuid
	UserID    string
	Class     string
	Status    string
	CreatedAt time.Time
	DecidedAt time.Time
	DecidedBy string
}

// IsDecided reports whether the request reached a terminal status.
func (r Request) IsDecided() bool {
	return r.Status != StatusPending
}

// Approve marks the request approved.
// PRE: request is pending
// POST: Status=approved, decision metadata recorded
func (r *Request) Approve(by string, now time.Time) error {
	if r.IsDecided() {
		return ErrAlreadyDecided
	}
	r.Status = StatusApproved
	r.DecidedBy = by
	r.DecidedAt = now
	return nil
}

// Reject marks the request rejected.
// PRE: request is pending
// POST: Status=rejected, decision metadata recorded
func (r *Request) Reject(by string, now time.Time) error {
	if r.IsDecided() {
		return ErrAlreadyDecided
	}
	r.Status = StatusRejected
	r.DecidedBy = by
	r.DecidedAt = now
	return nil
}
