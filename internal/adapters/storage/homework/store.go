package homework

import (
	"context"
	"time"

	domain "homeworkbot/internal/domain/homework"
)

// Store persists per-class homework records. Mutations merge at the
// (date, subject) level inside a transaction, so two admins writing different
// subjects on the same date do not clobber each other.
type Store interface {
	// GetByClass returns the class record, or a zero Set with ClassKey filled
	// when no record exists yet.
	GetByClass(ctx context.Context, classKey string) (domain.Set, error)
	UpsertTask(ctx context.Context, classKey, date, subject, task string, now time.Time) error
	// DeleteTask reports whether the subject existed at the date.
	DeleteTask(ctx context.Context, classKey, date, subject string, now time.Time) (bool, error)
	SetSchedulePhoto(ctx context.Context, classKey, photoID string, now time.Time) error
}
