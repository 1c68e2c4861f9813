package user

import (
	"context"
	"errors"
	"time"

	domain "homeworkbot/internal/domain/user"
)

// ErrNotFound is returned when no user exists for the given id.
var ErrNotFound = errors.New("user not found")

// Store persists User state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	Save(ctx context.Context, value domain.User) error
	Delete(ctx context.Context, id string) error
	ListByClass(ctx context.Context, classKey string) ([]domain.User, error)
	// TouchStats increments the homework view counter and bumps last_active.
	TouchStats(ctx context.Context, id string, now time.Time) error
}
