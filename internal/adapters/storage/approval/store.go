package approval

import (
	"context"
	"errors"

	domain "homeworkbot/internal/domain/approval"
)

// ErrNotFound is returned when no request exists for the given id.
var ErrNotFound = errors.New("admin request not found")

// Store persists admin requests.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Request, error)
	Save(ctx context.Context, value domain.Request) error
	PendingByUser(ctx context.Context, userID string) ([]domain.Request, error)
}
