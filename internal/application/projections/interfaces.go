package projections

import (
	"context"
	"time"

	"homeworkbot/internal/domain/homework"
	"homeworkbot/internal/domain/user"
)

// ViewUserStore is the user store surface the read-side views need.
type ViewUserStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	TouchStats(ctx context.Context, id string, now time.Time) error
}

// ViewHomeworkStore is the homework store surface the read-side views need.
type ViewHomeworkStore interface {
	GetByClass(ctx context.Context, classKey string) (homework.Set, error)
}

// StatsUserStore is the user store surface the class-stats view needs.
type StatsUserStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	ListByClass(ctx context.Context, classKey string) ([]user.User, error)
}
