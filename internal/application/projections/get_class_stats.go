package projections

import (
	"context"
	"errors"
	"fmt"
	"time"

	userStore "homeworkbot/internal/adapters/storage/user"
	"homeworkbot/internal/domain/user"
)

// ErrNotAdmin gates the stats view to administrators.
var ErrNotAdmin = errors.New("user is not an admin")

// ClassStats summarizes one class's registered users.
type ClassStats struct {
	Class       string
	Total       int
	Admins      int
	ActiveToday int
}

// ClassStatsQuery identifies the caller; the class is the caller's own.
type ClassStatsQuery struct {
	UserID string
	Now    time.Time
}

// ClassStatsDeps holds dependencies for the stats view.
type ClassStatsDeps struct {
	UserStore StatsUserStore
}

// QueryClassStats counts the caller's classmates, admins among them, and how
// many were active on the calendar day of Now. Admin only: the role is read
// fresh from storage at query time.
func QueryClassStats(ctx context.Context, query ClassStatsQuery, deps ClassStatsDeps) (ClassStats, error) {
	caller, err := deps.UserStore.GetByID(ctx, query.UserID)
	if errors.Is(err, userStore.ErrNotFound) {
		return ClassStats{}, ErrNotRegistered
	}
	if err != nil {
		return ClassStats{}, fmt.Errorf("load caller %s: %w", query.UserID, err)
	}
	if !caller.Role.IsAdmin() {
		return ClassStats{}, ErrNotAdmin
	}

	members, err := deps.UserStore.ListByClass(ctx, caller.Class)
	if err != nil {
		return ClassStats{}, fmt.Errorf("list class %s: %w", caller.Class, err)
	}

	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := ClassStats{Class: caller.Class, Total: len(members)}
	for _, m := range members {
		if m.Role == user.RoleAdmin {
			stats.Admins++
		}
		if !m.Stats.LastActive.IsZero() && !m.Stats.LastActive.Before(dayStart) {
			stats.ActiveToday++
		}
	}
	return stats, nil
}
