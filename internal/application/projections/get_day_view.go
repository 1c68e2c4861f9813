package projections

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	userStore "homeworkbot/internal/adapters/storage/user"
	"homeworkbot/internal/domain/homework"
	"homeworkbot/internal/domain/user"
)

// ErrNotRegistered mirrors the orchestrator sentinel for read-side queries.
var ErrNotRegistered = errors.New("user is not registered")

// SubjectTask is one rendered homework line.
type SubjectTask struct {
	Subject string
	Task    string
}

// DayView is the homework for one class on one date.
type DayView struct {
	Class string
	Date  string // ISO date key
	Tasks []SubjectTask
}

// IsEmpty reports whether the date has no homework.
func (v DayView) IsEmpty() bool {
	return len(v.Tasks) == 0
}

// DayViewQuery selects the date as an offset from "now" in days.
type DayViewQuery struct {
	UserID string
	Offset int // 0 = today, 1 = tomorrow
	Now    time.Time
}

// DayViewDeps holds dependencies for the day view.
type DayViewDeps struct {
	UserStore     ViewUserStore
	HomeworkStore ViewHomeworkStore
}

// QueryDayView returns the caller's class homework for one day.
// POST: View stats are bumped best-effort; a stats failure never hides the view
func QueryDayView(ctx context.Context, query DayViewQuery, deps DayViewDeps) (DayView, error) {
	date := query.Now.AddDate(0, 0, query.Offset).Format(homework.DateLayout)
	return QueryDateView(ctx, DateViewQuery{UserID: query.UserID, Date: date, Now: query.Now}, deps)
}

// DateViewQuery selects an explicit ISO date.
type DateViewQuery struct {
	UserID string
	Date   string
	Now    time.Time
}

// QueryDateView returns the caller's class homework for an explicit date.
func QueryDateView(ctx context.Context, query DateViewQuery, deps DayViewDeps) (DayView, error) {
	caller, err := loadViewer(ctx, deps.UserStore, query.UserID)
	if err != nil {
		return DayView{}, err
	}

	set, err := deps.HomeworkStore.GetByClass(ctx, caller.Class)
	if err != nil {
		// Reads degrade to an empty view rather than failing the interaction.
		slog.Warn("homework_read_failed", "class", caller.Class, "error", err.Error())
		set.Data = homework.DateMap{}
	}

	view := DayView{Class: caller.Class, Date: query.Date}
	for _, subject := range set.Data.Subjects(query.Date) {
		view.Tasks = append(view.Tasks, SubjectTask{Subject: subject, Task: set.Data[query.Date][subject]})
	}

	touchStats(ctx, deps.UserStore, caller.ID, query.Now)
	return view, nil
}

// loadViewer fetches the calling user, mapping absence to ErrNotRegistered.
func loadViewer(ctx context.Context, store ViewUserStore, id string) (user.User, error) {
	caller, err := store.GetByID(ctx, id)
	if errors.Is(err, userStore.ErrNotFound) {
		return user.User{}, ErrNotRegistered
	}
	if err != nil {
		return user.User{}, fmt.Errorf("load viewer %s: %w", id, err)
	}
	return caller, nil
}

// touchStats bumps the view counter, logging instead of failing.
func touchStats(ctx context.Context, store ViewUserStore, id string, now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	if err := store.TouchStats(ctx, id, now); err != nil {
		slog.Warn("touch_stats_failed", "user_id", id, "error", err.Error())
	}
}
