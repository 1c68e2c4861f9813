package projections

import (
	"context"
	"log/slog"
	"time"

	"homeworkbot/internal/domain/homework"
)

// WeekView is seven consecutive dates of homework. Days carries only the
// dates that actually have entries: an all-empty week renders as a single
// empty-state, never seven empty headers.
type WeekView struct {
	Class string
	Days  []DayView
}

// IsEmpty reports whether no date in the window has homework.
func (v WeekView) IsEmpty() bool {
	return len(v.Days) == 0
}

// WeekViewQuery selects a 7-day window starting Offset days from now.
type WeekViewQuery struct {
	UserID string
	Offset int // 0 = this week (starting today), 7 = next week
	Now    time.Time
}

// QueryWeekView returns the non-empty days in the window, in date order.
func QueryWeekView(ctx context.Context, query WeekViewQuery, deps DayViewDeps) (WeekView, error) {
	caller, err := loadViewer(ctx, deps.UserStore, query.UserID)
	if err != nil {
		return WeekView{}, err
	}

	set, err := deps.HomeworkStore.GetByClass(ctx, caller.Class)
	if err != nil {
		slog.Warn("homework_read_failed", "class", caller.Class, "error", err.Error())
		set.Data = homework.DateMap{}
	}

	view := WeekView{Class: caller.Class}
	for i := 0; i < 7; i++ {
		date := query.Now.AddDate(0, 0, query.Offset+i).Format(homework.DateLayout)
		subjects := set.Data.Subjects(date)
		if len(subjects) == 0 {
			continue
		}
		day := DayView{Class: caller.Class, Date: date}
		for _, subject := range subjects {
			day.Tasks = append(day.Tasks, SubjectTask{Subject: subject, Task: set.Data[date][subject]})
		}
		view.Days = append(view.Days, day)
	}

	touchStats(ctx, deps.UserStore, caller.ID, query.Now)
	return view, nil
}
