package projections

import (
	"context"
	"log/slog"
	"time"

	"homeworkbot/internal/domain/homework"
)

// FromView is every populated date at or after a chosen start date.
type FromView struct {
	Class string
	Start string
	Days  []DayView
}

// IsEmpty reports whether nothing is scheduled from the start date on.
func (v FromView) IsEmpty() bool {
	return len(v.Days) == 0
}

// FromViewQuery selects the open-ended range starting at an ISO date.
type FromViewQuery struct {
	UserID string
	Start  string
	Now    time.Time
}

// QueryFromView returns all homework on or after the start date, ascending.
// Unlike the week view the tasks are rendered in full, so a student who
// picked an explicit date gets the complete text.
func QueryFromView(ctx context.Context, query FromViewQuery, deps DayViewDeps) (FromView, error) {
	caller, err := loadViewer(ctx, deps.UserStore, query.UserID)
	if err != nil {
		return FromView{}, err
	}

	set, err := deps.HomeworkStore.GetByClass(ctx, caller.Class)
	if err != nil {
		slog.Warn("homework_read_failed", "class", caller.Class, "error", err.Error())
		set.Data = homework.DateMap{}
	}

	view := FromView{Class: caller.Class, Start: query.Start}
	for _, date := range set.Data.DatesFrom(query.Start) {
		day := DayView{Class: caller.Class, Date: date}
		for _, subject := range set.Data.Subjects(date) {
			day.Tasks = append(day.Tasks, SubjectTask{Subject: subject, Task: set.Data[date][subject]})
		}
		view.Days = append(view.Days, day)
	}

	touchStats(ctx, deps.UserStore, caller.ID, query.Now)
	return view, nil
}
