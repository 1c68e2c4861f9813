package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	userStore "homeworkbot/internal/adapters/storage/user"
	"homeworkbot/internal/domain/homework"
	"homeworkbot/internal/domain/user"
)

// EditUserStore defines the user store interface for the edit orchestrators.
type EditUserStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// EditHomeworkStore defines the homework store interface for mutations.
type EditHomeworkStore interface {
	UpsertTask(ctx context.Context, classKey, date, subject, task string, now time.Time) error
	DeleteTask(ctx context.Context, classKey, date, subject string, now time.Time) (bool, error)
	SetSchedulePhoto(ctx context.Context, classKey, photoID string, now time.Time) error
}

// requireAdmin re-reads the actor's record and checks the admin role. The
// role is never taken from session state: it can change between interactions.
func requireAdmin(ctx context.Context, store EditUserStore, actorID string) (user.User, error) {
	actor, err := store.GetByID(ctx, actorID)
	if errors.Is(err, userStore.ErrNotFound) {
		return user.User{}, ErrNotRegistered
	}
	if err != nil {
		return user.User{}, fmt.Errorf("load actor %s: %w", actorID, err)
	}
	if !actor.Role.IsAdmin() {
		return user.User{}, ErrNotAdmin
	}
	return actor, nil
}

// SaveTaskInput carries one homework entry from the edit wizard.
type SaveTaskInput struct {
	ActorID string
	Day     int
	Month   int
	Year    int
	Subject string
	Task    string
}

// SaveTaskDeps holds dependencies for SaveTask.
type SaveTaskDeps struct {
	UserStore     EditUserStore
	HomeworkStore EditHomeworkStore
}

// SaveTaskResult reports what was written.
type SaveTaskResult struct {
	Class   string
	Date    string
	Subject string
	Task    string
}

// ExecuteSaveTask writes one (date, subject) homework entry for the actor's
// class.
// PRE: Actor holds the admin role (re-checked here, not trusted from session)
// POST: Entry stored under the normalized subject at the ISO date key
func ExecuteSaveTask(ctx context.Context, input SaveTaskInput, deps SaveTaskDeps) (SaveTaskResult, error) {
	actor, err := requireAdmin(ctx, deps.UserStore, input.ActorID)
	if err != nil {
		return SaveTaskResult{}, err
	}

	if !homework.ValidDate(input.Day, input.Month, input.Year) {
		return SaveTaskResult{}, ErrInvalidDate
	}
	subject := homework.NormalizeSubject(input.Subject)
	if subject == "" {
		return SaveTaskResult{}, errors.New("subject cannot be empty")
	}
	task := strings.TrimSpace(input.Task)
	if task == "" {
		task = homework.NoDescriptionPlaceholder
	}

	date := homework.DateKey(input.Day, input.Month, input.Year)
	if err := deps.HomeworkStore.UpsertTask(ctx, actor.Class, date, subject, task, time.Now()); err != nil {
		return SaveTaskResult{}, fmt.Errorf("save task: %w", err)
	}
	return SaveTaskResult{Class: actor.Class, Date: date, Subject: subject, Task: task}, nil
}

// DeleteTaskInput identifies one homework entry to remove.
type DeleteTaskInput struct {
	ActorID string
	Day     int
	Month   int
	Year    int
	Subject string
}

// DeleteTaskDeps holds dependencies for DeleteTask.
type DeleteTaskDeps struct {
	UserStore     EditUserStore
	HomeworkStore EditHomeworkStore
}

// ExecuteDeleteTask removes one (date, subject) entry from the actor's class.
// POST: Returns whether the entry existed; an emptied date is pruned by the store
func ExecuteDeleteTask(ctx context.Context, input DeleteTaskInput, deps DeleteTaskDeps) (bool, error) {
	actor, err := requireAdmin(ctx, deps.UserStore, input.ActorID)
	if err != nil {
		return false, err
	}

	if !homework.ValidDate(input.Day, input.Month, input.Year) {
		return false, ErrInvalidDate
	}
	date := homework.DateKey(input.Day, input.Month, input.Year)

	removed, err := deps.HomeworkStore.DeleteTask(ctx, actor.Class, date, input.Subject, time.Now())
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return removed, nil
}

// SetSchedulePhotoInput carries the uploaded schedule image reference.
type SetSchedulePhotoInput struct {
	ActorID string
	PhotoID string
}

// SetSchedulePhotoDeps holds dependencies for SetSchedulePhoto.
type SetSchedulePhotoDeps struct {
	UserStore     EditUserStore
	HomeworkStore EditHomeworkStore
}

// ExecuteSetSchedulePhoto stores the schedule image for the actor's class.
func ExecuteSetSchedulePhoto(ctx context.Context, input SetSchedulePhotoInput, deps SetSchedulePhotoDeps) (string, error) {
	actor, err := requireAdmin(ctx, deps.UserStore, input.ActorID)
	if err != nil {
		return "", err
	}
	if input.PhotoID == "" {
		return "", errors.New("photo id cannot be empty")
	}
	if err := deps.HomeworkStore.SetSchedulePhoto(ctx, actor.Class, input.PhotoID, time.Now()); err != nil {
		return "", fmt.Errorf("set schedule photo: %w", err)
	}
	return actor.Class, nil
}
