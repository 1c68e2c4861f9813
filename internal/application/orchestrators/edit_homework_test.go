package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"homeworkbot/internal/domain/homework"
	"homeworkbot/internal/domain/user"
)

type upsertCall struct {
	classKey, date, subject, task string
}

type fakeHomeworkStore struct {
	upserts []upsertCall
	deletes []upsertCall
	removed bool
	photos  map[string]string
}

func (s *fakeHomeworkStore) UpsertTask(_ context.Context, classKey, date, subject, task string, _ time.Time) error {
	s.upserts = append(s.upserts, upsertCall{classKey, date, subject, task})
	return nil
}

func (s *fakeHomeworkStore) DeleteTask(_ context.Context, classKey, date, subject string, _ time.Time) (bool, error) {
	s.deletes = append(s.deletes, upsertCall{classKey: classKey, date: date, subject: subject})
	return s.removed, nil
}

func (s *fakeHomeworkStore) SetSchedulePhoto(_ context.Context, classKey, photoID string, _ time.Time) error {
	if s.photos == nil {
		s.photos = map[string]string{}
	}
	s.photos[classKey] = photoID
	return nil
}

func editFixture() (*fakeUserStore, *fakeHomeworkStore) {
	users := newFakeUserStore(
		user.User{ID: "1", Class: "Б9", Role: user.RoleAdmin},
		user.User{ID: "2", Class: "Б9", Role: user.RoleUser},
	)
	return users, &fakeHomeworkStore{}
}

func TestExecuteSaveTask(t *testing.T) {
	users, hw := editFixture()
	deps := SaveTaskDeps{UserStore: users, HomeworkStore: hw}

	got, err := ExecuteSaveTask(context.Background(), SaveTaskInput{
		ActorID: "1", Day: 1, Month: 6, Year: 2025, Subject: "аЛГЕБРА", Task: "  стр. 10-15  ",
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteSaveTask: %v", err)
	}
	if got.Subject != "Алгебра" {
		t.Errorf("subject = %q, want normalized Алгебра", got.Subject)
	}
	if got.Task != "стр. 10-15" {
		t.Errorf("task = %q", got.Task)
	}
	if got.Date != "2025-06-01" {
		t.Errorf("date = %q", got.Date)
	}
	if len(hw.upserts) != 1 || hw.upserts[0].classKey != "Б9" {
		t.Errorf("upserts = %+v", hw.upserts)
	}
}

func TestExecuteSaveTask_EmptyTaskGetsPlaceholder(t *testing.T) {
	users, hw := editFixture()
	deps := SaveTaskDeps{UserStore: users, HomeworkStore: hw}

	got, err := ExecuteSaveTask(context.Background(), SaveTaskInput{
		ActorID: "1", Day: 1, Month: 6, Year: 2025, Subject: "Физика",
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteSaveTask: %v", err)
	}
	if got.Task != homework.NoDescriptionPlaceholder {
		t.Errorf("task = %q, want placeholder", got.Task)
	}
}

func TestExecuteSaveTask_Gating(t *testing.T) {
	users, hw := editFixture()
	deps := SaveTaskDeps{UserStore: users, HomeworkStore: hw}
	valid := SaveTaskInput{Day: 1, Month: 6, Year: 2025, Subject: "Алгебра", Task: "x"}

	tests := []struct {
		name    string
		actorID string
		wantErr error
	}{
		{"plain user", "2", ErrNotAdmin},
		{"unknown user", "99", ErrNotRegistered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			input.ActorID = tt.actorID
			_, err := ExecuteSaveTask(context.Background(), input, deps)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if len(hw.upserts) != 0 {
				t.Errorf("store touched despite rejection: %+v", hw.upserts)
			}
		})
	}
}

func TestExecuteSaveTask_InvalidDateBeforeStore(t *testing.T) {
	users, hw := editFixture()
	deps := SaveTaskDeps{UserStore: users, HomeworkStore: hw}

	_, err := ExecuteSaveTask(context.Background(), SaveTaskInput{
		ActorID: "1", Day: 29, Month: 2, Year: 2023, Subject: "Алгебра", Task: "x",
	}, deps)
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
	if len(hw.upserts) != 0 {
		t.Error("invalid date must be rejected before the store is touched")
	}
}

func TestExecuteDeleteTask(t *testing.T) {
	users, hw := editFixture()
	hw.removed = true
	deps := DeleteTaskDeps{UserStore: users, HomeworkStore: hw}

	removed, err := ExecuteDeleteTask(context.Background(), DeleteTaskInput{
		ActorID: "1", Day: 1, Month: 6, Year: 2025, Subject: "Алгебра",
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteDeleteTask: %v", err)
	}
	if !removed {
		t.Error("removed = false, want true")
	}
	if len(hw.deletes) != 1 || hw.deletes[0].date != "2025-06-01" {
		t.Errorf("deletes = %+v", hw.deletes)
	}
}

func TestExecuteDeleteTask_AbsentEntry(t *testing.T) {
	users, hw := editFixture()
	deps := DeleteTaskDeps{UserStore: users, HomeworkStore: hw}

	removed, err := ExecuteDeleteTask(context.Background(), DeleteTaskInput{
		ActorID: "1", Day: 1, Month: 6, Year: 2025, Subject: "Химия",
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteDeleteTask: %v", err)
	}
	if removed {
		t.Error("removed = true for an entry that never existed")
	}
}

func TestExecuteSetSchedulePhoto(t *testing.T) {
	users, hw := editFixture()
	deps := SetSchedulePhotoDeps{UserStore: users, HomeworkStore: hw}

	class, err := ExecuteSetSchedulePhoto(context.Background(), SetSchedulePhotoInput{ActorID: "1", PhotoID: "file-abc"}, deps)
	if err != nil {
		t.Fatalf("ExecuteSetSchedulePhoto: %v", err)
	}
	if class != "Б9" {
		t.Errorf("class = %q", class)
	}
	if hw.photos["Б9"] != "file-abc" {
		t.Errorf("photos = %+v", hw.photos)
	}

	if _, err := ExecuteSetSchedulePhoto(context.Background(), SetSchedulePhotoInput{ActorID: "2", PhotoID: "file-abc"}, deps); !errors.Is(err, ErrNotAdmin) {
		t.Errorf("err = %v, want ErrNotAdmin", err)
	}
}
