package homework_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"homeworkbot/internal/adapters/storage"
	hwStore "homeworkbot/internal/adapters/storage/homework"
)

func newTestStore(t *testing.T) *hwStore.SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}
	return hwStore.NewSQLiteStore(db)
}

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// TestGetByClass_Absent verifies an unknown class reads as an empty record.
func TestGetByClass_Absent(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetByClass(context.Background(), "Б9")
	if err != nil {
		t.Fatalf("GetByClass failed: %v", err)
	}
	if got.ClassKey != "Б9" {
		t.Errorf("class key = %q", got.ClassKey)
	}
	if len(got.Data) != 0 {
		t.Errorf("expected empty data, got %v", got.Data)
	}
}

// TestUpsertReadDeletePrune verifies the write-read-delete round trip and
// that an emptied date key is pruned from the stored document.
func TestUpsertReadDeletePrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertTask(ctx, "Б9", "2025-06-01", "Алгебра", "стр. 10-15", now); err != nil {
		t.Fatalf("UpsertTask failed: %v", err)
	}

	set, err := store.GetByClass(ctx, "Б9")
	if err != nil {
		t.Fatalf("GetByClass failed: %v", err)
	}
	if got := set.Data["2025-06-01"]["Алгебра"]; got != "стр. 10-15" {
		t.Errorf("read back %q", got)
	}

	removed, err := store.DeleteTask(ctx, "Б9", "2025-06-01", "Алгебра", now)
	if err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if !removed {
		t.Error("DeleteTask reported nothing removed")
	}

	set, err = store.GetByClass(ctx, "Б9")
	if err != nil {
		t.Fatalf("GetByClass failed: %v", err)
	}
	if _, ok := set.Data["2025-06-01"]; ok {
		t.Error("emptied date key was not pruned from the stored document")
	}

	removed, err = store.DeleteTask(ctx, "Б9", "2025-06-01", "Алгебра", now)
	if err != nil {
		t.Fatalf("second DeleteTask failed: %v", err)
	}
	if removed {
		t.Error("second delete should report nothing removed")
	}
}

// TestUpsertMergesSubjects verifies two writes to the same date keep both
// subjects.
func TestUpsertMergesSubjects(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertTask(ctx, "Б9", "2025-06-01", "Алгебра", "стр. 10", now); err != nil {
		t.Fatalf("UpsertTask failed: %v", err)
	}
	if err := store.UpsertTask(ctx, "Б9", "2025-06-01", "Физика", "параграф 3", now); err != nil {
		t.Fatalf("UpsertTask failed: %v", err)
	}

	set, err := store.GetByClass(ctx, "Б9")
	if err != nil {
		t.Fatalf("GetByClass failed: %v", err)
	}
	day := set.Data["2025-06-01"]
	if len(day) != 2 || day["Алгебра"] != "стр. 10" || day["Физика"] != "параграф 3" {
		t.Errorf("merge lost a subject: %v", day)
	}
}

// TestClassIsolation verifies records are partitioned by class.
func TestClassIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertTask(ctx, "Б9", "2025-06-01", "Алгебра", "стр. 10-15", now); err != nil {
		t.Fatalf("UpsertTask failed: %v", err)
	}

	other, err := store.GetByClass(ctx, "А9")
	if err != nil {
		t.Fatalf("GetByClass failed: %v", err)
	}
	if len(other.Data) != 0 {
		t.Errorf("class А9 sees Б9 data: %v", other.Data)
	}
}

// TestSetSchedulePhoto verifies the image reference upsert, both on a fresh
// class and alongside existing homework data.
func TestSetSchedulePhoto(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.SetSchedulePhoto(ctx, "Б9", "file-1", now); err != nil {
		t.Fatalf("SetSchedulePhoto on fresh class failed: %v", err)
	}

	if err := store.UpsertTask(ctx, "Б9", "2025-06-01", "Алгебра", "стр. 10", now); err != nil {
		t.Fatalf("UpsertTask failed: %v", err)
	}
	if err := store.SetSchedulePhoto(ctx, "Б9", "file-2", now); err != nil {
		t.Fatalf("SetSchedulePhoto update failed: %v", err)
	}

	set, err := store.GetByClass(ctx, "Б9")
	if err != nil {
		t.Fatalf("GetByClass failed: %v", err)
	}
	if set.SchedulePhotoID != "file-2" {
		t.Errorf("schedule photo = %q, want file-2", set.SchedulePhotoID)
	}
	if set.Data["2025-06-01"]["Алгебра"] != "стр. 10" {
		t.Error("photo update clobbered homework data")
	}
}
