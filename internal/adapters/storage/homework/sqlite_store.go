package homework

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"homeworkbot/internal/adapters/storage"
	domain "homeworkbot/internal/domain/homework"
)

const timeLayout = time.RFC3339

// SQLiteStore implements Store using SQLite. The date→subject→task map is
// stored as a JSON document per class; every mutation runs read-merge-write
// inside one transaction.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new homework store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByClass retrieves the class record.
// POST: Returns a zero Set with ClassKey filled when the class has no record
func (s *SQLiteStore) GetByClass(ctx context.Context, classKey string) (domain.Set, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT class_key, data, schedule_photo_id, updated_at FROM homework WHERE class_key = ?", classKey)

	entity, err := scanSet(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Set{ClassKey: classKey, Data: domain.DateMap{}}, nil
	}
	if err != nil {
		return domain.Set{}, fmt.Errorf("get homework for class %s: %w", classKey, err)
	}
	return entity, nil
}

// UpsertTask writes one (date, subject) entry, merging with the stored map.
// PRE: subject has been normalized, date is a valid ISO date key
// POST: the stored map contains task at (date, subject), other entries intact
func (s *SQLiteStore) UpsertTask(ctx context.Context, classKey, date, subject, task string, now time.Time) error {
	return s.mutate(ctx, classKey, now, func(m domain.DateMap) {
		m.SetTask(date, subject, task)
	})
}

// DeleteTask removes one (date, subject) entry, pruning the date when empty.
func (s *SQLiteStore) DeleteTask(ctx context.Context, classKey, date, subject string, now time.Time) (bool, error) {
	removed := false
	err := s.mutate(ctx, classKey, now, func(m domain.DateMap) {
		removed = m.DeleteTask(date, subject)
	})
	return removed, err
}

// SetSchedulePhoto stores the schedule image reference for the class,
// creating the record when absent.
func (s *SQLiteStore) SetSchedulePhoto(ctx context.Context, classKey, photoID string, now time.Time) error {
	query := `INSERT INTO homework (class_key, data, schedule_photo_id, updated_at)
		VALUES (?, '{}', ?, ?)
		ON CONFLICT(class_key) DO UPDATE SET
			schedule_photo_id=excluded.schedule_photo_id,
			updated_at=excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, classKey, photoID, now.UTC().Format(timeLayout)); err != nil {
		return fmt.Errorf("set schedule photo for class %s: %w", classKey, err)
	}
	return nil
}

// mutate runs a read-merge-write cycle on the class's date map in one
// transaction.
func (s *SQLiteStore) mutate(ctx context.Context, classKey string, now time.Time, fn func(domain.DateMap)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin homework mutation: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx, "SELECT data FROM homework WHERE class_key = ?", classKey).Scan(&raw)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("read homework for class %s: %w", classKey, err)
	}

	data := domain.DateMap{}
	if err == nil {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return fmt.Errorf("unmarshal homework data for class %s: %w", classKey, err)
		}
	}

	fn(data)

	merged, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal homework data: %w", err)
	}

	query := `INSERT INTO homework (class_key, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(class_key) DO UPDATE SET
			data=excluded.data,
			updated_at=excluded.updated_at`
	if _, err := tx.ExecContext(ctx, query, classKey, string(merged), now.UTC().Format(timeLayout)); err != nil {
		return fmt.Errorf("write homework for class %s: %w", classKey, err)
	}

	return tx.Commit()
}

// scanSet reads one homework row.
func scanSet(scan func(dest ...any) error) (domain.Set, error) {
	var entity domain.Set
	var raw, updatedAt string
	var photoID sql.NullString

	if err := scan(&entity.ClassKey, &raw, &photoID, &updatedAt); err != nil {
		return domain.Set{}, err
	}

	entity.Data = domain.DateMap{}
	if err := json.Unmarshal([]byte(raw), &entity.Data); err != nil {
		return domain.Set{}, fmt.Errorf("unmarshal homework data: %w", err)
	}
	if photoID.Valid {
		entity.SchedulePhotoID = photoID.String
	}
	if t, err := time.Parse(timeLayout, updatedAt); err == nil {
		entity.UpdatedAt = t
	}
	return entity, nil
}
