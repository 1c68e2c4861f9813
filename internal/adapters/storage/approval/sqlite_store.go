package approval

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"homeworkbot/internal/adapters/storage"
	domain "homeworkbot/internal/domain/approval"
)

const timeLayout = time.RFC3339

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new admin-request store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Request by its id.
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Request, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, class, status, created_at, decided_at, decided_by FROM admin_request WHERE id = ?", id)
	entity, err := scanRequest(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Request{}, ErrNotFound
	}
	return entity, err
}

// Save persists a Request (insert or update).
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Request) error {
	var decidedAt, decidedBy any
	if !entity.DecidedAt.IsZero() {
		decidedAt = entity.DecidedAt.UTC().Format(timeLayout)
	}
	if entity.DecidedBy != "" {
		decidedBy = entity.DecidedBy
	}

	query := `INSERT INTO admin_request (id, user_id, class, status, created_at, decided_at, decided_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status=excluded.status,
			decided_at=excluded.decided_at,
			decided_by=excluded.decided_by`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.UserID,
		entity.Class,
		entity.Status,
		entity.CreatedAt.UTC().Format(timeLayout),
		decidedAt,
		decidedBy,
	)
	if err != nil {
		return fmt.Errorf("save admin request %s: %w", entity.ID, err)
	}
	return nil
}

// PendingByUser lists the user's undecided requests.
func (s *SQLiteStore) PendingByUser(ctx context.Context, userID string) ([]domain.Request, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, class, status, created_at, decided_at, decided_by FROM admin_request WHERE user_id = ? AND status = ? ORDER BY created_at",
		userID, domain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending requests for user %s: %w", userID, err)
	}
	defer rows.Close()

	var requests []domain.Request
	for rows.Next() {
		entity, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan admin request row: %w", err)
		}
		requests = append(requests, entity)
	}
	return requests, rows.Err()
}

func scanRequest(scan func(dest ...any) error) (domain.Request, error) {
	var entity domain.Request
	var createdAt string
	var decidedAt, decidedBy sql.NullString

	err := scan(&entity.ID, &entity.UserID, &entity.Class, &entity.Status, &createdAt, &decidedAt, &decidedBy)
	if err != nil {
		return domain.Request{}, err
	}

	if t, err := time.Parse(timeLayout, createdAt); err == nil {
		entity.CreatedAt = t
	}
	if decidedAt.Valid {
		if t, err := time.Parse(timeLayout, decidedAt.String); err == nil {
			entity.DecidedAt = t
		}
	}
	if decidedBy.Valid {
		entity.DecidedBy = decidedBy.String
	}
	return entity, nil
}
