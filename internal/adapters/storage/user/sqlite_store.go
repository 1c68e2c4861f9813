package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"homeworkbot/internal/adapters/storage"
	domain "homeworkbot/internal/domain/user"
)

// timeLayout is how timestamps are stored (TEXT columns).
const timeLayout = time.RFC3339

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new user store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const userColumns = "id, username, first_name, last_name, class, role, registered_at, notifications_enabled, custom_keyboard, homework_views, last_active"

// GetByID retrieves a User by its id.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM user WHERE id = ?", id)
	entity, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return domain.User{}, ErrNotFound
	}
	return entity, err
}

// Save persists a User to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.User) error {
	keyboard, err := json.Marshal(entity.CustomKeyboard)
	if err != nil {
		return fmt.Errorf("marshal custom keyboard: %w", err)
	}
	var lastActive any
	if !entity.Stats.LastActive.IsZero() {
		lastActive = entity.Stats.LastActive.UTC().Format(timeLayout)
	}

	query := `INSERT INTO user (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username=excluded.username,
			first_name=excluded.first_name,
			last_name=excluded.last_name,
			class=excluded.class,
			role=excluded.role,
			notifications_enabled=excluded.notifications_enabled,
			custom_keyboard=excluded.custom_keyboard,
			homework_views=excluded.homework_views,
			last_active=excluded.last_active`

	_, err = s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Username,
		entity.FirstName,
		entity.LastName,
		entity.Class,
		string(entity.Role),
		entity.RegisteredAt.UTC().Format(timeLayout),
		boolToInt(entity.NotificationsEnabled),
		string(keyboard),
		entity.Stats.HomeworkViews,
		lastActive,
	)
	if err != nil {
		return fmt.Errorf("save user %s: %w", entity.ID, err)
	}
	return nil
}

// Delete removes a User by id. Deleting an absent user is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM user WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}

// ListByClass retrieves every user registered in the given class.
func (s *SQLiteStore) ListByClass(ctx context.Context, classKey string) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM user WHERE class = ? ORDER BY registered_at", classKey)
	if err != nil {
		return nil, fmt.Errorf("list users by class %s: %w", classKey, err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		entity, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, entity)
	}
	return users, rows.Err()
}

// TouchStats increments homework_views and bumps last_active in one statement.
// Best-effort callers may ignore the returned error.
func (s *SQLiteStore) TouchStats(ctx context.Context, id string, now time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE user SET homework_views = homework_views + 1, last_active = ? WHERE id = ?",
		now.UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("touch stats for user %s: %w", id, err)
	}
	return nil
}

// scanUser reads one user row via the given scan function.
func scanUser(scan func(dest ...any) error) (domain.User, error) {
	var entity domain.User
	var role, registeredAt, keyboard string
	var notifications int
	var lastActive sql.NullString

	err := scan(
		&entity.ID,
		&entity.Username,
		&entity.FirstName,
		&entity.LastName,
		&entity.Class,
		&role,
		&registeredAt,
		&notifications,
		&keyboard,
		&entity.Stats.HomeworkViews,
		&lastActive,
	)
	if err != nil {
		return domain.User{}, err
	}

	entity.Role = domain.Role(role)
	entity.NotificationsEnabled = notifications != 0
	if t, err := time.Parse(timeLayout, registeredAt); err == nil {
		entity.RegisteredAt = t
	}
	if lastActive.Valid {
		if t, err := time.Parse(timeLayout, lastActive.String); err == nil {
			entity.Stats.LastActive = t
		}
	}
	if err := json.Unmarshal([]byte(keyboard), &entity.CustomKeyboard); err != nil {
		return domain.User{}, fmt.Errorf("unmarshal custom keyboard: %w", err)
	}
	return entity, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
