package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/quadroapp/quadro/internal/storage"
)

// PutUser inserts or replaces one user row.
func (s *Store) PutUser(ctx context.Context, user storage.UserRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.guard(); err != nil {
		return err
	}
	if strings.TrimSpace(user.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("user email is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO users (id, name, email, preferred_language, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    email = excluded.email,
    preferred_language = excluded.preferred_language,
    updated_at = excluded.updated_at
`, user.ID, user.Name, user.Email, user.PreferredLanguage, toMillis(user.CreatedAt), toMillis(user.UpdatedAt))
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// GetUser loads one user by id.
func (s *Store) GetUser(ctx context.Context, userID string) (storage.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.UserRecord{}, err
	}
	if err := s.guard(); err != nil {
		return storage.UserRecord{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.UserRecord{}, fmt.Errorf("user id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, email, preferred_language, created_at, updated_at
FROM users
WHERE id = ?
`, userID)
	record, err := scanUser(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.UserRecord{}, storage.ErrNotFound
		}
		return storage.UserRecord{}, fmt.Errorf("get user: %w", err)
	}
	return record, nil
}

// FindUsersByEmail returns every user whose email matches case-insensitively.
func (s *Store) FindUsersByEmail(ctx context.Context, email string) ([]storage.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.guard(); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, email, preferred_language, created_at, updated_at
FROM users
WHERE LOWER(email) = ?
ORDER BY created_at ASC, id ASC
`, email)
	if err != nil {
		return nil, fmt.Errorf("find users by email: %w", err)
	}
	defer rows.Close()

	var records []storage.UserRecord
	for rows.Next() {
		record, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return records, nil
}

func scanUser(scan func(dest ...any) error) (storage.UserRecord, error) {
	var record storage.UserRecord
	var createdAt, updatedAt int64
	if err := scan(&record.ID, &record.Name, &record.Email, &record.PreferredLanguage, &createdAt, &updatedAt); err != nil {
		return storage.UserRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
