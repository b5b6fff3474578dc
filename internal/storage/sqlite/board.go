package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/quadroapp/quadro/internal/storage"
)

const countBoardsForUserSQL = `
SELECT COUNT(*) FROM (
    SELECT id AS board_id FROM boards WHERE owner_id = ?
    UNION
    SELECT board_id FROM board_members WHERE user_id = ?
)
`

// CreateBoard inserts a board, guarding the owner's derived board count
// against maxUserBoards inside the same transaction.
func (s *Store) CreateBoard(ctx context.Context, board storage.BoardRecord, maxUserBoards int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.guard(); err != nil {
		return err
	}
	if strings.TrimSpace(board.ID) == "" {
		return fmt.Errorf("board id is required")
	}
	if strings.TrimSpace(board.OwnerID) == "" {
		return fmt.Errorf("board owner id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin board create: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback board create: %v", cause, rollbackErr)
		}
		return cause
	}

	if maxUserBoards > 0 {
		count, err := countBoardsForUser(ctx, tx, board.OwnerID)
		if err != nil {
			return rollbackWith(err)
		}
		if count >= maxUserBoards {
			return rollbackWith(storage.ErrUserBoardLimit)
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO boards (id, title, owner_id, color, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, board.ID, board.Title, board.OwnerID, board.Color, toMillis(board.CreatedAt), toMillis(board.UpdatedAt)); err != nil {
		if isUniqueViolation(err) {
			return rollbackWith(storage.ErrAlreadyExists)
		}
		return rollbackWith(fmt.Errorf("insert board: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit board create: %w", err)
	}
	return nil
}

// GetBoard loads one board by id.
func (s *Store) GetBoard(ctx context.Context, boardID string) (storage.BoardRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.BoardRecord{}, err
	}
	if err := s.guard(); err != nil {
		return storage.BoardRecord{}, err
	}
	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		return storage.BoardRecord{}, fmt.Errorf("board id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, title, owner_id, color, created_at, updated_at
FROM boards
WHERE id = ?
`, boardID)
	record, err := scanBoard(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.BoardRecord{}, storage.ErrNotFound
		}
		return storage.BoardRecord{}, fmt.Errorf("get board: %w", err)
	}
	return record, nil
}

// UpdateBoard persists title, color, and updated timestamp for one board.
func (s *Store) UpdateBoard(ctx context.Context, board storage.BoardRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.guard(); err != nil {
		return err
	}
	if strings.TrimSpace(board.ID) == "" {
		return fmt.Errorf("board id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE boards SET title = ?, color = ?, updated_at = ? WHERE id = ?
`, board.Title, board.Color, toMillis(board.UpdatedAt), board.ID)
	if err != nil {
		return fmt.Errorf("update board: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update board rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteBoard removes one board; members, invitations, lists, and tasks
// follow via foreign-key cascade.
func (s *Store) DeleteBoard(ctx context.Context, boardID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.guard(); err != nil {
		return err
	}
	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		return fmt.Errorf("board id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, boardID)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete board rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListBoardsForUser returns boards the user owns or is a member of,
// oldest first.
func (s *Store) ListBoardsForUser(ctx context.Context, userID string) ([]storage.BoardRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.guard(); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT b.id, b.title, b.owner_id, b.color, b.created_at, b.updated_at
FROM boards b
WHERE b.owner_id = ?
   OR EXISTS (SELECT 1 FROM board_members m WHERE m.board_id = b.id AND m.user_id = ?)
ORDER BY b.created_at ASC, b.id ASC
`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list boards for user: %w", err)
	}
	defer rows.Close()

	var records []storage.BoardRecord
	for rows.Next() {
		record, err := scanBoard(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate boards: %w", err)
	}
	return records, nil
}

// ListBoardMembers returns the member rows of one board, oldest first.
func (s *Store) ListBoardMembers(ctx context.Context, boardID string) ([]storage.MemberRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.guard(); err != nil {
		return nil, err
	}
	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		return nil, fmt.Errorf("board id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT board_id, user_id, added_at
FROM board_members
WHERE board_id = ?
ORDER BY added_at ASC, user_id ASC
`, boardID)
	if err != nil {
		return nil, fmt.Errorf("list board members: %w", err)
	}
	defer rows.Close()

	var records []storage.MemberRecord
	for rows.Next() {
		var record storage.MemberRecord
		var addedAt int64
		if err := rows.Scan(&record.BoardID, &record.UserID, &addedAt); err != nil {
			return nil, fmt.Errorf("scan board member: %w", err)
		}
		record.AddedAt = fromMillis(addedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate board members: %w", err)
	}
	return records, nil
}

// IsBoardMember reports whether the user has a membership row on the board.
// The owner is not a member row and reports false here.
func (s *Store) IsBoardMember(ctx context.Context, boardID string, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := s.guard(); err != nil {
		return false, err
	}

	var found int
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT 1 FROM board_members WHERE board_id = ? AND user_id = ?
`, strings.TrimSpace(boardID), strings.TrimSpace(userID)).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check board member: %w", err)
	}
	return true, nil
}

// CountBoardMembers returns the number of member rows on one board.
func (s *Store) CountBoardMembers(ctx context.Context, boardID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.guard(); err != nil {
		return 0, err
	}

	return countBoardMembers(ctx, s.sqlDB, strings.TrimSpace(boardID))
}

// CountBoardsForUser counts distinct boards where the user is owner or member.
func (s *Store) CountBoardsForUser(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.guard(); err != nil {
		return 0, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("user id is required")
	}

	return countBoardsForUser(ctx, s.sqlDB, userID)
}

// countBoardsForUser runs the owner-or-member board count against either
// the live connection or an open transaction.
func countBoardsForUser(ctx context.Context, q execer, userID string) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, countBoardsForUserSQL, userID, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count boards for user: %w", err)
	}
	return count, nil
}

func countBoardMembers(ctx context.Context, q execer, boardID string) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, `
SELECT COUNT(*) FROM board_members WHERE board_id = ?
`, boardID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count board members: %w", err)
	}
	return count, nil
}

func scanBoard(scan func(dest ...any) error) (storage.BoardRecord, error) {
	var record storage.BoardRecord
	var createdAt, updatedAt int64
	if err := scan(&record.ID, &record.Title, &record.OwnerID, &record.Color, &createdAt, &updatedAt); err != nil {
		return storage.BoardRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
