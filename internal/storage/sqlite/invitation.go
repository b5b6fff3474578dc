package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quadroapp/quadro/internal/storage"
)

// CreateInvitation inserts one pending invitation row. The partial unique
// index on (board_id, invited_user_id) WHERE status='pending' rejects a
// concurrent duplicate with ErrAlreadyExists.
func (s *Store) CreateInvitation(ctx context.Context, invitation storage.InvitationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.guard(); err != nil {
		return err
	}
	if strings.TrimSpace(invitation.ID) == "" {
		return fmt.Errorf("invitation id is required")
	}
	if strings.TrimSpace(invitation.BoardID) == "" {
		return fmt.Errorf("invitation board id is required")
	}
	if strings.TrimSpace(invitation.InvitedUserID) == "" {
		return fmt.Errorf("invitation invited user id is required")
	}
	status := invitation.Status
	if status == "" {
		status = storage.InvitationStatusPending
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO invitations (id, board_id, invited_user_id, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`, invitation.ID, invitation.BoardID, invitation.InvitedUserID, status, toMillis(invitation.CreatedAt), toMillis(invitation.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

// GetInvitation loads one invitation by id.
func (s *Store) GetInvitation(ctx context.Context, invitationID string) (storage.InvitationRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.InvitationRecord{}, err
	}
	if err := s.guard(); err != nil {
		return storage.InvitationRecord{}, err
	}
	invitationID = strings.TrimSpace(invitationID)
	if invitationID == "" {
		return storage.InvitationRecord{}, fmt.Errorf("invitation id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, board_id, invited_user_id, status, created_at, updated_at
FROM invitations
WHERE id = ?
`, invitationID)
	record, err := scanInvitation(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.InvitationRecord{}, storage.ErrNotFound
		}
		return storage.InvitationRecord{}, fmt.Errorf("get invitation: %w", err)
	}
	return record, nil
}

// ListInvitationsForUser returns invitations visible to the user: those
// targeting them plus those on boards they own, newest first.
func (s *Store) ListInvitationsForUser(ctx context.Context, userID string) ([]storage.InvitationRecord, error) {
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
SELECT i.id, i.board_id, i.invited_user_id, i.status, i.created_at, i.updated_at
FROM invitations i
JOIN boards b ON b.id = i.board_id
WHERE i.invited_user_id = ? OR b.owner_id = ?
ORDER BY i.created_at DESC, i.id DESC
`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list invitations for user: %w", err)
	}
	defer rows.Close()

	var records []storage.InvitationRecord
	for rows.Next() {
		record, err := scanInvitation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invitations: %w", err)
	}
	return records, nil
}

// AcceptInvitation adds the invited user to the board and marks the
// invitation accepted in a single immediate transaction. Both capacity
// limits are re-checked inside the transaction so concurrent accepts cannot
// overshoot either cap.
func (s *Store) AcceptInvitation(ctx context.Context, params storage.AcceptInvitationParams) (storage.InvitationRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.InvitationRecord{}, err
	}
	if err := s.guard(); err != nil {
		return storage.InvitationRecord{}, err
	}
	invitationID := strings.TrimSpace(params.InvitationID)
	if invitationID == "" {
		return storage.InvitationRecord{}, fmt.Errorf("invitation id is required")
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.InvitationRecord{}, fmt.Errorf("begin invitation accept: %w", err)
	}
	rollbackWith := func(cause error) (storage.InvitationRecord, error) {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return storage.InvitationRecord{}, fmt.Errorf("%w: rollback invitation accept: %v", cause, rollbackErr)
		}
		return storage.InvitationRecord{}, cause
	}

	row := tx.QueryRowContext(ctx, `
SELECT id, board_id, invited_user_id, status, created_at, updated_at
FROM invitations
WHERE id = ?
`, invitationID)
	record, err := scanInvitation(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rollbackWith(storage.ErrNotFound)
		}
		return rollbackWith(fmt.Errorf("load invitation: %w", err))
	}
	if record.Status != storage.InvitationStatusPending {
		return rollbackWith(storage.ErrInvitationNotPending)
	}

	if params.MaxBoardMembers > 0 {
		memberCount, err := countBoardMembers(ctx, tx, record.BoardID)
		if err != nil {
			return rollbackWith(err)
		}
		if memberCount >= params.MaxBoardMembers {
			return rollbackWith(storage.ErrBoardMemberLimit)
		}
	}

	if params.MaxUserBoards > 0 {
		boardCount, err := countBoardsForUser(ctx, tx, record.InvitedUserID)
		if err != nil {
			return rollbackWith(err)
		}
		if boardCount >= params.MaxUserBoards {
			return rollbackWith(storage.ErrUserBoardLimit)
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO board_members (board_id, user_id, added_at)
VALUES (?, ?, ?)
`, record.BoardID, record.InvitedUserID, toMillis(now)); err != nil {
		if isUniqueViolation(err) {
			return rollbackWith(storage.ErrAlreadyExists)
		}
		return rollbackWith(fmt.Errorf("insert board member: %w", err))
	}

	result, err := tx.ExecContext(ctx, `
UPDATE invitations SET status = ?, updated_at = ? WHERE id = ? AND status = ?
`, storage.InvitationStatusAccepted, toMillis(now), invitationID, storage.InvitationStatusPending)
	if err != nil {
		return rollbackWith(fmt.Errorf("mark invitation accepted: %w", err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return rollbackWith(fmt.Errorf("mark invitation accepted rows affected: %w", err))
	}
	if affected == 0 {
		return rollbackWith(storage.ErrInvitationNotPending)
	}

	if err := tx.Commit(); err != nil {
		return storage.InvitationRecord{}, fmt.Errorf("commit invitation accept: %w", err)
	}

	record.Status = storage.InvitationStatusAccepted
	record.UpdatedAt = now.UTC()
	return record, nil
}

// RejectInvitation marks a pending invitation rejected. Terminal invitations
// are left untouched and report ErrInvitationNotPending.
func (s *Store) RejectInvitation(ctx context.Context, invitationID string, now time.Time) (storage.InvitationRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.InvitationRecord{}, err
	}
	if err := s.guard(); err != nil {
		return storage.InvitationRecord{}, err
	}
	invitationID = strings.TrimSpace(invitationID)
	if invitationID == "" {
		return storage.InvitationRecord{}, fmt.Errorf("invitation id is required")
	}
	if now.IsZero() {
		now = time.Now()
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE invitations SET status = ?, updated_at = ? WHERE id = ? AND status = ?
`, storage.InvitationStatusRejected, toMillis(now), invitationID, storage.InvitationStatusPending)
	if err != nil {
		return storage.InvitationRecord{}, fmt.Errorf("mark invitation rejected: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storage.InvitationRecord{}, fmt.Errorf("mark invitation rejected rows affected: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing invitation from an already-processed one.
		if _, getErr := s.GetInvitation(ctx, invitationID); getErr != nil {
			return storage.InvitationRecord{}, getErr
		}
		return storage.InvitationRecord{}, storage.ErrInvitationNotPending
	}

	return s.GetInvitation(ctx, invitationID)
}

func scanInvitation(scan func(dest ...any) error) (storage.InvitationRecord, error) {
	var record storage.InvitationRecord
	var createdAt, updatedAt int64
	if err := scan(&record.ID, &record.BoardID, &record.InvitedUserID, &record.Status, &createdAt, &updatedAt); err != nil {
		return storage.InvitationRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
