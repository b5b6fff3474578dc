// Package storage defines persistence contracts for board, membership,
// invitation, and task state.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
var ErrAlreadyExists = errors.New("record already exists")

// ErrInvitationNotPending indicates an invitation is already in a terminal state.
var ErrInvitationNotPending = errors.New("invitation is not pending")

// ErrBoardMemberLimit indicates a board is at its member capacity.
var ErrBoardMemberLimit = errors.New("board member limit reached")

// ErrUserBoardLimit indicates a user is at their board capacity.
var ErrUserBoardLimit = errors.New("user board limit reached")

// Invitation status values persisted in the invitations table.
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusRejected = "rejected"
)

// UserRecord stores one account known to the board service.
type UserRecord struct {
	ID                string
	Name              string
	Email             string
	PreferredLanguage string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BoardRecord stores one board with its owner reference.
// The owner is never present in the board_members rows.
type BoardRecord struct {
	ID        string
	Title     string
	OwnerID   string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MemberRecord stores one board membership row.
type MemberRecord struct {
	BoardID string
	UserID  string
	AddedAt time.Time
}

// InvitationRecord stores one board invitation with its lifecycle status.
type InvitationRecord struct {
	ID            string
	BoardID       string
	InvitedUserID string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ListRecord stores one list within a board.
type ListRecord struct {
	ID        string
	BoardID   string
	Title     string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskRecord stores one task within a list.
type TaskRecord struct {
	ID          string
	ListID      string
	Title       string
	Description string
	DueDate     *time.Time
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AcceptInvitationParams carries the capacity limits re-checked inside the
// accept transaction. Both limits are re-validated at accept time because the
// board or the invited user's memberships may have changed since the invite
// was created.
type AcceptInvitationParams struct {
	InvitationID    string
	MaxBoardMembers int
	MaxUserBoards   int
	Now             time.Time
}

// UserStore persists account records.
type UserStore interface {
	PutUser(ctx context.Context, user UserRecord) error
	GetUser(ctx context.Context, userID string) (UserRecord, error)
	// FindUsersByEmail matches email case-insensitively and returns every
	// account sharing the address.
	FindUsersByEmail(ctx context.Context, email string) ([]UserRecord, error)
}

// BoardStore persists boards and their member sets.
type BoardStore interface {
	// CreateBoard inserts a board after checking the owner's derived board
	// count against maxUserBoards inside the same transaction. Returns
	// ErrUserBoardLimit when the owner is at capacity.
	CreateBoard(ctx context.Context, board BoardRecord, maxUserBoards int) error
	GetBoard(ctx context.Context, boardID string) (BoardRecord, error)
	UpdateBoard(ctx context.Context, board BoardRecord) error
	DeleteBoard(ctx context.Context, boardID string) error
	// ListBoardsForUser returns boards the user owns or is a member of.
	ListBoardsForUser(ctx context.Context, userID string) ([]BoardRecord, error)
	ListBoardMembers(ctx context.Context, boardID string) ([]MemberRecord, error)
	IsBoardMember(ctx context.Context, boardID string, userID string) (bool, error)
	CountBoardMembers(ctx context.Context, boardID string) (int, error)
	// CountBoardsForUser counts distinct boards where the user is owner or
	// member.
	CountBoardsForUser(ctx context.Context, userID string) (int, error)
}

// InvitationStore persists the invitation lifecycle.
type InvitationStore interface {
	// CreateInvitation inserts a pending invitation. Returns ErrAlreadyExists
	// when a pending invitation for the same (board, user) pair exists; the
	// uniqueness is constraint-backed so concurrent creates cannot both
	// succeed.
	CreateInvitation(ctx context.Context, invitation InvitationRecord) error
	GetInvitation(ctx context.Context, invitationID string) (InvitationRecord, error)
	// ListInvitationsForUser returns invitations visible to the user: those
	// targeting them plus those on boards they own.
	ListInvitationsForUser(ctx context.Context, userID string) ([]InvitationRecord, error)
	// AcceptInvitation atomically re-checks both capacity limits, adds the
	// invited user to the board members, and marks the invitation accepted.
	// Returns ErrInvitationNotPending, ErrBoardMemberLimit, or
	// ErrUserBoardLimit without mutating anything when a guard fails.
	AcceptInvitation(ctx context.Context, params AcceptInvitationParams) (InvitationRecord, error)
	// RejectInvitation marks a pending invitation rejected. Returns
	// ErrInvitationNotPending when the invitation is already terminal.
	RejectInvitation(ctx context.Context, invitationID string, now time.Time) (InvitationRecord, error)
}

// TaskListStore persists lists and tasks within boards.
type TaskListStore interface {
	CreateList(ctx context.Context, list ListRecord) error
	GetList(ctx context.Context, listID string) (ListRecord, error)
	UpdateList(ctx context.Context, list ListRecord) error
	DeleteList(ctx context.Context, listID string) error
	ListListsForBoard(ctx context.Context, boardID string) ([]ListRecord, error)

	CreateTask(ctx context.Context, task TaskRecord) error
	GetTask(ctx context.Context, taskID string) (TaskRecord, error)
	UpdateTask(ctx context.Context, task TaskRecord) error
	DeleteTask(ctx context.Context, taskID string) error
	ListTasksForList(ctx context.Context, listID string) ([]TaskRecord, error)

	AddTaskAssignee(ctx context.Context, taskID string, userID string) error
	RemoveTaskAssignee(ctx context.Context, taskID string, userID string) error
	ListTaskAssignees(ctx context.Context, taskID string) ([]string, error)
}
