// Package invitation implements the board invitation lifecycle: a pending
// invitation is accepted or rejected exactly once, and acceptance is the
// only path onto a board's member list.
package invitation

import (
	"time"

	"github.com/quadroapp/quadro/internal/storage"
)

// Status is the lifecycle state of an invitation.
type Status string

// Invitation lifecycle states. Accepted and rejected are terminal.
const (
	StatusPending  Status = Status(storage.InvitationStatusPending)
	StatusAccepted Status = Status(storage.InvitationStatusAccepted)
	StatusRejected Status = Status(storage.InvitationStatusRejected)
)

// Invitation is one request for a user to join a board.
type Invitation struct {
	ID            string
	BoardID       string
	InvitedUserID string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func fromRecord(record storage.InvitationRecord) Invitation {
	return Invitation{
		ID:            record.ID,
		BoardID:       record.BoardID,
		InvitedUserID: record.InvitedUserID,
		Status:        Status(record.Status),
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}

// Notice describes one created invitation for asynchronous delivery to the
// invited user.
type Notice struct {
	InvitationID  string
	BoardID       string
	BoardTitle    string
	InviterID     string
	InvitedUserID string
}

// Notifier receives created-invitation notices. Delivery is best effort
// and must never fail invitation creation.
type Notifier interface {
	InvitationCreated(notice Notice)
}
