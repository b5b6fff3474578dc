package invitation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quadroapp/quadro/internal/board"
	apperrors "github.com/quadroapp/quadro/internal/platform/errors"
	"github.com/quadroapp/quadro/internal/platform/id"
	"github.com/quadroapp/quadro/internal/storage"
)

// ErrStoreNotConfigured indicates the service is missing persistence wiring.
var ErrStoreNotConfigured = errors.New("invitation store is not configured")

// CreateInput describes one invitation request. Exactly one of
// InvitedUserID and InvitedEmail identifies the target.
type CreateInput struct {
	InviterID     string
	BoardID       string
	InvitedUserID string
	InvitedEmail  string
}

// Service orchestrates the invitation state machine.
type Service struct {
	store    storage.InvitationStore
	boards   storage.BoardStore
	users    storage.UserStore
	limits   board.Limits
	notifier Notifier
	clock    func() time.Time
	newID    func() (string, error)
}

// NewService constructs invitation domain use-cases. The notifier may be
// nil; creation then skips delivery.
func NewService(store storage.InvitationStore, boards storage.BoardStore, users storage.UserStore, limits board.Limits, notifier Notifier, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		store:    store,
		boards:   boards,
		users:    users,
		limits:   limits,
		notifier: notifier,
		clock:    clock,
		newID:    newID,
	}
}

// Create validates and persists a pending invitation on a board the caller
// owns, then schedules an asynchronous notice to the invited user.
//
// The target must be exactly one of user id or email. An email resolving to
// zero accounts or to more than one account is rejected. Users already on
// the board, a board at member capacity (when invite-time enforcement is
// on), and an invited user at board capacity are all rejected. A pending
// invitation for the same pair is rejected by a storage uniqueness
// constraint, so two concurrent creates cannot both succeed.
func (s *Service) Create(ctx context.Context, input CreateInput) (Invitation, error) {
	if s == nil || s.store == nil || s.boards == nil || s.users == nil {
		return Invitation{}, ErrStoreNotConfigured
	}
	inviterID := strings.TrimSpace(input.InviterID)
	if inviterID == "" {
		return Invitation{}, apperrors.New(apperrors.CodeUnauthenticated, "inviter id is required")
	}

	invitedUserID := strings.TrimSpace(input.InvitedUserID)
	invitedEmail := strings.TrimSpace(input.InvitedEmail)
	if invitedUserID == "" && invitedEmail == "" {
		return Invitation{}, apperrors.New(apperrors.CodeInviteTargetRequired, "invitation target is required")
	}
	if invitedUserID != "" && invitedEmail != "" {
		return Invitation{}, apperrors.New(apperrors.CodeInviteTargetConflict, "invitation target must be user id or email, not both")
	}

	// Only the owner invites; a board the caller does not own is
	// indistinguishable from a missing one.
	boardRecord, err := s.boards.GetBoard(ctx, strings.TrimSpace(input.BoardID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Invitation{}, apperrors.New(apperrors.CodeNotFound, "board not found")
		}
		return Invitation{}, fmt.Errorf("get board: %w", err)
	}
	if boardRecord.OwnerID != inviterID {
		return Invitation{}, apperrors.New(apperrors.CodeNotFound, "board not found")
	}

	invitee, err := s.resolveTarget(ctx, invitedUserID, invitedEmail)
	if err != nil {
		return Invitation{}, err
	}

	if invitee.ID == boardRecord.OwnerID {
		return Invitation{}, apperrors.New(apperrors.CodeInviteAlreadyMember, "board owner cannot be invited")
	}
	isMember, err := s.boards.IsBoardMember(ctx, boardRecord.ID, invitee.ID)
	if err != nil {
		return Invitation{}, fmt.Errorf("check board member: %w", err)
	}
	if isMember {
		return Invitation{}, apperrors.New(apperrors.CodeInviteAlreadyMember, "user is already a board member")
	}

	if s.limits.EnforceBoardCapAtInvite && s.limits.MaxBoardMembers > 0 {
		memberCount, err := s.boards.CountBoardMembers(ctx, boardRecord.ID)
		if err != nil {
			return Invitation{}, fmt.Errorf("count board members: %w", err)
		}
		if memberCount >= s.limits.MaxBoardMembers {
			return Invitation{}, apperrors.WithMetadata(apperrors.CodeBoardMemberLimitReached, "board is at member capacity", map[string]string{
				"MaxMembers": strconv.Itoa(s.limits.MaxBoardMembers),
			})
		}
	}
	if s.limits.MaxUserBoards > 0 {
		boardCount, err := s.boards.CountBoardsForUser(ctx, invitee.ID)
		if err != nil {
			return Invitation{}, fmt.Errorf("count invitee boards: %w", err)
		}
		if boardCount >= s.limits.MaxUserBoards {
			return Invitation{}, apperrors.WithMetadata(apperrors.CodeBoardLimitReached, "invited user is at board capacity", map[string]string{
				"MaxBoards": strconv.Itoa(s.limits.MaxUserBoards),
			})
		}
	}

	invitationID, err := s.newID()
	if err != nil {
		return Invitation{}, fmt.Errorf("new invitation id: %w", err)
	}
	now := s.nowUTC()
	record := storage.InvitationRecord{
		ID:            invitationID,
		BoardID:       boardRecord.ID,
		InvitedUserID: invitee.ID,
		Status:        storage.InvitationStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateInvitation(ctx, record); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return Invitation{}, apperrors.New(apperrors.CodeInviteAlreadyPending, "a pending invitation already exists for this user")
		}
		return Invitation{}, fmt.Errorf("create invitation: %w", err)
	}

	if s.notifier != nil {
		s.notifier.InvitationCreated(Notice{
			InvitationID:  record.ID,
			BoardID:       boardRecord.ID,
			BoardTitle:    boardRecord.Title,
			InviterID:     inviterID,
			InvitedUserID: invitee.ID,
		})
	}
	return fromRecord(record), nil
}

// Accept transitions a pending invitation to accepted and adds the caller
// to the board. Both capacity limits are re-checked atomically with the
// membership insert, so concurrent accepts cannot overshoot a cap.
func (s *Service) Accept(ctx context.Context, userID string, invitationID string) (Invitation, error) {
	if s == nil || s.store == nil {
		return Invitation{}, ErrStoreNotConfigured
	}
	record, err := s.visibleToInvitee(ctx, userID, invitationID)
	if err != nil {
		return Invitation{}, err
	}

	accepted, err := s.store.AcceptInvitation(ctx, storage.AcceptInvitationParams{
		InvitationID:    record.ID,
		MaxBoardMembers: s.limits.MaxBoardMembers,
		MaxUserBoards:   s.limits.MaxUserBoards,
		Now:             s.nowUTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return Invitation{}, apperrors.New(apperrors.CodeNotFound, "invitation not found")
		case errors.Is(err, storage.ErrInvitationNotPending):
			return Invitation{}, apperrors.New(apperrors.CodeInviteAlreadyProcessed, "invitation was already processed")
		case errors.Is(err, storage.ErrBoardMemberLimit):
			return Invitation{}, apperrors.WithMetadata(apperrors.CodeBoardMemberLimitReached, "board is at member capacity", map[string]string{
				"MaxMembers": strconv.Itoa(s.limits.MaxBoardMembers),
			})
		case errors.Is(err, storage.ErrUserBoardLimit):
			return Invitation{}, apperrors.WithMetadata(apperrors.CodeBoardLimitReached, "user is at board capacity", map[string]string{
				"MaxBoards": strconv.Itoa(s.limits.MaxUserBoards),
			})
		}
		return Invitation{}, fmt.Errorf("accept invitation: %w", err)
	}
	return fromRecord(accepted), nil
}

// Reject transitions a pending invitation to rejected. Board membership is
// never touched.
func (s *Service) Reject(ctx context.Context, userID string, invitationID string) (Invitation, error) {
	if s == nil || s.store == nil {
		return Invitation{}, ErrStoreNotConfigured
	}
	record, err := s.visibleToInvitee(ctx, userID, invitationID)
	if err != nil {
		return Invitation{}, err
	}

	rejected, err := s.store.RejectInvitation(ctx, record.ID, s.nowUTC())
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return Invitation{}, apperrors.New(apperrors.CodeNotFound, "invitation not found")
		case errors.Is(err, storage.ErrInvitationNotPending):
			return Invitation{}, apperrors.New(apperrors.CodeInviteAlreadyProcessed, "invitation was already processed")
		}
		return Invitation{}, fmt.Errorf("reject invitation: %w", err)
	}
	return fromRecord(rejected), nil
}

// List returns the invitations visible to the caller: those targeting them
// plus those on boards they own.
func (s *Service) List(ctx context.Context, userID string) ([]Invitation, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.New(apperrors.CodeUnauthenticated, "user id is required")
	}
	records, err := s.store.ListInvitationsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	invitations := make([]Invitation, 0, len(records))
	for _, record := range records {
		invitations = append(invitations, fromRecord(record))
	}
	return invitations, nil
}

// resolveTarget maps the invitation target to exactly one user account.
func (s *Service) resolveTarget(ctx context.Context, invitedUserID string, invitedEmail string) (storage.UserRecord, error) {
	if invitedUserID != "" {
		user, err := s.users.GetUser(ctx, invitedUserID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return storage.UserRecord{}, apperrors.New(apperrors.CodeNotFound, "invited user not found")
			}
			return storage.UserRecord{}, fmt.Errorf("get invited user: %w", err)
		}
		return user, nil
	}

	matches, err := s.users.FindUsersByEmail(ctx, invitedEmail)
	if err != nil {
		return storage.UserRecord{}, fmt.Errorf("find users by email: %w", err)
	}
	switch len(matches) {
	case 0:
		return storage.UserRecord{}, apperrors.WithMetadata(apperrors.CodeUserEmailUnknown, "no account matches the email", map[string]string{
			"Email": invitedEmail,
		})
	case 1:
		return matches[0], nil
	default:
		return storage.UserRecord{}, apperrors.WithMetadata(apperrors.CodeUserEmailAmbiguous, "multiple accounts match the email", map[string]string{
			"Email": invitedEmail,
		})
	}
}

// visibleToInvitee loads an invitation and verifies the caller is its
// target. Only the invited user may process an invitation; everyone
// else, the board owner included, gets FORBIDDEN.
func (s *Service) visibleToInvitee(ctx context.Context, userID string, invitationID string) (storage.InvitationRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.InvitationRecord{}, apperrors.New(apperrors.CodeUnauthenticated, "user id is required")
	}
	invitationID = strings.TrimSpace(invitationID)
	if invitationID == "" {
		return storage.InvitationRecord{}, apperrors.New(apperrors.CodeNotFound, "invitation not found")
	}

	record, err := s.store.GetInvitation(ctx, invitationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.InvitationRecord{}, apperrors.New(apperrors.CodeNotFound, "invitation not found")
		}
		return storage.InvitationRecord{}, fmt.Errorf("get invitation: %w", err)
	}
	if record.InvitedUserID != userID {
		return storage.InvitationRecord{}, apperrors.New(apperrors.CodeForbidden, "only the invited user can process this invitation")
	}
	return record, nil
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}
