package board

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/quadroapp/quadro/internal/platform/errors"
	"github.com/quadroapp/quadro/internal/platform/id"
	"github.com/quadroapp/quadro/internal/storage"
)

// ErrStoreNotConfigured indicates the service is missing persistence wiring.
var ErrStoreNotConfigured = errors.New("board store is not configured")

// CreateInput describes one board creation request.
type CreateInput struct {
	OwnerID string
	Title   string
	Color   string
}

// UpdateInput carries optional board field updates. Nil fields are left
// unchanged.
type UpdateInput struct {
	Title *string
	Color *string
}

// Service orchestrates board lifecycle and access behavior.
type Service struct {
	store  storage.BoardStore
	limits Limits
	clock  func() time.Time
	newID  func() (string, error)
}

// NewService constructs board domain use-cases.
func NewService(store storage.BoardStore, limits Limits, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		store:  store,
		limits: limits,
		clock:  clock,
		newID:  newID,
	}
}

// Limits exposes the configured capacity caps to collaborating services.
func (s *Service) Limits() Limits {
	if s == nil {
		return Limits{}
	}
	return s.limits
}

// Create validates and persists a new board owned by the caller. The
// owner's derived board count is checked against MaxUserBoards inside the
// insert transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (Board, error) {
	if s == nil || s.store == nil {
		return Board{}, ErrStoreNotConfigured
	}
	ownerID := strings.TrimSpace(input.OwnerID)
	if ownerID == "" {
		return Board{}, apperrors.New(apperrors.CodeUnauthenticated, "owner id is required")
	}
	title, err := normalizeTitle(input.Title)
	if err != nil {
		return Board{}, err
	}
	color, err := normalizeColor(input.Color)
	if err != nil {
		return Board{}, err
	}

	boardID, err := s.newID()
	if err != nil {
		return Board{}, fmt.Errorf("new board id: %w", err)
	}
	now := s.nowUTC()
	record := storage.BoardRecord{
		ID:        boardID,
		Title:     title,
		OwnerID:   ownerID,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateBoard(ctx, record, s.limits.MaxUserBoards); err != nil {
		if errors.Is(err, storage.ErrUserBoardLimit) {
			return Board{}, apperrors.WithMetadata(apperrors.CodeBoardLimitReached, "user is at board capacity", map[string]string{
				"MaxBoards": strconv.Itoa(s.limits.MaxUserBoards),
			})
		}
		return Board{}, fmt.Errorf("create board: %w", err)
	}
	return fromRecord(record), nil
}

// Get returns one board the caller can access. Boards the caller cannot
// see report NOT_FOUND, indistinguishable from missing boards.
func (s *Service) Get(ctx context.Context, userID string, boardID string) (Board, error) {
	if s == nil || s.store == nil {
		return Board{}, ErrStoreNotConfigured
	}
	record, err := s.accessibleBoard(ctx, userID, boardID)
	if err != nil {
		return Board{}, err
	}
	return fromRecord(record), nil
}

// Update applies title and color changes to a board the caller manages.
func (s *Service) Update(ctx context.Context, userID string, boardID string, input UpdateInput) (Board, error) {
	if s == nil || s.store == nil {
		return Board{}, ErrStoreNotConfigured
	}
	record, err := s.accessibleBoard(ctx, userID, boardID)
	if err != nil {
		return Board{}, err
	}
	if !CanManage(userID, fromRecord(record)) {
		return Board{}, apperrors.New(apperrors.CodeForbidden, "only the board owner may update the board")
	}

	if input.Title != nil {
		title, err := normalizeTitle(*input.Title)
		if err != nil {
			return Board{}, err
		}
		record.Title = title
	}
	if input.Color != nil {
		color, err := normalizeColor(*input.Color)
		if err != nil {
			return Board{}, err
		}
		record.Color = color
	}
	record.UpdatedAt = s.nowUTC()

	if err := s.store.UpdateBoard(ctx, record); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Board{}, apperrors.New(apperrors.CodeNotFound, "board not found")
		}
		return Board{}, fmt.Errorf("update board: %w", err)
	}
	return fromRecord(record), nil
}

// Delete removes a board the caller owns. Members, invitations, lists, and
// tasks are removed with it.
func (s *Service) Delete(ctx context.Context, userID string, boardID string) error {
	if s == nil || s.store == nil {
		return ErrStoreNotConfigured
	}
	record, err := s.accessibleBoard(ctx, userID, boardID)
	if err != nil {
		return err
	}
	if !CanManage(userID, fromRecord(record)) {
		return apperrors.New(apperrors.CodeForbidden, "only the board owner may delete the board")
	}
	if err := s.store.DeleteBoard(ctx, record.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "board not found")
		}
		return fmt.Errorf("delete board: %w", err)
	}
	return nil
}

// List returns the boards the caller owns or participates in.
func (s *Service) List(ctx context.Context, userID string) ([]Board, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.New(apperrors.CodeUnauthenticated, "user id is required")
	}
	records, err := s.store.ListBoardsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	boards := make([]Board, 0, len(records))
	for _, record := range records {
		boards = append(boards, fromRecord(record))
	}
	return boards, nil
}

// Members returns the member rows of a board the caller can access. The
// owner is not included; ownership is carried on the board itself.
func (s *Service) Members(ctx context.Context, userID string, boardID string) ([]Member, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	record, err := s.accessibleBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListBoardMembers(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("list board members: %w", err)
	}
	members := make([]Member, 0, len(records))
	for _, memberRecord := range records {
		members = append(members, memberFromRecord(memberRecord))
	}
	return members, nil
}

// accessibleBoard loads a board and verifies the caller can access it.
// Missing boards and inaccessible boards both report NOT_FOUND.
func (s *Service) accessibleBoard(ctx context.Context, userID string, boardID string) (storage.BoardRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.BoardRecord{}, apperrors.New(apperrors.CodeUnauthenticated, "user id is required")
	}
	boardID = strings.TrimSpace(boardID)
	if boardID == "" {
		return storage.BoardRecord{}, apperrors.New(apperrors.CodeNotFound, "board not found")
	}

	record, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.BoardRecord{}, apperrors.New(apperrors.CodeNotFound, "board not found")
		}
		return storage.BoardRecord{}, fmt.Errorf("get board: %w", err)
	}
	if record.OwnerID != userID {
		isMember, err := s.store.IsBoardMember(ctx, boardID, userID)
		if err != nil {
			return storage.BoardRecord{}, fmt.Errorf("check board member: %w", err)
		}
		if !CanAccess(userID, fromRecord(record), isMember) {
			return storage.BoardRecord{}, apperrors.New(apperrors.CodeNotFound, "board not found")
		}
	}
	return record, nil
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}
