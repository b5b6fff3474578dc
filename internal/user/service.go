package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/quadroapp/quadro/internal/platform/errors"
	"github.com/quadroapp/quadro/internal/storage"
)

// ErrStoreNotConfigured indicates the service is missing persistence wiring.
var ErrStoreNotConfigured = errors.New("user store is not configured")

// EnsureInput carries the identity claims of an authenticated caller.
type EnsureInput struct {
	ID    string
	Name  string
	Email string
}

// UpdateInput carries optional profile updates. Nil fields are left
// unchanged.
type UpdateInput struct {
	Name              *string
	PreferredLanguage *string
}

// Service maintains the account directory.
type Service struct {
	store storage.UserStore
	clock func() time.Time
}

// NewService constructs user directory use-cases.
func NewService(store storage.UserStore, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: store, clock: clock}
}

// Ensure upserts the account row for an authenticated caller. First
// contact creates the row with the default language; later contacts
// refresh name and email when the identity provider changed them.
func (s *Service) Ensure(ctx context.Context, input EnsureInput) (User, error) {
	if s == nil || s.store == nil {
		return User{}, ErrStoreNotConfigured
	}
	userID := strings.TrimSpace(input.ID)
	if userID == "" {
		return User{}, apperrors.New(apperrors.CodeUnauthenticated, "user id is required")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return User{}, apperrors.New(apperrors.CodeUnauthenticated, "user email is required")
	}
	name := strings.TrimSpace(input.Name)

	now := s.nowUTC()
	record, err := s.store.GetUser(ctx, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		record = storage.UserRecord{
			ID:                userID,
			Name:              name,
			Email:             email,
			PreferredLanguage: DefaultLanguage,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
	case err != nil:
		return User{}, fmt.Errorf("get user: %w", err)
	default:
		if record.Name == name && record.Email == email {
			return fromRecord(record), nil
		}
		record.Name = name
		record.Email = email
		record.UpdatedAt = now
	}

	if err := s.store.PutUser(ctx, record); err != nil {
		return User{}, fmt.Errorf("put user: %w", err)
	}
	return fromRecord(record), nil
}

// Get returns one account by id.
func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	if s == nil || s.store == nil {
		return User{}, ErrStoreNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return User{}, apperrors.New(apperrors.CodeUnauthenticated, "user id is required")
	}
	record, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return fromRecord(record), nil
}

// Update applies profile changes to the caller's own account.
func (s *Service) Update(ctx context.Context, userID string, input UpdateInput) (User, error) {
	if s == nil || s.store == nil {
		return User{}, ErrStoreNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return User{}, apperrors.New(apperrors.CodeUnauthenticated, "user id is required")
	}

	record, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if len([]rune(name)) > maxNameLength {
			name = string([]rune(name)[:maxNameLength])
		}
		record.Name = name
	}
	if input.PreferredLanguage != nil {
		tag, err := normalizeLanguage(*input.PreferredLanguage)
		if err != nil {
			return User{}, err
		}
		record.PreferredLanguage = tag
	}
	record.UpdatedAt = s.nowUTC()

	if err := s.store.PutUser(ctx, record); err != nil {
		return User{}, fmt.Errorf("put user: %w", err)
	}
	return fromRecord(record), nil
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}
