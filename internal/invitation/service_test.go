package invitation

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/quadroapp/quadro/internal/board"
	apperrors "github.com/quadroapp/quadro/internal/platform/errors"
	"github.com/quadroapp/quadro/internal/storage"
)

// fakeStore backs all three persistence contracts the service needs so
// accept can mutate memberships the way the sqlite store does.
type fakeStore struct {
	users       map[string]storage.UserRecord
	boards      map[string]storage.BoardRecord
	members     map[string]map[string]time.Time
	invitations map[string]storage.InvitationRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[string]storage.UserRecord),
		boards:      make(map[string]storage.BoardRecord),
		members:     make(map[string]map[string]time.Time),
		invitations: make(map[string]storage.InvitationRecord),
	}
}

func (f *fakeStore) PutUser(_ context.Context, user storage.UserRecord) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, userID string) (storage.UserRecord, error) {
	user, ok := f.users[userID]
	if !ok {
		return storage.UserRecord{}, storage.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) FindUsersByEmail(_ context.Context, email string) ([]storage.UserRecord, error) {
	var matches []storage.UserRecord
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			matches = append(matches, user)
		}
	}
	return matches, nil
}

func (f *fakeStore) CreateBoard(_ context.Context, b storage.BoardRecord, _ int) error {
	f.boards[b.ID] = b
	return nil
}

func (f *fakeStore) GetBoard(_ context.Context, boardID string) (storage.BoardRecord, error) {
	b, ok := f.boards[boardID]
	if !ok {
		return storage.BoardRecord{}, storage.ErrNotFound
	}
	return b, nil
}

func (f *fakeStore) UpdateBoard(_ context.Context, b storage.BoardRecord) error {
	f.boards[b.ID] = b
	return nil
}

func (f *fakeStore) DeleteBoard(_ context.Context, boardID string) error {
	delete(f.boards, boardID)
	return nil
}

func (f *fakeStore) ListBoardsForUser(_ context.Context, userID string) ([]storage.BoardRecord, error) {
	var records []storage.BoardRecord
	for _, b := range f.boards {
		if b.OwnerID == userID {
			records = append(records, b)
			continue
		}
		if _, ok := f.members[b.ID][userID]; ok {
			records = append(records, b)
		}
	}
	return records, nil
}

func (f *fakeStore) ListBoardMembers(_ context.Context, boardID string) ([]storage.MemberRecord, error) {
	var records []storage.MemberRecord
	for userID, addedAt := range f.members[boardID] {
		records = append(records, storage.MemberRecord{BoardID: boardID, UserID: userID, AddedAt: addedAt})
	}
	return records, nil
}

func (f *fakeStore) IsBoardMember(_ context.Context, boardID string, userID string) (bool, error) {
	_, ok := f.members[boardID][userID]
	return ok, nil
}

func (f *fakeStore) CountBoardMembers(_ context.Context, boardID string) (int, error) {
	return len(f.members[boardID]), nil
}

func (f *fakeStore) CountBoardsForUser(ctx context.Context, userID string) (int, error) {
	records, _ := f.ListBoardsForUser(ctx, userID)
	return len(records), nil
}

func (f *fakeStore) CreateInvitation(_ context.Context, record storage.InvitationRecord) error {
	for _, existing := range f.invitations {
		if existing.BoardID == record.BoardID &&
			existing.InvitedUserID == record.InvitedUserID &&
			existing.Status == storage.InvitationStatusPending {
			return storage.ErrAlreadyExists
		}
	}
	f.invitations[record.ID] = record
	return nil
}

func (f *fakeStore) GetInvitation(_ context.Context, invitationID string) (storage.InvitationRecord, error) {
	record, ok := f.invitations[invitationID]
	if !ok {
		return storage.InvitationRecord{}, storage.ErrNotFound
	}
	return record, nil
}

func (f *fakeStore) ListInvitationsForUser(_ context.Context, userID string) ([]storage.InvitationRecord, error) {
	var records []storage.InvitationRecord
	for _, record := range f.invitations {
		if record.InvitedUserID == userID {
			records = append(records, record)
			continue
		}
		if b, ok := f.boards[record.BoardID]; ok && b.OwnerID == userID {
			records = append(records, record)
		}
	}
	return records, nil
}

func (f *fakeStore) AcceptInvitation(ctx context.Context, params storage.AcceptInvitationParams) (storage.InvitationRecord, error) {
	record, ok := f.invitations[params.InvitationID]
	if !ok {
		return storage.InvitationRecord{}, storage.ErrNotFound
	}
	if record.Status != storage.InvitationStatusPending {
		return storage.InvitationRecord{}, storage.ErrInvitationNotPending
	}
	if params.MaxBoardMembers > 0 && len(f.members[record.BoardID]) >= params.MaxBoardMembers {
		return storage.InvitationRecord{}, storage.ErrBoardMemberLimit
	}
	if params.MaxUserBoards > 0 {
		count, _ := f.CountBoardsForUser(ctx, record.InvitedUserID)
		if count >= params.MaxUserBoards {
			return storage.InvitationRecord{}, storage.ErrUserBoardLimit
		}
	}
	f.addMember(record.BoardID, record.InvitedUserID)
	record.Status = storage.InvitationStatusAccepted
	record.UpdatedAt = params.Now
	f.invitations[record.ID] = record
	return record, nil
}

func (f *fakeStore) RejectInvitation(_ context.Context, invitationID string, now time.Time) (storage.InvitationRecord, error) {
	record, ok := f.invitations[invitationID]
	if !ok {
		return storage.InvitationRecord{}, storage.ErrNotFound
	}
	if record.Status != storage.InvitationStatusPending {
		return storage.InvitationRecord{}, storage.ErrInvitationNotPending
	}
	record.Status = storage.InvitationStatusRejected
	record.UpdatedAt = now
	f.invitations[record.ID] = record
	return record, nil
}

func (f *fakeStore) addMember(boardID string, userID string) {
	if f.members[boardID] == nil {
		f.members[boardID] = make(map[string]time.Time)
	}
	f.members[boardID][userID] = time.Now()
}

func (f *fakeStore) addUser(id string, email string) {
	f.users[id] = storage.UserRecord{ID: id, Name: "User " + id, Email: email, PreferredLanguage: "en"}
}

func (f *fakeStore) addBoard(id string, ownerID string) {
	f.boards[id] = storage.BoardRecord{ID: id, Title: "Board " + id, OwnerID: ownerID}
}

type fakeNotifier struct {
	notices []Notice
}

func (f *fakeNotifier) InvitationCreated(notice Notice) {
	f.notices = append(f.notices, notice)
}

func fixedClock() time.Time {
	return time.Date(2026, time.April, 2, 9, 0, 0, 0, time.UTC)
}

func sequentialIDs(prefix string) func() (string, error) {
	var n int
	return func() (string, error) {
		n++
		return fmt.Sprintf("%s-%d", prefix, n), nil
	}
}

func defaultLimits() board.Limits {
	return board.Limits{MaxBoardMembers: 10, MaxUserBoards: 5, EnforceBoardCapAtInvite: true}
}

func newTestService(store *fakeStore, limits board.Limits, notifier Notifier) *Service {
	return NewService(store, store, store, limits, notifier, fixedClock, sequentialIDs("inv"))
}

func seedBoardWithInvitee(store *fakeStore) {
	store.addUser("owner-1", "owner1@example.com")
	store.addUser("invitee-1", "invitee1@example.com")
	store.addBoard("board-1", "owner-1")
}

func TestCreateRequiresExactlyOneTarget(t *testing.T) {
	store := newFakeStore()
	seedBoardWithInvitee(store)
	service := newTestService(store, defaultLimits(), nil)

	_, err := service.Create(context.Background(), CreateInput{InviterID: "owner-1", BoardID: "board-1"})
	if !apperrors.IsCode(err, apperrors.CodeInviteTargetRequired) {
		t.Fatalf("expected INVITE_TARGET_REQUIRED, got %v", err)
	}

	_, err = service.Create(context.Background(), CreateInput{
		InviterID:     "owner-1",
		BoardID:       "board-1",
		InvitedUserID: "invitee-1",
		InvitedEmail:  "invitee1@example.com",
	})
	if !apperrors.IsCode(err, apperrors.CodeInviteTargetConflict) {
		t.Fatalf("expected INVITE_TARGET_CONFLICT, got %v", err)
	}
}

func TestCreateResolvesEmailTarget(t *testing.T) {
	store := newFakeStore()
	seedBoardWithInvitee(store)
	service := newTestService(store, defaultLimits(), nil)

	created, err := service.Create(context.Background(), CreateInput{
		InviterID:    "owner-1",
		BoardID:      "board-1",
		InvitedEmail: "INVITEE1@example.COM",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.InvitedUserID != "invitee-1" {
		t.Fatalf("invited user = %q, want invitee-1", created.InvitedUserID)
	}
	if created.Status != StatusPending {
		t.Fatalf("status = %s, want pending", created.Status)
	}
}

func TestCreateRejectsUnknownAndAmbiguousEmail(t *testing.T) {
	store := newFakeStore()
	seedBoardWithInvitee(store)
	store.addUser("invitee-2", "invitee1@example.com")
	service := newTestService(store, defaultLimits(), nil)

	_, err := service.Create(context.Background(), CreateInput{
		InviterID:    "owner-1",
		BoardID:      "board-1",
		InvitedEmail: "nobody@example.com",
	})
	if !apperrors.IsCode(err, apperrors.CodeUserEmailUnknown) {
		t.Fatalf("expected USER_EMAIL_UNKNOWN, got %v", err)
	}

	_, err = service.Create(context.Background(), CreateInput{
		InviterID:    "owner-1",
		BoardID:      "board-1",
		InvitedEmail: "invitee1@example.com",
	})
	if !apperrors.IsCode(err, apperrors.CodeUserEmailAmbiguous) {
		t.Fatalf("expected USER_EMAIL_AMBIGUOUS, got %v", err)
	}
	if got := apperrors.GetMetadata(err)["Email"]; got != "invitee1@example.com" {
		t.Fatalf("Email metadata = %q", got)
	}
}

func TestCreateIsOwnerOnly(t *testing.T) {
	store := newFakeStore()
	seedBoardWithInvitee(store)
	store.addUser("member-1", "member1@example.com")
	store.addMember("board-1", "member-1")
	service := newTestService(store, defaultLimits(), nil)

	// A member inviting, and an invite to a missing board, are the same
	// NOT_FOUND to the caller.
	_, err := service.Create(context.Background(), CreateInput{
		InviterID:     "member-1",
		BoardID:       "board-1",
		InvitedUserID: "invitee-1",
	})
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for non-owner invite, got %v", err)
	}
	_, err = service.Create(context.Background(), CreateInput{
		InviterID:     "owner-1",
		BoardID:       "missing",
		InvitedUserID: "invitee-1",
	})
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for missing board, got %v", err)
	}
}

func TestCreateRejectsExistingParticipants(t *testing.T) {
	store := newFakeStore()
	seedBoardWithInvitee(store)
	store.addUser("member-1", "member1@example.com")
	store.addMember("board-1", "member-1")
	service := newTestService(store, defaultLimits(), nil)

	_, err := service.Create(context.Background(), CreateInput{
		InviterID:     "owner-1",
		BoardID:       "board-1",
		InvitedUserID: "member-1",
	})
	if !apperrors.IsCode(err, apperrors.CodeInviteAlreadyMember) {
		t.Fatalf("expected INVITE_ALREADY_MEMBER for member, got %v", err)
	}

	_, err = service.Create(context.Background(), CreateInput{
		InviterID:     "owner-1",
		BoardID:       "board-1",
		InvitedUserID: "owner-1",
	})
	if !apperrors.IsCode(err, apperrors.CodeInviteAlreadyMember) {
		t.Fatalf("expected INVITE_ALREADY_MEMBER for owner, got %v", err)
	}
}

func TestCreateRejectsPendingDuplicate(t *testing.T) {
	store := newFakeStore()
	seedBoardWithInvitee(store)
	service := newTestService(store, defaultLimits(), nil)

	input := CreateInput{InviterID: "owner-1", BoardID: "board-1", InvitedUserID: "invitee-1"}
	if _, err := service.Create(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := service.Create(context.Background(), input)
	if !apperrors.IsCode(err, apperrors.CodeInviteAlreadyPending) {
		t.Fatalf("expected INVITE_ALREADY_PENDING, got %v", err)
	}
}

func TestCreateEnforcesBoardCapWhenConfigured(t *testing.T) {
	store := newFakeStore()
	seedBoardWithInvitee(store)
	store.addUser("member-1", "member1@example.com")
	store.addMember("board-1", "member-1")

	limits := defaultLimits()
	limits.MaxBoardMembers = 1

	service := newTestService(store, limits, nil)
	_, err := service.Create(context.Background(), CreateInput{
		InviterID:     "owner-1",
		BoardID:       "board-1",
		InvitedUserID: "invitee-1",
	})
	if !apperrors.IsCode(err, apperrors.CodeBoardMemberLimitReached) {
		t.Fatalf("expected BOARD_MEMBER_LIMIT_REACHED, got %v", err)
	}
	if got := apperrors.GetMetadata(err)["MaxMembers"]; got != "1" {
		t.Fatalf("MaxMembers metadata = %q, want 1", got)
	}

	// With invite-time enforcement off the full board still takes
	// invitations; the cap holds at accept time instead.
	limits.EnforceBoardCapAtInvite = false
	service = newTestService(store, limits, nil)
	if _, err := service.Create(context.Background(), CreateInput{
		InviterID:     "owner-1",
		BoardID:       "board-1",
		InvitedUserID: "invitee-1",
	}); err != nil {
		t.Fatalf("create with enforcement off: %v", err)
	}
}

func TestCreateEnforcesInviteeBoardCap(t *testing.T) {
	store := newFakeStore()
	seedBoardWithInvitee(store)
	store.addBoard("board-2", "invitee-1")

	limits := defaultLimits()
	limits.MaxUserBoards = 1

	service := newTestService(store, limits, nil)
	_, err := service.Create(context.Background(), CreateInput{
		InviterID:     "owner-1",
		BoardID:       "board-1",
		InvitedUserID: "invitee-1",
	})
	if !apperrors.IsCode(err, apperrors.CodeBoardLimitReached) {
		t.Fatalf("expected USER_BOARD_LIMIT_REACHED, got %v", err)
	}
}

func TestCreateSchedulesNotice(t *testing.T) {
	store := newFakeStore()
	seedBoardWithInvitee(store)
	notifier := &fakeNotifier{}
	service := newTestService(store, defaultLimits(), notifier)

	created, err := service.Create(context.Background(), CreateInput{
		InviterID:     "owner-1",
		BoardID:       "board-1",
		InvitedUserID: "invitee-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(notifier.notices) != 1 {
		t.Fatalf("expected 1 notice, got %d", len(notifier.notices))
	}
	notice := notifier.notices[0]
	if notice.InvitationID != created.ID || notice.InvitedUserID != "invitee-1" || notice.BoardTitle != "Board board-1" {
		t.Fatalf("unexpected notice %+v", notice)
	}
}

func TestAcceptAddsMembershipOnce(t *testing.T) {
	store := newFakeStore()
	seedBoardWithInvitee(store)
	service := newTestService(store, defaultLimits(), nil)

	created, err := service.Create(context.Background(), CreateInput{
		InviterID:     "owner-1",
		BoardID:       "board-1",
		InvitedUserID: "invitee-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	accepted, err := service.Accept(context.Background(), "invitee-1", created.ID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != StatusAccepted {
		t.Fatalf("status = %s, want accepted", accepted.Status)
	}
	if _, ok := store.members["board-1"]["invitee-1"]; !ok {
		t.Fatal("expected membership after accept")
	}

	_, err = service.Accept(context.Background(), "invitee-1", created.ID)
	if !apperrors.IsCode(err, apperrors.CodeInviteAlreadyProcessed) {
		t.Fatalf("expected INVITE_ALREADY_PROCESSED, got %v", err)
	}
	_, err = service.Reject(context.Background(), "invitee-1", created.ID)
	if !apperrors.IsCode(err, apperrors.CodeInviteAlreadyProcessed) {
		t.Fatalf("expected INVITE_ALREADY_PROCESSED on reject, got %v", err)
	}
}

func TestAcceptIsInviteeOnly(t *testing.T) {
	store := newFakeStore()
	seedBoardWithInvitee(store)
	service := newTestService(store, defaultLimits(), nil)

	created, err := service.Create(context.Background(), CreateInput{
		InviterID:     "owner-1",
		BoardID:       "board-1",
		InvitedUserID: "invitee-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Even the board owner cannot accept on the invitee's behalf.
	_, err = service.Accept(context.Background(), "owner-1", created.ID)
	if !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for non-invitee accept, got %v", err)
	}
}

func TestAcceptReChecksCapacity(t *testing.T) {
	store := newFakeStore()
	seedBoardWithInvitee(store)
	store.addUser("member-1", "member1@example.com")

	limits := defaultLimits()
	limits.MaxBoardMembers = 1
	limits.EnforceBoardCapAtInvite = false

	service := newTestService(store, limits, nil)
	created, err := service.Create(context.Background(), CreateInput{
		InviterID:     "owner-1",
		BoardID:       "board-1",
		InvitedUserID: "invitee-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The board filled up between invite and accept.
	store.addMember("board-1", "member-1")

	_, err = service.Accept(context.Background(), "invitee-1", created.ID)
	if !apperrors.IsCode(err, apperrors.CodeBoardMemberLimitReached) {
		t.Fatalf("expected BOARD_MEMBER_LIMIT_REACHED, got %v", err)
	}
	record, _ := store.GetInvitation(context.Background(), created.ID)
	if record.Status != storage.InvitationStatusPending {
		t.Fatalf("expected invitation still pending after failed accept, got %s", record.Status)
	}
}

func TestRejectNeverTouchesMembership(t *testing.T) {
	store := newFakeStore()
	seedBoardWithInvitee(store)
	service := newTestService(store, defaultLimits(), nil)

	created, err := service.Create(context.Background(), CreateInput{
		InviterID:     "owner-1",
		BoardID:       "board-1",
		InvitedUserID: "invitee-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rejected, err := service.Reject(context.Background(), "invitee-1", created.ID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Fatalf("status = %s, want rejected", rejected.Status)
	}
	if len(store.members["board-1"]) != 0 {
		t.Fatal("reject must not add members")
	}

	// A fresh invitation may follow a rejection.
	if _, err := service.Create(context.Background(), CreateInput{
		InviterID:     "owner-1",
		BoardID:       "board-1",
		InvitedUserID: "invitee-1",
	}); err != nil {
		t.Fatalf("re-invite after reject: %v", err)
	}
}

func TestListIsScopedToOwnerAndInvitee(t *testing.T) {
	store := newFakeStore()
	seedBoardWithInvitee(store)
	store.addUser("outsider-1", "outsider1@example.com")
	service := newTestService(store, defaultLimits(), nil)

	if _, err := service.Create(context.Background(), CreateInput{
		InviterID:     "owner-1",
		BoardID:       "board-1",
		InvitedUserID: "invitee-1",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, userID := range []string{"owner-1", "invitee-1"} {
		invitations, err := service.List(context.Background(), userID)
		if err != nil {
			t.Fatalf("list for %s: %v", userID, err)
		}
		if len(invitations) != 1 {
			t.Fatalf("%s should see 1 invitation, got %d", userID, len(invitations))
		}
	}

	invitations, err := service.List(context.Background(), "outsider-1")
	if err != nil {
		t.Fatalf("list for outsider: %v", err)
	}
	if len(invitations) != 0 {
		t.Fatalf("outsider should see no invitations, got %d", len(invitations))
	}
}
