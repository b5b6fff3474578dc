package notify

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/quadroapp/quadro/internal/invitation"
	"github.com/quadroapp/quadro/internal/storage"
)

type fakeUserStore struct {
	users map[string]storage.UserRecord
}

func (f *fakeUserStore) PutUser(_ context.Context, user storage.UserRecord) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetUser(_ context.Context, userID string) (storage.UserRecord, error) {
	user, ok := f.users[userID]
	if !ok {
		return storage.UserRecord{}, storage.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindUsersByEmail(_ context.Context, _ string) ([]storage.UserRecord, error) {
	return nil, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	mu    sync.Mutex
	sent  []sentMail
	err   error
	found chan struct{}
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{found: make(chan struct{}, 16)}
}

func (f *fakeMailer) Send(_ context.Context, to string, subject string, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	f.found <- struct{}{}
	if f.err != nil {
		return f.err
	}
	return nil
}

func (f *fakeMailer) last(t *testing.T) sentMail {
	t.Helper()
	select {
	case <-f.found:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func testUsers() *fakeUserStore {
	return &fakeUserStore{users: map[string]storage.UserRecord{
		"owner-1":   {ID: "owner-1", Name: "Olive Owner", Email: "owner1@example.com", PreferredLanguage: "en"},
		"invitee-1": {ID: "invitee-1", Name: "Ivy Invitee", Email: "invitee1@example.com", PreferredLanguage: "de"},
	}}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestDispatcherDeliversLocalizedMail(t *testing.T) {
	mailer := newFakeMailer()
	dispatcher := NewDispatcher(testUsers(), mailer, 8, quietLogger())
	dispatcher.Start()
	defer dispatcher.Close()

	dispatcher.InvitationCreated(invitation.Notice{
		InvitationID:  "inv-1",
		BoardID:       "board-1",
		BoardTitle:    "Roadmap",
		InviterID:     "owner-1",
		InvitedUserID: "invitee-1",
	})

	mail := mailer.last(t)
	if mail.to != "invitee1@example.com" {
		t.Fatalf("to = %q, want invitee address", mail.to)
	}
	// The invitee prefers German.
	if mail.subject != "Du wurdest zu einem Board eingeladen" {
		t.Fatalf("subject = %q, want German subject", mail.subject)
	}
	if !strings.Contains(mail.body, "Olive Owner") || !strings.Contains(mail.body, "Roadmap") {
		t.Fatalf("body = %q, want inviter and board title", mail.body)
	}
}

func TestDispatcherFallsBackToEnglish(t *testing.T) {
	users := testUsers()
	users.users["invitee-1"] = storage.UserRecord{
		ID: "invitee-1", Name: "Ivy", Email: "invitee1@example.com", PreferredLanguage: "xx-unknown",
	}

	mailer := newFakeMailer()
	dispatcher := NewDispatcher(users, mailer, 8, quietLogger())
	dispatcher.Start()
	defer dispatcher.Close()

	dispatcher.InvitationCreated(invitation.Notice{
		InvitationID:  "inv-1",
		BoardTitle:    "Roadmap",
		InviterID:     "owner-1",
		InvitedUserID: "invitee-1",
	})

	mail := mailer.last(t)
	if mail.subject != defaultSubject {
		t.Fatalf("subject = %q, want English fallback", mail.subject)
	}
}

func TestDispatcherIsolatesMailerFailure(t *testing.T) {
	mailer := newFakeMailer()
	mailer.err = errors.New("smtp down")

	var logged strings.Builder
	dispatcher := NewDispatcher(testUsers(), mailer, 8, log.New(&logged, "", 0))
	dispatcher.Start()

	dispatcher.InvitationCreated(invitation.Notice{
		InvitationID:  "inv-1",
		BoardTitle:    "Roadmap",
		InviterID:     "owner-1",
		InvitedUserID: "invitee-1",
	})
	mailer.last(t)
	dispatcher.Close()

	if !strings.Contains(logged.String(), "smtp down") {
		t.Fatalf("expected send failure in log, got %q", logged.String())
	}
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	var logged strings.Builder
	// Never started, so the queue drains nothing.
	dispatcher := NewDispatcher(testUsers(), newFakeMailer(), 1, log.New(&logged, "", 0))

	dispatcher.InvitationCreated(invitation.Notice{InvitationID: "inv-1"})
	dispatcher.InvitationCreated(invitation.Notice{InvitationID: "inv-2"})

	if !strings.Contains(logged.String(), "inv-2") {
		t.Fatalf("expected dropped notice in log, got %q", logged.String())
	}
}

func TestRenderWithoutInviterName(t *testing.T) {
	output := Render(PrinterFor("fr"), Input{BoardTitle: "Feuille de route"})
	if !strings.Contains(output.Body, "Un propriétaire de tableau") {
		t.Fatalf("body = %q, want anonymous inviter fallback", output.Body)
	}
}
