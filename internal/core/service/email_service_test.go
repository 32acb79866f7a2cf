package service

import (
	"context"
	"errors"
	"testing"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

type stubTokenStore struct {
	tokens map[string]*domain.GmailToken
	saves  int
}

func (s *stubTokenStore) Save(_ context.Context, t *domain.GmailToken) error {
	clone := *t
	s.tokens[t.UserID] = &clone
	s.saves++
	return nil
}

func (s *stubTokenStore) Find(_ context.Context, userID string) (*domain.GmailToken, error) {
	t, ok := s.tokens[userID]
	if !ok {
		return nil, domain.ErrGmailNotConnected
	}
	clone := *t
	return &clone, nil
}

type stubMailbox struct {
	refreshTo string
	lastQuery ports.EmailListQuery
	sent      []ports.OutgoingEmail
}

func (m *stubMailbox) AuthCodeURL(state string) string { return "https://accounts.test/auth?state=" + state }

func (m *stubMailbox) Exchange(_ context.Context, code string) (*domain.GmailToken, error) {
	if code == "bad" {
		return nil, errBoom
	}
	return &domain.GmailToken{AccessToken: "at-" + code, RefreshToken: "rt", Email: "me@gmail.test"}, nil
}

func (m *stubMailbox) refresh(tok *domain.GmailToken) {
	if m.refreshTo != "" {
		tok.AccessToken = m.refreshTo
	}
}

func (m *stubMailbox) List(_ context.Context, tok *domain.GmailToken, q ports.EmailListQuery) (*ports.EmailPage, error) {
	m.refresh(tok)
	m.lastQuery = q
	return &ports.EmailPage{Messages: []domain.EmailMessage{{ID: "m1", Subject: "Hi"}}, NextPageToken: "next"}, nil
}

func (m *stubMailbox) Get(_ context.Context, tok *domain.GmailToken, id string) (*domain.EmailMessage, error) {
	m.refresh(tok)
	if id != "m1" {
		return nil, domain.ErrNotFound
	}
	return &domain.EmailMessage{ID: "m1", Subject: "Hi"}, nil
}

func (m *stubMailbox) Send(_ context.Context, tok *domain.GmailToken, msg ports.OutgoingEmail) (string, error) {
	m.refresh(tok)
	m.sent = append(m.sent, msg)
	return "sent_1", nil
}

func newEmailFixture() (*EmailService, *stubTokenStore, *stubMailbox) {
	store := &stubTokenStore{tokens: map[string]*domain.GmailToken{
		"user_1": {UserID: "user_1", AccessToken: "at", RefreshToken: "rt"},
	}}
	mb := &stubMailbox{}
	return NewEmailService(store, mb, discardLogger), store, mb
}

func TestEmailService_Connect(t *testing.T) {
	svc, store, _ := newEmailFixture()

	if err := svc.Connect(context.Background(), "user_2", "code123"); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	if tok := store.tokens["user_2"]; tok == nil || tok.AccessToken != "at-code123" {
		t.Fatalf("token not stored: %+v", tok)
	}

	if err := svc.Connect(context.Background(), "user_2", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty code, got %v", err)
	}
	if err := svc.Connect(context.Background(), "user_2", "bad"); !errors.Is(err, errBoom) {
		t.Fatalf("expected exchange error, got %v", err)
	}
}

func TestEmailService_List_ClampsLimit(t *testing.T) {
	svc, _, mb := newEmailFixture()

	page, err := svc.List(context.Background(), "user_1", ports.EmailListQuery{Limit: 1000})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if mb.lastQuery.Limit != maxInboxLimit || len(page.Messages) != 1 || page.NextPageToken != "next" {
		t.Fatalf("unexpected list: %+v (limit %d)", page, mb.lastQuery.Limit)
	}
}

func TestEmailService_NotConnected(t *testing.T) {
	svc, _, _ := newEmailFixture()

	if _, err := svc.List(context.Background(), "ghost", ports.EmailListQuery{}); !errors.Is(err, domain.ErrGmailNotConnected) {
		t.Fatalf("expected ErrGmailNotConnected, got %v", err)
	}
}

func TestEmailService_PersistsRefreshedToken(t *testing.T) {
	svc, store, mb := newEmailFixture()
	mb.refreshTo = "at-refreshed"

	if _, err := svc.Get(context.Background(), "user_1", "m1"); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if store.saves != 1 || store.tokens["user_1"].AccessToken != "at-refreshed" {
		t.Fatalf("refreshed token not persisted (saves=%d)", store.saves)
	}
}

func TestEmailService_Send(t *testing.T) {
	svc, store, mb := newEmailFixture()

	if _, err := svc.Send(context.Background(), "user_1", ports.OutgoingEmail{To: "x@example.com"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without subject, got %v", err)
	}

	id, err := svc.Send(context.Background(), "user_1", ports.OutgoingEmail{To: "x@example.com", Subject: "Hello", Body: "Hi"})
	if err != nil || id != "sent_1" {
		t.Fatalf("Send = %q, %v", id, err)
	}
	if len(mb.sent) != 1 || store.saves != 0 {
		t.Fatalf("unexpected side effects: sent=%d saves=%d", len(mb.sent), store.saves)
	}
}
