package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

const (
	defaultInboxLimit = 20
	maxInboxLimit     = 100
)

// EmailService proxies the dashboard inbox to the user's Gmail account.
type EmailService struct {
	tokens  ports.GmailTokenStore
	mailbox ports.Mailbox
	log     zerolog.Logger
}

func NewEmailService(tokens ports.GmailTokenStore, mailbox ports.Mailbox, log zerolog.Logger) *EmailService {
	return &EmailService{tokens: tokens, mailbox: mailbox, log: log}
}

func (s *EmailService) ConnectURL(state string) string {
	return s.mailbox.AuthCodeURL(state)
}

// Connect exchanges an OAuth code and stores the resulting grant for userID.
func (s *EmailService) Connect(ctx context.Context, userID, code string) error {
	if code == "" {
		return fmt.Errorf("%w: missing authorization code", domain.ErrInvalidInput)
	}
	tok, err := s.mailbox.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("gmail exchange: %w", err)
	}
	tok.UserID = userID
	tok.UpdatedAt = time.Now().UTC()
	if err := s.tokens.Save(ctx, tok); err != nil {
		return fmt.Errorf("save gmail token: %w", err)
	}
	s.log.Info().Str("user_id", userID).Str("email", tok.Email).Msg("gmail connected")
	return nil
}

func (s *EmailService) List(ctx context.Context, userID string, q ports.EmailListQuery) (*ports.EmailPage, error) {
	if q.Limit <= 0 {
		q.Limit = defaultInboxLimit
	}
	if q.Limit > maxInboxLimit {
		q.Limit = maxInboxLimit
	}

	var page *ports.EmailPage
	err := s.withToken(ctx, userID, func(tok *domain.GmailToken) error {
		var err error
		page, err = s.mailbox.List(ctx, tok, q)
		return err
	})
	return page, err
}

func (s *EmailService) Get(ctx context.Context, userID, messageID string) (*domain.EmailMessage, error) {
	if strings.TrimSpace(messageID) == "" {
		return nil, domain.ErrNotFound
	}
	var msg *domain.EmailMessage
	err := s.withToken(ctx, userID, func(tok *domain.GmailToken) error {
		var err error
		msg, err = s.mailbox.Get(ctx, tok, messageID)
		return err
	})
	return msg, err
}

func (s *EmailService) Send(ctx context.Context, userID string, msg ports.OutgoingEmail) (string, error) {
	if strings.TrimSpace(msg.To) == "" || strings.TrimSpace(msg.Subject) == "" {
		return "", fmt.Errorf("%w: to and subject are required", domain.ErrInvalidInput)
	}
	var id string
	err := s.withToken(ctx, userID, func(tok *domain.GmailToken) error {
		var err error
		id, err = s.mailbox.Send(ctx, tok, msg)
		return err
	})
	if err == nil {
		s.log.Info().Str("user_id", userID).Str("message_id", id).Msg("email sent")
	}
	return id, err
}

// withToken loads the user's grant, runs fn and persists the grant again if
// the mailbox refreshed it.
func (s *EmailService) withToken(ctx context.Context, userID string, fn func(*domain.GmailToken) error) error {
	tok, err := s.tokens.Find(ctx, userID)
	if err != nil {
		return err
	}
	before := tok.AccessToken

	if err := fn(tok); err != nil {
		return err
	}

	if tok.AccessToken != before {
		tok.UpdatedAt = time.Now().UTC()
		if err := s.tokens.Save(ctx, tok); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to persist refreshed gmail token")
		}
	}
	return nil
}
