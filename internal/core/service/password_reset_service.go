package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

// PasswordResetService issues and redeems single-use reset tokens.
type PasswordResetService struct {
	users   ports.UserRepository
	tokens  ports.ResetTokenRepository
	mailer  ports.Mailer
	baseURL string
	ttl     time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

func NewPasswordResetService(
	users ports.UserRepository,
	tokens ports.ResetTokenRepository,
	mailer ports.Mailer,
	baseURL string,
	ttl time.Duration,
	log zerolog.Logger,
) *PasswordResetService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PasswordResetService{
		users:   users,
		tokens:  tokens,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

// Request mails a reset link when email belongs to a user. Unknown addresses
// succeed silently.
func (s *PasswordResetService) Request(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Msg("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("password reset lookup: %w", err)
	}

	raw, err := newResetToken()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	tok := &domain.PasswordResetToken{
		Token:     raw,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, tok); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := s.baseURL + "/reset-password/" + raw
	if err := s.mailer.SendPasswordReset(ctx, user.Email, link); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to send password reset email")
		return nil
	}
	s.log.Info().Str("user_id", user.ID).Msg("password reset email sent")
	return nil
}

// Validate returns the token when it can be redeemed, or one of
// domain.ErrTokenInvalid, domain.ErrTokenUsed, domain.ErrTokenExpired.
func (s *PasswordResetService) Validate(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrTokenInvalid
	}
	t, err := s.tokens.Find(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := t.Check(s.now()); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *PasswordResetService) Reset(ctx context.Context, token, newPassword string) error {
	t, err := s.Validate(ctx, token)
	if err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}
	if len(newPassword) > maxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	// The token is claimed before the password changes so that only one
	// concurrent redemption can write a hash.
	if err := s.tokens.MarkUsed(ctx, token, s.now().UTC()); err != nil {
		return fmt.Errorf("mark reset token used: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, t.UserID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info().Str("user_id", t.UserID).Msg("password reset")
	return nil
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
