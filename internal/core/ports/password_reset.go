package ports

import (
	"context"
	"time"

	"github.com/zecall/dashboard/internal/core/domain"
)

// ResetTokenRepository persists password-reset tokens. Find returns
// domain.ErrTokenInvalid when the token does not exist.
type ResetTokenRepository interface {
	Create(ctx context.Context, t *domain.PasswordResetToken) error
	Find(ctx context.Context, token string) (*domain.PasswordResetToken, error)
	MarkUsed(ctx context.Context, token string, at time.Time) error
}

// Mailer sends transactional email.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

type PasswordResetService interface {
	Request(ctx context.Context, email string) error
	Validate(ctx context.Context, token string) (*domain.PasswordResetToken, error)
	Reset(ctx context.Context, token, newPassword string) error
}
