package domain

import (
	"errors"
	"time"
)

// PasswordResetToken grants a single password change until ExpiresAt.
type PasswordResetToken struct {
	Token     string     `bson:"_id"`
	UserID    string     `bson:"user_id"`
	ExpiresAt time.Time  `bson:"expires_at"`
	UsedAt    *time.Time `bson:"used_at,omitempty"`
	CreatedAt time.Time  `bson:"created_at"`
}

// Check reports why the token cannot be redeemed at now, or nil when it can.
// A used token is reported as used even when it has also expired.
func (t *PasswordResetToken) Check(now time.Time) error {
	if t == nil {
		return ErrTokenInvalid
	}
	if t.UsedAt != nil {
		return ErrTokenUsed
	}
	if !now.Before(t.ExpiresAt) {
		return ErrTokenExpired
	}
	return nil
}

// ResetErrorCode maps token errors to the query-string code the login page
// understands.
func ResetErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrTokenUsed):
		return "token_used"
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	default:
		return "invalid_token"
	}
}
