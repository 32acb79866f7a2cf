package domain

import (
	"fmt"
	"testing"
	"time"
)

func TestPasswordResetToken_Check(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	used := now.Add(-time.Minute)

	cases := []struct {
		name  string
		token *PasswordResetToken
		want  error
	}{
		{"missing", nil, ErrTokenInvalid},
		{"valid", &PasswordResetToken{ExpiresAt: now.Add(time.Hour)}, nil},
		{"used", &PasswordResetToken{ExpiresAt: now.Add(time.Hour), UsedAt: &used}, ErrTokenUsed},
		{"expired", &PasswordResetToken{ExpiresAt: now.Add(-time.Second)}, ErrTokenExpired},
		{"expires exactly now", &PasswordResetToken{ExpiresAt: now}, ErrTokenExpired},
		{"used and expired", &PasswordResetToken{ExpiresAt: now.Add(-time.Hour), UsedAt: &used}, ErrTokenUsed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.token.Check(now); got != tc.want {
				t.Fatalf("Check() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResetErrorCode(t *testing.T) {
	if got := ResetErrorCode(ErrTokenUsed); got != "token_used" {
		t.Fatalf("got %q", got)
	}
	if got := ResetErrorCode(ErrTokenExpired); got != "token_expired" {
		t.Fatalf("got %q", got)
	}
	if got := ResetErrorCode(ErrTokenInvalid); got != "invalid_token" {
		t.Fatalf("got %q", got)
	}
	if got := ResetErrorCode(fmt.Errorf("mark reset token used: %w", ErrTokenUsed)); got != "token_used" {
		t.Fatalf("wrapped: got %q", got)
	}
}
