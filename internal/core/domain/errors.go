package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")

	ErrInvalidDuration = errors.New("duration_seconds must be a positive number")

	ErrGmailNotConnected = errors.New("gmail not connected")

	ErrSubscriptionNotFound = errors.New("subscription not found")

	ErrTokenInvalid = errors.New("invalid reset token")
	ErrTokenUsed    = errors.New("reset token already used")
	ErrTokenExpired = errors.New("reset token expired")
)
