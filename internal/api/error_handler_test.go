package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/core/domain"
)

func TestHTTPErrorHandler_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"invalid input", fmt.Errorf("%w: name is required", domain.ErrInvalidInput), http.StatusBadRequest, "invalid input: name is required"},
		{"invalid duration", domain.ErrInvalidDuration, http.StatusBadRequest, domain.ErrInvalidDuration.Error()},
		{"not found", fmt.Errorf("find campaign: %w", domain.ErrNotFound), http.StatusNotFound, "not found"},
		{"subscription", domain.ErrSubscriptionNotFound, http.StatusNotFound, "subscription not found"},
		{"transition", fmt.Errorf("%w (from draft to completed)", domain.ErrInvalidTransition), http.StatusUnprocessableEntity, "invalid status transition (from draft to completed)"},
		{"gmail", domain.ErrGmailNotConnected, http.StatusConflict, "gmail not connected"},
		{"exists", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"echo", echo.NewHTTPError(http.StatusServiceUnavailable, "queue full"), http.StatusServiceUnavailable, "queue full"},
		{"unexpected", errors.New("mongo exploded"), http.StatusInternalServerError, "internal server error"},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/x", nil), rec)

			handler(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Body.String() != "done" {
		t.Fatalf("body was rewritten: %q", rec.Body.String())
	}
}
