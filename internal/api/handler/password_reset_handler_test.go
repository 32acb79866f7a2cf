package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/core/domain"
)

func validToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	return &domain.PasswordResetToken{Token: token, UserID: "user-1"}, nil
}

func TestForgotPassword_AlwaysAccepted(t *testing.T) {
	for _, svcErr := range []error{nil, errors.New("mongo down")} {
		requested := ""
		stub := &stubPasswordResetService{
			requestFn: func(ctx context.Context, email string) error {
				requested = email
				return svcErr
			},
		}
		e := newEcho(t)
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/forgot-password", `{"email":"ana@example.com"}`), rec)

		if err := NewPasswordResetHandler(stub, zerolog.Nop()).ForgotPassword(c); err != nil {
			t.Fatal(err)
		}
		if rec.Code != http.StatusAccepted || requested != "ana@example.com" {
			t.Fatalf("%v: expected 202 and a request, got %d %q", svcErr, rec.Code, requested)
		}
	}
}

func TestForgotPassword_Form(t *testing.T) {
	stub := &stubPasswordResetService{requestFn: func(ctx context.Context, email string) error { return nil }}
	e := newEcho(t)
	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/api/auth/forgot-password", "email=ana%40example.com"), rec)

	if err := NewPasswordResetHandler(stub, zerolog.Nop()).ForgotPassword(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login?reset=requested" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestForgotPassword_MalformedEmail(t *testing.T) {
	stub := &stubPasswordResetService{
		requestFn: func(ctx context.Context, email string) error {
			t.Fatal("should not be called")
			return nil
		},
	}
	e := newEcho(t)
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/forgot-password", `{"email":"nope"}`), httptest.NewRecorder())
	if code := httpCode(t, NewPasswordResetHandler(stub, zerolog.Nop()).ForgotPassword(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestResetPage_TokenFailures(t *testing.T) {
	cases := map[error]string{
		domain.ErrTokenInvalid:                           "/login?error=invalid_token",
		domain.ErrTokenUsed:                              "/login?error=token_used",
		domain.ErrTokenExpired:                           "/login?error=token_expired",
		fmt.Errorf("find token: %w", errors.New("boom")): "/login?error=server_error",
	}
	for svcErr, location := range cases {
		stub := &stubPasswordResetService{
			validateFn: func(ctx context.Context, token string) (*domain.PasswordResetToken, error) { return nil, svcErr },
		}
		e := newEcho(t)
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/reset-password/abc", nil), rec)
		c.SetParamNames("token")
		c.SetParamValues("abc")

		if err := NewPasswordResetHandler(stub, zerolog.Nop()).ResetPage(c); err != nil {
			t.Fatal(err)
		}
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != location {
			t.Fatalf("%v: expected %q, got %d %q", svcErr, location, rec.Code, rec.Header().Get("Location"))
		}
	}
}

func TestResetPage_RendersForm(t *testing.T) {
	stub := &stubPasswordResetService{validateFn: validToken}
	e := newEcho(t)
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/reset-password/abc", nil), rec)
	c.SetParamNames("token")
	c.SetParamValues("abc")

	if err := NewPasswordResetHandler(stub, zerolog.Nop()).ResetPage(c); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `action="/reset-password/abc"`) {
		t.Fatalf("unexpected page %d %s", rec.Code, rec.Body.String())
	}
}

func TestResetSubmit(t *testing.T) {
	cases := []struct {
		name     string
		form     string
		code     int
		location string
		message  string
	}{
		{"success", "password=newsecret1&confirm=newsecret1", http.StatusSeeOther, "/login?reset=success", ""},
		{"too short", "password=short&confirm=short", http.StatusBadRequest, "", "at least 8 characters"},
		{"mismatch", "password=newsecret1&confirm=newsecret2", http.StatusBadRequest, "", "Passwords do not match."},
		{"too long", "password=" + strings.Repeat("p", 80) + "&confirm=" + strings.Repeat("p", 80), http.StatusBadRequest, "", "at most 72 characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reset := false
			stub := &stubPasswordResetService{
				validateFn: validToken,
				resetFn: func(ctx context.Context, token, password string) error {
					if token != "abc" || password != "newsecret1" {
						t.Fatalf("unexpected args %s %s", token, password)
					}
					reset = true
					return nil
				},
			}
			e := newEcho(t)
			rec := httptest.NewRecorder()
			c := e.NewContext(formRequest("/reset-password/abc", tc.form), rec)
			c.SetParamNames("token")
			c.SetParamValues("abc")

			if err := NewPasswordResetHandler(stub, zerolog.Nop()).ResetSubmit(c); err != nil {
				t.Fatal(err)
			}
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if tc.location != "" && rec.Header().Get("Location") != tc.location {
				t.Fatalf("unexpected redirect %q", rec.Header().Get("Location"))
			}
			if tc.message != "" && !strings.Contains(rec.Body.String(), tc.message) {
				t.Fatalf("missing %q in %s", tc.message, rec.Body.String())
			}
			if reset != (tc.code == http.StatusSeeOther) {
				t.Fatalf("reset called = %v", reset)
			}
		})
	}
}

func TestResetSubmit_UsedBetweenRenderAndSubmit(t *testing.T) {
	stub := &stubPasswordResetService{
		validateFn: func(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
			return nil, domain.ErrTokenUsed
		},
	}
	e := newEcho(t)
	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/reset-password/abc", "password=newsecret1&confirm=newsecret1"), rec)
	c.SetParamNames("token")
	c.SetParamValues("abc")

	if err := NewPasswordResetHandler(stub, zerolog.Nop()).ResetSubmit(c); err != nil {
		t.Fatal(err)
	}
	if rec.Header().Get("Location") != "/login?error=token_used" {
		t.Fatalf("unexpected redirect %q", rec.Header().Get("Location"))
	}
}
