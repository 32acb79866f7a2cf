package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testCookie = "zecall_session"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":       "user-1",
		"email":     "alice@acme.io",
		"role":      "admin",
		"tenant_id": "tenant-1",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
}

func runAuth(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret", testCookie)(func(c echo.Context) error {
		called = true
		if c.Get(CtxUserID) != "user-1" {
			t.Fatalf("user_id not set")
		}
		if c.Get(CtxRole) != "admin" {
			t.Fatalf("role not set")
		}
		if c.Get(CtxTenantID) != "tenant-1" {
			t.Fatalf("tenant_id not set")
		}
		if c.Get(CtxEmail) != "alice@acme.io" {
			t.Fatalf("email not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", validClaims()))

	rec, called := runAuth(t, req)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next to run with 200, got called=%v code=%d", called, rec.Code)
	}
}

func TestAuthMiddleware_ValidCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: signToken(t, "secret", validClaims())})

	rec, called := runAuth(t, req)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next to run with 200, got called=%v code=%d", called, rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	noTenant := validClaims()
	delete(noTenant, "tenant_id")

	cases := map[string]func(r *http.Request){
		"missing":        func(r *http.Request) {},
		"bad scheme":     func(r *http.Request) { r.Header.Set("Authorization", "Token abc") },
		"garbage":        func(r *http.Request) { r.Header.Set("Authorization", "Bearer not-a-token") },
		"wrong secret":   func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signToken(t, "other", validClaims())) },
		"expired":        func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signToken(t, "secret", expired)) },
		"missing tenant": func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+signToken(t, "secret", noTenant)) },
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			setup(req)

			rec, called := runAuth(t, req)
			if called {
				t.Fatal("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestPageAuth_RedirectsToLogin(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/campaigns?page=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := PageAuth("secret", testCookie)(func(c echo.Context) error {
		t.Fatal("should not reach next")
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	want := "/login?callbackUrl=%2Fdashboard%2Fcampaigns%3Fpage%3D2"
	if got := rec.Header().Get("Location"); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
}

func TestPageAuth_PassesWithCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/campaigns", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: signToken(t, "secret", validClaims())})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := PageAuth("secret", testCookie)(func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(CtxUserID).(string))
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "user-1" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}
