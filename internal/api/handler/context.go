package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zecall/dashboard/internal/api/middleware"
	"github.com/zecall/dashboard/internal/core/domain"
)

// session is the caller identity injected by the auth middleware.
type session struct {
	UserID   string
	Email    string
	Role     string
	TenantID string
}

// canEdit reports whether the caller may create or change tenant resources.
func (s session) canEdit() bool {
	return s.Role == domain.RoleOwner || s.Role == domain.RoleAdmin
}

// ctxSession extracts the claims injected by the Auth middleware. A missing
// user or tenant means the middleware did not run and is reported as 401.
func ctxSession(c echo.Context) (session, error) {
	s := session{}
	s.UserID, _ = c.Get(middleware.CtxUserID).(string)
	s.Email, _ = c.Get(middleware.CtxEmail).(string)
	s.Role, _ = c.Get(middleware.CtxRole).(string)
	s.TenantID, _ = c.Get(middleware.CtxTenantID).(string)

	if s.UserID == "" || s.TenantID == "" {
		return session{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return s, nil
}
