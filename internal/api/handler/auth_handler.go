package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/api/metrics"
	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

const defaultLanding = "/dashboard/campaigns"

// SessionCookie describes the browser session cookie.
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      SessionCookie
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, cookie SessionCookie, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie, log: log}
}

// Register creates a new account owning a new tenant.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.register(c, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

func (h *AuthHandler) register(c echo.Context, req registerRequest) (*domain.User, error) {
	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid email or password")
	case err != nil:
		return nil, err
	}
	metrics.SignupsTotal.Inc()
	return user, nil
}

// Login authenticates a user, returns a JWT and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.login(c, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

func (h *AuthHandler) login(c echo.Context, req loginRequest) (string, *domain.User, error) {
	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUserNotFound):
		return "", nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	case err != nil:
		return "", nil, err
	}
	h.setSession(c, token, h.cookie.TTL)
	return token, user, nil
}

// Logout clears the session cookie.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.setSession(c, "", -1)
	if wantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) setSession(c echo.Context, token string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// --- Pages ---

// LoginPage renders /login.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	data := pageData(c, "Log in")
	data["callback_url"] = safeCallback(c.QueryParam("callbackUrl"))
	return c.Render(http.StatusOK, "login", data)
}

// LoginSubmit handles the login form and redirects to the callback URL.
func (h *AuthHandler) LoginSubmit(c echo.Context) error {
	req := loginRequest{
		Email:       c.FormValue("email"),
		Password:    c.FormValue("password"),
		CallbackURL: safeCallback(c.FormValue("callbackUrl")),
	}
	rerender := func(status int, msg string) error {
		data := pageData(c, "Log in")
		data["email"] = req.Email
		data["callback_url"] = req.CallbackURL
		data["error"] = msg
		return c.Render(status, "login", data)
	}

	if err := c.Validate(&req); err != nil {
		return rerender(http.StatusBadRequest, pageMessages["invalid_login"])
	}
	if _, _, err := h.login(c, req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusUnauthorized {
			return rerender(http.StatusUnauthorized, pageMessages["invalid_login"])
		}
		h.log.Error().Err(err).Msg("login failed")
		return rerender(http.StatusInternalServerError, pageMessages["server_error"])
	}
	return c.Redirect(http.StatusSeeOther, req.CallbackURL)
}

// SignupPage renders /signup.
func (h *AuthHandler) SignupPage(c echo.Context) error {
	return c.Render(http.StatusOK, "signup", pageData(c, "Sign up"))
}

// SignupSubmit handles the signup form.
func (h *AuthHandler) SignupSubmit(c echo.Context) error {
	req := registerRequest{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}
	rerender := func(status int, msg string) error {
		data := pageData(c, "Sign up")
		data["name"] = req.Name
		data["email"] = req.Email
		data["error"] = msg
		return c.Render(status, "signup", data)
	}

	if err := c.Validate(&req); err != nil {
		return rerender(http.StatusBadRequest, err.Error())
	}
	if _, err := h.register(c, req); err != nil {
		var he *echo.HTTPError
		switch {
		case errors.Is(err, domain.ErrUserExists):
			return rerender(http.StatusConflict, "An account with that email already exists.")
		case errors.As(err, &he):
			return rerender(he.Code, "Enter a valid email and a password of at least 8 characters.")
		}
		h.log.Error().Err(err).Msg("signup failed")
		return rerender(http.StatusInternalServerError, pageMessages["server_error"])
	}
	return c.Redirect(http.StatusSeeOther, "/login?registered=1")
}

// safeCallback keeps post-login redirects on this site.
func safeCallback(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return defaultLanding
	}
	return raw
}
