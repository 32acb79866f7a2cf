package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

const resetAcceptedMessage = "If the email belongs to an account, a reset link has been sent."

// PasswordResetHandler serves the forgot-password endpoint and the reset pages.
type PasswordResetHandler struct {
	resets ports.PasswordResetService
	log    zerolog.Logger
}

func NewPasswordResetHandler(resets ports.PasswordResetService, log zerolog.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{resets: resets, log: log}
}

// ForgotPassword handles POST /api/auth/forgot-password. The answer does not
// reveal whether the account exists.
//
// @Summary      Request a password reset link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/forgot-password [post]
func (h *PasswordResetHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		if wantsHTML(c) {
			return c.Redirect(http.StatusSeeOther, "/login?reset=requested")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.resets.Request(c.Request().Context(), req.Email); err != nil {
		h.log.Error().Err(err).Msg("password reset request failed")
	}

	if wantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, "/login?reset=requested")
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: resetAcceptedMessage})
}

// ResetPage renders GET /reset-password/:token.
func (h *PasswordResetHandler) ResetPage(c echo.Context) error {
	token := c.Param("token")
	if _, err := h.resets.Validate(c.Request().Context(), token); err != nil {
		return h.tokenFailure(c, err)
	}
	data := pageData(c, "Reset password")
	data["token"] = token
	return c.Render(http.StatusOK, "reset_password", data)
}

// ResetSubmit handles POST /reset-password/:token.
func (h *PasswordResetHandler) ResetSubmit(c echo.Context) error {
	token := c.Param("token")
	ctx := c.Request().Context()

	if _, err := h.resets.Validate(ctx, token); err != nil {
		return h.tokenFailure(c, err)
	}

	var form resetPasswordForm
	if err := c.Bind(&form); err != nil {
		return h.rerender(c, token, "Invalid form submission.")
	}
	if len(form.Password) < 8 {
		return h.rerender(c, token, "Password must be at least 8 characters.")
	}
	if len(form.Password) > 72 {
		return h.rerender(c, token, "Password must be at most 72 characters.")
	}
	if form.Password != form.Confirm {
		return h.rerender(c, token, "Passwords do not match.")
	}

	if err := h.resets.Reset(ctx, token, form.Password); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return h.rerender(c, token, err.Error())
		}
		return h.tokenFailure(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/login?reset=success")
}

func (h *PasswordResetHandler) rerender(c echo.Context, token, msg string) error {
	data := pageData(c, "Reset password")
	data["token"] = token
	data["error"] = msg
	return c.Render(http.StatusBadRequest, "reset_password", data)
}

func (h *PasswordResetHandler) tokenFailure(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenUsed), errors.Is(err, domain.ErrTokenExpired):
		return redirectWithError(c, "/login", domain.ResetErrorCode(err))
	}
	h.log.Error().Err(err).Msg("password reset failed")
	return redirectWithError(c, "/login", "server_error")
}
