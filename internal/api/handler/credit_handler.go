package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/api/metrics"
	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

// CreditHandler serves the credit balance endpoints.
type CreditHandler struct {
	service ports.CreditService
	log     zerolog.Logger
}

func NewCreditHandler(service ports.CreditService, log zerolog.Logger) *CreditHandler {
	return &CreditHandler{service: service, log: log}
}

// Check handles GET /api/credits/check.
//
// @Summary      Check credits for a planned call
// @Tags         credits
// @Produce      json
// @Security     BearerAuth
// @Param        duration_seconds  query     number  true  "Planned call duration in seconds"
// @Success      200               {object}  domain.CreditEstimate
// @Failure      400               {object}  errorResponse
// @Failure      401               {object}  errorResponse
// @Failure      500               {object}  errorResponse
// @Router       /api/credits/check [get]
func (h *CreditHandler) Check(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	raw := c.QueryParam("duration_seconds")
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "duration_seconds is required")
	}
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, domain.ErrInvalidDuration.Error())
	}

	est, err := h.service.Check(c.Request().Context(), s.UserID, duration)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDuration) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.log.Error().Err(err).Str("user_id", s.UserID).Msg("credit check failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to check credits")
	}

	metrics.CreditChecksTotal.WithLabelValues(strconv.FormatBool(est.HasSufficientCredits)).Inc()
	return c.JSON(http.StatusOK, est)
}

// Balance handles GET /api/credits/balance.
//
// @Summary      Current credit balance
// @Tags         credits
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  balanceResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/credits/balance [get]
func (h *CreditHandler) Balance(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	balance, err := h.service.Balance(c.Request().Context(), s.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balanceResponse{Balance: balance})
}

// Usage handles GET /api/credits/usage.
//
// @Summary      Billed call history
// @Tags         credits
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  listResponse[domain.CallUsage]
// @Failure      401    {object}  errorResponse
// @Router       /api/credits/usage [get]
func (h *CreditHandler) Usage(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	f := listFilterFrom(c, s.TenantID)
	res, err := h.service.Usage(c.Request().Context(), s.UserID, f.Page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(res))
}
