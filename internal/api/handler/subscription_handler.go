package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

// SubscriptionHandler exposes the caller's plan and the Stripe webhook.
type SubscriptionHandler struct {
	subscriptions ports.SubscriptionService
}

func NewSubscriptionHandler(subscriptions ports.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// Get handles GET /api/subscription.
//
// @Summary      Current subscription
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Subscription
// @Failure      404  {object}  errorResponse
// @Router       /api/subscription [get]
func (h *SubscriptionHandler) Get(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	sub, err := h.subscriptions.Get(c.Request().Context(), s.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sub)
}

// SetAutoRenew handles PATCH /api/subscription/auto-renew.
//
// @Summary      Toggle automatic renewal
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      autoRenewRequest  true  "Auto-renew flag"
// @Success      200   {object}  domain.Subscription
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/subscription/auto-renew [patch]
func (h *SubscriptionHandler) SetAutoRenew(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req autoRenewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sub, err := h.subscriptions.SetAutoRenew(c.Request().Context(), s.UserID, *req.AutoRenew)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sub)
}

// StripeWebhook handles POST /api/webhooks/stripe.
//
// @Summary      Stripe subscription events
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header    string  true  "Stripe signature"
// @Success      200               {object}  map[string]bool
// @Failure      400               {object}  errorResponse
// @Router       /api/webhooks/stripe [post]
func (h *SubscriptionHandler) StripeWebhook(c echo.Context) error {
	payload, err := readBody(c)
	if err != nil {
		return err
	}

	err = h.subscriptions.HandleWebhook(c.Request().Context(), payload, c.Request().Header.Get("Stripe-Signature"))
	if errors.Is(err, domain.ErrInvalidInput) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid stripe event")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
