package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zecall/dashboard/internal/api/metrics"
	"github.com/zecall/dashboard/internal/core/domain"
)

const maxWebhookBody = 64 << 10

// CallStatusDispatcher is the interface the handler uses to enqueue events.
type CallStatusDispatcher interface {
	Enqueue(event domain.CallStatusEvent) error
}

// WebhookHandler ingests call-status reports from the call-processing backend.
type WebhookHandler struct {
	dispatcher CallStatusDispatcher
	now        func() time.Time
}

// NewWebhookHandler creates a WebhookHandler backed by the given dispatcher.
func NewWebhookHandler(dispatcher CallStatusDispatcher) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, now: time.Now}
}

// CallStatus handles POST /api/webhooks/call-status. The bearer secret is
// checked by middleware before this runs.
//
// @Summary      Ingest a call-status report
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Security     WebhookSecret
// @Param        body  body      callStatusRequest  true  "Call status"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/webhooks/call-status [post]
func (h *WebhookHandler) CallStatus(c echo.Context) error {
	var req callStatusRequest
	if err := c.Bind(&req); err != nil {
		metrics.WebhooksRejectedTotal.WithLabelValues("invalid_payload").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.WebhooksRejectedTotal.WithLabelValues("invalid_payload").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.dispatcher.Enqueue(toCallStatusEvent(req, h.now().UTC())); err != nil {
		metrics.WebhooksRejectedTotal.WithLabelValues("queue_full").Inc()
		return echo.NewHTTPError(http.StatusServiceUnavailable, "call status queue is full, retry later")
	}

	metrics.WebhooksReceivedTotal.WithLabelValues(req.Status).Inc()
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// readBody reads at most maxWebhookBody bytes of a raw webhook payload.
func readBody(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody+1))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}
	if len(body) > maxWebhookBody {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "payload too large")
	}
	if len(body) == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "empty payload")
	}
	return body, nil
}
