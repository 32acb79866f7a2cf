package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zecall/dashboard/internal/api/metrics"
	"github.com/zecall/dashboard/internal/core/ports"
)

const defaultHeartbeat = 25 * time.Second

// EventsHandler streams a user's credits updates to the browser.
type EventsHandler struct {
	subscriber ports.EventSubscriber
	heartbeat  time.Duration
}

func NewEventsHandler(subscriber ports.EventSubscriber) *EventsHandler {
	return &EventsHandler{subscriber: subscriber, heartbeat: defaultHeartbeat}
}

// Stream handles GET /api/events as Server-Sent Events.
//
// @Summary      Credits update stream
// @Tags         credits
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200  {string}  string  "event stream"
// @Failure      401  {object}  errorResponse
// @Router       /api/events [get]
func (h *EventsHandler) Stream(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	events, closeFn, err := h.subscriber.Subscribe(ctx, s.UserID)
	if err != nil {
		return err
	}
	defer closeFn()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	metrics.EventStreamsActive.Inc()
	defer metrics.EventStreamsActive.Dec()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
				return nil
			}
			w.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
