package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zecall/dashboard/internal/core/ports"
)

// IncomingCallHandler serves the read-only incoming call log.
type IncomingCallHandler struct {
	calls ports.IncomingCallService
}

func NewIncomingCallHandler(calls ports.IncomingCallService) *IncomingCallHandler {
	return &IncomingCallHandler{calls: calls}
}

// List handles GET /api/incoming-calls.
//
// @Summary      List incoming calls
// @Tags         incoming-calls
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Param        q      query     string  false  "Search on from, to or summary"
// @Success      200    {object}  listResponse[domain.IncomingCall]
// @Router       /api/incoming-calls [get]
func (h *IncomingCallHandler) List(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	res, err := h.calls.List(c.Request().Context(), listFilterFrom(c, s.TenantID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(res))
}

// Get handles GET /api/incoming-calls/:id.
//
// @Summary      Get an incoming call
// @Tags         incoming-calls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Call ID"
// @Success      200  {object}  domain.IncomingCall
// @Failure      404  {object}  errorResponse
// @Router       /api/incoming-calls/{id} [get]
func (h *IncomingCallHandler) Get(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	call, err := h.calls.Get(c.Request().Context(), s.TenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, call)
}

// ListPage renders /dashboard/incoming-calls.
func (h *IncomingCallHandler) ListPage(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	f := listFilterFrom(c, s.TenantID)
	res, err := h.calls.List(c.Request().Context(), f)
	if err != nil {
		return err
	}

	data := pageData(c, "Incoming calls")
	data["items"] = views(res.Items, incomingCallView)
	data["query"] = f.Search
	data["pagination"] = paginationView(c.Request().URL.Path, f, res)
	return c.Render(http.StatusOK, "incoming_calls", data)
}
