package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zecall/dashboard/internal/api/metrics"
	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

// CampaignHandler serves the campaign API and dashboard pages.
type CampaignHandler struct {
	campaigns ports.CampaignService
	agents    ports.AgentService
}

func NewCampaignHandler(campaigns ports.CampaignService, agents ports.AgentService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, agents: agents}
}

// List handles GET /api/campaigns.
//
// @Summary      List campaigns
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Param        q       query     string  false  "Search on name"
// @Param        status  query     string  false  "Exact status"
// @Success      200     {object}  listResponse[domain.Campaign]
// @Failure      401     {object}  errorResponse
// @Router       /api/campaigns [get]
func (h *CampaignHandler) List(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	res, err := h.campaigns.List(c.Request().Context(), listFilterFrom(c, s.TenantID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(res))
}

// Get handles GET /api/campaigns/:id.
//
// @Summary      Get a campaign
// @Tags         campaigns
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Campaign ID"
// @Success      200  {object}  domain.Campaign
// @Failure      404  {object}  errorResponse
// @Router       /api/campaigns/{id} [get]
func (h *CampaignHandler) Get(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	campaign, err := h.campaigns.Get(c.Request().Context(), s.TenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, campaign)
}

// Create handles POST /api/campaigns.
//
// @Summary      Create a campaign
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCampaignRequest  true  "Campaign"
// @Success      201   {object}  domain.Campaign
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/campaigns [post]
func (h *CampaignHandler) Create(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createCampaignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	campaign, err := h.campaigns.Create(c.Request().Context(), toCampaignInput(req, s))
	if err != nil {
		return err
	}
	metrics.CampaignsCreatedTotal.WithLabelValues(string(campaign.Status)).Inc()
	return c.JSON(http.StatusCreated, campaign)
}

// ChangeStatus handles PATCH /api/campaigns/:id/status.
//
// @Summary      Change a campaign's status
// @Tags         campaigns
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Campaign ID"
// @Param        body  body      changeStatusRequest  true  "New status"
// @Success      200   {object}  domain.Campaign
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/campaigns/{id}/status [patch]
func (h *CampaignHandler) ChangeStatus(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req changeStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	campaign, err := h.campaigns.ChangeStatus(c.Request().Context(), s.TenantID, c.Param("id"), domain.CampaignStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, campaign)
}

// --- Pages ---

// ListPage renders /dashboard/campaigns.
func (h *CampaignHandler) ListPage(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	f := listFilterFrom(c, s.TenantID)
	res, err := h.campaigns.List(c.Request().Context(), f)
	if err != nil {
		return err
	}

	data := pageData(c, "Campaigns")
	data["items"] = views(res.Items, campaignView)
	data["query"] = f.Search
	data["pagination"] = paginationView(c.Request().URL.Path, f, res)
	data["can_edit"] = s.canEdit()
	return c.Render(http.StatusOK, "campaigns", data)
}

// NewPage renders the campaign form.
func (h *CampaignHandler) NewPage(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	if !s.canEdit() {
		return redirectWithError(c, "/dashboard/campaigns", "forbidden")
	}
	return h.renderForm(c, s, http.StatusOK, map[string]any{}, "")
}

// CreatePage handles the campaign form submission.
func (h *CampaignHandler) CreatePage(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	if !s.canEdit() {
		return redirectWithError(c, "/dashboard/campaigns", "forbidden")
	}

	form := map[string]any{
		"name":         c.FormValue("name"),
		"agent_id":     c.FormValue("agent_id"),
		"recipients":   c.FormValue("recipients"),
		"scheduled_at": c.FormValue("scheduled_at"),
	}

	recipients, err := parseRecipients(c.FormValue("recipients"))
	if err != nil {
		return h.renderForm(c, s, http.StatusBadRequest, form, err.Error())
	}
	scheduledAt, err := parseScheduledAt(c.FormValue("scheduled_at"))
	if err != nil {
		return h.renderForm(c, s, http.StatusBadRequest, form, err.Error())
	}

	campaign, err := h.campaigns.Create(c.Request().Context(), ports.CreateCampaignInput{
		TenantID:    s.TenantID,
		UserID:      s.UserID,
		Name:        c.FormValue("name"),
		AgentID:     c.FormValue("agent_id"),
		Recipients:  recipients,
		ScheduledAt: scheduledAt,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		return h.renderForm(c, s, status, form, formError(err))
	}

	metrics.CampaignsCreatedTotal.WithLabelValues(string(campaign.Status)).Inc()
	return c.Redirect(http.StatusSeeOther, "/dashboard/campaigns?created=1")
}

func (h *CampaignHandler) renderForm(c echo.Context, s session, status int, form map[string]any, msg string) error {
	agents, err := h.agents.List(c.Request().Context(), ports.ListFilter{
		TenantID: s.TenantID,
		Page:     domain.NewPage(1, domain.MaxPageLimit),
	})
	if err != nil {
		return err
	}

	data := pageData(c, "New campaign")
	data["form"] = form
	data["agents"] = views(agents.Items, agentView)
	if msg != "" {
		data["error"] = msg
	}
	return c.Render(status, "campaign_form", data)
}
