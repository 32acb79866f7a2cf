package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

// AgentHandler serves the AI agent API and dashboard pages.
type AgentHandler struct {
	agents ports.AgentService
}

func NewAgentHandler(agents ports.AgentService) *AgentHandler {
	return &AgentHandler{agents: agents}
}

// List handles GET /api/agents.
//
// @Summary      List AI agents
// @Tags         agents
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Param        q      query     string  false  "Search on name or voice"
// @Success      200    {object}  listResponse[domain.AIAgent]
// @Router       /api/agents [get]
func (h *AgentHandler) List(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	res, err := h.agents.List(c.Request().Context(), listFilterFrom(c, s.TenantID))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(res))
}

// Get handles GET /api/agents/:id.
//
// @Summary      Get an AI agent
// @Tags         agents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Agent ID"
// @Success      200  {object}  domain.AIAgent
// @Failure      404  {object}  errorResponse
// @Router       /api/agents/{id} [get]
func (h *AgentHandler) Get(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	agent, err := h.agents.Get(c.Request().Context(), s.TenantID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, agent)
}

// Create handles POST /api/agents.
//
// @Summary      Create an AI agent
// @Tags         agents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAgentRequest  true  "Agent"
// @Success      201   {object}  domain.AIAgent
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/agents [post]
func (h *AgentHandler) Create(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createAgentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	agent, err := h.agents.Create(c.Request().Context(), toAgentInput(req, s))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, agent)
}

// ListPage renders /dashboard/ai-agents.
func (h *AgentHandler) ListPage(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	f := listFilterFrom(c, s.TenantID)
	res, err := h.agents.List(c.Request().Context(), f)
	if err != nil {
		return err
	}

	data := pageData(c, "AI agents")
	data["items"] = views(res.Items, agentView)
	data["query"] = f.Search
	data["pagination"] = paginationView(c.Request().URL.Path, f, res)
	data["can_edit"] = s.canEdit()
	return c.Render(http.StatusOK, "agents", data)
}

// NewPage renders the agent form.
func (h *AgentHandler) NewPage(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	if !s.canEdit() {
		return redirectWithError(c, "/dashboard/ai-agents", "forbidden")
	}
	data := pageData(c, "New AI agent")
	data["form"] = map[string]any{}
	return c.Render(http.StatusOK, "agent_form", data)
}

// CreatePage handles the agent form submission.
func (h *AgentHandler) CreatePage(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	if !s.canEdit() {
		return redirectWithError(c, "/dashboard/ai-agents", "forbidden")
	}

	req := createAgentRequest{
		Name:         c.FormValue("name"),
		Voice:        c.FormValue("voice"),
		Language:     c.FormValue("language"),
		Greeting:     c.FormValue("greeting"),
		SystemPrompt: c.FormValue("system_prompt"),
	}
	form := map[string]any{
		"name":          req.Name,
		"voice":         req.Voice,
		"language":      req.Language,
		"greeting":      req.Greeting,
		"system_prompt": req.SystemPrompt,
	}
	rerender := func(status int, msg string) error {
		data := pageData(c, "New AI agent")
		data["form"] = form
		data["error"] = msg
		return c.Render(status, "agent_form", data)
	}

	if err := c.Validate(&req); err != nil {
		return rerender(http.StatusBadRequest, err.Error())
	}
	if _, err := h.agents.Create(c.Request().Context(), toAgentInput(req, s)); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		return rerender(status, formError(err))
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard/ai-agents?created=1")
}
