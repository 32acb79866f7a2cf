package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/core/domain"
	"github.com/zecall/dashboard/internal/core/ports"
)

const (
	gmailStateCookie = "zecall_gmail_state"
	gmailStateTTL    = 10 * time.Minute
)

// EmailHandler serves the Gmail connection flow, the email API and the inbox
// pages.
type EmailHandler struct {
	emails        ports.EmailService
	secureCookies bool
	log           zerolog.Logger
}

func NewEmailHandler(emails ports.EmailService, secureCookies bool, log zerolog.Logger) *EmailHandler {
	return &EmailHandler{emails: emails, secureCookies: secureCookies, log: log}
}

// Connect handles GET /api/gmail/connect.
//
// @Summary      Start the Gmail OAuth flow
// @Tags         emails
// @Security     BearerAuth
// @Success      302
// @Router       /api/gmail/connect [get]
func (h *EmailHandler) Connect(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}

	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     gmailStateCookie,
		Value:    state,
		Path:     "/api/gmail",
		MaxAge:   int(gmailStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, h.emails.ConnectURL(state))
}

// Callback handles GET /api/gmail/callback.
//
// @Summary      Finish the Gmail OAuth flow
// @Tags         emails
// @Security     BearerAuth
// @Param        state  query  string  true   "OAuth state"
// @Param        code   query  string  false  "Authorization code"
// @Param        error  query  string  false  "OAuth error"
// @Success      303
// @Router       /api/gmail/callback [get]
func (h *EmailHandler) Callback(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	expected := ""
	if cookie, err := c.Cookie(gmailStateCookie); err == nil {
		expected = cookie.Value
	}
	c.SetCookie(&http.Cookie{
		Name:     gmailStateCookie,
		Path:     "/api/gmail",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	if c.QueryParam("error") != "" {
		return redirectWithError(c, "/dashboard/emails", "access_denied")
	}
	state := c.QueryParam("state")
	if expected == "" || subtle.ConstantTimeCompare([]byte(state), []byte(expected)) != 1 {
		return redirectWithError(c, "/dashboard/emails", "state_mismatch")
	}
	code := c.QueryParam("code")
	if code == "" {
		return redirectWithError(c, "/dashboard/emails", "missing_code")
	}

	if err := h.emails.Connect(c.Request().Context(), s.UserID, code); err != nil {
		h.log.Error().Err(err).Str("user_id", s.UserID).Msg("gmail connect failed")
		return redirectWithError(c, "/dashboard/emails", "connect_failed")
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard/emails?connected=1")
}

func emailQueryFrom(c echo.Context) ports.EmailListQuery {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return ports.EmailListQuery{
		Query:     c.QueryParam("q"),
		PageToken: c.QueryParam("page_token"),
		Limit:     limit,
	}
}

// List handles GET /api/emails.
//
// @Summary      List inbox messages
// @Tags         emails
// @Produce      json
// @Security     BearerAuth
// @Param        q           query     string  false  "Gmail search query"
// @Param        page_token  query     string  false  "Cursor of the next page"
// @Param        limit       query     int     false  "Page size"
// @Success      200         {object}  emailListResponse
// @Failure      409         {object}  errorResponse
// @Router       /api/emails [get]
func (h *EmailHandler) List(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	page, err := h.emails.List(c.Request().Context(), s.UserID, emailQueryFrom(c))
	if err != nil {
		return err
	}
	messages := page.Messages
	if messages == nil {
		messages = []domain.EmailMessage{}
	}
	return c.JSON(http.StatusOK, emailListResponse{Data: messages, NextPageToken: page.NextPageToken})
}

// Get handles GET /api/emails/:messageId.
//
// @Summary      Get a message
// @Tags         emails
// @Produce      json
// @Security     BearerAuth
// @Param        messageId  path      string  true  "Gmail message ID"
// @Success      200        {object}  domain.EmailMessage
// @Failure      404        {object}  errorResponse
// @Failure      409        {object}  errorResponse
// @Router       /api/emails/{messageId} [get]
func (h *EmailHandler) Get(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	msg, err := h.emails.Get(c.Request().Context(), s.UserID, c.Param("messageId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, msg)
}

// Send handles POST /api/emails.
//
// @Summary      Send an email
// @Tags         emails
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendEmailRequest  true  "Message"
// @Success      201   {object}  sendEmailResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/emails [post]
func (h *EmailHandler) Send(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req sendEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := h.emails.Send(c.Request().Context(), s.UserID, ports.OutgoingEmail{
		To:      req.To,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sendEmailResponse{ID: id})
}

// --- Pages ---

// InboxPage renders /dashboard/emails, or the connect prompt when the user
// has no Gmail grant.
func (h *EmailHandler) InboxPage(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	q := emailQueryFrom(c)
	data := pageData(c, "Emails")
	data["query"] = q.Query

	page, err := h.emails.List(c.Request().Context(), s.UserID, q)
	switch {
	case errors.Is(err, domain.ErrGmailNotConnected):
		data["connected"] = false
		return c.Render(http.StatusOK, "emails", data)
	case err != nil:
		h.log.Error().Err(err).Str("user_id", s.UserID).Msg("list gmail messages failed")
		data["connected"] = true
		data["error"] = pageMessages["server_error"]
		return c.Render(http.StatusBadGateway, "emails", data)
	}

	data["connected"] = true
	data["messages"] = views(page.Messages, func(m domain.EmailMessage) map[string]any { return emailView(&m) })
	if page.NextPageToken != "" {
		v := url.Values{}
		v.Set("page_token", page.NextPageToken)
		if q.Query != "" {
			v.Set("q", q.Query)
		}
		data["next_url"] = "/dashboard/emails?" + v.Encode()
	}
	return c.Render(http.StatusOK, "emails", data)
}

// DetailPage renders /dashboard/emails/:messageId.
func (h *EmailHandler) DetailPage(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	msg, err := h.emails.Get(c.Request().Context(), s.UserID, c.Param("messageId"))
	if errors.Is(err, domain.ErrGmailNotConnected) {
		return c.Redirect(http.StatusSeeOther, "/dashboard/emails")
	}
	if err != nil {
		return err
	}

	data := pageData(c, msg.Subject)
	data["message"] = emailView(msg)
	return c.Render(http.StatusOK, "email_detail", data)
}

// ComposePage renders the new email form.
func (h *EmailHandler) ComposePage(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}
	data := pageData(c, "New email")
	data["form"] = map[string]any{"to": c.QueryParam("to")}
	return c.Render(http.StatusOK, "email_form", data)
}

// SendPage handles the compose form submission.
func (h *EmailHandler) SendPage(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}

	req := sendEmailRequest{
		To:      c.FormValue("to"),
		Subject: c.FormValue("subject"),
		Body:    c.FormValue("body"),
	}
	rerender := func(status int, msg string) error {
		data := pageData(c, "New email")
		data["form"] = map[string]any{"to": req.To, "subject": req.Subject, "body": req.Body}
		data["error"] = msg
		return c.Render(status, "email_form", data)
	}

	if err := c.Validate(&req); err != nil {
		return rerender(http.StatusBadRequest, err.Error())
	}
	_, err = h.emails.Send(c.Request().Context(), s.UserID, ports.OutgoingEmail{
		To:      req.To,
		Subject: req.Subject,
		Body:    req.Body,
	})
	switch {
	case errors.Is(err, domain.ErrGmailNotConnected):
		return c.Redirect(http.StatusSeeOther, "/dashboard/emails")
	case errors.Is(err, domain.ErrInvalidInput):
		return rerender(http.StatusBadRequest, err.Error())
	case err != nil:
		h.log.Error().Err(err).Str("user_id", s.UserID).Msg("send gmail message failed")
		return rerender(http.StatusBadGateway, pageMessages["server_error"])
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard/emails?sent=1")
}
