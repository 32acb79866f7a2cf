package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zecall/dashboard/internal/core/domain"
)

// pageMessages are the texts shown for the flash codes carried in page URLs.
var pageMessages = map[string]string{
	"forbidden":       "You do not have permission to do that.",
	"invalid_token":   "That reset link is not valid.",
	"token_used":      "That reset link has already been used.",
	"token_expired":   "That reset link has expired. Request a new one.",
	"server_error":    "Something went wrong. Please try again.",
	"access_denied":   "Gmail access was not granted.",
	"state_mismatch":  "The Gmail connection could not be verified. Try again.",
	"missing_code":    "Gmail did not return an authorization code.",
	"connect_failed":  "Connecting Gmail failed. Try again.",
	"invalid_login":   "Invalid email or password.",
	"registered":      "Account created. You can log in now.",
	"reset_requested": "If that email has an account, a reset link is on its way.",
	"reset_success":   "Your password has been changed. Log in with the new one.",
	"connected":       "Gmail connected.",
	"created":         "Created.",
	"sent":            "Email sent.",
}

// pageData starts the bindings of a page with its title and the flash
// messages carried in the query string.
func pageData(c echo.Context, title string) map[string]any {
	data := map[string]any{"title": title}
	if code := c.QueryParam("error"); code != "" {
		data["error"] = flash(code)
	}
	switch {
	case c.QueryParam("registered") == "1":
		data["notice"] = pageMessages["registered"]
	case c.QueryParam("reset") == "requested":
		data["notice"] = pageMessages["reset_requested"]
	case c.QueryParam("reset") == "success":
		data["notice"] = pageMessages["reset_success"]
	case c.QueryParam("connected") == "1":
		data["notice"] = pageMessages["connected"]
	case c.QueryParam("created") == "1":
		data["notice"] = pageMessages["created"]
	case c.QueryParam("sent") == "1":
		data["notice"] = pageMessages["sent"]
	}
	return data
}

func flash(code string) string {
	if msg, ok := pageMessages[code]; ok {
		return msg
	}
	return pageMessages["server_error"]
}

// redirectWithError sends the browser to path with ?error=code.
func redirectWithError(c echo.Context, path, code string) error {
	return c.Redirect(http.StatusSeeOther, path+"?error="+url.QueryEscape(code))
}

// formError is the message shown on a re-rendered form. Only input errors are
// shown verbatim.
func formError(err error) string {
	if errors.Is(err, domain.ErrInvalidInput) {
		return err.Error()
	}
	return pageMessages["server_error"]
}

// wantsHTML reports whether the request came from a plain HTML form.
func wantsHTML(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationForm)
}
