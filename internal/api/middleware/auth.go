package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by Auth and PageAuth.
const (
	CtxUserID   = "user_id"
	CtxEmail    = "email"
	CtxRole     = "role"
	CtxTenantID = "tenant_id"
)

var errNoToken = errors.New("no session token")

// Claims is the session carried by the JWT.
type Claims struct {
	UserID   string
	Email    string
	Role     string
	TenantID string
}

// ParseToken validates an HS256 session token and extracts its claims.
func ParseToken(jwtSecret, raw string) (*Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	c := &Claims{}
	c.UserID, _ = claims["sub"].(string)
	c.Email, _ = claims["email"].(string)
	c.Role, _ = claims["role"].(string)
	c.TenantID, _ = claims["tenant_id"].(string)
	if c.UserID == "" || c.TenantID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return c, nil
}

// sessionToken reads the bearer header first, then the session cookie.
func sessionToken(c echo.Context, cookieName string) (string, error) {
	if h := c.Request().Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return "", errors.New("invalid authorization header")
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", errNoToken
}

func setClaims(c echo.Context, cl *Claims) {
	c.Set(CtxUserID, cl.UserID)
	c.Set(CtxEmail, cl.Email)
	c.Set(CtxRole, cl.Role)
	c.Set(CtxTenantID, cl.TenantID)
}

// Auth validates the session for API routes and injects its claims into the
// context. Failures are 401.
func Auth(jwtSecret, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := sessionToken(c, cookieName)
			if err != nil {
				if errors.Is(err, errNoToken) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			claims, err := ParseToken(jwtSecret, raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			setClaims(c, claims)
			return next(c)
		}
	}
}

// PageAuth is Auth for server-rendered pages: an anonymous visitor is sent
// to the login page with the original path as callbackUrl.
func PageAuth(jwtSecret, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := sessionToken(c, cookieName)
			if err == nil {
				if claims, perr := ParseToken(jwtSecret, raw); perr == nil {
					setClaims(c, claims)
					return next(c)
				}
			}
			target := "/login?callbackUrl=" + url.QueryEscape(c.Request().URL.RequestURI())
			return c.Redirect(http.StatusSeeOther, target)
		}
	}
}
