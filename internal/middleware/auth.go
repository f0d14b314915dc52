package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/lekhyo/booking-service/internal/session"
)

const sessionKey = "session"

var errNoSession = errors.New("authentication required")

// Authenticator resolves bearer tokens into sessions. service.AuthService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (session.Session, error)
	LoginURL(returnURL string) string
}

func unauthorized(auth Authenticator, c echo.Context) error {
	return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{
		"message":   errNoSession.Error(),
		"login_url": auth.LoginURL(c.Request().URL.RequestURI()),
	})
}

// JWTAuth rejects requests without a valid bearer token and stores the session on the
// echo context for handlers.
func JWTAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return unauthorized(auth, c)
			}

			s, err := auth.Authenticate(c.Request().Context(), strings.TrimSpace(token))
			if err != nil {
				return unauthorized(auth, c)
			}
			c.Set(sessionKey, s)
			return next(c)
		}
	}
}

// RequireManager limits a route group to managers and admins. It must run after JWTAuth.
func RequireManager() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := SessionFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errNoSession.Error())
			}
			if !s.CanManage() {
				return echo.NewHTTPError(http.StatusForbidden, "manager access required")
			}
			return next(c)
		}
	}
}

func SessionFrom(c echo.Context) (session.Session, bool) {
	s, ok := c.Get(sessionKey).(session.Session)
	return s, ok
}

// WithSession is used by handler tests to stand in for JWTAuth.
func WithSession(c echo.Context, s session.Session) {
	c.Set(sessionKey, s)
}
