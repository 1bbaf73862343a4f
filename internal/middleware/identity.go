// Package middleware provides shared request processing: identity
// resolution, authentication enforcement, and rate limiting.
package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/oakwellhq/webstarter/internal/auth"
)

// UserIDKey is the context key under which the authenticated user id is
// stored.
const UserIDKey = "userID"

// SessionReader is the slice of the session manager the identity
// middleware needs.
type SessionReader interface {
	UserID(c echo.Context) string
}

// Identity resolves the requesting identity from the session cookie first
// and the signed token cookie second, storing the user id in the request
// context. Guests pass through with no id set.
func Identity(sessions SessionReader, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if uid := sessions.UserID(c); uid != "" {
				c.Set(UserIDKey, uid)
				return next(c)
			}
			if cookie, err := c.Cookie("token"); err == nil && cookie.Value != "" {
				if uid, err := auth.ParseToken(jwtSecret, cookie.Value); err == nil {
					c.Set(UserIDKey, uid)
				}
			}
			return next(c)
		}
	}
}

// CurrentUserID returns the authenticated user id, or "" for guests.
func CurrentUserID(c echo.Context) string {
	if v, ok := c.Get(UserIDKey).(string); ok {
		return v
	}
	return ""
}
