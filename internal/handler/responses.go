package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oakwellhq/webstarter/internal/model"
)

// TokenCookie carries the signed credential token issued alongside the
// session.
const TokenCookie = "token"

// userPart is the user payload returned by the auth endpoints. It never
// includes the password hash.
type userPart struct {
	Profile  model.Profile `json:"profile"`
	Roles    []string      `json:"roles"`
	Gravatar string        `json:"gravatar"`
	Email    string        `json:"email"`
	ID       string        `json:"_id"`
}

func newUserPart(u model.User) userPart {
	return userPart{
		Profile:  u.Profile,
		Roles:    u.Roles,
		Gravatar: u.Gravatar(),
		Email:    u.Email,
		ID:       u.ID.Hex(),
	}
}

// authResp is the success payload for authenticate, login and signup.
type authResp struct {
	Success       bool     `json:"success"`
	Authenticated bool     `json:"authenticated"`
	User          userPart `json:"user"`
	Token         string   `json:"token"`
	Redirect      any      `json:"redirect"`
}

// failResp is the failure payload for the auth endpoints.
type failResp struct {
	Success       bool   `json:"success"`
	Authenticated bool   `json:"authenticated"`
	Msg           string `json:"msg"`
	Redirect      any    `json:"redirect"`
}

// identityResp reflects the current session state. User is an empty object
// for guests.
type identityResp struct {
	User          any    `json:"user"`
	Token         string `json:"token,omitempty"`
	Success       bool   `json:"success"`
	Authenticated bool   `json:"authenticated"`
	Redirect      any    `json:"redirect"`
}

// redirectValue mirrors the wire format clients expect: the string when a
// redirect was requested, JSON false otherwise.
func redirectValue(s string) any {
	if s == "" {
		return false
	}
	return s
}

// setTokenCookie attaches the signed token cookie to the response.
func setTokenCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:    TokenCookie,
		Value:   token,
		Path:    "/",
		Expires: time.Now().Add(ttl),
	})
}

// clearTokenCookie expires the signed token cookie.
func clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:   TokenCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
