package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwellhq/webstarter/internal/auth"
	"github.com/oakwellhq/webstarter/internal/config"
)

type stubSessions struct{ uid string }

func (s stubSessions) UserID(echo.Context) string { return s.uid }

func run(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return c, rec, err
}

func TestIdentityFromSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, _, err := run(t, Identity(stubSessions{uid: "user-1"}, "secret"), req)
	require.NoError(t, err)
	assert.Equal(t, "user-1", CurrentUserID(c))
}

func TestIdentityFromTokenCookie(t *testing.T) {
	token, err := auth.SignToken("secret", "user-2", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})

	c, _, err := run(t, Identity(stubSessions{}, "secret"), req)
	require.NoError(t, err)
	assert.Equal(t, "user-2", CurrentUserID(c))
}

func TestIdentitySessionWinsOverToken(t *testing.T) {
	token, err := auth.SignToken("secret", "token-user", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})

	c, _, err := run(t, Identity(stubSessions{uid: "session-user"}, "secret"), req)
	require.NoError(t, err)
	assert.Equal(t, "session-user", CurrentUserID(c))
}

func TestIdentityBadTokenIsGuest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "not-a-token"})

	c, _, err := run(t, Identity(stubSessions{}, "secret"), req)
	require.NoError(t, err)
	assert.Empty(t, CurrentUserID(c))
}

func TestRequireAuthRejectsGuests(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	_, rec, err := run(t, RequireAuth(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication required")
	assert.Contains(t, rec.Body.String(), "/signin")
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(UserIDKey, "user-1")

	err := RequireAuth()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitDisabledIsPassthrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, rec, err := run(t, RateLimit(config.RateLimitConfig{Enabled: false}, nil), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitNoRedisIsPassthrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, rec, err := run(t, RateLimit(config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute}, nil), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitSubSecondWindow(t *testing.T) {
	// Nothing listens on this address, so the limiter must fail open. The
	// sub-second window exercises the whole-second normalization of the
	// window key.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	cfg := config.RateLimitConfig{Enabled: true, Requests: 1, Window: 500 * time.Millisecond, Prefix: "rl"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, rec, err := run(t, RateLimit(cfg, rdb), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
