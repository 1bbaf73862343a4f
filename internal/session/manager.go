package session

import (
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

// CookieName is the session cookie. The parallel signed token travels in
// its own `token` cookie managed by the user handler.
const CookieName = "sid"

const userKey = "userID"

// Manager exposes the session operations handlers need. It satisfies
// handler.SessionManager so tests can substitute an in-memory fake.
type Manager struct {
	store sessions.Store
}

func NewManager(store sessions.Store) *Manager {
	return &Manager{store: store}
}

// Login records the user id in the session and persists it.
func (m *Manager) Login(c echo.Context, userID string) error {
	s, err := m.store.Get(c.Request(), CookieName)
	if err != nil {
		return err
	}
	s.Values[userKey] = userID
	return s.Save(c.Request(), c.Response())
}

// Logout destroys the session and expires its cookie.
func (m *Manager) Logout(c echo.Context) error {
	s, err := m.store.Get(c.Request(), CookieName)
	if err != nil {
		return err
	}
	delete(s.Values, userKey)
	s.Options.MaxAge = -1
	return s.Save(c.Request(), c.Response())
}

// UserID returns the authenticated user id, or "" for guests.
func (m *Manager) UserID(c echo.Context) string {
	s, err := m.store.Get(c.Request(), CookieName)
	if err != nil {
		return ""
	}
	if v, ok := s.Values[userKey].(string); ok {
		return v
	}
	return ""
}
