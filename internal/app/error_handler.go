package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oakwellhq/webstarter/internal/model"
	"github.com/oakwellhq/webstarter/internal/repository"
	"github.com/oakwellhq/webstarter/internal/session"
)

// handleError is the single classification point for every error a
// handler returns: validation errors and conflicts map to 400, not-found
// maps to 400 with a generic body, everything else is a 500 carrying the
// error's message. The full request context is logged for each error.
func (a *App) handleError(err error, c echo.Context) {
	code := http.StatusInternalServerError
	var body any

	var httpErr *echo.HTTPError
	var valErr *model.ValidationError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		body = echo.Map{"message": fmt.Sprintf("%v", httpErr.Message)}
	case errors.As(err, &valErr):
		code = http.StatusBadRequest
		body = echo.Map{"message": valErr.Msg}
	case errors.Is(err, repository.ErrEmailExists):
		code = http.StatusBadRequest
		body = echo.Map{"message": "duplicate key error"}
	case errors.Is(err, repository.ErrNotFound):
		code = http.StatusBadRequest
		body = echo.Map{"message": "nothing found"}
	default:
		body = echo.Map{"message": err.Error()}
	}

	a.logException(err, c)

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}

// logException records the request context alongside the error.
func (a *App) logException(err error, c echo.Context) {
	req := c.Request()
	sid := ""
	if cookie, cerr := c.Cookie(session.CookieName); cerr == nil {
		sid = cookie.Value
	}
	a.e.Logger.Errorf("=== EXCEPTION ===\n%s: %s\nerror: %v\nheaders: %v\nparams: %v=%v\nsession: %s",
		req.Method, req.RequestURI, err, req.Header, c.ParamNames(), c.ParamValues(), sid)
}
