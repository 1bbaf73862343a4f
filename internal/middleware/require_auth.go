package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAuth rejects requests that carry no authenticated identity. It
// assumes Identity ran earlier in the chain.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUserID(c) == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"msg":      "Authentication required",
					"redirect": "/signin",
				})
			}
			return next(c)
		}
	}
}
