// Package router binds HTTP verb and path combinations to the
// controllers, and owns the static and catch-all routes.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/oakwellhq/webstarter/internal/handler"
	"github.com/oakwellhq/webstarter/internal/middleware"
)

// RegisterUserRoutes mounts the user and auth endpoints under /api.
func RegisterUserRoutes(e *echo.Echo, h *handler.UserHandler) {
	api := e.Group("/api")

	api.GET("/users", h.GetUsers)
	api.POST("/authenticate", h.PostAuthenticate)
	api.GET("/authenticate", h.GetAuthenticate)
	api.POST("/login", h.PostLogin)
	api.POST("/logout", h.Logout)
	api.POST("/signup", h.PostSignup)
	api.GET("/reset/:token", h.GetReset)
	api.POST("/reset/:token", h.PostReset)
	api.POST("/forgot", h.PostForgot)

	account := api.Group("/user", middleware.RequireAuth())
	account.PUT("/profile", h.PutUpdateProfile)
	account.PUT("/password", h.PutUpdatePassword)
	account.DELETE("/", h.DeleteAccount)
	account.POST("/photo", h.PostPhoto)
}

// RegisterBlogRoutes mounts blog CRUD under /api/blog. Mutations require
// an authenticated identity.
func RegisterBlogRoutes(e *echo.Echo, h *handler.BlogHandler) {
	blog := e.Group("/api/blog")

	blog.GET("/posts", h.GetPosts)
	blog.GET("/posts/:id", h.GetPost)

	authed := blog.Group("", middleware.RequireAuth())
	authed.POST("/posts", h.PostCreate)
	authed.PUT("/posts/:id", h.PutUpdate)
	authed.DELETE("/posts/:id", h.Delete)
}
