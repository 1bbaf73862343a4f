package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/oakwellhq/webstarter/internal/assets"
	"github.com/oakwellhq/webstarter/internal/config"
	"github.com/oakwellhq/webstarter/internal/middleware"
	"github.com/oakwellhq/webstarter/internal/render"
)

// staticPrefixes are the asset namespaces that answer a uniform "nothing
// found" instead of falling through to the page template.
var staticPrefixes = []string{
	"api",
	"bower_components",
	"images",
	"scripts",
	"styles",
	"uploads",
}

// RegisterStatic serves the client file tree, mounts the "nothing found"
// fallthroughs for API and asset prefixes, and installs the catch-all page
// route.
func RegisterStatic(e *echo.Echo, cfg config.Config, manifest assets.Manifest) {
	// Real files win; anything else falls through to the routes below.
	e.Use(echomw.StaticWithConfig(echomw.StaticConfig{
		Root: cfg.ClientDir,
	}))

	for _, prefix := range staticPrefixes {
		p := prefix
		e.GET("/"+p+"/*", func(c echo.Context) error {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "nothing found in " + p,
			})
		})
	}

	e.GET("/*", Page(cfg, manifest))
	e.GET("/", Page(cfg, manifest))
}

// Page renders the single shell page with the asset manifest, resolved
// metadata, and environment name.
func Page(cfg config.Config, manifest assets.Manifest) echo.HandlerFunc {
	return func(c echo.Context) error {
		data := render.PageData{
			HTML:          render.Resolve(cfg, c.Request().URL.Path),
			Assets:        manifest,
			Environment:   cfg.Env,
			Authenticated: middleware.CurrentUserID(c) != "",
		}
		return c.Render(http.StatusOK, "index.html", data)
	}
}
