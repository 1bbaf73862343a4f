package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwellhq/webstarter/internal/assets"
	"github.com/oakwellhq/webstarter/internal/config"
	"github.com/oakwellhq/webstarter/internal/render"
)

func newStaticApp(t *testing.T) (*echo.Echo, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		Env:       config.EnvDevelopment,
		ClientDir: dir,
		HTML:      config.HTMLMeta{Title: "Web Starter"},
		SEO: map[string]config.SEOEntry{
			"/about": {Title: "About Us"},
		},
	}
	e := echo.New()
	r, err := render.New("")
	require.NoError(t, err)
	e.Renderer = r
	RegisterStatic(e, cfg, assets.Manifest{
		CSS: []string{"/styles/compiled/concat.css"},
		JS:  []string{"/scripts/compiled/concat.js"},
	})
	return e, dir
}

func TestStaticServesRealFiles(t *testing.T) {
	e, dir := newStaticApp(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "styles"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "styles", "app.css"), []byte("body{}"), 0o644))

	req := httptest.NewRequest(http.MethodGet, "/styles/app.css", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())
}

func TestStaticPrefixesAnswerNothingFound(t *testing.T) {
	e, _ := newStaticApp(t)
	for _, prefix := range staticPrefixes {
		req := httptest.NewRequest(http.MethodGet, "/"+prefix+"/missing", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, prefix)
		assert.Contains(t, rec.Body.String(), "nothing found in "+prefix)
	}
}

func TestPageCatchAll(t *testing.T) {
	e, _ := newStaticApp(t)
	for _, path := range []string{"/", "/signin", "/blog/some-post"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "<title>Web Starter</title>", path)
		assert.Contains(t, rec.Body.String(), "/styles/compiled/concat.css", path)
	}
}

func TestPageSEOOverride(t *testing.T) {
	e, _ := newStaticApp(t)
	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>About Us</title>")
}
