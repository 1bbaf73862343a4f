package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwellhq/webstarter/internal/assets"
	"github.com/oakwellhq/webstarter/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		HTML: config.HTMLMeta{
			Title:       "Web Starter",
			Description: "default description",
			Keywords:    "web,starter",
		},
		SEO: map[string]config.SEOEntry{
			"/about": {Title: "About Us", Description: "who we are"},
		},
	}
}

func TestResolveDefaults(t *testing.T) {
	meta := Resolve(testConfig(), "/")
	assert.Equal(t, "Web Starter", meta.Title)
	assert.Equal(t, "default description", meta.Description)
}

func TestResolveOverlay(t *testing.T) {
	meta := Resolve(testConfig(), "/about")
	assert.Equal(t, "About Us", meta.Title)
	assert.Equal(t, "who we are", meta.Description)
	// Fields the override leaves empty keep their defaults.
	assert.Equal(t, "web,starter", meta.Keywords)
}

func TestRenderShellPage(t *testing.T) {
	r, err := New("")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, "index.html", PageData{
		HTML: Resolve(testConfig(), "/about"),
		Assets: assets.Manifest{
			CSS: []string{"/styles/compiled/global.style.css"},
			JS:  []string{"/scripts/app.js"},
		},
		Environment:   config.EnvDevelopment,
		Authenticated: true,
	}, nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<title>About Us</title>")
	assert.Contains(t, out, `href="/styles/compiled/global.style.css"`)
	assert.Contains(t, out, `src="/scripts/app.js"`)
	assert.Contains(t, out, `window.__ENV = "development"`)
	assert.Contains(t, out, "window.__AUTHENTICATED = true")
}

func TestRenderCustomLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte("<h1>{{.HTML.Title}}</h1>"), 0o644))

	r, err := New(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "index.html", PageData{HTML: config.HTMLMeta{Title: "Custom"}}, nil))
	assert.Equal(t, "<h1>Custom</h1>", buf.String())
}

func TestRenderMissingLayout(t *testing.T) {
	_, err := New("/does/not/exist.html")
	assert.Error(t, err)
}
