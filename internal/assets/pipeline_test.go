package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwellhq/webstarter/internal/config"
)

// newClientTree builds a minimal client directory with one scss module,
// one plain css file, and two scripts.
func newClientTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "styles", "global.style.scss"),
		"@import 'global-configs.styles';\nbody { margin: 0; }\n")
	writeFile(t, filepath.Join(dir, "modules", "core", "core.style.scss"),
		".core { padding: 0; }\n")
	writeFile(t, filepath.Join(dir, "styles", "plain.css"),
		".plain { border: none; }\n")
	writeFile(t, filepath.Join(dir, "scripts", "app.js"),
		"function app() { return 1; }\n")
	writeFile(t, filepath.Join(dir, "scripts", "util.js"),
		"function util() { return 2; }\n")
	return dir
}

func newPipelineConfig(dir, env string) config.Config {
	return config.Config{
		Env:       env,
		ClientDir: dir,
		Assets: config.AssetSources{
			CSS: []string{"/modules/core/core.style.scss", "/styles/plain.css"},
			JS:  []string{"/scripts/app.js", "/scripts/util.js"},
		},
	}
}

func TestPipelineDevelopmentManifest(t *testing.T) {
	dir := newClientTree(t)
	m := NewPipeline(newPipelineConfig(dir, config.EnvDevelopment)).Run()

	assert.Equal(t, []string{
		"/styles/compiled/global.style.css",
		"/styles/compiled/core.style.scss.css",
		"/styles/plain.css",
	}, m.CSS)
	assert.Equal(t, []string{"/scripts/app.js", "/scripts/util.js"}, m.JS)

	compiled, err := os.ReadFile(filepath.Join(dir, "styles", "compiled", "core.style.scss.css"))
	require.NoError(t, err)
	assert.Contains(t, string(compiled), ".core")
}

func TestPipelineTestManifest(t *testing.T) {
	dir := newClientTree(t)
	m := NewPipeline(newPipelineConfig(dir, config.EnvTest)).Run()

	assert.Equal(t, []string{"styles/compiled/concat.css"}, m.CSS)
	assert.Equal(t, []string{"scripts/compiled/concat.js"}, m.JS)

	js, err := os.ReadFile(filepath.Join(dir, "scripts", "compiled", "concat.js"))
	require.NoError(t, err)
	// Concatenated, not minified.
	assert.Contains(t, string(js), "function app() { return 1; }")
	assert.Contains(t, string(js), "function util() { return 2; }")

	css, err := os.ReadFile(filepath.Join(dir, "styles", "compiled", "concat.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), ".core")
	assert.Contains(t, string(css), ".plain")
}

func TestPipelineProductionManifest(t *testing.T) {
	dir := newClientTree(t)
	m := NewPipeline(newPipelineConfig(dir, config.EnvProduction)).Run()

	assert.Equal(t, []string{"styles/compiled/concat.min.css"}, m.CSS)
	assert.Equal(t, []string{"scripts/compiled/concat.min.js"}, m.JS)

	css, err := os.ReadFile(filepath.Join(dir, "styles", "compiled", "concat.min.css"))
	require.NoError(t, err)
	// Minified: comments and surplus whitespace stripped.
	assert.NotContains(t, string(css), "\n\n")
	assert.Contains(t, string(css), ".core")

	js, err := os.ReadFile(filepath.Join(dir, "scripts", "compiled", "concat.min.js"))
	require.NoError(t, err)
	// Identifier mangling is disabled.
	assert.Contains(t, string(js), "app")
	assert.Contains(t, string(js), "util")
}

func TestPipelineCDNRewrite(t *testing.T) {
	dir := newClientTree(t)
	cfg := newPipelineConfig(dir, config.EnvProduction)
	cfg.CDN = "https://cdn.example.com/"
	m := NewPipeline(cfg).Run()

	for _, entry := range append(m.CSS, m.JS...) {
		assert.Contains(t, entry, "https://cdn.example.com/")
	}
}

func TestPipelineWritesGlobalConfigs(t *testing.T) {
	dir := newClientTree(t)
	cfg := newPipelineConfig(dir, config.EnvDevelopment)
	cfg.CDN = "https://cdn.example.com/"
	NewPipeline(cfg).Run()

	raw, err := os.ReadFile(filepath.Join(dir, "styles", "global-configs.styles.scss"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `$ENV: "development" !default;`)
	assert.Contains(t, string(raw), `$CDN: "https://cdn.example.com/" !default;`)
}

func TestPipelineSkipsBrokenEntries(t *testing.T) {
	dir := newClientTree(t)
	cfg := newPipelineConfig(dir, config.EnvDevelopment)
	cfg.Assets.CSS = append([]string{"/styles/missing.scss"}, cfg.Assets.CSS...)
	m := NewPipeline(cfg).Run()

	// The broken entry is logged and skipped; the rest still compile.
	assert.Contains(t, m.CSS, "/styles/compiled/core.style.scss.css")
	assert.NotContains(t, m.CSS, "/styles/compiled/missing.scss.css")
}
