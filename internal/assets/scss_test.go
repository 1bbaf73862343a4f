package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCompileSCSSFlattensImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "styles", "_colors.scss"), "$fg: #333;\n")
	writeFile(t, filepath.Join(dir, "main.scss"),
		"@import 'colors';\nbody { color: $fg; }\n")

	raw, err := os.ReadFile(filepath.Join(dir, "main.scss"))
	require.NoError(t, err)

	css, err := CompileSCSS(string(raw), dir, []string{filepath.Join(dir, "styles")})
	require.NoError(t, err)
	assert.Contains(t, css, "color: #333;")
	assert.NotContains(t, css, "@import")
	assert.NotContains(t, css, "$fg")
}

func TestCompileSCSSDefaultVariables(t *testing.T) {
	src := "$env: \"production\";\n$env: \"development\" !default;\n.tag::after { content: $env; }\n"
	css, err := CompileSCSS(src, t.TempDir(), nil)
	require.NoError(t, err)
	assert.Contains(t, css, `content: "production";`)
}

func TestCompileSCSSVariableChains(t *testing.T) {
	src := "$base: 4px;\n$double: $base;\n.pad { margin: $double; }\n"
	css, err := CompileSCSS(src, t.TempDir(), nil)
	require.NoError(t, err)
	assert.Contains(t, css, "margin: 4px;")
}

func TestCompileSCSSUnresolvedImport(t *testing.T) {
	_, err := CompileSCSS("@import 'missing';\n", t.TempDir(), nil)
	assert.Error(t, err)
}

func TestCompileSCSSStripsLineComments(t *testing.T) {
	css, err := CompileSCSS("// heading\nbody { margin: 0; } // trailing\n", t.TempDir(), nil)
	require.NoError(t, err)
	assert.NotContains(t, css, "heading")
	assert.Contains(t, css, "body { margin: 0; }")
}

func TestCompileSCSSKeepsProtocolURLs(t *testing.T) {
	css, err := CompileSCSS(
		"body { background: url(https://cdn.example.com/a.png); } // bg\n", t.TempDir(), nil)
	require.NoError(t, err)
	assert.Contains(t, css, "url(https://cdn.example.com/a.png)")
	assert.NotContains(t, css, "// bg")
}

func TestCompileSCSSProtocolURLInVariable(t *testing.T) {
	src := "$CDN: \"https://cdn.example.com/\" !default;\n" +
		".hero::after { content: $CDN; }\n" +
		".logo { background: url(\"https://cdn.example.com/logo.png\"); }\n"
	css, err := CompileSCSS(src, t.TempDir(), nil)
	require.NoError(t, err)
	assert.Contains(t, css, `content: "https://cdn.example.com/";`)
	assert.Contains(t, css, `url("https://cdn.example.com/logo.png")`)
	assert.NotContains(t, css, "$CDN")
}

func TestCompileSCSSImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.scss"), "@import 'b';\n.a { x: 1; }\n")
	writeFile(t, filepath.Join(dir, "b.scss"), "@import 'a';\n.b { x: 2; }\n")

	raw, err := os.ReadFile(filepath.Join(dir, "a.scss"))
	require.NoError(t, err)

	css, err := CompileSCSS(string(raw), dir, nil)
	require.NoError(t, err)
	assert.Contains(t, css, ".a")
	assert.Contains(t, css, ".b")
}
