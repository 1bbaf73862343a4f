package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// The style compiler covers the flat subset of SCSS the starter styles
// use: @import resolution against the include paths, top-level $variable
// declarations with !default semantics, and // line comments. Nested rules
// and functions pass through untouched. There is no pure-Go sass compiler
// to lean on; the libsass bindings need cgo and dart-sass needs an external
// binary, neither of which belongs in a starter kit.

var (
	importRe = regexp.MustCompile(`^\s*@import\s+['"]([^'"]+)['"]\s*;\s*$`)
	varDefRe = regexp.MustCompile(`^\s*\$([\w-]+)\s*:\s*(.+?)\s*(!default)?\s*;\s*$`)
	varRefRe = regexp.MustCompile(`\$[\w-]+`)
)

// CompileSCSS flattens the source and returns plain CSS. dir is the
// directory of the source file; imports resolve against it first, then
// against the include paths.
func CompileSCSS(src, dir string, includePaths []string) (string, error) {
	flat, err := flattenImports(src, dir, includePaths, map[string]bool{})
	if err != nil {
		return "", err
	}
	return substituteVars(flat), nil
}

// CompileLESS flattens @import statements in a LESS source. Variable
// substitution is left to the browser-compatible subset the starter uses.
func CompileLESS(src, dir string, includePaths []string) (string, error) {
	return flattenImports(src, dir, includePaths, map[string]bool{})
}

func flattenImports(src, dir string, includePaths []string, seen map[string]bool) (string, error) {
	var out strings.Builder
	for _, line := range strings.Split(src, "\n") {
		m := importRe.FindStringSubmatch(line)
		if m == nil {
			out.WriteString(line)
			out.WriteString("\n")
			continue
		}
		path, err := resolveImport(m[1], dir, includePaths)
		if err != nil {
			return "", err
		}
		if seen[path] {
			continue
		}
		seen[path] = true
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		nested, err := flattenImports(string(raw), filepath.Dir(path), includePaths, seen)
		if err != nil {
			return "", err
		}
		out.WriteString(nested)
	}
	return out.String(), nil
}

// resolveImport tries the usual sass candidates (exact name, .scss, .sass,
// partial with leading underscore, .css) in the file's own directory and
// then each include path.
func resolveImport(name, dir string, includePaths []string) (string, error) {
	base := filepath.Base(name)
	rel := filepath.Dir(name)
	candidates := []string{
		base,
		base + ".scss",
		"_" + base + ".scss",
		base + ".sass",
		base + ".less",
		base + ".css",
	}
	roots := append([]string{dir}, includePaths...)
	for _, root := range roots {
		for _, cand := range candidates {
			p := filepath.Join(root, rel, cand)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("cannot resolve import %q", name)
}

// substituteVars collects top-level $variable declarations, removes them
// from the output, and replaces references with their values. A !default
// declaration only takes effect when the variable is not yet defined.
func substituteVars(src string) string {
	vars := map[string]string{}
	var kept []string
	for _, line := range strings.Split(src, "\n") {
		line = stripLineComment(line)
		if m := varDefRe.FindStringSubmatch(line); m != nil {
			name, value, def := m[1], m[2], m[3] != ""
			if _, exists := vars[name]; exists && def {
				continue
			}
			vars[name] = value
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}

	// Values may reference earlier variables.
	for i := 0; i < 4; i++ {
		changed := false
		for name, value := range vars {
			resolved := replaceVars(value, vars)
			if resolved != value {
				vars[name] = resolved
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	out := strings.Join(kept, "\n")
	if out != "" {
		out += "\n"
	}
	return replaceVars(out, vars)
}

// stripLineComment drops a // comment from the line. Only a // at the
// start of the line or after whitespace counts: the slashes in protocol
// URLs like url(https://...) or "https://..." follow a colon and must
// survive.
func stripLineComment(line string) string {
	for i := 0; i+1 < len(line); i++ {
		if line[i] != '/' || line[i+1] != '/' {
			continue
		}
		if i == 0 || line[i-1] == ' ' || line[i-1] == '\t' {
			return line[:i]
		}
	}
	return line
}

func replaceVars(s string, vars map[string]string) string {
	return varRefRe.ReplaceAllStringFunc(s, func(ref string) string {
		if v, ok := vars[ref[1:]]; ok {
			return v
		}
		return ref
	})
}
