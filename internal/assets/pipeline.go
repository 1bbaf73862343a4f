// Package assets implements the build-time frontend pipeline: style
// compilation, script collection, per-environment bundling, and the CDN
// rewrite. The resulting manifest is written once at startup and read-only
// afterwards.
package assets

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/oakwellhq/webstarter/internal/config"
)

// Manifest lists the stylesheet and script URLs injected into the rendered
// page.
type Manifest struct {
	CSS []string `json:"css"`
	JS  []string `json:"js"`
}

// Pipeline runs the startup asset build. Individual compile and write
// errors are logged and skipped; asset generation is best-effort and never
// aborts startup.
type Pipeline struct {
	clientDir string
	env       string
	cdn       string
	css       []string
	js        []string

	compiled     []string // web paths served directly in development
	aggregateCSS []string // absolute paths feeding the css bundle
	aggregateJS  []string // absolute paths feeding the js bundle

	manifest Manifest
}

func NewPipeline(cfg config.Config) *Pipeline {
	return &Pipeline{
		clientDir: cfg.ClientDir,
		env:       cfg.Env,
		cdn:       cfg.CDN,
		css:       cfg.Assets.CSS,
		js:        cfg.Assets.JS,
	}
}

// Run executes every stage in order and returns the final manifest.
func (p *Pipeline) Run() Manifest {
	p.PrepareDirs()
	p.CompileStyles()
	p.CollectScripts()
	p.Render()
	p.ApplyCDN()
	return p.manifest
}

// Manifest returns the manifest built so far.
func (p *Pipeline) Manifest() Manifest { return p.manifest }

// PrepareDirs creates the output directories and writes the build-time
// style variables consumed by @import 'global-configs.styles'.
func (p *Pipeline) PrepareDirs() {
	for _, dir := range []string{
		"scripts",
		filepath.Join("styles", "compiled"),
		filepath.Join("scripts", "compiled"),
		"uploads",
	} {
		if err := os.MkdirAll(filepath.Join(p.clientDir, dir), 0o755); err != nil {
			log.Printf("assets: mkdir %s: %v", dir, err)
		}
	}
	globals := fmt.Sprintf("$ENV: %q !default;\n$CDN: %q !default;\n", p.env, p.cdn)
	path := filepath.Join(p.clientDir, "styles", "global-configs.styles.scss")
	if err := os.WriteFile(path, []byte(globals), 0o644); err != nil {
		log.Printf("assets: write global configs: %v", err)
	}
}

// CompileStyles compiles the global stylesheet and every configured style
// entry, dispatching by extension. Compiled CSS lands under
// styles/compiled/ and is appended to both the served list and the
// aggregate list.
func (p *Pipeline) CompileStyles() {
	include := []string{
		filepath.Join(p.clientDir, "modules"),
		filepath.Join(p.clientDir, "styles"),
	}

	globalSrc := filepath.Join(p.clientDir, "styles", "global.style.scss")
	if raw, err := os.ReadFile(globalSrc); err == nil {
		css, err := CompileSCSS(string(raw), filepath.Dir(globalSrc), include)
		if err != nil {
			log.Printf("assets: compile global style: %v", err)
		} else {
			p.emitCompiled("global.style.css", css)
		}
	}

	for _, entry := range p.css {
		src := filepath.Join(p.clientDir, filepath.FromSlash(entry))
		switch strings.ToLower(filepath.Ext(entry)) {
		case ".less":
			raw, err := os.ReadFile(src)
			if err != nil {
				log.Printf("assets: read %s: %v", entry, err)
				continue
			}
			css, err := CompileLESS(string(raw), filepath.Dir(src), include)
			if err != nil {
				log.Printf("assets: compile %s: %v", entry, err)
				continue
			}
			p.emitCompiled(filepath.Base(entry)+".css", css)
		case ".scss", ".sass":
			raw, err := os.ReadFile(src)
			if err != nil {
				log.Printf("assets: read %s: %v", entry, err)
				continue
			}
			css, err := CompileSCSS(string(raw), filepath.Dir(src), include)
			if err != nil {
				log.Printf("assets: compile %s: %v", entry, err)
				continue
			}
			p.emitCompiled(filepath.Base(entry)+".css", css)
		default:
			// Plain CSS passes through unchanged.
			p.compiled = append(p.compiled, entry)
			p.aggregateCSS = append(p.aggregateCSS, src)
		}
	}
}

// emitCompiled writes one compiled stylesheet and records it in the served
// and aggregate lists.
func (p *Pipeline) emitCompiled(name, css string) {
	out := filepath.Join(p.clientDir, "styles", "compiled", name)
	if err := os.WriteFile(out, []byte(css), 0o644); err != nil {
		log.Printf("assets: write %s: %v", name, err)
		return
	}
	p.compiled = append(p.compiled, "/styles/compiled/"+name)
	p.aggregateCSS = append(p.aggregateCSS, out)
}

// CollectScripts appends the configured script entries to the aggregate
// list unchanged; scripts have no compilation step.
func (p *Pipeline) CollectScripts() {
	for _, entry := range p.js {
		p.aggregateJS = append(p.aggregateJS, filepath.Join(p.clientDir, filepath.FromSlash(entry)))
	}
}
