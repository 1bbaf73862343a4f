package assets

import (
	"bytes"
	"log"
	"os"
	"path/filepath"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

// Render finalizes the manifest for the configured environment:
//
//	development: the raw compiled/unbundled file lists.
//	test:        single concatenated (unminified) css and js bundles.
//	production:  single minified bundles; js identifiers keep their names.
func (p *Pipeline) Render() {
	switch p.env {
	case "test":
		p.concatTo(p.aggregateCSS, filepath.Join("styles", "compiled", "concat.css"))
		p.concatTo(p.aggregateJS, filepath.Join("scripts", "compiled", "concat.js"))
		p.manifest = Manifest{
			CSS: []string{"styles/compiled/concat.css"},
			JS:  []string{"scripts/compiled/concat.js"},
		}
	case "production":
		m := minify.New()
		m.AddFunc("text/css", css.Minify)
		m.Add("application/javascript", &js.Minifier{KeepVarNames: true})

		p.minifyTo(m, "text/css", p.aggregateCSS,
			filepath.Join("styles", "compiled", "concat.min.css"))
		p.minifyTo(m, "application/javascript", p.aggregateJS,
			filepath.Join("scripts", "compiled", "concat.min.js"))
		p.manifest = Manifest{
			CSS: []string{"styles/compiled/concat.min.css"},
			JS:  []string{"scripts/compiled/concat.min.js"},
		}
	default:
		p.manifest = Manifest{
			CSS: append([]string{}, p.compiled...),
			JS:  append([]string{}, p.js...),
		}
	}
}

// ApplyCDN rewrites every manifest entry to an absolute CDN URL when a CDN
// base is configured.
func (p *Pipeline) ApplyCDN() {
	if p.cdn == "" {
		return
	}
	for i, entry := range p.manifest.CSS {
		p.manifest.CSS[i] = p.cdn + entry
	}
	for i, entry := range p.manifest.JS {
		p.manifest.JS[i] = p.cdn + entry
	}
}

// concatTo joins the source files, in order, into one file under the
// client directory.
func (p *Pipeline) concatTo(sources []string, rel string) {
	data, ok := p.readAll(sources)
	if !ok {
		return
	}
	out := filepath.Join(p.clientDir, rel)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		log.Printf("assets: write %s: %v", rel, err)
	}
}

// minifyTo concatenates then minifies the source files into one file.
func (p *Pipeline) minifyTo(m *minify.M, mediatype string, sources []string, rel string) {
	data, ok := p.readAll(sources)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := m.Minify(mediatype, &buf, bytes.NewReader(data)); err != nil {
		log.Printf("assets: minify %s: %v", rel, err)
		// Fall back to the concatenated source.
		buf = *bytes.NewBuffer(data)
	}
	out := filepath.Join(p.clientDir, rel)
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		log.Printf("assets: write %s: %v", rel, err)
	}
}

func (p *Pipeline) readAll(sources []string) ([]byte, bool) {
	var buf bytes.Buffer
	for _, src := range sources {
		raw, err := os.ReadFile(src)
		if err != nil {
			log.Printf("assets: read %s: %v", src, err)
			continue
		}
		buf.Write(raw)
		if !bytes.HasSuffix(raw, []byte("\n")) {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), buf.Len() > 0 || len(sources) == 0
}
