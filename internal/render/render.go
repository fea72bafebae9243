// internal/render/render.go
//
// SSR render pipeline: document-template lookup, an LRU of parsed
// *template.Template sets, per-request head injection, and caching
// semantics for the rendered shell.
//
// Context
// -------
// Every request that no earlier stage terminated lands here (§ the pipeline
// wiring in internal/edge).  The pipeline executes the document template
// with a per-request head builder carrying:
//
//   • <base href>       – the configured application mount point,
//   • the absolute URL  – protocol://host + original URL, and a matching
//     rel=canonical link,
//   • default meta tags – charset and viewport.
//
// The rendered shell embeds per-request state, so the response is always
// `Cache-Control: no-cache`: clients revalidate, the CDN never pins a stale
// canonical link.  Render failures are not papered over with a partial or
// cached page; they go straight to the error boundary as a 500.
//
// Rendering goes through a buffer first.  Writing straight to the
// ResponseWriter would commit a 200 before the template finished, and a
// failure halfway through must still produce a clean 500.

package render

import (
	"bytes"
	"html/template"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/automaterijal/edge/internal/cache"
	"github.com/automaterijal/edge/internal/head"
	"github.com/automaterijal/edge/internal/metrics"
	"github.com/automaterijal/edge/internal/middleware"
)

// Parsed document sets per template path; one entry in practice, a few when
// the document path is reconfigured at runtime.
const lruCapacity = 8

// Pipeline renders the application shell.
type Pipeline struct {
	docPath  string
	baseHref string
	title    string

	mu  sync.Mutex
	lru *cache.LRU[string, *template.Template]
}

// New returns a Pipeline rendering docPath with the given base href and
// default title.
func New(docPath, baseHref, title string) *Pipeline {
	return &Pipeline{
		docPath:  docPath,
		baseHref: baseHref,
		title:    title,
		lru:      cache.New[string, *template.Template](lruCapacity),
	}
}

// Render executes the document template for r and writes the shell.
func (p *Pipeline) Render(w http.ResponseWriter, r *http.Request) {
	t, err := p.load(p.docPath)
	if err != nil {
		metrics.RenderErrorsTotal.Inc()
		middleware.ServeError(w, r, err)
		return
	}

	abs := absoluteURL(r)

	b := head.New()
	b.SetBaseHref(p.baseHref)
	b.SetCanonical(abs)
	if p.title != "" {
		b.SetTitle(p.title)
	}
	b.Meta(`<meta charset="utf-8">`)
	b.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	b.Link(`<link rel="icon" href="favicon.ico">`)

	data := map[string]any{
		"Head":     b,
		"URL":      abs,
		"BaseHref": p.baseHref,
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		metrics.RenderErrorsTotal.Inc()
		middleware.ServeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := buf.WriteTo(w); err != nil {
		zap.S().Debugw("shell write aborted", "path", r.URL.Path, "err", err)
	}
}

// load finds and (if necessary) parses the document template, keeping the
// parsed set in the LRU.
func (p *Pipeline) load(path string) (*template.Template, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t, ok := p.lru.Get(path); ok {
		return t, nil
	}
	t, err := template.ParseFiles(path)
	if err != nil {
		return nil, err
	}
	p.lru.Add(path, t)
	return t, nil
}

// absoluteURL rebuilds the full request URL.  The edge normally sits behind
// a TLS-terminating proxy, so X-Forwarded-Proto wins over the socket.
func absoluteURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fp := r.Header.Get("X-Forwarded-Proto"); fp != "" {
		scheme = fp
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
