// internal/head/builder.go
//
// The Builder collects everything the render pipeline injects into a page's
// <head> element.  It is scoped to a single request.  The pipeline pushes
// tags in, then the document template decides where to emit each slice.
//
// Features
// --------
//   - SetTitle     – single <title> tag (last call wins).
//   - SetBaseHref  – single <base href> tag, emitted before everything else.
//   - SetCanonical – single rel=canonical link for the request URL.
//   - Meta, Link   – arbitrary tags with deduplication.
package head

import (
	"html/template"
	"strings"
)

// Builder is not safe for concurrent writes, but typical use is one
// goroutine per request, so no locking is needed.
type Builder struct {
	title     string
	baseHref  string
	canonical string

	metas []string
	links []string

	// seen tracks keys for deduplication.
	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// ------------------------------------------------------------------
// Single-value helpers
// ------------------------------------------------------------------

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) { b.title = t }

// SetBaseHref records the <base href> value ("/" unless the app is mounted
// on a sub-path).
func (b *Builder) SetBaseHref(href string) { b.baseHref = href }

// SetCanonical records the canonical URL for the rendered route.
func (b *Builder) SetCanonical(url string) { b.canonical = url }

// Title returns a fully formed <title> tag or an empty string.
func (b *Builder) Title() template.HTML {
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + template.HTMLEscapeString(b.title) + "</title>")
}

// Base returns the <base> tag or an empty string.
func (b *Builder) Base() template.HTML {
	if b.baseHref == "" {
		return ""
	}
	return template.HTML(`<base href="` + template.HTMLEscapeString(b.baseHref) + `">`)
}

// Canonical returns the rel=canonical link or an empty string.
func (b *Builder) Canonical() template.HTML {
	if b.canonical == "" {
		return ""
	}
	return template.HTML(`<link rel="canonical" href="` +
		template.HTMLEscapeString(b.canonical) + `">`)
}

// ------------------------------------------------------------------
// Slice helpers with deduplication
// ------------------------------------------------------------------

func (b *Builder) Meta(tag string) { b.add("meta:"+tag, &b.metas, tag) }
func (b *Builder) Link(tag string) { b.add("link:"+tag, &b.links, tag) }

func (b *Builder) add(key string, tgt *[]string, tag string) {
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// ------------------------------------------------------------------
// Rendering helpers called from the document template
// ------------------------------------------------------------------

func (b *Builder) Metas() template.HTML { return concat(b.metas) }
func (b *Builder) Links() template.HTML { return concat(b.links) }

// concat joins pre-escaped tags without a separator.
func concat(sl []string) template.HTML {
	return template.HTML(strings.Join(sl, ""))
}
