// internal/canonical/guard.go
//
// Product route guard (canonical-URL enforcement middleware).
//
// Context
// -------
// Any GET matching /webshop/{id}[-{slug}] is checked against the resolved
// canonical form and 301-redirected when it differs, so search engines only
// ever see one URL per product.  A lightweight interface — SlugResolver —
// lets tests inject a fake resolver without standing up a backend.
//
// Decision table
// --------------
//
//	resolve failed            → 301 /webshop            (cannot verify)
//	no SKU,  no slug in URL   → pass through            (already canonical)
//	no SKU,  slug in URL      → 301 /webshop/{id}       (strip bogus slug)
//	SKU,     slug ≠ canonical → 301 /webshop/{id}-{slug}
//	SKU,     slug = canonical → pass through
//
// Slug comparison is case-insensitive; emitted slugs are always lowercase.
// Every redirect preserves the original query string verbatim and carries
// X-Robots-Tag: noindex, follow.
//
// This middleware must never propagate an error: a broken canonicalization
// must not break navigation, so even a panic inside the decision logic
// degrades to the catalog-root redirect.

package canonical

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/automaterijal/edge/internal/metrics"
	"github.com/automaterijal/edge/internal/middleware"
)

// SlugResolver is the minimal contract the guard needs.  *Resolver
// satisfies it.
type SlugResolver interface {
	Resolve(ctx context.Context, id string) (Meta, error)
}

// productPath captures {id} and the optional {slug}.  The slug class is
// wider than what Slugify emits only in casing; the (?i) flag keeps
// mixed-case variants in scope so they can be redirected to lowercase.
var productPath = regexp.MustCompile(`(?i)^/webshop/(\d+)(?:-([a-z0-9-]+))?$`)

// Guard returns the route-guard middleware bound to res.
func Guard(res SlugResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			m := productPath.FindStringSubmatch(r.URL.Path)
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			id, incoming := m[1], m[2]

			meta, err := safeResolve(r.Context(), res, id)
			if err != nil {
				// Cannot verify the canonical form; never redirect to a
				// guessed URL.
				metrics.RedirectTotal.WithLabelValues("unresolved").Inc()
				redirect(w, r, "/webshop")
				return
			}

			switch {
			case meta.Slug == "" && incoming == "":
				next.ServeHTTP(w, r) // id-only URL is canonical
			case meta.Slug == "":
				metrics.RedirectTotal.WithLabelValues("slug_stripped").Inc()
				redirect(w, r, "/webshop/"+id)
			case strings.EqualFold(incoming, meta.Slug):
				next.ServeHTTP(w, r) // already canonical
			default:
				metrics.RedirectTotal.WithLabelValues("slug_fixed").Inc()
				redirect(w, r, "/webshop/"+meta.IDParam)
			}
		})
	}
}

// safeResolve shields the pipeline from a panicking resolver.  A panic is
// reported as a plain error so the caller takes the same fail-safe path as
// an upstream outage; it never reaches the generic error boundary.
func safeResolve(ctx context.Context, res SlugResolver, id string) (meta Meta, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("route guard panic",
				zap.String("id", id),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("canonical: resolver panic: %v", rec)
		}
	}()
	return res.Resolve(ctx, id)
}

// redirect issues the 301 with the original query string appended verbatim
// and the noindex tag set.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if q := r.URL.RawQuery; q != "" {
		target += "?" + q
	}
	middleware.TagNoindex(w)
	zap.S().Debugw("canonical redirect", "from", r.URL.RequestURI(), "to", target)
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}
