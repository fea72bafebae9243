// internal/edge/edge.go
//
// Request pipeline orchestrator.
//
// Context
// -------
// One chi router wires every stage in a strict order; each stage either
// terminates the response or falls through to the next:
//
//   1. Recover              – terminal error boundary (500 + noindex).
//   2. RobotsTag            – noindex for /api and /error prefixes.
//   3. Request-info         – UA/geo enrichment + access log.
//   4. Security headers.
//   5. /healthz, /readyz    – 200 "ok".
//   6. /metrics             – Prometheus.
//   7. Sitemap proxy        – ^/sitemap.*\.xml$ relayed from the backend.
//   8. Product route guard  – canonical 301s for /webshop/{id}[-{slug}].
//   9. /api/*               – 404 "API handled by backend".  The SSR
//      catch-all must never swallow traffic meant for the backend, or a
//      stale API route would render HTML instead of failing visibly.
//  10. /assets/*            – static subtree, file or 404.
//  11. Root static file     – served when the exact file exists.
//  12. SSR render           – everything else.
//
// The router owns no state; every dependency is injected so tests can
// assemble the full pipeline against fabricated collaborators.

package edge

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/automaterijal/edge/internal/assets"
	"github.com/automaterijal/edge/internal/backend"
	"github.com/automaterijal/edge/internal/canonical"
	"github.com/automaterijal/edge/internal/middleware"
	"github.com/automaterijal/edge/internal/render"
	"github.com/automaterijal/edge/internal/requestinfo"
	"github.com/automaterijal/edge/internal/sitemap"
)

// Handler assembles the full edge pipeline.
func Handler(
	be *backend.Client,
	guard canonical.SlugResolver,
	static *assets.Server,
	ssr *render.Pipeline,
	enricher *requestinfo.Enricher,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover)
	r.Use(middleware.RobotsTag)
	r.Use(enricher.Middleware)
	r.Use(middleware.Security)
	r.Use(sitemap.Proxy(be))
	r.Use(canonical.Guard(guard))

	r.Get("/healthz", ok)
	r.Get("/readyz", ok)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Handle("/api/*", http.HandlerFunc(apiNotFound))
	r.Handle("/api", http.HandlerFunc(apiNotFound))
	r.Get("/assets/*", static.ServeAssets)

	// Everything else: exact static file when present, SSR otherwise.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodGet && static.TryFile(w, req) {
			return
		}
		ssr.Render(w, req)
	})

	return r
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// apiNotFound short-circuits API traffic with a fixed body so stale client
// routes fail loudly instead of rendering the shell.
func apiNotFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte("API handled by backend"))
}
