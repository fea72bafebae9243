// internal/sitemap/proxy.go
//
// Sitemap proxy middleware.
//
// Context
// -------
// Search consoles fetch /sitemap*.xml from the shop's own origin, but the
// documents are generated by the backend.  This middleware relays any GET
// matching ^/sitemap.*\.xml$ to BE_API at the identical path + query and
// streams the answer back:
//
//   • status code          – relayed verbatim (a backend 404 stays a 404),
//   • content type         – forced to application/xml regardless of what
//     the backend declares (defensive normalization),
//   • cache-control        – relayed when present, else public, max-age=3600,
//   • body                 – byte-for-byte, binary-safe (gzip sitemaps).
//
// Unlike the route guard this path fails LOUD: a transport failure goes to
// the generic error boundary as a 500.  A silently wrong sitemap poisons
// search indexing, which is strictly worse than a visible outage.

package sitemap

import (
	"io"
	"net/http"
	"regexp"

	"go.uber.org/zap"

	"github.com/automaterijal/edge/internal/backend"
	"github.com/automaterijal/edge/internal/metrics"
	"github.com/automaterijal/edge/internal/middleware"
)

const defaultCacheControl = "public, max-age=3600"

var sitemapPath = regexp.MustCompile(`^/sitemap.*\.xml$`)

// Matches reports whether path is served by this proxy.
func Matches(path string) bool { return sitemapPath.MatchString(path) }

// Proxy returns the relay middleware bound to the backend client.
func Proxy(be *backend.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || !Matches(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			resp, err := be.Relay(r.Context(), r.URL.RequestURI())
			if err != nil {
				metrics.SitemapRelayTotal.WithLabelValues("upstream_error").Inc()
				middleware.ServeError(w, r, err)
				return
			}
			defer resp.Body.Close()

			w.Header().Set("Content-Type", "application/xml")
			cc := resp.Header.Get("Cache-Control")
			if cc == "" {
				cc = defaultCacheControl
			}
			w.Header().Set("Cache-Control", cc)

			w.WriteHeader(resp.StatusCode)
			n, err := io.Copy(w, resp.Body)
			if err != nil {
				// Headers are gone; all we can do is log the truncation.
				zap.S().Warnw("sitemap relay truncated",
					"path", r.URL.Path, "written", n, "err", err)
				return
			}

			metrics.SitemapRelayTotal.WithLabelValues("relayed").Inc()
			zap.S().Debugw("sitemap relayed",
				"path", r.URL.Path, "status", resp.StatusCode, "bytes", n)
		})
	}
}
