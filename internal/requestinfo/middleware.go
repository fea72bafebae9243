// internal/requestinfo/middleware.go
//
// Enrichment + access-log middleware.
//
/*
Context
--------
Sits high in the chain, right after the error boundary and robots tagging.
For every request it:

  1. Parses the User-Agent header (crawler detection included).
  2. Extracts the client IP from X-Forwarded-For / X-Real-IP / RemoteAddr
     and, when a GeoIP database is configured, resolves the country.
  3. Stores an *Info in the request context for downstream handlers.
  4. After the handler runs, writes one structured access-log line with
     method, path, status, byte count, latency, device class, and bot flag.

The GeoIP reader is opened once at startup and is safe for concurrent
reads; an empty path disables geolocation without disabling the log.
*/
package requestinfo

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"
)

/*──────────────────────────── enricher ─────────────────────────────────────*/

// Enricher owns the optional GeoIP handle behind the middleware.
type Enricher struct {
	geo *geoip2.Reader
}

// NewEnricher opens the GeoIP database at dbPath.  An empty path returns an
// enricher with geolocation disabled; a bad path is an error so a typo in
// the config does not silently drop the country column.
func NewEnricher(dbPath string) (*Enricher, error) {
	if dbPath == "" {
		return &Enricher{}, nil
	}
	reader, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &Enricher{geo: reader}, nil
}

// Close releases the GeoIP handle.
func (e *Enricher) Close() error {
	if e.geo == nil {
		return nil
	}
	return e.geo.Close()
}

/*──────────────────────────── middleware ───────────────────────────────────*/

// Middleware attaches *Info to the context and emits the access log line.
func (e *Enricher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)

		info := &Info{
			UA:  parseUA(r.UserAgent()),
			Geo: lookupGeo(e.geo, ip),
		}

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(withInfo(r.Context(), info)))

		zap.S().Infow("access",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", info.Geo.IP,
			"country", info.Geo.CountryISO,
			"device", info.UA.Device,
			"bot", info.UA.IsBot,
		)
	})
}
