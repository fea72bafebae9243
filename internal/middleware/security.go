// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects industry-standard headers on every response:
//
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Permissions-Policy        –  disables powerful features by default
//
// Notes
// -----
// • Headers are set before next.ServeHTTP so they also land on responses
//   the handlers terminate early (redirects, proxied sitemaps).
// • Existing values are never overwritten; a handler that needs a custom
//   policy simply sets it first.
// • HSTS and CSP are left to the TLS-terminating proxy in front of the
//   edge; the shop serves product images from several CDNs and the CSP
//   allow-list is owned by the deployment, not this binary.

package middleware

import "net/http"

// Security sets baseline security headers for every response.
func Security(next http.Handler) http.Handler {
	const (
		xfo   = "SAMEORIGIN"
		nosn  = "nosniff"
		refer = "strict-origin-when-cross-origin"
		perm  = "geolocation=(), microphone=(), camera=()"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if h.Get("X-Frame-Options") == "" {
			h.Set("X-Frame-Options", xfo)
		}
		if h.Get("X-Content-Type-Options") == "" {
			h.Set("X-Content-Type-Options", nosn)
		}
		if h.Get("Referrer-Policy") == "" {
			h.Set("Referrer-Policy", refer)
		}
		if h.Get("Permissions-Policy") == "" {
			h.Set("Permissions-Policy", perm)
		}
		next.ServeHTTP(w, r)
	})
}
