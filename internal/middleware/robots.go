// Package middleware holds small, composable HTTP wrappers.
package middleware

import (
	"net/http"
	"strings"
)

// RobotsNoindex is the directive attached to every response a crawler must
// not index: API passthroughs, error pages, and all 301s the route guard
// emits.  "follow" keeps link equity flowing through the redirect.
const RobotsNoindex = "noindex, follow"

// TagNoindex stamps the X-Robots-Tag header on a response about to be
// written.  Safe to call more than once.
func TagNoindex(w http.ResponseWriter) {
	w.Header().Set("X-Robots-Tag", RobotsNoindex)
}

// RobotsTag wraps h and tags any request under /api or /error before the
// handler runs, so even a handler that writes early carries the header.
func RobotsTag(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") || strings.HasPrefix(r.URL.Path, "/error") {
			TagNoindex(w)
		}
		h.ServeHTTP(w, r)
	})
}
