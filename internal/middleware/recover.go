// internal/middleware/recover.go
//
// Terminal error boundary.
//
// Context
// -------
// Stages that must fail loud (sitemap proxy, SSR render) call ServeError
// directly; anything that panics past them is caught by Recover.  Both
// paths behave identically: log server-side, tag the response noindex, and
// answer a bare 500.  No stack trace or internal detail ever reaches the
// client.

package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// ServeError logs err and answers 500 "Server error" with a noindex tag.
// It is the single 500 writer in the edge; handlers never craft their own.
func ServeError(w http.ResponseWriter, r *http.Request, err error) {
	zap.L().Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	TagNoindex(w)
	http.Error(w, "Server error", http.StatusInternalServerError)
}

// Recover converts a downstream panic into the same 500 response.  It must
// be the outermost wrapper so no stage can leak a panic to net/http.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec) // let net/http close the connection
				}
				zap.L().Error("panic in handler",
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				TagNoindex(w)
				http.Error(w, "Server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
