// Package metrics holds Prometheus instruments that are used across the
// edge.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edge_resolve_total",
			Help: "Canonical-slug resolver outcomes by result.",
		},
		[]string{"outcome"}, // ok, no_slug, unavailable, malformed
	)

	RedirectTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edge_redirect_total",
			Help: "Product-URL 301 redirects by reason.",
		},
		[]string{"reason"}, // unresolved, slug_stripped, slug_fixed
	)

	SitemapRelayTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edge_sitemap_relay_total",
			Help: "Sitemap proxy outcomes.",
		},
		[]string{"outcome"}, // relayed, upstream_error
	)

	RenderErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "edge_render_errors_total",
			Help: "Cumulative number of SSR render failures.",
		})
)

func init() {
	prometheus.MustRegister(
		ResolveTotal,
		RedirectTotal,
		SitemapRelayTotal,
		RenderErrorsTotal,
	)
}
