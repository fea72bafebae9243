// internal/canonical/resolver.go
//
// Canonical-slug resolver.
//
// Context
// -------
// Every product has exactly one URL the shop wants indexed:
//
//	/webshop/{id}-{slug}     when the product has a SKU,
//	/webshop/{id}            when it does not.
//
// The slug is derived from brand + name + SKU as served by the backend at
// the moment of the request.  Nothing is cached across requests — the only
// traffic that reaches the resolver is the non-canonical long tail, and
// freshness beats the handful of repeated fetches.  Concurrent requests for
// the same id do share one in-flight fetch via singleflight, which
// deduplicates without ever serving a settled result to a later caller.
//
// Failure modes surface as the backend package's sentinel errors; callers
// must treat any error as “cannot verify canonical form” and never redirect
// to a guessed URL.

package canonical

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/automaterijal/edge/internal/backend"
	"github.com/automaterijal/edge/internal/metrics"
	"github.com/automaterijal/edge/internal/routing"
)

// Meta is the canonical identity of one product URL.
//
// Slug == "" means the product verifiably has no SKU, so the bare id is the
// canonical form.  That state is distinct from a failed resolve, which is
// reported as an error and never as an empty-slug Meta.
type Meta struct {
	IDParam string // "{id}-{slug}", or "{id}" when Slug is empty
	Slug    string
}

// Resolver derives Meta from backend product metadata.
type Resolver struct {
	backend *backend.Client
	flight  singleflight.Group
}

// NewResolver wires a resolver to the backend client.
func NewResolver(be *backend.Client) *Resolver {
	return &Resolver{backend: be}
}

// Resolve fetches product {id} and builds its canonical Meta.
func (r *Resolver) Resolve(ctx context.Context, id string) (Meta, error) {
	v, err, shared := r.flight.Do(id, func() (any, error) {
		// The fetch is shared between every concurrent caller for this id,
		// so it must not die with the first caller's context.  The backend
		// client's own timeout still bounds it.
		return r.resolve(context.WithoutCancel(ctx), id)
	})
	if shared {
		zap.S().Debugw("resolve shared in-flight fetch", "id", id)
	}
	if err != nil {
		return Meta{}, err
	}
	return v.(Meta), nil
}

func (r *Resolver) resolve(ctx context.Context, id string) (Meta, error) {
	p, err := r.backend.FetchProduct(ctx, id)
	if err != nil {
		metrics.ResolveTotal.WithLabelValues(outcomeFor(err)).Inc()
		zap.S().Debugw("resolve failed", "id", id, "err", err)
		return Meta{}, err
	}

	brand := routing.NormalizeSpace(p.Proizvodjac.Naziv)
	name := routing.NormalizeSpace(p.Naziv)
	sku := routing.NormalizeSpace(p.Katbr)

	// Brand and name alone never produce a slug; a SKU-less product is
	// canonical at its bare id.
	if sku == "" {
		metrics.ResolveTotal.WithLabelValues("no_slug").Inc()
		zap.S().Debugw("resolve ok, no SKU", "id", id)
		return Meta{IDParam: id}, nil
	}

	slug := routing.BuildSlug(brand, name, sku)
	if slug == "" {
		// The SKU survived whitespace trimming but slugified to nothing
		// (punctuation-only, say).  Treat it like a missing SKU rather
		// than emit a dangling "{id}-" param.
		metrics.ResolveTotal.WithLabelValues("no_slug").Inc()
		zap.S().Debugw("resolve ok, empty slug", "id", id)
		return Meta{IDParam: id}, nil
	}
	metrics.ResolveTotal.WithLabelValues("ok").Inc()
	zap.S().Debugw("resolve ok", "id", id, "slug", slug)
	return Meta{IDParam: id + "-" + slug, Slug: slug}, nil
}

func outcomeFor(err error) string {
	if errors.Is(err, backend.ErrMalformed) {
		return "malformed"
	}
	return "unavailable"
}
