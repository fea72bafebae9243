// internal/canonical/guard_test.go
//
// Unit-tests for the product route guard.
//
// Context
// -------
// The guard enforces one canonical URL per product by comparing the
// requested slug against the resolved one.  These tests walk the decision
// table with a fake resolver so no backend is involved:
//
//   • resolve failure          → 301 /webshop, noindex tag
//   • no SKU, bare id          → pass through
//   • no SKU, bogus slug       → 301 slug stripped, query preserved
//   • wrong or missing slug    → 301 to canonical, query preserved
//   • matching slug, any case  → pass through (comparison is case-blind)
//   • panicking resolver       → 301 /webshop (never a 500)
//   • non-product paths        → untouched
//
// Run: go test ./internal/canonical -v

package canonical

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeResolver satisfies SlugResolver with injectable results.
type fakeResolver struct {
	meta  Meta
	err   error
	panic bool
}

func (f *fakeResolver) Resolve(_ context.Context, _ string) (Meta, error) {
	if f.panic {
		panic("boom")
	}
	return f.meta, f.err
}

// serve runs one request through Guard(res) with a marker next handler.
func serve(t *testing.T, res SlugResolver, target string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	passed := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		passed = true
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	Guard(res)(next).ServeHTTP(rr, req)
	return rr, passed
}

func TestGuardResolveFailure(t *testing.T) {
	res := &fakeResolver{err: errors.New("upstream down")}

	for _, target := range []string{"/webshop/999", "/webshop/999-anything"} {
		rr, passed := serve(t, res, target)
		if passed {
			t.Fatalf("%s: reached next handler", target)
		}
		if rr.Code != http.StatusMovedPermanently {
			t.Fatalf("%s: status = %d, want 301", target, rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/webshop" {
			t.Fatalf("%s: location = %q, want /webshop", target, loc)
		}
		if got := rr.Header().Get("X-Robots-Tag"); got != "noindex, follow" {
			t.Fatalf("%s: X-Robots-Tag = %q", target, got)
		}
	}
}

func TestGuardSKULessPassThrough(t *testing.T) {
	res := &fakeResolver{meta: Meta{IDParam: "42"}}

	rr, passed := serve(t, res, "/webshop/42")
	if !passed || rr.Code != http.StatusOK {
		t.Fatalf("bare id did not pass through (code %d)", rr.Code)
	}
}

func TestGuardSKULessStripsSlug(t *testing.T) {
	res := &fakeResolver{meta: Meta{IDParam: "42"}}

	rr, passed := serve(t, res, "/webshop/42-anything?ref=abc")
	if passed {
		t.Fatal("reached next handler")
	}
	if rr.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/webshop/42?ref=abc" {
		t.Fatalf("location = %q, want /webshop/42?ref=abc", loc)
	}
}

func TestGuardRedirectsToCanonical(t *testing.T) {
	res := &fakeResolver{meta: Meta{IDParam: "123-bosch-brake-pad-bp-123", Slug: "bosch-brake-pad-bp-123"}}

	cases := []struct{ target, wantLoc string }{
		{"/webshop/123", "/webshop/123-bosch-brake-pad-bp-123"},
		{"/webshop/123-wrong-slug", "/webshop/123-bosch-brake-pad-bp-123"},
		{"/webshop/123?ref=abc", "/webshop/123-bosch-brake-pad-bp-123?ref=abc"},
		{"/webshop/123-wrong?a=1&b=2", "/webshop/123-bosch-brake-pad-bp-123?a=1&b=2"},
	}
	for _, c := range cases {
		rr, passed := serve(t, res, c.target)
		if passed {
			t.Fatalf("%s: reached next handler", c.target)
		}
		if rr.Code != http.StatusMovedPermanently {
			t.Fatalf("%s: status = %d, want 301", c.target, rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != c.wantLoc {
			t.Fatalf("%s: location = %q, want %q", c.target, loc, c.wantLoc)
		}
	}
}

func TestGuardCanonicalPassThrough(t *testing.T) {
	res := &fakeResolver{meta: Meta{IDParam: "123-bosch-bp-123", Slug: "bosch-bp-123"}}

	// Exact match and case-insensitive match both pass.
	for _, target := range []string{"/webshop/123-bosch-bp-123", "/webshop/123-Bosch-BP-123"} {
		rr, passed := serve(t, res, target)
		if !passed || rr.Code != http.StatusOK {
			t.Fatalf("%s: did not pass through (code %d)", target, rr.Code)
		}
	}
}

func TestGuardResolverPanicFailsSafe(t *testing.T) {
	res := &fakeResolver{panic: true}

	rr, passed := serve(t, res, "/webshop/7-whatever")
	if passed {
		t.Fatal("reached next handler")
	}
	if rr.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301 (never a 500)", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/webshop" {
		t.Fatalf("location = %q, want /webshop", loc)
	}
}

func TestGuardIgnoresNonProductPaths(t *testing.T) {
	res := &fakeResolver{panic: true} // would blow up if consulted

	for _, target := range []string{"/webshop", "/webshop/", "/webshop/abc", "/webshop/12/extra", "/katalog/5"} {
		rr, passed := serve(t, res, target)
		if !passed || rr.Code != http.StatusOK {
			t.Fatalf("%s: guard interfered (code %d)", target, rr.Code)
		}
	}
}

func TestGuardIgnoresNonGET(t *testing.T) {
	res := &fakeResolver{panic: true}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodPost, "/webshop/5-slug", nil)
	rr := httptest.NewRecorder()
	Guard(res)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("POST was intercepted (code %d)", rr.Code)
	}
}
