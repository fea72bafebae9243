// internal/backend/client.go
//
// HTTP client for the backend API (BE_API).
//
// Context
// -------
// The edge owns no data.  Product metadata and sitemap documents both live
// in the backend service; this client is the single place that talks to it.
// Two call shapes exist:
//
//   • FetchProduct — GET /api/roba/{id}, decoded into a Product struct.
//   • Relay        — GET an arbitrary path + query, response returned raw
//     for byte-for-byte streaming (sitemaps).
//
// Failure taxonomy (sentinel errors, matched with errors.Is):
//
//   • ErrUnavailable — transport failure or a non-2xx status.  Callers that
//     fail open (the route guard) treat this as “cannot verify.”
//   • ErrMalformed   — the upstream answered 2xx but the JSON body did not
//     decode.  Kept distinct so a half-broken backend is visible in logs
//     and metrics as its own failure mode.
//
// One shared http.Client carries the configured timeout; connection reuse
// is whatever net/http provides, nothing else is pooled here.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors.  Wrapped with detail at the call site; match with
// errors.Is.
var (
	ErrUnavailable = errors.New("backend: upstream unavailable")
	ErrMalformed   = errors.New("backend: malformed payload")
)

// Product mirrors the /api/roba/{id} response fields the edge cares about.
// Everything else in the payload is ignored.
type Product struct {
	Proizvodjac struct {
		Naziv string `json:"naziv"`
	} `json:"proizvodjac"`
	Naziv string `json:"naziv"`
	Katbr string `json:"katbr"`
}

// Client issues requests against one backend base URL.
type Client struct {
	base string
	http *http.Client
}

// New returns a Client with the given base URL (no trailing slash) and a
// per-request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// FetchProduct loads product metadata for a numeric id.
func (c *Client) FetchProduct(ctx context.Context, id string) (*Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.base+"/api/roba/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d for product %s",
			ErrUnavailable, resp.StatusCode, id)
	}

	var p Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &p, nil
}

// Relay GETs pathAndQuery (e.g. "/sitemap-products.xml?page=2") and returns
// the raw response.  The caller owns resp.Body and must close it.  Status
// codes are not interpreted here; the sitemap proxy relays them verbatim.
func (c *Client) Relay(ctx context.Context, pathAndQuery string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.base+pathAndQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

// Base exposes the configured backend root (used in logs).
func (c *Client) Base() string { return c.base }
