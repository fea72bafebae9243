//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight types and helpers that collect per-request metadata
//  (user-agent fingerprint, client IP, and best-effort geolocation).
//  An SEO edge cares who is fetching: the access log separates crawler
//  traffic from shoppers, and a redirect storm that only bots see reads
//  very differently from one hitting customers.
//
//  Dependencies
//  • github.com/avct/uasurfer         (UA parsing, ~18k crawler signatures)
//  • github.com/oschwald/geoip2-golang (optional MaxMind lookup)
//

package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strings"

	surfer "github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// UA holds the parsed user-agent properties the edge logs.
type UA struct {
	Browser string // "Chrome", "Firefox", "GoogleBot", …
	OS      string // "Windows", "Android", …
	Device  string // "Desktop", "Mobile", "Tablet", "Other"
	IsBot   bool
}

// Geo holds IP-based geolocation hints.  Best-effort; empty when no GeoIP
// database is configured or the address has no match.
type Geo struct {
	IP         net.IP
	CountryISO string // "RS", "BA", "DE", …
}

// Info is attached to the request context by the Enricher middleware.
type Info struct {
	UA  UA
	Geo Geo
}

//
//  -----------------------------
//  Context plumbing
//  -----------------------------
//

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by the middleware, or
// nil when it has not run.
func FromContext(ctx context.Context) *Info {
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

func withInfo(ctx context.Context, info *Info) context.Context {
	return context.WithValue(ctx, ctxKey{}, info)
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

// parseUA converts a raw header into our UA struct using uasurfer.
func parseUA(raw string) UA {
	ua := surfer.Parse(raw)

	out := UA{
		Browser: strings.TrimPrefix(ua.Browser.Name.String(), "Browser"),
		OS:      strings.TrimPrefix(ua.OS.Name.String(), "OS"),
		IsBot:   ua.IsBot(),
	}

	switch ua.DeviceType {
	case surfer.DeviceComputer:
		out.Device = "Desktop"
	case surfer.DeviceTablet:
		out.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		out.Device = "Mobile"
	default:
		out.Device = "Other"
	}
	return out
}

// clientIP extracts the left-most address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}

// lookupGeo returns best-effort Geo data using the given reader (nil means
// the lookup is disabled).
func lookupGeo(reader *geoip2.Reader, ip net.IP) Geo {
	if reader == nil || ip == nil {
		return Geo{IP: ip}
	}
	rec, err := reader.Country(ip)
	if err != nil {
		return Geo{IP: ip}
	}
	return Geo{IP: ip, CountryISO: rec.Country.IsoCode}
}
