// internal/routing/slug.go
//
// Slug and path helpers for canonical product URLs.
//
// • Slugify(text)          ─ converts arbitrary text into a URL-safe slug
//   restricted to ASCII a-z, 0-9 and “-”.
// • BuildSlug(parts…)      ─ joins non-empty parts with a space, then
//   slugifies the result (brand + name + SKU → one slug).
// • NormalizeSpace(text)   ─ collapses whitespace runs and trims ends.
//
// Rules (Slugify)
// ---------------
// 1. Lower-case everything.
// 2. Decompose to Unicode NFD and drop combining diacritical marks
//    (U+0300–U+036F), so “Škoda” → “skoda”.
// 3. Drop every remaining character outside [a-z0-9], whitespace, and “-”.
//    Dropped characters leave no trace; they never become a separator.
// 4. Any run of whitespace and/or “-” collapses to a single “-”.
// 5. Trim leading and trailing “-”.
//
// The output must be bit-stable across releases: redirect targets are
// derived from it, and a drifting slug would flip every canonical URL.

package routing

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify converts text → lower-kebab ASCII.  Returns "" when nothing
// survives the character filter.
func Slugify(text string) string {
	decomposed := norm.NFD.String(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(decomposed))

	pendingDash := false
	for _, r := range decomposed {
		switch {
		case r >= 0x0300 && r <= 0x036F:
			// combining diacritical mark left over from NFD
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == '-', unicode.IsSpace(r):
			pendingDash = true
		default:
			// stripped outright, no separator
		}
	}
	return b.String()
}

// BuildSlug joins the non-empty parts with single spaces and slugifies the
// result.  Empty parts are skipped so a missing brand never produces a
// doubled hyphen.
func BuildSlug(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return Slugify(strings.Join(kept, " "))
}

// NormalizeSpace collapses internal whitespace runs to a single space and
// trims both ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
