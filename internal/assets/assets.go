// internal/assets/assets.go
//
// Static asset server for the browser build.
//
// Context
// -------
// Two roots are served: the /assets subtree (images, fonts, locale files)
// and the general build output (hashed bundles, robots.txt, index.html).
// Cache-control is decided per file name:
//
//   • content-hashed bundle (`.` or `-` + ≥8 alphanumerics before
//     .js/.css/.woff/.woff2/.ttf)   → public, max-age=31536000, immutable
//   • *.html                        → no-cache (the mutable shell)
//   • anything else under /assets   → public, max-age=2592000
//   • anything else in the root     → public, max-age=3600
//
// Directory indexes are never auto-served: a request either resolves to a
// real file or falls through to the SSR pipeline.  No server logic ever
// executes for a path that resolved to a file.

package assets

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// hashedName spots the content-hash segment the bundler stamps into
// immutable file names, e.g. main.a1b2c3d4e5.js or styles-5INURTSO.css.
var hashedName = regexp.MustCompile(`[.-][A-Za-z0-9]{8,}\.(?:js|css|woff2?|ttf)$`)

// CacheControl returns the header value for a file name.  underAssets
// selects the longer default for the /assets subtree.
func CacheControl(name string, underAssets bool) string {
	switch {
	case hashedName.MatchString(name):
		return "public, max-age=31536000, immutable"
	case strings.HasSuffix(name, ".html"):
		return "no-cache"
	case underAssets:
		return "public, max-age=2592000"
	default:
		return "public, max-age=3600"
	}
}

// Server serves files from the two static roots.
type Server struct {
	distRoot  string // general build output
	assetsDir string // the /assets subtree
}

// New returns a Server over the build output and assets directories.
func New(distRoot, assetsDir string) *Server {
	return &Server{distRoot: distRoot, assetsDir: assetsDir}
}

// ServeAssets handles /assets/* requests: a real file or a 404, never a
// fallthrough.
func (s *Server) ServeAssets(w http.ResponseWriter, r *http.Request) {
	rel, ok := safeRel(strings.TrimPrefix(r.URL.Path, "/assets/"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	full := filepath.Join(s.assetsDir, filepath.FromSlash(rel))
	if !regularFile(full) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", CacheControl(rel, true))
	serveFile(w, r, full)
}

// TryFile serves a root-level static file when it exists and reports
// whether it did.  A miss (or a directory hit) means the caller should
// continue to SSR.
func (s *Server) TryFile(w http.ResponseWriter, r *http.Request) bool {
	rel, ok := safeRel(strings.TrimPrefix(r.URL.Path, "/"))
	if !ok || rel == "." || rel == "" {
		return false
	}
	full := filepath.Join(s.distRoot, filepath.FromSlash(rel))
	if !regularFile(full) {
		return false
	}
	w.Header().Set("Cache-Control", CacheControl(rel, false))
	serveFile(w, r, full)
	return true
}

// serveFile streams one regular file.  http.ServeFile is avoided because it
// 301s any path ending in /index.html; an explicit index.html request must
// be served, not redirected.
func serveFile(w http.ResponseWriter, r *http.Request, full string) {
	f, err := os.Open(full)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, filepath.Base(full), fi.ModTime(), f)
}

// safeRel cleans a URL-relative path and rejects anything that escapes the
// root.
func safeRel(p string) (string, bool) {
	clean := path.Clean("/" + p)
	if clean == "/" {
		return "", false
	}
	return strings.TrimPrefix(clean, "/"), true
}

// regularFile reports whether full names an existing non-directory file.
func regularFile(full string) bool {
	fi, err := os.Stat(full)
	return err == nil && fi.Mode().IsRegular()
}
