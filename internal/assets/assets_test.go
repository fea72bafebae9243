// internal/assets/assets_test.go
//
// Unit-tests for the static asset server and its cache-policy table.
//
// Run: go test ./internal/assets -v

package assets

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestCacheControl(t *testing.T) {
	cases := []struct {
		name        string
		underAssets bool
		want        string
	}{
		{"main.a1b2c3d4e5.js", false, "public, max-age=31536000, immutable"},
		{"styles-5INURTSO8Q.css", false, "public, max-age=31536000, immutable"},
		{"fonts/roboto.1a2b3c4d5e6f.woff2", true, "public, max-age=31536000, immutable"},
		{"index.html", false, "no-cache"},
		{"webshop/index.html", false, "no-cache"},
		{"img/logo.png", true, "public, max-age=2592000"},
		{"robots.txt", false, "public, max-age=3600"},
		{"main.js", false, "public, max-age=3600"},       // no hash segment
		{"short.a1b2.js", false, "public, max-age=3600"}, // hash too short
	}
	for _, c := range cases {
		if got := CacheControl(c.name, c.underAssets); got != c.want {
			t.Errorf("CacheControl(%q, %v) = %q, want %q", c.name, c.underAssets, got, c.want)
		}
	}
}

// buildTree lays out a minimal browser build in a temp dir.
func buildTree(t *testing.T) *Server {
	t.Helper()
	dist := t.TempDir()
	assetsDir := filepath.Join(dist, "assets")
	if err := os.MkdirAll(filepath.Join(assetsDir, "img"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"index.html":          "<html>shell</html>",
		"main.a1b2c3d4e5.js":  "console.log(1)",
		"robots.txt":          "User-agent: *",
		"assets/img/logo.png": "PNG",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dist, filepath.FromSlash(name)), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return New(dist, assetsDir)
}

func get(t *testing.T, fn func(http.ResponseWriter, *http.Request), target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	fn(rr, req)
	return rr
}

func TestServeAssetsFile(t *testing.T) {
	s := buildTree(t)

	rr := get(t, s.ServeAssets, "/assets/img/logo.png")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if cc := rr.Header().Get("Cache-Control"); cc != "public, max-age=2592000" {
		t.Errorf("cache-control = %q", cc)
	}
	body, _ := io.ReadAll(rr.Body)
	if string(body) != "PNG" {
		t.Errorf("body = %q", body)
	}
}

func TestServeAssetsMissingIs404(t *testing.T) {
	s := buildTree(t)
	if rr := get(t, s.ServeAssets, "/assets/nope.png"); rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestServeAssetsNoDirectoryIndex(t *testing.T) {
	s := buildTree(t)
	if rr := get(t, s.ServeAssets, "/assets/img/"); rr.Code != http.StatusNotFound {
		t.Fatalf("directory listing served (status %d)", rr.Code)
	}
}

func TestServeAssetsTraversalBlocked(t *testing.T) {
	s := buildTree(t)
	if rr := get(t, s.ServeAssets, "/assets/../index.html"); rr.Code == http.StatusOK {
		t.Fatal("path traversal escaped the assets root")
	}
}

func TestTryFileHashedBundle(t *testing.T) {
	s := buildTree(t)

	req := httptest.NewRequest(http.MethodGet, "/main.a1b2c3d4e5.js", nil)
	rr := httptest.NewRecorder()
	if !s.TryFile(rr, req) {
		t.Fatal("TryFile = false for existing bundle")
	}
	if cc := rr.Header().Get("Cache-Control"); cc != "public, max-age=31536000, immutable" {
		t.Errorf("cache-control = %q", cc)
	}
}

func TestTryFileExplicitIndexHTML(t *testing.T) {
	s := buildTree(t)

	req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	rr := httptest.NewRecorder()
	if !s.TryFile(rr, req) {
		t.Fatal("TryFile = false for index.html")
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (not a redirect)", rr.Code)
	}
	if cc := rr.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("cache-control = %q, want no-cache", cc)
	}
}

func TestTryFileRootAndMissFallThrough(t *testing.T) {
	s := buildTree(t)

	for _, target := range []string{"/", "/webshop", "/webshop/123-slug"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if s.TryFile(httptest.NewRecorder(), req) {
			t.Errorf("%s: TryFile = true, want fallthrough", target)
		}
	}
}

func TestTryFileRobotsTxt(t *testing.T) {
	s := buildTree(t)

	req := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	rr := httptest.NewRecorder()
	if !s.TryFile(rr, req) {
		t.Fatal("TryFile = false for robots.txt")
	}
	if cc := rr.Header().Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("cache-control = %q", cc)
	}
}
