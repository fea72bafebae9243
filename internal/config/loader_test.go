// internal/config/loader_test.go
//
// Unit-tests for the config loader.
//
// The loader runs from whatever directory the test harness picks, so each
// test chdirs into a temp dir to keep a stray conf/edge.yaml or .env from
// leaking in.
//
// Run: go test ./internal/config -v

package config

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != DefaultPort {
		t.Errorf("port = %d, want %d", cfg.HTTP.Port, DefaultPort)
	}
	if cfg.Upstream.BaseURL != DefaultBackendBase {
		t.Errorf("backend = %q, want %q", cfg.Upstream.BaseURL, DefaultBackendBase)
	}
	if cfg.Upstream.TimeoutSeconds != DefaultTimeoutSecs {
		t.Errorf("timeout = %d, want %d", cfg.Upstream.TimeoutSeconds, DefaultTimeoutSecs)
	}
	if want := filepath.Join(DefaultDist, "assets"); cfg.Static.AssetsDir != want {
		t.Errorf("assets dir = %q, want %q", cfg.Static.AssetsDir, want)
	}
	if want := filepath.Join(DefaultDist, "index.html"); cfg.Static.Document != want {
		t.Errorf("document = %q, want %q", cfg.Static.Document, want)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadLegacyEnvNames(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("BE_API", "http://backend.internal:9000")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Upstream.BaseURL != "http://backend.internal:9000" {
		t.Errorf("backend = %q", cfg.Upstream.BaseURL)
	}
	if cfg.Log.Level != "DEBUG" {
		t.Errorf("log level = %q, want DEBUG", cfg.Log.Level)
	}
}

func TestLoadPrefixedEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EDGE_UPSTREAM__TIMEOUT_SECONDS", "9")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Upstream.TimeoutSeconds != 9 {
		t.Errorf("timeout = %d, want 9", cfg.Upstream.TimeoutSeconds)
	}
}

func TestLoadRejectsBadBackendURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BE_API", "not a url")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for malformed BE_API")
	}
}

func TestLoadIgnoresNonNumericPort(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "eighty")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != DefaultPort {
		t.Errorf("port = %d, want default %d", cfg.HTTP.Port, DefaultPort)
	}
}
