// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from four layers (highest
precedence last):

  1. Built-in defaults — a dev instance boots with an empty environment.
  2. Optional `.env` file in the working directory.
  3. Optional `conf/edge.yaml`.
  4. Environment variables prefixed `EDGE_`, where `__` maps to “.”
     (e.g., `EDGE_HTTP__PORT → http.port`), then the legacy plain names
     `PORT`, `BE_API`, and `LOG_LEVEL`, which existing deployments set.

After merging, the tree is unmarshalled into strongly-typed structs,
validated, and cached in an `atomic.Pointer` for lock-free reads.

Instrumentation
---------------
  • DEBUG spans — YAML read, env overlay.
  • ERROR spans — YAML parse, unmarshal, validation failures.
  • INFO  span  — final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed (bootstrap console).
*/
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// Built-in defaults.  BE_API's default mirrors the historical deployment:
// the backend listens on loopback 8443, plain HTTP.
const (
	DefaultPort        = 4000
	DefaultBackendBase = "http://127.0.0.1:8443"
	DefaultTimeoutSecs = 5
	DefaultDist        = "dist/browser"
	DefaultBaseHref    = "/"
)

var current atomic.Pointer[Config]

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, validates, and caches Config.
func Load() (*Config, error) {
	// .env (optional, no error if missing)
	_ = godotenv.Load()

	k := koanf.New(".")

	yamlPath := filepath.Join("conf", "edge.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
			return nil, err
		}
		zap.S().Debugw("config yaml loaded", "file", yamlPath)
	}

	// Env overrides: EDGE_HTTP__PORT → http.port
	if err := k.Load(env.Provider("EDGE_", ".", envKeyMap), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	applyLegacyEnv(&cfg)
	applyDefaults(&cfg)

	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"port", cfg.HTTP.Port,
		"backend", cfg.Upstream.BaseURL,
		"browser_dist", cfg.Static.BrowserDist,
		"log_level", cfg.Log.Level,
	)
	return &cfg, nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config { return current.Load() }

// envKeyMap turns EDGE_UPSTREAM__BASE_URL into upstream.base_url.
func envKeyMap(s string) string {
	s = strings.TrimPrefix(s, "EDGE_")
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

// applyLegacyEnv honors the plain variable names the deployment has always
// used.  They win over both the YAML file and the EDGE_ overlay.
func applyLegacyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Port = p
		} else {
			zap.S().Warnw("ignoring non-numeric PORT", "value", v)
		}
	}
	if v := os.Getenv("BE_API"); v != "" {
		cfg.Upstream.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// applyDefaults fills every zero field so validation sees a complete tree.
func applyDefaults(cfg *Config) {
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = DefaultPort
	}
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = DefaultBackendBase
	}
	if cfg.Upstream.TimeoutSeconds == 0 {
		cfg.Upstream.TimeoutSeconds = DefaultTimeoutSecs
	}
	if cfg.Static.BrowserDist == "" {
		cfg.Static.BrowserDist = DefaultDist
	}
	if cfg.Static.AssetsDir == "" {
		cfg.Static.AssetsDir = filepath.Join(cfg.Static.BrowserDist, "assets")
	}
	if cfg.Static.Document == "" {
		cfg.Static.Document = filepath.Join(cfg.Static.BrowserDist, "index.html")
	}
	if cfg.SSR.BaseHref == "" {
		cfg.SSR.BaseHref = DefaultBaseHref
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
