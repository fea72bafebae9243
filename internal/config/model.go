// internal/config/model.go
//
// Typed configuration model for the Automaterijal edge.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from four overlay layers:
//
//   • optional `.env`                        – dotenv values,
//   • optional `conf/edge.yaml`              – static file,
//   • `EDGE_`-prefixed environment overrides,
//   • legacy plain names (PORT, BE_API, LOG_LEVEL) – highest precedence,
//     kept so existing deployment manifests keep working unchanged.
//
// Validation happens immediately after unmarshal; the process fails fast if
// a value is out of range.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • Defaults are applied in the loader before validation, so an empty
//     environment boots a working dev instance.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	Port int `koanf:"port" validate:"required,min=1,max=65535"`
}

//
// Upstream section
//

// Upstream describes the backend API the edge resolves products from and
// relays sitemaps through.
type Upstream struct {
	BaseURL        string `koanf:"base_url" validate:"required,url"`
	TimeoutSeconds int    `koanf:"timeout_seconds" validate:"min=1,max=120"`
}

//
// Static section
//

// Static points at the browser build output.  AssetsDir and Document are
// derived from BrowserDist when left empty.
type Static struct {
	BrowserDist string `koanf:"browser_dist" validate:"required"`
	AssetsDir   string `koanf:"assets_dir"`
	Document    string `koanf:"document"`
}

//
// SSR section
//

// SSR holds render-pipeline tunables.  BaseHref is injected into the shell
// as `<base href="…">`; it is "/" unless the app is mounted on a sub-path.
type SSR struct {
	BaseHref string `koanf:"base_href" validate:"required,startswith=/"`
}

//
// Log section
//

// Log controls verbosity.  Level "debug" (case-insensitive) turns on
// resolver and proxy diagnostics; anything else means info.
type Log struct {
	Level string `koanf:"level"`
}

//
// Geo section
//

// Geo enables optional GeoIP enrichment of the access log.  Empty DBPath
// disables the lookup entirely.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Upstream Upstream `koanf:"upstream"`
	Static   Static   `koanf:"static"`
	SSR      SSR      `koanf:"ssr"`
	Log      Log      `koanf:"log"`
	Geo      Geo      `koanf:"geo"`
}
