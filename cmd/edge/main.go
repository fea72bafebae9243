// cmd/edge/main.go
//
// Automaterijal SSR edge – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Load env vars (.env fallback for dev).
//
//  2. Load and validate the configuration tree (defaults → yaml → env).
//
//  3. Start daily rotating logger (tees to console when running in a TTY);
//     LOG_LEVEL=debug turns on resolver and proxy diagnostics.
//
//  4. Build the backend client, canonical resolver, static asset server,
//     SSR pipeline, and request-info enricher.
//
//  5. Assemble the edge pipeline (see internal/edge) and serve it with
//     hardened timeouts until SIGINT/SIGTERM, then drain gracefully.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/automaterijal/edge/internal/assets"
	"github.com/automaterijal/edge/internal/backend"
	"github.com/automaterijal/edge/internal/canonical"
	"github.com/automaterijal/edge/internal/config"
	"github.com/automaterijal/edge/internal/edge"
	"github.com/automaterijal/edge/internal/logger"
	"github.com/automaterijal/edge/internal/render"
	"github.com/automaterijal/edge/internal/requestinfo"
	"github.com/automaterijal/edge/internal/server"
)

const siteTitle = "Automaterijal"

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { _ = godotenv.Load() }

func main() {
	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, logger.Level(cfg.Log.Level), runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 2.  Collaborators ───────────────────────────────────────────────
	//
	be := backend.New(cfg.Upstream.BaseURL,
		time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second)
	resolver := canonical.NewResolver(be)
	static := assets.New(cfg.Static.BrowserDist, cfg.Static.AssetsDir)
	ssr := render.New(cfg.Static.Document, cfg.SSR.BaseHref, siteTitle)

	enricher, err := requestinfo.NewEnricher(cfg.Geo.DBPath)
	if err != nil {
		logOut.Fatalf("open GeoIP database: %v", err)
	}
	defer enricher.Close()

	//
	// ── 3.  Pipeline and server ─────────────────────────────────────────
	//
	handler := edge.Handler(be, resolver, static, ssr, enricher)
	srv := server.New(":"+strconv.Itoa(cfg.HTTP.Port), handler)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logOut.Infow("edge online",
		"addr", srv.Addr,
		"backend", be.Base(),
		"browser_dist", cfg.Static.BrowserDist,
	)
	if err := server.Run(ctx, srv); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
	logOut.Infow("edge stopped")
}
