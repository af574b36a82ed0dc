package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/claude/liftboard/internal/analytics"
	"github.com/claude/liftboard/internal/config"
	"github.com/claude/liftboard/internal/drafts"
	"github.com/claude/liftboard/internal/mcp"
	"github.com/claude/liftboard/internal/remote"
	"github.com/claude/liftboard/internal/schedule"
	"github.com/claude/liftboard/internal/server"
	"github.com/claude/liftboard/internal/storage"
	"github.com/claude/liftboard/internal/store"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit (postgres backend)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("Liftboard starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Open the schedule store
	var (
		st   store.Store
		auth store.Authenticator
		ds   mcp.DataSource
	)
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")
		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

		db, err := storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("database connected")

		if cfg.Database.SeedFile != "" {
			n, err := db.SeedExercises(ctx, cfg.Database.SeedFile)
			if err != nil {
				log.Warn("exercise seed failed", "file", cfg.Database.SeedFile, "error", err)
			} else if n > 0 {
				log.Info("exercise library seeded", "exercises", n)
			}
		}
		st, ds = db, db

	default:
		client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Token, cfg.Remote.Timeout)
		checkToken(log, cfg.Remote.Token)
		st, auth, ds = client, client, client
		log.Info("using remote store", "url", cfg.Remote.BaseURL)
	}

	// Edit-session buffer
	draftDB, err := drafts.Open(cfg.Drafts.Dir)
	if err != nil {
		log.Error("failed to open drafts", "dir", cfg.Drafts.Dir, "error", err)
		os.Exit(1)
	}
	defer draftDB.Close()

	// Analytics
	opts := analytics.Options{
		PRMode:      analytics.PRMode(cfg.Analytics.PRMode),
		RecentLimit: cfg.Analytics.RecentLimit,
	}
	if cfg.Analytics.CatalogFile != "" {
		catalog, err := analytics.LoadCatalog(cfg.Analytics.CatalogFile)
		if err != nil {
			log.Error("failed to load muscle catalog", "file", cfg.Analytics.CatalogFile, "error", err)
			os.Exit(1)
		}
		opts.Catalog = catalog
		log.Info("muscle catalog loaded", "groups", len(catalog))
	}
	deriver := analytics.New(opts)

	// Create server
	editor := schedule.NewEditor(cfg.Editor.DefaultReps, cfg.Editor.Unit())
	srv := server.New(st, draftDB, deriver, editor, cfg.Auth.APIKey, log)
	if auth != nil {
		srv.SetAuthenticator(auth)
	}
	srv.MountMCP(mcpserver.NewStreamableHTTPServer(mcp.New(ds, deriver, Version, log)))

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go purgeDrafts(purgeCtx, draftDB, cfg.Drafts.IdleTimeout, log)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// checkToken warns about a configured token that has already expired.
func checkToken(log *slog.Logger, token string) {
	if token == "" {
		return
	}
	info, err := remote.InspectToken(token)
	if err != nil {
		log.Warn("configured token is not a JWT", "error", err)
		return
	}
	if info.Expired(time.Now()) {
		log.Warn("configured token has expired", "subject", info.Subject, "expired_at", info.ExpiresAt)
		return
	}
	log.Info("configured token", "subject", info.Subject, "expires_at", info.ExpiresAt)
}

// purgeDrafts drops edit sessions idle longer than idle, once at startup and hourly.
func purgeDrafts(ctx context.Context, db *drafts.DB, idle time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		n, err := db.PurgeIdle(ctx, time.Now().Add(-idle))
		if err != nil {
			log.Warn("draft purge failed", "error", err)
		} else if n > 0 {
			log.Info("purged idle drafts", "count", n)
		}
		if count, err := db.Count(ctx); err == nil {
			server.SetOpenDrafts(count)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
