package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/liftboard/internal/analytics"
	"github.com/claude/liftboard/internal/config"
	"github.com/claude/liftboard/internal/mcp"
	"github.com/claude/liftboard/internal/remote"
	"github.com/claude/liftboard/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (default: remote store from LIFTBOARD_URL/LIFTBOARD_TOKEN)")
	catalogPath := flag.String("catalog", "", "muscle-group catalog TOML (overrides config)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftboard-mcp", Version)
		return
	}

	// stdout carries the protocol
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ds, opts, closeFn, err := open(*configPath)
	if err != nil {
		log.Error("failed to open data source", "error", err)
		os.Exit(1)
	}
	defer closeFn()

	if *catalogPath != "" {
		opts.CatalogFile = *catalogPath
	}
	dopts := analytics.Options{
		PRMode:      analytics.PRMode(opts.PRMode),
		RecentLimit: opts.RecentLimit,
	}
	if opts.CatalogFile != "" {
		catalog, err := analytics.LoadCatalog(opts.CatalogFile)
		if err != nil {
			log.Error("failed to load muscle catalog", "file", opts.CatalogFile, "error", err)
			os.Exit(1)
		}
		dopts.Catalog = catalog
	}

	s := mcp.New(ds, analytics.New(dopts), Version, log)
	log.Info("liftboard-mcp serving on stdio", "version", Version)
	if err := server.ServeStdio(s); err != nil {
		log.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

// open returns the data source named by the config file, or a remote client
// built from the environment (and .env) when no config is given.
func open(configPath string) (mcp.DataSource, config.AnalyticsConfig, func(), error) {
	if configPath == "" {
		_ = godotenv.Load()
		url := os.Getenv("LIFTBOARD_URL")
		if url == "" {
			return nil, config.AnalyticsConfig{}, nil, fmt.Errorf("LIFTBOARD_URL is not set and no -config given")
		}
		return remote.NewClient(url, os.Getenv("LIFTBOARD_TOKEN"), 0), config.AnalyticsConfig{}, func() {}, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, config.AnalyticsConfig{}, nil, err
	}
	if cfg.Store.Backend == config.BackendPostgres {
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			return nil, config.AnalyticsConfig{}, nil, err
		}
		return db, cfg.Analytics, db.Close, nil
	}
	return remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Token, cfg.Remote.Timeout), cfg.Analytics, func() {}, nil
}
