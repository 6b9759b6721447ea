// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/patlas/patlas/internal/api"
	"github.com/patlas/patlas/internal/cache"
	"github.com/patlas/patlas/internal/catalog"
	"github.com/patlas/patlas/internal/config"
	"github.com/patlas/patlas/internal/daemon"
	"github.com/patlas/patlas/internal/health"
	"github.com/patlas/patlas/internal/jobs"
	plog "github.com/patlas/patlas/internal/log"
	"github.com/patlas/patlas/internal/search"
	"github.com/patlas/patlas/internal/store"
	"github.com/patlas/patlas/internal/store/sqlite"
	"github.com/patlas/patlas/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "validate" {
		os.Exit(runValidate(os.Args[2:]))
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Safe defaults until the real config is loaded.
	plog.Configure(plog.Config{
		Level:   "info",
		Service: "patlas",
		Version: version,
	})
	logger := plog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config path: explicit via --config, otherwise auto-load
	// ${PATLAS_DATA}/config.yaml when it exists.
	effectiveConfigPath := strings.TrimSpace(*configPath)
	if effectiveConfigPath == "" {
		dataDir := strings.TrimSpace(config.ParseString("PATLAS_DATA", "/tmp/patlas"))
		autoPath := filepath.Join(dataDir, "config.yaml")
		if _, err := os.Stat(autoPath); err == nil {
			effectiveConfigPath = autoPath
		}
	}

	loader := config.NewLoader(effectiveConfigPath, version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", effectiveConfigPath).
			Msg("failed to load configuration")
	}

	// Re-configure the logger with the loaded configuration.
	plog.Configure(plog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})

	if effectiveConfigPath != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str("path", effectiveConfigPath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("failed to create data directory")
	}

	serverCfg := config.ParseServerConfig()
	serverCfg.ListenAddr = cfg.ListenAddr

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", serverCfg.ListenAddr).
		Msg("starting patlas")

	logger.Info().Msgf("→ Document: %s", cfg.DocPath)
	logger.Info().Msgf("→ Data dir: %s", cfg.DataDir)
	logger.Info().Msgf("→ Cache: %s", cfg.CacheBackend)
	logger.Info().Msgf("→ Job store: %s", cfg.StoreBackend)
	if cfg.APIToken != "" {
		logger.Info().Msg("→ API token: configured")
	} else {
		logger.Warn().
			Str("security", "weak").
			Msg("→ API token: NOT configured, POST /api/reindex is disabled. Set PATLAS_API_TOKEN.")
	}

	// Tracing.
	tracerProvider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.TracingExporter,
		Endpoint:       cfg.TracingEndpoint,
		SamplingRate:   cfg.TracingSampleRate,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	// Catalog database.
	catalogStore, err := sqlite.New(cfg.DBPath(), sqlite.DefaultConfig())
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DBPath()).Msg("failed to open catalog database")
	}

	// Job-state store.
	jobStore, err := store.NewJobStore(cfg.StoreBackend, cfg.JobStorePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open job store")
	}

	// Cache.
	var searchCache cache.Cache
	var redisCache *cache.RedisCache
	if cfg.CacheBackend == "redis" {
		redisCache, err = cache.NewRedisCache(cache.RedisConfig{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		}, plog.WithComponent("cache"))
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		searchCache = redisCache
	} else {
		searchCache = cache.NewMemoryCache(time.Minute)
	}

	// Serve the last persisted catalog until the first reindex runs.
	holder := jobs.NewHolder()
	restoreCatalog(ctx, catalogStore, holder, logger)

	runner := jobs.NewRunner(jobs.Deps{
		Logger:       plog.WithComponent("jobs"),
		DocPath:      cfg.DocPath,
		SnapshotPath: cfg.SnapshotPath(),
		Catalogs:     catalogStore,
		Jobs:         jobStore,
		Holder:       holder,
	})

	// Initial reindex before serving (disable with PATLAS_INITIAL_REINDEX=false).
	if config.ParseBool("PATLAS_INITIAL_REINDEX", true) {
		if _, err := runner.Run(ctx, "startup"); err != nil {
			logger.Error().Err(err).Msg("initial reindex failed")
			logger.Warn().Msg("→ Serving previous catalog (if any) until POST /api/reindex succeeds")
		}
	} else {
		logger.Warn().Msg("initial reindex disabled (PATLAS_INITIAL_REINDEX=false)")
	}

	// Health checks.
	healthManager := health.NewManager(version)
	healthManager.RegisterChecker(health.CheckerFunc{CheckerName: "database", Fn: catalogStore.Ping})
	healthManager.RegisterChecker(health.CheckerFunc{CheckerName: "catalog", Fn: func(context.Context) error {
		if holder.Current() == nil {
			return fmt.Errorf("catalog not loaded")
		}
		return nil
	}})
	if redisCache != nil {
		healthManager.RegisterChecker(health.CheckerFunc{CheckerName: "redis", Fn: redisCache.HealthCheck})
	}

	server := api.NewServer(cfg, api.Deps{
		Holder: holder,
		Runner: runner,
		Cache:  searchCache,
		Jobs:   jobStore,
		Health: healthManager,
	})

	deps := daemon.Deps{
		Logger:     logger,
		APIHandler: server.Handler(),
	}
	if cfg.MetricsEnabled {
		deps.MetricsHandler = promhttp.Handler()
		deps.MetricsAddr = cfg.MetricsAddr
	}
	if cfg.WatchEnabled {
		watcher := jobs.NewWatcher(cfg.DocPath, runner, plog.WithComponent("watch"), 2*time.Second)
		deps.Watcher = watcher.Start
	}

	mgr, err := daemon.NewManager(serverCfg, deps)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.creation.failed").
			Msg("failed to create daemon manager")
	}

	mgr.RegisterShutdownHook("tracing", tracerProvider.Shutdown)
	mgr.RegisterShutdownHook("catalog-db", func(context.Context) error {
		return catalogStore.Close()
	})
	mgr.RegisterShutdownHook("job-store", func(context.Context) error {
		return jobStore.Close()
	})
	if redisCache != nil {
		mgr.RegisterShutdownHook("redis", func(context.Context) error {
			return redisCache.Close()
		})
	} else if stoppable, ok := searchCache.(interface{ Stop() }); ok {
		mgr.RegisterShutdownHook("cache", func(context.Context) error {
			stoppable.Stop()
			return nil
		})
	}

	if err := mgr.Start(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.failed").
			Msg("daemon failed")
	}

	logger.Info().Msg("server exiting")
}

type catalogLoader interface {
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
}

// restoreCatalog publishes the last persisted catalog so it is served
// until the first reindex. A missing catalog is normal on first start;
// any other load error is reported, not swallowed.
func restoreCatalog(ctx context.Context, loader catalogLoader, holder *jobs.Holder, logger zerolog.Logger) {
	switch restored, err := loader.LoadCatalog(ctx); {
	case err == nil:
		holder.Publish(&jobs.Snapshot{Catalog: restored, Index: search.Build(restored)})
		logger.Info().
			Int("patterns", len(restored.Patterns)).
			Int("principles", len(restored.Principles)).
			Msg("restored catalog from database")
	case errors.Is(err, catalog.ErrNotFound):
		logger.Info().Msg("no stored catalog yet, waiting for first reindex")
	default:
		logger.Error().Err(err).Msg("failed to restore catalog from database")
	}
}
