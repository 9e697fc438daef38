package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"asset-browser/internal/assetcache"
	"asset-browser/internal/database"
	"asset-browser/internal/filesystem"
	"asset-browser/internal/handlers"
	"asset-browser/internal/indexer"
	"asset-browser/internal/logging"
	"asset-browser/internal/memory"
	"asset-browser/internal/metrics"
	"asset-browser/internal/middleware"
	"asset-browser/internal/source"
	"asset-browser/internal/startup"
	"asset-browser/internal/store"
)

const (
	shutdownTimeout         = 30 * time.Second
	metricsCollectInterval  = time.Minute
	serverReadTimeout       = 15 * time.Second
	serverWriteTimeout      = 60 * time.Second
	serverIdleTimeout       = 60 * time.Second
	metricsServerTimeout    = 10 * time.Second
	metricsServerIdle       = 30 * time.Second
	lastIndexRecordDeadline = 5 * time.Second
)

// shutdownDone is closed once graceful shutdown has finished.
var shutdownDone = make(chan struct{})

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// After LoadConfig so MEMORY_LIMIT can come from .env
	memory.Configure(os.Getenv)

	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
	filesystem.SetObserver(metrics.NewFilesystemObserver())

	ctx := context.Background()

	dbStart := time.Now()
	db, err := database.New(ctx, config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	startup.LogDatabaseInit(config.DatabasePath, time.Since(dbStart))

	idx, st := buildIndexer(config, db)

	loaded := st.Load(ctx)
	cache := idx.Cache()
	startup.LogCacheLoaded(filepath.Join(config.DataDir, filepath.FromSlash(st.DocumentPath())),
		loaded, cache.CollectionCount(), cache.PackCount(), cache.AssetCount())

	if last, err := db.GetLastIndexRun(ctx); err != nil {
		logging.Warn("Failed to read last index time: %v", err)
	} else if !last.IsZero() {
		logging.Info("  Last full index: %s", last.Local().Format(time.RFC1123))
	}

	collector := metrics.NewCollector(idx, metricsCollectInterval)
	collector.Start()

	startup.LogIndexerInit(idx.Kind(), config.SelectedCollections, config.IndexOnStart, config.ShallowIndex)
	if config.IndexOnStart {
		if err := idx.TriggerReindexAll(config.SelectedCollections, config.ShallowIndex); err != nil {
			logging.Error("Failed to start initial index: %v", err)
		} else {
			startup.LogIndexerStarted()
		}
	}

	h := handlers.New(db, idx, st, config)
	router := setupRouter(h)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      wrapHandler(router, config),
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = newMetricsServer(h, config.MetricsPort)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	go handleShutdown(srv, metricsSrv, collector, st, db)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}

	// ListenAndServe returns as soon as Shutdown starts; wait for cleanup.
	<-shutdownDone
}

// buildIndexer wires the cache, its store and the module registry into an
// indexer. The loaded cache document is not read here.
func buildIndexer(config *startup.Config, db *database.Database) (*indexer.Indexer, *store.Store) {
	storage := filesystem.NewOSStorage(config.DataDir)
	cache := assetcache.New()

	st := store.New(cache, storage, config.CacheSubdir)
	st.SetSaveDelay(config.SaveDebounce)
	st.Externalizer().SetMaxDimension(config.ThumbnailMaxDimension)

	modules := source.NewModuleDir(storage)
	idx := indexer.New(cache, modules, modules, st)
	idx.SetKind(config.PackKind)
	if db != nil {
		idx.SetRunRecorder(db)
		idx.SetOnIndexComplete(func() {
			ctx, cancel := context.WithTimeout(context.Background(), lastIndexRecordDeadline)
			defer cancel()
			if err := db.SetLastIndexRun(ctx, time.Now()); err != nil {
				logging.Warn("Failed to store last index time: %v", err)
			}
		})
	}
	return idx, st
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	h.RegisterRoutes(r)
	return r
}

// wrapHandler applies the access log around the router.
func wrapHandler(router http.Handler, config *startup.Config) http.Handler {
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggingConfig.StaticPrefix = "/" + config.CacheSubdir + "/"
	return middleware.Logger(loggingConfig)(router)
}

func newMetricsServer(h *handlers.Handlers, port string) *http.Server {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", h.MetricsHandler())
	metricsMux.HandleFunc("/health", h.HealthCheck)

	return &http.Server{
		Addr:         ":" + port,
		Handler:      metricsMux,
		ReadTimeout:  metricsServerTimeout,
		WriteTimeout: metricsServerTimeout,
		IdleTimeout:  metricsServerIdle,
	}
}

func handleShutdown(srv, metricsSrv *http.Server, collector *metrics.Collector, st *store.Store, db *database.Database) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())
	shutdown(srv, metricsSrv, collector, st, db)
	close(shutdownDone)
}

func shutdown(srv, metricsSrv *http.Server, collector *metrics.Collector, st *store.Store, db *database.Database) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	startup.LogShutdownStep("Flushing pending cache save")
	if err := st.Flush(ctx); err != nil {
		logging.Warn("Cache flush failed: %v", err)
	} else {
		startup.LogShutdownStepComplete("Cache flushed")
	}
	st.Close()

	startup.LogShutdownStep("Closing database")
	if err := db.Close(); err != nil {
		logging.Warn("Database close error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Database closed")
	}

	startup.LogShutdownComplete()
}
