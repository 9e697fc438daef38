package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_browser_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_browser_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_browser_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_browser_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_browser_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)
)

// Indexer metrics
var (
	IndexerRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_browser_indexer_runs_total",
			Help: "Total number of indexer runs by kind and status",
		},
		[]string{"kind", "status"}, // kind: all, one, register
	)

	IndexerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_browser_indexer_last_run_timestamp",
			Help: "Timestamp of the last indexer run",
		},
	)

	IndexerLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_browser_indexer_last_run_duration_seconds",
			Help: "Duration of the last indexer run in seconds",
		},
	)

	IndexerPacksProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_browser_indexer_packs_processed_total",
			Help: "Total number of packs read by the indexer",
		},
	)

	IndexerAssetsMerged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_browser_indexer_assets_merged_total",
			Help: "Total number of asset records merged into the cache",
		},
	)

	IndexerRecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_browser_indexer_records_skipped_total",
			Help: "Total number of pack records not merged, by reason",
		},
		[]string{"reason"}, // placeholder, malformed
	)

	IndexerFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "asset_browser_indexer_fetch_duration_seconds",
			Help:    "Time to fetch the raw content of one pack",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	IndexerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_browser_indexer_errors_total",
			Help: "Total number of indexer errors",
		},
	)

	IndexerIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_browser_indexer_running",
			Help: "Whether the indexer is currently running (1 = running, 0 = idle)",
		},
	)
)

// Thumbnail externalization metrics
var (
	ThumbnailExternalizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_browser_thumbnail_externalizations_total",
			Help: "Total number of inline thumbnails processed by the externalizer",
		},
		[]string{"status"}, // written, unsupported, failed, superseded
	)

	ThumbnailBytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asset_browser_thumbnail_bytes_written_total",
			Help: "Total bytes of externalized thumbnail files written",
		},
	)

	ThumbnailExternalizeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "asset_browser_thumbnail_externalize_duration_seconds",
			Help:    "Duration of one externalization pass over the cache",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)

// Cache persistence metrics
var (
	CacheSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_browser_cache_saves_total",
			Help: "Total number of cache document saves",
		},
		[]string{"status"},
	)

	CacheLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_browser_cache_loads_total",
			Help: "Total number of cache document loads",
		},
		[]string{"status"},
	)

	CacheSaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "asset_browser_cache_save_duration_seconds",
			Help:    "Duration of a cache save including externalization",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	CacheDocumentBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_browser_cache_document_bytes",
			Help: "Size of the last written cache document in bytes",
		},
	)
)

// Cache contents metrics
var (
	CacheCollectionsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_browser_cache_collections",
			Help: "Number of collections in the cache",
		},
	)

	CachePacksTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_browser_cache_packs",
			Help: "Number of packs in the cache",
		},
	)

	CacheAssetsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_browser_cache_assets",
			Help: "Number of assets in the cache",
		},
	)

	CacheInlineThumbnails = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_browser_cache_inline_thumbnails",
			Help: "Number of cached assets whose thumbnail is still inline",
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_browser_filesystem_operation_duration_seconds",
			Help:    "Filesystem operation duration in seconds, retries included",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_browser_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_browser_filesystem_retry_attempts_total",
			Help: "Total number of NFS stale handle retry attempts",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_browser_filesystem_retry_success_total",
			Help: "Total number of operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_browser_filesystem_retry_failures_total",
			Help: "Total number of operations that failed after exhausting retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_browser_filesystem_stale_errors_total",
			Help: "Total number of NFS stale file handle errors observed",
		},
		[]string{"operation"},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "asset_browser_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
