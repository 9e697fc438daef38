// Package metrics provides Prometheus instrumentation for the asset browser.
//
// This package defines and exposes various metrics that can be scraped by Prometheus
// to monitor the health, performance, and behavior of the application. All metrics
// are prefixed with "asset_browser_" to avoid naming collisions with other applications.
//
// # Metric Categories
//
// ## HTTP Metrics
//
// Track HTTP request performance and error rates:
//   - HTTPRequestsTotal: Counter of total requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// ## Database Metrics
//
// Monitor the run-history database:
//   - DBQueryTotal: Counter of queries by operation and status
//   - DBQueryDuration: Histogram of query duration by operation
//
// ## Indexer Metrics
//
// Track indexing runs:
//   - IndexerRunsTotal: Counter of runs by kind (all/one/register) and status
//   - IndexerLastRunTimestamp, IndexerLastRunDuration: Gauges for the last run
//   - IndexerPacksProcessed, IndexerAssetsMerged: Counters of work done
//   - IndexerRecordsSkipped: Counter of dropped records by reason (placeholder/malformed)
//   - IndexerFetchDuration: Histogram of raw pack fetch time
//   - IndexerErrors: Counter of failed runs
//   - IndexerIsRunning: Gauge indicating if a run is active
//
// ## Thumbnail Metrics
//
//   - ThumbnailExternalizationsTotal: Counter by status (written/unsupported/failed)
//   - ThumbnailBytesWritten: Counter of bytes written to the thumbnail directory
//   - ThumbnailExternalizeDuration: Histogram of pass duration
//
// ## Cache Metrics
//
//   - CacheSavesTotal, CacheLoadsTotal: Counters by status
//   - CacheSaveDuration: Histogram of save duration including externalization
//   - CacheDocumentBytes: Gauge of the last written document size
//   - CacheCollectionsTotal, CachePacksTotal, CacheAssetsTotal, CacheInlineThumbnails:
//     Gauges refreshed by the Collector
//
// ## Filesystem Metrics
//
// Recorded through the filesystem.Observer returned by NewFilesystemObserver:
//   - FilesystemOperationDuration, FilesystemOperationErrors by operation
//   - FilesystemRetryAttempts, FilesystemRetrySuccess, FilesystemRetryFailures,
//     FilesystemStaleErrors for NFS stale handle handling
//
// # Usage
//
// Metrics are registered on package load through promauto. Call InitializeMetrics
// once at startup so labelled series exist before the first scrape, and start a
// Collector to refresh the cache-size gauges:
//
//	collector := metrics.NewCollector(idx, time.Minute)
//	collector.Start()
//	defer collector.Stop()
package metrics
