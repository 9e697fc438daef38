package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Filesystem operation and retry metrics ---
	for _, op := range []string{"read", "write", "mkdir"} {
		FilesystemOperationDuration.WithLabelValues(op)
		FilesystemOperationErrors.WithLabelValues(op)
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}

	// --- Indexer runs ---
	for _, kind := range []string{"all", "one", "register"} {
		for _, status := range []string{"success", "error"} {
			IndexerRunsTotal.WithLabelValues(kind, status)
		}
	}
	for _, reason := range []string{"placeholder", "malformed"} {
		IndexerRecordsSkipped.WithLabelValues(reason)
	}

	// --- Thumbnail externalization ---
	for _, status := range []string{"written", "unsupported", "failed", "superseded"} {
		ThumbnailExternalizationsTotal.WithLabelValues(status)
	}

	// --- Cache persistence ---
	for _, status := range []string{"success", "error"} {
		CacheSavesTotal.WithLabelValues(status)
	}
	for _, status := range []string{"success", "missing", "error"} {
		CacheLoadsTotal.WithLabelValues(status)
	}

	// --- DB query operations ---
	for _, op := range []string{"initialize_schema", "record_run", "recent_runs"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}
}
