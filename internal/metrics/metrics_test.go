package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric prometheus.Collector
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
		{"DBQueryTotal", DBQueryTotal},
		{"DBQueryDuration", DBQueryDuration},
		{"IndexerRunsTotal", IndexerRunsTotal},
		{"IndexerLastRunTimestamp", IndexerLastRunTimestamp},
		{"IndexerLastRunDuration", IndexerLastRunDuration},
		{"IndexerPacksProcessed", IndexerPacksProcessed},
		{"IndexerAssetsMerged", IndexerAssetsMerged},
		{"IndexerRecordsSkipped", IndexerRecordsSkipped},
		{"IndexerFetchDuration", IndexerFetchDuration},
		{"IndexerErrors", IndexerErrors},
		{"IndexerIsRunning", IndexerIsRunning},
		{"ThumbnailExternalizationsTotal", ThumbnailExternalizationsTotal},
		{"ThumbnailBytesWritten", ThumbnailBytesWritten},
		{"ThumbnailExternalizeDuration", ThumbnailExternalizeDuration},
		{"CacheSavesTotal", CacheSavesTotal},
		{"CacheLoadsTotal", CacheLoadsTotal},
		{"CacheSaveDuration", CacheSaveDuration},
		{"CacheDocumentBytes", CacheDocumentBytes},
		{"CacheCollectionsTotal", CacheCollectionsTotal},
		{"CachePacksTotal", CachePacksTotal},
		{"CacheAssetsTotal", CacheAssetsTotal},
		{"CacheInlineThumbnails", CacheInlineThumbnails},
		{"FilesystemOperationDuration", FilesystemOperationDuration},
		{"AppInfo", AppInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestMetricNamesArePrefixed(t *testing.T) {
	collectors := []prometheus.Collector{
		HTTPRequestsTotal, IndexerRunsTotal, CacheSavesTotal, ThumbnailExternalizationsTotal,
		CacheAssetsTotal, FilesystemStaleErrors, AppInfo,
	}

	for _, c := range collectors {
		descs := make(chan *prometheus.Desc, 4)
		c.Describe(descs)
		close(descs)
		for d := range descs {
			if !strings.Contains(d.String(), `fqName: "asset_browser_`) {
				t.Errorf("metric not prefixed: %s", d)
			}
		}
	}
}

func TestIndexerMetricOperations(t *testing.T) {
	before := testutil.ToFloat64(IndexerRunsTotal.WithLabelValues("all", "success"))
	IndexerRunsTotal.WithLabelValues("all", "success").Inc()
	if got := testutil.ToFloat64(IndexerRunsTotal.WithLabelValues("all", "success")) - before; got != 1 {
		t.Errorf("runs counter increased by %v, want 1", got)
	}

	IndexerIsRunning.Set(1)
	if got := testutil.ToFloat64(IndexerIsRunning); got != 1 {
		t.Errorf("IndexerIsRunning = %v, want 1", got)
	}
	IndexerIsRunning.Set(0)
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.2.3", "abc123", "go1.25")

	if got := testutil.ToFloat64(AppInfo.WithLabelValues("1.2.3", "abc123", "go1.25")); got != 1 {
		t.Errorf("AppInfo = %v, want 1", got)
	}
}
