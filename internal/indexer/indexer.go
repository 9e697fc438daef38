package indexer

import (
	"context"
	"errors"
	"sync"
	"time"

	"asset-browser/internal/assetcache"
	"asset-browser/internal/database"
	"asset-browser/internal/logging"
	"asset-browser/internal/mediatypes"
	"asset-browser/internal/metrics"
	"asset-browser/internal/progress"
	"asset-browser/internal/source"
)

// ErrIndexInProgress is returned when a run is requested while another one
// is still going.
var ErrIndexInProgress = errors.New("index already in progress")

// Saver persists the cache. *store.Store implements it.
type Saver interface {
	Save(ctx context.Context, sink progress.Sink) error
	ScheduleSave()
}

// RunRecorder keeps the history of runs. *database.Database implements it.
type RunRecorder interface {
	RecordRun(ctx context.Context, run database.IndexRun) (int64, error)
}

// Indexer fills the asset cache from a collection registry. One run at a
// time owns the cache; overlapping requests get ErrIndexInProgress.
type Indexer struct {
	cache    *assetcache.Cache
	registry source.Registry
	fetcher  source.Fetcher
	saver    Saver
	recorder RunRecorder
	kind     string

	indexMu       sync.Mutex
	isIndexing    bool
	runStarted    time.Time
	lastIndexTime time.Time
	lastError     error
	startTime     time.Time

	latest progress.Latest

	// Callback when a full index completes
	onIndexComplete func()
}

// IndexProgress is the latest snapshot of the current or last run.
type IndexProgress struct {
	progress.Snapshot
	IsIndexing bool      `json:"isIndexing"`
	StartedAt  time.Time `json:"startedAt,omitempty"`
}

// New creates an indexer for cache. saver may be nil, in which case nothing
// is persisted.
func New(cache *assetcache.Cache, registry source.Registry, fetcher source.Fetcher, saver Saver) *Indexer {
	return &Indexer{
		cache:     cache,
		registry:  registry,
		fetcher:   fetcher,
		saver:     saver,
		kind:      source.KindScene,
		startTime: time.Now(),
	}
}

// SetKind sets the pack kind that gets indexed. Other packs are skipped.
func (idx *Indexer) SetKind(kind string) {
	if kind != "" {
		idx.kind = kind
	}
}

// Kind returns the indexed pack kind.
func (idx *Indexer) Kind() string {
	return idx.kind
}

// SetRunRecorder sets where finished runs are recorded.
func (idx *Indexer) SetRunRecorder(recorder RunRecorder) {
	idx.recorder = recorder
}

// SetOnIndexComplete sets a callback to be invoked when a full index of
// all selected collections completes.
func (idx *Indexer) SetOnIndexComplete(callback func()) {
	idx.onIndexComplete = callback
}

// Cache returns the cache this indexer fills.
func (idx *Indexer) Cache() *assetcache.Cache {
	return idx.cache
}

// tryStartIndexing attempts to start a run, returns false if one is in progress.
func (idx *Indexer) tryStartIndexing() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	if idx.isIndexing {
		return false
	}
	idx.isIndexing = true
	idx.runStarted = time.Now()
	return true
}

// finishIndexing marks the run as complete.
func (idx *Indexer) finishIndexing(kind database.RunKind, err error) {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	idx.isIndexing = false
	idx.lastError = err
	if err == nil && kind != database.RunKindRegister {
		idx.lastIndexTime = time.Now()
	}
}

// track runs fn as one recorded run. The caller must have won tryStartIndexing.
func (idx *Indexer) track(ctx context.Context, kind database.RunKind, target string, sink progress.Sink, fn func(progress.Sink) error) (err error) {
	metrics.IndexerIsRunning.Set(1)
	defer metrics.IndexerIsRunning.Set(0)

	var last progress.Snapshot
	record := func(p progress.Snapshot) { last = p }

	started := time.Now()
	defer func() {
		idx.observeRun(ctx, kind, target, started, last, err)
		idx.finishIndexing(kind, err)
	}()

	return fn(progress.Tee(idx.latest.Sink(), record, sink))
}

// observeRun updates metrics and the run history for a finished run.
func (idx *Indexer) observeRun(ctx context.Context, kind database.RunKind, target string, started time.Time, last progress.Snapshot, err error) {
	duration := time.Since(started)

	status := "success"
	if err != nil {
		status = "error"
		metrics.IndexerErrors.Inc()
	}
	metrics.IndexerRunsTotal.WithLabelValues(string(kind), status).Inc()
	if err == nil && kind != database.RunKindRegister {
		metrics.IndexerLastRunTimestamp.Set(float64(time.Now().Unix()))
		metrics.IndexerLastRunDuration.Set(duration.Seconds())
	}

	if idx.recorder == nil {
		return
	}

	run := database.IndexRun{
		Kind:        kind,
		Target:      target,
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Collections: database.Counter(last.Collections),
		Packs:       database.Counter(last.Packs),
		Assets:      database.Counter(last.Assets),
	}
	if err != nil {
		run.Error = err.Error()
	}

	if _, recErr := idx.recorder.RecordRun(context.WithoutCancel(ctx), run); recErr != nil {
		logging.Warn("Failed to record %s run: %v", kind, recErr)
	}
}

// IsIndexing returns whether a run is currently in progress.
func (idx *Indexer) IsIndexing() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.isIndexing
}

// LastIndexTime returns the time of the last successful reindex.
func (idx *Indexer) LastIndexTime() time.Time {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.lastIndexTime
}

// GetProgress returns the latest progress snapshot.
func (idx *Indexer) GetProgress() IndexProgress {
	snap, _ := idx.latest.Get()

	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	p := IndexProgress{Snapshot: snap, IsIndexing: idx.isIndexing}
	if idx.isIndexing {
		p.StartedAt = idx.runStarted
	}
	return p
}

// HealthStatus contains health check information.
type HealthStatus struct {
	Ready         bool           `json:"ready"`
	Indexing      bool           `json:"indexing"`
	StartTime     time.Time      `json:"startTime"`
	Uptime        string         `json:"uptime"`
	LastIndexed   time.Time      `json:"lastIndexed,omitempty"`
	LastError     string         `json:"lastError,omitempty"`
	Collections   int            `json:"collections"`
	Packs         int            `json:"packs"`
	Assets        int            `json:"assets"`
	IndexProgress *IndexProgress `json:"indexProgress,omitempty"`
}

// GetHealthStatus returns detailed health information. The service is ready
// once the cache holds something or no run is busy filling it.
func (idx *Indexer) GetHealthStatus() HealthStatus {
	p := idx.GetProgress()
	collections := idx.cache.CollectionCount()

	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	status := HealthStatus{
		Ready:       !idx.isIndexing || collections > 0,
		Indexing:    idx.isIndexing,
		StartTime:   idx.startTime,
		Uptime:      time.Since(idx.startTime).String(),
		LastIndexed: idx.lastIndexTime,
		Collections: collections,
		Packs:       idx.cache.PackCount(),
		Assets:      idx.cache.AssetCount(),
	}
	if idx.isIndexing {
		status.IndexProgress = &p
	}
	if idx.lastError != nil {
		status.LastError = idx.lastError.Error()
	}
	return status
}

// GetStats implements metrics.StatsProvider.
func (idx *Indexer) GetStats() metrics.Stats {
	stats := metrics.Stats{
		Collections: idx.cache.CollectionCount(),
		Packs:       idx.cache.PackCount(),
		Assets:      idx.cache.AssetCount(),
	}
	for v := range idx.cache.All() {
		if mediatypes.IsInline(v.Asset.ThumbnailRef()) {
			stats.InlineThumbnails++
		}
	}
	return stats
}

// TriggerReindexAll starts ReindexAll in the background. It fails
// immediately with ErrIndexInProgress when a run is already going.
func (idx *Indexer) TriggerReindexAll(selected []string, shallow bool) error {
	if !idx.tryStartIndexing() {
		return ErrIndexInProgress
	}
	go func() {
		if err := idx.reindexAll(context.Background(), selected, shallow, nil); err != nil {
			logging.Error("background reindex failed: %v", err)
		}
	}()
	return nil
}

// TriggerReindexOne checks that name is known, then reindexes it in the
// background.
func (idx *Indexer) TriggerReindexOne(ctx context.Context, name string) error {
	info, err := idx.registry.Lookup(ctx, name)
	if err != nil {
		return err
	}
	if !idx.tryStartIndexing() {
		return ErrIndexInProgress
	}
	go func() {
		if _, err := idx.reindexOne(context.Background(), info.ID, nil); err != nil {
			logging.Error("background reindex of %s failed: %v", info.ID, err)
		}
	}()
	return nil
}
