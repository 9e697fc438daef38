package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sync"
	"time"

	"asset-browser/internal/assetcache"
	"asset-browser/internal/filesystem"
	"asset-browser/internal/logging"
	"asset-browser/internal/media"
	"asset-browser/internal/metrics"
	"asset-browser/internal/progress"
)

const (
	// DocumentName is the cache document's file name inside the cache dir.
	DocumentName = "cache.json"

	// DefaultSaveDelay is how long ScheduleSave waits for further requests
	// before saving.
	DefaultSaveDelay = 2001 * time.Millisecond
)

// Store persists a cache as one JSON document.
type Store struct {
	cache        *assetcache.Cache
	storage      filesystem.Storage
	dir          string
	externalizer *media.Externalizer

	saveMu   sync.Mutex
	debounce *Debouncer
}

// New creates a store writing below dir, a storage-relative directory.
// Inline thumbnails are externalized to dir/thumbs before every save.
func New(cache *assetcache.Cache, storage filesystem.Storage, dir string) *Store {
	s := &Store{
		cache:        cache,
		storage:      storage,
		dir:          dir,
		externalizer: media.NewExternalizer(storage, path.Join(dir, media.ThumbsDir)),
	}
	s.debounce = NewDebouncer(DefaultSaveDelay, s.scheduledSave)
	return s
}

// Externalizer returns the thumbnail externalizer run by Save.
func (s *Store) Externalizer() *media.Externalizer {
	return s.externalizer
}

// SetSaveDelay changes the ScheduleSave delay. Call before the first
// ScheduleSave.
func (s *Store) SetSaveDelay(d time.Duration) {
	s.debounce.Close()
	s.debounce = NewDebouncer(d, s.scheduledSave)
}

// Dir returns the storage path of the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// DocumentPath returns the storage path of the cache document.
func (s *Store) DocumentPath() string {
	return path.Join(s.dir, DocumentName)
}

// Save externalizes inline thumbnails and writes the cache document.
// Progress of the externalization pass goes to sink, followed by one final
// snapshot once the document is written.
func (s *Store) Save(ctx context.Context, sink progress.Sink) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	start := time.Now()
	err := s.save(ctx, sink)
	metrics.CacheSaveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CacheSavesTotal.WithLabelValues("error").Inc()
		logging.Error("Failed to save cache: %v", err)
		return err
	}
	metrics.CacheSavesTotal.WithLabelValues("success").Inc()
	return nil
}

func (s *Store) save(ctx context.Context, sink progress.Sink) error {
	if err := s.storage.CreateDirectory(ctx, s.dir); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	var last progress.Snapshot
	record := func(p progress.Snapshot) {
		last = p
		sink.Emit(p)
	}

	if _, err := s.externalizer.Run(ctx, s.cache, record); err != nil {
		return fmt.Errorf("failed to externalize thumbnails: %w", err)
	}

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	if err := s.storage.WriteFile(ctx, s.DocumentPath(), data); err != nil {
		return fmt.Errorf("failed to write cache document: %w", err)
	}
	metrics.CacheDocumentBytes.Set(float64(len(data)))

	last.Message = "Cache saved"
	sink.Emit(last)

	logging.Info("Cache saved to %s (%d collections, %d packs, %d assets, %d bytes)",
		s.DocumentPath(), s.cache.CollectionCount(), s.cache.PackCount(), s.cache.AssetCount(), len(data))
	return nil
}

// Load replaces the cache with the saved document. On any failure it logs,
// leaves the cache as it was and returns false.
func (s *Store) Load(ctx context.Context) bool {
	data, err := s.storage.ReadFile(ctx, s.DocumentPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("No saved cache at %s, starting empty", s.DocumentPath())
			metrics.CacheLoadsTotal.WithLabelValues("missing").Inc()
		} else {
			logging.Warn("Failed to read saved cache: %v", err)
			metrics.CacheLoadsTotal.WithLabelValues("error").Inc()
		}
		return false
	}

	loaded := assetcache.New()
	if err := json.Unmarshal(data, loaded); err != nil {
		logging.Warn("Ignoring corrupt cache document %s: %v", s.DocumentPath(), err)
		metrics.CacheLoadsTotal.WithLabelValues("error").Inc()
		return false
	}

	s.cache.Replace(loaded)
	metrics.CacheLoadsTotal.WithLabelValues("success").Inc()
	logging.Info("Loaded cache from %s (%d collections, %d packs, %d assets)",
		s.DocumentPath(), s.cache.CollectionCount(), s.cache.PackCount(), s.cache.AssetCount())
	return true
}

// ScheduleSave asks for a save once requests stop arriving for the save
// delay. Bursts of requests produce one save.
func (s *Store) ScheduleSave() {
	s.debounce.Reset()
}

// SavePending reports whether a scheduled save has not run yet.
func (s *Store) SavePending() bool {
	return s.debounce.Pending()
}

func (s *Store) scheduledSave() {
	if err := s.Save(context.Background(), nil); err != nil {
		logging.Warn("Scheduled cache save failed: %v", err)
	}
}

// Flush runs a pending scheduled save now. It does nothing when no save is
// pending.
func (s *Store) Flush(ctx context.Context) error {
	if !s.debounce.Stop() {
		return nil
	}
	return s.Save(ctx, nil)
}

// Close cancels any pending scheduled save.
func (s *Store) Close() {
	s.debounce.Close()
}
