package indexer

import (
	"context"
	"fmt"
	"time"

	"asset-browser/internal/assetcache"
	"asset-browser/internal/database"
	"asset-browser/internal/logging"
	"asset-browser/internal/metrics"
	"asset-browser/internal/progress"
	"asset-browser/internal/source"
)

// ShallowRegister makes sure the named collection is in the cache without
// reading any of its packs. An existing entry keeps its packs. Unknown names
// fail with source.ErrNotFound.
func (idx *Indexer) ShallowRegister(ctx context.Context, name string) (*assetcache.Collection, error) {
	info, err := idx.registry.Lookup(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", name, err)
	}
	if !idx.tryStartIndexing() {
		return nil, ErrIndexInProgress
	}

	var coll *assetcache.Collection
	err = idx.track(ctx, database.RunKindRegister, info.ID, nil, func(progress.Sink) error {
		coll = idx.cache.EnsureCollection(info.ID, info.Title)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Registered collection %s (%s)", info.ID, info.Title)
	idx.scheduleSave()
	return coll, nil
}

// ReindexOne rebuilds one collection from its source. The collection's old
// packs are dropped first; other collections are untouched. A save is
// scheduled afterwards.
func (idx *Indexer) ReindexOne(ctx context.Context, name string, sink progress.Sink) (*assetcache.Collection, error) {
	if !idx.tryStartIndexing() {
		return nil, ErrIndexInProgress
	}
	return idx.reindexOne(ctx, name, sink)
}

func (idx *Indexer) reindexOne(ctx context.Context, name string, sink progress.Sink) (*assetcache.Collection, error) {
	var coll *assetcache.Collection
	err := idx.track(ctx, database.RunKindOne, name, sink, func(sink progress.Sink) error {
		info, err := idx.registry.Lookup(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to reindex %s: %w", name, err)
		}

		tracker := progress.NewTracker(sink)
		tracker.Start(fmt.Sprintf("Indexing %s", info.Title))
		tracker.FoundCollections(1, fmt.Sprintf("Indexing %s", info.Title))

		if err := idx.indexCollection(ctx, info, tracker); err != nil {
			tracker.Message(fmt.Sprintf("Indexing failed: %v", err))
			return err
		}

		coll, _ = idx.cache.Collection(info.ID)
		tracker.Done(fmt.Sprintf("Indexed %s", info.Title))
		return nil
	})
	if err != nil {
		return nil, err
	}

	idx.scheduleSave()
	return coll, nil
}

// ReindexAll walks the registry and, for every collection named in
// selected, either registers it (shallow) or rebuilds it from its packs.
// Unselected collections are left alone. A full run ends by saving the cache;
// the final snapshot is emitted after the save.
func (idx *Indexer) ReindexAll(ctx context.Context, selected []string, shallow bool, sink progress.Sink) error {
	if !idx.tryStartIndexing() {
		return ErrIndexInProgress
	}
	return idx.reindexAll(ctx, selected, shallow, sink)
}

func (idx *Indexer) reindexAll(ctx context.Context, selected []string, shallow bool, sink progress.Sink) error {
	err := idx.track(ctx, database.RunKindAll, "", sink, func(sink progress.Sink) error {
		return idx.runAll(ctx, selected, shallow, progress.NewTracker(sink))
	})
	if err != nil {
		return err
	}

	if shallow {
		idx.scheduleSave()
	} else if idx.onIndexComplete != nil {
		idx.onIndexComplete()
	}
	return nil
}

func (idx *Indexer) runAll(ctx context.Context, selected []string, shallow bool, tracker *progress.Tracker) error {
	start := time.Now()
	logging.Info("Starting reindex of %d selected collections (shallow: %v)", len(selected), shallow)
	tracker.Start("Indexing collections")

	all, err := idx.registry.Collections(ctx)
	if err != nil {
		tracker.Message(fmt.Sprintf("Indexing failed: %v", err))
		return fmt.Errorf("failed to list collections: %w", err)
	}

	wanted := make(map[string]bool, len(selected))
	for _, name := range selected {
		wanted[name] = true
	}
	var chosen []source.CollectionInfo
	for _, info := range all {
		if wanted[info.ID] {
			chosen = append(chosen, info)
		} else {
			logging.Debug("Skipping unselected collection %s", info.ID)
		}
	}
	tracker.FoundCollections(len(chosen), fmt.Sprintf("Found %d collections", len(chosen)))

	for _, info := range chosen {
		if err := ctx.Err(); err != nil {
			tracker.Message("Indexing cancelled")
			return err
		}

		if shallow {
			idx.cache.EnsureCollection(info.ID, info.Title)
			tracker.FinishCollection(fmt.Sprintf("Registered %s", info.Title))
			continue
		}

		if err := idx.indexCollection(ctx, info, tracker); err != nil {
			tracker.Message(fmt.Sprintf("Indexing failed: %v", err))
			return err
		}
	}

	if !shallow && idx.saver != nil {
		// Save progress is shown under the frozen indexing counters.
		forward := func(p progress.Snapshot) { tracker.Message(p.Message) }
		if err := idx.saver.Save(ctx, forward); err != nil {
			tracker.Done("Indexing complete, cache save failed")
			return fmt.Errorf("failed to save cache: %w", err)
		}
	}

	snap := tracker.Snapshot()
	logging.Info("Reindex complete: %d collections, %d packs, %d assets in %v",
		snap.Collections.Finished, snap.Packs.Finished, snap.Assets.Finished, time.Since(start))
	tracker.Done("Indexing complete")
	return nil
}

// indexCollection replaces a collection's packs with freshly read ones.
func (idx *Indexer) indexCollection(ctx context.Context, info source.CollectionInfo, tracker *progress.Tracker) error {
	packs, err := idx.registry.Packs(ctx, info.ID)
	if err != nil {
		return fmt.Errorf("failed to list packs of %s: %w", info.ID, err)
	}
	packs = source.FilterKind(packs, idx.kind)

	idx.cache.ResetCollection(info.ID, info.Title)
	tracker.FoundPacks(len(packs), fmt.Sprintf("%s: found %d packs", info.Title, len(packs)))

	for _, p := range packs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := idx.indexPack(ctx, info, p, tracker); err != nil {
			return err
		}
	}

	logging.Debug("Indexed collection %s: %d packs", info.ID, len(packs))
	tracker.FinishCollection(fmt.Sprintf("Indexed %s", info.Title))
	return nil
}

// indexPack fetches one pack and merges its records.
func (idx *Indexer) indexPack(ctx context.Context, info source.CollectionInfo, p source.PackInfo, tracker *progress.Tracker) error {
	fetchStart := time.Now()
	data, err := idx.fetcher.Fetch(ctx, p.Path)
	metrics.IndexerFetchDuration.Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		return fmt.Errorf("failed to fetch pack %s of %s: %w", p.Name, info.ID, err)
	}

	assets, stats := DecodeRecords(data)
	if stats.Malformed > 0 {
		logging.Warn("Skipped %d malformed records in %s", stats.Malformed, p.Path)
		metrics.IndexerRecordsSkipped.WithLabelValues("malformed").Add(float64(stats.Malformed))
	}
	if stats.Placeholders > 0 {
		metrics.IndexerRecordsSkipped.WithLabelValues("placeholder").Add(float64(stats.Placeholders))
	}

	idx.cache.EnsurePack(info.ID, p.Name, p.Title, p.Path)
	tracker.FoundAssets(len(assets), fmt.Sprintf("%s / %s: found %d assets", info.Title, p.Title, len(assets)))

	for _, a := range assets {
		idx.cache.PutAsset(info.ID, p.Name, a.Key(), a)
		metrics.IndexerAssetsMerged.Inc()
		tracker.FinishAsset(a.Name)
	}

	metrics.IndexerPacksProcessed.Inc()
	tracker.FinishPack(fmt.Sprintf("Indexed %s / %s", info.Title, p.Title))
	return nil
}

// Clear empties the cache.
func (idx *Indexer) Clear() error {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	if idx.isIndexing {
		return ErrIndexInProgress
	}
	idx.cache.Clear()
	logging.Info("Cache cleared")
	return nil
}

func (idx *Indexer) scheduleSave() {
	if idx.saver != nil {
		idx.saver.ScheduleSave()
	}
}
