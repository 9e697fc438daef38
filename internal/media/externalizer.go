package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"
	"time"

	"asset-browser/internal/assetcache"
	"asset-browser/internal/filesystem"
	"asset-browser/internal/logging"
	"asset-browser/internal/mediatypes"
	"asset-browser/internal/metrics"
	"asset-browser/internal/progress"
)

// ThumbsDir is the name of the externalized thumbnail directory inside the
// cache directory.
const ThumbsDir = "thumbs"

// Stats summarizes one externalization pass.
type Stats struct {
	Written     int `json:"written"`
	Unsupported int `json:"unsupported"`
	Failed      int `json:"failed"`
	Skipped     int `json:"skipped"`
	Superseded  int `json:"superseded"`
}

// Externalizer moves inline thumbnails out of the cache into files.
type Externalizer struct {
	storage      filesystem.Storage
	dir          string
	maxDimension int
}

// NewExternalizer creates an externalizer writing below dir, a storage path
// relative to the storage root.
func NewExternalizer(storage filesystem.Storage, dir string) *Externalizer {
	return &Externalizer{storage: storage, dir: dir}
}

// SetMaxDimension enables downscaling of thumbnails larger than n pixels on
// either side. Zero disables it.
func (e *Externalizer) SetMaxDimension(n int) {
	if n < 0 {
		n = 0
	}
	e.maxDimension = n
}

// Dir returns the storage path thumbnails are written to.
func (e *Externalizer) Dir() string {
	return e.dir
}

// Run rewrites every inline thumbnail in cache to a file reference.
// Thumbnails that already reference a file are left alone, so repeated runs
// write nothing new. Per-asset problems are logged and counted; only context
// cancellation stops the pass early.
func (e *Externalizer) Run(ctx context.Context, cache *assetcache.Cache, sink progress.Sink) (Stats, error) {
	start := time.Now()
	var stats Stats
	defer func() {
		metrics.ThumbnailExternalizeDuration.Observe(time.Since(start).Seconds())
	}()

	tracker := progress.NewTracker(sink)
	tracker.Start("Externalizing thumbnails")

	if err := e.storage.CreateDirectory(ctx, e.dir); err != nil {
		logging.Warn("Failed to create thumbnail directory %s: %v", e.dir, err)
	}

	collections, packs, assets := cache.NonEmptyCounts()
	tracker.FoundCollections(collections, "Externalizing thumbnails")
	tracker.FoundPacks(packs, "Externalizing thumbnails")
	tracker.FoundAssets(assets, fmt.Sprintf("Externalizing thumbnails of %d assets", assets))

	// file path -> name of the asset that wrote it during this pass
	written := make(map[string]string)
	for v := range cache.All() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		e.externalize(ctx, cache, v, written, &stats)

		tracker.FinishAsset(v.Asset.Name)
		if v.LastAsset {
			tracker.FinishPack(v.Collection + "/" + v.Pack)
			if v.LastPack {
				tracker.FinishCollection(v.Collection)
			}
		}
	}

	tracker.Done("Thumbnails externalized")
	logging.Info("Thumbnail externalization complete: %d written, %d unsupported, %d failed, %d skipped, %d superseded",
		stats.Written, stats.Unsupported, stats.Failed, stats.Skipped, stats.Superseded)
	return stats, nil
}

func (e *Externalizer) externalize(ctx context.Context, cache *assetcache.Cache, v assetcache.Visit, written map[string]string, stats *Stats) {
	ref := v.Asset.ThumbnailRef()
	if !mediatypes.IsInline(ref) {
		stats.Skipped++
		return
	}

	where := v.Collection + "/" + v.Pack + "/" + v.Asset.Name

	data, ext, err := decodeInline(ref)
	if err != nil {
		logging.Info("Keeping thumbnail of %s inline: %v", where, err)
		metrics.ThumbnailExternalizationsTotal.WithLabelValues("unsupported").Inc()
		stats.Unsupported++
		return
	}

	if e.maxDimension > 0 {
		resized, newExt, err := FitImage(data, ext, e.maxDimension)
		if err != nil {
			logging.Debug("Not downscaling thumbnail of %s: %v", where, err)
		}
		data, ext = resized, newExt
	}

	rel := path.Join(e.dir, ThumbnailName(v.Collection, v.Pack, v.Asset.Name, ext))
	if prev, ok := written[rel]; ok {
		logging.Warn("Thumbnail file %s of %s is overwritten by %s", rel, prev, where)
	}
	if err := e.storage.WriteFile(ctx, rel, data); err != nil {
		logging.Warn("Failed to write thumbnail of %s: %v", where, err)
		metrics.ThumbnailExternalizationsTotal.WithLabelValues("failed").Inc()
		stats.Failed++
		return
	}
	written[rel] = where

	if !cache.SetThumbnail(v.Collection, v.Pack, v.Key, ref, rel) {
		logging.Debug("Thumbnail of %s changed while it was written, keeping the newer record", where)
		metrics.ThumbnailExternalizationsTotal.WithLabelValues("superseded").Inc()
		stats.Superseded++
		return
	}
	metrics.ThumbnailExternalizationsTotal.WithLabelValues("written").Inc()
	metrics.ThumbnailBytesWritten.Add(float64(len(data)))
	stats.Written++
}

// decodeInline returns the raw bytes and file extension of an inline
// thumbnail, or an error when the payload cannot be written as a file.
func decodeInline(ref string) ([]byte, string, error) {
	uri, ok := mediatypes.ParseDataURI(ref)
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI")
	}
	ext, ok := mediatypes.ExtensionFor(uri.MediaType)
	if !ok {
		return nil, "", fmt.Errorf("unsupported media type %q", uri.MediaType)
	}
	if !uri.Base64 {
		return nil, "", fmt.Errorf("payload is not base64 encoded")
	}

	payload := strings.TrimSpace(uri.Data)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, "", fmt.Errorf("invalid base64 payload: %w", err)
		}
	}
	return data, ext, nil
}
