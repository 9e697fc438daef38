package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"asset-browser/internal/assetcache"
	"asset-browser/internal/filesystem"
	"asset-browser/internal/progress"
)

// =============================================================================
// Helpers
// =============================================================================

// countingStorage wraps a storage and counts document writes.
type countingStorage struct {
	filesystem.Storage
	mu        sync.Mutex
	docWrites int
	failWrite bool
}

func (c *countingStorage) WriteFile(ctx context.Context, p string, data []byte) error {
	c.mu.Lock()
	fail := c.failWrite
	if strings.HasSuffix(p, DocumentName) {
		c.docWrites++
	}
	c.mu.Unlock()
	if fail {
		return errors.New("read-only filesystem")
	}
	return c.Storage.WriteFile(ctx, p, data)
}

func (c *countingStorage) writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.docWrites
}

type packView struct {
	Title  string
	Path   string
	Keys   []string
	Assets []assetcache.Asset
}

type collectionView struct {
	Name    string
	Title   string
	OnePack bool
	Packs   []packView
}

// view flattens a cache into comparable values in traversal order.
func view(t *testing.T, c *assetcache.Cache) []collectionView {
	t.Helper()
	var out []collectionView
	for _, name := range c.CollectionNames() {
		coll, ok := c.Collection(name)
		if !ok {
			t.Fatalf("collection %s listed but missing", name)
		}
		cv := collectionView{Name: name, Title: coll.Title, OnePack: coll.OnePack}
		for _, packName := range coll.PackNames() {
			p, _ := coll.Pack(packName)
			pv := packView{Title: p.Title, Path: p.Path, Keys: p.Keys()}
			for _, key := range p.Keys() {
				a, _ := p.Asset(key)
				pv.Assets = append(pv.Assets, a)
			}
			cv.Packs = append(cv.Packs, pv)
		}
		out = append(out, cv)
	}
	return out
}

var onePixelPNG = mustDecode("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg==")

func mustDecode(s string) []byte {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return data
}

func inlinePNG() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(onePixelPNG)
}

func putAsset(c *assetcache.Cache, collection, pack string, a assetcache.Asset) {
	c.EnsurePack(collection, pack, strings.ToUpper(pack), "modules/"+collection+"/"+pack+".db")
	c.PutAsset(collection, pack, a.Key(), a)
}

func sampleCache() *assetcache.Cache {
	c := assetcache.New()
	c.EnsureCollection("mod1", "Module One")
	putAsset(c, "mod1", "scenes", assetcache.Asset{
		Name:      "A",
		Image:     assetcache.Ref("maps/a.webp"),
		Thumbnail: assetcache.Ref(inlinePNG()),
	})
	putAsset(c, "mod1", "scenes", assetcache.Asset{Name: "B"})
	putAsset(c, "mod1", "extra", assetcache.Asset{
		Name:      "C",
		Thumbnail: assetcache.Ref("modules/mod1/c-thumb.png"),
	})
	c.EnsureCollection("mod0", "Module Zero")
	c.EnsurePack("mod0", "empty", "Empty", "modules/mod0/empty.db")
	c.EnsureCollection("shallow", "Shallow Only")
	return c
}

func newTestStore(t *testing.T, cache *assetcache.Cache) (*Store, string) {
	t.Helper()
	root := t.TempDir()
	return New(cache, filesystem.NewOSStorage(root), "asset-browser-cache"), root
}

// =============================================================================
// Save / Load
// =============================================================================

func TestSaveLoadRoundTrip(t *testing.T) {
	original := sampleCache()
	want := view(t, original)
	// The inline thumbnail comes back as a path.
	want[0].Packs[0].Assets[0].Thumbnail = assetcache.Ref("asset-browser-cache/thumbs/mod1-scenes-a.png")

	s, root := newTestStore(t, original)
	ctx := context.Background()

	if err := s.Save(ctx, nil); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	restored := assetcache.New()
	restored.PutAsset("stale", "p", "k", assetcache.Asset{Name: "stale"})
	loader := New(restored, filesystem.NewOSStorage(root), "asset-browser-cache")
	if !loader.Load(ctx) {
		t.Fatal("Load() = false, want true")
	}

	if diff := cmp.Diff(want, view(t, restored)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	thumb, err := os.ReadFile(filepath.Join(root, "asset-browser-cache", "thumbs", "mod1-scenes-a.png"))
	if err != nil {
		t.Fatalf("thumbnail file missing: %v", err)
	}
	if !bytes.Equal(thumb, onePixelPNG) {
		t.Error("thumbnail file does not hold the decoded payload")
	}
}

func TestSaveWritesOrderedIndentedDocument(t *testing.T) {
	s, root := newTestStore(t, sampleCache())

	if err := s.Save(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(root, "asset-browser-cache", DocumentName))
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)

	if !strings.HasPrefix(doc, "{\n  \"mod1\": {\n    \"title\": \"Module One\",\n    \"onePack\": false,") {
		t.Errorf("unexpected document head:\n%s", doc[:min(len(doc), 200)])
	}
	if strings.Index(doc, `"mod0"`) > strings.Index(doc, `"shallow"`) {
		t.Error("collections not written in insertion order")
	}
	if strings.Contains(doc, "data:image") {
		t.Error("saved document still holds an inline thumbnail")
	}
}

func TestSaveProgress(t *testing.T) {
	s, _ := newTestStore(t, sampleCache())

	var snaps []progress.Snapshot
	if err := s.Save(context.Background(), func(p progress.Snapshot) { snaps = append(snaps, p) }); err != nil {
		t.Fatal(err)
	}

	if len(snaps) < 2 {
		t.Fatalf("expected several snapshots, got %d", len(snaps))
	}
	last := snaps[len(snaps)-1]
	if last.Message != "Cache saved" || !last.Finished {
		t.Errorf("final snapshot = %+v", last)
	}
	if last.Assets.Found != 3 || last.Assets.Finished != 3 {
		t.Errorf("final asset counter = %+v, want 3/3", last.Assets)
	}
}

func TestSaveReportsWriteFailure(t *testing.T) {
	cache := sampleCache()
	storage := &countingStorage{Storage: filesystem.NewOSStorage(t.TempDir()), failWrite: true}
	s := New(cache, storage, "cache")

	if err := s.Save(context.Background(), nil); err == nil {
		t.Fatal("Save() should fail when the document cannot be written")
	}

	// Thumbnails that could not be written stay inline.
	a, _ := cache.Asset("mod1", "scenes", assetcache.AssetKey("A", assetcache.Ref("maps/a.webp")))
	if !strings.HasPrefix(a.ThumbnailRef(), "data:") {
		t.Errorf("thumbnail = %q, want inline", a.ThumbnailRef())
	}
}

func TestLoadMissingDocumentKeepsCache(t *testing.T) {
	cache := sampleCache()
	want := view(t, cache)
	s, _ := newTestStore(t, cache)

	if s.Load(context.Background()) {
		t.Error("Load() = true with no document")
	}
	if diff := cmp.Diff(want, view(t, cache)); diff != "" {
		t.Errorf("cache changed (-want +got):\n%s", diff)
	}
}

func TestLoadCorruptDocumentKeepsCache(t *testing.T) {
	cache := sampleCache()
	want := view(t, cache)
	s, root := newTestStore(t, cache)

	dir := filepath.Join(root, "asset-browser-cache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	for _, content := range []string{"{broken", "[1,2,3]", `{"x": 5}`} {
		if err := os.WriteFile(filepath.Join(dir, DocumentName), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if s.Load(context.Background()) {
			t.Errorf("Load() = true for %q", content)
		}
		if diff := cmp.Diff(want, view(t, cache)); diff != "" {
			t.Errorf("cache changed after loading %q (-want +got):\n%s", content, diff)
		}
	}
}

// =============================================================================
// Scheduled saves
// =============================================================================

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestScheduleSaveCoalesces(t *testing.T) {
	storage := &countingStorage{Storage: filesystem.NewOSStorage(t.TempDir())}
	s := New(sampleCache(), storage, "cache")
	s.SetSaveDelay(30 * time.Millisecond)
	defer s.Close()

	for i := 0; i < 5; i++ {
		s.ScheduleSave()
		time.Sleep(5 * time.Millisecond)
	}

	waitFor(t, func() bool { return storage.writes() >= 1 })
	time.Sleep(60 * time.Millisecond)

	if got := storage.writes(); got != 1 {
		t.Errorf("document written %d times, want 1", got)
	}
	if s.SavePending() {
		t.Error("no save should be pending after it ran")
	}
}

func TestFlushRunsPendingSave(t *testing.T) {
	storage := &countingStorage{Storage: filesystem.NewOSStorage(t.TempDir())}
	s := New(sampleCache(), storage, "cache")
	s.SetSaveDelay(time.Hour)
	defer s.Close()

	if err := s.Flush(context.Background()); err != nil || storage.writes() != 0 {
		t.Fatalf("Flush() with nothing pending wrote %d times, err %v", storage.writes(), err)
	}

	s.ScheduleSave()
	if !s.SavePending() {
		t.Fatal("save should be pending")
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if storage.writes() != 1 {
		t.Errorf("document written %d times, want 1", storage.writes())
	}
	if s.SavePending() {
		t.Error("Flush should clear the pending save")
	}
}

func TestCloseCancelsScheduledSave(t *testing.T) {
	storage := &countingStorage{Storage: filesystem.NewOSStorage(t.TempDir())}
	s := New(sampleCache(), storage, "cache")
	s.SetSaveDelay(20 * time.Millisecond)

	s.ScheduleSave()
	s.Close()
	s.ScheduleSave()

	time.Sleep(80 * time.Millisecond)
	if storage.writes() != 0 {
		t.Errorf("document written %d times after Close, want 0", storage.writes())
	}
}
