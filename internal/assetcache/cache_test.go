package assetcache

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collectVisits(c *Cache) []Visit {
	var out []Visit
	for v := range c.All() {
		out = append(out, v)
	}
	return out
}

func TestEnsureCollectionIdempotent(t *testing.T) {
	c := New()

	first := c.EnsureCollection("mod1", "Module One")
	if first.Title != "Module One" || first.PackCount() != 0 || first.OnePack {
		t.Fatalf("unexpected new collection: %+v", first)
	}

	c.EnsurePack("mod1", "scenes", "Scenes", "packs/scenes.db")

	again := c.EnsureCollection("mod1", "Other Title")
	if again.Title != "Module One" {
		t.Errorf("existing title should be kept, got %q", again.Title)
	}
	if again.PackCount() != 1 {
		t.Errorf("existing packs should be kept, got %d", again.PackCount())
	}
	if c.CollectionCount() != 1 {
		t.Errorf("expected 1 collection, got %d", c.CollectionCount())
	}
}

func TestEnsurePackKeepsOriginalPath(t *testing.T) {
	c := New()
	c.EnsurePack("mod1", "scenes", "Scenes", "modules/mod1/packs/scenes.db")
	p := c.EnsurePack("mod1", "scenes", "Renamed", "somewhere/else.db")

	if p.Path != "modules/mod1/packs/scenes.db" {
		t.Errorf("path must stay as first created, got %q", p.Path)
	}
	if p.Title != "Scenes" {
		t.Errorf("title must stay as first created, got %q", p.Title)
	}

	coll, ok := c.Collection("mod1")
	if !ok {
		t.Fatal("collection should be created implicitly")
	}
	if coll.Title != "mod1" {
		t.Errorf("implicit collection title should default to its name, got %q", coll.Title)
	}
}

func TestPutAssetLastWriteWins(t *testing.T) {
	c := New()
	keys := []string{"a", "b", "a", "c", "b", "a"}

	for i, key := range keys {
		c.PutAsset("mod1", "scenes", key, Asset{Name: fmt.Sprintf("%s-%d", key, i)})
	}

	p, ok := c.Pack("mod1", "scenes")
	if !ok {
		t.Fatal("pack missing")
	}
	if p.AssetCount() != 3 {
		t.Errorf("asset count should equal distinct keys (3), got %d", p.AssetCount())
	}

	want := map[string]string{"a": "a-5", "b": "b-4", "c": "c-3"}
	for key, name := range want {
		got, ok := c.Asset("mod1", "scenes", key)
		if !ok {
			t.Fatalf("asset %q missing", key)
		}
		if got.Name != name {
			t.Errorf("asset %q: want %q, got %q", key, name, got.Name)
		}
	}

	if diff := cmp.Diff([]string{"a", "b", "c"}, p.Keys()); diff != "" {
		t.Errorf("keys keep first-insertion order (-want +got):\n%s", diff)
	}
}

func TestOnePackTracksPackCount(t *testing.T) {
	c := New()
	steps := []struct {
		op   string
		pack string
		want bool
	}{
		{"add", "a", true},
		{"add", "b", false},
		{"add", "a", false},
		{"remove", "a", true},
		{"remove", "b", false},
		{"add", "c", true},
		{"add", "d", false},
		{"remove", "missing", false},
		{"remove", "d", true},
	}

	c.EnsureCollection("mod1", "Mod")
	for i, step := range steps {
		switch step.op {
		case "add":
			c.EnsurePack("mod1", step.pack, step.pack, "")
		case "remove":
			c.RemovePack("mod1", step.pack)
		}

		coll, _ := c.Collection("mod1")
		if coll.OnePack != step.want {
			t.Errorf("step %d (%s %s): OnePack = %v, want %v", i, step.op, step.pack, coll.OnePack, step.want)
		}
		if coll.OnePack != (coll.PackCount() == 1) {
			t.Errorf("step %d: OnePack drifted from pack count %d", i, coll.PackCount())
		}
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := New()
	c.PutAsset("mod1", "scenes", "k", Asset{Name: "Original"})

	p, _ := c.Pack("mod1", "scenes")
	p.Assets.Set("k", &Asset{Name: "Mutated"})
	p.Title = "Mutated"

	got, _ := c.Asset("mod1", "scenes", "k")
	if got.Name != "Original" {
		t.Errorf("mutating a returned pack must not change the cache, got %q", got.Name)
	}
	stored, _ := c.Pack("mod1", "scenes")
	if stored.Title != "scenes" {
		t.Errorf("pack title changed through copy: %q", stored.Title)
	}
}

func TestAssetReferencesAreNotShared(t *testing.T) {
	c := New()
	thumb := "data:image/png;base64,AA=="
	input := Asset{Name: "Cave", Image: Ref("maps/cave.webp"), Thumbnail: &thumb}
	c.PutAsset("mod1", "scenes", "k", input)

	thumb = "changed by caller"
	*input.Image = "changed by caller"

	a, _ := c.Asset("mod1", "scenes", "k")
	*a.Thumbnail = "mutated"

	p, _ := c.Pack("mod1", "scenes")
	fromPack, _ := p.Asset("k")
	*fromPack.Image = "mutated"

	coll, _ := c.Collection("mod1")
	collPack, _ := coll.Pack("scenes")
	fromCollection, _ := collPack.Asset("k")
	*fromCollection.Thumbnail = "mutated"

	for v := range c.All() {
		*v.Asset.Image = "mutated"
	}

	want := Asset{Name: "Cave", Image: Ref("maps/cave.webp"), Thumbnail: Ref("data:image/png;base64,AA==")}
	got, _ := c.Asset("mod1", "scenes", "k")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cache changed through a shared reference (-want +got):\n%s", diff)
	}
}

func TestResetCollectionKeepsPosition(t *testing.T) {
	c := New()
	c.PutAsset("a", "p", "1", Asset{Name: "x"})
	c.PutAsset("b", "p", "1", Asset{Name: "y"})
	c.PutAsset("c", "p", "1", Asset{Name: "z"})

	reset := c.ResetCollection("b", "Bee")
	if reset.PackCount() != 0 || reset.Title != "Bee" {
		t.Errorf("unexpected reset collection: %+v", reset)
	}

	if diff := cmp.Diff([]string{"a", "b", "c"}, c.CollectionNames()); diff != "" {
		t.Errorf("order changed (-want +got):\n%s", diff)
	}
	if c.AssetCount() != 2 {
		t.Errorf("other collections must be untouched, asset count = %d", c.AssetCount())
	}
}

func TestCounts(t *testing.T) {
	c := New()
	c.PutAsset("modA", "p1", "1", Asset{Name: "1"})
	c.PutAsset("modA", "p1", "2", Asset{Name: "2"})
	c.PutAsset("modA", "p2", "3", Asset{Name: "3"})
	c.EnsurePack("modB", "empty", "Empty", "")
	c.EnsureCollection("modC", "C")

	if got := c.CollectionCount(); got != 3 {
		t.Errorf("CollectionCount = %d, want 3", got)
	}
	if got := c.PackCount(); got != 3 {
		t.Errorf("PackCount = %d, want 3", got)
	}
	if got := c.AssetCount(); got != 3 {
		t.Errorf("AssetCount = %d, want 3", got)
	}

	colls, packs, assets := c.NonEmptyCounts()
	if colls != 1 || packs != 2 || assets != 3 {
		t.Errorf("NonEmptyCounts = %d,%d,%d; want 1,2,3", colls, packs, assets)
	}

	c.Clear()
	if c.CollectionCount() != 0 || c.AssetCount() != 0 {
		t.Error("Clear should empty the cache")
	}
}

func TestTraversalFlags(t *testing.T) {
	c := New()
	c.PutAsset("modA", "p1", "1", Asset{Name: "1"})
	c.PutAsset("modA", "p1", "2", Asset{Name: "2"})
	c.EnsurePack("modA", "empty", "Empty", "")
	c.PutAsset("modA", "p2", "3", Asset{Name: "3"})
	c.EnsurePack("modA", "trailing-empty", "Empty", "")
	c.PutAsset("modB", "q", "4", Asset{Name: "4"})

	type flag struct {
		Key       string
		LastPack  bool
		LastAsset bool
	}
	var got []flag
	for _, v := range collectVisits(c) {
		got = append(got, flag{v.Key, v.LastPack, v.LastAsset})
	}

	want := []flag{
		{"1", false, false},
		{"2", false, true},
		{"3", true, true},
		{"4", true, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("traversal flags (-want +got):\n%s", diff)
	}
}

func TestTraversalIsSnapshot(t *testing.T) {
	c := New()
	c.PutAsset("mod", "p", "1", Asset{Name: "1"})
	c.PutAsset("mod", "p", "2", Asset{Name: "2"})

	count := 0
	for v := range c.All() {
		count++
		c.PutAsset("mod", "p", v.Key+"-new", Asset{Name: "added"})
	}
	if count != 2 {
		t.Errorf("traversal must not observe writes made while iterating, saw %d", count)
	}

	// restartable: a second pass sees the new state
	if n := len(collectVisits(c)); n != 4 {
		t.Errorf("second traversal should see 4 assets, got %d", n)
	}

	seen := 0
	for range c.All() {
		seen++
		break
	}
	if seen != 1 {
		t.Errorf("early break should stop iteration, got %d", seen)
	}
}

func TestCollectionAssets(t *testing.T) {
	c := New()
	c.PutAsset("a", "p", "1", Asset{Name: "1"})
	c.PutAsset("b", "p", "2", Asset{Name: "2"})

	var keys []string
	for v := range c.CollectionAssets("b") {
		keys = append(keys, v.Key)
	}
	if !slices.Equal(keys, []string{"2"}) {
		t.Errorf("expected only collection b, got %v", keys)
	}
}

func TestJSONDocumentShape(t *testing.T) {
	c := New()
	c.EnsureCollection("zeta", "Zeta")
	c.EnsurePack("zeta", "scenes", "Scenes", "modules/zeta/packs/scenes.db")
	c.PutAsset("zeta", "scenes", "k1", Asset{Name: "Cave", Image: Ref("maps/cave.webp"), Thumbnail: Ref("thumbs/cave.png")})
	c.PutAsset("zeta", "scenes", "k2", Asset{Name: "Bare"})
	c.EnsureCollection("alpha", "Alpha")

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"zeta":{"title":"Zeta","onePack":true,"packs":{"scenes":{"title":"Scenes","path":"modules/zeta/packs/scenes.db",` +
		`"assets":{"k1":{"name":"Cave","img":"maps/cave.webp","thumb":"thumbs/cave.png"},"k2":{"name":"Bare"}}}}},` +
		`"alpha":{"title":"Alpha","onePack":false,"packs":{}}}`
	if string(data) != want {
		t.Errorf("document mismatch\nwant %s\ngot  %s", want, data)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	c := New()
	c.EnsurePack("mod2", "b", "B", "path/b")
	c.EnsurePack("mod2", "a", "A", "path/a")
	c.PutAsset("mod2", "b", "x", Asset{Name: "X", Image: Ref("x.webp")})
	c.PutAsset("mod1", "only", "y", Asset{Name: "Y", Thumbnail: Ref("data:image/png;base64,AAAA")})

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	restored := New()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if diff := cmp.Diff(collectVisits(c), collectVisits(restored)); diff != "" {
		t.Errorf("round trip changed assets (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(c.CollectionNames(), restored.CollectionNames()); diff != "" {
		t.Errorf("round trip changed order (-want +got):\n%s", diff)
	}
	coll, _ := restored.Collection("mod2")
	if diff := cmp.Diff([]string{"b", "a"}, coll.PackNames()); diff != "" {
		t.Errorf("pack order (-want +got):\n%s", diff)
	}
	p, _ := restored.Pack("mod2", "a")
	if p.Path != "path/a" {
		t.Errorf("pack path lost: %q", p.Path)
	}
}

func TestUnmarshalNormalizes(t *testing.T) {
	doc := `{
		"mod": {"title": "Mod", "onePack": false, "packs": {"only": {"title": "Only", "path": "p", "assets": null}}},
		"bare": {"title": "Bare"},
		"gone": null
	}`

	c := New()
	if err := json.Unmarshal([]byte(doc), c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	coll, ok := c.Collection("mod")
	if !ok {
		t.Fatal("mod missing")
	}
	if !coll.OnePack {
		t.Error("OnePack must be recomputed from the decoded packs")
	}
	c.PutAsset("mod", "only", "k", Asset{Name: "N"})
	if c.AssetCount() != 1 {
		t.Error("decoded pack with null assets should accept new assets")
	}

	bare, ok := c.Collection("bare")
	if !ok || bare.PackCount() != 0 {
		t.Error("collection without packs should decode to an empty pack map")
	}
	if _, ok := c.Collection("gone"); ok {
		t.Error("null collection entries should be dropped")
	}
}

func TestUnmarshalErrorLeavesCache(t *testing.T) {
	c := New()
	c.PutAsset("mod", "p", "k", Asset{Name: "keep"})

	if err := json.Unmarshal([]byte(`{"mod": [1,2]}`), c); err == nil {
		t.Fatal("expected decode error")
	}
	if _, ok := c.Asset("mod", "p", "k"); !ok {
		t.Error("failed decode must not modify the cache")
	}
}

func TestReplace(t *testing.T) {
	src := New()
	src.PutAsset("new", "p", "k", Asset{Name: "N"})

	dst := New()
	dst.PutAsset("old", "p", "k", Asset{Name: "O"})
	dst.Replace(src)

	if _, ok := dst.Collection("old"); ok {
		t.Error("Replace should drop previous content")
	}
	if _, ok := dst.Asset("new", "p", "k"); !ok {
		t.Error("Replace should copy new content")
	}

	src.PutAsset("new", "p", "k2", Asset{Name: "later"})
	if dst.AssetCount() != 1 {
		t.Error("Replace must copy, not alias")
	}

	dst.Replace(dst)
	if dst.AssetCount() != 1 {
		t.Error("self replace should be a no-op")
	}
}

func TestSetThumbnail(t *testing.T) {
	inline := "data:image/png;base64,AA=="
	c := New()
	c.PutAsset("mod", "p", "k", Asset{Name: "N", Thumbnail: Ref(inline)})

	if !c.SetThumbnail("mod", "p", "k", inline, "cache/thumbs/mod-p-n.png") {
		t.Fatal("SetThumbnail should succeed for an existing asset")
	}
	got, _ := c.Asset("mod", "p", "k")
	if got.ThumbnailRef() != "cache/thumbs/mod-p-n.png" {
		t.Errorf("thumbnail not rewritten: %q", got.ThumbnailRef())
	}
	if c.SetThumbnail("mod", "p", "missing", inline, "x") {
		t.Error("SetThumbnail should report missing assets")
	}
}

func TestSetThumbnailKeepsReplacedRecord(t *testing.T) {
	c := New()
	c.PutAsset("mod", "p", "k", Asset{Name: "N", Thumbnail: Ref("data:image/png;base64,AAAA")})
	c.PutAsset("mod", "p", "k", Asset{Name: "N", Thumbnail: Ref("data:image/png;base64,BBBB")})

	if c.SetThumbnail("mod", "p", "k", "data:image/png;base64,AAAA", "cache/thumbs/mod-p-n.png") {
		t.Fatal("SetThumbnail must not overwrite a thumbnail that changed since it was read")
	}
	got, _ := c.Asset("mod", "p", "k")
	if got.ThumbnailRef() != "data:image/png;base64,BBBB" {
		t.Errorf("newer thumbnail lost: %q", got.ThumbnailRef())
	}
}

func TestAssetKey(t *testing.T) {
	a := AssetKey("Cave", Ref("maps/cave.webp"))
	b := AssetKey("Cave", Ref("maps/cave.webp"))
	if a != b {
		t.Error("AssetKey must be deterministic")
	}
	if len(a) != 32 || strings.Trim(a, "0123456789abcdef") != "" {
		t.Errorf("expected 32 hex chars, got %q", a)
	}

	distinct := map[string]bool{a: true}
	distinct[AssetKey("Cave", Ref("maps/other.webp"))] = true
	distinct[AssetKey("Cav", Ref("emaps/cave.webp"))] = true
	distinct[AssetKey("Cave", nil)] = true
	if len(distinct) != 4 {
		t.Error("different name/image pairs should yield different keys")
	}

	asset := Asset{Name: "Cave", Image: Ref("maps/cave.webp")}
	if asset.Key() != a {
		t.Error("Asset.Key should match AssetKey")
	}
}
