package assetcache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Pack is a sub-collection: one scene pack inside a collection.
type Pack struct {
	Title  string                                 `json:"title"`
	Path   string                                 `json:"path"`
	Assets *orderedmap.OrderedMap[string, *Asset] `json:"assets"`
}

// Collection is a top-level entry, typically one installed module.
// OnePack is derived from the number of packs and is never set directly.
type Collection struct {
	Title   string                                `json:"title"`
	OnePack bool                                  `json:"onePack"`
	Packs   *orderedmap.OrderedMap[string, *Pack] `json:"packs"`
}

func newPack(title, path string) *Pack {
	return &Pack{
		Title:  title,
		Path:   path,
		Assets: orderedmap.New[string, *Asset](),
	}
}

func newCollection(title string) *Collection {
	return &Collection{
		Title: title,
		Packs: orderedmap.New[string, *Pack](),
	}
}

// Asset returns a copy of the asset stored under key.
func (p *Pack) Asset(key string) (Asset, bool) {
	a, ok := p.Assets.Get(key)
	if !ok || a == nil {
		return Asset{}, false
	}
	return a.clone(), true
}

// AssetCount returns the number of assets in the pack.
func (p *Pack) AssetCount() int {
	return p.Assets.Len()
}

// Keys returns the asset keys in insertion order.
func (p *Pack) Keys() []string {
	keys := make([]string, 0, p.Assets.Len())
	for pair := p.Assets.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (p *Pack) clone() *Pack {
	out := newPack(p.Title, p.Path)
	for pair := p.Assets.Oldest(); pair != nil; pair = pair.Next() {
		a := pair.Value.clone()
		out.Assets.Set(pair.Key, &a)
	}
	return out
}

// Pack returns the named pack.
func (c *Collection) Pack(name string) (*Pack, bool) {
	p, ok := c.Packs.Get(name)
	return p, ok && p != nil
}

// PackNames returns pack names in insertion order.
func (c *Collection) PackNames() []string {
	names := make([]string, 0, c.Packs.Len())
	for pair := c.Packs.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// PackCount returns the number of packs in the collection.
func (c *Collection) PackCount() int {
	return c.Packs.Len()
}

// AssetCount returns the number of assets across all packs.
func (c *Collection) AssetCount() int {
	n := 0
	for pair := c.Packs.Oldest(); pair != nil; pair = pair.Next() {
		n += pair.Value.AssetCount()
	}
	return n
}

func (c *Collection) recount() {
	c.OnePack = c.Packs.Len() == 1
}

func (c *Collection) clone() *Collection {
	out := newCollection(c.Title)
	for pair := c.Packs.Oldest(); pair != nil; pair = pair.Next() {
		out.Packs.Set(pair.Key, pair.Value.clone())
	}
	out.recount()
	return out
}

// normalize repairs structure decoded from JSON: missing maps, null entries,
// and a stale OnePack flag.
func (c *Collection) normalize() {
	if c.Packs == nil {
		c.Packs = orderedmap.New[string, *Pack]()
	}
	for pair := c.Packs.Oldest(); pair != nil; {
		next := pair.Next()
		if pair.Value == nil {
			c.Packs.Delete(pair.Key)
		} else if pair.Value.Assets == nil {
			pair.Value.Assets = orderedmap.New[string, *Asset]()
		} else {
			for a := pair.Value.Assets.Oldest(); a != nil; {
				nextAsset := a.Next()
				if a.Value == nil {
					pair.Value.Assets.Delete(a.Key)
				}
				a = nextAsset
			}
		}
		pair = next
	}
	c.recount()
}

// Cache is the three-level collection → pack → asset map.
//
// A single indexing run is the only writer. The mutex lets HTTP readers
// observe the cache while that run is in progress; every accessor returns a
// detached copy so callers never alias live state.
type Cache struct {
	mu          sync.RWMutex
	collections *orderedmap.OrderedMap[string, *Collection]
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{collections: orderedmap.New[string, *Collection]()}
}

// Collection returns a copy of the named collection.
func (c *Cache) Collection(name string) (*Collection, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	coll, ok := c.collections.Get(name)
	if !ok {
		return nil, false
	}
	return coll.clone(), true
}

// EnsureCollection returns the named collection, creating it with title and
// no packs when absent. An existing collection is returned unchanged.
func (c *Cache) EnsureCollection(name, title string) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureCollection(name, title).clone()
}

func (c *Cache) ensureCollection(name, title string) *Collection {
	if coll, ok := c.collections.Get(name); ok {
		return coll
	}
	coll := newCollection(title)
	c.collections.Set(name, coll)
	return coll
}

// ResetCollection drops every pack of the named collection and sets its
// title, creating the collection if needed. Its position in the cache is
// kept.
func (c *Cache) ResetCollection(name, title string) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()

	coll := newCollection(title)
	c.collections.Set(name, coll)
	return coll.clone()
}

// Pack returns a copy of a pack.
func (c *Cache) Pack(collection, pack string) (*Pack, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	coll, ok := c.collections.Get(collection)
	if !ok {
		return nil, false
	}
	p, ok := coll.Pack(pack)
	if !ok {
		return nil, false
	}
	return p.clone(), true
}

// EnsurePack returns the named pack, creating it with title and path when
// absent. The collection is created with its name as title if needed. The
// path of an existing pack is never changed.
func (c *Cache) EnsurePack(collection, pack, title, path string) *Pack {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensurePack(collection, pack, title, path).clone()
}

func (c *Cache) ensurePack(collection, pack, title, path string) *Pack {
	coll := c.ensureCollection(collection, collection)
	if p, ok := coll.Pack(pack); ok {
		return p
	}
	p := newPack(title, path)
	coll.Packs.Set(pack, p)
	coll.recount()
	return p
}

// RemovePack deletes a pack from a collection.
func (c *Cache) RemovePack(collection, pack string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	coll, ok := c.collections.Get(collection)
	if !ok {
		return false
	}
	_, ok = coll.Packs.Delete(pack)
	coll.recount()
	return ok
}

// Asset returns a copy of an asset.
func (c *Cache) Asset(collection, pack, key string) (Asset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	coll, ok := c.collections.Get(collection)
	if !ok {
		return Asset{}, false
	}
	p, ok := coll.Pack(pack)
	if !ok {
		return Asset{}, false
	}
	return p.Asset(key)
}

// PutAsset stores asset under key, overwriting any existing record. Missing
// parents are created with their names as titles.
func (c *Cache) PutAsset(collection, pack, key string, asset Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.ensurePack(collection, pack, pack, "")
	stored := asset.clone()
	p.Assets.Set(key, &stored)
}

// SetThumbnail rewrites the thumbnail reference of an existing asset, but
// only while that reference still equals expected. It reports false when the
// asset is gone or its thumbnail was replaced in the meantime.
func (c *Cache) SetThumbnail(collection, pack, key, expected, ref string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	coll, ok := c.collections.Get(collection)
	if !ok {
		return false
	}
	p, ok := coll.Pack(pack)
	if !ok {
		return false
	}
	a, ok := p.Assets.Get(key)
	if !ok || a == nil || a.ThumbnailRef() != expected {
		return false
	}
	updated := a.clone()
	updated.Thumbnail = &ref
	p.Assets.Set(key, &updated)
	return true
}

// Clear removes every collection.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collections = orderedmap.New[string, *Collection]()
}

// Replace swaps the whole content of c for a copy of other.
func (c *Cache) Replace(other *Cache) {
	if other == c {
		return
	}
	fresh := other.cloneRoot()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.collections = fresh
}

func (c *Cache) cloneRoot() *orderedmap.OrderedMap[string, *Collection] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := orderedmap.New[string, *Collection](c.collections.Len())
	for pair := c.collections.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value.clone())
	}
	return out
}

// CollectionNames returns collection names in insertion order.
func (c *Cache) CollectionNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, c.collections.Len())
	for pair := c.collections.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// CollectionCount returns the number of collections.
func (c *Cache) CollectionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collections.Len()
}

// PackCount returns the number of packs across all collections.
func (c *Cache) PackCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for pair := c.collections.Oldest(); pair != nil; pair = pair.Next() {
		n += pair.Value.PackCount()
	}
	return n
}

// AssetCount returns the number of assets across the whole cache.
func (c *Cache) AssetCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for pair := c.collections.Oldest(); pair != nil; pair = pair.Next() {
		n += pair.Value.AssetCount()
	}
	return n
}

// MarshalJSON encodes the cache as the persisted document: an object keyed by
// collection name, in insertion order.
func (c *Cache) MarshalJSON() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return json.Marshal(c.collections)
}

// UnmarshalJSON replaces the cache content with the decoded document.
func (c *Cache) UnmarshalJSON(data []byte) error {
	decoded := orderedmap.New[string, *Collection]()
	trimmed := bytes.TrimSpace(data)
	if !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, decoded); err != nil {
			return fmt.Errorf("decode cache document: %w", err)
		}
	}

	for pair := decoded.Oldest(); pair != nil; {
		next := pair.Next()
		if pair.Value == nil {
			decoded.Delete(pair.Key)
		} else {
			pair.Value.normalize()
		}
		pair = next
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.collections = decoded
	return nil
}
