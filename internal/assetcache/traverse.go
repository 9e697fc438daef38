package assetcache

import "iter"

// Visit is one step of a full cache traversal.
type Visit struct {
	Collection string
	Pack       string
	Key        string
	Asset      Asset

	// LastPack reports that no later pack of the same collection yields
	// assets, so LastPack && LastAsset marks the end of the collection.
	LastPack bool
	// LastAsset reports the final asset of its pack.
	LastAsset bool
}

// All yields every asset in collection → pack → asset order. The sequence is
// built from a snapshot taken when iteration starts, so it is finite,
// restartable and unaffected by writes made while it is consumed. Packs
// without assets yield nothing.
func (c *Cache) All() iter.Seq[Visit] {
	return func(yield func(Visit) bool) {
		for _, v := range c.snapshot("") {
			if !yield(v) {
				return
			}
		}
	}
}

// CollectionAssets is All restricted to one collection.
func (c *Cache) CollectionAssets(collection string) iter.Seq[Visit] {
	return func(yield func(Visit) bool) {
		for _, v := range c.snapshot(collection) {
			if !yield(v) {
				return
			}
		}
	}
}

func (c *Cache) snapshot(only string) []Visit {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var visits []Visit
	for cp := c.collections.Oldest(); cp != nil; cp = cp.Next() {
		if only != "" && cp.Key != only {
			continue
		}

		var nonEmpty []string
		for pp := cp.Value.Packs.Oldest(); pp != nil; pp = pp.Next() {
			if pp.Value.Assets.Len() > 0 {
				nonEmpty = append(nonEmpty, pp.Key)
			}
		}

		for i, packName := range nonEmpty {
			p, _ := cp.Value.Pack(packName)
			for ap := p.Assets.Oldest(); ap != nil; ap = ap.Next() {
				visits = append(visits, Visit{
					Collection: cp.Key,
					Pack:       packName,
					Key:        ap.Key,
					Asset:      ap.Value.clone(),
					LastPack:   i == len(nonEmpty)-1,
					LastAsset:  ap.Next() == nil,
				})
			}
		}
	}
	return visits
}

// NonEmptyCounts returns how many collections and packs contain at least one
// asset, together with the asset total. These are the units a traversal
// completes.
func (c *Cache) NonEmptyCounts() (collections, packs, assets int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for cp := c.collections.Oldest(); cp != nil; cp = cp.Next() {
		collHasAssets := false
		for pp := cp.Value.Packs.Oldest(); pp != nil; pp = pp.Next() {
			if n := pp.Value.Assets.Len(); n > 0 {
				packs++
				assets += n
				collHasAssets = true
			}
		}
		if collHasAssets {
			collections++
		}
	}
	return collections, packs, assets
}
