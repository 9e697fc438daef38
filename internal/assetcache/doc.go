// Package assetcache holds the in-memory index of browsable assets.
//
// The cache is a three-level map:
//
//	collection name → Collection{Title, OnePack, Packs}
//	pack name       → Pack{Title, Path, Assets}
//	asset key       → Asset{Name, Image, Thumbnail}
//
// Every level keeps insertion order, both for traversal and for the JSON
// document written by the store package. Asset keys come from AssetKey and
// depend only on the asset's content, so re-indexing a pack overwrites its
// existing entries instead of duplicating them.
package assetcache
