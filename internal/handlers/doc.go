// Package handlers provides the JSON HTTP API of the asset browser.
//
// It includes handlers for:
//   - Browsing the cache by collection, pack and asset
//   - Starting full, single-collection and shallow reindexes
//   - Indexing progress and run history
//   - Saving and clearing the persisted cache
//   - Health checks, version and stats
package handlers
