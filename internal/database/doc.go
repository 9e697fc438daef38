// Package database keeps a SQLite history of indexing runs.
//
// Every reindex (all selected collections, a single collection, or a
// shallow registration) is recorded with its found/finished counters and
// any error, so the HTTP API can show what the indexer did and when. A
// small metadata table holds the time of the last successful full index.
//
// The asset cache itself is not stored here; it lives in the JSON document
// written by the store package. The database uses WAL mode and creates its
// schema on open.
package database
