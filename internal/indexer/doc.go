// Package indexer fills the asset cache from a collection registry.
//
// A collection is one installed content module; its packs are line-delimited
// JSON files with one record per line. Only packs of the configured kind
// (Scene by default) are read. Each record is projected onto an
// assetcache.Asset (name, img, thumb) and merged under its content-derived
// key, so re-reading the same record overwrites rather than duplicates it.
// Template placeholder records and malformed lines are skipped.
//
// Three kinds of run exist:
//   - ShallowRegister: add a collection to the cache without reading packs
//   - ReindexOne: rebuild one collection, then schedule a debounced save
//   - ReindexAll: register or rebuild every selected collection, then save
//
// Runs push progress snapshots to an optional sink. Found counters grow as
// packs and records are discovered; finished counters follow one unit at a
// time. A full ReindexAll ends with the cache saved and a final snapshot
// marked finished.
//
// Only one run may use the cache at a time. A run requested while another is
// going fails with ErrIndexInProgress. Each run is recorded in the run
// history when a RunRecorder is set.
package indexer
