// Command asset-browser serves an incremental cache of the scene assets found
// in installed modules.
//
// # Application Lifecycle
//
//  1. Configuration: .env and environment variables, see package startup
//  2. Memory: GOMEMLIMIT from MEMORY_LIMIT when running in a container
//  3. Run history: sqlite database under DATABASE_DIR
//  4. Cache: the saved cache document is loaded from DATA_DIR/CACHE_SUBDIR
//  5. Indexing: a full (or shallow) reindex of SELECTED_COLLECTIONS starts
//     in the background when INDEX_ON_START is set
//  6. HTTP: the JSON API on PORT and Prometheus metrics on METRICS_PORT
//  7. Shutdown: on SIGINT/SIGTERM the servers stop, a pending debounced
//     cache save is flushed and the database is closed
//
// # HTTP Servers
//
//  1. Main server (default port 8080): health probes, /version, the /api
//     routes of package handlers and the externalized thumbnails below
//     /<CACHE_SUBDIR>/
//  2. Metrics server (default port 9090, optional): /metrics and /health
package main
