// Package startup handles configuration loading, build information and the
// startup/shutdown log sections.
//
// # Configuration
//
// [LoadConfig] loads a .env file (if present) and then reads the environment:
//
//   - DATA_DIR: host data root holding modules/ (default: ./data)
//   - CACHE_SUBDIR: cache directory relative to DATA_DIR (default: asset-browser-cache)
//   - DATABASE_DIR: run history database directory (default: ./database)
//   - SELECTED_COLLECTIONS: comma separated collection names to index
//   - PACK_KIND: indexable pack kind (default: Scene)
//   - PORT, METRICS_PORT, METRICS_ENABLED: HTTP listeners (default: 8080, 9090, true)
//   - INDEX_ON_START, SHALLOW_INDEX: startup run (default: true, false)
//   - THUMBNAIL_MAX_DIMENSION: downscale externalized thumbnails, 0 disables
//   - SAVE_DEBOUNCE: delay for coalesced cache saves (default: 2001ms)
//   - LOG_LEVEL, LOG_STATIC_FILES, LOG_HEALTH_CHECKS: logging
//
// [ReadConfig] parses the same variables without logging sections or touching
// the filesystem; the CLI uses it.
//
// # Build Information
//
// Version, Commit and BuildTime are set with -ldflags:
//
//	go build -ldflags "-X asset-browser/internal/startup.Version=1.0.0"
package startup
