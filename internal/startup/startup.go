package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"asset-browser/internal/logging"
	"asset-browser/internal/source"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Defaults for values not set in the environment.
const (
	DefaultDataDir      = "./data"
	DefaultCacheSubdir  = "asset-browser-cache"
	DefaultDatabaseDir  = "./database"
	DefaultSaveDebounce = 2001 * time.Millisecond
	databaseFile        = "runs.db"
)

// Config holds all application configuration
type Config struct {
	// DataDir is the host data root. It holds modules/ and is the storage
	// root for the cache.
	DataDir string
	// CacheSubdir is the cache directory relative to DataDir.
	CacheSubdir string
	DatabaseDir string

	SelectedCollections []string
	PackKind            string

	Port           string
	MetricsPort    string
	MetricsEnabled bool

	IndexOnStart bool
	ShallowIndex bool

	ThumbnailMaxDimension int
	SaveDebounce          time.Duration

	LogStaticFiles  bool
	LogHealthChecks bool

	// Derived paths
	DatabasePath string
	CacheDir     string
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding ones already set. A missing file is not an error.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if os.IsNotExist(err) {
				logging.Debug("No %s file, using environment only", f)
				continue
			}
			logging.Warn("Failed to load %s: %v", f, err)
		}
	}
}

// ReadConfig builds the configuration from environment variables without
// touching the filesystem. Invalid values fall back to their defaults with
// a warning.
func ReadConfig() (*Config, error) {
	dataDir, err := filepath.Abs(getEnv("DATA_DIR", DefaultDataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	databaseDir, err := filepath.Abs(getEnv("DATABASE_DIR", DefaultDatabaseDir))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}

	cacheSubdir := filepath.ToSlash(filepath.Clean(getEnv("CACHE_SUBDIR", DefaultCacheSubdir)))
	if !filepath.IsLocal(cacheSubdir) {
		return nil, fmt.Errorf("CACHE_SUBDIR must be a relative path inside DATA_DIR, got %q", cacheSubdir)
	}

	config := &Config{
		DataDir:               dataDir,
		CacheSubdir:           cacheSubdir,
		DatabaseDir:           databaseDir,
		SelectedCollections:   splitList(os.Getenv("SELECTED_COLLECTIONS")),
		PackKind:              getEnv("PACK_KIND", source.KindScene),
		Port:                  getEnv("PORT", "8080"),
		MetricsPort:           getEnv("METRICS_PORT", "9090"),
		MetricsEnabled:        getEnvBool("METRICS_ENABLED", true),
		IndexOnStart:          getEnvBool("INDEX_ON_START", true),
		ShallowIndex:          getEnvBool("SHALLOW_INDEX", false),
		ThumbnailMaxDimension: getEnvInt("THUMBNAIL_MAX_DIMENSION", 0),
		SaveDebounce:          getEnvDuration("SAVE_DEBOUNCE", DefaultSaveDebounce),
		LogStaticFiles:        getEnvBool("LOG_STATIC_FILES", false),
		LogHealthChecks:       getEnvBool("LOG_HEALTH_CHECKS", true),
		DatabasePath:          filepath.Join(databaseDir, databaseFile),
		CacheDir:              filepath.Join(dataDir, filepath.FromSlash(cacheSubdir)),
	}

	if config.ThumbnailMaxDimension < 0 {
		logging.Warn("Invalid THUMBNAIL_MAX_DIMENSION %d, downscaling disabled", config.ThumbnailMaxDimension)
		config.ThumbnailMaxDimension = 0
	}

	return config, nil
}

// LoadConfig loads .env, reads and validates the configuration, and logs it
// with the startup banner. The database directory must be writable; the data
// directory is created if missing.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	LoadDotEnv()

	config, err := ReadConfig()
	if err != nil {
		return nil, err
	}

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  DATA_DIR:                 %s", config.DataDir)
	logging.Info("  CACHE_SUBDIR:             %s", config.CacheSubdir)
	logging.Info("  DATABASE_DIR:             %s", config.DatabaseDir)
	logging.Info("  SELECTED_COLLECTIONS:     %s", strings.Join(config.SelectedCollections, ", "))
	logging.Info("  PACK_KIND:                %s", config.PackKind)
	logging.Info("  PORT:                     %s", config.Port)
	logging.Info("  METRICS_PORT:             %s", config.MetricsPort)
	logging.Info("  METRICS_ENABLED:          %v", config.MetricsEnabled)
	logging.Info("  INDEX_ON_START:           %v", config.IndexOnStart)
	logging.Info("  SHALLOW_INDEX:            %v", config.ShallowIndex)
	logging.Info("  THUMBNAIL_MAX_DIMENSION:  %d", config.ThumbnailMaxDimension)
	logging.Info("  SAVE_DEBOUNCE:            %v", config.SaveDebounce)
	logging.Info("  LOG_STATIC_FILES:         %v", config.LogStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:        %v", config.LogHealthChecks)
	logging.Info("  LOG_LEVEL:                %s", logging.GetLevel())

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	if err := ensureDirectory(config.DataDir, "data"); err != nil {
		return nil, fmt.Errorf("data directory error: %w", err)
	}
	logging.Info("  Data directory:     %s", config.DataDir)
	logging.Info("  Cache directory:    %s", config.CacheDir)

	if err := ensureDirectory(config.DatabaseDir, "database"); err != nil {
		return nil, fmt.Errorf("database directory error: %w", err)
	}

	logging.Debug("  Testing database directory write access...")
	if err := testWriteAccess(config.DatabaseDir); err != nil {
		return nil, fmt.Errorf("database directory is not writable (required for database): %w", err)
	}
	logging.Info("  [OK] Database directory is writable")

	if err := testWriteAccess(config.DataDir); err != nil {
		logging.Warn("  Data directory is not writable: %v", err)
		logging.Warn("  The cache cannot be saved until this is fixed")
	}

	if len(config.SelectedCollections) == 0 {
		logging.Warn("  No SELECTED_COLLECTIONS configured; full reindexes will index nothing")
	}

	return config, nil
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		logging.Warn("Invalid duration for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// splitList splits a comma separated list, dropping blanks and duplicates
// while keeping order.
func splitList(value string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
