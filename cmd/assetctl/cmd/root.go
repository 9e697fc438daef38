package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"asset-browser/internal/assetcache"
	"asset-browser/internal/database"
	"asset-browser/internal/filesystem"
	"asset-browser/internal/indexer"
	"asset-browser/internal/logging"
	"asset-browser/internal/progress"
	"asset-browser/internal/source"
	"asset-browser/internal/startup"
	"asset-browser/internal/store"
)

var (
	dataDir string
	verbose bool
	config  *startup.Config
)

var rootCmd = &cobra.Command{
	Use:   "assetctl",
	Short: "Index and inspect the asset browser cache",
	Long: `assetctl works on an asset browser data directory: it reindexes
collections into the cache, registers new ones, lists what the cache holds
and saves it, externalizing inline thumbnails on the way.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		if verbose {
			logging.SetLevel(logging.LevelDebug)
		} else {
			logging.SetLevel(logging.LevelWarn)
		}

		startup.LoadDotEnv()
		c, err := startup.ReadConfig()
		if err != nil {
			return err
		}
		if dataDir != "" {
			abs, err := filepath.Abs(dataDir)
			if err != nil {
				return fmt.Errorf("failed to resolve data directory path: %w", err)
			}
			c.DataDir = abs
			c.CacheDir = filepath.Join(abs, filepath.FromSlash(c.CacheSubdir))
		}
		config = c
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "data directory (default $DATA_DIR or ./data)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// env is the opened cache with everything needed to index it.
type env struct {
	cache *assetcache.Cache
	store *store.Store
	idx   *indexer.Indexer
	db    *database.Database
}

// openEnv loads the saved cache and wires an indexer over the module
// directory. The run history database is opened only when withHistory is set.
func openEnv(ctx context.Context, withHistory bool) (*env, error) {
	storage := filesystem.NewOSStorage(config.DataDir)
	cache := assetcache.New()

	st := store.New(cache, storage, config.CacheSubdir)
	st.Externalizer().SetMaxDimension(config.ThumbnailMaxDimension)
	st.Load(ctx)

	modules := source.NewModuleDir(storage)
	idx := indexer.New(cache, modules, modules, st)
	idx.SetKind(config.PackKind)

	e := &env{cache: cache, store: st, idx: idx}
	if withHistory {
		if err := os.MkdirAll(config.DatabaseDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		db, err := database.New(ctx, config.DatabasePath)
		if err != nil {
			return nil, err
		}
		e.db = db
		idx.SetRunRecorder(db)
	}
	return e, nil
}

// close writes any save the indexer scheduled and releases the database.
func (e *env) close(ctx context.Context) error {
	err := e.store.Flush(ctx)
	e.store.Close()
	if e.db != nil {
		if cerr := e.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// progressPrinter writes one line per snapshot whose message changed, plus
// the final snapshot.
func progressPrinter(w io.Writer) progress.Sink {
	var last string
	return func(p progress.Snapshot) {
		if p.Message == last && !p.Finished {
			return
		}
		last = p.Message
		fmt.Fprintf(w, "[collections %d/%d, packs %d/%d, assets %d/%d] %s\n",
			p.Collections.Finished, p.Collections.Found,
			p.Packs.Finished, p.Packs.Found,
			p.Assets.Finished, p.Assets.Found,
			p.Message)
	}
}
