package handlers

import (
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/mux"

	"asset-browser/internal/assetcache"
	"asset-browser/internal/database"
	"asset-browser/internal/indexer"
	"asset-browser/internal/mediatypes"
	"asset-browser/internal/startup"
	"asset-browser/internal/store"
)

type Handlers struct {
	db       *database.Database
	indexer  *indexer.Indexer
	cache    *assetcache.Cache
	store    *store.Store
	selected []string
	cacheDir string
	cacheURL string
}

func New(db *database.Database, idx *indexer.Indexer, st *store.Store, config *startup.Config) *Handlers {
	return &Handlers{
		db:       db,
		indexer:  idx,
		cache:    idx.Cache(),
		store:    st,
		selected: config.SelectedCollections,
		cacheDir: config.CacheDir,
		cacheURL: "/" + strings.Trim(config.CacheSubdir, "/") + "/",
	}
}

// RegisterRoutes adds every API route and the cache file server to r.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/collections", h.ListCollections).Methods(http.MethodGet)
	api.HandleFunc("/collections/{collection}", h.GetCollection).Methods(http.MethodGet)
	api.HandleFunc("/collections/{collection}/packs/{pack}", h.GetPack).Methods(http.MethodGet)
	api.HandleFunc("/collections/{collection}/packs/{pack}/assets/{key}", h.GetAsset).Methods(http.MethodGet)
	api.HandleFunc("/collections/{collection}/reindex", h.ReindexCollection).Methods(http.MethodPost)
	api.HandleFunc("/collections/{collection}/register", h.RegisterCollection).Methods(http.MethodPost)
	api.HandleFunc("/assets", h.ListAssets).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/progress", h.GetProgress).Methods(http.MethodGet)
	api.HandleFunc("/runs", h.ListRuns).Methods(http.MethodGet)
	api.HandleFunc("/reindex", h.Reindex).Methods(http.MethodPost)
	api.HandleFunc("/cache/save", h.SaveCache).Methods(http.MethodPost)
	api.HandleFunc("/cache", h.ClearCache).Methods(http.MethodDelete)

	r.PathPrefix(h.cacheURL).Handler(
		http.StripPrefix(h.cacheURL, cacheFileServer(h.cacheDir)),
	).Methods(http.MethodGet, http.MethodHead)
}

// cacheFileServer serves the cache directory with the Content-Type taken
// from the file extension instead of content sniffing.
func cacheFileServer(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ext := path.Ext(r.URL.Path); ext != "" {
			w.Header().Set("Content-Type", mediatypes.GetMimeType(ext))
		}
		files.ServeHTTP(w, r)
	})
}
