package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"asset-browser/internal/assetcache"
)

// CollectionSummary describes one cached collection without its assets.
type CollectionSummary struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	OnePack bool   `json:"onePack"`
	Packs   int    `json:"packs"`
	Assets  int    `json:"assets"`
}

// AssetEntry is one asset with its location in the cache.
type AssetEntry struct {
	Collection string  `json:"collection"`
	Pack       string  `json:"pack"`
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Image      *string `json:"img,omitempty"`
	Thumbnail  *string `json:"thumb,omitempty"`
}

// StatsResponse holds the cache size counts.
type StatsResponse struct {
	Collections      int `json:"collections"`
	Packs            int `json:"packs"`
	Assets           int `json:"assets"`
	InlineThumbnails int `json:"inlineThumbnails"`
}

// ListCollections returns a summary of every cached collection in cache order.
func (h *Handlers) ListCollections(w http.ResponseWriter, _ *http.Request) {
	names := h.cache.CollectionNames()
	summaries := make([]CollectionSummary, 0, len(names))
	for _, name := range names {
		c, ok := h.cache.Collection(name)
		if !ok {
			continue
		}
		summaries = append(summaries, CollectionSummary{
			Name:    name,
			Title:   c.Title,
			OnePack: c.OnePack,
			Packs:   c.PackCount(),
			Assets:  c.AssetCount(),
		})
	}
	writeJSONResponse(w, summaries, http.StatusOK)
}

// GetCollection returns one collection with all of its packs and assets.
func (h *Handlers) GetCollection(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["collection"]
	c, ok := h.cache.Collection(name)
	if !ok {
		writeJSONError(w, "collection not found", http.StatusNotFound)
		return
	}
	writeJSONResponse(w, c, http.StatusOK)
}

// GetPack returns one pack.
func (h *Handlers) GetPack(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	p, ok := h.cache.Pack(vars["collection"], vars["pack"])
	if !ok {
		writeJSONError(w, "pack not found", http.StatusNotFound)
		return
	}
	writeJSONResponse(w, p, http.StatusOK)
}

// GetAsset returns one asset record.
func (h *Handlers) GetAsset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	a, ok := h.cache.Asset(vars["collection"], vars["pack"], vars["key"])
	if !ok {
		writeJSONError(w, "asset not found", http.StatusNotFound)
		return
	}
	writeJSONResponse(w, a, http.StatusOK)
}

// ListAssets returns every asset in traversal order, optionally restricted
// with ?collection=.
func (h *Handlers) ListAssets(w http.ResponseWriter, r *http.Request) {
	seq := h.cache.All()
	if name := r.URL.Query().Get("collection"); name != "" {
		if _, ok := h.cache.Collection(name); !ok {
			writeJSONError(w, "collection not found", http.StatusNotFound)
			return
		}
		seq = h.cache.CollectionAssets(name)
	}

	entries := []AssetEntry{}
	for v := range seq {
		entries = append(entries, assetEntry(v))
	}
	writeJSONResponse(w, entries, http.StatusOK)
}

func assetEntry(v assetcache.Visit) AssetEntry {
	return AssetEntry{
		Collection: v.Collection,
		Pack:       v.Pack,
		Key:        v.Key,
		Name:       v.Asset.Name,
		Image:      v.Asset.Image,
		Thumbnail:  v.Asset.Thumbnail,
	}
}

// GetStats returns the cache size counts.
func (h *Handlers) GetStats(w http.ResponseWriter, _ *http.Request) {
	stats := h.indexer.GetStats()
	writeJSONResponse(w, StatsResponse{
		Collections:      stats.Collections,
		Packs:            stats.Packs,
		Assets:           stats.Assets,
		InlineThumbnails: stats.InlineThumbnails,
	}, http.StatusOK)
}
