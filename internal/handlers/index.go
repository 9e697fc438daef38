package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"asset-browser/internal/database"
	"asset-browser/internal/logging"
)

// ReindexRequest is the optional body of POST /api/reindex. Collections
// defaults to the configured selection.
type ReindexRequest struct {
	Collections []string `json:"collections,omitempty"`
	Shallow     bool     `json:"shallow,omitempty"`
}

// Reindex starts a background reindex of the selected collections.
func (h *Handlers) Reindex(w http.ResponseWriter, r *http.Request) {
	var req ReindexRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	selected := req.Collections
	if selected == nil {
		selected = h.selected
	}

	if err := h.indexer.TriggerReindexAll(selected, req.Shallow); err != nil {
		writeIndexError(w, err)
		return
	}

	logging.Info("Reindex of %d collections started (shallow=%v)", len(selected), req.Shallow)
	writeJSONStatus(w, "started", http.StatusAccepted)
}

// ReindexCollection starts a background reindex of one collection.
func (h *Handlers) ReindexCollection(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["collection"]
	if err := h.indexer.TriggerReindexOne(r.Context(), name); err != nil {
		writeIndexError(w, err)
		return
	}
	logging.Info("Reindex of %s started", name)
	writeJSONStatus(w, "started", http.StatusAccepted)
}

// RegisterCollection adds a collection without indexing it and returns it.
func (h *Handlers) RegisterCollection(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["collection"]
	c, err := h.indexer.ShallowRegister(r.Context(), name)
	if err != nil {
		writeIndexError(w, err)
		return
	}
	writeJSONResponse(w, c, http.StatusOK)
}

// GetProgress returns the latest indexing progress snapshot.
func (h *Handlers) GetProgress(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeJSONResponse(w, h.indexer.GetProgress(), http.StatusOK)
}

// ListRuns returns the most recent indexing runs, newest first. ?limit=
// overrides the default page size.
func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := database.DefaultRecentRuns
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSONError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.db.RecentRuns(r.Context(), limit)
	if err != nil {
		writeIndexError(w, err)
		return
	}
	writeJSONResponse(w, runs, http.StatusOK)
}

// SaveCache persists the cache now.
func (h *Handlers) SaveCache(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Save(r.Context(), nil); err != nil {
		writeIndexError(w, err)
		return
	}
	writeJSONStatus(w, "saved", http.StatusOK)
}

// ClearCache empties the cache and persists the empty document.
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.indexer.Clear(); err != nil {
		writeIndexError(w, err)
		return
	}
	if err := h.store.Save(r.Context(), nil); err != nil {
		writeIndexError(w, err)
		return
	}
	logging.Info("Cache cleared")
	writeJSONStatus(w, "cleared", http.StatusOK)
}
