package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"asset-browser/internal/indexer"
	"asset-browser/internal/logging"
	"asset-browser/internal/source"
)

// maxBodySize bounds request bodies; the API only accepts small JSON objects.
const maxBodySize = 1 << 20

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONResponse writes v with the given status code.
func writeJSONResponse(w http.ResponseWriter, v interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, v)
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSONResponse(w, map[string]string{"error": message}, statusCode)
}

// writeJSONStatus writes a simple status response as JSON.
func writeJSONStatus(w http.ResponseWriter, status string, statusCode int) {
	writeJSONResponse(w, map[string]string{"status": status}, statusCode)
}

// writeIndexError maps indexer and registry errors to HTTP status codes.
func writeIndexError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, source.ErrNotFound):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, indexer.ErrIndexInProgress):
		writeJSONError(w, err.Error(), http.StatusConflict)
	default:
		logging.Error("request failed: %v", err)
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes an optional JSON body into v. An empty body leaves
// v untouched.
func decodeJSONBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
