package source

import (
	"context"
	"errors"
)

// KindScene is the pack kind indexed by default.
const KindScene = "Scene"

// ErrNotFound is returned when the registry does not know a collection.
var ErrNotFound = errors.New("collection not found")

// CollectionInfo identifies a collection known to the registry.
type CollectionInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PackInfo describes one pack of a collection.
type PackInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Path  string `json:"path"`
	Kind  string `json:"kind"`
}

// Registry enumerates collections and their packs.
type Registry interface {
	// Lookup resolves a collection name. Unknown names return an error
	// matching ErrNotFound.
	Lookup(ctx context.Context, name string) (CollectionInfo, error)
	// Collections returns every known collection in enumeration order.
	Collections(ctx context.Context) ([]CollectionInfo, error)
	// Packs returns the packs of a collection in enumeration order.
	Packs(ctx context.Context, collectionID string) ([]PackInfo, error)
}

// Fetcher reads raw pack content.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FilterKind returns the packs whose kind equals kind, preserving order.
func FilterKind(packs []PackInfo, kind string) []PackInfo {
	var out []PackInfo
	for _, p := range packs {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}
