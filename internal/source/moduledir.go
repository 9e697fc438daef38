package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"asset-browser/internal/filesystem"
	"asset-browser/internal/logging"
)

const (
	modulesDir   = "modules"
	manifestName = "module.json"
)

// manifest is the subset of a Foundry module.json the indexer reads.
type manifest struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Title string         `json:"title"`
	Packs []manifestPack `json:"packs"`
}

type manifestPack struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Path   string `json:"path"`
	Type   string `json:"type"`
	Entity string `json:"entity"`
}

func (m manifest) id() string {
	if m.ID != "" {
		return m.ID
	}
	return m.Name
}

// ModuleDir reads collections from the modules directory of a Foundry data
// directory. It implements Registry and Fetcher.
type ModuleDir struct {
	storage *filesystem.OSStorage
}

// NewModuleDir creates a ModuleDir over the data directory served by storage.
func NewModuleDir(storage *filesystem.OSStorage) *ModuleDir {
	return &ModuleDir{storage: storage}
}

// loadManifests reads every module manifest in directory order, keyed by
// module id. Modules without a readable manifest are skipped.
func (d *ModuleDir) loadManifests(ctx context.Context) ([]manifest, error) {
	entries, err := os.ReadDir(filepath.Join(d.storage.Root(), modulesDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("No modules directory under %s", d.storage.Root())
			return nil, nil
		}
		return nil, fmt.Errorf("list modules: %w", err)
	}

	manifests := make([]manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m, err := d.readManifest(ctx, entry.Name())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logging.Debug("Skipping module %s: %v", entry.Name(), err)
			continue
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

func (d *ModuleDir) readManifest(ctx context.Context, dir string) (manifest, error) {
	var m manifest
	data, err := d.storage.ReadFile(ctx, path.Join(modulesDir, dir, manifestName))
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse %s: %w", manifestName, err)
	}
	if m.id() == "" {
		m.ID = dir
	}
	if m.Title == "" {
		m.Title = m.id()
	}
	return m, nil
}

func (d *ModuleDir) find(ctx context.Context, name string) (manifest, error) {
	manifests, err := d.loadManifests(ctx)
	if err != nil {
		return manifest{}, err
	}
	for _, m := range manifests {
		if m.id() == name {
			return m, nil
		}
	}
	return manifest{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Lookup implements Registry.
func (d *ModuleDir) Lookup(ctx context.Context, name string) (CollectionInfo, error) {
	m, err := d.find(ctx, name)
	if err != nil {
		return CollectionInfo{}, err
	}
	return CollectionInfo{ID: m.id(), Title: m.Title}, nil
}

// Collections implements Registry.
func (d *ModuleDir) Collections(ctx context.Context) ([]CollectionInfo, error) {
	manifests, err := d.loadManifests(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CollectionInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, CollectionInfo{ID: m.id(), Title: m.Title})
	}
	return out, nil
}

// Packs implements Registry. Pack paths are returned relative to the data
// directory, ready to pass to Fetch.
func (d *ModuleDir) Packs(ctx context.Context, collectionID string) ([]PackInfo, error) {
	m, err := d.find(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	packs := make([]PackInfo, 0, len(m.Packs))
	for _, p := range m.Packs {
		kind := p.Type
		if kind == "" {
			kind = p.Entity
		}
		title := p.Label
		if title == "" {
			title = p.Name
		}
		packs = append(packs, PackInfo{
			Name:  p.Name,
			Title: title,
			Path:  path.Join(modulesDir, m.id(), p.Path),
			Kind:  kind,
		})
	}
	return packs, nil
}

// Fetch implements Fetcher.
func (d *ModuleDir) Fetch(ctx context.Context, p string) ([]byte, error) {
	return d.storage.ReadFile(ctx, p)
}
