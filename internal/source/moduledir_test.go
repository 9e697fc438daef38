package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"asset-browser/internal/filesystem"
)

func writeModule(t *testing.T, root, dir, manifestJSON string, files map[string]string) {
	t.Helper()
	base := filepath.Join(root, "modules", dir)
	if err := os.MkdirAll(base, 0o755); err != nil {
		t.Fatal(err)
	}
	if manifestJSON != "" {
		if err := os.WriteFile(filepath.Join(base, "module.json"), []byte(manifestJSON), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range files {
		full := filepath.Join(base, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestModuleDir(t *testing.T) *ModuleDir {
	t.Helper()
	root := t.TempDir()

	writeModule(t, root, "b-maps", `{
		"id": "b-maps",
		"title": "B Maps",
		"packs": [
			{"name": "scenes", "label": "B Scenes", "path": "packs/scenes.db", "type": "Scene"},
			{"name": "actors", "label": "B Actors", "path": "packs/actors.db", "type": "Actor"}
		]
	}`, map[string]string{"packs/scenes.db": "{\"name\":\"Cave\"}\n"})

	writeModule(t, root, "a-legacy", `{
		"name": "a-legacy",
		"packs": [
			{"name": "old", "path": "./packs/old.db", "entity": "Scene"}
		]
	}`, nil)

	writeModule(t, root, "broken", `{not json`, nil)
	writeModule(t, root, "no-manifest", "", nil)

	return NewModuleDir(filesystem.NewOSStorage(root))
}

func TestModuleDir_Collections(t *testing.T) {
	d := newTestModuleDir(t)

	got, err := d.Collections(context.Background())
	if err != nil {
		t.Fatalf("Collections() error = %v", err)
	}

	want := []CollectionInfo{
		{ID: "a-legacy", Title: "a-legacy"},
		{ID: "b-maps", Title: "B Maps"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Collections() mismatch (-want +got):\n%s", diff)
	}
}

func TestModuleDir_Lookup(t *testing.T) {
	d := newTestModuleDir(t)
	ctx := context.Background()

	info, err := d.Lookup(ctx, "b-maps")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if info.Title != "B Maps" {
		t.Errorf("Lookup().Title = %q, want %q", info.Title, "B Maps")
	}

	_, err = d.Lookup(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(missing) error = %v, want ErrNotFound", err)
	}
}

func TestModuleDir_Packs(t *testing.T) {
	d := newTestModuleDir(t)
	ctx := context.Background()

	got, err := d.Packs(ctx, "b-maps")
	if err != nil {
		t.Fatalf("Packs() error = %v", err)
	}
	want := []PackInfo{
		{Name: "scenes", Title: "B Scenes", Path: "modules/b-maps/packs/scenes.db", Kind: "Scene"},
		{Name: "actors", Title: "B Actors", Path: "modules/b-maps/packs/actors.db", Kind: "Actor"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Packs() mismatch (-want +got):\n%s", diff)
	}

	legacy, err := d.Packs(ctx, "a-legacy")
	if err != nil {
		t.Fatalf("Packs(legacy) error = %v", err)
	}
	wantLegacy := []PackInfo{
		{Name: "old", Title: "old", Path: "modules/a-legacy/packs/old.db", Kind: "Scene"},
	}
	if diff := cmp.Diff(wantLegacy, legacy); diff != "" {
		t.Errorf("Packs(legacy) mismatch (-want +got):\n%s", diff)
	}

	if _, err := d.Packs(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Packs(missing) error = %v, want ErrNotFound", err)
	}
}

func TestModuleDir_Fetch(t *testing.T) {
	d := newTestModuleDir(t)
	ctx := context.Background()

	packs, err := d.Packs(ctx, "b-maps")
	if err != nil {
		t.Fatal(err)
	}

	data, err := d.Fetch(ctx, packs[0].Path)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != "{\"name\":\"Cave\"}\n" {
		t.Errorf("Fetch() = %q", data)
	}

	if _, err := d.Fetch(ctx, packs[1].Path); err == nil {
		t.Error("Fetch() of a missing pack file should fail")
	}
}

func TestModuleDir_NoModulesDirectory(t *testing.T) {
	d := NewModuleDir(filesystem.NewOSStorage(t.TempDir()))

	got, err := d.Collections(context.Background())
	if err != nil {
		t.Fatalf("Collections() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Collections() = %v, want empty", got)
	}
}

func TestFilterKind(t *testing.T) {
	packs := []PackInfo{
		{Name: "a", Kind: KindScene},
		{Name: "b", Kind: "Actor"},
		{Name: "c", Kind: KindScene},
	}

	got := FilterKind(packs, KindScene)
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "c" {
		t.Errorf("FilterKind() = %v, want [a c]", got)
	}

	if got := FilterKind(packs, "Item"); len(got) != 0 {
		t.Errorf("FilterKind(Item) = %v, want empty", got)
	}
}
