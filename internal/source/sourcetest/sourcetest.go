// Package sourcetest provides an in-memory source.Registry and
// source.Fetcher for tests.
package sourcetest

import (
	"context"
	"fmt"
	"sync"

	"asset-browser/internal/source"
)

// Collection is one fake collection with its packs.
type Collection struct {
	Info  source.CollectionInfo
	Packs []source.PackInfo
}

// Source is an in-memory registry and fetcher. The zero value is empty and
// ready to use.
type Source struct {
	mu          sync.Mutex
	collections []Collection
	content     map[string][]byte
	fetchErrs   map[string]error
	fetches     []string
}

// New returns an empty Source.
func New() *Source {
	return &Source{}
}

// AddCollection registers a collection in enumeration order.
func (s *Source) AddCollection(id, title string) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = append(s.collections, Collection{Info: source.CollectionInfo{ID: id, Title: title}})
	return s
}

// AddPack appends a pack to collection id and stores its raw content under
// "<id>/<name>.db". The collection must already exist.
func (s *Source) AddPack(id, name, title, kind, content string) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.collections {
		if s.collections[i].Info.ID != id {
			continue
		}
		p := source.PackInfo{Name: name, Title: title, Path: id + "/" + name + ".db", Kind: kind}
		s.collections[i].Packs = append(s.collections[i].Packs, p)
		if s.content == nil {
			s.content = make(map[string][]byte)
		}
		s.content[p.Path] = []byte(content)
		return s
	}
	panic(fmt.Sprintf("sourcetest: unknown collection %q", id))
}

// FailFetch makes Fetch of path return err.
func (s *Source) FailFetch(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchErrs == nil {
		s.fetchErrs = make(map[string]error)
	}
	s.fetchErrs[path] = err
}

// Fetches returns the paths fetched so far, in order.
func (s *Source) Fetches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetches...)
}

// Lookup implements source.Registry.
func (s *Source) Lookup(ctx context.Context, name string) (source.CollectionInfo, error) {
	if err := ctx.Err(); err != nil {
		return source.CollectionInfo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.collections {
		if c.Info.ID == name {
			return c.Info, nil
		}
	}
	return source.CollectionInfo{}, fmt.Errorf("%w: %s", source.ErrNotFound, name)
}

// Collections implements source.Registry.
func (s *Source) Collections(ctx context.Context) ([]source.CollectionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]source.CollectionInfo, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, c.Info)
	}
	return out, nil
}

// Packs implements source.Registry.
func (s *Source) Packs(ctx context.Context, collectionID string) ([]source.PackInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.collections {
		if c.Info.ID == collectionID {
			return append([]source.PackInfo(nil), c.Packs...), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", source.ErrNotFound, collectionID)
}

// Fetch implements source.Fetcher.
func (s *Source) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches = append(s.fetches, path)
	if err := s.fetchErrs[path]; err != nil {
		return nil, err
	}
	data, ok := s.content[path]
	if !ok {
		return nil, fmt.Errorf("no content at %s", path)
	}
	return data, nil
}
