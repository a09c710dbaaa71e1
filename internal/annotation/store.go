package annotation

import (
	"sort"
	"sync"

	"parcel-labeler/pkg/geometry"
)

// Categorized groups committed polygons (image-space vertex lists) by category.
type Categorized map[Category][][]geometry.Point2D

// Clone returns a deep copy.
func (m Categorized) Clone() Categorized {
	out := make(Categorized, len(m))
	for c, polys := range m {
		cp := make([][]geometry.Point2D, len(polys))
		for i, pts := range polys {
			cp[i] = geometry.ClonePoints(pts)
		}
		out[c] = cp
	}
	return out
}

// Equal reports whether both mappings hold the same categories with the same
// vertex lists in the same order.
func (m Categorized) Equal(other Categorized) bool {
	if len(m) != len(other) {
		return false
	}
	for c, polys := range m {
		theirs, ok := other[c]
		if !ok || len(polys) != len(theirs) {
			return false
		}
		for i := range polys {
			if !geometry.EqualPoints(polys[i], theirs[i]) {
				return false
			}
		}
	}
	return true
}

// Categories returns the category codes present, ascending.
func (m Categorized) Categories() []Category {
	out := make([]Category, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Count returns the total number of polygons over all categories.
func (m Categorized) Count() int {
	n := 0
	for _, polys := range m {
		n += len(polys)
	}
	return n
}

// Store holds committed annotations for every image of the session, keyed by
// image identifier. It lives for the process and is never written to disk.
type Store struct {
	mu     sync.RWMutex
	images map[string]Categorized
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		images: make(map[string]Categorized),
	}
}

// Commit replaces everything stored for imageID with polys.
func (s *Store) Commit(imageID string, polys Categorized) {
	cp := polys.Clone()

	s.mu.Lock()
	s.images[imageID] = cp
	s.mu.Unlock()
}

// Load returns a copy of what was committed for imageID. An image that was
// never annotated yields an empty mapping.
func (s *Store) Load(imageID string) Categorized {
	s.mu.RLock()
	defer s.mu.RUnlock()

	polys, ok := s.images[imageID]
	if !ok {
		return Categorized{}
	}
	return polys.Clone()
}

// Has reports whether anything was ever committed for imageID.
func (s *Store) Has(imageID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.images[imageID]
	return ok
}

// Images returns the identifiers with committed entries, sorted.
func (s *Store) Images() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.images))
	for id := range s.images {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
