package concepts

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/poiesic/conceptrag/core"
	"github.com/poiesic/conceptrag/storage"
)

// ConceptCache is a bidirectional id<->name lookup table for corpus
// concepts. It also serves as the corpus concept index for query expansion
// via LookupTerms.
type ConceptCache struct {
	writeMu sync.Mutex // serializes writers; readers never take it
	state   atomic.Pointer[conceptState]
	logger  *slog.Logger
}

// conceptState is an immutable snapshot of the cache contents.
type conceptState struct {
	initialized bool
	byID        map[core.ID]string
	byName      map[string]core.ID // keyed by lowercase name
	names       []string           // canonical names in insertion order
}

var _ storage.ConceptIndex = (*ConceptCache)(nil)

// Weights attached to expansion terms produced by LookupTerms.
const (
	exactConceptWeight   = 0.8
	partialConceptWeight = 0.6
)

// NewConceptCache creates an empty, uninitialized concept cache.
// Populate it with LoadFrom before serving reads.
func NewConceptCache() *ConceptCache {
	c := &ConceptCache{
		logger: slog.Default().With("component", "concept-cache"),
	}
	c.state.Store(&conceptState{
		byID:   map[core.ID]string{},
		byName: map[string]core.ID{},
	})
	return c
}

// LoadFrom populates the cache from a backing store in one pass and marks
// it initialized. Existing contents are replaced.
func (c *ConceptCache) LoadFrom(ctx context.Context, store storage.ConceptStore) error {
	if store == nil {
		return ErrStoreRequired
	}

	all, err := store.LoadAllConcepts(ctx)
	if err != nil {
		return err
	}

	next := &conceptState{
		initialized: true,
		byID:        make(map[core.ID]string, len(all)),
		byName:      make(map[string]core.ID, len(all)),
		names:       make([]string, 0, len(all)),
	}
	for _, concept := range all {
		if concept == nil || concept.Name == "" {
			continue
		}
		id := concept.Id
		if id == 0 {
			id = core.IDFromName(concept.Name)
		}
		if _, exists := next.byID[id]; exists {
			continue
		}
		next.byID[id] = concept.Name
		next.byName[strings.ToLower(concept.Name)] = id
		next.names = append(next.names, concept.Name)
	}

	c.writeMu.Lock()
	c.state.Store(next)
	c.writeMu.Unlock()

	c.logger.Debug("concept cache loaded", "concepts", len(next.byID))
	return nil
}

// Name resolves an identifier to its canonical name.
func (c *ConceptCache) Name(id core.ID) (string, error) {
	s := c.state.Load()
	if !s.initialized {
		return "", ErrNotInitialized
	}
	name, ok := s.byID[id]
	if !ok {
		return "", ErrNotFound
	}
	return name, nil
}

// Id resolves a name (case-insensitive) to its identifier.
func (c *ConceptCache) Id(name string) (core.ID, error) {
	s := c.state.Load()
	if !s.initialized {
		return 0, ErrNotInitialized
	}
	id, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, ErrNotFound
	}
	return id, nil
}

// Names resolves a batch of identifiers. Missing entries are omitted.
func (c *ConceptCache) Names(ids []core.ID) (map[core.ID]string, error) {
	s := c.state.Load()
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	out := make(map[core.ID]string, len(ids))
	for _, id := range ids {
		if name, ok := s.byID[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

// Ids resolves a batch of names. Missing entries are omitted.
func (c *ConceptCache) Ids(names []string) (map[string]core.ID, error) {
	s := c.state.Load()
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	out := make(map[string]core.ID, len(names))
	for _, name := range names {
		if id, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
			out[name] = id
		}
	}
	return out, nil
}

// Add inserts or replaces a single concept entry.
func (c *ConceptCache) Add(id core.ID, name string) error {
	if name == "" {
		return core.ErrEmptyName
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	next := c.state.Load().clone()
	next.initialized = true
	if old, ok := next.byID[id]; ok {
		delete(next.byName, strings.ToLower(old))
		next.removeName(old)
	}
	next.byID[id] = name
	next.byName[strings.ToLower(name)] = id
	next.names = append(next.names, name)
	c.state.Store(next)
	return nil
}

// Remove deletes a single concept entry by identifier.
func (c *ConceptCache) Remove(id core.ID) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	cur := c.state.Load()
	if !cur.initialized {
		return ErrNotInitialized
	}
	name, ok := cur.byID[id]
	if !ok {
		return ErrNotFound
	}

	next := cur.clone()
	delete(next.byID, id)
	delete(next.byName, strings.ToLower(name))
	next.removeName(name)
	c.state.Store(next)
	return nil
}

// Clear empties the cache and marks it uninitialized, requiring a fresh
// LoadFrom before reads succeed again.
func (c *ConceptCache) Clear() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.state.Store(&conceptState{
		byID:   map[core.ID]string{},
		byName: map[string]core.ID{},
	})
}

// Len returns the number of cached concepts.
func (c *ConceptCache) Len() int {
	return len(c.state.Load().byID)
}

// Initialized reports whether the cache has been populated.
func (c *ConceptCache) Initialized() bool {
	return c.state.Load().initialized
}

// LookupTerms returns corpus concept names related to a query term using
// fuzzy bidirectional substring matching. Implements storage.ConceptIndex.
func (c *ConceptCache) LookupTerms(ctx context.Context, term string) ([]storage.WeightedTerm, error) {
	s := c.state.Load()
	if !s.initialized {
		return nil, ErrNotInitialized
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	if len(needle) < 3 {
		return nil, nil
	}

	var out []storage.WeightedTerm
	for _, name := range s.names {
		lower := strings.ToLower(name)
		switch {
		case lower == needle:
			out = append(out, storage.WeightedTerm{Term: name, Weight: exactConceptWeight})
		case strings.Contains(lower, needle) || strings.Contains(needle, lower):
			out = append(out, storage.WeightedTerm{Term: name, Weight: partialConceptWeight})
		}
	}
	return out, nil
}

// clone returns a deep copy of the snapshot for mutation.
func (s *conceptState) clone() *conceptState {
	next := &conceptState{
		initialized: s.initialized,
		byID:        make(map[core.ID]string, len(s.byID)),
		byName:      make(map[string]core.ID, len(s.byName)),
		names:       make([]string, len(s.names)),
	}
	for id, name := range s.byID {
		next.byID[id] = name
	}
	for name, id := range s.byName {
		next.byName[name] = id
	}
	copy(next.names, s.names)
	return next
}

// removeName drops the first occurrence of a name from the ordered list.
func (s *conceptState) removeName(name string) {
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			return
		}
	}
}
