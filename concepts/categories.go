package concepts

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/poiesic/conceptrag/core"
	"github.com/poiesic/conceptrag/storage"
)

// CategoryCache resolves category identifiers, names and aliases, and
// answers hierarchy queries (children, roots, path to root). Like
// ConceptCache it is populated once and read-mostly afterwards.
type CategoryCache struct {
	writeMu sync.Mutex
	state   atomic.Pointer[categoryState]
	logger  *slog.Logger
}

// categoryState is an immutable snapshot of the cache contents.
type categoryState struct {
	initialized bool
	byID        map[core.ID]*core.Category
	byName      map[string]core.ID // keyed by lowercase name
	byAlias     map[string]core.ID // keyed by lowercase alias
	children    map[core.ID][]core.ID
}

// CategoryStats summarizes cache contents for the statistics accessor.
type CategoryStats struct {
	Categories int
	Aliases    int
	Roots      int
	Docs       int // Sum of document usage counters
	Chunks     int // Sum of passage usage counters
	Concepts   int // Sum of concept usage counters
}

// maxHierarchyDepth bounds path walks so malformed parent links cannot
// loop forever.
const maxHierarchyDepth = 64

// NewCategoryCache creates an empty, uninitialized category cache.
// Populate it with LoadFrom before serving reads.
func NewCategoryCache() *CategoryCache {
	c := &CategoryCache{
		logger: slog.Default().With("component", "category-cache"),
	}
	c.state.Store(emptyCategoryState())
	return c
}

func emptyCategoryState() *categoryState {
	return &categoryState{
		byID:     map[core.ID]*core.Category{},
		byName:   map[string]core.ID{},
		byAlias:  map[string]core.ID{},
		children: map[core.ID][]core.ID{},
	}
}

// LoadFrom populates the cache from a backing store in one pass and marks
// it initialized. Existing contents are replaced.
func (c *CategoryCache) LoadFrom(ctx context.Context, store storage.CategoryStore) error {
	if store == nil {
		return ErrStoreRequired
	}

	all, err := store.LoadAllCategories(ctx)
	if err != nil {
		return err
	}

	next := emptyCategoryState()
	next.initialized = true
	for _, category := range all {
		if category == nil || category.Name == "" {
			continue
		}
		next.insert(category)
	}
	next.rebuildChildren()

	c.writeMu.Lock()
	c.state.Store(next)
	c.writeMu.Unlock()

	c.logger.Debug("category cache loaded", "categories", len(next.byID))
	return nil
}

// Name resolves an identifier to its canonical name.
func (c *CategoryCache) Name(id core.ID) (string, error) {
	s := c.state.Load()
	if !s.initialized {
		return "", ErrNotInitialized
	}
	category, ok := s.byID[id]
	if !ok {
		return "", ErrNotFound
	}
	return category.Name, nil
}

// Id resolves a canonical name (case-insensitive) to its identifier.
// Aliases are not consulted; use IdForAlias for alias resolution.
func (c *CategoryCache) Id(name string) (core.ID, error) {
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

// IdForAlias resolves an alias (case-insensitive) to its identifier.
// An alias maps to at most one category.
func (c *CategoryCache) IdForAlias(alias string) (core.ID, error) {
	s := c.state.Load()
	if !s.initialized {
		return 0, ErrNotInitialized
	}
	id, ok := s.byAlias[strings.ToLower(strings.TrimSpace(alias))]
	if !ok {
		return 0, ErrNotFound
	}
	return id, nil
}

// Names resolves a batch of identifiers. Missing entries are omitted.
func (c *CategoryCache) Names(ids []core.ID) (map[core.ID]string, error) {
	s := c.state.Load()
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	out := make(map[core.ID]string, len(ids))
	for _, id := range ids {
		if category, ok := s.byID[id]; ok {
			out[id] = category.Name
		}
	}
	return out, nil
}

// Ids resolves a batch of names. Missing entries are omitted.
func (c *CategoryCache) Ids(names []string) (map[string]core.ID, error) {
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

// Meta returns a copy of the full category entry for an identifier.
func (c *CategoryCache) Meta(id core.ID) (*core.Category, error) {
	s := c.state.Load()
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	category, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *category
	cp.Aliases = append([]string(nil), category.Aliases...)
	cp.Related = append([]core.ID(nil), category.Related...)
	return &cp, nil
}

// Children returns the direct child identifiers of a category, ordered by
// name.
func (c *CategoryCache) Children(id core.ID) ([]core.ID, error) {
	s := c.state.Load()
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	return append([]core.ID(nil), s.children[id]...), nil
}

// Roots returns the identifiers of all parentless categories, ordered by
// name.
func (c *CategoryCache) Roots() ([]core.ID, error) {
	s := c.state.Load()
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	var roots []core.ID
	for id, category := range s.byID {
		if category.Parent == 0 {
			roots = append(roots, id)
		}
	}
	s.sortByName(roots)
	return roots, nil
}

// HierarchyPath returns the full path from the root to the given category,
// ending with the category itself.
func (c *CategoryCache) HierarchyPath(id core.ID) ([]core.ID, error) {
	s := c.state.Load()
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	if _, ok := s.byID[id]; !ok {
		return nil, ErrNotFound
	}

	var reversed []core.ID
	cur := id
	for depth := 0; depth < maxHierarchyDepth; depth++ {
		reversed = append(reversed, cur)
		category := s.byID[cur]
		if category == nil || category.Parent == 0 {
			break
		}
		cur = category.Parent
		if _, ok := s.byID[cur]; !ok {
			break // dangling parent link, treat current node as root
		}
	}

	path := make([]core.ID, len(reversed))
	for i, v := range reversed {
		path[len(reversed)-1-i] = v
	}
	return path, nil
}

// Stats returns aggregate statistics over the cached categories.
func (c *CategoryCache) Stats() (CategoryStats, error) {
	s := c.state.Load()
	if !s.initialized {
		return CategoryStats{}, ErrNotInitialized
	}

	stats := CategoryStats{
		Categories: len(s.byID),
		Aliases:    len(s.byAlias),
	}
	for _, category := range s.byID {
		if category.Parent == 0 {
			stats.Roots++
		}
		stats.Docs += category.DocCount
		stats.Chunks += category.ChunkCount
		stats.Concepts += category.ConceptCount
	}
	return stats, nil
}

// Add inserts or replaces a single category entry.
func (c *CategoryCache) Add(category *core.Category) error {
	if err := core.ValidateCategory(category); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	next := c.state.Load().clone()
	next.initialized = true
	if old, ok := next.byID[category.Id]; ok {
		next.evict(old)
	}
	cp := *category
	if cp.Id == 0 {
		cp.Id = core.IDFromName(cp.Name)
	}
	next.insert(&cp)
	next.rebuildChildren()
	c.state.Store(next)
	return nil
}

// Remove deletes a single category entry by identifier.
func (c *CategoryCache) Remove(id core.ID) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	cur := c.state.Load()
	if !cur.initialized {
		return ErrNotInitialized
	}
	category, ok := cur.byID[id]
	if !ok {
		return ErrNotFound
	}

	next := cur.clone()
	next.evict(category)
	next.rebuildChildren()
	c.state.Store(next)
	return nil
}

// Clear empties the cache and marks it uninitialized, requiring a fresh
// LoadFrom before reads succeed again.
func (c *CategoryCache) Clear() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.state.Store(emptyCategoryState())
}

// Len returns the number of cached categories.
func (c *CategoryCache) Len() int {
	return len(c.state.Load().byID)
}

// Initialized reports whether the cache has been populated.
func (c *CategoryCache) Initialized() bool {
	return c.state.Load().initialized
}

// insert adds a category to the snapshot, claiming its name and any
// unclaimed aliases.
func (s *categoryState) insert(category *core.Category) {
	id := category.Id
	if id == 0 {
		id = core.IDFromName(category.Name)
		category.Id = id
	}
	if _, exists := s.byID[id]; exists {
		return
	}
	s.byID[id] = category
	s.byName[strings.ToLower(category.Name)] = id
	for _, alias := range category.Aliases {
		key := strings.ToLower(strings.TrimSpace(alias))
		if key == "" {
			continue
		}
		// First claim wins: an alias maps to at most one category
		if _, taken := s.byAlias[key]; !taken {
			s.byAlias[key] = id
		}
	}
}

// evict removes a category and its name/alias claims from the snapshot.
func (s *categoryState) evict(category *core.Category) {
	delete(s.byID, category.Id)
	delete(s.byName, strings.ToLower(category.Name))
	for _, alias := range category.Aliases {
		key := strings.ToLower(strings.TrimSpace(alias))
		if s.byAlias[key] == category.Id {
			delete(s.byAlias, key)
		}
	}
}

// rebuildChildren recomputes the parent->children index, ordered by name.
func (s *categoryState) rebuildChildren() {
	s.children = make(map[core.ID][]core.ID, len(s.byID))
	for id, category := range s.byID {
		if category.Parent == 0 {
			continue
		}
		if _, ok := s.byID[category.Parent]; !ok {
			continue
		}
		s.children[category.Parent] = append(s.children[category.Parent], id)
	}
	for parent := range s.children {
		s.sortByName(s.children[parent])
	}
}

// sortByName orders identifiers by their category names.
func (s *categoryState) sortByName(ids []core.ID) {
	sort.Slice(ids, func(i, j int) bool {
		return s.byID[ids[i]].Name < s.byID[ids[j]].Name
	})
}

// clone returns a deep copy of the snapshot for mutation. Category values
// are shared: they are treated as immutable once inserted.
func (s *categoryState) clone() *categoryState {
	next := emptyCategoryState()
	next.initialized = s.initialized
	for id, category := range s.byID {
		next.byID[id] = category
	}
	for name, id := range s.byName {
		next.byName[name] = id
	}
	for alias, id := range s.byAlias {
		next.byAlias[alias] = id
	}
	return next
}
