package storage

import (
	"context"

	"github.com/poiesic/conceptrag/core"
)

// ChunkRepository provides operations for managing embedded text chunks and
// serves as the vector candidate source for the ranking engine.
// Implementations must be thread-safe and support concurrent access.
type ChunkRepository interface {
	// AddChunks adds one or more chunks to storage.
	// For chunks with ID=0, derives a content-based ID from text and source.
	// Returns the chunks with IDs populated.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// DeleteChunks removes chunks by their IDs.
	// Returns ErrNotFound if any chunk doesn't exist.
	DeleteChunks(ctx context.Context, ids ...core.ID) error

	// UpdateChunks replaces stored chunks that already have IDs.
	// Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// AllChunks retrieves every chunk from storage, used by maintenance
	// operations like re-embedding.
	AllChunks(ctx context.Context) ([]*core.Chunk, error)

	// FindSimilar finds the chunks nearest to the given query vector.
	// Results are ordered by vector distance (smallest first) with the
	// Distance field populated, up to limit results. Callers may request
	// several times their final result count for reranking headroom.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.Chunk, error)

	// Close closes the repository and releases resources.
	Close() error
}

// ConceptStore is the backing store consumed once to populate the concept
// resolution cache.
type ConceptStore interface {
	// AddConcepts adds one or more concepts to storage.
	// Concepts with ID=0 get content-based IDs derived from their names.
	AddConcepts(ctx context.Context, concepts ...*core.Concept) ([]*core.Concept, error)

	// DeleteConcepts removes concepts by their IDs.
	// Returns ErrNotFound if any concept doesn't exist.
	DeleteConcepts(ctx context.Context, ids ...core.ID) error

	// LoadAllConcepts retrieves every concept from storage.
	LoadAllConcepts(ctx context.Context) ([]*core.Concept, error)

	// Close closes the store and releases resources.
	Close() error
}

// CategoryStore is the backing store consumed once to populate the category
// resolution cache.
type CategoryStore interface {
	// AddCategories adds one or more categories to storage.
	// Categories with ID=0 get content-based IDs derived from their names.
	AddCategories(ctx context.Context, categories ...*core.Category) ([]*core.Category, error)

	// DeleteCategories removes categories by their IDs.
	// Returns ErrNotFound if any category doesn't exist.
	DeleteCategories(ctx context.Context, ids ...core.ID) error

	// LoadAllCategories retrieves every category from storage.
	LoadAllCategories(ctx context.Context) ([]*core.Category, error)

	// Close closes the store and releases resources.
	Close() error
}

// SenseStore is the durable write-through layer behind the lexical expansion
// provider. It is an internal optimization, not a contract other components
// depend on: cached entries may be dropped at any time.
type SenseStore interface {
	// GetSenses retrieves the cached senses for a word.
	// The second return value reports whether the word was cached at all;
	// a cached empty slice means the word is known to have no senses.
	GetSenses(ctx context.Context, word string) ([]core.WordSense, bool, error)

	// PutSenses stores the senses for a word, including empty results.
	PutSenses(ctx context.Context, word string, senses []core.WordSense) error

	// Close closes the store and releases resources.
	Close() error
}

// WeightedTerm is a concept term related to a query term, with a relevance
// weight in [0,1].
type WeightedTerm struct {
	Term   string
	Weight float64
}

// ConceptIndex looks up corpus concept terms related to a single query term.
// Used during query expansion; implementations perform fuzzy substring
// matching over known concept names.
type ConceptIndex interface {
	LookupTerms(ctx context.Context, term string) ([]WeightedTerm, error)
}
