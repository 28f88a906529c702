// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package conceptrag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/conceptrag/ai"
	"github.com/poiesic/conceptrag/ai/openai"
	"github.com/poiesic/conceptrag/concepts"
	"github.com/poiesic/conceptrag/ingestion"
	"github.com/poiesic/conceptrag/lexicon"
	"github.com/poiesic/conceptrag/lexicon/wordnet"
	"github.com/poiesic/conceptrag/search"
	"github.com/poiesic/conceptrag/storage"
	"github.com/poiesic/conceptrag/storage/badger"
)

// Database is the composition root: it owns the storage backend, the
// repositories, the resolution caches and the lexical cache, and hands out
// searchers wired against them.
type Database struct {
	backend       *badger.Backend
	chunkRepo     storage.ChunkRepository
	catalogRepo   *badger.CatalogRepository
	senseRepo     storage.SenseStore
	conceptCache  *concepts.ConceptCache
	categoryCache *concepts.CategoryCache
	lexicalCache  *lexicon.Cache
	embedder      ai.Embedder
	logger        *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	provider lexicon.Provider
	inMemory bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithLexiconProvider sets the upstream thesaurus provider.
// Default is the WordNet subprocess provider.
func WithLexiconProvider(provider lexicon.Provider) DatabaseOption {
	return func(o *databaseOptions) {
		if provider != nil {
			o.provider = provider
		}
	}
}

// WithInMemory opens the storage backend in memory, discarding all data on
// close. Intended for tests and experiments.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the storage backend at filePath and wires the full
// ranking stack around it. Call LoadCaches before searching.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create chunk repository
	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create catalog repository (concepts + categories)
	catalogRepo, err := badger.NewCatalogRepository(backend)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create the durable sense cache behind the lexical provider
	senseRepo, err := badger.NewSenseRepository(backend)
	if err != nil {
		catalogRepo.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	// Default to the WordNet subprocess provider
	provider := options.provider
	if provider == nil {
		provider, err = wordnet.New()
		if err != nil {
			senseRepo.Close()
			catalogRepo.Close()
			chunkRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	lexicalCache, err := lexicon.NewCache(provider, lexicon.WithSenseStore(senseRepo))
	if err != nil {
		senseRepo.Close()
		catalogRepo.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	embedder, err := openai.NewEmbedder(options.aiConfig)
	if err != nil {
		senseRepo.Close()
		catalogRepo.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:       backend,
		chunkRepo:     chunkRepo,
		catalogRepo:   catalogRepo,
		senseRepo:     senseRepo,
		conceptCache:  concepts.NewConceptCache(),
		categoryCache: concepts.NewCategoryCache(),
		lexicalCache:  lexicalCache,
		embedder:      embedder,
		logger:        slog.Default(),
	}, nil
}

// LoadCaches populates the concept and category resolution caches from
// storage. Must complete before the first search; searches against
// unloaded caches fail hard rather than resolving names to nothing.
func (db *Database) LoadCaches(ctx context.Context) error {
	if err := db.conceptCache.LoadFrom(ctx, db.catalogRepo); err != nil {
		return err
	}
	if err := db.categoryCache.LoadFrom(ctx, db.catalogRepo); err != nil {
		return err
	}
	db.logger.Info("resolution caches loaded",
		"concepts", db.conceptCache.Len(),
		"categories", db.categoryCache.Len())
	return nil
}

// PrewarmLexicon pre-fetches word senses for every known concept name.
func (db *Database) PrewarmLexicon(ctx context.Context) (lexicon.PrewarmStats, error) {
	all, err := db.catalogRepo.LoadAllConcepts(ctx)
	if err != nil {
		return lexicon.PrewarmStats{}, err
	}
	names := make([]string, len(all))
	for i, concept := range all {
		names[i] = concept.Name
	}
	return db.lexicalCache.Prewarm(ctx, names)
}

func (db *Database) Close() error {
	// Close repositories before the backend they share
	if err := db.senseRepo.Close(); err != nil {
		db.logger.Error("error closing sense repository", "err", err)
		return err
	}
	if err := db.catalogRepo.Close(); err != nil {
		db.logger.Error("error closing catalog repository", "err", err)
		return err
	}
	if err := db.chunkRepo.Close(); err != nil {
		db.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

func (db *Database) CatalogRepository() *badger.CatalogRepository {
	return db.catalogRepo
}

func (db *Database) ConceptCache() *concepts.ConceptCache {
	return db.conceptCache
}

func (db *Database) CategoryCache() *concepts.CategoryCache {
	return db.categoryCache
}

func (db *Database) LexicalCache() *lexicon.Cache {
	return db.lexicalCache
}

// NewIngestionPipeline builds an indexing pipeline over this database's
// chunk store. Passages are tagged against the concept cache, so load it
// first if tagging matters.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{ingestion.WithConceptIndex(db.conceptCache)}, opts...)
	return ingestion.NewPipeline(db.chunkRepo, db.embedder, opts...)
}

// NewSearcher builds a searcher over this database's stores. The concept
// cache doubles as the corpus concept index for query expansion, so the
// caches must be loaded first: a searcher over an unpopulated cache would
// silently rank without the concept signal.
func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	if !db.conceptCache.Initialized() || !db.categoryCache.Initialized() {
		return nil, fmt.Errorf("caches not loaded, call LoadCaches before NewSearcher: %w", concepts.ErrNotInitialized)
	}
	expander, err := search.NewExpander(db.lexicalCache, db.conceptCache)
	if err != nil {
		return nil, err
	}
	return search.NewSearcher(db.chunkRepo, db.embedder, expander, opts...)
}
