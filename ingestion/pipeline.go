package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/conceptrag/ai"
	"github.com/poiesic/conceptrag/core"
	"github.com/poiesic/conceptrag/storage"
)

const defaultBatchSize = 32

// Pipeline orchestrates the indexing of document passages.
// It embeds batches of text concurrently, tags each passage with matching
// corpus concepts and stores the resulting chunks.
type Pipeline struct {
	chunkRepository storage.ChunkRepository
	embedder        ai.Embedder
	concepts        storage.ConceptIndex
	pool            *ants.Pool
	batchSize       int
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent batch processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many passages are embedded per request.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithConceptIndex sets the index used to tag passages with corpus
// concepts. Without it, chunks are stored untagged.
func WithConceptIndex(index storage.ConceptIndex) Option {
	return func(p *Pipeline) error {
		p.concepts = index
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new indexing pipeline.
func NewPipeline(
	chunkRepository storage.ChunkRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		chunkRepository: chunkRepository,
		embedder:        embedder,
		pool:            pool,
		batchSize:       defaultBatchSize,
		logger:          slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest embeds the passages attributed to source and stores them as
// chunks. Empty passages are skipped. Batches run concurrently; the first
// failure is returned along with the count of chunks stored before it.
func (p *Pipeline) Ingest(ctx context.Context, source string, passages []string) (int, error) {
	batch := make([]string, 0, p.batchSize)

	var (
		wg       sync.WaitGroup
		added    atomic.Int64
		errOnce  sync.Once
		firstErr error
	)

	submit := func(texts []string) {
		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			n, err := p.processBatch(ctx, source, texts)
			added.Add(int64(n))
			if err != nil {
				errOnce.Do(func() { firstErr = err })
			}
		}); err != nil {
			wg.Done()
			errOnce.Do(func() { firstErr = err })
		}
	}

	for _, passage := range passages {
		if passage == "" {
			continue
		}
		batch = append(batch, passage)
		if len(batch) == p.batchSize {
			texts := make([]string, len(batch))
			copy(texts, batch)
			submit(texts)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		submit(batch)
	}

	wg.Wait()
	return int(added.Load()), firstErr
}

// processBatch embeds one batch of passages and stores them.
func (p *Pipeline) processBatch(ctx context.Context, source string, texts []string) (int, error) {
	p.logger.Debug("generating embeddings for passages", "passages", len(texts))

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		p.logger.Error("error generating embeddings", "err", err)
		return 0, err
	}
	if len(embeddings) != len(texts) {
		return 0, fmt.Errorf("embedding result mismatch. expected %d, received %d", len(texts), len(embeddings))
	}

	chunks := make([]*core.Chunk, len(texts))
	for i, text := range texts {
		conceptNames, density := p.annotate(ctx, text)
		chunks[i] = &core.Chunk{
			Text:         text,
			Source:       source,
			Vector:       embeddings[i],
			ConceptNames: conceptNames,
			Density:      density,
		}
	}

	stored, err := p.chunkRepository.AddChunks(ctx, chunks...)
	if err != nil {
		return 0, err
	}
	return len(stored), nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
