package lexicon

import (
	"context"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/poiesic/conceptrag/core"
	"github.com/poiesic/conceptrag/storage"
)

// Provider fetches the word senses for a single word from a thesaurus.
// An unknown word yields an empty slice and no error.
type Provider interface {
	Lookup(ctx context.Context, word string) ([]core.WordSense, error)
}

const (
	// defaultLookupTimeout bounds a single upstream lookup.
	defaultLookupTimeout = 5 * time.Second

	// defaultCacheSize is the in-memory LRU entry limit.
	defaultCacheSize = 4096

	// defaultPrewarmWorkers bounds concurrent lookups during Prewarm.
	defaultPrewarmWorkers = 5
)

// Cache is a caching Provider. Results, including empty ones, are kept in
// an in-memory LRU keyed by the lowercased, trimmed word, and optionally
// written through to a durable storage.SenseStore consulted before the
// upstream provider.
//
// Lookup never returns an error: upstream failures and timeouts resolve to
// an empty sense list, logged at debug level.
type Cache struct {
	upstream       Provider
	store          storage.SenseStore
	memory         *lru.Cache[string, []core.WordSense]
	timeout        time.Duration
	prewarmWorkers int
	logger         *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache) error

// WithLookupTimeout sets the per-lookup upstream timeout.
// Default is 5 seconds.
func WithLookupTimeout(d time.Duration) Option {
	return func(c *Cache) error {
		if d <= 0 {
			return ErrInvalidTimeout
		}
		c.timeout = d
		return nil
	}
}

// WithCacheSize sets the in-memory LRU entry limit.
// Default is 4096.
func WithCacheSize(size int) Option {
	return func(c *Cache) error {
		if size <= 0 {
			return ErrInvalidCacheSize
		}
		memory, err := lru.New[string, []core.WordSense](size)
		if err != nil {
			return err
		}
		c.memory = memory
		return nil
	}
}

// WithSenseStore sets a durable write-through layer consulted before the
// upstream provider and updated after each fetch. Store failures are
// logged and otherwise ignored.
func WithSenseStore(store storage.SenseStore) Option {
	return func(c *Cache) error {
		c.store = store
		return nil
	}
}

// WithPrewarmConcurrency sets the number of simultaneous lookups used by
// Prewarm. Default is 5, minimum 1.
func WithPrewarmConcurrency(workers int) Option {
	return func(c *Cache) error {
		if workers < 1 {
			workers = 1
		}
		c.prewarmWorkers = workers
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewCache creates a caching provider around upstream.
func NewCache(upstream Provider, opts ...Option) (*Cache, error) {
	if upstream == nil {
		return nil, ErrProviderRequired
	}

	memory, err := lru.New[string, []core.WordSense](defaultCacheSize)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		upstream:       upstream,
		memory:         memory,
		timeout:        defaultLookupTimeout,
		prewarmWorkers: defaultPrewarmWorkers,
		logger:         slog.Default().With("component", "lexicon"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Lookup returns the senses for word, consulting the in-memory cache, then
// the durable store, then the upstream provider. The error result exists
// to satisfy Provider and is always nil: failures degrade to empty senses.
func (c *Cache) Lookup(ctx context.Context, word string) ([]core.WordSense, error) {
	senses, _ := c.lookup(ctx, word)
	return senses, nil
}

// lookup is Lookup with the fetch outcome attached: ok is false when the
// upstream fetch failed and the empty result is a degraded placeholder
// rather than an authoritative miss. Prewarm uses the flag for its failure
// count.
func (c *Cache) lookup(ctx context.Context, word string) ([]core.WordSense, bool) {
	key := normalizeWord(word)
	if key == "" {
		return nil, true
	}

	if senses, ok := c.memory.Get(key); ok {
		return senses, true
	}

	if c.store != nil {
		senses, found, err := c.store.GetSenses(ctx, key)
		if err != nil {
			c.logger.Debug("sense store read failed", "word", key, "err", err)
		} else if found {
			c.memory.Add(key, senses)
			return senses, true
		}
	}

	senses, ok := c.fetch(ctx, key)
	c.memory.Add(key, senses)
	// Failed fetches stay out of the durable store so a later pass retries
	// the upstream instead of trusting the placeholder.
	if c.store != nil && ok {
		if err := c.store.PutSenses(ctx, key, senses); err != nil {
			c.logger.Debug("sense store write failed", "word", key, "err", err)
		}
	}
	return senses, ok
}

// fetch calls the upstream provider under the lookup timeout. Any error,
// including timeout, resolves to an empty sense list with ok false.
func (c *Cache) fetch(ctx context.Context, key string) ([]core.WordSense, bool) {
	lookupCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	senses, err := c.upstream.Lookup(lookupCtx, key)
	if err != nil {
		c.logger.Debug("lexical lookup failed", "word", key, "err", err)
		return []core.WordSense{}, false
	}
	if senses == nil {
		senses = []core.WordSense{}
	}
	return senses, true
}

// Cached reports whether a word's senses are already in the in-memory
// cache.
func (c *Cache) Cached(word string) bool {
	return c.memory.Contains(normalizeWord(word))
}

// Len returns the number of cached words in memory.
func (c *Cache) Len() int {
	return c.memory.Len()
}

// Purge empties the in-memory cache. The durable store is untouched.
func (c *Cache) Purge() {
	c.memory.Purge()
}

func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
