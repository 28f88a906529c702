package lexicon

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
)

// PrewarmStats reports the outcome of a batch pre-warm pass.
type PrewarmStats struct {
	Total   int // Unique words extracted from the input names
	Cached  int // Words already present in the cache
	Fetched int // Words fetched from the upstream provider
	Failed  int // Words whose upstream lookup failed or was cancelled
}

// Prewarm extracts the unique words from a list of concept names and looks
// each one up with bounded concurrency, populating the cache ahead of query
// time. Already-cached words are skipped. The context cancels outstanding
// lookups; words not attempted before cancellation are counted as failed.
func (c *Cache) Prewarm(ctx context.Context, conceptNames []string) (PrewarmStats, error) {
	words := extractWords(conceptNames)
	stats := PrewarmStats{Total: len(words)}
	if len(words) == 0 {
		return stats, nil
	}

	pool, err := ants.NewPool(c.prewarmWorkers)
	if err != nil {
		return stats, err
	}
	defer pool.Release()

	var (
		wg      sync.WaitGroup
		cached  atomic.Int64
		fetched atomic.Int64
		failed  atomic.Int64
	)

	for _, word := range words {
		if c.Cached(word) {
			cached.Add(1)
			continue
		}

		word := word
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			if ctx.Err() != nil {
				failed.Add(1)
				return
			}

			if _, ok := c.lookup(ctx, word); !ok {
				failed.Add(1)
				return
			}
			fetched.Add(1)
		})
		if submitErr != nil {
			wg.Done()
			failed.Add(1)
		}
	}

	wg.Wait()

	stats.Cached = int(cached.Load())
	stats.Fetched = int(fetched.Load())
	stats.Failed = int(failed.Load())

	c.logger.Debug("lexical cache pre-warm complete",
		"total", stats.Total,
		"cached", stats.Cached,
		"fetched", stats.Fetched,
		"failed", stats.Failed)

	return stats, nil
}

// extractWords tokenizes concept names on whitespace, hyphens, underscores
// and slashes, lower-cases the tokens, drops those of length two or less,
// and de-duplicates preserving first-seen order.
func extractWords(names []string) []string {
	seen := make(map[string]struct{})
	var words []string
	for _, name := range names {
		tokens := strings.FieldsFunc(name, func(r rune) bool {
			switch r {
			case '-', '_', '/':
				return true
			}
			return r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
		for _, token := range tokens {
			token = strings.ToLower(token)
			if len(token) <= 2 {
				continue
			}
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			words = append(words, token)
		}
	}
	return words
}
