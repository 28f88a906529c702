package lexicon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/conceptrag/core"
	"github.com/poiesic/conceptrag/lexicon/mock"
)

func TestExtractWords(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{
			name:  "splits on separators",
			names: []string{"event-driven architecture", "pub/sub", "message_queue"},
			want:  []string{"event", "driven", "architecture", "pub", "sub", "message", "queue"},
		},
		{
			name:  "drops short tokens and lowercases",
			names: []string{"IO Pool", "Go API"},
			want:  []string{"pool", "api"},
		},
		{
			name:  "dedupes preserving order",
			names: []string{"cache invalidation", "cache coherence"},
			want:  []string{"cache", "invalidation", "coherence"},
		},
		{
			name:  "empty input",
			names: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractWords(tt.names))
		})
	}
}

func TestCache_Prewarm(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.Add("microservices", core.WordSense{Word: "microservices", SenseID: "1"})
	provider.Add("architecture", core.WordSense{Word: "architecture", SenseID: "1"})

	cache, err := NewCache(provider)
	require.NoError(t, err)
	ctx := context.Background()

	// Pre-seed one word so it is skipped
	_, err = cache.Lookup(ctx, "architecture")
	require.NoError(t, err)

	stats, err := cache.Prewarm(ctx, []string{"microservices architecture", "event sourcing"})
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Cached)
	assert.Equal(t, 3, stats.Fetched)
	assert.Equal(t, 0, stats.Failed)

	for _, word := range []string{"microservices", "architecture", "event", "sourcing"} {
		assert.True(t, cache.Cached(word), "word %q should be cached after pre-warm", word)
	}
}

func TestCache_PrewarmEmptyInput(t *testing.T) {
	cache, err := NewCache(mock.NewMockProvider())
	require.NoError(t, err)

	stats, err := cache.Prewarm(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, PrewarmStats{}, stats)
}

func TestCache_PrewarmProviderErrors(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.LookupFunc = func(ctx context.Context, word string) ([]core.WordSense, error) {
		return nil, errors.New("unreachable")
	}

	cache, err := NewCache(provider, WithPrewarmConcurrency(2))
	require.NoError(t, err)

	stats, err := cache.Prewarm(context.Background(), []string{"distributed tracing"})
	require.NoError(t, err)

	// An upstream outage must surface in the failure count, not masquerade
	// as successful fetches
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 0, stats.Fetched)
	assert.Equal(t, 2, stats.Failed)

	// The degraded empty results are still memory-cached for query time
	assert.True(t, cache.Cached("distributed"))
	assert.True(t, cache.Cached("tracing"))
}

func TestCache_PrewarmPartialFailure(t *testing.T) {
	provider := mock.NewMockProvider()
	provider.Add("kafka", core.WordSense{Word: "kafka", SenseID: "1"})
	provider.LookupFunc = func(ctx context.Context, word string) ([]core.WordSense, error) {
		if word == "kafka" {
			return []core.WordSense{{Word: "kafka", SenseID: "1"}}, nil
		}
		return nil, errors.New("unreachable")
	}

	cache, err := NewCache(provider)
	require.NoError(t, err)

	stats, err := cache.Prewarm(context.Background(), []string{"kafka streams"})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Fetched)
	assert.Equal(t, 1, stats.Failed)
}
