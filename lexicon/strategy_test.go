package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/conceptrag/core"
)

func strategySenses() []core.WordSense {
	return []core.WordSense{
		{
			Word:       "cache",
			SenseID:    "1",
			Synonyms:   []string{"hoard", "stash"},
			Hypernyms:  []string{"store"},
			Definition: "a secret store of valuables or money",
		},
		{
			Word:       "cache",
			SenseID:    "2",
			Synonyms:   []string{"memory cache"},
			Hypernyms:  []string{"memory", "buffer"},
			Definition: "computer science: fast memory used by a processor to reduce data access time",
		},
	}
}

func TestFirstSenseStrategy(t *testing.T) {
	var strategy FirstSenseStrategy
	sctx := core.SelectionContext{QueryTerms: []string{"memory"}}

	sense, ok := strategy.Select(strategySenses(), sctx)
	require.True(t, ok)
	assert.Equal(t, "1", sense.SenseID)

	assert.Equal(t, 1.0, strategy.Score(sense, sctx))
	assert.Equal(t, 0.0, strategy.Score(nil, sctx))

	_, ok = strategy.Select(nil, sctx)
	assert.False(t, ok)
}

func TestContextAwareStrategy_PrefersTechnicalSense(t *testing.T) {
	strategy := NewContextAwareStrategy()
	sctx := core.SelectionContext{QueryTerms: []string{"memory", "processor"}}

	sense, ok := strategy.Select(strategySenses(), sctx)
	require.True(t, ok)
	assert.Equal(t, "2", sense.SenseID, "technical sense should win for a technical query")
}

func TestContextAwareStrategy_DomainHints(t *testing.T) {
	strategy := NewContextAwareStrategy()
	senses := strategySenses()

	plain := core.SelectionContext{QueryTerms: []string{"buried"}}
	hinted := core.SelectionContext{
		QueryTerms:  []string{"buried"},
		DomainHints: []string{"valuables"},
	}

	assert.Greater(t, strategy.Score(&senses[0], hinted), strategy.Score(&senses[0], plain),
		"a matching domain hint must raise the score")
}

func TestContextAwareStrategy_TieBreaksToEarliest(t *testing.T) {
	strategy := NewContextAwareStrategy()
	senses := []core.WordSense{
		{Word: "term", SenseID: "1", Definition: "unrelated to anything"},
		{Word: "term", SenseID: "2", Definition: "equally unrelated text"},
	}

	sense, ok := strategy.Select(senses, core.SelectionContext{QueryTerms: []string{"zzz"}})
	require.True(t, ok)
	assert.Equal(t, "1", sense.SenseID)
}

func TestContextAwareStrategy_ScoreBounds(t *testing.T) {
	strategy := NewContextAwareStrategy()
	sctx := core.SelectionContext{
		QueryTerms:  []string{"memory", "cache", "processor", "data"},
		DomainHints: []string{"computer", "fast"},
	}
	senses := strategySenses()

	for i := range senses {
		score := strategy.Score(&senses[i], sctx)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
	assert.Equal(t, 0.0, strategy.Score(nil, sctx))
}

func TestFilterTechnicalSenses(t *testing.T) {
	senses := strategySenses()

	filtered := FilterTechnicalSenses(senses, []string{"memory"})
	require.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].SenseID)

	// Exact query-term match against a sense's word forms also counts
	filtered = FilterTechnicalSenses([]core.WordSense{
		{Word: "stash", SenseID: "1", Definition: "a hidden supply"},
	}, []string{"stash"})
	require.Len(t, filtered, 1)

	// Nothing relevant: all senses come back unfiltered
	nonTechnical := []core.WordSense{
		{Word: "river", SenseID: "1", Definition: "a natural stream of water"},
		{Word: "river", SenseID: "2", Definition: "a large flow"},
	}
	assert.Len(t, FilterTechnicalSenses(nonTechnical, []string{"bank"}), 2)

	assert.Empty(t, FilterTechnicalSenses(nil, []string{"x"}))
}
