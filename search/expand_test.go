package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/conceptrag/concepts"
	"github.com/poiesic/conceptrag/core"
	"github.com/poiesic/conceptrag/lexicon"
	lexmock "github.com/poiesic/conceptrag/lexicon/mock"
	"github.com/poiesic/conceptrag/storage"
)

// staticConceptIndex returns fixed related terms per query term.
type staticConceptIndex struct {
	terms map[string][]storage.WeightedTerm
	err   error
}

func (s *staticConceptIndex) LookupTerms(ctx context.Context, term string) ([]storage.WeightedTerm, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.terms[term], nil
}

func newTestExpander(t *testing.T, provider lexicon.Provider, index storage.ConceptIndex, opts ...ExpanderOption) *Expander {
	t.Helper()
	expander, err := NewExpander(provider, index, opts...)
	require.NoError(t, err)
	return expander
}

func TestExpander_OriginalTermsOnly(t *testing.T) {
	expander := newTestExpander(t, lexmock.NewMockProvider(), nil)

	q, err := expander.Expand(context.Background(), "the deployment of microservices")
	require.NoError(t, err)

	assert.Equal(t, []string{"deployment", "microservices"}, q.Original, "stop words are dropped")
	assert.Empty(t, q.ConceptTerms)
	assert.Empty(t, q.LexicalTerms)
	assert.Equal(t, q.Original, q.AllTerms)
	for _, term := range q.Original {
		assert.Equal(t, 1.0, q.Weight(term))
	}
}

func TestExpander_EmptyQuery(t *testing.T) {
	expander := newTestExpander(t, lexmock.NewMockProvider(), nil)

	q, err := expander.Expand(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, q.Original)
	assert.Empty(t, q.AllTerms)
	assert.NotNil(t, q.Weights)
}

func TestExpander_ConceptTerms(t *testing.T) {
	index := &staticConceptIndex{terms: map[string][]storage.WeightedTerm{
		"kafka": {
			{Term: "message queue", Weight: 0.8},
			{Term: "event streaming", Weight: 0.6},
		},
	}}
	expander := newTestExpander(t, lexmock.NewMockProvider(), index)

	q, err := expander.Expand(context.Background(), "kafka")
	require.NoError(t, err)

	assert.Equal(t, []string{"message queue", "event streaming"}, q.ConceptTerms)
	assert.Equal(t, 0.8, q.Weight("message queue"))
	assert.Equal(t, 0.6, q.Weight("event streaming"))
	assert.Equal(t, []string{"kafka", "message queue", "event streaming"}, q.AllTerms)
}

func TestExpander_ConceptIndexErrorsIgnored(t *testing.T) {
	index := &staticConceptIndex{err: errors.New("index offline")}
	expander := newTestExpander(t, lexmock.NewMockProvider(), index)

	q, err := expander.Expand(context.Background(), "kafka")
	require.NoError(t, err)
	assert.Empty(t, q.ConceptTerms, "index errors degrade to no concept expansion")
	assert.Equal(t, []string{"kafka"}, q.AllTerms)
}

func TestExpander_LexicalTerms(t *testing.T) {
	provider := lexmock.NewMockProvider()
	provider.Add("cache", core.WordSense{
		Word:       "cache",
		SenseID:    "1",
		Synonyms:   []string{"buffer", "store"},
		Hypernyms:  []string{"memory", "hardware", "component"},
		Definition: "computer memory for fast data access",
	})

	expander := newTestExpander(t, provider, nil)
	q, err := expander.Expand(context.Background(), "cache")
	require.NoError(t, err)

	// Both synonyms plus at most 2 hypernyms
	assert.Equal(t, []string{"buffer", "store", "memory", "hardware"}, q.LexicalTerms)
	assert.Equal(t, 0.6, q.Weight("buffer"))
	assert.Equal(t, 0.6, q.Weight("store"))
	assert.Equal(t, 0.4, q.Weight("memory"))
	assert.Equal(t, 0.4, q.Weight("hardware"))
}

func TestExpander_SynonymCap(t *testing.T) {
	provider := lexmock.NewMockProvider()
	provider.Add("node", core.WordSense{
		Word:       "node",
		SenseID:    "1",
		Synonyms:   []string{"vertex", "junction", "hub", "point", "joint", "knot", "nexus"},
		Definition: "a connection point in a computer network",
	})

	expander := newTestExpander(t, provider, nil)
	q, err := expander.Expand(context.Background(), "node")
	require.NoError(t, err)

	assert.Len(t, q.LexicalTerms, 5, "at most 5 synonyms per term")
	assert.Equal(t, []string{"vertex", "junction", "hub", "point", "joint"}, q.LexicalTerms)
}

func TestExpander_NeverOverwritesWeights(t *testing.T) {
	index := &staticConceptIndex{terms: map[string][]storage.WeightedTerm{
		"cache": {{Term: "buffer", Weight: 0.8}},
	}}
	provider := lexmock.NewMockProvider()
	provider.Add("cache", core.WordSense{
		Word:       "cache",
		SenseID:    "1",
		Synonyms:   []string{"buffer", "cache"},
		Definition: "computer memory",
	})

	expander := newTestExpander(t, provider, index)
	q, err := expander.Expand(context.Background(), "cache")
	require.NoError(t, err)

	assert.Equal(t, 1.0, q.Weight("cache"), "original term weight survives expansion")
	assert.Equal(t, 0.8, q.Weight("buffer"), "concept weight is not overwritten by the synonym weight")
	assert.NotContains(t, q.LexicalTerms, "buffer")

	// Every term in the union has a weight
	for _, term := range q.AllTerms {
		_, ok := q.Weights[term]
		assert.True(t, ok, "term %q missing from weight map", term)
	}
}

func TestExpander_TechnicalSenseFiltering(t *testing.T) {
	provider := lexmock.NewMockProvider()
	provider.Add("port", core.WordSense{
		Word:       "port",
		SenseID:    "1",
		Synonyms:   []string{"harbor"},
		Definition: "a place where ships dock",
	}, core.WordSense{
		Word:       "port",
		SenseID:    "2",
		Synonyms:   []string{"socket"},
		Definition: "a network endpoint identified by a number",
	})

	expander := newTestExpander(t, provider, nil, WithStrategy(lexicon.FirstSenseStrategy{}))
	q, err := expander.Expand(context.Background(), "port")
	require.NoError(t, err)

	// Technical filtering removes the nautical sense before the
	// first-sense strategy runs
	assert.Equal(t, []string{"socket"}, q.LexicalTerms)
}

func TestExpander_LookupFailureDegrades(t *testing.T) {
	provider := lexmock.NewMockProvider()
	provider.LookupFunc = func(ctx context.Context, word string) ([]core.WordSense, error) {
		return nil, errors.New("thesaurus offline")
	}

	expander := newTestExpander(t, provider, nil)
	q, err := expander.Expand(context.Background(), "resilience testing")
	require.NoError(t, err)

	assert.Empty(t, q.LexicalTerms)
	assert.Equal(t, []string{"resilience", "testing"}, q.AllTerms)
}

func TestNewExpander_RequiresLexicon(t *testing.T) {
	_, err := NewExpander(nil, nil)
	assert.ErrorIs(t, err, ErrLexiconRequired)
}

func TestExpander_UnloadedConceptIndexFails(t *testing.T) {
	// A never-loaded cache is a programming error, not a degraded state:
	// expansion must refuse rather than silently drop the concept signal
	expander := newTestExpander(t, lexmock.NewMockProvider(), concepts.NewConceptCache())

	_, err := expander.Expand(context.Background(), "kafka")
	assert.ErrorIs(t, err, concepts.ErrNotInitialized)
}
