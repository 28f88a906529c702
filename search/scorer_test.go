package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/conceptrag/core"
)

// expandedQuery builds an ExpandedQuery by hand for scorer tests.
func expandedQuery(original, conceptTerms, lexicalTerms []string, weights map[string]float64) *core.ExpandedQuery {
	q := &core.ExpandedQuery{
		Original:     original,
		ConceptTerms: conceptTerms,
		LexicalTerms: lexicalTerms,
		Weights:      map[string]float64{},
	}
	for _, term := range original {
		q.Weights[term] = 1.0
	}
	for term, w := range weights {
		q.Weights[term] = w
	}
	q.AllTerms = append(q.AllTerms, original...)
	q.AllTerms = append(q.AllTerms, conceptTerms...)
	q.AllTerms = append(q.AllTerms, lexicalTerms...)
	return q
}

func TestVectorScore(t *testing.T) {
	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 1.0},
		{0.25, 0.75},
		{1.0, 0},
		{1.5, 0},
		{-0.5, 1.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, VectorScore(tt.distance), 1e-9, "distance %v", tt.distance)
	}

	// Monotonically non-increasing in distance
	prev := VectorScore(0)
	for d := 0.05; d <= 1.0; d += 0.05 {
		score := VectorScore(d)
		assert.LessOrEqual(t, score, prev)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
		prev = score
	}
}

func TestLexicalScore(t *testing.T) {
	q := expandedQuery([]string{"microservices", "deployment"}, nil, nil, nil)

	strong := LexicalScore(q, "Microservices deployment guide for microservices teams", "docs/microservices/deployment.md")
	weak := LexicalScore(q, "gardening tips for spring", "docs/gardening.md")
	partial := LexicalScore(q, "deployment checklist", "docs/ops.md")

	assert.Greater(t, strong, partial, "matching both terms should beat matching one")
	assert.Greater(t, partial, weak)
	assert.Equal(t, 0.0, weak, "no matched terms yields 0")
	assert.LessOrEqual(t, strong, 1.0)
}

func TestLexicalScore_PartialMatches(t *testing.T) {
	q := expandedQuery([]string{"deploy"}, nil, nil, nil)

	exact := LexicalScore(q, "deploy now", "")
	prefix := LexicalScore(q, "deployment now", "")
	none := LexicalScore(q, "install now", "")

	assert.Greater(t, exact, prefix, "exact token match outweighs prefix match")
	assert.Greater(t, prefix, none)
	assert.Equal(t, 0.0, none)
}

func TestLexicalScore_EmptyInputs(t *testing.T) {
	empty := expandedQuery(nil, nil, nil, nil)
	assert.Equal(t, 0.0, LexicalScore(empty, "some text", "some/path"))

	q := expandedQuery([]string{"term"}, nil, nil, nil)
	assert.Equal(t, 0.0, LexicalScore(q, "", ""))
}

func TestTitleScore(t *testing.T) {
	q := expandedQuery([]string{"auth", "service"}, nil, nil, nil)

	filename := TitleScore(q, "internal/auth/service.go")
	pathOnly := TitleScore(q, "auth/handlers.go")
	nothing := TitleScore(q, "docs/readme.md")

	assert.Greater(t, filename, pathOnly, "filename matches outweigh path matches")
	assert.Greater(t, pathOnly, nothing)
	assert.Equal(t, 0.0, nothing)
	assert.LessOrEqual(t, filename, 1.0)
}

func TestTitleScore_PrefixMatches(t *testing.T) {
	q := expandedQuery([]string{"authentication"}, nil, nil, nil)

	// "authentication" is not a whole token of the filename but longer
	// terms may not prefix-match shorter tokens, so only exact token
	// matches count here
	assert.Equal(t, 0.0, TitleScore(q, "src/auth.go"))

	q = expandedQuery([]string{"conf"}, nil, nil, nil)
	prefix := TitleScore(q, "etc/configuration.yaml")
	assert.Greater(t, prefix, 0.0, "a 4+ character term prefix-matches filename tokens")
}

func TestTitleScore_EmptyQuery(t *testing.T) {
	empty := expandedQuery(nil, nil, nil, nil)
	assert.Equal(t, 0.0, TitleScore(empty, "some/path.go"))
}

func TestNameScore(t *testing.T) {
	q := expandedQuery([]string{"event", "sourcing"}, nil, nil, nil)

	assert.Equal(t, 1.0, NameScore(q, "event sourcing"), "exact query equality wins outright")

	containment := NameScore(q, "event sourcing pattern")
	reverse := NameScore(q, "event")
	unrelated := NameScore(q, "caching")

	assert.Greater(t, containment, reverse)
	assert.Greater(t, reverse, unrelated)
	assert.Equal(t, 0.0, unrelated)
}

func TestConceptScore(t *testing.T) {
	q := expandedQuery(
		[]string{"kafka"},
		[]string{"message queue"},
		nil,
		map[string]float64{"message queue": 0.8},
	)

	full := ConceptScore(q, []string{"kafka", "message queue"})
	half := ConceptScore(q, []string{"kafka streams"})
	none := ConceptScore(q, []string{"postgres"})

	assert.Greater(t, full, half)
	assert.Greater(t, half, 0.0)
	assert.Equal(t, 0.0, none)

	// Zero candidate concepts yields 0
	assert.Equal(t, 0.0, ConceptScore(q, nil))
}

func TestConceptScore_WeightContributedOnce(t *testing.T) {
	q := expandedQuery([]string{"kafka"}, nil, nil, nil)

	// The same term matching several concepts contributes its weight once
	once := ConceptScore(q, []string{"kafka"})
	many := ConceptScore(q, []string{"kafka", "kafka streams", "kafka connect"})
	assert.Equal(t, once, many)
}

func TestExpansionScore(t *testing.T) {
	q := expandedQuery(
		[]string{"cache"},
		nil,
		[]string{"buffer", "memory", "storage"},
		map[string]float64{"buffer": 0.6, "memory": 0.6, "storage": 0.4},
	)

	assert.InDelta(t, 2.0/3.0, ExpansionScore(q, "a buffer in memory"), 1e-9)
	assert.Equal(t, 1.0, ExpansionScore(q, "buffer memory storage"))
	assert.Equal(t, 0.0, ExpansionScore(q, "unrelated text"))

	// No lexical terms yields 0 regardless of text
	bare := expandedQuery([]string{"cache"}, nil, nil, nil)
	assert.Equal(t, 0.0, ExpansionScore(bare, "buffer memory storage"))
}

func TestScoring_Idempotent(t *testing.T) {
	q := expandedQuery(
		[]string{"distributed", "systems"},
		[]string{"consensus"},
		[]string{"cluster"},
		map[string]float64{"consensus": 0.8, "cluster": 0.6},
	)
	text := "consensus protocols for distributed systems running in a cluster"
	source := "papers/distributed-systems.md"

	for i := 0; i < 5; i++ {
		assert.Equal(t, LexicalScore(q, text, source), LexicalScore(q, text, source))
		assert.Equal(t, TitleScore(q, source), TitleScore(q, source))
		assert.Equal(t, ConceptScore(q, []string{"consensus"}), ConceptScore(q, []string{"consensus"}))
		assert.Equal(t, ExpansionScore(q, text), ExpansionScore(q, text))
	}
}

func TestCombine_MatchesWeightedSum(t *testing.T) {
	components := core.ScoreComponents{
		Vector:    0.9,
		Lexical:   0.5,
		Title:     0.3,
		Concept:   0.7,
		Expansion: 0.2,
	}

	for _, profile := range []core.WeightProfile{DocumentProfile(), PassageProfile(), ConceptProfile()} {
		want := profile.Vector*components.Vector +
			profile.Lexical*components.Lexical +
			profile.Title*components.Title +
			profile.Concept*components.Concept +
			profile.Expansion*components.Expansion
		got := profile.Combine(components)
		assert.InDelta(t, want, got, 1e-12)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}
