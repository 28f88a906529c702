package lexicon

import (
	"strings"

	"github.com/poiesic/conceptrag/core"
)

// SynsetStrategy disambiguates among multiple senses of one word.
// Both methods must handle empty input: Select returns false, Score
// returns 0.
type SynsetStrategy interface {
	// Select picks the sense most relevant to the query context.
	Select(senses []core.WordSense, sctx core.SelectionContext) (*core.WordSense, bool)

	// Score rates a single sense's relevance to the context in [0,1].
	Score(sense *core.WordSense, sctx core.SelectionContext) float64
}

// technicalIndicators is the fixed vocabulary used to detect senses from
// the computing domain.
var technicalIndicators = []string{
	"computer", "software", "program", "process", "system",
	"data", "algorithm", "network", "digital", "electronic",
	"code", "computing", "technology", "technical", "engineering",
}

// FirstSenseStrategy always picks the first sense, which thesauri
// conventionally order by frequency of use.
type FirstSenseStrategy struct{}

func (FirstSenseStrategy) Select(senses []core.WordSense, _ core.SelectionContext) (*core.WordSense, bool) {
	if len(senses) == 0 {
		return nil, false
	}
	return &senses[0], true
}

func (FirstSenseStrategy) Score(sense *core.WordSense, _ core.SelectionContext) float64 {
	if sense == nil {
		return 0
	}
	return 1.0
}

// ContextAwareStrategy scores each sense against the query context and
// picks the highest. The score is a weighted sum of four signals:
// query-term presence in the definition, technical-indicator presence in
// the definition, domain-hint overlap with the definition, and query-term
// overlap with the sense's synonyms and hypernyms.
type ContextAwareStrategy struct {
	// DefinitionWeight scales the fraction of query terms found in the
	// definition text.
	DefinitionWeight float64

	// TechnicalWeight scales the technical-indicator signal.
	TechnicalWeight float64

	// HintWeight scales the domain-hint overlap signal.
	HintWeight float64

	// RelationWeight scales query-term overlap with synonyms and
	// hypernyms.
	RelationWeight float64
}

// NewContextAwareStrategy returns a strategy with the default weights,
// which favor query-term overlap over the domain signals.
func NewContextAwareStrategy() *ContextAwareStrategy {
	return &ContextAwareStrategy{
		DefinitionWeight: 0.35,
		RelationWeight:   0.30,
		TechnicalWeight:  0.20,
		HintWeight:       0.15,
	}
}

// Select returns the highest-scoring sense. Ties resolve to the earliest
// sense in input order.
func (s *ContextAwareStrategy) Select(senses []core.WordSense, sctx core.SelectionContext) (*core.WordSense, bool) {
	if len(senses) == 0 {
		return nil, false
	}

	best := 0
	bestScore := s.Score(&senses[0], sctx)
	for i := 1; i < len(senses); i++ {
		if score := s.Score(&senses[i], sctx); score > bestScore {
			best, bestScore = i, score
		}
	}
	return &senses[best], true
}

// Score rates one sense against the context in [0,1].
func (s *ContextAwareStrategy) Score(sense *core.WordSense, sctx core.SelectionContext) float64 {
	if sense == nil {
		return 0
	}

	definition := strings.ToLower(sense.Definition)

	score := s.DefinitionWeight * termFraction(sctx.QueryTerms, definition)
	if containsAnyIndicator(definition) {
		score += s.TechnicalWeight
	}
	score += s.HintWeight * termFraction(sctx.DomainHints, definition)
	score += s.RelationWeight * relationOverlap(sctx.QueryTerms, sense)

	if score > 1 {
		score = 1
	}
	return score
}

// FilterTechnicalSenses keeps the senses relevant to a technical query:
// each sense is scored by technical-indicator presence in its definition
// plus double weight for exact matches between its word forms and the
// query terms. If no sense scores above zero, all senses are returned so
// downstream selection still has input to work with.
func FilterTechnicalSenses(senses []core.WordSense, queryTerms []string) []core.WordSense {
	if len(senses) == 0 {
		return senses
	}

	var relevant []core.WordSense
	for _, sense := range senses {
		if technicalRelevance(&sense, queryTerms) > 0 {
			relevant = append(relevant, sense)
		}
	}
	if len(relevant) == 0 {
		return senses
	}
	return relevant
}

// technicalRelevance scores one sense: 1 per technical indicator in the
// definition, 2 per exact match between the sense's word forms and a query
// term.
func technicalRelevance(sense *core.WordSense, queryTerms []string) float64 {
	definition := strings.ToLower(sense.Definition)

	var score float64
	for _, indicator := range technicalIndicators {
		if strings.Contains(definition, indicator) {
			score += 1
		}
	}

	forms := make([]string, 0, 1+len(sense.Synonyms))
	forms = append(forms, strings.ToLower(sense.Word))
	for _, synonym := range sense.Synonyms {
		forms = append(forms, strings.ToLower(synonym))
	}
	for _, term := range queryTerms {
		lower := strings.ToLower(term)
		for _, form := range forms {
			if form == lower {
				score += 2
				break
			}
		}
	}
	return score
}

// termFraction returns the fraction of terms appearing as substrings of
// haystack, which must already be lowercased.
func termFraction(terms []string, haystack string) float64 {
	if len(terms) == 0 || haystack == "" {
		return 0
	}
	matched := 0
	for _, term := range terms {
		if strings.Contains(haystack, strings.ToLower(term)) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

// relationOverlap returns the fraction of query terms matching one of the
// sense's synonyms or hypernyms exactly (case-insensitive).
func relationOverlap(queryTerms []string, sense *core.WordSense) float64 {
	if len(queryTerms) == 0 {
		return 0
	}
	related := make(map[string]struct{}, len(sense.Synonyms)+len(sense.Hypernyms))
	for _, synonym := range sense.Synonyms {
		related[strings.ToLower(synonym)] = struct{}{}
	}
	for _, hypernym := range sense.Hypernyms {
		related[strings.ToLower(hypernym)] = struct{}{}
	}

	matched := 0
	for _, term := range queryTerms {
		if _, ok := related[strings.ToLower(term)]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTerms))
}

func containsAnyIndicator(definition string) bool {
	for _, indicator := range technicalIndicators {
		if strings.Contains(definition, indicator) {
			return true
		}
	}
	return false
}
