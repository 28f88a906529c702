package search

import "github.com/poiesic/conceptrag/core"

// Boost factors applied to the expansion-bonus weight by query shape, in
// priority order.
const (
	boostSingleTerm        = 2.0
	boostSingleWithConcept = 1.5
	boostShortQuery        = 1.5
	dampLongStrongConcept  = 0.75
	boostHighExpansion     = 1.25
	boostNeutral           = 1.0

	minBoostFactor = 0.5
	maxBoostFactor = 2.5

	shortQueryTerms    = 3
	highExpansionRatio = 3.0
)

// Expansion weight ceilings per search type.
const (
	documentExpansionCeiling = 0.25
	passageExpansionCeiling  = 0.30
	conceptExpansionCeiling  = 0.20

	// conceptLexicalFloor is the minimum lexical weight retained when the
	// concept profile donates weight to the expansion slot.
	conceptLexicalFloor = 0.10
)

// QueryAnalysis captures the shape of an expanded query for weight
// adjustment.
type QueryAnalysis struct {
	TermCount           int     // Original query terms
	SingleTerm          bool    // Exactly one original term
	ExpansionCount      int     // Thesaurus-derived terms
	ConceptCount        int     // Corpus concept terms
	ExpansionRatio      float64 // Expansion terms per original term
	StrongConceptSignal bool    // Concept terms >= original terms
}

// Analyze derives the weight-adjustment inputs from an expanded query.
func Analyze(q *core.ExpandedQuery) QueryAnalysis {
	a := QueryAnalysis{
		TermCount:      len(q.Original),
		SingleTerm:     len(q.Original) == 1,
		ExpansionCount: len(q.LexicalTerms),
		ConceptCount:   len(q.ConceptTerms),
	}
	if a.TermCount > 0 {
		a.ExpansionRatio = float64(a.ExpansionCount) / float64(a.TermCount)
		a.StrongConceptSignal = a.ConceptCount >= a.TermCount
	}
	return a
}

// BoostFactor derives the expansion-weight multiplier from the query
// shape. Sparse queries lean harder on expansion terms; long queries with
// strong concept matches lean away from them. The result is clamped to
// [0.5, 2.5].
func BoostFactor(a QueryAnalysis) float64 {
	var factor float64
	switch {
	case a.SingleTerm && a.ConceptCount == 0:
		factor = boostSingleTerm
	case a.SingleTerm:
		factor = boostSingleWithConcept
	case a.TermCount <= shortQueryTerms && a.ConceptCount == 0:
		factor = boostShortQuery
	case a.TermCount > shortQueryTerms && a.StrongConceptSignal:
		factor = dampLongStrongConcept
	case a.ExpansionRatio > highExpansionRatio:
		factor = boostHighExpansion
	default:
		factor = boostNeutral
	}

	if factor < minBoostFactor {
		factor = minBoostFactor
	}
	if factor > maxBoostFactor {
		factor = maxBoostFactor
	}
	return factor
}

// Adjust applies the boost factor to a baseline profile, capping the
// expansion weight at the search type's ceiling and redistributing the
// delta so the five weights still sum to 1.0. The redistribution rules are
// deliberately asymmetric across search types; they carry existing tuning
// and must not be unified.
func Adjust(base core.WeightProfile, a QueryAnalysis, t core.SearchType) core.WeightProfile {
	factor := BoostFactor(a)
	adjusted := base

	boosted := base.Expansion * factor
	if ceiling := expansionCeiling(t); boosted > ceiling {
		boosted = ceiling
	}
	delta := boosted - base.Expansion

	switch t {
	case core.SearchTypePassage:
		adjusted.Lexical = base.Lexical - delta
	case core.SearchTypeConcept:
		if floored := base.Lexical - delta; floored < conceptLexicalFloor {
			delta = base.Lexical - conceptLexicalFloor
			boosted = base.Expansion + delta
			adjusted.Lexical = conceptLexicalFloor
		} else {
			adjusted.Lexical = floored
		}
	default:
		adjusted.Lexical = base.Lexical - delta/2
		adjusted.Title = base.Title - delta/2
	}

	adjusted.Expansion = boosted
	return adjusted
}

func expansionCeiling(t core.SearchType) float64 {
	switch t {
	case core.SearchTypePassage:
		return passageExpansionCeiling
	case core.SearchTypeConcept:
		return conceptExpansionCeiling
	default:
		return documentExpansionCeiling
	}
}
