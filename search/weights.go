package search

import "github.com/poiesic/conceptrag/core"

// Baseline weight profiles, one per search type. Each sums to 1.0; the
// dynamic adjuster redistributes within them per request.

// DocumentProfile is the baseline for whole-document ranking.
func DocumentProfile() core.WeightProfile {
	return core.WeightProfile{
		Vector:    0.30,
		Lexical:   0.25,
		Title:     0.20,
		Concept:   0.15,
		Expansion: 0.10,
	}
}

// PassageProfile is the baseline for passage ranking. Passages have no
// meaningful title, so the title weight is zero and the other signals are
// emphasized.
func PassageProfile() core.WeightProfile {
	return core.WeightProfile{
		Vector:    0.35,
		Lexical:   0.30,
		Title:     0,
		Concept:   0.20,
		Expansion: 0.15,
	}
}

// ConceptProfile is the baseline for concept-name ranking. The title slot
// carries the name-match score and dominates; concept attachment is
// meaningless when the candidates are the concepts themselves.
func ConceptProfile() core.WeightProfile {
	return core.WeightProfile{
		Vector:    0.30,
		Lexical:   0.20,
		Title:     0.40,
		Concept:   0,
		Expansion: 0.10,
	}
}

// BaselineProfile returns the baseline for a search type. Unknown types
// fall back to the document profile.
func BaselineProfile(t core.SearchType) core.WeightProfile {
	switch t {
	case core.SearchTypePassage:
		return PassageProfile()
	case core.SearchTypeConcept:
		return ConceptProfile()
	default:
		return DocumentProfile()
	}
}
