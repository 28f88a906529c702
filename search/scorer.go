package search

import (
	"path"
	"strings"

	"github.com/poiesic/conceptrag/core"
)

// BM25 parameters for the weighted lexical score.
const (
	bm25K1        = 1.5
	bm25B         = 0.75
	avgDocLength  = 100.0
	exactTermFreq = 1.0
	prefixFreq    = 0.5
	substringFreq = 0.25

	// Per-term normalization ceiling; a matched term contributes at most
	// 2.5 raw BM25 points given the weight and frequency caps.
	perTermCeiling = 2.5
)

// Title and name match weights.
const (
	filenameWordWeight   = 2.0
	pathWordWeight       = 1.0
	filenamePrefixWeight = 1.0
	pathPrefixWeight     = 0.5
	nameContainsWeight   = 2.0
	nameContainedWeight  = 1.5
	titleNormFactor      = 2.0
)

// Minimum term lengths for partial matching.
const (
	minPrefixLen    = 3
	minSubstringLen = 4
	minTitlePrefix  = 4
)

// VectorScore converts a vector distance into a similarity score in [0,1].
// Distance 0 scores 1.0; distances of 1 or more score 0.
func VectorScore(distance float64) float64 {
	return clamp01(1 - distance)
}

// LexicalScore computes a BM25-style weighted overlap between the expanded
// query and the candidate's text and source path. Term frequency counts
// exact token matches fully, token-prefix matches at half weight, and
// substring matches at quarter weight. The raw BM25 sum is normalized by
// the matched-term count and blended equally with term coverage so
// candidates matching many different terms beat candidates matching one
// term often. No matched terms yields 0.
func LexicalScore(q *core.ExpandedQuery, text, source string) float64 {
	if len(q.AllTerms) == 0 {
		return 0
	}

	tokens := tokenize(text + " " + source)
	if len(tokens) == 0 {
		return 0
	}
	docLen := float64(len(tokens))
	lengthNorm := bm25K1 * (1 - bm25B + bm25B*docLen/avgDocLength)

	var raw float64
	matched := 0
	for _, term := range q.AllTerms {
		tf := termFrequency(term, tokens)
		if tf == 0 {
			continue
		}
		matched++
		raw += q.Weight(term) * (tf * (bm25K1 + 1)) / (tf + lengthNorm)
	}
	if matched == 0 {
		return 0
	}

	normalized := clamp01(raw / (float64(matched) * perTermCeiling))
	coverage := float64(matched) / float64(len(q.AllTerms))
	return 0.5*normalized + 0.5*coverage
}

// termFrequency counts weighted occurrences of a term in the tokens: each
// token counts once at its best match level.
func termFrequency(term string, tokens []string) float64 {
	var tf float64
	for _, token := range tokens {
		switch {
		case token == term:
			tf += exactTermFreq
		case len(term) >= minPrefixLen && strings.HasPrefix(token, term):
			tf += prefixFreq
		case len(term) >= minSubstringLen && strings.Contains(token, term):
			tf += substringFreq
		}
	}
	return tf
}

// TitleScore rewards query terms matching the candidate's filename and
// path. Whole-word filename matches count double whole-word path matches;
// prefix matches of longer terms count at half those weights. The score is
// normalized by twice the term count and capped at 1.
func TitleScore(q *core.ExpandedQuery, source string) float64 {
	if len(q.AllTerms) == 0 || source == "" {
		return 0
	}

	filenameTokens := splitAlphanumeric(path.Base(source))
	pathTokens := splitAlphanumeric(source)

	var matches float64
	for _, term := range q.AllTerms {
		matches += titleTermMatch(strings.ToLower(term), filenameTokens, pathTokens)
	}
	return clamp01(matches / (float64(len(q.AllTerms)) * titleNormFactor))
}

// titleTermMatch returns the best match weight for one term against the
// filename and path tokens.
func titleTermMatch(term string, filenameTokens, pathTokens []string) float64 {
	best := 0.0
	consider := func(w float64) {
		if w > best {
			best = w
		}
	}

	for _, token := range filenameTokens {
		if token == term {
			consider(filenameWordWeight)
		} else if len(term) >= minTitlePrefix && strings.HasPrefix(token, term) {
			consider(filenamePrefixWeight)
		}
	}
	for _, token := range pathTokens {
		if token == term {
			consider(pathWordWeight)
		} else if len(term) >= minTitlePrefix && strings.HasPrefix(token, term) {
			consider(pathPrefixWeight)
		}
	}
	return best
}

// NameScore is the concept-name variant of the title score: exact equality
// with the query wins outright, containment of a query term in the name
// counts double, containment of the name in a query term counts 1.5.
func NameScore(q *core.ExpandedQuery, name string) float64 {
	if len(q.AllTerms) == 0 || name == "" {
		return 0
	}

	lowerName := strings.ToLower(strings.TrimSpace(name))
	if lowerName == strings.ToLower(strings.Join(q.Original, " ")) {
		return 1.0
	}

	var matches float64
	for _, term := range q.AllTerms {
		lowerTerm := strings.ToLower(term)
		switch {
		case lowerTerm == lowerName:
			matches += nameContainsWeight
		case strings.Contains(lowerName, lowerTerm):
			matches += nameContainsWeight
		case strings.Contains(lowerTerm, lowerName):
			matches += nameContainedWeight
		}
	}
	return clamp01(matches / (float64(len(q.AllTerms)) * titleNormFactor))
}

// ConceptScore measures overlap between the query's original and corpus
// concept terms and the candidate's attached concept names, using fuzzy
// bidirectional substring matching. Each query term contributes its
// expansion weight once if any candidate concept matches it.
func ConceptScore(q *core.ExpandedQuery, conceptNames []string) float64 {
	if len(conceptNames) == 0 {
		return 0
	}

	relevant := make([]string, 0, len(q.Original)+len(q.ConceptTerms))
	relevant = append(relevant, q.Original...)
	relevant = append(relevant, q.ConceptTerms...)
	if len(relevant) == 0 {
		return 0
	}

	var sum float64
	for _, term := range relevant {
		for _, concept := range conceptNames {
			if fuzzyMatch(term, concept) {
				sum += q.Weight(term)
				break
			}
		}
	}
	return clamp01(sum / float64(len(relevant)))
}

// ExpansionScore is the fraction of thesaurus-derived terms appearing as
// case-insensitive substrings of the candidate text. Queries with no
// lexical expansion score 0.
func ExpansionScore(q *core.ExpandedQuery, text string) float64 {
	if len(q.LexicalTerms) == 0 {
		return 0
	}

	lowerText := strings.ToLower(text)
	matched := 0
	for _, term := range q.LexicalTerms {
		if strings.Contains(lowerText, strings.ToLower(term)) {
			matched++
		}
	}
	return float64(matched) / float64(len(q.LexicalTerms))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
