package ingestion

import (
	"context"
	"strings"
	"unicode"
)

// minTagTokenLen matches the concept index's minimum lookup length.
const minTagTokenLen = 3

// annotate tags a passage with the corpus concept terms its tokens match
// and computes the concept density stored on the chunk. Lookup failures
// are logged and treated as no match.
func (p *Pipeline) annotate(ctx context.Context, text string) ([]string, float64) {
	if p.concepts == nil {
		return nil, 0
	}

	tokens := tagTokens(text)
	if len(tokens) == 0 {
		return nil, 0
	}

	seen := make(map[string]struct{})
	var names []string
	matched := 0
	for _, token := range tokens {
		if len(token) < minTagTokenLen {
			continue
		}
		terms, err := p.concepts.LookupTerms(ctx, token)
		if err != nil {
			p.logger.Debug("concept lookup failed during tagging", "token", token, "err", err)
			continue
		}
		if len(terms) == 0 {
			continue
		}
		matched++
		for _, term := range terms {
			if _, ok := seen[term.Term]; ok {
				continue
			}
			seen[term.Term] = struct{}{}
			names = append(names, term.Term)
		}
	}

	return names, float64(matched) / float64(len(tokens))
}

// tagTokens lower-cases a passage and splits it on non-alphanumeric runes,
// de-duplicating preserving first-seen order.
func tagTokens(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	tokens := fields[:0]
	for _, field := range fields {
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		tokens = append(tokens, field)
	}
	return tokens
}
