package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/conceptrag/concepts"
	"github.com/poiesic/conceptrag/core"
	"github.com/poiesic/conceptrag/lexicon"
	"github.com/poiesic/conceptrag/storage"
)

// Expansion caps and source weights. Original terms rank highest, then
// synonyms of the best-matching sense, then broader terms.
const (
	originalTermWeight = 1.0
	synonymWeight      = 0.6
	hypernymWeight     = 0.4
	maxSynonyms        = 5
	maxHypernyms       = 2
)

// Expander builds the weighted term set for one query by combining the
// original terms, corpus concept terms and thesaurus expansions.
type Expander struct {
	lexicon  lexicon.Provider
	concepts storage.ConceptIndex
	strategy lexicon.SynsetStrategy
	hints    []string
	logger   *slog.Logger
}

// ExpanderOption configures an Expander.
type ExpanderOption func(*Expander) error

// WithStrategy sets the sense disambiguation strategy.
// Default is the context-aware strategy.
func WithStrategy(strategy lexicon.SynsetStrategy) ExpanderOption {
	return func(e *Expander) error {
		if strategy != nil {
			e.strategy = strategy
		}
		return nil
	}
}

// WithDomainHints sets fixed domain hints passed to the sense
// disambiguation strategy for every query.
func WithDomainHints(hints ...string) ExpanderOption {
	return func(e *Expander) error {
		e.hints = hints
		return nil
	}
}

// WithExpanderLogger sets a custom logger.
// Default is slog.Default().
func WithExpanderLogger(logger *slog.Logger) ExpanderOption {
	return func(e *Expander) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewExpander creates a query expander. The concept index may be nil, in
// which case corpus concept expansion is skipped.
func NewExpander(lex lexicon.Provider, concepts storage.ConceptIndex, opts ...ExpanderOption) (*Expander, error) {
	if lex == nil {
		return nil, ErrLexiconRequired
	}

	e := &Expander{
		lexicon:  lex,
		concepts: concepts,
		strategy: lexicon.NewContextAwareStrategy(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Expand builds the expanded query for a raw query string. An empty query
// is valid and yields an empty term set; transient expansion failures
// degrade to the unexpanded terms rather than erroring. An unpopulated
// concept index is not transient: it means the caller skipped cache
// loading, and Expand fails rather than silently dropping the concept
// signal.
func (e *Expander) Expand(ctx context.Context, query string) (*core.ExpandedQuery, error) {
	original := tokenizeAndFilter(query)

	q := &core.ExpandedQuery{
		Original: original,
		Weights:  make(map[string]float64, len(original)*4),
	}
	for _, term := range original {
		setWeight(q, term, originalTermWeight)
	}

	if err := e.expandConcepts(ctx, q); err != nil {
		return nil, err
	}
	e.expandLexical(ctx, q)

	// Union preserves first-seen order within each source group
	seen := make(map[string]struct{}, len(q.Original)+len(q.ConceptTerms)+len(q.LexicalTerms))
	for _, group := range [][]string{q.Original, q.ConceptTerms, q.LexicalTerms} {
		for _, term := range group {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			q.AllTerms = append(q.AllTerms, term)
		}
	}
	return q, nil
}

// expandConcepts adds corpus concept terms related to each original term.
// An uninitialized index is a hard error; other lookup failures are logged
// and skipped.
func (e *Expander) expandConcepts(ctx context.Context, q *core.ExpandedQuery) error {
	if e.concepts == nil {
		return nil
	}
	for _, term := range q.Original {
		related, err := e.concepts.LookupTerms(ctx, term)
		if err != nil {
			if errors.Is(err, concepts.ErrNotInitialized) {
				return fmt.Errorf("concept index not loaded: %w", err)
			}
			e.logger.Debug("concept index lookup failed", "term", term, "err", err)
			continue
		}
		for _, wt := range related {
			if !setWeight(q, wt.Term, wt.Weight) {
				continue
			}
			q.ConceptTerms = append(q.ConceptTerms, wt.Term)
		}
	}
	return nil
}

// expandLexical adds synonyms and broader terms of each original term's
// most query-relevant sense.
func (e *Expander) expandLexical(ctx context.Context, q *core.ExpandedQuery) {
	sctx := core.SelectionContext{QueryTerms: q.Original, DomainHints: e.hints}

	for i, term := range q.Original {
		senses, err := e.lexicon.Lookup(ctx, term)
		if err != nil {
			e.logger.Debug("lexical lookup failed", "term", term, "err", err)
			continue
		}
		if len(senses) == 0 {
			continue
		}

		// Relevance filtering matches against the other query terms: the
		// looked-up word itself trivially matches every one of its senses
		others := make([]string, 0, len(q.Original)-1)
		others = append(others, q.Original[:i]...)
		others = append(others, q.Original[i+1:]...)

		sense, ok := e.strategy.Select(lexicon.FilterTechnicalSenses(senses, others), sctx)
		if !ok {
			continue
		}

		added := 0
		for _, synonym := range sense.Synonyms {
			if added >= maxSynonyms {
				break
			}
			for _, token := range tokenizeAndFilter(synonym) {
				if setWeight(q, token, synonymWeight) {
					q.LexicalTerms = append(q.LexicalTerms, token)
				}
			}
			added++
		}

		added = 0
		for _, hypernym := range sense.Hypernyms {
			if added >= maxHypernyms {
				break
			}
			for _, token := range tokenizeAndFilter(hypernym) {
				if setWeight(q, token, hypernymWeight) {
					q.LexicalTerms = append(q.LexicalTerms, token)
				}
			}
			added++
		}
	}
}

// setWeight records a term's weight unless the term already carries one.
// Reports whether the term was new.
func setWeight(q *core.ExpandedQuery, term string, weight float64) bool {
	if _, ok := q.Weights[term]; ok {
		return false
	}
	q.Weights[term] = weight
	return true
}
