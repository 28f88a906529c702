package search

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/conceptrag/ai"
	"github.com/poiesic/conceptrag/core"
	"github.com/poiesic/conceptrag/storage"
)

// overFetchFactor is how many times the requested result count is fetched
// from the vector store for reranking headroom.
const overFetchFactor = 3

// Result caps for the explanation fields.
const (
	maxMatchedConcepts = 5
	maxExpandedUsed    = 10
	maxDebugConcepts   = 3
	maxDebugResults    = 10
)

// Searcher is the hybrid ranking orchestrator: it expands the query,
// over-fetches vector candidates, scores each on five signals, combines
// them under a per-request weight profile and returns the sorted,
// truncated list. Stateless between requests.
type Searcher struct {
	chunks   storage.ChunkRepository
	embedder ai.Embedder
	expander *Expander
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	chunks storage.ChunkRepository,
	embedder ai.Embedder,
	expander *Expander,
	opts ...Option,
) (*Searcher, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if expander == nil {
		return nil, ErrExpanderRequired
	}

	s := &Searcher{
		chunks:   chunks,
		embedder: embedder,
		expander: expander,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// SearchOptions control one search request.
type SearchOptions struct {
	Type    core.SearchType // Defaults to document-level search
	Debug   bool            // Log per-result score breakdowns
	Monitor SearchMonitor   // Optional stage callbacks
}

// Search ranks the corpus against the query and returns up to limit
// results, best first.
func (s *Searcher) Search(ctx context.Context, query string, limit int, opts *SearchOptions) ([]core.RankedResult, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if opts == nil {
		opts = &SearchOptions{}
	}
	searchType := opts.Type
	if searchType == 0 {
		searchType = core.SearchTypeDocument
	}
	monitor := opts.Monitor
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	// 1. Embed the raw query
	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}

	// 2. Expand the query. Transient expansion failures have already
	// degraded to the raw terms inside the expander; an unloaded concept
	// index fails the request.
	expanded, err := s.expander.Expand(ctx, query)
	if err != nil {
		s.logger.Error("error expanding query", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterExpansion(expanded)

	// 3. Over-fetch vector candidates for reranking headroom
	candidates, err := s.chunks.FindSimilar(ctx, embedding, limit*overFetchFactor)
	if err != nil {
		s.logger.Error("error querying for similar chunks", "err", err)
		return nil, err
	}
	ids := make([]core.ID, len(candidates))
	for i, candidate := range candidates {
		ids[i] = candidate.Id
	}
	monitor.AfterCandidateFetch(ids)

	// 4. Compute the adjusted weight profile once per request: it depends
	// only on the expanded query, not on any candidate
	analysis := Analyze(expanded)
	factor := BoostFactor(analysis)
	profile := Adjust(BaselineProfile(searchType), analysis, searchType)
	monitor.AfterWeightAdjustment(profile, factor)

	// 5. Score candidates in parallel; each scoring pass is pure
	results := make([]core.RankedResult, len(candidates))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, candidate := range candidates {
		g.Go(func() error {
			results[i] = scoreCandidate(expanded, candidate, profile, searchType)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i := range results {
		monitor.ScoredCandidate(&results[i])
	}

	// 6. Stable sort, best first; ties retain vector-search order
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}

	if opts.Debug {
		s.logBreakdown(query, searchType, profile, results)
	}
	monitor.Finish(results)

	return results, nil
}

// scoreCandidate computes the five component scores for one candidate and
// combines them under the active profile.
func scoreCandidate(q *core.ExpandedQuery, candidate *core.Chunk, profile core.WeightProfile, searchType core.SearchType) core.RankedResult {
	components := core.ScoreComponents{
		Vector:    VectorScore(candidate.Distance),
		Lexical:   LexicalScore(q, candidate.Text, candidate.Source),
		Concept:   ConceptScore(q, candidate.ConceptNames),
		Expansion: ExpansionScore(q, candidate.Text),
	}
	// The title slot carries a name match for concept-name search
	if searchType == core.SearchTypeConcept {
		components.Title = NameScore(q, candidate.Text)
	} else {
		components.Title = TitleScore(q, candidate.Source)
	}

	return core.RankedResult{
		Id:                candidate.Id,
		Text:              candidate.Text,
		Source:            candidate.Source,
		Scores:            components,
		Score:             profile.Combine(components),
		MatchedConcepts:   matchedConcepts(q, candidate.ConceptNames),
		ExpandedTermsUsed: expandedTermsUsed(q, candidate.Text),
	}
}

// matchedConcepts returns the candidate concepts fuzzy-matching any query
// term, order-preserving and de-duplicated, capped.
func matchedConcepts(q *core.ExpandedQuery, conceptNames []string) []string {
	terms := make([]string, 0, len(q.Original)+len(q.ConceptTerms))
	terms = append(terms, q.Original...)
	terms = append(terms, q.ConceptTerms...)

	var matched []string
	seen := make(map[string]struct{})
	for _, concept := range conceptNames {
		if _, ok := seen[concept]; ok {
			continue
		}
		for _, term := range terms {
			if fuzzyMatch(term, concept) {
				seen[concept] = struct{}{}
				matched = append(matched, concept)
				break
			}
		}
		if len(matched) >= maxMatchedConcepts {
			break
		}
	}
	return matched
}

// expandedTermsUsed returns the expansion terms found in the candidate
// text, capped at 10.
func expandedTermsUsed(q *core.ExpandedQuery, text string) []string {
	lowerText := strings.ToLower(text)
	var used []string
	for _, term := range q.LexicalTerms {
		if strings.Contains(lowerText, strings.ToLower(term)) {
			used = append(used, term)
			if len(used) >= maxExpandedUsed {
				break
			}
		}
	}
	return used
}

// logBreakdown emits the per-result score components for operator tracing.
// Output is for humans; callers must not parse it.
func (s *Searcher) logBreakdown(query string, searchType core.SearchType, profile core.WeightProfile, results []core.RankedResult) {
	s.logger.Debug("search breakdown",
		"query", query,
		"type", searchType.String(),
		"vectorWeight", profile.Vector,
		"lexicalWeight", profile.Lexical,
		"titleWeight", profile.Title,
		"conceptWeight", profile.Concept,
		"expansionWeight", profile.Expansion)

	for i, result := range results {
		if i >= maxDebugResults {
			break
		}
		concepts := result.MatchedConcepts
		if len(concepts) > maxDebugConcepts {
			concepts = concepts[:maxDebugConcepts]
		}
		s.logger.Debug("result breakdown",
			"rank", i+1,
			"id", result.Id,
			"source", result.Source,
			"score", result.Score,
			"vector", result.Scores.Vector,
			"lexical", result.Scores.Lexical,
			"title", result.Scores.Title,
			"concept", result.Scores.Concept,
			"expansion", result.Scores.Expansion,
			"matchedConcepts", concepts)
	}
}
