package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is derived from canonical names using content-based hashing so that
// identifiers stay stable across cache rebuilds.
type ID uint64

// IDFromName generates a deterministic ID from a canonical name using
// BLAKE2b hashing. Names are lowercased and trimmed before hashing so that
// "Microservices" and " microservices " produce the same identifier.
func IDFromName(name string) ID {
	canonical := strings.ToLower(strings.TrimSpace(name))
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(canonical))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Concept is a corpus-derived concept with a resolvable identifier.
type Concept struct {
	Id   ID
	Name string
}

// Category is a corpus-derived category with hierarchy and alias metadata.
// Parent is zero for root categories.
type Category struct {
	Id           ID
	Name         string
	Description  string
	Parent       ID
	Aliases      []string
	Related      []ID
	DocCount     int // Documents tagged with this category
	ChunkCount   int // Passages tagged with this category
	ConceptCount int // Concepts filed under this category
}

// Chunk is one embedded passage of a document: the candidate row returned by
// vector search before hybrid rescoring.
type Chunk struct {
	Id            ID
	Text          string
	Source        string // Path of the originating document
	Vector        []float32
	Distance      float64 // Vector distance from the query embedding
	ConceptNames  []string
	CategoryNames []string
	Density       float64 // Concept density metric from ingestion
}

// WordSense is one distinct meaning of a word from the lexical thesaurus,
// with its own synonyms, broader/narrower terms and definition.
// Never mutated after creation.
type WordSense struct {
	Word       string
	SenseID    string
	Synonyms   []string
	Hypernyms  []string // Broader terms, at most 5
	Hyponyms   []string // Narrower terms, at most 5
	Meronyms   []string // Part-whole relations, at most 3
	Definition string
}

// SelectionContext carries the active query's terms and optional domain
// hints, used to disambiguate among multiple senses of the same word.
type SelectionContext struct {
	QueryTerms  []string
	DomainHints []string
}

// ExpandedQuery is the weighted term set built per request by the query
// expander and discarded after scoring.
type ExpandedQuery struct {
	Original     []string // Terms typed by the user, in order
	ConceptTerms []string // Corpus-derived concept terms
	LexicalTerms []string // Thesaurus-derived terms
	AllTerms     []string // Union, first-seen order within each source group
	Weights      map[string]float64
}

// defaultTermWeight applies to terms that carry no explicit source weight.
const defaultTermWeight = 0.5

// Weight returns the relevance weight for a term, defaulting to 0.5 for
// terms without an explicit source weight.
func (q *ExpandedQuery) Weight(term string) float64 {
	if w, ok := q.Weights[term]; ok {
		return w
	}
	return defaultTermWeight
}

// ScoreComponents holds the five independent relevance scores for one
// candidate, each in [0,1].
type ScoreComponents struct {
	Vector    float64 // Vector similarity
	Lexical   float64 // Weighted BM25-style overlap
	Title     float64 // Title/name match
	Concept   float64 // Concept match
	Expansion float64 // Lexical-expansion bonus
}

// WeightProfile holds the five per-signal weights applied for one search
// type in one request. Valid profiles are non-negative and sum to 1.0.
type WeightProfile struct {
	Vector    float64
	Lexical   float64
	Title     float64
	Concept   float64
	Expansion float64
}

// Sum returns the total of the five weights.
func (p WeightProfile) Sum() float64 {
	return p.Vector + p.Lexical + p.Title + p.Concept + p.Expansion
}

// Combine applies the profile to a set of score components, returning the
// hybrid score.
func (p WeightProfile) Combine(s ScoreComponents) float64 {
	return p.Vector*s.Vector +
		p.Lexical*s.Lexical +
		p.Title*s.Title +
		p.Concept*s.Concept +
		p.Expansion*s.Expansion
}

// SearchType selects which baseline weight profile applies and whether the
// title slot scores document titles or concept names.
type SearchType int

const (
	// SearchTypeDocument ranks whole documents.
	SearchTypeDocument SearchType = iota + 1
	// SearchTypePassage ranks individual passages; passages have no
	// meaningful title so the title weight is zero.
	SearchTypePassage
	// SearchTypeConcept ranks concept names; the title slot rewards name
	// equality and containment instead of path matches.
	SearchTypeConcept
)

// String returns the search type name for logging.
func (t SearchType) String() string {
	switch t {
	case SearchTypeDocument:
		return "document"
	case SearchTypePassage:
		return "passage"
	case SearchTypeConcept:
		return "concept"
	default:
		return "unknown"
	}
}

// RankedResult is one scored entry in the final ranked list returned to the
// caller. Plain value, no ownership subtleties.
type RankedResult struct {
	Id                ID
	Text              string
	Source            string
	Scores            ScoreComponents
	Score             float64  // Combined hybrid score
	MatchedConcepts   []string // Capped, order-preserving, de-duplicated
	ExpandedTermsUsed []string // At most 10
}
