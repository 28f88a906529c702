// Package wordnet implements a lexicon.Provider that shells out to the
// WordNet `wn` command-line tool. Each lookup runs the binary once per
// relation type and parses its plain-text output; malformed output yields
// empty senses rather than an error.
package wordnet

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/conceptrag/core"
)

const defaultBinary = "wn"

// Relation caps mirror the sense model limits.
const (
	maxHypernyms = 5
	maxHyponyms  = 5
	maxMeronyms  = 3
)

// Provider looks up word senses by invoking the wn binary.
type Provider struct {
	binary string
	logger *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider) error

// WithBinary sets the path to the wn executable.
// Default is "wn" resolved from PATH.
func WithBinary(path string) Option {
	return func(p *Provider) error {
		if path != "" {
			p.binary = path
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// New creates a subprocess-backed provider.
func New(opts ...Option) (*Provider, error) {
	p := &Provider{
		binary: defaultBinary,
		logger: slog.Default().With("component", "wordnet"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Lookup runs the wn overview search for word and enriches the parsed
// senses with hypernym, hyponym and meronym relations. A word unknown to
// WordNet yields an empty slice and no error; only a failure to execute
// the binary itself is reported.
func (p *Provider) Lookup(ctx context.Context, word string) ([]core.WordSense, error) {
	out, err := p.run(ctx, word, "-over")
	if err != nil {
		if isNotFound(err) {
			return []core.WordSense{}, nil
		}
		return nil, err
	}

	senses := parseOverview(word, out)
	if len(senses) == 0 {
		return []core.WordSense{}, nil
	}

	p.attachRelations(ctx, word, "-hypen", senses, maxHypernyms, func(s *core.WordSense, terms []string) {
		s.Hypernyms = terms
	})
	p.attachRelations(ctx, word, "-hypon", senses, maxHyponyms, func(s *core.WordSense, terms []string) {
		s.Hyponyms = terms
	})
	p.attachRelations(ctx, word, "-meron", senses, maxMeronyms, func(s *core.WordSense, terms []string) {
		s.Meronyms = terms
	})

	return senses, nil
}

func (p *Provider) run(ctx context.Context, word string, searchFlag string) (string, error) {
	cmd := exec.CommandContext(ctx, p.binary, word, searchFlag, "-n")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// attachRelations runs one relation search and merges the parsed terms
// into the senses by sense number. Relation lookups are best-effort.
func (p *Provider) attachRelations(ctx context.Context, word, searchFlag string, senses []core.WordSense, limit int, set func(*core.WordSense, []string)) {
	out, err := p.run(ctx, word, searchFlag)
	if err != nil {
		if !isNotFound(err) {
			p.logger.Debug("wordnet relation search failed", "word", word, "search", searchFlag, "err", err)
		}
		return
	}

	for senseNum, terms := range parseRelations(out) {
		if senseNum < 1 || senseNum > len(senses) {
			continue
		}
		if len(terms) > limit {
			terms = terms[:limit]
		}
		set(&senses[senseNum-1], terms)
	}
}

// senseLine matches the start of a numbered sense in overview output,
// e.g. `1. (5) cache, memory cache -- ((computer science) RAM that ...)`.
var senseLine = regexp.MustCompile(`^(\d+)\.\s+(?:\(\d+\)\s+)?(.+)$`)

// parseOverview extracts senses from `wn <word> -over -n` output. Wrapped
// definition lines are joined before splitting the synonym list from the
// parenthesized definition. Lines that do not fit the format are skipped.
func parseOverview(word string, out string) []core.WordSense {
	var blocks []string
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if senseLine.MatchString(trimmed) {
			blocks = append(blocks, trimmed)
			continue
		}
		// Continuation of a wrapped definition
		if len(blocks) > 0 {
			blocks[len(blocks)-1] += " " + trimmed
		}
	}

	var senses []core.WordSense
	for _, block := range blocks {
		m := senseLine.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}

		body := m[2]
		sep := strings.Index(body, " -- (")
		if sep < 0 || !strings.HasSuffix(body, ")") {
			continue
		}
		definition := body[sep+len(" -- (") : len(body)-1]

		var synonyms []string
		for _, part := range strings.Split(body[:sep], ",") {
			synonym := strings.TrimSpace(part)
			if synonym == "" || strings.EqualFold(synonym, word) {
				continue
			}
			synonyms = append(synonyms, synonym)
		}

		senses = append(senses, core.WordSense{
			Word:       strings.ToLower(word),
			SenseID:    strconv.Itoa(num),
			Synonyms:   synonyms,
			Definition: definition,
		})
	}
	return senses
}

var senseHeader = regexp.MustCompile(`^Sense (\d+)$`)

// parseRelations extracts related terms per sense from a relation search
// such as -hypen. Related synsets appear as `=> term, term` lines under a
// `Sense N` header; only the first relation level is taken.
func parseRelations(out string) map[int][]string {
	relations := make(map[int][]string)
	current := 0
	depth := -1
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := senseHeader.FindStringSubmatch(trimmed); m != nil {
			current, _ = strconv.Atoi(m[1])
			depth = -1
			continue
		}
		if current == 0 || !strings.HasPrefix(trimmed, "=> ") {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if depth == -1 {
			depth = indent
		}
		if indent != depth {
			continue
		}

		for _, part := range strings.Split(strings.TrimPrefix(trimmed, "=> "), ",") {
			term := strings.TrimSpace(part)
			if term != "" {
				relations[current] = append(relations[current], term)
			}
		}
	}
	return relations
}

// isNotFound reports whether a wn invocation failed only because the word
// has no entries: wn exits non-zero when a search finds nothing.
func isNotFound(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode() > 0
	}
	return false
}
