package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/conceptrag/core"
)

// MockProvider is a test double for lexicon.Provider.
// It allows custom behavior injection via function fields.
type MockProvider struct {
	// LookupFunc is called by Lookup if set.
	// If nil, serves from the Senses map.
	LookupFunc func(ctx context.Context, word string) ([]core.WordSense, error)

	// Senses maps lowercase words to their senses for the default
	// behavior. Unknown words resolve to no senses.
	Senses map[string][]core.WordSense

	mu        sync.Mutex
	callCount int
	words     []string
}

// NewMockProvider creates a mock provider with an empty sense table.
func NewMockProvider() *MockProvider {
	return &MockProvider{Senses: map[string][]core.WordSense{}}
}

// Lookup returns the configured senses for word.
func (m *MockProvider) Lookup(ctx context.Context, word string) ([]core.WordSense, error) {
	m.mu.Lock()
	m.callCount++
	m.words = append(m.words, word)
	m.mu.Unlock()

	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, word)
	}
	return m.Senses[strings.ToLower(word)], nil
}

// Add registers senses for a word.
func (m *MockProvider) Add(word string, senses ...core.WordSense) {
	m.Senses[strings.ToLower(word)] = senses
}

// CallCount returns the number of Lookup calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Words returns the words looked up so far, in call order.
func (m *MockProvider) Words() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.words...)
}
