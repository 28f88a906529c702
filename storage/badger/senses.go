package badger

import (
	"context"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/conceptrag/core"
	"github.com/poiesic/conceptrag/storage"
)

// SenseRepository implements storage.SenseStore for BadgerDB.
// It is the durable write-through layer behind the lexical expansion
// provider: words looked up once survive process restarts, including words
// the thesaurus knows nothing about.
type SenseRepository struct {
	backend *Backend
}

var _ storage.SenseStore = (*SenseRepository)(nil)

// NewSenseRepository creates a new SenseRepository.
func NewSenseRepository(backend *Backend) (*SenseRepository, error) {
	return &SenseRepository{
		backend: backend,
	}, nil
}

// Close releases resources. SenseRepository has no resources to release.
func (r *SenseRepository) Close() error {
	return nil
}

// GetSenses retrieves the cached senses for a word.
// The second return value reports whether the word was cached at all.
func (r *SenseRepository) GetSenses(ctx context.Context, word string) ([]core.WordSense, bool, error) {
	var senses []core.WordSense
	found := false

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSenseKey(normalizeWord(word)))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			var err error
			senses, err = storage.UnmarshalSenses(val)
			return err
		})
	}, false)

	if err != nil {
		return nil, false, err
	}
	return senses, found, nil
}

// PutSenses stores the senses for a word, including empty results.
func (r *SenseRepository) PutSenses(ctx context.Context, word string, senses []core.WordSense) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSenseKey(normalizeWord(word))
		if err := tx.Set(key, storage.MarshalSenses(senses)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// normalizeWord lowercases and trims a word for use as a cache key.
func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
