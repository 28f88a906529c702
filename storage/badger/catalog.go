package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/conceptrag/core"
	"github.com/poiesic/conceptrag/storage"
)

// CatalogRepository implements storage.ConceptStore and storage.CategoryStore
// for BadgerDB. Concepts and categories live side by side: both are consumed
// wholesale at startup to populate the ID resolution caches.
type CatalogRepository struct {
	backend *Backend
}

var (
	_ storage.ConceptStore  = (*CatalogRepository)(nil)
	_ storage.CategoryStore = (*CatalogRepository)(nil)
)

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(backend *Backend) (*CatalogRepository, error) {
	return &CatalogRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CatalogRepository has no resources to release.
func (r *CatalogRepository) Close() error {
	return nil
}

// AddConcepts adds one or more concepts to storage.
func (r *CatalogRepository) AddConcepts(ctx context.Context, concepts ...*core.Concept) ([]*core.Concept, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, concept := range concepts {
			if err := core.ValidateConcept(concept); err != nil {
				return err
			}

			// Use name-based ID if not set
			if concept.Id == 0 {
				concept.Id = core.IDFromName(concept.Name)
			}

			key := makeConceptKey(concept.Id)
			value := storage.MarshalConcept(concept)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return concepts, err
}

// DeleteConcepts removes concepts by their IDs.
func (r *CatalogRepository) DeleteConcepts(ctx context.Context, ids ...core.ID) error {
	return r.deleteByKeys(makeConceptKey, ids)
}

// LoadAllConcepts retrieves every concept from storage.
func (r *CatalogRepository) LoadAllConcepts(ctx context.Context) ([]*core.Concept, error) {
	var results []*core.Concept
	err := r.scanPrefix(conceptRecordPrefix, func(val []byte) error {
		concept, err := storage.UnmarshalConcept(val)
		if err != nil {
			return err
		}
		results = append(results, concept)
		return nil
	})
	return results, err
}

// AddCategories adds one or more categories to storage.
func (r *CatalogRepository) AddCategories(ctx context.Context, categories ...*core.Category) ([]*core.Category, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, category := range categories {
			if err := core.ValidateCategory(category); err != nil {
				return err
			}

			// Use name-based ID if not set
			if category.Id == 0 {
				category.Id = core.IDFromName(category.Name)
			}

			key := makeCategoryKey(category.Id)
			value := storage.MarshalCategory(category)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return categories, err
}

// DeleteCategories removes categories by their IDs.
func (r *CatalogRepository) DeleteCategories(ctx context.Context, ids ...core.ID) error {
	return r.deleteByKeys(makeCategoryKey, ids)
}

// LoadAllCategories retrieves every category from storage.
func (r *CatalogRepository) LoadAllCategories(ctx context.Context) ([]*core.Category, error) {
	var results []*core.Category
	err := r.scanPrefix(categoryRecordPrefix, func(val []byte) error {
		category, err := storage.UnmarshalCategory(val)
		if err != nil {
			return err
		}
		results = append(results, category)
		return nil
	})
	return results, err
}

// deleteByKeys removes records by ID using the given key constructor.
func (r *CatalogRepository) deleteByKeys(makeKey func(core.ID) []byte, ids []core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeKey(id)
			if _, err := tx.Get(key); err != nil {
				if err == badger.ErrKeyNotFound {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// scanPrefix iterates all values under a key prefix.
func (r *CatalogRepository) scanPrefix(prefix string, fn func(val []byte) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		p := []byte(prefix + ":")
		for iter.Seek(p); iter.Valid(); iter.Next() {
			item := iter.Item()
			if !hasPrefix(item.Key(), p) {
				break
			}
			if err := item.Value(fn); err != nil {
				return err
			}
		}
		return nil
	}, false)
}
