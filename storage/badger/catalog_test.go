package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/conceptrag/core"
	"github.com/poiesic/conceptrag/storage"
)

func TestCatalogConcepts(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	added, err := stores.Catalog.AddConcepts(ctx,
		&core.Concept{Name: "microservices"},
		&core.Concept{Name: "service mesh"},
	)
	if err != nil {
		t.Fatalf("Failed to add concepts: %v", err)
	}

	if added[0].Id != core.IDFromName("microservices") {
		t.Fatal("Expected name-derived ID")
	}

	all, err := stores.Catalog.LoadAllConcepts(ctx)
	if err != nil {
		t.Fatalf("LoadAllConcepts failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 concepts, got %d", len(all))
	}

	if err := stores.Catalog.DeleteConcepts(ctx, added[0].Id); err != nil {
		t.Fatalf("Failed to delete concept: %v", err)
	}

	all, err = stores.Catalog.LoadAllConcepts(ctx)
	if err != nil {
		t.Fatalf("LoadAllConcepts failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 concept after delete, got %d", len(all))
	}

	if err := stores.Catalog.DeleteConcepts(ctx, core.ID(12345)); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestCatalogCategories(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	parent := &core.Category{Name: "distributed systems"}
	child := &core.Category{
		Name:        "event streaming",
		Description: "log-based messaging",
		Aliases:     []string{"streaming"},
		DocCount:    4,
	}

	if _, err := stores.Catalog.AddCategories(ctx, parent); err != nil {
		t.Fatalf("Failed to add parent: %v", err)
	}
	child.Parent = parent.Id
	if _, err := stores.Catalog.AddCategories(ctx, child); err != nil {
		t.Fatalf("Failed to add child: %v", err)
	}

	all, err := stores.Catalog.LoadAllCategories(ctx)
	if err != nil {
		t.Fatalf("LoadAllCategories failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(all))
	}

	for _, cat := range all {
		if cat.Name == "event streaming" {
			if cat.Parent != parent.Id {
				t.Fatal("Parent ID not preserved")
			}
			if len(cat.Aliases) != 1 || cat.Aliases[0] != "streaming" {
				t.Fatalf("Aliases not preserved: %v", cat.Aliases)
			}
			if cat.DocCount != 4 {
				t.Fatalf("DocCount not preserved: %d", cat.DocCount)
			}
		}
	}
}

func TestCatalogRejectsInvalid(t *testing.T) {
	stores, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()

	if _, err := stores.Catalog.AddConcepts(ctx, &core.Concept{}); err == nil {
		t.Fatal("Expected validation error for unnamed concept")
	}

	if _, err := stores.Catalog.AddCategories(ctx, &core.Category{}); err == nil {
		t.Fatal("Expected validation error for unnamed category")
	}
}
