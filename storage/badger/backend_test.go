package badger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open in-memory backend: %v", err)
	}
	defer backend.Close()

	if backend.IsClosed() {
		t.Fatal("Backend should not be closed")
	}
}

func TestOpenBackend_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")

	backend, err := OpenBackend(dir, false)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()
}

func TestOpenBackend_RejectsFile(t *testing.T) {
	// A path that exists but is not a directory must be rejected
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	if _, err := OpenBackend(file, false); err == nil {
		t.Fatal("Expected error for non-directory path")
	}
}

func TestBackend_WithTx(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}
	defer backend.Close()

	key := []byte("test:key")
	value := []byte("test value")

	err = backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		t.Fatalf("Write transaction failed: %v", err)
	}

	err = backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if string(val) != string(value) {
				t.Fatalf("Expected %q, got %q", value, val)
			}
			return nil
		})
	}, false)
	if err != nil {
		t.Fatalf("Read transaction failed: %v", err)
	}
}

func TestBackend_Close(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open backend: %v", err)
	}

	if err := backend.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if !backend.IsClosed() {
		t.Fatal("Backend should report closed")
	}
}
