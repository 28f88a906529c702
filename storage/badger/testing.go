// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

// MemoryStores bundles the in-memory repositories used by tests.
type MemoryStores struct {
	Chunks  *ChunkRepository
	Catalog *CatalogRepository
	Senses  *SenseRepository
	Backend *Backend
}

// Close closes all repositories and the backend.
func (m *MemoryStores) Close() {
	m.Senses.Close()
	m.Catalog.Close()
	m.Chunks.Close()
	m.Backend.Close()
}

// NewMemoryStores creates in-memory chunk, catalog and sense repositories
// for testing. Caller must Close the returned stores when done.
func NewMemoryStores() (*MemoryStores, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	chunks, err := NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	catalog, err := NewCatalogRepository(backend)
	if err != nil {
		chunks.Close()
		backend.Close()
		return nil, err
	}

	senses, err := NewSenseRepository(backend)
	if err != nil {
		catalog.Close()
		chunks.Close()
		backend.Close()
		return nil, err
	}

	return &MemoryStores{
		Chunks:  chunks,
		Catalog: catalog,
		Senses:  senses,
		Backend: backend,
	}, nil
}
