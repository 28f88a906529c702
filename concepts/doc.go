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


// Package concepts provides the in-memory ID resolution caches consulted on
// every scoring pass: a concept cache mapping identifiers to canonical names
// and a category cache that additionally carries hierarchy, alias and usage
// metadata.
//
// Caches are explicitly constructed and populated once from a backing store
// via LoadFrom; they are read-mostly afterwards. Reads against an
// unpopulated cache fail hard with ErrNotInitialized rather than silently
// resolving nothing. Single-entry mutations are supported for incremental
// updates; bulk reinitialization requires an explicit Clear.
//
// # Concurrency
//
// Readers operate on an immutable snapshot swapped atomically by writers, so
// concurrent readers see either the pre- or post-mutation state, never a
// partially updated entry. Mutations are expected from a single writer at a
// time.
package concepts
