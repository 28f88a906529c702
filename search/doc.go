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

// Package search implements the hybrid ranking engine: it turns a raw
// query string and a set of vector-similarity candidates into a final,
// explainable ranked list.
//
// A query is first expanded through corpus concepts and the lexical
// thesaurus into a weighted term set. Candidates fetched from the vector
// store are then scored on five independent signals:
//   - Vector similarity
//   - Weighted BM25-style lexical overlap
//   - Title or concept-name match
//   - Concept match
//   - Lexical-expansion bonus
//
// A per-request weight profile, derived from the query's shape by the
// dynamic adjuster, combines the signals into one hybrid score. Scoring is
// pure and deterministic: the same query against unchanged state produces
// identical rankings.
package search
