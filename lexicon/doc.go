// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lexicon provides thesaurus-backed lexical expansion for query
// terms: word-sense lookup with caching, sense disambiguation strategies,
// and batch pre-warming of the cache from known concept names.
//
// The Cache wraps any Provider with an in-memory LRU layer and an optional
// durable write-through store. Lookups degrade gracefully: provider errors
// and timeouts resolve to an empty sense list so a slow or unavailable
// thesaurus weakens ranking signals instead of failing requests.
package lexicon
