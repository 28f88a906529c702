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


package concepts

import "errors"

var (
	// ErrNotInitialized indicates a cache was read before being populated.
	// This is a programming error: silent empty caches would corrupt every
	// subsequent name resolution, so reads fail loudly instead.
	ErrNotInitialized = errors.New("cache not initialized")

	// ErrNotFound indicates the requested entry is not in the cache.
	ErrNotFound = errors.New("entry not found")

	// ErrStoreRequired is returned when a backing store is not provided.
	ErrStoreRequired = errors.New("backing store required")
)
