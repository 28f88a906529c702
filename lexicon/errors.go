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

package lexicon

import "errors"

var (
	// ErrProviderRequired indicates a Cache was constructed without an
	// upstream provider.
	ErrProviderRequired = errors.New("lexicon: upstream provider is required")

	// ErrInvalidCacheSize indicates a non-positive in-memory cache size.
	ErrInvalidCacheSize = errors.New("lexicon: cache size must be positive")

	// ErrInvalidTimeout indicates a non-positive lookup timeout.
	ErrInvalidTimeout = errors.New("lexicon: lookup timeout must be positive")
)
