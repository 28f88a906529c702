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


package core

import (
	"fmt"
	"math"
)

// weightSumTolerance is the floating-point tolerance for profile validation.
const weightSumTolerance = 1e-5

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//
// NOT validated (populated by ingestion, tolerated as absent by scoring):
//   - Vector (chunks without embeddings never reach the ranking engine)
//   - ConceptNames / CategoryNames (malformed metadata scores as absent)
//   - ID (0 is replaced with a content-derived ID on insert)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyText)
	}

	return nil
}

// ValidateConcept validates a Concept according to domain rules.
func ValidateConcept(concept *Concept) error {
	if concept == nil {
		return fmt.Errorf("%w: concept is nil", ErrInvalidConcept)
	}

	if concept.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConcept, ErrEmptyName)
	}

	return nil
}

// ValidateCategory validates a Category according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Usage counters must not be negative
func ValidateCategory(category *Category) error {
	if category == nil {
		return fmt.Errorf("%w: category is nil", ErrInvalidCategory)
	}

	if category.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCategory, ErrEmptyName)
	}

	if category.DocCount < 0 || category.ChunkCount < 0 || category.ConceptCount < 0 {
		return fmt.Errorf("%w: usage counters cannot be negative", ErrInvalidCategory)
	}

	return nil
}

// ValidateProfile validates a WeightProfile according to domain rules.
//
// Validation rules:
//   - All five weights must be non-negative
//   - The weights must sum to 1.0 within floating-point tolerance
func ValidateProfile(profile WeightProfile) error {
	for _, w := range []float64{profile.Vector, profile.Lexical, profile.Title, profile.Concept, profile.Expansion} {
		if w < 0 {
			return fmt.Errorf("%w: %w", ErrInvalidProfile, ErrNegativeWeight)
		}
	}

	if math.Abs(profile.Sum()-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: %w: got %v", ErrInvalidProfile, ErrWeightSum, profile.Sum())
	}

	return nil
}
