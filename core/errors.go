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

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidConcept indicates a Concept failed validation.
	ErrInvalidConcept = errors.New("invalid concept")

	// ErrInvalidCategory indicates a Category failed validation.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidProfile indicates a WeightProfile failed validation.
	ErrInvalidProfile = errors.New("invalid weight profile")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyName indicates a Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrNegativeWeight indicates a profile weight is negative.
	ErrNegativeWeight = errors.New("weight cannot be negative")

	// ErrWeightSum indicates the profile weights do not sum to 1.0.
	ErrWeightSum = errors.New("weights must sum to 1.0")
)
