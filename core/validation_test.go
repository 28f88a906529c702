package core

import (
	"errors"
	"testing"
)

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name:  "valid chunk",
			chunk: &Chunk{Id: 1, Text: "some passage text", Source: "docs/arch.md"},
		},
		{
			name:  "valid chunk without metadata",
			chunk: &Chunk{Text: "bare text"},
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "empty text",
			chunk:   &Chunk{Id: 1, Source: "docs/arch.md"},
			wantErr: ErrEmptyText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		name     string
		category *Category
		wantErr  error
	}{
		{
			name:     "valid category",
			category: &Category{Id: 1, Name: "distributed systems", DocCount: 3},
		},
		{
			name:    "nil category",
			wantErr: ErrInvalidCategory,
		},
		{
			name:     "empty name",
			category: &Category{Id: 1},
			wantErr:  ErrEmptyName,
		},
		{
			name:     "negative counter",
			category: &Category{Id: 1, Name: "x", ChunkCount: -1},
			wantErr:  ErrInvalidCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCategory(tt.category)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCategory() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCategory() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile WeightProfile
		wantErr error
	}{
		{
			name:    "document baseline",
			profile: WeightProfile{Vector: 0.30, Lexical: 0.25, Title: 0.20, Concept: 0.15, Expansion: 0.10},
		},
		{
			name:    "passage baseline",
			profile: WeightProfile{Vector: 0.35, Lexical: 0.30, Concept: 0.20, Expansion: 0.15},
		},
		{
			name:    "within tolerance",
			profile: WeightProfile{Vector: 0.300001, Lexical: 0.25, Title: 0.20, Concept: 0.15, Expansion: 0.099999},
		},
		{
			name:    "sum too low",
			profile: WeightProfile{Vector: 0.5},
			wantErr: ErrWeightSum,
		},
		{
			name:    "negative weight",
			profile: WeightProfile{Vector: 1.2, Lexical: -0.2},
			wantErr: ErrNegativeWeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProfile(tt.profile)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateProfile() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateProfile() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
