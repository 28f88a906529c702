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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/conceptrag/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: id: %v", ErrSerializationFailed, err)
	}
	return id, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, core.ChunkMUS.Size(*chunk))
	core.ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := core.ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: chunk: %v", ErrSerializationFailed, err)
	}
	return &chunk, nil
}

// MarshalConcept serializes a Concept to bytes.
func MarshalConcept(concept *core.Concept) []byte {
	buf := make([]byte, core.ConceptMUS.Size(*concept))
	core.ConceptMUS.Marshal(*concept, buf)
	return buf
}

// UnmarshalConcept deserializes a Concept from bytes.
func UnmarshalConcept(data []byte) (*core.Concept, error) {
	concept, _, err := core.ConceptMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: concept: %v", ErrSerializationFailed, err)
	}
	return &concept, nil
}

// MarshalCategory serializes a Category to bytes.
func MarshalCategory(category *core.Category) []byte {
	buf := make([]byte, core.CategoryMUS.Size(*category))
	core.CategoryMUS.Marshal(*category, buf)
	return buf
}

// UnmarshalCategory deserializes a Category from bytes.
func UnmarshalCategory(data []byte) (*core.Category, error) {
	category, _, err := core.CategoryMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: category: %v", ErrSerializationFailed, err)
	}
	return &category, nil
}

// MarshalSenses serializes the cached senses of one word, including the
// empty sequence, as a length-prefixed list.
func MarshalSenses(senses []core.WordSense) []byte {
	size := varint.Int.Size(len(senses))
	for _, sense := range senses {
		size += core.WordSenseMUS.Size(sense)
	}

	buf := make([]byte, size)
	n := varint.Int.Marshal(len(senses), buf)
	for _, sense := range senses {
		n += core.WordSenseMUS.Marshal(sense, buf[n:])
	}
	return buf
}

// UnmarshalSenses deserializes a cached sense list from bytes.
func UnmarshalSenses(data []byte) ([]core.WordSense, error) {
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: sense count: %v", ErrSerializationFailed, err)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative sense count %d", ErrSerializationFailed, count)
	}
	if count == 0 {
		return []core.WordSense{}, nil
	}

	senses := make([]core.WordSense, count)
	for i := 0; i < count; i++ {
		sense, n1, err := core.WordSenseMUS.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: sense %d: %v", ErrSerializationFailed, i, err)
		}
		senses[i] = sense
		n += n1
	}
	return senses, nil
}
