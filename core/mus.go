package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for storage values. Written by hand in the musgen style so
// storage code can depend on XxxMUS.Marshal/Unmarshal/Size uniformly.

// IDMUS serializes IDs.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	raw, n, err := varint.Uint64.Unmarshal(bs)
	return ID(raw), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// ConceptMUS serializes Concepts.
var ConceptMUS = conceptMUS{}

type conceptMUS struct{}

func (s conceptMUS) Marshal(v Concept, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	return n
}

func (s conceptMUS) Unmarshal(bs []byte) (v Concept, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s conceptMUS) Size(v Concept) (size int) {
	return IDMUS.Size(v.Id) + ord.String.Size(v.Name)
}

// CategoryMUS serializes Categories.
var CategoryMUS = categoryMUS{}

type categoryMUS struct{}

func (s categoryMUS) Marshal(v Category, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += IDMUS.Marshal(v.Parent, bs[n:])
	n += marshalStringSlice(v.Aliases, bs[n:])
	n += marshalIDSlice(v.Related, bs[n:])
	n += varint.Int.Marshal(v.DocCount, bs[n:])
	n += varint.Int.Marshal(v.ChunkCount, bs[n:])
	n += varint.Int.Marshal(v.ConceptCount, bs[n:])
	return n
}

func (s categoryMUS) Unmarshal(bs []byte) (v Category, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Parent, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Aliases, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Related, n1, err = unmarshalIDSlice(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.DocCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ChunkCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.ConceptCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (s categoryMUS) Size(v Category) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Description)
	size += IDMUS.Size(v.Parent)
	size += sizeStringSlice(v.Aliases)
	size += sizeIDSlice(v.Related)
	size += varint.Int.Size(v.DocCount)
	size += varint.Int.Size(v.ChunkCount)
	size += varint.Int.Size(v.ConceptCount)
	return size
}

// ChunkMUS serializes Chunks.
var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	n += ord.String.Marshal(v.Source, bs[n:])
	n += marshalFloat32Slice(v.Vector, bs[n:])
	n += varint.Float64.Marshal(v.Distance, bs[n:])
	n += marshalStringSlice(v.ConceptNames, bs[n:])
	n += marshalStringSlice(v.CategoryNames, bs[n:])
	n += varint.Float64.Marshal(v.Density, bs[n:])
	return n
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Source, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = unmarshalFloat32Slice(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Distance, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ConceptNames, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CategoryNames, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.Density, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Text)
	size += ord.String.Size(v.Source)
	size += sizeFloat32Slice(v.Vector)
	size += varint.Float64.Size(v.Distance)
	size += sizeStringSlice(v.ConceptNames)
	size += sizeStringSlice(v.CategoryNames)
	size += varint.Float64.Size(v.Density)
	return size
}

// WordSenseMUS serializes WordSenses for the durable lexical cache.
var WordSenseMUS = wordSenseMUS{}

type wordSenseMUS struct{}

func (s wordSenseMUS) Marshal(v WordSense, bs []byte) (n int) {
	n = ord.String.Marshal(v.Word, bs)
	n += ord.String.Marshal(v.SenseID, bs[n:])
	n += marshalStringSlice(v.Synonyms, bs[n:])
	n += marshalStringSlice(v.Hypernyms, bs[n:])
	n += marshalStringSlice(v.Hyponyms, bs[n:])
	n += marshalStringSlice(v.Meronyms, bs[n:])
	n += ord.String.Marshal(v.Definition, bs[n:])
	return n
}

func (s wordSenseMUS) Unmarshal(bs []byte) (v WordSense, n int, err error) {
	var n1 int
	if v.Word, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if v.SenseID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Synonyms, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Hypernyms, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Hyponyms, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Meronyms, n1, err = unmarshalStringSlice(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.Definition, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s wordSenseMUS) Size(v WordSense) (size int) {
	size = ord.String.Size(v.Word)
	size += ord.String.Size(v.SenseID)
	size += sizeStringSlice(v.Synonyms)
	size += sizeStringSlice(v.Hypernyms)
	size += sizeStringSlice(v.Hyponyms)
	size += sizeStringSlice(v.Meronyms)
	size += ord.String.Size(v.Definition)
	return size
}

// Slice helpers: length-prefixed element sequences.

func marshalStringSlice(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, s := range v {
		n += ord.String.Marshal(s, bs[n:])
	}
	return n
}

func unmarshalStringSlice(bs []byte) (v []string, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return nil, n, err
	}
	v = make([]string, length)
	var n1 int
	for i := 0; i < length; i++ {
		if v[i], n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, n + n1, err
		}
		n += n1
	}
	return v, n, nil
}

func sizeStringSlice(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for _, s := range v {
		size += ord.String.Size(s)
	}
	return size
}

func marshalIDSlice(v []ID, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, id := range v {
		n += IDMUS.Marshal(id, bs[n:])
	}
	return n
}

func unmarshalIDSlice(bs []byte) (v []ID, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return nil, n, err
	}
	v = make([]ID, length)
	var n1 int
	for i := 0; i < length; i++ {
		if v[i], n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
			return nil, n + n1, err
		}
		n += n1
	}
	return v, n, nil
}

func sizeIDSlice(v []ID) (size int) {
	size = varint.Int.Size(len(v))
	for _, id := range v {
		size += IDMUS.Size(id)
	}
	return size
}

func marshalFloat32Slice(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	return n
}

func unmarshalFloat32Slice(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return nil, n, err
	}
	v = make([]float32, length)
	var n1 int
	for i := 0; i < length; i++ {
		if v[i], n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
			return nil, n + n1, err
		}
		n += n1
	}
	return v, n, nil
}

func sizeFloat32Slice(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Float32.Size(f)
	}
	return size
}
