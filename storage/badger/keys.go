package badger

import (
	"fmt"

	"github.com/poiesic/conceptrag/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix    = "chkrec"
	conceptRecordPrefix  = "conrec"
	categoryRecordPrefix = "catrec"
	senseRecordPrefix    = "senrec"
)

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}

// makeConceptKey generates a key for a concept by ID.
func makeConceptKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", conceptRecordPrefix, id))
}

// makeCategoryKey generates a key for a category by ID.
func makeCategoryKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", categoryRecordPrefix, id))
}

// makeSenseKey generates a key for the cached senses of a word.
// Words are cached lowercase so the caller normalizes before lookup.
func makeSenseKey(word string) []byte {
	return []byte(senseRecordPrefix + ":" + word)
}

// hasPrefix checks if a byte slice has a given prefix
func hasPrefix(s, prefix []byte) bool {
	return len(s) >= len(prefix) && string(s[:len(prefix)]) == string(prefix)
}
