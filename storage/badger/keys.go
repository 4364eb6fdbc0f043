package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/ideasurf/core"
)

// Key prefixes for different data types
const (
	projectRecordPrefix = "prorec"
	projectSourcePrefix = "prosrc"
)

// makeProjectRecordKey generates a key for a project record by ID.
// IDs are content-derived from the canonical URL, so this key doubles
// as the URL existence check.
func makeProjectRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", projectRecordPrefix, id))
}

// makeProjectSourceKey generates a composite key for the source index.
// Format: prefix:source:id
func makeProjectSourceKey(source core.Source, id core.ID) []byte {
	prefix := fmt.Sprintf("%s:%s:", projectSourcePrefix, source)
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialProjectSourceKey generates the source index prefix for a source.
func makePartialProjectSourceKey(source core.Source) []byte {
	return []byte(fmt.Sprintf("%s:%s:", projectSourcePrefix, source))
}
