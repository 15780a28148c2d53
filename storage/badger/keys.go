package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/memograph/core"
)

// Key prefixes for different data types
const (
	ingestionPrefix     = "ingrec"
	ingestionUserPrefix = "ingusr"
	ingestionIDSeq      = "ingrecseq"
	chunkPrefix         = "chkrec"
	chunkIngestPrefix   = "chking"
	chunkPathPrefix     = "chkpath"
	chunkIDSeq          = "chkrecseq"
)

// makeIngestionKey generates a key for an ingestion record by ID.
func makeIngestionKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", ingestionPrefix, id))
}

// makeIngestionUserKey generates a composite key for the per-user index.
// Format: prefix:userID\x00createdAt:id
// The 0x00 terminator keeps one user's entries from shadowing a prefix
// of another user's id.
func makeIngestionUserKey(userID string, createdAtMicro int64, id core.ID) []byte {
	prefix := ingestionUserPrefix + ":"
	totalSize := len(prefix) + len(userID) + 1 + 16
	buf := make([]byte, totalSize)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], userID)
	buf[offset] = 0x00
	offset++
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAtMicro))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialIngestionUserKey generates the iteration prefix for one user.
func makePartialIngestionUserKey(userID string) []byte {
	prefix := ingestionUserPrefix + ":"
	buf := make([]byte, len(prefix)+len(userID)+1)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], userID)
	buf[offset] = 0x00
	return buf
}

// makeChunkKey generates a key for a chunk record by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkPrefix, id))
}

// makeChunkPathKey generates a composite key for the per-ingestion path index.
// Format: prefix:ingestionID:filePath\x00chunkIndex
// Lexicographic iteration over this index yields chunks ordered by
// (FilePath, ChunkIndex), and the key doubles as the uniqueness guard for
// (IngestionId, FilePath, ChunkIndex).
func makeChunkPathKey(ingestionID core.ID, filePath string, chunkIndex int) []byte {
	prefix := chunkPathPrefix + ":"
	totalSize := len(prefix) + 8 + len(filePath) + 1 + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(ingestionID))
	offset += 8
	offset += copy(buf[offset:], filePath)
	buf[offset] = 0x00
	offset++
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkIndex))
	return buf
}

// makePartialChunkPathKey generates the iteration prefix for one ingestion's
// path index.
func makePartialChunkPathKey(ingestionID core.ID) []byte {
	prefix := chunkPathPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(ingestionID))
	return buf
}

// makeChunkIngestKey generates a composite key for the per-ingestion id index.
// Format: prefix:ingestionID:chunkID
func makeChunkIngestKey(ingestionID, chunkID core.ID) []byte {
	prefix := chunkIngestPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(ingestionID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkID))
	return buf
}

// makePartialChunkIngestKey generates the iteration prefix for one ingestion's
// id index.
func makePartialChunkIngestKey(ingestionID core.ID) []byte {
	prefix := chunkIngestPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(ingestionID))
	return buf
}
