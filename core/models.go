package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// IngestionStatus tracks an upload batch through its processing lifecycle.
type IngestionStatus int

const (
	// StatusChunking means files are being split and persisted.
	StatusChunking IngestionStatus = iota + 1
	// StatusChunked means all files are chunked and the batch awaits indexing.
	StatusChunked
	// StatusIndexing means the indexing collaborator is embedding chunks.
	StatusIndexing
	// StatusUploaded is the terminal success state, set once embeddings are stored.
	StatusUploaded
	// StatusFailed is set on any chunking error, terminal until reindex or delete.
	StatusFailed
)

// String returns the wire name of the status.
func (s IngestionStatus) String() string {
	switch s {
	case StatusChunking:
		return "chunking"
	case StatusChunked:
		return "chunked"
	case StatusIndexing:
		return "indexing"
	case StatusUploaded:
		return "uploaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseIngestionStatus maps a wire name back to a status.
// The second return value is false if the name is not a known status.
func ParseIngestionStatus(name string) (IngestionStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chunking":
		return StatusChunking, true
	case "chunked":
		return StatusChunked, true
	case "indexing":
		return StatusIndexing, true
	case "uploaded":
		return StatusUploaded, true
	case "failed":
		return StatusFailed, true
	default:
		return 0, false
	}
}

// Terminal reports whether the status ends the normal processing flow.
// Terminal states change only through explicit reindex or delete.
func (s IngestionStatus) Terminal() bool {
	return s == StatusUploaded || s == StatusFailed
}

// Ingestion represents one upload batch and its processing state.
// It is mutated only by the orchestrator, the indexer, and by reindex/delete.
type Ingestion struct {
	Id             ID
	UserId         string
	Source         string
	BatchName      string
	TotalFiles     int
	ProcessedFiles int // invariant: ProcessedFiles <= TotalFiles
	ChunkedFiles   int
	TotalChunks    int
	IndexedChunks  int // invariant: IndexedChunks <= TotalChunks
	Status         IngestionStatus
	Error          string // populated only when Status is StatusFailed
	CreatedAt      time.Time
	CompletedAt    time.Time // zero until chunking finishes
	LastIndexedAt  time.Time // zero until the indexer completes, cleared by reindex
	GraphMetrics   string    // opaque JSON blob written by the graph metadata sync
	GraphSyncedAt  time.Time // zero until graph metadata has been written
}

// SimilarNeighbor references another chunk's graph node with a similarity score.
type SimilarNeighbor struct {
	ChunkNodeId string
	Score       float32
}

// ChunkMetadata carries the graph-identity fields written by the indexing
// collaborator, plus a generic extension map for everything else.
// All fields are optional; readers treat missing values as absent.
type ChunkMetadata struct {
	DocumentNodeId    string
	SectionNodeId     string
	ChunkNodeId       string
	SectionOrder      int
	SectionChunkCount int
	TokenCount        int
	SimilarNeighbors  []SimilarNeighbor
	Extra             map[string]string
}

// HasGraphIdentity reports whether the indexing collaborator has assigned
// graph node ids to this chunk.
func (m *ChunkMetadata) HasGraphIdentity() bool {
	return m != nil && m.SectionNodeId != "" && m.ChunkNodeId != ""
}

// Chunk represents one embeddable unit of content.
// (IngestionId, FilePath, ChunkIndex) is unique within the store. Chunks are
// immutable once written except for metadata updates and embedding reset.
type Chunk struct {
	Id          ID
	IngestionId ID
	UserId      string
	Source      string
	FilePath    string
	ChunkIndex  int // 0-based, unique per file within an ingestion
	Content     string
	Vector      []float32 // embedding, populated by the indexer
	DisplayName string    // defaults to "FilePath#ChunkIndex" once synced
	Summary     string    // first ~180 chars of content once synced
	Metadata    ChunkMetadata
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ChunkMatch is a chunk matched by vector similarity search.
type ChunkMatch struct {
	Chunk *Chunk
	Score float32
}

// IngestionUpdate is a partial update applied to an ingestion record.
// Nil fields are left unchanged.
type IngestionUpdate struct {
	ProcessedFiles *int
	ChunkedFiles   *int
	TotalChunks    *int
	IndexedChunks  *int
	Status         *IngestionStatus
	Error          *string
	CompletedAt    *time.Time
	LastIndexedAt  *time.Time
	GraphMetrics   *string
	GraphSyncedAt  *time.Time
}

// Apply copies the non-nil fields of the update onto the ingestion.
func (u *IngestionUpdate) Apply(ing *Ingestion) {
	if u.ProcessedFiles != nil {
		ing.ProcessedFiles = *u.ProcessedFiles
	}
	if u.ChunkedFiles != nil {
		ing.ChunkedFiles = *u.ChunkedFiles
	}
	if u.TotalChunks != nil {
		ing.TotalChunks = *u.TotalChunks
	}
	if u.IndexedChunks != nil {
		ing.IndexedChunks = *u.IndexedChunks
	}
	if u.Status != nil {
		ing.Status = *u.Status
	}
	if u.Error != nil {
		ing.Error = *u.Error
	}
	if u.CompletedAt != nil {
		ing.CompletedAt = *u.CompletedAt
	}
	if u.LastIndexedAt != nil {
		ing.LastIndexedAt = *u.LastIndexedAt
	}
	if u.GraphMetrics != nil {
		ing.GraphMetrics = *u.GraphMetrics
	}
	if u.GraphSyncedAt != nil {
		ing.GraphSyncedAt = *u.GraphSyncedAt
	}
}
