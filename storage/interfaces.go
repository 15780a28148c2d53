package storage

import (
	"context"

	"github.com/poiesic/memograph/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// IngestionRepository provides operations for managing ingestion records.
type IngestionRepository interface {
	Repository
	// CreateIngestion persists a new ingestion record.
	// For a record with ID=0, generates a new ID from sequence.
	// Sets CreatedAt if not already set.
	// Returns the record with ID and timestamp populated.
	CreateIngestion(ctx context.Context, ing *core.Ingestion) (*core.Ingestion, error)

	// GetIngestion retrieves an ingestion record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetIngestion(ctx context.Context, id core.ID) (*core.Ingestion, error)

	// GetIngestionForUser retrieves an ingestion record by ID, scoped to a user.
	// Returns ErrNotFound if the record doesn't exist or belongs to another user.
	GetIngestionForUser(ctx context.Context, id core.ID, userID string) (*core.Ingestion, error)

	// ListIngestions retrieves a user's ingestion records ordered by
	// CreatedAt descending. Returns up to limit records; limit <= 0 means no cap.
	ListIngestions(ctx context.Context, userID string, limit int) ([]*core.Ingestion, error)

	// UpdateIngestion applies a partial update to an ingestion record.
	// Nil fields of the update are left unchanged.
	// Returns the updated record, or ErrNotFound if it doesn't exist.
	UpdateIngestion(ctx context.Context, id core.ID, update *core.IngestionUpdate) (*core.Ingestion, error)

	// DeleteIngestion removes an ingestion record and all of its chunks
	// in a single transaction. Returns ErrNotFound if the record doesn't exist.
	DeleteIngestion(ctx context.Context, id core.ID) error
}

// ChunkRepository provides operations for managing persisted chunks.
type ChunkRepository interface {
	Repository
	// AddChunks adds one or more chunks to storage.
	// For chunks with ID=0, generates new IDs from sequence.
	// Sets CreatedAt/UpdatedAt timestamps if not already set.
	// Returns ErrDuplicateKey if a chunk with the same
	// (IngestionId, FilePath, ChunkIndex) already exists.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// UpdateChunks updates existing chunks.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any chunk doesn't exist.
	UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunksByIngestion retrieves all chunks of an ingestion,
	// ordered by (FilePath, ChunkIndex).
	GetChunksByIngestion(ctx context.Context, ingestionID core.ID) ([]*core.Chunk, error)

	// GetPendingChunks retrieves up to limit chunks of an ingestion that have
	// no embedding vector yet, ordered by (FilePath, ChunkIndex).
	GetPendingChunks(ctx context.Context, ingestionID core.ID, limit int) ([]*core.Chunk, error)

	// ResetEmbeddings clears the vector and similarity neighbors of every
	// chunk in an ingestion. Graph identity fields are preserved.
	// Returns the number of chunks reset.
	ResetEmbeddings(ctx context.Context, ingestionID core.ID) (int, error)

	// FindSimilarChunks finds embedded chunks of an ingestion similar to the
	// given vector. Returns matches with similarity >= minSimilarity, up to
	// limit results, ordered by similarity score (highest first).
	FindSimilarChunks(ctx context.Context, ingestionID core.ID, vector []float32, minSimilarity float32, limit int) ([]*core.ChunkMatch, error)
}
