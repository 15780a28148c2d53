package indexer

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrIngestionRepositoryRequired is returned when NewIndexer is called without an ingestion repository.
	ErrIngestionRepositoryRequired = errors.New("ingestion repository is required")

	// ErrChunkRepositoryRequired is returned when NewIndexer is called without a chunk repository.
	ErrChunkRepositoryRequired = errors.New("chunk repository is required")

	// ErrEmbedderRequired is returned when NewIndexer is called without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")
)
