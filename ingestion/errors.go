package ingestion

import "errors"

var (
	// ErrIngestionRepositoryRequired is returned when an ingestion repository is not provided.
	ErrIngestionRepositoryRequired = errors.New("ingestion repository required")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrIndexTriggerRequired is returned when an indexing trigger is not provided.
	ErrIndexTriggerRequired = errors.New("index trigger required")

	// ErrUserDisabled is returned when uploads are disabled for the user.
	ErrUserDisabled = errors.New("uploads disabled for user")
)
