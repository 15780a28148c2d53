// Package ingestion drives upload batches from raw files to persisted,
// chunked state.
//
// The Orchestrator type manages the ingestion workflow for file batches:
//   - Validating and recording a new ingestion
//   - Splitting each file into overlapping chunks and persisting them
//   - Advancing the ingestion status machine file by file
//   - Handing finished batches to the indexing trigger
//
// Batch processing runs as a detached background task per upload; errors
// during processing mark the ingestion failed but never escape the task.
package ingestion
