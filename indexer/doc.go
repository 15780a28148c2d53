// Package indexer embeds persisted chunks and finishes an ingestion batch.
//
// The indexer is the collaborator the orchestrator hands a chunked batch to.
// It drains pending chunks in fixed-size batches, generates unit-normalized
// embedding vectors with retry and exponential backoff, assigns graph node
// identities and display metadata to every chunk, links mutually similar
// chunks, and flips the ingestion through indexing to uploaded.
package indexer
