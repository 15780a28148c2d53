package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/memograph/core"
	"github.com/poiesic/memograph/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) (*ChunkRepository, error) {
	idSeq, err := backend.GetSequence(chunkIDSeq)
	if err != nil {
		return nil, err
	}

	return &ChunkRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ChunkRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddChunks adds one or more chunks to storage.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			// (IngestionId, FilePath, ChunkIndex) must be unique
			pathKey := makeChunkPathKey(chunk.IngestionId, chunk.FilePath, chunk.ChunkIndex)
			if _, err := tx.Get(pathKey); err == nil {
				return storage.ErrDuplicateKey
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			// Always generate new ID from sequence
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			chunk.Id = core.ID(nextID)

			chunk.CreatedAt = time.Now().UTC()
			chunk.UpdatedAt = chunk.CreatedAt

			// Store primary record
			key := makeChunkKey(chunk.Id)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}

			// Update path index (ordering + uniqueness)
			if err := tx.Set(pathKey, storage.MarshalID(chunk.Id)); err != nil {
				return err
			}

			// Update id index
			ingestKey := makeChunkIngestKey(chunk.IngestionId, chunk.Id)
			if err := tx.Set(ingestKey, storage.MarshalID(chunk.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// UpdateChunks updates existing chunks.
func (r *ChunkRepository) UpdateChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			key := makeChunkKey(chunk.Id)

			// Read old chunk to detect key field changes
			old, err := readChunk(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// Update timestamp
			chunk.UpdatedAt = time.Now().UTC()

			// Store updated record
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}

			// Update path index if the identity tuple changed
			if old.FilePath != chunk.FilePath || old.ChunkIndex != chunk.ChunkIndex {
				oldPathKey := makeChunkPathKey(old.IngestionId, old.FilePath, old.ChunkIndex)
				if err := tx.Delete(oldPathKey); err != nil {
					return err
				}
				newPathKey := makeChunkPathKey(chunk.IngestionId, chunk.FilePath, chunk.ChunkIndex)
				if err := tx.Set(newPathKey, storage.MarshalID(chunk.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error) {
	var result *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readChunk(tx, makeChunkKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetChunksByIngestion retrieves all chunks of an ingestion,
// ordered by (FilePath, ChunkIndex).
func (r *ChunkRepository) GetChunksByIngestion(ctx context.Context, ingestionID core.ID) ([]*core.Chunk, error) {
	return r.chunksByPathIndex(ingestionID, 0, nil)
}

// GetPendingChunks retrieves up to limit chunks that have no embedding yet.
func (r *ChunkRepository) GetPendingChunks(ctx context.Context, ingestionID core.ID, limit int) ([]*core.Chunk, error) {
	return r.chunksByPathIndex(ingestionID, limit, func(chunk *core.Chunk) bool {
		return len(chunk.Vector) == 0
	})
}

// ResetEmbeddings clears the vector and similarity neighbors of every chunk
// in an ingestion.
func (r *ChunkRepository) ResetEmbeddings(ctx context.Context, ingestionID core.ID) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		chunkIDs, err := collectChunkIDs(tx, ingestionID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, chunkID := range chunkIDs {
			key := makeChunkKey(chunkID)
			chunk, err := readChunk(tx, key)
			if err != nil {
				return err
			}
			if chunk == nil {
				continue
			}

			chunk.Vector = nil
			chunk.Metadata.SimilarNeighbors = nil
			chunk.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}
			count++
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return 0, err
	}
	return count, nil
}

// FindSimilarChunks finds embedded chunks of an ingestion similar to the
// given vector.
func (r *ChunkRepository) FindSimilarChunks(ctx context.Context, ingestionID core.ID, vector []float32, minSimilarity float32, limit int) ([]*core.ChunkMatch, error) {
	var results []*core.ChunkMatch

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		chunkIDs, err := collectChunkIDs(tx, ingestionID)
		if err != nil {
			return err
		}

		for _, chunkID := range chunkIDs {
			chunk, err := readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			if chunk == nil {
				continue
			}

			// Skip chunks without embeddings
			if len(chunk.Vector) == 0 {
				continue
			}

			// Calculate cosine similarity (dot product for normalized vectors)
			similarity := dotProduct(vector, chunk.Vector)

			// Filter by threshold
			if similarity >= minSimilarity {
				results = append(results, &core.ChunkMatch{
					Chunk: chunk,
					Score: similarity,
				})
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.ChunkMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	// Limit to maxHits
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// Helper methods

// chunksByPathIndex walks the path index of an ingestion in key order and
// returns the chunks passing the filter, up to limit (0 means no cap).
func (r *ChunkRepository) chunksByPathIndex(ingestionID core.ID, limit int, filter func(*core.Chunk) bool) ([]*core.Chunk, error) {
	var results []*core.Chunk

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialChunkPathKey(ingestionID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			// Read the ID from the index
			var chunkID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				chunkID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full record
			chunk, err := readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			if chunk == nil {
				continue
			}
			if filter != nil && !filter(chunk) {
				continue
			}

			results = append(results, chunk)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
		return nil
	}, false)

	return results, err
}

// readChunk reads a chunk record from the transaction.
func readChunk(tx *badger.Txn, key []byte) (*core.Chunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var chunk *core.Chunk
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		chunk, unmarshalErr = storage.UnmarshalChunk(val)
		return unmarshalErr
	})
	return chunk, err
}
