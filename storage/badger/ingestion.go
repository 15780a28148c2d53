package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/memograph/core"
	"github.com/poiesic/memograph/storage"
)

// IngestionRepository implements storage.IngestionRepository for BadgerDB.
type IngestionRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.IngestionRepository = (*IngestionRepository)(nil)

// NewIngestionRepository creates a new IngestionRepository.
func NewIngestionRepository(backend *Backend) (*IngestionRepository, error) {
	idSeq, err := backend.GetSequence(ingestionIDSeq)
	if err != nil {
		return nil, err
	}

	return &IngestionRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *IngestionRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *IngestionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// CreateIngestion persists a new ingestion record.
func (r *IngestionRepository) CreateIngestion(ctx context.Context, ing *core.Ingestion) (*core.Ingestion, error) {
	if err := core.ValidateIngestion(ing); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if ing.Id == 0 {
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
			ing.Id = core.ID(nextID)
		}

		if ing.CreatedAt.IsZero() {
			ing.CreatedAt = time.Now().UTC()
		}

		key := makeIngestionKey(ing.Id)
		if err := tx.Set(key, storage.MarshalIngestion(ing)); err != nil {
			return err
		}

		// Update per-user index
		userKey := makeIngestionUserKey(ing.UserId, ing.CreatedAt.UnixMicro(), ing.Id)
		if err := tx.Set(userKey, storage.MarshalID(ing.Id)); err != nil {
			return err
		}

		return tx.Commit()
	}, true)

	return ing, err
}

// GetIngestion retrieves an ingestion record by ID.
func (r *IngestionRepository) GetIngestion(ctx context.Context, id core.ID) (*core.Ingestion, error) {
	var result *core.Ingestion
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readIngestion(tx, makeIngestionKey(id))
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

// GetIngestionForUser retrieves an ingestion record by ID, scoped to a user.
func (r *IngestionRepository) GetIngestionForUser(ctx context.Context, id core.ID, userID string) (*core.Ingestion, error) {
	ing, err := r.GetIngestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing.UserId != userID {
		return nil, storage.ErrNotFound
	}
	return ing, nil
}

// ListIngestions retrieves a user's ingestion records ordered by CreatedAt descending.
func (r *IngestionRepository) ListIngestions(ctx context.Context, userID string, limit int) ([]*core.Ingestion, error) {
	var results []*core.Ingestion
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent records first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialIngestionUserKey(userID)

		// Seek to the last possible key for this user. 0xFF sorts after any
		// index entry sharing the prefix.
		startKey := append(slices.Clone(prefix), 0xFF)

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()

			// Check if we're still in this user's index
			if len(key) < len(prefix) || slices.Compare(key[:len(prefix)], prefix) != 0 {
				break
			}

			// Read the ID from the index
			var ingestionID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				ingestionID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			// Look up the full record
			ing, err := readIngestion(tx, makeIngestionKey(ingestionID))
			if err != nil {
				return err
			}
			if ing != nil {
				results = append(results, ing)
				if limit > 0 && len(results) >= limit {
					break
				}
			}
		}
		return nil
	}, false)

	return results, err
}

// UpdateIngestion applies a partial update to an ingestion record.
func (r *IngestionRepository) UpdateIngestion(ctx context.Context, id core.ID, update *core.IngestionUpdate) (*core.Ingestion, error) {
	var result *core.Ingestion
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeIngestionKey(id)
		ing, err := readIngestion(tx, key)
		if err != nil {
			return err
		}
		if ing == nil {
			return storage.ErrNotFound
		}

		update.Apply(ing)
		if err := core.ValidateIngestion(ing); err != nil {
			return err
		}

		if err := tx.Set(key, storage.MarshalIngestion(ing)); err != nil {
			return err
		}

		result = ing
		return tx.Commit()
	}, true)
	return result, err
}

// DeleteIngestion removes an ingestion record and all of its chunks.
// The record, its indices, and every chunk row go in one transaction.
func (r *IngestionRepository) DeleteIngestion(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeIngestionKey(id)
		ing, err := readIngestion(tx, key)
		if err != nil {
			return err
		}
		if ing == nil {
			return storage.ErrNotFound
		}

		// Collect the ingestion's chunks via the id index
		chunkIDs, err := collectChunkIDs(tx, id)
		if err != nil {
			return err
		}

		for _, chunkID := range chunkIDs {
			chunkKey := makeChunkKey(chunkID)
			chunk, err := readChunk(tx, chunkKey)
			if err != nil {
				return err
			}
			if chunk == nil {
				continue
			}
			if err := tx.Delete(makeChunkPathKey(id, chunk.FilePath, chunk.ChunkIndex)); err != nil {
				return err
			}
			if err := tx.Delete(makeChunkIngestKey(id, chunkID)); err != nil {
				return err
			}
			if err := tx.Delete(chunkKey); err != nil {
				return err
			}
		}

		// Delete from per-user index
		userKey := makeIngestionUserKey(ing.UserId, ing.CreatedAt.UnixMicro(), ing.Id)
		if err := tx.Delete(userKey); err != nil {
			return err
		}

		// Delete primary record
		if err := tx.Delete(key); err != nil {
			return err
		}

		return tx.Commit()
	}, true)
}

// readIngestion reads an ingestion record from the transaction.
func readIngestion(tx *badger.Txn, key []byte) (*core.Ingestion, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var ing *core.Ingestion
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		ing, unmarshalErr = storage.UnmarshalIngestion(val)
		return unmarshalErr
	})
	return ing, err
}

// collectChunkIDs gathers all chunk IDs of an ingestion from the id index.
func collectChunkIDs(tx *badger.Txn, ingestionID core.ID) ([]core.ID, error) {
	var ids []core.ID

	prefix := makePartialChunkIngestKey(ingestionID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var chunkID core.ID
		if err := iter.Item().Value(func(val []byte) error {
			var err error
			chunkID, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return nil, err
		}
		ids = append(ids, chunkID)
	}
	return ids, nil
}
