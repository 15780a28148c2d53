package indexer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/memograph/ai/mock"
	"github.com/poiesic/memograph/core"
	"github.com/poiesic/memograph/storage"
	"github.com/poiesic/memograph/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testVectors maps chunk content to fixed embeddings so similarity outcomes
// are exact: the two alpha chunks are near-parallel, gamma is orthogonal.
var testVectors = map[string][]float32{
	"alpha one":  {1.0, 0.0, 0.0},
	"alpha two":  {0.9, 0.1, 0.0},
	"gamma text": {0.0, 1.0, 0.0},
}

func fixedEmbedder() *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			v, ok := testVectors[text]
			if !ok {
				return nil, fmt.Errorf("no fixture vector for %q", text)
			}
			vectors[i] = v
		}
		return vectors, nil
	}
	return embedder
}

func newTestIndexer(t *testing.T, embedder *mock.MockEmbedder, opts ...Option) (*Indexer, storage.IngestionRepository, storage.ChunkRepository) {
	t.Helper()
	ingestionRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		chunkRepo.Close()
		ingestionRepo.Close()
		backend.Close()
	})

	opts = append([]Option{WithRetryPolicy(2, time.Millisecond)}, opts...)
	x, err := NewIndexer(ingestionRepo, chunkRepo, embedder, opts...)
	require.NoError(t, err)
	t.Cleanup(x.Release)

	return x, ingestionRepo, chunkRepo
}

// seedChunkedIngestion persists an ingestion in status chunked with three
// chunk rows across two files, as the orchestrator leaves it.
func seedChunkedIngestion(t *testing.T, ingestionRepo storage.IngestionRepository, chunkRepo storage.ChunkRepository) *core.Ingestion {
	t.Helper()
	ctx := context.Background()

	ing, err := ingestionRepo.CreateIngestion(ctx, &core.Ingestion{
		UserId:         "user1",
		Source:         "upload",
		BatchName:      "batch",
		TotalFiles:     2,
		ProcessedFiles: 2,
		ChunkedFiles:   2,
		TotalChunks:    3,
		Status:         core.StatusChunked,
	})
	require.NoError(t, err)

	_, err = chunkRepo.AddChunks(ctx,
		&core.Chunk{IngestionId: ing.Id, UserId: "user1", Source: "upload", FilePath: "a.md", ChunkIndex: 0, Content: "alpha one"},
		&core.Chunk{IngestionId: ing.Id, UserId: "user1", Source: "upload", FilePath: "a.md", ChunkIndex: 1, Content: "alpha two"},
		&core.Chunk{IngestionId: ing.Id, UserId: "user1", Source: "upload", FilePath: "b.md", ChunkIndex: 0, Content: "gamma text"},
	)
	require.NoError(t, err)

	return ing
}

func TestNewIndexerValidation(t *testing.T) {
	ingestionRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { chunkRepo.Close(); ingestionRepo.Close(); backend.Close() }()

	_, err = NewIndexer(nil, chunkRepo, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrIngestionRepositoryRequired)

	_, err = NewIndexer(ingestionRepo, nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrChunkRepositoryRequired)

	_, err = NewIndexer(ingestionRepo, chunkRepo, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestIndexPipeline(t *testing.T) {
	x, ingestionRepo, chunkRepo := newTestIndexer(t, fixedEmbedder())
	ctx := context.Background()
	ing := seedChunkedIngestion(t, ingestionRepo, chunkRepo)

	require.NoError(t, x.Index(ctx, ing.Id, "user1"))

	done, err := ingestionRepo.GetIngestion(ctx, ing.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusUploaded, done.Status)
	assert.Equal(t, 3, done.IndexedChunks)
	assert.False(t, done.LastIndexedAt.IsZero())
	assert.False(t, done.GraphSyncedAt.IsZero())
	assert.Contains(t, done.GraphMetrics, `"chunkCount":3`)
	assert.Contains(t, done.GraphMetrics, `"sectionCount":2`)

	rows, err := chunkRepo.GetChunksByIngestion(ctx, ing.Id)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for _, row := range rows {
		require.NotEmpty(t, row.Vector, "chunk %s not embedded", row.DisplayName)
		var magnitude float32
		for _, v := range row.Vector {
			magnitude += v * v
		}
		assert.InDelta(t, 1.0, magnitude, 1e-5, "vector of %s not unit length", row.DisplayName)
		assert.True(t, row.Metadata.HasGraphIdentity())
		assert.NotEmpty(t, row.DisplayName)
		assert.NotEmpty(t, row.Summary)
	}

	// The two alpha chunks link to each other; gamma stays unlinked
	require.Len(t, rows[0].Metadata.SimilarNeighbors, 1)
	assert.Equal(t, rows[1].Metadata.ChunkNodeId, rows[0].Metadata.SimilarNeighbors[0].ChunkNodeId)
	assert.Greater(t, rows[0].Metadata.SimilarNeighbors[0].Score, float32(0.9))

	require.Len(t, rows[1].Metadata.SimilarNeighbors, 1)
	assert.Equal(t, rows[0].Metadata.ChunkNodeId, rows[1].Metadata.SimilarNeighbors[0].ChunkNodeId)

	assert.Empty(t, rows[2].Metadata.SimilarNeighbors)
}

func TestIndexBatching(t *testing.T) {
	embedder := fixedEmbedder()
	var batchSizes []int
	inner := embedder.EmbedTextsFunc
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		batchSizes = append(batchSizes, len(texts))
		return inner(ctx, texts)
	}

	x, ingestionRepo, chunkRepo := newTestIndexer(t, embedder, WithBatchSize(2))
	ctx := context.Background()
	ing := seedChunkedIngestion(t, ingestionRepo, chunkRepo)

	require.NoError(t, x.Index(ctx, ing.Id, ""))
	assert.Equal(t, []int{2, 1}, batchSizes)
}

func TestIndexMissingIngestion(t *testing.T) {
	x, _, _ := newTestIndexer(t, fixedEmbedder())

	err := x.Index(context.Background(), 9999, "")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIndexWrongUser(t *testing.T) {
	x, ingestionRepo, chunkRepo := newTestIndexer(t, fixedEmbedder())
	ing := seedChunkedIngestion(t, ingestionRepo, chunkRepo)

	err := x.Index(context.Background(), ing.Id, "intruder")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// The batch was not touched
	reloaded, err := ingestionRepo.GetIngestion(context.Background(), ing.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusChunked, reloaded.Status)
}

func TestIndexEmbedFailureMarksFailed(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service offline")
	}

	x, ingestionRepo, chunkRepo := newTestIndexer(t, embedder)
	ctx := context.Background()
	ing := seedChunkedIngestion(t, ingestionRepo, chunkRepo)

	err := x.Index(ctx, ing.Id, "user1")
	require.Error(t, err)

	failed, err := ingestionRepo.GetIngestion(ctx, ing.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusFailed, failed.Status)
	assert.NotEmpty(t, failed.Error)
}

func TestTriggerIndexing(t *testing.T) {
	x, ingestionRepo, chunkRepo := newTestIndexer(t, fixedEmbedder())
	ctx := context.Background()
	ing := seedChunkedIngestion(t, ingestionRepo, chunkRepo)

	require.NoError(t, x.TriggerIndexing(ctx, ing.Id, "user1"))

	assert.Eventually(t, func() bool {
		reloaded, err := ingestionRepo.GetIngestion(ctx, ing.Id)
		return err == nil && reloaded.Status == core.StatusUploaded
	}, 5*time.Second, 10*time.Millisecond)
}

func TestIndexAfterReset(t *testing.T) {
	x, ingestionRepo, chunkRepo := newTestIndexer(t, fixedEmbedder())
	ctx := context.Background()
	ing := seedChunkedIngestion(t, ingestionRepo, chunkRepo)

	require.NoError(t, x.Index(ctx, ing.Id, "user1"))

	reset, err := chunkRepo.ResetEmbeddings(ctx, ing.Id)
	require.NoError(t, err)
	assert.Equal(t, 3, reset)

	indexed := 0
	status := core.StatusChunked
	_, err = ingestionRepo.UpdateIngestion(ctx, ing.Id, &core.IngestionUpdate{
		IndexedChunks: &indexed,
		Status:        &status,
	})
	require.NoError(t, err)

	require.NoError(t, x.Index(ctx, ing.Id, "user1"))

	done, err := ingestionRepo.GetIngestion(ctx, ing.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusUploaded, done.Status)
	assert.Equal(t, 3, done.IndexedChunks)
}
