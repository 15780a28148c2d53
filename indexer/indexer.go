package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/memograph/ai"
	"github.com/poiesic/memograph/core"
	"github.com/poiesic/memograph/ingestion"
	"github.com/poiesic/memograph/storage"
)

const (
	// DefaultBatchSize is how many pending chunks are embedded per round trip.
	DefaultBatchSize = 50

	// DefaultMaxRetries is the attempt cap for embedding API calls.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the base delay for embedding retry backoff.
	DefaultRetryDelay = time.Second
)

var _ ingestion.IndexTrigger = (*Indexer)(nil)

// Indexer embeds an ingestion's pending chunks, syncs graph metadata, links
// similar chunks, and advances the batch to uploaded. Runs are fire-and-forget
// on a background pool; callers poll ingestion status for progress.
type Indexer struct {
	ingestions storage.IngestionRepository
	chunks     storage.ChunkRepository
	embedder   ai.Embedder
	pool       *ants.Pool
	logger     *slog.Logger

	batchSize  int
	maxRetries int
	retryDelay time.Duration
	similarity SimilarityConfig
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithPoolSize sets the worker pool size for background indexing runs.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(x *Indexer) error {
		if size < 1 {
			size = 1
		}
		if x.pool != nil {
			x.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		x.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(x *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		x.logger = logger
		return nil
	}
}

// WithBatchSize sets how many pending chunks are embedded per batch.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(x *Indexer) error {
		if size > 0 {
			x.batchSize = size
		}
		return nil
	}
}

// WithRetryPolicy sets the retry parameters for embedding API calls.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) Option {
	return func(x *Indexer) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		x.maxRetries = maxAttempts
		x.retryDelay = baseDelay
		return nil
	}
}

// WithSimilarity sets the similar-chunk linking parameters.
// Default is DefaultSimilarityConfig().
func WithSimilarity(cfg SimilarityConfig) Option {
	return func(x *Indexer) error {
		if cfg.TopK > 0 {
			x.similarity.TopK = cfg.TopK
		}
		if cfg.MinScore > 0 {
			x.similarity.MinScore = cfg.MinScore
		}
		if cfg.DegreeCap > 0 {
			x.similarity.DegreeCap = cfg.DegreeCap
		}
		return nil
	}
}

// NewIndexer creates an indexer over the given repositories and embedder.
func NewIndexer(
	ingestions storage.IngestionRepository,
	chunks storage.ChunkRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Indexer, error) {
	if ingestions == nil {
		return nil, ErrIngestionRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	x := &Indexer{
		ingestions: ingestions,
		chunks:     chunks,
		embedder:   embedder,
		pool:       pool,
		logger:     slog.Default(),
		batchSize:  DefaultBatchSize,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		similarity: DefaultSimilarityConfig(),
	}

	for _, opt := range opts {
		if optErr := opt(x); optErr != nil {
			x.Release()
			return nil, optErr
		}
	}

	return x, nil
}

// TriggerIndexing submits an indexing run for the ingestion to the
// background pool and returns immediately.
func (x *Indexer) TriggerIndexing(ctx context.Context, ingestionID core.ID, userID string) error {
	x.pool.Submit(func() {
		if err := x.Index(context.Background(), ingestionID, userID); err != nil {
			x.logger.Error("indexing run failed", "ingestionId", ingestionID, "err", err)
		}
	})
	return nil
}

// Index runs the full indexing pipeline for one ingestion synchronously:
// embed pending chunks in batches, sync graph identity metadata, link
// similar chunks, and mark the batch uploaded. An empty userID skips the
// ownership check.
func (x *Indexer) Index(ctx context.Context, ingestionID core.ID, userID string) error {
	ing, err := x.ingestions.GetIngestion(ctx, ingestionID)
	if err != nil {
		return err
	}
	if userID != "" && ing.UserId != userID {
		return storage.ErrNotFound
	}

	if err := x.setStatus(ctx, ingestionID, core.StatusIndexing); err != nil {
		return err
	}

	indexed := ing.IndexedChunks
	for {
		pending, err := x.chunks.GetPendingChunks(ctx, ingestionID, x.batchSize)
		if err != nil {
			return x.fail(ctx, ingestionID, err)
		}
		if len(pending) == 0 {
			break
		}

		if err := x.embedBatch(ctx, pending); err != nil {
			return x.fail(ctx, ingestionID, err)
		}

		indexed += len(pending)
		if _, err := x.ingestions.UpdateIngestion(ctx, ingestionID, &core.IngestionUpdate{
			IndexedChunks: &indexed,
		}); err != nil {
			return x.fail(ctx, ingestionID, err)
		}

		x.logger.Debug("embedded chunk batch",
			"ingestionId", ingestionID, "batch", len(pending), "indexed", indexed)
	}

	rows, err := x.chunks.GetChunksByIngestion(ctx, ingestionID)
	if err != nil {
		return x.fail(ctx, ingestionID, err)
	}

	SyncGraphIdentity(ing, rows)
	if _, err := x.chunks.UpdateChunks(ctx, rows...); err != nil {
		return x.fail(ctx, ingestionID, err)
	}

	if err := x.linkSimilarChunks(ctx, ingestionID, rows); err != nil {
		return x.fail(ctx, ingestionID, err)
	}
	if _, err := x.chunks.UpdateChunks(ctx, rows...); err != nil {
		return x.fail(ctx, ingestionID, err)
	}

	metrics, err := MarshalGraphMetrics(ComputeGraphMetrics(rows))
	if err != nil {
		return x.fail(ctx, ingestionID, err)
	}

	now := time.Now().UTC()
	status := core.StatusUploaded
	if _, err := x.ingestions.UpdateIngestion(ctx, ingestionID, &core.IngestionUpdate{
		IndexedChunks: &indexed,
		Status:        &status,
		LastIndexedAt: &now,
		GraphMetrics:  &metrics,
		GraphSyncedAt: &now,
	}); err != nil {
		return x.fail(ctx, ingestionID, err)
	}

	x.logger.Info("ingestion indexed",
		"ingestionId", ingestionID, "chunks", indexed)
	return nil
}

// embedBatch generates unit-normalized embeddings for the rows and stores them.
func (x *Indexer) embedBatch(ctx context.Context, rows []*core.Chunk) error {
	texts := make([]string, len(rows))
	for i, row := range rows {
		texts[i] = row.Content
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		vectors, embedErr = x.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, x.maxRetries, x.retryDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", x.maxRetries, err)
	}

	if len(vectors) != len(rows) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(rows), len(vectors))
	}

	for i := range rows {
		rows[i].Vector = NormalizeVector(vectors[i])
	}

	_, err = x.chunks.UpdateChunks(ctx, rows...)
	if err != nil {
		return fmt.Errorf("failed to update chunks: %w", err)
	}
	return nil
}

// setStatus moves the ingestion to the given status.
func (x *Indexer) setStatus(ctx context.Context, id core.ID, status core.IngestionStatus) error {
	_, err := x.ingestions.UpdateIngestion(ctx, id, &core.IngestionUpdate{Status: &status})
	return err
}

// fail records an indexing error on the ingestion and returns the cause.
func (x *Indexer) fail(ctx context.Context, id core.ID, cause error) error {
	x.logger.Error("indexing failed", "ingestionId", id, "err", cause)

	status := core.StatusFailed
	errText := cause.Error()
	if _, err := x.ingestions.UpdateIngestion(ctx, id, &core.IngestionUpdate{
		Status: &status,
		Error:  &errText,
	}); err != nil {
		x.logger.Error("error recording indexing failure", "ingestionId", id, "err", err)
	}
	return cause
}

// Release releases the background worker pool.
// The indexer should not be used after calling Release.
func (x *Indexer) Release() {
	if x.pool != nil {
		x.pool.Release()
	}
}
