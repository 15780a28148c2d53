package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/memograph/core"
	"github.com/poiesic/memograph/storage"
)

// UploadFile is one file of an upload batch.
type UploadFile struct {
	Path    string
	Content string
}

// IndexTrigger starts embedding/indexing of an ingestion's pending chunks.
// Implementations are expected to return quickly and do the work
// asynchronously; a trigger failure is logged by the caller and is never
// fatal to ingestion state.
type IndexTrigger interface {
	TriggerIndexing(ctx context.Context, ingestionID core.ID, userID string) error
}

// Orchestrator drives upload batches through the ingestion state machine:
// chunking -> chunked -> indexing -> uploaded | failed. Batch processing is
// fire-and-forget; callers poll ingestion status for progress.
type Orchestrator struct {
	ingestions storage.IngestionRepository
	chunks     storage.ChunkRepository
	trigger    IndexTrigger
	chunker    *Chunker
	registry   *Registry
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithPoolSize sets the worker pool size for background batch processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}
		if o.pool != nil {
			o.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithChunker sets the chunker used for splitting files.
// Default is NewChunker(DefaultChunkSize, DefaultOverlap).
func WithChunker(chunker *Chunker) Option {
	return func(o *Orchestrator) error {
		if chunker != nil {
			o.chunker = chunker
		}
		return nil
	}
}

// WithRegistry sets the shared process registry.
// Default is a fresh Registry.
func WithRegistry(registry *Registry) Option {
	return func(o *Orchestrator) error {
		if registry != nil {
			o.registry = registry
		}
		return nil
	}
}

// NewOrchestrator creates an ingestion orchestrator.
func NewOrchestrator(
	ingestions storage.IngestionRepository,
	chunks storage.ChunkRepository,
	trigger IndexTrigger,
	opts ...Option,
) (*Orchestrator, error) {
	if ingestions == nil {
		return nil, ErrIngestionRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if trigger == nil {
		return nil, ErrIndexTriggerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		ingestions: ingestions,
		chunks:     chunks,
		trigger:    trigger,
		chunker:    NewChunker(DefaultChunkSize, DefaultOverlap),
		registry:   NewRegistry(),
		pool:       pool,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.Release()
			return nil, optErr
		}
	}

	return o, nil
}

// CreateIngestion validates an upload batch, records its ingestion, and
// submits batch processing to the background pool. The returned ingestion
// is in status chunking; callers poll GetIngestion for progress.
func (o *Orchestrator) CreateIngestion(ctx context.Context, userID, source, batchName string, files []UploadFile) (*core.Ingestion, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidIngestion, core.ErrEmptyUserId)
	}
	if len(files) == 0 {
		return nil, core.ErrEmptyUpload
	}
	if o.registry.UserDisabled(userID) {
		return nil, fmt.Errorf("%w: %s", ErrUserDisabled, userID)
	}
	for _, file := range files {
		if err := core.ValidateFilePath(file.Path); err != nil {
			return nil, err
		}
	}

	ing, err := o.ingestions.CreateIngestion(ctx, &core.Ingestion{
		UserId:     userID,
		Source:     source,
		BatchName:  batchName,
		TotalFiles: len(files),
		Status:     core.StatusChunking,
	})
	if err != nil {
		return nil, err
	}

	o.logger.Info("ingestion created",
		"ingestionId", ing.Id, "userId", userID, "files", len(files))

	o.pool.Submit(func() {
		o.processBatch(ing.Id, files)
	})

	return ing, nil
}

// processBatch chunks and persists each file sequentially, advancing the
// ingestion counters after every file. A single file's failure marks the
// whole batch failed; chunks already written for earlier files stay
// (re-upload is the recovery path). No error escapes the task.
func (o *Orchestrator) processBatch(id core.ID, files []UploadFile) {
	ctx := context.Background()
	o.registry.MarkActive(id)
	defer o.registry.ClearActive(id)

	ing, err := o.ingestions.GetIngestion(ctx, id)
	if err != nil {
		o.logger.Error("error loading ingestion for processing", "ingestionId", id, "err", err)
		return
	}

	processed := 0
	chunked := 0
	totalChunks := 0

	for _, file := range files {
		texts := o.chunker.Split(file.Content)
		if err := o.recordFileChunks(ctx, ing, file.Path, texts); err != nil {
			o.markFailed(ctx, id, fmt.Errorf("chunking %s: %w", file.Path, err))
			return
		}

		processed++
		chunked++
		totalChunks += len(texts)

		status := core.StatusChunking
		if _, err := o.ingestions.UpdateIngestion(ctx, id, &core.IngestionUpdate{
			ProcessedFiles: &processed,
			ChunkedFiles:   &chunked,
			TotalChunks:    &totalChunks,
			Status:         &status,
		}); err != nil {
			o.markFailed(ctx, id, err)
			return
		}
	}

	status := core.StatusChunked
	completed := time.Now().UTC()
	if _, err := o.ingestions.UpdateIngestion(ctx, id, &core.IngestionUpdate{
		Status:      &status,
		CompletedAt: &completed,
	}); err != nil {
		o.markFailed(ctx, id, err)
		return
	}

	o.logger.Info("ingestion chunked",
		"ingestionId", id, "files", processed, "chunks", totalChunks)

	// Fire-and-forget handoff; a trigger failure never fails the batch
	if err := o.trigger.TriggerIndexing(ctx, id, ing.UserId); err != nil {
		o.logger.Error("error triggering indexing", "ingestionId", id, "err", err)
	}
}

// recordFileChunks persists one file's chunk rows.
func (o *Orchestrator) recordFileChunks(ctx context.Context, ing *core.Ingestion, filePath string, texts []string) error {
	if len(texts) == 0 {
		return nil
	}
	rows := make([]*core.Chunk, len(texts))
	for i, text := range texts {
		rows[i] = &core.Chunk{
			IngestionId: ing.Id,
			UserId:      ing.UserId,
			Source:      ing.Source,
			FilePath:    filePath,
			ChunkIndex:  i,
			Content:     text,
		}
	}
	_, err := o.chunks.AddChunks(ctx, rows...)
	return err
}

// markFailed records a processing error on the ingestion.
func (o *Orchestrator) markFailed(ctx context.Context, id core.ID, cause error) {
	o.logger.Error("ingestion failed", "ingestionId", id, "err", cause)

	status := core.StatusFailed
	errText := cause.Error()
	if _, err := o.ingestions.UpdateIngestion(ctx, id, &core.IngestionUpdate{
		Status: &status,
		Error:  &errText,
	}); err != nil {
		o.logger.Error("error recording ingestion failure", "ingestionId", id, "err", err)
	}
}

// RecordChunks persists pre-split chunks for one file of an ingestion.
func (o *Orchestrator) RecordChunks(ctx context.Context, ingestionID core.ID, filePath string, texts []string) error {
	ing, err := o.ingestions.GetIngestion(ctx, ingestionID)
	if err != nil {
		return err
	}
	return o.recordFileChunks(ctx, ing, filePath, texts)
}

// UpdateStatus applies a partial update to an ingestion record.
func (o *Orchestrator) UpdateStatus(ctx context.Context, id core.ID, update *core.IngestionUpdate) (*core.Ingestion, error) {
	return o.ingestions.UpdateIngestion(ctx, id, update)
}

// GetIngestion returns a user's ingestion, or nil when it doesn't exist or
// belongs to someone else.
func (o *Orchestrator) GetIngestion(ctx context.Context, id core.ID, userID string) (*core.Ingestion, error) {
	ing, err := o.ingestions.GetIngestionForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ing, nil
}

// ListIngestions returns a user's ingestions, most recent first.
func (o *Orchestrator) ListIngestions(ctx context.Context, userID string, limit int) ([]*core.Ingestion, error) {
	return o.ingestions.ListIngestions(ctx, userID, limit)
}

// Reindex clears stored embeddings and similarity metadata for every chunk
// of the ingestion, resets the indexing counters, returns the status to
// chunked, and re-invokes the indexing trigger.
func (o *Orchestrator) Reindex(ctx context.Context, id core.ID) error {
	ing, err := o.ingestions.GetIngestion(ctx, id)
	if err != nil {
		return err
	}

	reset, err := o.chunks.ResetEmbeddings(ctx, id)
	if err != nil {
		return err
	}

	indexed := 0
	status := core.StatusChunked
	var clearedAt time.Time
	if _, err := o.ingestions.UpdateIngestion(ctx, id, &core.IngestionUpdate{
		IndexedChunks: &indexed,
		Status:        &status,
		LastIndexedAt: &clearedAt,
	}); err != nil {
		return err
	}

	o.logger.Info("ingestion reset for reindex", "ingestionId", id, "chunksReset", reset)

	if err := o.trigger.TriggerIndexing(ctx, id, ing.UserId); err != nil {
		o.logger.Error("error triggering indexing", "ingestionId", id, "err", err)
	}
	return nil
}

// Delete removes a user's ingestion and all of its chunks atomically.
func (o *Orchestrator) Delete(ctx context.Context, id core.ID, userID string) error {
	if _, err := o.ingestions.GetIngestionForUser(ctx, id, userID); err != nil {
		return err
	}
	return o.ingestions.DeleteIngestion(ctx, id)
}

// ClearAll removes every ingestion of a user. Returns the number removed.
func (o *Orchestrator) ClearAll(ctx context.Context, userID string) (int, error) {
	ingestions, err := o.ingestions.ListIngestions(ctx, userID, 0)
	if err != nil {
		return 0, err
	}
	for i, ing := range ingestions {
		if err := o.ingestions.DeleteIngestion(ctx, ing.Id); err != nil {
			return i, err
		}
	}
	return len(ingestions), nil
}

// Release releases the background worker pool.
// The orchestrator should not be used after calling Release.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}
