package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/memograph/core"
	"github.com/poiesic/memograph/storage"
)

func TestIngestionBasics(t *testing.T) {
	// Create in-memory repositories
	ingestionRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() {
		chunkRepo.Close()
		ingestionRepo.Close()
		backend.Close()
	}()

	ctx := context.Background()

	ing := &core.Ingestion{
		UserId:     "user1",
		Source:     "upload",
		BatchName:  "notes",
		TotalFiles: 2,
		Status:     core.StatusChunking,
	}

	created, err := ingestionRepo.CreateIngestion(ctx, ing)
	if err != nil {
		t.Fatalf("Failed to create ingestion: %v", err)
	}

	if created.Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set")
	}

	retrieved, err := ingestionRepo.GetIngestion(ctx, created.Id)
	if err != nil {
		t.Fatalf("Failed to get ingestion: %v", err)
	}
	if retrieved.BatchName != "notes" {
		t.Fatalf("Expected batch name 'notes', got %q", retrieved.BatchName)
	}
	if retrieved.Status != core.StatusChunking {
		t.Fatalf("Expected status chunking, got %v", retrieved.Status)
	}
}

func TestIngestionNotFound(t *testing.T) {
	ingestionRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { chunkRepo.Close(); ingestionRepo.Close(); backend.Close() }()

	ctx := context.Background()

	if _, err := ingestionRepo.GetIngestion(ctx, 9999); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	if err := ingestionRepo.DeleteIngestion(ctx, 9999); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on delete, got %v", err)
	}
}

func TestIngestionUserScoping(t *testing.T) {
	ingestionRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { chunkRepo.Close(); ingestionRepo.Close(); backend.Close() }()

	ctx := context.Background()

	created, err := ingestionRepo.CreateIngestion(ctx, &core.Ingestion{
		UserId: "alice", TotalFiles: 1, Status: core.StatusChunking,
	})
	if err != nil {
		t.Fatalf("Failed to create ingestion: %v", err)
	}

	if _, err := ingestionRepo.GetIngestionForUser(ctx, created.Id, "alice"); err != nil {
		t.Fatalf("Owner lookup failed: %v", err)
	}
	if _, err := ingestionRepo.GetIngestionForUser(ctx, created.Id, "bob"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for other user, got %v", err)
	}
}

func TestListIngestionsOrdering(t *testing.T) {
	ingestionRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { chunkRepo.Close(); ingestionRepo.Close(); backend.Close() }()

	ctx := context.Background()
	now := time.Now().UTC()

	// Insert out of order, with a second user mixed in
	batches := []*core.Ingestion{
		{UserId: "alice", BatchName: "middle", TotalFiles: 1, Status: core.StatusChunking, CreatedAt: now.Add(-1 * time.Hour)},
		{UserId: "bob", BatchName: "other", TotalFiles: 1, Status: core.StatusChunking, CreatedAt: now},
		{UserId: "alice", BatchName: "newest", TotalFiles: 1, Status: core.StatusChunking, CreatedAt: now},
		{UserId: "alice", BatchName: "oldest", TotalFiles: 1, Status: core.StatusChunking, CreatedAt: now.Add(-2 * time.Hour)},
	}
	for _, ing := range batches {
		if _, err := ingestionRepo.CreateIngestion(ctx, ing); err != nil {
			t.Fatalf("Failed to create ingestion: %v", err)
		}
	}

	listed, err := ingestionRepo.ListIngestions(ctx, "alice", 0)
	if err != nil {
		t.Fatalf("Failed to list ingestions: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("Expected 3 ingestions for alice, got %d", len(listed))
	}
	want := []string{"newest", "middle", "oldest"}
	for i, name := range want {
		if listed[i].BatchName != name {
			t.Errorf("Position %d: expected %q, got %q", i, name, listed[i].BatchName)
		}
	}

	limited, err := ingestionRepo.ListIngestions(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("Failed to list with limit: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("Expected 2 ingestions with limit, got %d", len(limited))
	}
}

func TestUpdateIngestion(t *testing.T) {
	ingestionRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { chunkRepo.Close(); ingestionRepo.Close(); backend.Close() }()

	ctx := context.Background()

	created, err := ingestionRepo.CreateIngestion(ctx, &core.Ingestion{
		UserId: "user1", TotalFiles: 2, Status: core.StatusChunking,
	})
	if err != nil {
		t.Fatalf("Failed to create ingestion: %v", err)
	}

	processed := 2
	totalChunks := 5
	status := core.StatusChunked
	completed := time.Now().UTC()

	updated, err := ingestionRepo.UpdateIngestion(ctx, created.Id, &core.IngestionUpdate{
		ProcessedFiles: &processed,
		TotalChunks:    &totalChunks,
		Status:         &status,
		CompletedAt:    &completed,
	})
	if err != nil {
		t.Fatalf("Failed to update ingestion: %v", err)
	}
	if updated.Status != core.StatusChunked || updated.TotalChunks != 5 {
		t.Fatalf("Update not applied: %+v", updated)
	}

	// Untouched fields persist across a reload
	reloaded, err := ingestionRepo.GetIngestion(ctx, created.Id)
	if err != nil {
		t.Fatalf("Failed to reload: %v", err)
	}
	if reloaded.UserId != "user1" || reloaded.TotalFiles != 2 {
		t.Fatalf("Untouched fields changed: %+v", reloaded)
	}
	if !reloaded.CompletedAt.Equal(completed) {
		t.Fatalf("CompletedAt = %v, want %v", reloaded.CompletedAt, completed)
	}

	if _, err := ingestionRepo.UpdateIngestion(ctx, 9999, &core.IngestionUpdate{}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIngestionCascades(t *testing.T) {
	ingestionRepo, chunkRepo, backend, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer func() { chunkRepo.Close(); ingestionRepo.Close(); backend.Close() }()

	ctx := context.Background()

	created, err := ingestionRepo.CreateIngestion(ctx, &core.Ingestion{
		UserId: "user1", TotalFiles: 1, Status: core.StatusChunking,
	})
	if err != nil {
		t.Fatalf("Failed to create ingestion: %v", err)
	}

	chunks := []*core.Chunk{
		{IngestionId: created.Id, UserId: "user1", FilePath: "a.md", ChunkIndex: 0, Content: "first"},
		{IngestionId: created.Id, UserId: "user1", FilePath: "a.md", ChunkIndex: 1, Content: "second"},
	}
	added, err := chunkRepo.AddChunks(ctx, chunks...)
	if err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}

	if err := ingestionRepo.DeleteIngestion(ctx, created.Id); err != nil {
		t.Fatalf("Failed to delete ingestion: %v", err)
	}

	if _, err := ingestionRepo.GetIngestion(ctx, created.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ingestion gone, got %v", err)
	}
	for _, chunk := range added {
		if _, err := chunkRepo.GetChunk(ctx, chunk.Id); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Expected chunk %d gone, got %v", chunk.Id, err)
		}
	}
	remaining, err := chunkRepo.GetChunksByIngestion(ctx, created.Id)
	if err != nil {
		t.Fatalf("Failed to list chunks: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("Expected no chunks after delete, got %d", len(remaining))
	}

	// Uniqueness guard is cleared too, same tuple can be re-added
	recreated, err := ingestionRepo.CreateIngestion(ctx, &core.Ingestion{
		Id: created.Id, UserId: "user1", TotalFiles: 1, Status: core.StatusChunking,
	})
	if err != nil {
		t.Fatalf("Failed to recreate ingestion: %v", err)
	}
	if _, err := chunkRepo.AddChunks(ctx, &core.Chunk{
		IngestionId: recreated.Id, UserId: "user1", FilePath: "a.md", ChunkIndex: 0, Content: "again",
	}); err != nil {
		t.Fatalf("Failed to re-add chunk after cascade: %v", err)
	}
}
