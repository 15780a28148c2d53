package graph

import (
	"context"
	"strconv"
	"testing"

	"github.com/poiesic/memograph/core"
	"github.com/poiesic/memograph/storage"
	"github.com/poiesic/memograph/storage/badger"
)

func formatID(id core.ID) string {
	return strconv.FormatUint(uint64(id), 10)
}

func newTestService(t *testing.T) (*Service, storage.IngestionRepository, storage.ChunkRepository) {
	t.Helper()
	ingestionRepo, chunkRepo, backend, err := badger.NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	t.Cleanup(func() {
		chunkRepo.Close()
		ingestionRepo.Close()
		backend.Close()
	})
	return NewService(ingestionRepo, chunkRepo), ingestionRepo, chunkRepo
}

func seedGraphData(t *testing.T, ingestionRepo storage.IngestionRepository, chunkRepo storage.ChunkRepository) *core.Ingestion {
	t.Helper()
	ctx := context.Background()

	ing, err := ingestionRepo.CreateIngestion(ctx, &core.Ingestion{
		UserId: "user1", Source: "upload", BatchName: "notes",
		TotalFiles: 2, Status: core.StatusChunked,
	})
	if err != nil {
		t.Fatalf("Failed to create ingestion: %v", err)
	}

	chunks := []*core.Chunk{
		{IngestionId: ing.Id, UserId: "user1", FilePath: "a.md", ChunkIndex: 0, Content: "alpha"},
		{IngestionId: ing.Id, UserId: "user1", FilePath: "a.md", ChunkIndex: 1, Content: "beta"},
		{IngestionId: ing.Id, UserId: "user1", FilePath: "b.md", ChunkIndex: 0, Content: "gamma"},
	}
	if _, err := chunkRepo.AddChunks(ctx, chunks...); err != nil {
		t.Fatalf("Failed to add chunks: %v", err)
	}
	return ing
}

func TestFetchSlice(t *testing.T) {
	svc, ingestionRepo, chunkRepo := newTestService(t)
	ing := seedGraphData(t, ingestionRepo, chunkRepo)

	result, err := svc.FetchSlice(context.Background(), SliceRequest{
		UserId: "user1", IngestionId: ing.Id,
	})
	if err != nil {
		t.Fatalf("FetchSlice failed: %v", err)
	}
	if result.Meta.NodeCount != 6 {
		t.Errorf("Expected 6 nodes, got %d", result.Meta.NodeCount)
	}
	if result.Meta.EdgeCount != 5 {
		t.Errorf("Expected 5 edges, got %d", result.Meta.EdgeCount)
	}
}

func TestFetchSliceMissingIngestion(t *testing.T) {
	svc, _, _ := newTestService(t)

	result, err := svc.FetchSlice(context.Background(), SliceRequest{
		UserId: "user1", IngestionId: 9999,
	})
	if err != nil {
		t.Fatalf("Expected no error for missing ingestion, got %v", err)
	}
	if result.Meta.NodeCount != 0 || len(result.Nodes) != 0 || len(result.Edges) != 0 {
		t.Fatalf("Expected empty result, got %+v", result.Meta)
	}
	if result.Meta.IngestionId != 9999 {
		t.Fatal("Expected requested ingestion id echoed in metadata")
	}
}

func TestFetchSliceWrongUser(t *testing.T) {
	svc, ingestionRepo, chunkRepo := newTestService(t)
	ing := seedGraphData(t, ingestionRepo, chunkRepo)

	result, err := svc.FetchSlice(context.Background(), SliceRequest{
		UserId: "intruder", IngestionId: ing.Id,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Meta.NodeCount != 0 {
		t.Fatal("Expected empty result for another user's ingestion")
	}
}

func TestFetchNeighborhoodResolvesDocumentCenter(t *testing.T) {
	svc, ingestionRepo, chunkRepo := newTestService(t)
	ing := seedGraphData(t, ingestionRepo, chunkRepo)

	// Document ids embed the ingestion id; no explicit ingestion id passed
	centerID := NodeID(NodeDocument, formatID(ing.Id))

	result, err := svc.FetchNeighborhood(context.Background(), NeighborhoodRequest{
		UserId: "user1", CenterId: centerID, Depth: 1,
	})
	if err != nil {
		t.Fatalf("FetchNeighborhood failed: %v", err)
	}
	if result.Meta.NodeCount != 3 {
		t.Fatalf("Expected document + 2 sections, got %d nodes", result.Meta.NodeCount)
	}
}

func TestFetchNeighborhoodResolvesChunkCenter(t *testing.T) {
	svc, ingestionRepo, chunkRepo := newTestService(t)
	ing := seedGraphData(t, ingestionRepo, chunkRepo)

	chunks, err := chunkRepo.GetChunksByIngestion(context.Background(), ing.Id)
	if err != nil {
		t.Fatalf("Failed to list chunks: %v", err)
	}
	centerID := NodeID(NodeChunk, formatID(chunks[0].Id))

	result, err := svc.FetchNeighborhood(context.Background(), NeighborhoodRequest{
		UserId: "user1", CenterId: centerID, Depth: 0,
	})
	if err != nil {
		t.Fatalf("FetchNeighborhood failed: %v", err)
	}
	if result.Meta.NodeCount != 1 {
		t.Fatalf("Expected exactly the center chunk, got %d nodes", result.Meta.NodeCount)
	}
	if result.Nodes[0].Id != centerID {
		t.Fatalf("Expected center %q, got %q", centerID, result.Nodes[0].Id)
	}
}

func TestFetchNeighborhoodUnresolvable(t *testing.T) {
	svc, _, _ := newTestService(t)

	result, err := svc.FetchNeighborhood(context.Background(), NeighborhoodRequest{
		UserId: "user1", CenterId: "ENT_SOMETHING_abcdef1234", Depth: 2,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Meta.NodeCount != 0 {
		t.Fatal("Expected empty result for unresolvable center")
	}
	if result.Meta.CenterId != "ENT_SOMETHING_abcdef1234" {
		t.Fatal("Expected center id echoed in metadata")
	}
}
