package graph

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/poiesic/memograph/core"
	"github.com/poiesic/memograph/storage"
)

// Service answers graph queries against the storage layer. Graphs are
// synthesized per request from committed rows; the service holds no state
// beyond its repositories and is safe for concurrent use.
type Service struct {
	ingestions storage.IngestionRepository
	chunks     storage.ChunkRepository
	logger     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger used by the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a graph query service over the given repositories.
func NewService(ingestions storage.IngestionRepository, chunks storage.ChunkRepository, opts ...ServiceOption) *Service {
	s := &Service{
		ingestions: ingestions,
		chunks:     chunks,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SliceRequest asks for a bounded, filtered view of one ingestion's graph.
type SliceRequest struct {
	UserId      string
	IngestionId core.ID
	Filter      Filter
	NodeLimit   int
	EdgeLimit   int
}

// NeighborhoodRequest asks for a bounded BFS around a center node.
// IngestionId is optional; when zero, the owning ingestion is resolved from
// the center node id.
type NeighborhoodRequest struct {
	UserId      string
	CenterId    string
	Depth       int
	Filter      Filter
	NodeLimit   int
	EdgeLimit   int
	IngestionId core.ID
}

// FetchSlice synthesizes the graph of an ingestion and returns a filtered
// slice of it. A missing ingestion, or one owned by another user, yields an
// empty result with the requested id echoed in the metadata, never an error.
func (s *Service) FetchSlice(ctx context.Context, req SliceRequest) (*Result, error) {
	g, err := s.synthesizeFor(ctx, req.IngestionId, req.UserId)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return EmptyResult(req.IngestionId, "", 0), nil
	}
	return Slice(g, req.IngestionId, req.Filter, req.NodeLimit, req.EdgeLimit), nil
}

// FetchNeighborhood resolves the center node's owning ingestion,
// synthesizes its graph, and runs a depth-bounded BFS from the center.
// An unresolvable center or missing ingestion yields an empty result.
func (s *Service) FetchNeighborhood(ctx context.Context, req NeighborhoodRequest) (*Result, error) {
	ingestionID := req.IngestionId
	if ingestionID == 0 {
		resolved, err := s.resolveIngestion(ctx, req.CenterId)
		if err != nil {
			return nil, err
		}
		if resolved == 0 {
			s.logger.Debug("center node not resolvable", "centerId", req.CenterId)
			return EmptyResult(0, req.CenterId, req.Depth), nil
		}
		ingestionID = resolved
	}

	g, err := s.synthesizeFor(ctx, ingestionID, req.UserId)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return EmptyResult(ingestionID, req.CenterId, req.Depth), nil
	}
	return Neighborhood(g, ingestionID, req.CenterId, req.Depth, req.Filter, req.NodeLimit, req.EdgeLimit), nil
}

// synthesizeFor loads an ingestion and its chunks and builds the graph.
// Returns (nil, nil) when the ingestion doesn't exist for this user.
func (s *Service) synthesizeFor(ctx context.Context, ingestionID core.ID, userID string) (*Graph, error) {
	var ing *core.Ingestion
	var err error
	if userID != "" {
		ing, err = s.ingestions.GetIngestionForUser(ctx, ingestionID, userID)
	} else {
		ing, err = s.ingestions.GetIngestion(ctx, ingestionID)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	chunks, err := s.chunks.GetChunksByIngestion(ctx, ingestionID)
	if err != nil {
		return nil, err
	}
	return Synthesize(ing, chunks), nil
}

// resolveIngestion maps a node id back to its owning ingestion. Document
// and section ids embed the ingestion id as their first part; chunk ids
// carry the chunk row id, which requires a lookup. Returns 0 when the id
// cannot be resolved.
func (s *Service) resolveIngestion(ctx context.Context, nodeID string) (core.ID, error) {
	parts := strings.Split(nodeID, "_")
	if len(parts) < 3 {
		return 0, nil
	}

	switch parts[0] {
	case NodeSchemas[NodeDocument].Prefix, NodeSchemas[NodeSection].Prefix:
		raw, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return 0, nil
		}
		return core.ID(raw), nil
	case NodeSchemas[NodeChunk].Prefix:
		raw, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return 0, nil
		}
		chunk, err := s.chunks.GetChunk(ctx, core.ID(raw))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return 0, nil
			}
			return 0, err
		}
		return chunk.IngestionId, nil
	default:
		return 0, nil
	}
}
