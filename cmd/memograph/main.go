// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/memograph/ai"
	"github.com/poiesic/memograph/ai/openai"
	"github.com/poiesic/memograph/core"
	"github.com/poiesic/memograph/graph"
	"github.com/poiesic/memograph/indexer"
	"github.com/poiesic/memograph/ingestion"
	"github.com/poiesic/memograph/storage"
	"github.com/poiesic/memograph/storage/badger"
	"github.com/urfave/cli/v2"
)

var dbFlag = &cli.StringFlag{
	Name:     "db",
	Aliases:  []string{"d"},
	Usage:    "Path to BadgerDB database directory",
	Required: true,
}

var userFlag = &cli.StringFlag{
	Name:     "user",
	Aliases:  []string{"u"},
	Usage:    "User id owning the ingestion(s)",
	Required: true,
}

var embeddingFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "embedding-host",
		Usage: "Embedding service host URL",
		Value: "http://localhost:11434/v1",
	},
	&cli.StringFlag{
		Name:  "embedding-model",
		Usage: "Embedding model name",
		Value: "embeddinggemma",
	},
}

var filterFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "node-types",
		Usage: "Comma-separated node types to keep (DOCUMENT,SECTION,CHUNK,...)",
	},
	&cli.StringFlag{
		Name:  "edge-types",
		Usage: "Comma-separated edge types to keep (HAS_SECTION,HAS_CHUNK,SIMILAR_TO,...)",
	},
	&cli.IntFlag{
		Name:  "node-limit",
		Usage: "Maximum nodes in the result (0 = default)",
	},
	&cli.IntFlag{
		Name:  "edge-limit",
		Usage: "Maximum edges in the result (0 = default)",
	},
}

func main() {
	app := &cli.App{
		Name:  "memograph",
		Usage: "Memory ingestion and graph engine for uploaded file batches",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Upload files as a batch, chunk, embed, and index them",
				ArgsUsage: "FILE...",
				Action:    ingestCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					userFlag,
					&cli.StringFlag{
						Name:  "source",
						Usage: "Source label recorded on the batch",
						Value: "upload",
					},
					&cli.StringFlag{
						Name:  "batch-name",
						Usage: "Display name for the batch",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for processing to finish",
						Value: 5 * time.Minute,
					},
				}, embeddingFlags...),
			},
			{
				Name:   "status",
				Usage:  "Show one ingestion record",
				Action: statusCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.Uint64Flag{
						Name:     "id",
						Usage:    "Ingestion id",
						Required: true,
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List a user's ingestions, most recent first",
				Action: listCommand,
				Flags: []cli.Flag{
					dbFlag,
					userFlag,
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum records to return (0 = all)",
					},
				},
			},
			{
				Name:   "reindex",
				Usage:  "Reset embeddings of an ingestion and index it again",
				Action: reindexCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					&cli.Uint64Flag{
						Name:     "id",
						Usage:    "Ingestion id",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for reindexing to finish",
						Value: 5 * time.Minute,
					},
				}, embeddingFlags...),
			},
			{
				Name:   "delete",
				Usage:  "Delete a user's ingestion and all of its chunks",
				Action: deleteCommand,
				Flags: []cli.Flag{
					dbFlag,
					userFlag,
					&cli.Uint64Flag{
						Name:     "id",
						Usage:    "Ingestion id",
						Required: true,
					},
				},
			},
			{
				Name:   "clear",
				Usage:  "Delete every ingestion of a user",
				Action: clearCommand,
				Flags:  []cli.Flag{dbFlag, userFlag},
			},
			{
				Name:   "slice",
				Usage:  "Print a filtered slice of an ingestion's graph",
				Action: sliceCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					userFlag,
					&cli.Uint64Flag{
						Name:     "id",
						Usage:    "Ingestion id",
						Required: true,
					},
				}, filterFlags...),
			},
			{
				Name:   "neighborhood",
				Usage:  "Print the neighborhood of a graph node",
				Action: neighborhoodCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					userFlag,
					&cli.StringFlag{
						Name:     "center",
						Usage:    "Center node id (DOC_..., SEC_..., CHK_...)",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "depth",
						Usage: "Traversal depth (0 = center only)",
						Value: 1,
					},
					&cli.Uint64Flag{
						Name:  "id",
						Usage: "Ingestion id (0 = resolve from the center id)",
					},
				}, filterFlags...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openRepos(dbPath string) (*badger.Backend, storage.IngestionRepository, storage.ChunkRepository, error) {
	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	ingestionRepo, err := badger.NewIngestionRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, fmt.Errorf("failed to create ingestion repository: %w", err)
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		ingestionRepo.Close()
		backend.Close()
		return nil, nil, nil, fmt.Errorf("failed to create chunk repository: %w", err)
	}

	return backend, ingestionRepo, chunkRepo, nil
}

func newEmbedder(c *cli.Context) (ai.Embedder, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedder, nil
}

// ingestionView is the JSON shape printed for an ingestion record.
type ingestionView struct {
	Id             core.ID   `json:"id"`
	UserId         string    `json:"userId"`
	Source         string    `json:"source"`
	BatchName      string    `json:"batchName,omitempty"`
	TotalFiles     int       `json:"totalFiles"`
	ProcessedFiles int       `json:"processedFiles"`
	ChunkedFiles   int       `json:"chunkedFiles"`
	TotalChunks    int       `json:"totalChunks"`
	IndexedChunks  int       `json:"indexedChunks"`
	Status         string    `json:"status"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	CompletedAt    time.Time `json:"completedAt,omitzero"`
	LastIndexedAt  time.Time `json:"lastIndexedAt,omitzero"`
	GraphMetrics   string    `json:"graphMetrics,omitempty"`
}

func toView(ing *core.Ingestion) ingestionView {
	return ingestionView{
		Id:             ing.Id,
		UserId:         ing.UserId,
		Source:         ing.Source,
		BatchName:      ing.BatchName,
		TotalFiles:     ing.TotalFiles,
		ProcessedFiles: ing.ProcessedFiles,
		ChunkedFiles:   ing.ChunkedFiles,
		TotalChunks:    ing.TotalChunks,
		IndexedChunks:  ing.IndexedChunks,
		Status:         ing.Status.String(),
		Error:          ing.Error,
		CreatedAt:      ing.CreatedAt,
		CompletedAt:    ing.CompletedAt,
		LastIndexedAt:  ing.LastIndexedAt,
		GraphMetrics:   ing.GraphMetrics,
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// waitForTerminal polls the ingestion until it reaches a terminal status.
func waitForTerminal(ctx context.Context, repo storage.IngestionRepository, id core.ID, timeout time.Duration) (*core.Ingestion, error) {
	deadline := time.Now().Add(timeout)
	for {
		ing, err := repo.GetIngestion(ctx, id)
		if err != nil {
			return nil, err
		}
		if ing.Status.Terminal() {
			return ing, nil
		}
		if time.Now().After(deadline) {
			return ing, fmt.Errorf("timed out waiting for ingestion %d (status %s)", id, ing.Status)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	paths := c.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one file is required")
	}

	files := make([]ingestion.UploadFile, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, ingestion.UploadFile{Path: path, Content: string(data)})
	}

	backend, ingestionRepo, chunkRepo, err := openRepos(c.String("db"))
	if err != nil {
		return err
	}
	defer backend.Close()
	defer ingestionRepo.Close()
	defer chunkRepo.Close()

	embedder, err := newEmbedder(c)
	if err != nil {
		return err
	}

	idx, err := indexer.NewIndexer(ingestionRepo, chunkRepo, embedder)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer idx.Release()

	orch, err := ingestion.NewOrchestrator(ingestionRepo, chunkRepo, idx)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orch.Release()

	ing, err := orch.CreateIngestion(ctx, c.String("user"), c.String("source"), c.String("batch-name"), files)
	if err != nil {
		return fmt.Errorf("failed to create ingestion: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Ingestion %d created (%d files), waiting for processing\n", ing.Id, len(files))

	done, err := waitForTerminal(ctx, ingestionRepo, ing.Id, c.Duration("timeout"))
	if err != nil {
		return err
	}
	if err := printJSON(toView(done)); err != nil {
		return err
	}
	if done.Status == core.StatusFailed {
		return fmt.Errorf("ingestion failed: %s", done.Error)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	backend, ingestionRepo, chunkRepo, err := openRepos(c.String("db"))
	if err != nil {
		return err
	}
	defer backend.Close()
	defer ingestionRepo.Close()
	defer chunkRepo.Close()

	ing, err := ingestionRepo.GetIngestion(context.Background(), core.ID(c.Uint64("id")))
	if err != nil {
		return err
	}
	return printJSON(toView(ing))
}

func listCommand(c *cli.Context) error {
	backend, ingestionRepo, chunkRepo, err := openRepos(c.String("db"))
	if err != nil {
		return err
	}
	defer backend.Close()
	defer ingestionRepo.Close()
	defer chunkRepo.Close()

	ingestions, err := ingestionRepo.ListIngestions(context.Background(), c.String("user"), c.Int("limit"))
	if err != nil {
		return err
	}

	views := make([]ingestionView, len(ingestions))
	for i, ing := range ingestions {
		views[i] = toView(ing)
	}
	return printJSON(views)
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, ingestionRepo, chunkRepo, err := openRepos(c.String("db"))
	if err != nil {
		return err
	}
	defer backend.Close()
	defer ingestionRepo.Close()
	defer chunkRepo.Close()

	embedder, err := newEmbedder(c)
	if err != nil {
		return err
	}

	idx, err := indexer.NewIndexer(ingestionRepo, chunkRepo, embedder)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}
	defer idx.Release()

	orch, err := ingestion.NewOrchestrator(ingestionRepo, chunkRepo, idx)
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}
	defer orch.Release()

	id := core.ID(c.Uint64("id"))
	if err := orch.Reindex(ctx, id); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	done, err := waitForTerminal(ctx, ingestionRepo, id, c.Duration("timeout"))
	if err != nil {
		return err
	}
	if err := printJSON(toView(done)); err != nil {
		return err
	}
	if done.Status == core.StatusFailed {
		return fmt.Errorf("reindex failed: %s", done.Error)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, ingestionRepo, chunkRepo, err := openRepos(c.String("db"))
	if err != nil {
		return err
	}
	defer backend.Close()
	defer ingestionRepo.Close()
	defer chunkRepo.Close()

	id := core.ID(c.Uint64("id"))
	if _, err := ingestionRepo.GetIngestionForUser(ctx, id, c.String("user")); err != nil {
		return err
	}
	if err := ingestionRepo.DeleteIngestion(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Ingestion %d deleted\n", id)
	return nil
}

func clearCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, ingestionRepo, chunkRepo, err := openRepos(c.String("db"))
	if err != nil {
		return err
	}
	defer backend.Close()
	defer ingestionRepo.Close()
	defer chunkRepo.Close()

	ingestions, err := ingestionRepo.ListIngestions(ctx, c.String("user"), 0)
	if err != nil {
		return err
	}
	for _, ing := range ingestions {
		if err := ingestionRepo.DeleteIngestion(ctx, ing.Id); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "Removed %d ingestions\n", len(ingestions))
	return nil
}

func sliceCommand(c *cli.Context) error {
	backend, ingestionRepo, chunkRepo, err := openRepos(c.String("db"))
	if err != nil {
		return err
	}
	defer backend.Close()
	defer ingestionRepo.Close()
	defer chunkRepo.Close()

	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	svc := graph.NewService(ingestionRepo, chunkRepo)
	result, err := svc.FetchSlice(context.Background(), graph.SliceRequest{
		UserId:      c.String("user"),
		IngestionId: core.ID(c.Uint64("id")),
		Filter:      filter,
		NodeLimit:   c.Int("node-limit"),
		EdgeLimit:   c.Int("edge-limit"),
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func neighborhoodCommand(c *cli.Context) error {
	backend, ingestionRepo, chunkRepo, err := openRepos(c.String("db"))
	if err != nil {
		return err
	}
	defer backend.Close()
	defer ingestionRepo.Close()
	defer chunkRepo.Close()

	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	svc := graph.NewService(ingestionRepo, chunkRepo)
	result, err := svc.FetchNeighborhood(context.Background(), graph.NeighborhoodRequest{
		UserId:      c.String("user"),
		CenterId:    c.String("center"),
		Depth:       c.Int("depth"),
		IngestionId: core.ID(c.Uint64("id")),
		Filter:      filter,
		NodeLimit:   c.Int("node-limit"),
		EdgeLimit:   c.Int("edge-limit"),
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func parseFilter(c *cli.Context) (graph.Filter, error) {
	var filter graph.Filter

	for _, name := range splitList(c.String("node-types")) {
		t, ok := graph.ParseNodeType(name)
		if !ok {
			return filter, fmt.Errorf("unknown node type %q", name)
		}
		filter.NodeTypes = append(filter.NodeTypes, t)
	}
	for _, name := range splitList(c.String("edge-types")) {
		t, ok := graph.ParseEdgeType(name)
		if !ok {
			return filter, fmt.Errorf("unknown edge type %q", name)
		}
		filter.EdgeTypes = append(filter.EdgeTypes, t)
	}
	return filter, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, strings.ToUpper(part))
		}
	}
	return out
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
