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


package memograph

import (
	"log/slog"

	"github.com/poiesic/memograph/ai"
	"github.com/poiesic/memograph/ai/openai"
	"github.com/poiesic/memograph/graph"
	"github.com/poiesic/memograph/indexer"
	"github.com/poiesic/memograph/ingestion"
	"github.com/poiesic/memograph/storage"
	"github.com/poiesic/memograph/storage/badger"
)

type Database struct {
	backend       *badger.Backend
	ingestionRepo storage.IngestionRepository
	chunkRepo     storage.ChunkRepository
	embedder      ai.Embedder
	logger        *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
	inMemory bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbedder overrides the embedder built from the AI config.
// Useful for tests and offline tooling.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithInMemoryStorage keeps all data in memory instead of on disk.
func WithInMemoryStorage() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create ingestion repository
	ingestionRepo, err := badger.NewIngestionRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create chunk repository
	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		ingestionRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create embedder with configured settings unless one was injected
	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			chunkRepo.Close()
			ingestionRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:       backend,
		ingestionRepo: ingestionRepo,
		chunkRepo:     chunkRepo,
		embedder:      embedder,
		logger:        slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close repositories
	if err := db.chunkRepo.Close(); err != nil {
		db.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := db.ingestionRepo.Close(); err != nil {
		db.logger.Error("error closing ingestion repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) IngestionRepository() storage.IngestionRepository {
	return db.ingestionRepo
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

func (db *Database) Embedder() ai.Embedder {
	return db.embedder
}

func (db *Database) NewIndexer(opts ...indexer.Option) (*indexer.Indexer, error) {
	return indexer.NewIndexer(db.ingestionRepo, db.chunkRepo, db.embedder, opts...)
}

func (db *Database) NewOrchestrator(trigger ingestion.IndexTrigger, opts ...ingestion.Option) (*ingestion.Orchestrator, error) {
	return ingestion.NewOrchestrator(db.ingestionRepo, db.chunkRepo, trigger, opts...)
}

func (db *Database) NewGraphService(opts ...graph.ServiceOption) *graph.Service {
	return graph.NewService(db.ingestionRepo, db.chunkRepo, opts...)
}
