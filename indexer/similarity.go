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


package indexer

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/memograph/core"
)

const (
	// DefaultSimilarityTopK is how many neighbors each chunk keeps.
	DefaultSimilarityTopK = 8

	// DefaultSimilarityMinScore is the cosine similarity floor for a link.
	DefaultSimilarityMinScore = 0.5

	// DefaultSimilarityDegreeCap bounds the number of links per chunk
	// accumulated during pair discovery, before per-chunk trimming.
	DefaultSimilarityDegreeCap = 20
)

// SimilarityConfig tunes the similar-chunk linking pass.
type SimilarityConfig struct {
	TopK      int
	MinScore  float32
	DegreeCap int
}

// DefaultSimilarityConfig returns the standard linking parameters.
func DefaultSimilarityConfig() SimilarityConfig {
	return SimilarityConfig{
		TopK:      DefaultSimilarityTopK,
		MinScore:  DefaultSimilarityMinScore,
		DegreeCap: DefaultSimilarityDegreeCap,
	}
}

// linkSimilarChunks fills in Metadata.SimilarNeighbors for every row in
// place. Links are discovered per chunk via vector search, deduplicated as
// unordered pairs, and recorded symmetrically so both endpoints see the
// link. Each chunk then keeps its TopK highest-scoring neighbors.
func (x *Indexer) linkSimilarChunks(ctx context.Context, ingestionID core.ID, rows []*core.Chunk) error {
	cfg := x.similarity

	nodeIDs := make(map[core.ID]string, len(rows))
	for _, row := range rows {
		nodeIDs[row.Id] = row.Metadata.ChunkNodeId
	}

	adjacency := make(map[core.ID][]core.SimilarNeighbor)
	degree := make(map[core.ID]int)
	seenPairs := make(map[string]bool)

	for _, row := range rows {
		if len(row.Vector) == 0 {
			continue
		}
		// Over-fetch so the query result still holds TopK neighbors after
		// the row itself and already-linked pairs are dropped.
		matches, err := x.chunks.FindSimilarChunks(ctx, ingestionID, row.Vector, cfg.MinScore, cfg.TopK*2)
		if err != nil {
			return err
		}
		for _, match := range matches {
			if match.Chunk.Id == row.Id {
				continue
			}
			key := pairKey(row.Id, match.Chunk.Id)
			if seenPairs[key] {
				continue
			}
			if degree[row.Id] >= cfg.DegreeCap || degree[match.Chunk.Id] >= cfg.DegreeCap {
				continue
			}
			seenPairs[key] = true
			adjacency[row.Id] = append(adjacency[row.Id],
				core.SimilarNeighbor{ChunkNodeId: nodeIDs[match.Chunk.Id], Score: match.Score})
			adjacency[match.Chunk.Id] = append(adjacency[match.Chunk.Id],
				core.SimilarNeighbor{ChunkNodeId: nodeIDs[row.Id], Score: match.Score})
			degree[row.Id]++
			degree[match.Chunk.Id]++
		}
	}

	for _, row := range rows {
		neighbors := adjacency[row.Id]
		slices.SortFunc(neighbors, func(a, b core.SimilarNeighbor) int {
			if a.Score != b.Score {
				if a.Score > b.Score {
					return -1
				}
				return 1
			}
			return strings.Compare(a.ChunkNodeId, b.ChunkNodeId)
		})
		if cfg.TopK > 0 && len(neighbors) > cfg.TopK {
			neighbors = neighbors[:cfg.TopK]
		}
		row.Metadata.SimilarNeighbors = neighbors
	}
	return nil
}

// pairKey canonicalizes an unordered chunk id pair.
func pairKey(a, b core.ID) string {
	if b < a {
		a, b = b, a
	}
	return strconv.FormatUint(uint64(a), 10) + ":" + strconv.FormatUint(uint64(b), 10)
}
