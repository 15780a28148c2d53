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
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/poiesic/memograph/core"
	"github.com/poiesic/memograph/graph"
)

// GraphMetrics summarizes the shape of an ingestion's synthesized graph.
// It is stored on the ingestion record as an opaque JSON blob, so readers
// must tolerate additional fields.
type GraphMetrics struct {
	ChunkCount     int     `json:"chunkCount"`
	SectionCount   int     `json:"sectionCount"`
	AvgChunkTokens float64 `json:"avgChunkTokens"`
	MaxChunkTokens int     `json:"maxChunkTokens"`
	OrphanRate     float64 `json:"orphanRate"`
}

// SyncGraphIdentity assigns graph node ids and display metadata to every
// chunk row in place. Rows must all belong to the given ingestion and be
// ordered by (FilePath, ChunkIndex); section order follows first appearance.
func SyncGraphIdentity(ing *core.Ingestion, rows []*core.Chunk) {
	ingestionPart := strconv.FormatUint(uint64(ing.Id), 10)
	documentID := graph.NodeID(graph.NodeDocument, ingestionPart)

	sectionIDs := make(map[string]string)
	sectionOrder := make(map[string]int)
	sectionCounts := make(map[string]int)
	for _, row := range rows {
		if _, ok := sectionIDs[row.FilePath]; !ok {
			sectionIDs[row.FilePath] = graph.NodeID(graph.NodeSection, ingestionPart, row.FilePath)
			sectionOrder[row.FilePath] = len(sectionOrder)
		}
		sectionCounts[row.FilePath]++
	}

	for _, row := range rows {
		row.DisplayName = fmt.Sprintf("%s#%d", row.FilePath, row.ChunkIndex)
		row.Summary = graph.Summarize(row.Content)
		row.Metadata.DocumentNodeId = documentID
		row.Metadata.SectionNodeId = sectionIDs[row.FilePath]
		row.Metadata.ChunkNodeId = graph.NodeID(graph.NodeChunk, strconv.FormatUint(uint64(row.Id), 10))
		row.Metadata.SectionOrder = sectionOrder[row.FilePath]
		row.Metadata.SectionChunkCount = sectionCounts[row.FilePath]
		row.Metadata.TokenCount = graph.EstimateTokens(row.Content)
		if row.Metadata.Extra == nil {
			row.Metadata.Extra = make(map[string]string)
		}
		row.Metadata.Extra["charCount"] = strconv.Itoa(len(row.Content))
	}
}

// ComputeGraphMetrics derives graph shape metrics from synced chunk rows.
// Sections are derived from the chunks themselves, so a section with zero
// chunks cannot occur and the orphan rate only becomes non-zero if that
// derivation ever changes.
func ComputeGraphMetrics(rows []*core.Chunk) GraphMetrics {
	metrics := GraphMetrics{ChunkCount: len(rows)}

	sections := make(map[string]int)
	totalTokens := 0
	for _, row := range rows {
		sections[row.FilePath]++
		totalTokens += row.Metadata.TokenCount
		if row.Metadata.TokenCount > metrics.MaxChunkTokens {
			metrics.MaxChunkTokens = row.Metadata.TokenCount
		}
	}
	metrics.SectionCount = len(sections)
	if len(rows) > 0 {
		metrics.AvgChunkTokens = float64(totalTokens) / float64(len(rows))
	}

	orphans := 0
	for _, count := range sections {
		if count == 0 {
			orphans++
		}
	}
	if len(sections) > 0 {
		metrics.OrphanRate = float64(orphans) / float64(len(sections))
	}

	return metrics
}

// MarshalGraphMetrics encodes metrics to the JSON blob stored on the ingestion.
func MarshalGraphMetrics(metrics GraphMetrics) (string, error) {
	data, err := json.Marshal(metrics)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
