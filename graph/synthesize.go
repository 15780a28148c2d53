package graph

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/poiesic/memograph/core"
)

const (
	// summaryMaxLen is the content length above which chunk summaries are
	// truncated with an ellipsis.
	summaryMaxLen = 180
	summaryCutLen = 177
)

// Synthesize reconstructs the typed graph of one ingestion from its chunk
// rows: one DOCUMENT node, one SECTION node per distinct file path in first
// appearance order, one CHUNK node per row, plus HAS_SECTION, HAS_CHUNK and
// SIMILAR_TO edges.
//
// Persisted metadata ids (sectionNodeId, chunkNodeId) are reused when
// present; ids are derived from the identity scheme only as a fallback, so
// graphs stay stable as chunks gain metadata incrementally.
func Synthesize(ing *core.Ingestion, chunks []*core.Chunk) *Graph {
	g := NewGraph()
	if ing == nil {
		return g
	}

	ingestionPart := strconv.FormatUint(uint64(ing.Id), 10)

	docID := ""
	for _, chunk := range chunks {
		if chunk.Metadata.DocumentNodeId != "" {
			docID = chunk.Metadata.DocumentNodeId
			break
		}
	}
	if docID == "" {
		docID = NodeID(NodeDocument, ingestionPart)
	}

	docName := ing.BatchName
	if docName == "" {
		docName = fmt.Sprintf("ingestion %d", ing.Id)
	}
	g.AddNode(&Node{
		Id:          docID,
		Type:        NodeDocument,
		DisplayName: docName,
		Summary:     fmt.Sprintf("%d files, %d chunks", ing.TotalFiles, len(chunks)),
		SourceURI:   ing.Source,
		Metadata: map[string]string{
			"ingestionId": ingestionPart,
			"userId":      ing.UserId,
		},
	})

	// Group chunks into sections by file path, first appearance order
	var sectionPaths []string
	sectionChunks := make(map[string][]*core.Chunk)
	for _, chunk := range chunks {
		if _, seen := sectionChunks[chunk.FilePath]; !seen {
			sectionPaths = append(sectionPaths, chunk.FilePath)
		}
		sectionChunks[chunk.FilePath] = append(sectionChunks[chunk.FilePath], chunk)
	}

	for order, filePath := range sectionPaths {
		group := sectionChunks[filePath]

		sectionID := ""
		for _, chunk := range group {
			if chunk.Metadata.SectionNodeId != "" {
				sectionID = chunk.Metadata.SectionNodeId
				break
			}
		}
		if sectionID == "" {
			sectionID = NodeID(NodeSection, ingestionPart, filePath)
		}

		g.AddNode(&Node{
			Id:          sectionID,
			Type:        NodeSection,
			DisplayName: filePath,
			Summary:     fmt.Sprintf("%d chunks from %s", len(group), filePath),
			SourceURI:   filePath,
			Metadata: map[string]string{
				"order":      strconv.Itoa(order),
				"chunkCount": strconv.Itoa(len(group)),
			},
		})
		g.AddEdge(&Edge{
			Id:       EdgeID(EdgeHasSection, docID, sectionID),
			Type:     EdgeHasSection,
			From:     docID,
			To:       sectionID,
			Metadata: map[string]string{"order": strconv.Itoa(order)},
		})

		for _, chunk := range group {
			chunkNodeID := chunkNodeID(chunk)

			displayName := chunk.DisplayName
			if displayName == "" {
				displayName = fmt.Sprintf("%s#%d", chunk.FilePath, chunk.ChunkIndex)
			}
			summary := chunk.Summary
			if summary == "" {
				summary = Summarize(chunk.Content)
			}

			meta := map[string]string{
				"chunkIndex": strconv.Itoa(chunk.ChunkIndex),
			}
			if chunk.Metadata.TokenCount > 0 {
				meta["tokenCount"] = strconv.Itoa(chunk.Metadata.TokenCount)
			}

			g.AddNode(&Node{
				Id:          chunkNodeID,
				Type:        NodeChunk,
				DisplayName: displayName,
				Summary:     summary,
				SourceURI:   chunk.FilePath,
				Metadata:    meta,
			})
			g.AddEdge(&Edge{
				Id:       EdgeID(EdgeHasChunk, sectionID, chunkNodeID),
				Type:     EdgeHasChunk,
				From:     sectionID,
				To:       chunkNodeID,
				Metadata: map[string]string{"chunkIndex": strconv.Itoa(chunk.ChunkIndex)},
			})
		}
	}

	// Similarity edges, deduplicated by unordered pair. First occurrence wins.
	seenPairs := make(map[string]bool)
	for _, chunk := range chunks {
		from := chunkNodeID(chunk)
		for _, neighbor := range chunk.Metadata.SimilarNeighbors {
			to := neighbor.ChunkNodeId
			if to == "" || to == from {
				continue
			}
			pair := pairKey(from, to)
			if seenPairs[pair] {
				continue
			}
			seenPairs[pair] = true
			g.AddEdge(&Edge{
				Id:     SimilarityEdgeID(from, to),
				Type:   EdgeSimilarTo,
				From:   from,
				To:     to,
				Weight: neighbor.Score,
			})
		}
	}

	return g
}

// chunkNodeID returns the persisted chunk node id, falling back to the
// identity scheme over the chunk row id.
func chunkNodeID(chunk *core.Chunk) string {
	if chunk.Metadata.ChunkNodeId != "" {
		return chunk.Metadata.ChunkNodeId
	}
	return NodeID(NodeChunk, strconv.FormatUint(uint64(chunk.Id), 10))
}

// pairKey canonicalizes an unordered node id pair.
func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// Summarize returns the display summary of chunk content: the content
// itself when short, or its first characters with a trailing ellipsis.
func Summarize(text string) string {
	runes := []rune(text)
	if len(runes) <= summaryMaxLen {
		return text
	}
	cut := strings.TrimRightFunc(string(runes[:summaryCutLen]), unicode.IsSpace)
	return cut + "..."
}

// EstimateTokens approximates the token count of chunk content at four
// characters per token. Blank content counts as zero.
func EstimateTokens(text string) int {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return 0
	}
	tokens := (len(clean) + 3) / 4
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
