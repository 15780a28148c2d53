package ingestion

import "strings"

const (
	// DefaultChunkSize is the target chunk size in characters.
	DefaultChunkSize = 1200

	// DefaultOverlap is the number of characters shared between
	// consecutive chunks.
	DefaultOverlap = 200
)

// Chunker splits raw text into overlapping fixed-size windows.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a chunker. Non-positive sizes fall back to the
// defaults, and overlap is clamped below chunkSize so the window always
// advances.
func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Split chunks one file's text. Line endings are normalized and the text
// trimmed first; empty text yields zero chunks. Each window is chunkSize
// characters except the last, which ends exactly at the text length.
func (c *Chunker) Split(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	trimmed := strings.TrimSpace(normalized)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	step := c.chunkSize - c.overlap

	var chunks []string
	for start := 0; ; start += step {
		end := start + c.chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// ChunkSize returns the configured window size.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}
