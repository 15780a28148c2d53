package ingestion

import (
	"strings"
	"testing"
)

func TestChunkerEmpty(t *testing.T) {
	c := NewChunker(DefaultChunkSize, DefaultOverlap)

	for _, input := range []string{"", "   ", "\n\n", "\r\n \r\n"} {
		if chunks := c.Split(input); len(chunks) != 0 {
			t.Errorf("Split(%q) = %d chunks, want 0", input, len(chunks))
		}
	}
}

func TestChunkerSingleWindow(t *testing.T) {
	c := NewChunker(1200, 200)

	chunks := c.Split(strings.Repeat("b", 100))
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if len(chunks[0]) != 100 {
		t.Fatalf("Expected 100 chars, got %d", len(chunks[0]))
	}
}

func TestChunkerOverlappingWindows(t *testing.T) {
	c := NewChunker(1200, 200)

	chunks := c.Split(strings.Repeat("a", 1500))
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0]) != 1200 {
		t.Errorf("Chunk 0: expected 1200 chars, got %d", len(chunks[0]))
	}
	// Second window starts at 1000, runs to the end
	if len(chunks[1]) != 500 {
		t.Errorf("Chunk 1: expected 500 chars, got %d", len(chunks[1]))
	}
}

func TestChunkerExactFit(t *testing.T) {
	c := NewChunker(100, 20)

	chunks := c.Split(strings.Repeat("x", 100))
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk for exact fit, got %d", len(chunks))
	}
}

func TestChunkerReconstruction(t *testing.T) {
	// Stripping the overlap from every chunk after the first must
	// reconstruct the input, and the last chunk ends at the text length.
	cases := []struct {
		chunkSize int
		overlap   int
		length    int
	}{
		{100, 20, 350},
		{100, 0, 250},
		{50, 49, 120},
		{1200, 200, 2700},
	}

	for _, tc := range cases {
		c := NewChunker(tc.chunkSize, tc.overlap)
		text := buildText(tc.length)
		chunks := c.Split(text)
		if len(chunks) == 0 {
			t.Fatalf("size=%d overlap=%d: no chunks", tc.chunkSize, tc.overlap)
		}

		var sb strings.Builder
		sb.WriteString(chunks[0])
		for _, chunk := range chunks[1:] {
			sb.WriteString(chunk[tc.overlap:])
		}
		if sb.String() != text {
			t.Errorf("size=%d overlap=%d: reconstruction mismatch", tc.chunkSize, tc.overlap)
		}

		last := chunks[len(chunks)-1]
		if !strings.HasSuffix(text, last) {
			t.Errorf("size=%d overlap=%d: last chunk does not end at text end", tc.chunkSize, tc.overlap)
		}
	}
}

func TestChunkerClampsOverlap(t *testing.T) {
	// overlap >= chunkSize must not loop forever
	c := NewChunker(10, 50)
	chunks := c.Split(strings.Repeat("y", 100))
	if len(chunks) == 0 {
		t.Fatal("Expected chunks despite oversized overlap")
	}
	if c.Overlap() >= c.ChunkSize() {
		t.Fatalf("Overlap %d not clamped below chunk size %d", c.Overlap(), c.ChunkSize())
	}
}

func TestChunkerNormalizesLineEndings(t *testing.T) {
	c := NewChunker(1200, 200)

	chunks := c.Split("line one\r\nline two\rline three")
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if strings.Contains(chunks[0], "\r") {
		t.Fatalf("Carriage returns not normalized: %q", chunks[0])
	}
}

func TestChunkerDefaults(t *testing.T) {
	c := NewChunker(0, -1)
	if c.ChunkSize() != DefaultChunkSize || c.Overlap() != DefaultOverlap {
		t.Fatalf("Expected defaults %d/%d, got %d/%d",
			DefaultChunkSize, DefaultOverlap, c.ChunkSize(), c.Overlap())
	}
}

// buildText produces deterministic non-repeating content so reconstruction
// failures are visible.
func buildText(length int) string {
	var sb strings.Builder
	for sb.Len() < length {
		sb.WriteByte(byte('a' + (sb.Len() % 26)))
	}
	return sb.String()[:length]
}
