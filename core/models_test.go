package core

import (
	"testing"
	"time"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "test content",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestIngestionStatus_String(t *testing.T) {
	tests := []struct {
		status IngestionStatus
		want   string
	}{
		{StatusChunking, "chunking"},
		{StatusChunked, "chunked"},
		{StatusIndexing, "indexing"},
		{StatusUploaded, "uploaded"},
		{StatusFailed, "failed"},
		{IngestionStatus(0), "unknown"},
		{IngestionStatus(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("IngestionStatus(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestParseIngestionStatus(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   IngestionStatus
		wantOk bool
	}{
		{"exact", "chunked", StatusChunked, true},
		{"uppercase", "UPLOADED", StatusUploaded, true},
		{"whitespace", "  failed  ", StatusFailed, true},
		{"unknown name", "done", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseIngestionStatus(tt.input)
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("ParseIngestionStatus(%q) = (%v, %v), want (%v, %v)",
					tt.input, got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestIngestionStatus_Terminal(t *testing.T) {
	terminal := map[IngestionStatus]bool{
		StatusChunking: false,
		StatusChunked:  false,
		StatusIndexing: false,
		StatusUploaded: true,
		StatusFailed:   true,
	}

	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Errorf("%v.Terminal() = %v, want %v", status, got, want)
		}
	}
}

func TestChunkMetadata_HasGraphIdentity(t *testing.T) {
	var nilMeta *ChunkMetadata
	if nilMeta.HasGraphIdentity() {
		t.Error("nil metadata should not have graph identity")
	}

	meta := &ChunkMetadata{}
	if meta.HasGraphIdentity() {
		t.Error("empty metadata should not have graph identity")
	}

	meta.SectionNodeId = "SEC_1_abc"
	if meta.HasGraphIdentity() {
		t.Error("metadata without chunk node id should not have graph identity")
	}

	meta.ChunkNodeId = "CHK_1_def"
	if !meta.HasGraphIdentity() {
		t.Error("metadata with section and chunk node ids should have graph identity")
	}
}

func TestIngestionUpdate_Apply(t *testing.T) {
	ing := &Ingestion{
		Id:         1,
		UserId:     "user1",
		TotalFiles: 2,
		Status:     StatusChunking,
	}

	processed := 2
	chunked := 2
	total := 5
	status := StatusChunked
	completed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	update := &IngestionUpdate{
		ProcessedFiles: &processed,
		ChunkedFiles:   &chunked,
		TotalChunks:    &total,
		Status:         &status,
		CompletedAt:    &completed,
	}
	update.Apply(ing)

	if ing.ProcessedFiles != 2 || ing.ChunkedFiles != 2 || ing.TotalChunks != 5 {
		t.Errorf("counters not applied: %+v", ing)
	}
	if ing.Status != StatusChunked {
		t.Errorf("Status = %v, want %v", ing.Status, StatusChunked)
	}
	if !ing.CompletedAt.Equal(completed) {
		t.Errorf("CompletedAt = %v, want %v", ing.CompletedAt, completed)
	}
	// Nil fields stay untouched.
	if ing.IndexedChunks != 0 || ing.Error != "" || !ing.LastIndexedAt.IsZero() {
		t.Errorf("nil update fields modified the record: %+v", ing)
	}
}

func TestIngestionUpdate_ApplyEmpty(t *testing.T) {
	ing := &Ingestion{Id: 7, Status: StatusUploaded, IndexedChunks: 3}
	before := *ing

	(&IngestionUpdate{}).Apply(ing)

	if *ing != before {
		t.Errorf("empty update changed the record: %+v vs %+v", *ing, before)
	}
}
