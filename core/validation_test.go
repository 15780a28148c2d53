package core

import (
	"errors"
	"testing"
)

func TestValidateFilePath(t *testing.T) {
	tests := []struct {
		name     string
		filePath string
		wantErr  error
	}{
		{"markdown", "notes/readme.md", nil},
		{"markdown long ext", "doc.markdown", nil},
		{"plain text", "a.txt", nil},
		{"html", "page.html", nil},
		{"htm", "page.htm", nil},
		{"uppercase extension", "NOTES.MD", nil},
		{"empty path", "", ErrEmptyFilePath},
		{"whitespace path", "   ", ErrEmptyFilePath},
		{"no extension", "Makefile", ErrUnsupportedFileType},
		{"pdf", "report.pdf", ErrUnsupportedFileType},
		{"go source", "main.go", ErrUnsupportedFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilePath(tt.filePath)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateFilePath(%q) = %v, want nil", tt.filePath, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateFilePath(%q) = %v, want %v", tt.filePath, err, tt.wantErr)
			}
		})
	}
}

func TestValidateIngestion(t *testing.T) {
	valid := func() *Ingestion {
		return &Ingestion{
			Id:         1,
			UserId:     "user1",
			TotalFiles: 3,
			Status:     StatusChunking,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Ingestion)
		wantErr error
	}{
		{
			name:    "valid ingestion",
			mutate:  func(*Ingestion) {},
			wantErr: nil,
		},
		{
			name:    "zero id is valid",
			mutate:  func(i *Ingestion) { i.Id = 0 },
			wantErr: nil,
		},
		{
			name:    "empty user id",
			mutate:  func(i *Ingestion) { i.UserId = "" },
			wantErr: ErrEmptyUserId,
		},
		{
			name:    "no files",
			mutate:  func(i *Ingestion) { i.TotalFiles = 0 },
			wantErr: ErrEmptyUpload,
		},
		{
			name:    "processed exceeds total",
			mutate:  func(i *Ingestion) { i.ProcessedFiles = 4 },
			wantErr: ErrInvalidIngestion,
		},
		{
			name: "indexed exceeds total chunks",
			mutate: func(i *Ingestion) {
				i.TotalChunks = 2
				i.IndexedChunks = 3
			},
			wantErr: ErrInvalidIngestion,
		},
		{
			name:    "unknown status",
			mutate:  func(i *Ingestion) { i.Status = IngestionStatus(99) },
			wantErr: ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ing := valid()
			tt.mutate(ing)
			err := ValidateIngestion(ing)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateIngestion() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateIngestion() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := ValidateIngestion(nil); !errors.Is(err, ErrInvalidIngestion) {
		t.Errorf("ValidateIngestion(nil) = %v, want %v", err, ErrInvalidIngestion)
	}
}

func TestValidateChunk(t *testing.T) {
	valid := func() *Chunk {
		return &Chunk{
			IngestionId: 1,
			UserId:      "user1",
			FilePath:    "notes.md",
			ChunkIndex:  0,
			Content:     "some content",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Chunk)
		wantErr error
	}{
		{
			name:    "valid chunk",
			mutate:  func(*Chunk) {},
			wantErr: nil,
		},
		{
			name:    "missing ingestion id",
			mutate:  func(c *Chunk) { c.IngestionId = 0 },
			wantErr: ErrInvalidChunk,
		},
		{
			name:    "empty user id",
			mutate:  func(c *Chunk) { c.UserId = "" },
			wantErr: ErrEmptyUserId,
		},
		{
			name:    "empty file path",
			mutate:  func(c *Chunk) { c.FilePath = "" },
			wantErr: ErrEmptyFilePath,
		},
		{
			name:    "negative chunk index",
			mutate:  func(c *Chunk) { c.ChunkIndex = -1 },
			wantErr: ErrNegativeChunkIndex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := valid()
			tt.mutate(chunk)
			err := ValidateChunk(chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := ValidateChunk(nil); !errors.Is(err, ErrInvalidChunk) {
		t.Errorf("ValidateChunk(nil) = %v, want %v", err, ErrInvalidChunk)
	}
}
