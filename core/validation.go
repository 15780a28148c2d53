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


package core

import (
	"fmt"
	"path"
	"strings"
)

// SupportedExtensions lists the file extensions accepted for upload.
// Anything else is rejected before an ingestion record is created.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".html":     true,
	".htm":      true,
}

// ValidateFilePath checks that a file path is non-empty and carries a
// supported extension.
func ValidateFilePath(filePath string) error {
	if strings.TrimSpace(filePath) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyFilePath)
	}
	ext := strings.ToLower(path.Ext(filePath))
	if !SupportedExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, filePath)
	}
	return nil
}

// ValidateIngestion validates an Ingestion according to domain rules.
//
// Validation rules:
//   - UserId must not be empty
//   - TotalFiles must be positive (an empty upload is rejected up front)
//   - Counters must respect ProcessedFiles <= TotalFiles and
//     IndexedChunks <= TotalChunks
//   - Status must be a known value
//
// NOT validated (populated later):
//   - ID (0 is valid from database sequences)
//   - CompletedAt / LastIndexedAt / GraphSyncedAt (zero until set)
func ValidateIngestion(ing *Ingestion) error {
	if ing == nil {
		return fmt.Errorf("%w: ingestion is nil", ErrInvalidIngestion)
	}
	if ing.UserId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIngestion, ErrEmptyUserId)
	}
	if ing.TotalFiles <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidIngestion, ErrEmptyUpload)
	}
	if ing.ProcessedFiles > ing.TotalFiles {
		return fmt.Errorf("%w: processed files %d exceeds total %d",
			ErrInvalidIngestion, ing.ProcessedFiles, ing.TotalFiles)
	}
	if ing.IndexedChunks > ing.TotalChunks {
		return fmt.Errorf("%w: indexed chunks %d exceeds total %d",
			ErrInvalidIngestion, ing.IndexedChunks, ing.TotalChunks)
	}
	if ing.Status.String() == "unknown" {
		return fmt.Errorf("%w: value %d", ErrInvalidStatus, ing.Status)
	}
	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - IngestionId and UserId must be set
//   - FilePath must not be empty
//   - ChunkIndex must not be negative
//
// NOT validated (populated by the indexer):
//   - Vector, DisplayName, Summary, graph metadata
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.IngestionId == 0 {
		return fmt.Errorf("%w: ingestion id is required", ErrInvalidChunk)
	}
	if chunk.UserId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyUserId)
	}
	if chunk.FilePath == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyFilePath)
	}
	if chunk.ChunkIndex < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeChunkIndex)
	}
	return nil
}
