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

import "errors"

// Domain validation errors
var (
	// ErrInvalidIngestion indicates an Ingestion failed validation.
	ErrInvalidIngestion = errors.New("invalid ingestion")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyUpload indicates an upload batch contained no files.
	ErrEmptyUpload = errors.New("upload batch contains no files")

	// ErrUnsupportedFileType indicates a file extension outside the supported set.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrEmptyUserId indicates the owning user id is missing.
	ErrEmptyUserId = errors.New("user id cannot be empty")

	// ErrEmptyFilePath indicates a chunk has no file path.
	ErrEmptyFilePath = errors.New("file path cannot be empty")

	// ErrNegativeChunkIndex indicates a chunk index below zero.
	ErrNegativeChunkIndex = errors.New("chunk index cannot be negative")

	// ErrInvalidStatus indicates an unknown ingestion status value.
	ErrInvalidStatus = errors.New("invalid ingestion status")
)
