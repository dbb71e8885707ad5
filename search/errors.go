// Copyright 2025 Tablemap Authors
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


package search

import "errors"

var (
	// ErrIndexServiceRequired is returned when an index service is not provided.
	ErrIndexServiceRequired = errors.New("index service required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrEmptyQuery is returned when the query is empty or whitespace only.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrEmbeddingFailed is returned when the query embedding could not be
	// generated. Unlike re-rank failures, this is surfaced to the caller.
	ErrEmbeddingFailed = errors.New("failed to embed query")

	// ErrNoRankedIDs marks a re-rank response that named none of the
	// candidates. Never surfaced to callers; reported through the monitor's
	// RerankDegraded hook only.
	ErrNoRankedIDs = errors.New("re-rank output named no candidates")
)
