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


// Package search provides semantic retrieval over the catalog index.
//
// The Searcher type implements a two-stage pipeline:
//   - Dense retrieval: embed the query and rank catalog items by squared
//     Euclidean distance over the active index generation
//   - Optional re-ranking: ask an LLM to reorder the retrieved candidates,
//     applied strictly as a permutation of the retrieval results
//
// Re-ranking is best effort. Any failure in the re-rank stage degrades to
// the dense retrieval order and never fails the search.
package search
