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


// Package ai defines the external model boundary of the retrieval engine:
// text embedding and LLM re-ranking.
//
// Both services are black boxes with narrow contracts. The Embedder
// turns text into fixed-dimension float vectors; the Reranker turns a query
// and a candidate list into an ordering. Re-ranker output is free-form text
// from an untrusted model and is parsed defensively with ParseRankedIDs:
// only integer tokens naming known candidates are accepted, everything else
// is dropped.
//
// Package ai/openai implements both against OpenAI-compatible endpoints;
// package ai/mock provides deterministic test doubles.
package ai
