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


// Package storage defines the persistence boundary for enriched catalog
// items and their precomputed embeddings.
//
// The CatalogRepository interface is the metadata store the index loader
// and the embedding precompute job read from and write to. Records are
// serialized with msgpack; embedding vectors are stored as opaque
// little-endian float32 blobs alongside the model version that produced
// them, so an index generation can be filtered to a single model version.
//
// The storage/badger subpackage provides a BadgerDB-backed implementation.
package storage
