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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidCatalogItem indicates a CatalogItem failed validation.
	ErrInvalidCatalogItem = errors.New("invalid catalog item")

	// ErrInvalidObjectType indicates an invalid ObjectType value.
	ErrInvalidObjectType = errors.New("invalid object type")

	// ErrEmptyObjectName indicates the ObjectName field is empty.
	ErrEmptyObjectName = errors.New("object name cannot be empty")

	// ErrMissingParentTable indicates a column item without a parent table.
	ErrMissingParentTable = errors.New("column item requires a parent table name")

	// ErrUnexpectedParentTable indicates a table item carrying a parent table.
	ErrUnexpectedParentTable = errors.New("table item cannot have a parent table name")

	// ErrDanglingEmbedding indicates an embedding without a model version,
	// or a model version without an embedding.
	ErrDanglingEmbedding = errors.New("embedding and model version must be set together")

	// ErrTruncatedVector indicates an embedding blob whose length is not a
	// whole number of float32 values.
	ErrTruncatedVector = errors.New("embedding blob is not a whole number of float32 values")
)
