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

import "fmt"

// ValidateCatalogItem validates a CatalogItem according to domain rules.
//
// Validation rules:
//   - ObjectType must be valid (table or column)
//   - ObjectName must not be empty
//   - Column items must have a ParentTableName; table items must not
//   - EmbeddingBytes and ModelVersion must be set together or not at all
//
// NOT validated (populated by upstream pipelines):
//   - Description (may be empty; embedding presence gates indexing)
//   - Tags (may be empty)
//   - ID (0 is valid; a content-derived id is assigned at insert)
func ValidateCatalogItem(item *CatalogItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidCatalogItem)
	}

	if err := ValidateObjectType(item.ObjectType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCatalogItem, err)
	}

	if item.ObjectName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCatalogItem, ErrEmptyObjectName)
	}

	switch item.ObjectType {
	case ObjectTypeColumn:
		if item.ParentTableName == "" {
			return fmt.Errorf("%w: %w", ErrInvalidCatalogItem, ErrMissingParentTable)
		}
	case ObjectTypeTable:
		if item.ParentTableName != "" {
			return fmt.Errorf("%w: %w", ErrInvalidCatalogItem, ErrUnexpectedParentTable)
		}
	}

	if (len(item.EmbeddingBytes) > 0) != (item.ModelVersion != "") {
		return fmt.Errorf("%w: %w", ErrInvalidCatalogItem, ErrDanglingEmbedding)
	}

	return nil
}

// ValidateObjectType validates that an ObjectType has a valid value.
func ValidateObjectType(objectType ObjectType) error {
	if objectType != ObjectTypeTable && objectType != ObjectTypeColumn {
		return fmt.Errorf("%w: value %d", ErrInvalidObjectType, objectType)
	}
	return nil
}
