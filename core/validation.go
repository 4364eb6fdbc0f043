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
	"strings"
)

// ValidateProjectRecord validates a ProjectRecord according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - CanonicalURL must not be empty
//   - Source must be a known source tag
//
// NOT validated (populated later in the pipeline):
//   - Vector and EmbeddingModel (attached after the dedup gate)
//   - IngestedAt (set at persist time)
func ValidateProjectRecord(record *ProjectRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidProjectRecord)
	}

	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProjectRecord, ErrEmptyName)
	}

	if strings.TrimSpace(record.CanonicalURL) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProjectRecord, ErrEmptyCanonicalURL)
	}

	if !record.Source.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidProjectRecord, ErrUnknownSource, record.Source)
	}

	return nil
}

// OptionalString converts a raw string into an optional field value.
// Whitespace-only input is treated as absent and maps to nil, so the
// "missing vs present" distinction is never represented by an empty string.
func OptionalString(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// StringValue unwraps an optional field, returning "" when absent.
func StringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
