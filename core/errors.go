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
	// ErrInvalidProjectRecord indicates a ProjectRecord failed validation.
	ErrInvalidProjectRecord = errors.New("invalid project record")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyCanonicalURL indicates the CanonicalURL field is empty.
	ErrEmptyCanonicalURL = errors.New("canonical URL cannot be empty")

	// ErrUnknownSource indicates an unrecognized source tag.
	ErrUnknownSource = errors.New("unknown source")
)
