package ingestion

import "errors"

var (
	// ErrRepositoryRequired indicates a pipeline built without storage.
	ErrRepositoryRequired = errors.New("project repository is required")

	// ErrEmbedderRequired indicates a pipeline built without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")
)
