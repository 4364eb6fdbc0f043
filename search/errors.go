package search

import "errors"

var (
	// ErrRepositoryRequired indicates a searcher built without storage.
	ErrRepositoryRequired = errors.New("project repository is required")

	// ErrEmbedderRequired indicates a searcher built without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrEmptyQuery indicates a search with no query text.
	ErrEmptyQuery = errors.New("query text is empty")
)
