package storage

import (
	"context"

	"github.com/poiesic/ideasurf/core"
)

// ProjectRepository provides operations for persisting and querying project
// records. Implementations must be thread-safe for concurrent readers; the
// ingestion pipeline is the only writer.
type ProjectRepository interface {
	// AddProjectRecords persists one or more records. Records must already
	// carry Id, Vector, and EmbeddingModel; IngestedAt is set if zero.
	// Inserting a canonical URL that is already persisted returns
	// ErrDuplicateKey. There is no update path.
	AddProjectRecords(ctx context.Context, records ...*core.ProjectRecord) error

	// GetProjectRecord retrieves a single record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetProjectRecord(ctx context.Context, id core.ID) (*core.ProjectRecord, error)

	// ExistsByURL reports whether a record with the given canonical URL is
	// persisted. This is the dedup-gate primitive and must be cheap: it is
	// called once per scraped item before any embedding cost is incurred.
	ExistsByURL(ctx context.Context, url string) (bool, error)

	// FindSimilar finds records similar to the given query vector, restricted
	// to the given sources. Records embedded with a different model tag, or
	// whose vector dimension differs from the query's, are excluded rather
	// than compared. The source filter is applied while candidates are
	// evaluated, not as a post-filter on an already-selected top-N.
	// Results have similarity >= minSimilarity and are ordered by descending
	// similarity, up to limit.
	FindSimilar(ctx context.Context, vector []float32, model string, sources []core.Source, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// CountBySource returns the number of persisted records for a source.
	CountBySource(ctx context.Context, source core.Source) (int, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}
