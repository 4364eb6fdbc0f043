package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ideasurf/core"
	"github.com/poiesic/ideasurf/storage"
)

// ProjectRepository implements storage.ProjectRepository for BadgerDB.
type ProjectRepository struct {
	backend *Backend
}

var _ storage.ProjectRepository = (*ProjectRepository)(nil)

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(backend *Backend) *ProjectRepository {
	return &ProjectRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *ProjectRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *ProjectRepository) FindSimilar(ctx context.Context, vector []float32, model string, sources []core.Source, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, model, sources, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *ProjectRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddProjectRecords adds one or more project records to storage.
// The store is insert-only: writing an ID that already exists returns
// storage.ErrDuplicateKey and the whole batch is discarded.
func (r *ProjectRepository) AddProjectRecords(ctx context.Context, records ...*core.ProjectRecord) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if record.Id == 0 {
				record.Id = core.IDFromContent(record.CanonicalURL)
			}
			if record.IngestedAt.IsZero() {
				record.IngestedAt = time.Now().UTC()
			}

			key := makeProjectRecordKey(record.Id)

			// IDs are derived from the canonical URL, so a key hit means
			// the URL is already persisted.
			_, err := tx.Get(key)
			if err == nil {
				return fmt.Errorf("%w: %s", storage.ErrDuplicateKey, record.CanonicalURL)
			}
			if err != badger.ErrKeyNotFound {
				return err
			}

			// Store primary record
			value := storage.MarshalProjectRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update source index
			sourceKey := makeProjectSourceKey(record.Source, record.Id)
			if err := tx.Set(sourceKey, storage.MarshalID(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetProjectRecord retrieves a single project record by ID.
func (r *ProjectRepository) GetProjectRecord(ctx context.Context, id core.ID) (*core.ProjectRecord, error) {
	var result *core.ProjectRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProjectRecordKey(id)
		var err error
		result, err = readProjectRecord(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ExistsByURL reports whether a record with the given canonical URL is
// persisted. It derives the content ID from the URL and probes the
// primary key, so no value is read.
func (r *ProjectRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	id := core.IDFromContent(url)
	var exists bool
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeProjectRecordKey(id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	}, false)
	return exists, err
}

// CountBySource returns the number of persisted records for a source.
func (r *ProjectRepository) CountBySource(ctx context.Context, source core.Source) (int, error) {
	var count int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialProjectSourceKey(source)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readProjectRecord reads a project record from the transaction.
func readProjectRecord(tx *badger.Txn, key []byte) (*core.ProjectRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.ProjectRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalProjectRecord(val)
		return unmarshalErr
	})
	return record, err
}
