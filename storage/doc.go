// Package storage defines the vector-store boundary for project records.
//
// The store is insert-only: records are immutable once persisted and there
// is no update or delete path. Duplicate prevention happens upstream at the
// dedup gate; the repository's ExistsByURL is the primitive the gate is
// built on.
//
// Concrete backends live in subpackages (storage/badger).
package storage
