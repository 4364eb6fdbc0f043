// Package badger implements storage interfaces using BadgerDB,
// a pure-Go embedded key-value store.
//
// Project records are stored under content-derived keys, so a record's
// key is fully determined by its canonical URL. A secondary per-source
// index supports source-scoped counting.
package badger
