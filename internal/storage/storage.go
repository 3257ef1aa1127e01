// Package storage is the KV Adapter: a thin, engine-agnostic surface over
// an ordered embedded key-value store. It knows about namespaced
// "partitions" (independent key spaces sharing one physical database),
// point get/put/delete, and prefix-range iteration. Everything above this
// package talks to KV/Tx/Partition/Iterator only — it never imports Badger
// directly.
package storage

import "errors"

// ErrKeyNotFound is returned by Partition.Get when the key is absent.
var ErrKeyNotFound = errors.New("storage: key not found")

// KV is an open key-value database, partitioned by name.
type KV interface {
	// View runs fn inside a read-only transaction.
	View(fn func(Tx) error) error

	// Update runs fn inside a read-write transaction. If fn returns an
	// error, or the underlying commit fails, no writes made during fn are
	// visible afterwards.
	Update(fn func(Tx) error) error

	// Begin starts a transaction the caller must explicitly Commit or
	// Rollback. Use this only when a single View/Update callback can't
	// span the work — e.g. an iterator handed back to the caller.
	Begin(writable bool) (TxHandle, error)

	// Close releases the database. Safe to call once.
	Close() error
}

// Tx is a single read or read-write transaction, scoped to one or more
// named partitions.
type Tx interface {
	// Partition returns a handle for the named sub-keyspace. Calling
	// Partition with the same name twice within one Tx returns equivalent
	// handles over the same underlying transaction.
	Partition(name string) Partition
}

// TxHandle is a Tx whose lifetime the caller drives explicitly, rather
// than one scoped to a View/Update callback. It backs callers that need a
// transaction to outlive a single function call — a lazy, caller-driven
// scan being the main example.
type TxHandle interface {
	Tx
	Commit() error
	Rollback() error
}

// Partition is an independent, ordered key space within a Tx.
type Partition interface {
	// Get returns ErrKeyNotFound if key is absent.
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error

	// Iterator starts a fresh prefix scan. The returned Iterator yields
	// only keys that begin with prefix, in ascending lexicographic order.
	// A nil or empty prefix scans the whole partition.
	Iterator(prefix []byte) Iterator
}

// Iterator walks a prefix range within one Partition. It is positioned
// before the first matching entry; call Next to advance to it.
type Iterator interface {
	// Next advances to the next matching entry and reports whether one
	// exists. It must be called before the first Key/Value access.
	Next() bool

	// Key returns the current key with the partition prefix already
	// stripped.
	Key() []byte

	// Value returns the current value.
	Value() []byte

	// Close releases the iterator. Safe to call once; safe to call
	// without having drained the iterator.
	Close() error
}
