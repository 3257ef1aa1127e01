// Package dict implements the term dictionary: a bijective mapping
// between RDF terms (encoded via pkg/term) and compact, monotonically
// assigned decimal-ASCII integer ids. Everything above the dictionary —
// the indexes, the planner, the mutation and scan engines — stores and
// compares ids, never encoded terms directly.
package dict

import (
	"errors"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kvgraph/ldbstore/internal/storage"
	"github.com/kvgraph/ldbstore/pkg/term"
)

// Partition names, matching the on-disk layout.
const (
	PartitionK2I    = "k2i"
	PartitionI2K    = "i2k"
	counterKey      = "__terms__"
	defaultCacheCap = 5000
)

// ErrDanglingID is returned by FromID when the id has no i2k entry — a
// corruption signal for any id read back from an index, since the
// dictionary only ever grows entries in matched k2i/i2k pairs.
var ErrDanglingID = errors.New("dict: dangling term id")

// Dict is the term dictionary. It is not safe for concurrent use; callers
// serialize access the same way they serialize all other store access.
type Dict struct {
	cache   *lru.Cache[string, term.Term]
	idCache *lru.Cache[string, string]
	counter int64
}

// New creates a dictionary with a bounded front cache of cacheSize entries
// (0 selects the default of 5000, per the spec's stated cache budget).
func New(cacheSize int) (*Dict, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheCap
	}
	termCache, err := lru.New[string, term.Term](cacheSize)
	if err != nil {
		return nil, err
	}
	idCache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Dict{cache: termCache, idCache: idCache}, nil
}

// Load reads the persisted term counter, if any, so ids keep incrementing
// across a close/reopen instead of restarting at 1. Call once after
// opening the underlying KV, before any ToID call in the same process.
func (d *Dict) Load(tx storage.Tx) error {
	raw, err := tx.Partition(PartitionK2I).Get([]byte(counterKey))
	if err != nil {
		if err == storage.ErrKeyNotFound {
			d.counter = 0
			return nil
		}
		return err
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return err
	}
	d.counter = n
	return nil
}

// ToID returns the decimal-ASCII id for t, assigning and persisting a new
// one if t has never been seen before.
func (d *Dict) ToID(tx storage.Tx, t term.Term) ([]byte, error) {
	encoded := term.Encode(t)
	key := string(encoded)

	if id, ok := d.idCache.Get(key); ok {
		return []byte(id), nil
	}

	k2i := tx.Partition(PartitionK2I)
	existing, err := k2i.Get(encoded)
	if err == nil {
		d.idCache.Add(key, string(existing))
		d.cache.Add(string(existing), t)
		return existing, nil
	}
	if err != storage.ErrKeyNotFound {
		return nil, err
	}

	d.counter++
	id := []byte(strconv.FormatInt(d.counter, 10))

	i2k := tx.Partition(PartitionI2K)
	if err := i2k.Put(id, encoded); err != nil {
		return nil, err
	}
	if err := k2i.Put(encoded, id); err != nil {
		return nil, err
	}
	if err := k2i.Put([]byte(counterKey), []byte(strconv.FormatInt(d.counter, 10))); err != nil {
		return nil, err
	}

	d.idCache.Add(key, string(id))
	d.cache.Add(string(id), t)
	return id, nil
}

// LookupID returns the id already assigned to t, if any, without
// assigning a new one. ok is false when t has never been seen.
func (d *Dict) LookupID(tx storage.Tx, t term.Term) (id []byte, ok bool, err error) {
	encoded := term.Encode(t)
	key := string(encoded)

	if cached, found := d.idCache.Get(key); found {
		return []byte(cached), true, nil
	}

	existing, err := tx.Partition(PartitionK2I).Get(encoded)
	if err != nil {
		if err == storage.ErrKeyNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	d.idCache.Add(key, string(existing))
	d.cache.Add(string(existing), t)
	return existing, true, nil
}

// FromID resolves an id back to its term.
func (d *Dict) FromID(tx storage.Tx, id []byte) (term.Term, error) {
	if t, ok := d.cache.Get(string(id)); ok {
		return t, nil
	}

	encoded, err := tx.Partition(PartitionI2K).Get(id)
	if err != nil {
		if err == storage.ErrKeyNotFound {
			return nil, ErrDanglingID
		}
		return nil, err
	}

	t, err := term.Decode(encoded)
	if err != nil {
		return nil, err
	}

	d.cache.Add(string(id), t)
	d.idCache.Add(string(encoded), string(id))
	return t, nil
}
