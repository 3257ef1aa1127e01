// Package store implements ldbstore: a persistent, context-aware RDF quad
// store built on an ordered embedded key-value engine. It keeps three
// rotated composite indexes (CSPO, CPOS, COSP) over dictionary-assigned
// term ids, a conjunctive (context-unbound) view of each for
// cross-context queries, and a term dictionary mapping RDF terms to those
// ids.
package store

import (
	"os"

	"go.uber.org/zap"

	"github.com/kvgraph/ldbstore/internal/dict"
	"github.com/kvgraph/ldbstore/internal/storage"
	"github.com/kvgraph/ldbstore/pkg/term"
)

// Partition names. These double as the literal on-disk key prefixes, the
// same trick the design they're modeled on uses to physically separate
// indexes sharing one database.
const (
	partCSPO      = "c^s^p^o^"
	partCPOS      = "c^p^o^s^"
	partCOSP      = "c^o^s^p^"
	partContexts  = "contexts"
	partNamespace = "namespace"
	partPrefix    = "prefix"
)

func partitionForRotation(rotation int) string {
	switch rotation % 3 {
	case 0:
		return partCSPO
	case 1:
		return partCPOS
	default:
		return partCOSP
	}
}

// Store is a single open quad store. It is not safe for concurrent use:
// callers serialize their own access, the same way a single-writer
// embedded database expects.
type Store struct {
	kv   storage.KV
	dict *dict.Dict
	log  *zap.Logger
	path string

	closed bool
}

// Open opens (or creates, if create is true) a store at path.
func Open(path string, create bool, opts ...Option) (*Store, error) {
	o := newOptions(opts...)

	_, statErr := os.Stat(path)
	exists := statErr == nil

	if create && exists {
		return nil, ErrStoreExists
	}
	if !create && !exists {
		return nil, ErrNoStore
	}

	kv, err := storage.OpenBadger(path, o.syncWrites)
	if err != nil {
		return nil, err
	}

	d, err := dict.New(o.cacheSize)
	if err != nil {
		kv.Close()
		return nil, err
	}

	s := &Store{kv: kv, dict: d, log: o.logger, path: path}

	if err := kv.Update(func(tx storage.Tx) error {
		return d.Load(tx)
	}); err != nil {
		kv.Close()
		return nil, err
	}

	s.log.Debug("store opened", zap.String("path", path), zap.Bool("create", create))
	return s, nil
}

// Close releases the underlying database. Safe to call once.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.kv.Close()
}

// Destroy removes the on-disk database at path. The store at path must
// already be closed.
func Destroy(path string) error {
	return os.RemoveAll(path)
}

func (s *Store) checkOpen() error {
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// Size reports the number of triples asserted in ctx, or across every
// context when ctx is nil.
func (s *Store) Size(ctx term.Term) (int64, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}

	var count int64
	err := s.kv.View(func(tx storage.Tx) error {
		var prefix []byte
		if ctx != nil {
			cid, ok, err := s.dict.LookupID(tx, ctx)
			if err != nil {
				return err
			}
			if !ok {
				return nil // context never seen: nothing to count
			}
			prefix = append(append([]byte{}, cid...), '^')
		} else {
			prefix = []byte("^")
		}

		it := tx.Partition(partCSPO).Iterator(prefix)
		defer it.Close()
		for it.Next() {
			count++
		}
		return nil
	})
	return count, err
}
