package store

import (
	"github.com/kvgraph/ldbstore/internal/storage"
)

// Bind associates prefix with iri, replacing any existing binding for
// iri's previous prefix.
func (s *Store) Bind(prefix, iri string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	return s.kv.Update(func(tx storage.Tx) error {
		ns := tx.Partition(partNamespace)
		pfx := tx.Partition(partPrefix)

		if boundPrefix, err := pfx.Get([]byte(iri)); err == nil {
			if err := ns.Delete(boundPrefix); err != nil {
				return err
			}
		} else if err != storage.ErrKeyNotFound {
			return err
		}

		if err := pfx.Put([]byte(iri), []byte(prefix)); err != nil {
			return err
		}
		return ns.Put([]byte(prefix), []byte(iri))
	})
}

// Namespace returns the IRI bound to prefix, if any.
func (s *Store) Namespace(prefix string) (string, bool, error) {
	if err := s.checkOpen(); err != nil {
		return "", false, err
	}

	var iri string
	var found bool
	err := s.kv.View(func(tx storage.Tx) error {
		v, err := tx.Partition(partNamespace).Get([]byte(prefix))
		if err != nil {
			if err == storage.ErrKeyNotFound {
				return nil
			}
			return err
		}
		iri, found = string(v), true
		return nil
	})
	return iri, found, err
}

// Prefix returns the prefix bound to iri, if any.
func (s *Store) Prefix(iri string) (string, bool, error) {
	if err := s.checkOpen(); err != nil {
		return "", false, err
	}

	var prefix string
	var found bool
	err := s.kv.View(func(tx storage.Tx) error {
		v, err := tx.Partition(partPrefix).Get([]byte(iri))
		if err != nil {
			if err == storage.ErrKeyNotFound {
				return nil
			}
			return err
		}
		prefix, found = string(v), true
		return nil
	})
	return prefix, found, err
}

// Namespaces returns a lazy iterator over every bound prefix/IRI pair.
func (s *Store) Namespaces() (*NamespaceIter, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	tx, err := s.kv.Begin(false)
	if err != nil {
		return nil, err
	}
	it := tx.Partition(partNamespace).Iterator(nil)
	return &NamespaceIter{tx: tx, it: it}, nil
}

// NamespaceIter is a lazy, forward-only, non-restartable iterator over
// bound prefix/IRI pairs.
type NamespaceIter struct {
	tx storage.TxHandle
	it storage.Iterator

	closed    bool
	exhausted bool
	curPrefix string
	curIRI    string
}

// Next advances to the next binding and reports whether one exists.
func (n *NamespaceIter) Next() bool {
	if n.closed || n.exhausted {
		return false
	}
	if !n.it.Next() {
		n.exhausted = true
		return false
	}
	n.curPrefix = string(n.it.Key())
	n.curIRI = string(n.it.Value())
	return true
}

// Binding returns the prefix/IRI pair at the current position.
func (n *NamespaceIter) Binding() (prefix, iri string) {
	return n.curPrefix, n.curIRI
}

// Close releases the iterator's transaction. Safe to call more than once.
func (n *NamespaceIter) Close() error {
	if n.closed {
		return nil
	}
	n.closed = true
	n.it.Close()
	return n.tx.Rollback()
}
