package store

import (
	"github.com/kvgraph/ldbstore/internal/dict"
	"github.com/kvgraph/ldbstore/internal/qkey"
	"github.com/kvgraph/ldbstore/internal/storage"
	"github.com/kvgraph/ldbstore/pkg/term"
)

// Contexts returns a lazy iterator over contexts. With triple non-nil, it
// yields only the contexts asserting that triple; with triple nil, it
// yields every context that has ever had a triple added to it (including
// ones since fully removed, unless that context's own entry was
// explicitly dropped).
func (s *Store) Contexts(triple *Triple) (*ContextIter, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	tx, err := s.kv.Begin(false)
	if err != nil {
		return nil, err
	}

	if triple == nil {
		it := tx.Partition(partContexts).Iterator(nil)
		return &ContextIter{tx: tx, it: it, dict: s.dict, fromKeys: true}, nil
	}

	sid, ok, err := s.dict.LookupID(tx, triple.S)
	if err != nil || !ok {
		tx.Rollback()
		if err != nil {
			return nil, err
		}
		return &ContextIter{exhausted: true}, nil
	}
	pid, ok, err := s.dict.LookupID(tx, triple.P)
	if err != nil || !ok {
		tx.Rollback()
		if err != nil {
			return nil, err
		}
		return &ContextIter{exhausted: true}, nil
	}
	oid, ok, err := s.dict.LookupID(tx, triple.O)
	if err != nil || !ok {
		tx.Rollback()
		if err != nil {
			return nil, err
		}
		return &ContextIter{exhausted: true}, nil
	}

	conjKey := qkey.ToKey(0, sid, pid, oid, nil)
	val, err := tx.Partition(partCSPO).Get(conjKey)
	if err != nil {
		tx.Rollback()
		if err == storage.ErrKeyNotFound {
			return &ContextIter{exhausted: true}, nil
		}
		return nil, err
	}

	ids := nonEmptyContexts(val)
	return &ContextIter{tx: tx, dict: s.dict, members: ids, fromMembership: true}, nil
}

// ContextIter is a lazy, forward-only, non-restartable iterator over
// context terms.
type ContextIter struct {
	tx   storage.TxHandle
	it   storage.Iterator
	dict *dict.Dict

	fromKeys       bool
	fromMembership bool
	members        [][]byte
	pos            int

	exhausted bool
	closed    bool
	cur       term.Term
}

// Next advances to the next context and reports whether one exists.
func (c *ContextIter) Next() bool {
	if c.exhausted || c.closed {
		return false
	}

	switch {
	case c.fromKeys:
		if !c.it.Next() {
			c.exhausted = true
			return false
		}
		t, err := c.dict.FromID(c.tx, c.it.Key())
		if err != nil {
			c.exhausted = true
			return false
		}
		c.cur = t
		return true

	case c.fromMembership:
		if c.pos >= len(c.members) {
			c.exhausted = true
			return false
		}
		id := c.members[c.pos]
		c.pos++
		t, err := c.dict.FromID(c.tx, id)
		if err != nil {
			c.exhausted = true
			return false
		}
		c.cur = t
		return true

	default:
		c.exhausted = true
		return false
	}
}

// Context returns the context term at the current position.
func (c *ContextIter) Context() term.Term { return c.cur }

// Close releases the iterator's transaction. Safe to call more than once.
func (c *ContextIter) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.it != nil {
		c.it.Close()
	}
	if c.tx != nil {
		return c.tx.Rollback()
	}
	return nil
}
