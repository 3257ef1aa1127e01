package store

import (
	"github.com/kvgraph/ldbstore/internal/dict"
	"github.com/kvgraph/ldbstore/internal/plan"
	"github.com/kvgraph/ldbstore/internal/qkey"
	"github.com/kvgraph/ldbstore/internal/storage"
	"github.com/kvgraph/ldbstore/pkg/term"
)

// Triples returns a lazy iterator over every triple matching pattern in
// ctx. A nil ctx scans the conjunctive view instead of one context, and
// QuadIter.Contexts reports every context asserting each returned triple
// rather than just one.
//
// The returned QuadIter holds its own transaction open; it must be closed
// (directly, or by draining it to exhaustion) or the transaction leaks
// until the store itself closes. It cannot be restarted once closed.
func (s *Store) Triples(pattern TriplePattern, ctx term.Term) (*QuadIter, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	tx, err := s.kv.Begin(false)
	if err != nil {
		return nil, err
	}

	sid, sOK, err := lookupBoundOrNil(tx, s.dict, pattern.S)
	if err != nil || !sOK {
		tx.Rollback()
		return emptyIterOrErr(err)
	}
	pid, pOK, err := lookupBoundOrNil(tx, s.dict, pattern.P)
	if err != nil || !pOK {
		tx.Rollback()
		return emptyIterOrErr(err)
	}
	oid, oOK, err := lookupBoundOrNil(tx, s.dict, pattern.O)
	if err != nil || !oOK {
		tx.Rollback()
		return emptyIterOrErr(err)
	}

	var cid []byte
	if ctx != nil {
		id, ok, err := s.dict.LookupID(tx, ctx)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if !ok {
			tx.Rollback()
			return &QuadIter{exhausted: true}, nil
		}
		cid = id
	}

	rotation, boundRun := plan.Plan(pattern.sBound(), pattern.pBound(), pattern.oBound())
	prefix := scanPrefix(rotation, sid, pid, oid, cid, ctx != nil, boundRun)

	it := tx.Partition(partitionForRotation(rotation)).Iterator(prefix)

	return &QuadIter{
		tx:       tx,
		it:       it,
		rotation: rotation,
		pattern:  pattern,
		ctxBound: ctx,
		dict:     s.dict,
	}, nil
}

func emptyIterOrErr(err error) (*QuadIter, error) {
	if err != nil {
		return nil, err
	}
	return &QuadIter{exhausted: true}, nil
}

// QuadIter is a lazy, forward-only, non-restartable iterator over matching
// triples. Call Next before the first Triple/Contexts access.
type QuadIter struct {
	tx       storage.TxHandle
	it       storage.Iterator
	rotation int
	pattern  TriplePattern
	ctxBound term.Term
	dict     *dict.Dict

	exhausted bool
	closed    bool

	cur     Triple
	curCtxs []term.Term
}

// Next advances to the next matching triple and reports whether one
// exists.
func (q *QuadIter) Next() bool {
	if q.exhausted || q.closed {
		return false
	}
	if !q.it.Next() {
		q.exhausted = true
		q.Close()
		return false
	}

	key := q.it.Key()
	_, s, p, o, err := qkey.FromKey(q.rotation, key)
	if err != nil {
		q.exhausted = true
		return false
	}

	// q.tx is a read-only TxHandle; FromID only reads through it, so it is
	// passed directly wherever a Tx is expected.
	sTerm, pTerm, oTerm := q.pattern.S, q.pattern.P, q.pattern.O
	if sTerm == nil {
		sTerm, err = q.dict.FromID(q.tx, s)
		if err != nil {
			q.exhausted = true
			return false
		}
	}
	if pTerm == nil {
		pTerm, err = q.dict.FromID(q.tx, p)
		if err != nil {
			q.exhausted = true
			return false
		}
	}
	if oTerm == nil {
		oTerm, err = q.dict.FromID(q.tx, o)
		if err != nil {
			q.exhausted = true
			return false
		}
	}
	q.cur = Triple{S: sTerm, P: pTerm, O: oTerm}

	if q.ctxBound != nil {
		q.curCtxs = []term.Term{q.ctxBound}
	} else {
		value := q.it.Value()
		ids := nonEmptyContexts(value)
		ctxs := make([]term.Term, 0, len(ids))
		for _, id := range ids {
			t, err := q.dict.FromID(q.tx, id)
			if err != nil {
				continue
			}
			ctxs = append(ctxs, t)
		}
		q.curCtxs = ctxs
	}
	return true
}

// Triple returns the triple at the current position.
func (q *QuadIter) Triple() Triple { return q.cur }

// Contexts returns the contexts asserting the triple at the current
// position.
func (q *QuadIter) Contexts() []term.Term { return q.curCtxs }

// Close releases the iterator's transaction. Safe to call more than once.
func (q *QuadIter) Close() error {
	if q.closed || q.it == nil {
		q.closed = true
		return nil
	}
	q.closed = true
	q.it.Close()
	return q.tx.Rollback()
}
