package store

import (
	"go.uber.org/zap"

	"github.com/kvgraph/ldbstore/internal/dict"
	"github.com/kvgraph/ldbstore/internal/plan"
	"github.com/kvgraph/ldbstore/internal/qkey"
	"github.com/kvgraph/ldbstore/internal/storage"
	"github.com/kvgraph/ldbstore/pkg/term"
)

// Add asserts t in ctx. If quoted is true, the triple is recorded only in
// ctx's own index rows, not in the conjunctive (cross-context) view — it
// exists, but Triples/Size queries against the default/unbound context
// won't surface it as asserted.
//
// The three index rows and the contexts-value update happen in one
// transaction, so a crash mid-Add never leaves the indexes disagreeing
// about whether the triple exists.
func (s *Store) Add(t Triple, ctx term.Term, quoted bool) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	return s.kv.Update(func(tx storage.Tx) error {
		sid, err := s.dict.ToID(tx, t.S)
		if err != nil {
			return err
		}
		pid, err := s.dict.ToID(tx, t.P)
		if err != nil {
			return err
		}
		oid, err := s.dict.ToID(tx, t.O)
		if err != nil {
			return err
		}
		cid, err := s.dict.ToID(tx, ctx)
		if err != nil {
			return err
		}

		cspo := tx.Partition(partCSPO)
		boundKey := qkey.ToKey(0, sid, pid, oid, cid)
		if _, err := cspo.Get(boundKey); err == nil {
			return nil // already have this triple in this context
		} else if err != storage.ErrKeyNotFound {
			return err
		}

		if err := tx.Partition(partContexts).Put(cid, []byte{}); err != nil {
			return err
		}

		conjKey := qkey.ToKey(0, sid, pid, oid, nil)
		conjVal, err := cspo.Get(conjKey)
		if err != nil && err != storage.ErrKeyNotFound {
			return err
		}
		newConjVal := addContext(conjVal, cid)

		for r := 0; r < 3; r++ {
			part := tx.Partition(partitionForRotation(r))
			if err := part.Put(qkey.ToKey(r, sid, pid, oid, cid), []byte{}); err != nil {
				return err
			}
		}
		if !quoted {
			for r := 0; r < 3; r++ {
				part := tx.Partition(partitionForRotation(r))
				if err := part.Put(qkey.ToKey(r, sid, pid, oid, nil), newConjVal); err != nil {
					return err
				}
			}
		}

		s.log.Debug("triple added",
			zap.ByteString("subject", sid), zap.ByteString("predicate", pid),
			zap.ByteString("object", oid), zap.ByteString("context", cid))
		return nil
	})
}

// Remove deletes every triple matching pattern from ctx. A nil ctx matches
// the triple in every context it is asserted in, wiping it from the
// conjunctive view as well.
func (s *Store) Remove(pattern TriplePattern, ctx term.Term) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	return s.kv.Update(func(tx storage.Tx) error {
		if pattern.sBound() && pattern.pBound() && pattern.oBound() && ctx != nil {
			return s.removeFullyBound(tx, pattern, ctx)
		}
		return s.removeByScan(tx, pattern, ctx)
	})
}

// removeFullyBound handles the case where subject, predicate, object and
// context are all given: at most one quad can match, so there is no need
// to scan.
func (s *Store) removeFullyBound(tx storage.Tx, pattern TriplePattern, ctx term.Term) error {
	sid, ok, err := s.dict.LookupID(tx, pattern.S)
	if err != nil || !ok {
		return err
	}
	pid, ok, err := s.dict.LookupID(tx, pattern.P)
	if err != nil || !ok {
		return err
	}
	oid, ok, err := s.dict.LookupID(tx, pattern.O)
	if err != nil || !ok {
		return err
	}
	cid, ok, err := s.dict.LookupID(tx, ctx)
	if err != nil || !ok {
		return err
	}

	key := qkey.ToKey(0, sid, pid, oid, cid)
	if _, err := tx.Partition(partCSPO).Get(key); err != nil {
		if err == storage.ErrKeyNotFound {
			return nil
		}
		return err
	}
	return s.removeQuad(tx, sid, pid, oid, cid)
}

// removeByScan handles every pattern with at least one unbound field. When
// ctx is bound, it scans that context's rows directly; when ctx is nil, it
// scans the conjunctive view and, for each matching triple, removes it
// from every context that asserts it (plus the conjunctive row itself).
func (s *Store) removeByScan(tx storage.Tx, pattern TriplePattern, ctx term.Term) error {
	sid, sOK, err := lookupBoundOrNil(tx, s.dict, pattern.S)
	if err != nil || !sOK {
		return err
	}
	pid, pOK, err := lookupBoundOrNil(tx, s.dict, pattern.P)
	if err != nil || !pOK {
		return err
	}
	oid, oOK, err := lookupBoundOrNil(tx, s.dict, pattern.O)
	if err != nil || !oOK {
		return err
	}

	var cid []byte
	if ctx != nil {
		id, ok, err := s.dict.LookupID(tx, ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		cid = id
	}

	rotation, boundRun := plan.Plan(pattern.sBound(), pattern.pBound(), pattern.oBound())
	prefix := scanPrefix(rotation, sid, pid, oid, cid, ctx != nil, boundRun)

	type hit struct{ c, s, p, o, value []byte }
	var hits []hit

	part := tx.Partition(partitionForRotation(rotation))
	it := part.Iterator(prefix)
	for it.Next() {
		key := append([]byte(nil), it.Key()...)
		val := append([]byte(nil), it.Value()...)
		c, sv, pv, ov, err := qkey.FromKey(rotation, key)
		if err != nil {
			it.Close()
			return err
		}
		hits = append(hits, hit{c: c, s: sv, p: pv, o: ov, value: val})
	}
	it.Close()

	for _, h := range hits {
		if ctx != nil {
			if err := s.removeQuad(tx, h.s, h.p, h.o, h.c); err != nil {
				return err
			}
			continue
		}

		members := nonEmptyContexts(h.value)
		members = append(members, []byte{}) // the conjunctive row itself
		for _, m := range members {
			for r := 0; r < 3; r++ {
				if err := tx.Partition(partitionForRotation(r)).Delete(qkey.ToKey(r, h.s, h.p, h.o, m)); err != nil {
					return err
				}
			}
		}
	}

	// Case D: S, P and O all unbound with a bound context removes every quad
	// asserted in that context, so the context itself no longer exists.
	if ctx != nil && pattern.S == nil && pattern.P == nil && pattern.O == nil {
		if err := tx.Partition(partContexts).Delete(cid); err != nil {
			return err
		}
	}
	return nil
}

// lookupBoundOrNil resolves t's id if t is bound, returning ok=true with a
// nil id if t is unbound (nothing to constrain the scan by). ok is false
// only when t is bound but was never assigned an id, meaning no quad can
// possibly match.
func lookupBoundOrNil(tx storage.Tx, d *dict.Dict, t term.Term) (id []byte, ok bool, err error) {
	if t == nil {
		return nil, true, nil
	}
	return d.LookupID(tx, t)
}

// scanPrefix builds the iteration prefix for rotation: the context (bound
// or conjunctive-empty), followed by boundRun leading fields in that
// rotation's order.
func scanPrefix(rotation int, sid, pid, oid, cid []byte, ctxBound bool, boundRun int) []byte {
	fields := [3][]byte{sid, pid, oid}

	buf := []byte{}
	if ctxBound {
		buf = append(buf, cid...)
	}
	buf = append(buf, '^')
	for i := 0; i < boundRun; i++ {
		buf = append(buf, fields[(rotation+i)%3]...)
		buf = append(buf, '^')
	}
	return buf
}

// removeQuad deletes the (s,p,o) quad from context cid: from cid's own
// index rows, and from the conjunctive row's membership list (deleting the
// conjunctive row entirely if cid was its last member).
func (s *Store) removeQuad(tx storage.Tx, sid, pid, oid, cid []byte) error {
	cspo := tx.Partition(partCSPO)
	conjKey := qkey.ToKey(0, sid, pid, oid, nil)
	conjVal, err := cspo.Get(conjKey)
	if err != nil && err != storage.ErrKeyNotFound {
		return err
	}
	newConjVal := removeContext(conjVal, cid)

	for r := 0; r < 3; r++ {
		part := tx.Partition(partitionForRotation(r))
		if err := part.Delete(qkey.ToKey(r, sid, pid, oid, cid)); err != nil {
			return err
		}
	}

	for r := 0; r < 3; r++ {
		part := tx.Partition(partitionForRotation(r))
		key := qkey.ToKey(r, sid, pid, oid, nil)
		if len(newConjVal) > 0 {
			if err := part.Put(key, newConjVal); err != nil {
				return err
			}
		} else {
			if err := part.Delete(key); err != nil {
				return err
			}
		}
	}

	s.log.Debug("triple removed",
		zap.ByteString("subject", sid), zap.ByteString("predicate", pid),
		zap.ByteString("object", oid), zap.ByteString("context", cid))
	return nil
}
