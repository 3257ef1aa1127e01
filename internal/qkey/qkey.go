// Package qkey implements the composite key codec shared by the three
// quad indexes (CSPO, CPOS, COSP). Each index stores the same quad under a
// different rotation of (subject, predicate, object), always prefixed by
// the asserting context and always '^'-joined with a trailing separator.
package qkey

import (
	"bytes"
	"errors"
)

// ErrMalformedKey is returned by FromKey when a key is not exactly four
// '^'-terminated fields (context plus the three rotated terms).
var ErrMalformedKey = errors.New("qkey: malformed composite key")

const sep = '^'

// ToKey builds the composite key for rotation in {0, 1, 2}:
//
//	0 (CSPO): c^s^p^o^
//	1 (CPOS): c^p^o^s^
//	2 (COSP): c^o^s^p^
//
// c may be empty, producing the conjunctive-view key (e.g. "^s^p^o^").
func ToKey(rotation int, s, p, o, c []byte) []byte {
	t := [3][]byte{s, p, o}
	a := t[rotation%3]
	b := t[(rotation+1)%3]
	d := t[(rotation+2)%3]

	n := len(c) + len(a) + len(b) + len(d) + 4
	buf := make([]byte, 0, n)
	buf = append(buf, c...)
	buf = append(buf, sep)
	buf = append(buf, a...)
	buf = append(buf, sep)
	buf = append(buf, b...)
	buf = append(buf, sep)
	buf = append(buf, d...)
	buf = append(buf, sep)
	return buf
}

// FromKey splits a composite key produced by ToKey back into its context
// and subject/predicate/object components, undoing the rotation.
func FromKey(rotation int, key []byte) (c, s, p, o []byte, err error) {
	parts := bytes.Split(key, []byte{sep})
	if len(parts) != 5 {
		return nil, nil, nil, nil, ErrMalformedKey
	}
	c = parts[0]
	s = parts[(3-rotation+0)%3+1]
	p = parts[(3-rotation+1)%3+1]
	o = parts[(3-rotation+2)%3+1]
	return c, s, p, o, nil
}
