package store

import (
	"bytes"
	"sort"
	"strings"
)

// The conjunctive (context-unbound) row of every index stores, as its
// value, the set of context ids that currently assert the triple — a
// '^'-joined list. These helpers build and consume that value.

func splitContextsValue(v []byte) [][]byte {
	if v == nil {
		v = []byte{}
	}
	return bytes.Split(v, []byte("^"))
}

// nonEmptyContexts returns the asserting context ids found in v, skipping
// the empty-string member that addContext/removeContext may leave behind.
func nonEmptyContexts(v []byte) [][]byte {
	parts := splitContextsValue(v)
	out := make([][]byte, 0, len(parts))
	for _, p := range parts {
		if len(p) > 0 {
			out = append(out, append([]byte(nil), p...))
		}
	}
	return out
}

func joinContextSet(set map[string]struct{}) []byte {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return []byte(strings.Join(keys, "^"))
}

// addContext folds cid into the set of members encoded in existing,
// returning the updated encoded value.
func addContext(existing, cid []byte) []byte {
	set := map[string]struct{}{}
	for _, p := range splitContextsValue(existing) {
		set[string(p)] = struct{}{}
	}
	set[string(cid)] = struct{}{}
	return joinContextSet(set)
}

// removeContext drops cid from the set of members encoded in existing,
// returning the updated encoded value (which may be empty).
func removeContext(existing, cid []byte) []byte {
	set := map[string]struct{}{}
	for _, p := range splitContextsValue(existing) {
		set[string(p)] = struct{}{}
	}
	delete(set, string(cid))
	return joinContextSet(set)
}
