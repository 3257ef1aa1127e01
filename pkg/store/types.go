package store

import "github.com/kvgraph/ldbstore/pkg/term"

// Triple is a fully bound subject/predicate/object triple.
type Triple struct {
	S, P, O term.Term
}

// TriplePattern is a triple with any of its three positions left unbound.
// A nil field matches any term in that position.
type TriplePattern struct {
	S, P, O term.Term
}

func (p TriplePattern) sBound() bool { return p.S != nil }
func (p TriplePattern) pBound() bool { return p.P != nil }
func (p TriplePattern) oBound() bool { return p.O != nil }
