package store

import (
	"testing"

	"github.com/kvgraph/ldbstore/pkg/term"
)

func TestContextsForTriple(t *testing.T) {
	s := openTestStore(t)
	alice := term.IRI("http://example.org/alice")
	name := term.IRI("http://xmlns.com/foaf/0.1/name")
	g1 := term.Graph("http://example.org/g1")
	g2 := term.Graph("http://example.org/g2")
	tr := Triple{S: alice, P: name, O: term.NewPlainLiteral("Alice")}

	mustAdd(t, s, tr, g1, false)
	mustAdd(t, s, tr, g2, false)

	it, err := s.Contexts(&tr)
	if err != nil {
		t.Fatalf("Contexts: %v", err)
	}
	defer it.Close()

	seen := map[string]bool{}
	for it.Next() {
		seen[it.Context().String()] = true
	}
	if !seen[g1.String()] || !seen[g2.String()] {
		t.Errorf("expected both g1 and g2, got %v", seen)
	}
}

func TestContextsForUnseenTripleIsEmpty(t *testing.T) {
	s := openTestStore(t)
	ghost := term.IRI("http://example.org/ghost")
	tr := Triple{S: ghost, P: ghost, O: ghost}

	it, err := s.Contexts(&tr)
	if err != nil {
		t.Fatalf("Contexts: %v", err)
	}
	defer it.Close()
	if it.Next() {
		t.Error("expected no contexts for an unseen triple")
	}
}

func TestContextsAll(t *testing.T) {
	s := openTestStore(t)
	alice := term.IRI("http://example.org/alice")
	name := term.IRI("http://xmlns.com/foaf/0.1/name")
	g1 := term.Graph("http://example.org/g1")
	g2 := term.Graph("http://example.org/g2")

	mustAdd(t, s, Triple{S: alice, P: name, O: term.NewPlainLiteral("a")}, g1, false)
	mustAdd(t, s, Triple{S: alice, P: name, O: term.NewPlainLiteral("b")}, g2, false)

	it, err := s.Contexts(nil)
	if err != nil {
		t.Fatalf("Contexts: %v", err)
	}
	defer it.Close()

	seen := map[string]bool{}
	for it.Next() {
		seen[it.Context().String()] = true
	}
	if len(seen) != 2 {
		t.Errorf("expected 2 known contexts, got %d (%v)", len(seen), seen)
	}
}
