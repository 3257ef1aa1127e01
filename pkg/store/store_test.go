package store

import (
	"path/filepath"
	"testing"

	"github.com/kvgraph/ldbstore/pkg/term"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db")
	s, err := Open(path, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreateTwiceFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	s, err := Open(path, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()

	_, err = Open(path, true)
	if err != ErrStoreExists {
		t.Fatalf("expected ErrStoreExists, got %v", err)
	}
}

func TestOpenWithoutCreateMissingFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist")
	_, err := Open(path, false)
	if err != ErrNoStore {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
}

func TestOpenExistingWithoutCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	s, err := Open(path, true)
	if err != nil {
		t.Fatalf("Open (create): %v", err)
	}
	s.Close()

	s2, err := Open(path, false)
	if err != nil {
		t.Fatalf("Open (reopen): %v", err)
	}
	s2.Close()
}

func TestClosedStoreRejectsOperations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	s, err := Open(path, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()

	alice := term.IRI("http://example.org/alice")
	err = s.Add(Triple{S: alice, P: alice, O: alice}, alice, false)
	if err != ErrStoreClosed {
		t.Fatalf("expected ErrStoreClosed, got %v", err)
	}
}

func TestDestroyRemovesOnDiskStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	s, err := Open(path, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()

	if err := Destroy(path); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	if _, err := Open(path, false); err != ErrNoStore {
		t.Fatalf("expected store to be gone after Destroy, got %v", err)
	}
}

func TestSizeCountsPerContext(t *testing.T) {
	s := openTestStore(t)

	alice := term.IRI("http://example.org/alice")
	bob := term.IRI("http://example.org/bob")
	name := term.IRI("http://xmlns.com/foaf/0.1/name")
	g1 := term.Graph("http://example.org/g1")
	g2 := term.Graph("http://example.org/g2")

	mustAdd(t, s, Triple{S: alice, P: name, O: term.NewPlainLiteral("Alice")}, g1, false)
	mustAdd(t, s, Triple{S: bob, P: name, O: term.NewPlainLiteral("Bob")}, g1, false)
	mustAdd(t, s, Triple{S: alice, P: name, O: term.NewPlainLiteral("Alice")}, g2, false)

	n, err := s.Size(g1)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 triples in g1, got %d", n)
	}

	n, err = s.Size(g2)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 triple in g2, got %d", n)
	}

	n, err = s.Size(nil)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 distinct triples across all contexts, got %d", n)
	}
}

func TestSizeOfUnseenContextIsZero(t *testing.T) {
	s := openTestStore(t)
	n, err := s.Size(term.Graph("http://example.org/never-used"))
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

// TestReopenPersistsQuadsContextsAndNamespaces closes a store and reopens it
// from disk, verifying quads, context memberships, and namespace bindings
// all survive, and that a triple added after reopening is counted
// alongside the earlier one.
func TestReopenPersistsQuadsContextsAndNamespaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	alice := term.IRI("http://example.org/alice")
	name := term.IRI("http://xmlns.com/foaf/0.1/name")
	g := term.Graph("http://example.org/g")
	tr := Triple{S: alice, P: name, O: term.NewPlainLiteral("Alice")}

	s, err := Open(path, true)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Add(tr, g, false); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Bind("foaf", "http://xmlns.com/foaf/0.1/"); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path, false)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	n, err := s2.Size(g)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 triple to survive reopen, got %d", n)
	}

	it, err := s2.Contexts(&tr)
	if err != nil {
		t.Fatalf("Contexts: %v", err)
	}
	defer it.Close()
	if !it.Next() || !it.Context().Equal(g) {
		t.Error("expected context membership to survive reopen")
	}

	iri, ok, err := s2.Namespace("foaf")
	if err != nil {
		t.Fatalf("Namespace: %v", err)
	}
	if !ok || iri != "http://xmlns.com/foaf/0.1/" {
		t.Errorf("expected namespace binding to survive reopen, got %q ok=%v", iri, ok)
	}

	// Adding a triple with a fresh term after reopen must leave two triples
	// in g. The counter's persistence itself is checked by
	// TestCounterPersistsAcrossLoad in internal/dict.
	bob := term.IRI("http://example.org/bob")
	if err := s2.Add(Triple{S: bob, P: name, O: term.NewPlainLiteral("Bob")}, g, false); err != nil {
		t.Fatalf("Add after reopen: %v", err)
	}
	n, err = s2.Size(g)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 triples in g after reopen add, got %d", n)
	}
}

func mustAdd(t *testing.T, s *Store, tr Triple, ctx term.Term, quoted bool) {
	t.Helper()
	if err := s.Add(tr, ctx, quoted); err != nil {
		t.Fatalf("Add: %v", err)
	}
}
