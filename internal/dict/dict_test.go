package dict

import (
	"path/filepath"
	"testing"

	"github.com/kvgraph/ldbstore/internal/storage"
	"github.com/kvgraph/ldbstore/pkg/term"
)

func openTestKV(t *testing.T) *storage.BadgerKV {
	t.Helper()
	kv, err := storage.OpenBadger(filepath.Join(t.TempDir(), "db"), false)
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestToIDAssignsMonotonicIDs(t *testing.T) {
	kv := openTestKV(t)
	d, err := New(0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	alice := term.IRI("http://example.org/alice")
	bob := term.IRI("http://example.org/bob")

	var idAlice, idBob []byte
	err = kv.Update(func(tx storage.Tx) error {
		var err error
		if err = d.Load(tx); err != nil {
			return err
		}
		idAlice, err = d.ToID(tx, alice)
		if err != nil {
			return err
		}
		idBob, err = d.ToID(tx, bob)
		return err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if string(idAlice) != "1" {
		t.Errorf("expected first id to be 1, got %q", idAlice)
	}
	if string(idBob) != "2" {
		t.Errorf("expected second id to be 2, got %q", idBob)
	}
}

func TestToIDIsIdempotent(t *testing.T) {
	kv := openTestKV(t)
	d, err := New(0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	alice := term.IRI("http://example.org/alice")

	var first, second []byte
	err = kv.Update(func(tx storage.Tx) error {
		var err error
		first, err = d.ToID(tx, alice)
		if err != nil {
			return err
		}
		second, err = d.ToID(tx, alice)
		return err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("expected stable id, got %q then %q", first, second)
	}
}

func TestBijection(t *testing.T) {
	kv := openTestKV(t)
	d, err := New(0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	want := term.NewLangLiteral("bonjour", "fr")
	var id []byte
	err = kv.Update(func(tx storage.Tx) error {
		var err error
		id, err = d.ToID(tx, want)
		return err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	var got term.Term
	err = kv.View(func(tx storage.Tx) error {
		var err error
		got, err = d.FromID(tx, id)
		return err
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("expected %#v, got %#v", want, got)
	}
}

func TestFromIDDangling(t *testing.T) {
	kv := openTestKV(t)
	d, err := New(0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = kv.View(func(tx storage.Tx) error {
		_, err := d.FromID(tx, []byte("999"))
		return err
	})
	if err != ErrDanglingID {
		t.Fatalf("expected ErrDanglingID, got %v", err)
	}
}

// Persisted counter must survive a fresh Dict instance reading it back via
// Load, so ids keep incrementing across a close/reopen.
func TestCounterPersistsAcrossLoad(t *testing.T) {
	kv := openTestKV(t)
	d1, err := New(0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = kv.Update(func(tx storage.Tx) error {
		_, err := d1.ToID(tx, term.IRI("http://example.org/x"))
		return err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	d2, err := New(0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var nextID []byte
	err = kv.Update(func(tx storage.Tx) error {
		if err := d2.Load(tx); err != nil {
			return err
		}
		var err error
		nextID, err = d2.ToID(tx, term.IRI("http://example.org/y"))
		return err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if string(nextID) != "2" {
		t.Errorf("expected counter to continue at 2, got %q", nextID)
	}
}
