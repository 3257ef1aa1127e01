package store

import (
	"errors"

	"github.com/kvgraph/ldbstore/internal/dict"
	"github.com/kvgraph/ldbstore/pkg/term"
)

// ErrMalformedTerm and ErrDanglingID are re-exported here so callers that
// only import this package don't also need term/dict for error checks.
var (
	ErrMalformedTerm = term.ErrMalformedTerm
	ErrDanglingID    = dict.ErrDanglingID
)

// PluginName is the identifier this store registers under, kept stable for
// compatibility with tooling that expects the name of the store it replaces.
const PluginName = "LevelDB"

var (
	// ErrStoreClosed is returned by any operation attempted on a closed Store.
	ErrStoreClosed = errors.New("store: closed")

	// ErrStoreExists is returned by Open when create is requested but a
	// database already exists at path.
	ErrStoreExists = errors.New("store: database already exists")

	// ErrNoStore is returned by Open when create is false and no database
	// exists at path.
	ErrNoStore = errors.New("store: no database at path")

	// ErrNotSupported is reserved for operations this store deliberately
	// does not implement; no method currently returns it.
	ErrNotSupported = errors.New("store: operation not supported")
)
