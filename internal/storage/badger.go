package storage

import (
	badger "github.com/dgraph-io/badger/v4"
)

// BadgerKV implements KV on top of BadgerDB, the ordered embedded KV engine
// this store is built on.
type BadgerKV struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a Badger database at path. syncWrites maps
// directly to the store's "sync" hint: when true, every commit fsyncs
// before returning.
func OpenBadger(path string, syncWrites bool) (*BadgerKV, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // the store does its own logging; Badger's is noisy by default
	opts.SyncWrites = syncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerKV{db: db}, nil
}

func (k *BadgerKV) View(fn func(Tx) error) error {
	return k.db.View(func(txn *badger.Txn) error {
		return fn(&badgerTx{txn: txn})
	})
}

func (k *BadgerKV) Update(fn func(Tx) error) error {
	return k.db.Update(func(txn *badger.Txn) error {
		return fn(&badgerTx{txn: txn})
	})
}

// Begin starts a transaction the caller must Commit or Rollback itself. Used
// for long-lived, caller-driven iteration that a View/Update callback
// cannot express.
func (k *BadgerKV) Begin(writable bool) (TxHandle, error) {
	txn := k.db.NewTransaction(writable)
	return &badgerTxHandle{badgerTx: badgerTx{txn: txn}}, nil
}

func (k *BadgerKV) Close() error {
	return k.db.Close()
}

type badgerTx struct {
	txn *badger.Txn
}

func (t *badgerTx) Partition(name string) Partition {
	return &badgerPartition{txn: t.txn, prefix: []byte(name)}
}

type badgerTxHandle struct {
	badgerTx
}

func (t *badgerTxHandle) Commit() error {
	return t.txn.Commit()
}

func (t *badgerTxHandle) Rollback() error {
	t.txn.Discard()
	return nil
}

// badgerPartition namespaces keys within one shared Badger database by
// prepending the partition name as a literal byte prefix — the on-disk
// layout this store documents, e.g. the CSPO partition's physical keys are
// "c^s^p^o^" + the composite quad key.
type badgerPartition struct {
	txn    *badger.Txn
	prefix []byte
}

func (p *badgerPartition) physicalKey(key []byte) []byte {
	pk := make([]byte, len(p.prefix)+len(key))
	n := copy(pk, p.prefix)
	copy(pk[n:], key)
	return pk
}

func (p *badgerPartition) Get(key []byte) ([]byte, error) {
	item, err := p.txn.Get(p.physicalKey(key))
	if err == badger.ErrKeyNotFound {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (p *badgerPartition) Put(key, value []byte) error {
	return p.txn.Set(p.physicalKey(key), value)
}

func (p *badgerPartition) Delete(key []byte) error {
	return p.txn.Delete(p.physicalKey(key))
}

func (p *badgerPartition) Iterator(prefix []byte) Iterator {
	scanPrefix := p.physicalKey(prefix)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = scanPrefix
	it := p.txn.NewIterator(opts)
	return &badgerIterator{it: it, tablePrefix: p.prefix, scanPrefix: scanPrefix}
}

// badgerIterator implements Iterator over one prefix range of one
// partition.
type badgerIterator struct {
	it          *badger.Iterator
	tablePrefix []byte
	scanPrefix  []byte
	started     bool
}

func (i *badgerIterator) Next() bool {
	if !i.started {
		i.it.Seek(i.scanPrefix)
		i.started = true
	} else {
		i.it.Next()
	}
	return i.it.ValidForPrefix(i.scanPrefix)
}

func (i *badgerIterator) Key() []byte {
	k := i.it.Item().KeyCopy(nil)
	return k[len(i.tablePrefix):]
}

func (i *badgerIterator) Value() []byte {
	v, err := i.it.Item().ValueCopy(nil)
	if err != nil {
		return nil
	}
	return v
}

func (i *badgerIterator) Close() error {
	i.it.Close()
	return nil
}
