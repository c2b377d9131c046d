package kv

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// BadgerStore persists client state on disk so sessions survive restarts.
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening badger store at %s", path)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(key string) (string, error) {
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return string(val), nil
}

func (s *BadgerStore) Set(key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

func (s *BadgerStore) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (s *BadgerStore) Close() error { return s.db.Close() }
