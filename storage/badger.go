package storage

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger"

	"ticket-pass/models"
)

// BadgerTicketStore is the embedded backend: ticket records in a local
// badger database, for single-node deployments without Redis.
type BadgerTicketStore struct {
	db *badger.DB
}

func NewBadgerTicketStore(path string) (*BadgerTicketStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}

	return &BadgerTicketStore{db: db}, nil
}

func (s *BadgerTicketStore) Get(_ context.Context, key string) (*models.TicketRecord, error) {
	var data []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("badger get %s: %w", key, err)
	}

	return decodeRecord(data)
}

func (s *BadgerTicketStore) Put(_ context.Context, key string, record *models.TicketRecord) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}
	return nil
}

func (s *BadgerTicketStore) Close() error {
	return s.db.Close()
}
