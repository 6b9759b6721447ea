// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore persists job records on disk so the last reindex outcome
// survives restarts.
//
// Keys: "job:<id>" (JSON record), "job:last" (value = job ID).
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) the badger database at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open badger at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }

func (s *BadgerStore) PutJob(_ context.Context, rec *JobRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("store: job record must have an ID")
	}
	buf, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: marshal job %s: %w", rec.ID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte("job:"+rec.ID), buf); err != nil {
			return err
		}
		return txn.Set([]byte("job:last"), []byte(rec.ID))
	})
}

func (s *BadgerStore) GetJob(_ context.Context, id string) (*JobRecord, error) {
	var out JobRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("job:" + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get job %s: %w", id, err)
	}
	return &out, nil
}

func (s *BadgerStore) LastJob(ctx context.Context) (*JobRecord, error) {
	var lastID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("job:last"))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			lastID = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get last job pointer: %w", err)
	}
	return s.GetJob(ctx, lastID)
}
