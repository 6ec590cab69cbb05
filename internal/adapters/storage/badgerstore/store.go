// Package badgerstore implementa los repositorios sobre badger, un KV
// embebido con valores JSON y prefijos de clave por entidad. Es el
// análogo local del document store hosteado: útil para instalaciones
// single-node sin Postgres.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound = errors.New("not found")
)

type Store struct {
	db       *badger.DB
	cancelGC func()
	wg       sync.WaitGroup
}

// Open abre (o crea) la base badger en el path dado y deja corriendo el
// GC del value log en background.
func Open(path string) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at path %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		db:       db,
		cancelGC: cancel,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				for s.db.RunValueLogGC(0.5) == nil && ctx.Err() == nil {
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	return s, nil
}

func (s *Store) Close() error {
	s.cancelGC()
	s.wg.Wait()

	return s.db.Close()
}

func (s *Store) put(key []byte, v any) error {
	return s.db.Update(func(tx *badger.Txn) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to JSON marshal value for key %s: %w", string(key), err)
		}
		return tx.Set(key, data)
	})
}

func (s *Store) create(key []byte, v any) error {
	return s.db.Update(func(tx *badger.Txn) error {
		if _, err := tx.Get(key); err == nil {
			return fmt.Errorf("key %s already exists", string(key))
		}

		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to JSON marshal value for key %s: %w", string(key), err)
		}
		return tx.Set(key, data)
	})
}

func (s *Store) get(key []byte, out any) error {
	return s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get value for key %s: %w", string(key), err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, out); err != nil {
				return fmt.Errorf("failed to unmarshal value for key %s: %w", string(key), err)
			}
			return nil
		})
	})
}

func (s *Store) update(key []byte, v any) error {
	return s.db.Update(func(tx *badger.Txn) error {
		if _, err := tx.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to JSON marshal value for key %s: %w", string(key), err)
		}
		return tx.Set(key, data)
	})
}

func (s *Store) delete(key []byte) error {
	return s.db.Update(func(tx *badger.Txn) error {
		if _, err := tx.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(key)
	})
}

// scan itera todas las entradas bajo un prefijo y le pasa cada valor al
// callback.
func (s *Store) scan(prefix []byte, fn func(val []byte) error) error {
	return s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}

		return nil
	})
}
