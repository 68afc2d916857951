// Package cache provides the key/value backend behind the resource read-through cache.
package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Badger is a TTL cache stored in BadgerDB. An empty directory keeps
// everything in memory.
type Badger struct {
	db *badger.DB
}

// Open opens (or creates) the cache at dir.
func Open(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	return &Badger{db: db}, nil
}

// Get returns the value stored under key, or ok=false on a miss or expiry.
func (b *Badger) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value under key. A non-positive ttl never expires.
func (b *Badger) Set(key string, value []byte, ttl time.Duration) error {
	return b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Invalidate removes every key starting with prefix.
func (b *Badger) Invalidate(prefix string) error {
	return b.db.DropPrefix([]byte(prefix))
}

// Close releases the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}

// ModelKey is the cache key of a single record: "<model>.<uuid>".
func ModelKey(model, id string) string {
	return fmt.Sprintf("%s.%s", model, id)
}
