package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.etcd.io/bbolt"
)

// ErrNotFound is returned when a key holds no document.
var ErrNotFound = errors.New("database: not found")

type Store struct {
	db *bbolt.DB
}

func (s *Store) Close() error {
	return s.db.Close()
}

func put(b *bbolt.Bucket, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return b.Put([]byte(key), data)
}

func Get[T any](s *Store, bucket []byte, key string) (*T, error) {
	var out T
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("bucket %s: %w", bucket, ErrNotFound)
		}
		return get(b, key, &out)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func get(b *bbolt.Bucket, key string, out any) error {
	v := b.Get([]byte(key))
	if v == nil {
		return fmt.Errorf("key %s: %w", key, ErrNotFound)
	}
	if err := json.Unmarshal(v, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// prefixKeys lists the keys of b that start with prefix, in byte order.
func prefixKeys(b *bbolt.Bucket, prefix string) []string {
	var keys []string
	c := b.Cursor()
	p := []byte(prefix)
	for k, _ := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, _ = c.Next() {
		keys = append(keys, string(k))
	}
	return keys
}

// Batch collects whole-document writes and deletes that must land together.
type Batch struct {
	puts    map[string]any
	deletes []string
}

func (bt *Batch) Put(key string, value any) *Batch {
	if bt.puts == nil {
		bt.puts = map[string]any{}
	}
	bt.puts[key] = value
	return bt
}

func (bt *Batch) Delete(keys ...string) *Batch {
	bt.deletes = append(bt.deletes, keys...)
	return bt
}

// Commit applies the batch in a single transaction.
func Commit(s *Store, bucket []byte, bt *Batch) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		for _, k := range bt.deletes {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		for k, v := range bt.puts {
			if err := put(b, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Backup writes a consistent snapshot of the whole database file to w.
func (s *Store) Backup(w io.Writer) (int64, error) {
	var n int64
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		n, err = tx.WriteTo(w)
		return err
	})
	return n, err
}
