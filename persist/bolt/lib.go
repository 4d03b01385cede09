// Package bolt persists localstore entries in a single bbolt bucket.
package bolt

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"
)

// DefaultBucket holds entries unless Open is given another bucket name.
var DefaultBucket = []byte("entries")

// Persist implements the localstore.Persist interface on a bbolt
// database file.
type Persist struct {
	db     *bbolt.DB
	bucket []byte
}

// Open opens or creates the database at path, along with any missing
// parent directories, and ensures the bucket exists. A nil bucket means
// DefaultBucket.
func Open(path string, bucket []byte) (*Persist, error) {
	if bucket == nil {
		bucket = DefaultBucket
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket %s: %w", bucket, err)
	}
	return &Persist{db: db, bucket: bucket}, nil
}

// keyTag leads every stored key, since bbolt rejects empty keys and
// entry names may be empty.
const keyTag = 'k'

func dbKey(name string) []byte {
	return append([]byte{keyTag}, name...)
}

// Close releases the database file lock.
func (p *Persist) Close() error {
	return p.db.Close()
}

func (p *Persist) Load(ctx context.Context, name string) ([]byte, error) {
	var b []byte
	err := p.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(p.bucket).Get(dbKey(name))
		if v == nil {
			return fmt.Errorf("%s: %w", name, fs.ErrNotExist)
		}
		// v is only valid for the life of the transaction.
		b = append([]byte{}, v...)
		return nil
	})
	return b, err
}

func (p *Persist) Store(ctx context.Context, name string, b []byte) error {
	return p.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(p.bucket).Put(dbKey(name), b)
	})
}

func (p *Persist) Delete(ctx context.Context, name string) error {
	return p.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(p.bucket).Delete(dbKey(name))
	})
}

// Keys lists entry names in byte order.
func (p *Persist) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := p.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(p.bucket).ForEach(func(k, _ []byte) error {
			if len(k) > 0 && k[0] == keyTag {
				keys = append(keys, string(k[1:]))
			}
			return nil
		})
	})
	return keys, err
}

// Clear drops and recreates the bucket in one transaction.
func (p *Persist) Clear(ctx context.Context) error {
	return p.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(p.bucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(p.bucket)
		return err
	})
}
