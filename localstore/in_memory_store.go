package localstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"
)

// ErrQuotaExceeded is returned by a quota-limited in-memory store when a
// write would grow its contents past the limit.
var ErrQuotaExceeded = errors.New("quota exceeded")

type inMemoryStore struct {
	entries map[string][]byte
	used    int
	quota   int
	l       sync.Mutex
}

// NewInMemoryStore provides a Persist that keeps entries in a map, usually for testing.
func NewInMemoryStore() Persist {
	return &inMemoryStore{}
}

// NewInMemoryStoreWithQuota is like NewInMemoryStore, but refuses writes
// that would make the sum of key and value lengths exceed quota bytes,
// the way a browser's local storage does.
func NewInMemoryStoreWithQuota(quota int) Persist {
	return &inMemoryStore{quota: quota}
}

func (ims *inMemoryStore) Store(ctx context.Context, key string, value []byte) error {
	ims.l.Lock()
	defer ims.l.Unlock()
	used := ims.used + len(key) + len(value)
	if old, ok := ims.entries[key]; ok {
		used -= len(key) + len(old)
	}
	if ims.quota > 0 && used > ims.quota {
		return fmt.Errorf("store %s (%d bytes): %w", key, len(value), ErrQuotaExceeded)
	}
	if ims.entries == nil {
		ims.entries = map[string][]byte{}
	}
	ims.entries[key] = append([]byte(nil), value...)
	ims.used = used
	return nil
}

func (ims *inMemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	ims.l.Lock()
	value, ok := ims.entries[key]
	ims.l.Unlock()
	if !ok {
		return nil, fmt.Errorf("inMemoryStore entry not found for %s: %w", key, fs.ErrNotExist)
	}
	return append([]byte(nil), value...), nil
}

func (ims *inMemoryStore) Delete(ctx context.Context, key string) error {
	ims.l.Lock()
	if old, ok := ims.entries[key]; ok {
		ims.used -= len(key) + len(old)
		delete(ims.entries, key)
	}
	ims.l.Unlock()
	return nil
}

func (ims *inMemoryStore) Keys(ctx context.Context) ([]string, error) {
	ims.l.Lock()
	keys := make([]string, 0, len(ims.entries))
	for k := range ims.entries {
		keys = append(keys, k)
	}
	ims.l.Unlock()
	sort.Strings(keys)
	return keys, nil
}

func (ims *inMemoryStore) Clear(ctx context.Context) error {
	ims.l.Lock()
	ims.entries = nil
	ims.used = 0
	ims.l.Unlock()
	return nil
}
