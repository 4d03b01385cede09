package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Persist is the interface for loading and storing serialized entries.
// Implementations must make each Store atomic: a failed write leaves the
// previous value for the key in place.
type Persist interface {
	// Store makes the given bytes accessible by the given name, replacing any previous value.
	Store(context.Context, string, []byte) error
	// Load retrieves the previously-stored bytes by the given name. If there are none,
	// the returned error wraps fs.ErrNotExist.
	Load(context.Context, string) ([]byte, error)
	// Delete removes the named entry. Deleting a missing entry is not an error.
	Delete(context.Context, string) error
	// Keys lists the names of all stored entries, in no particular order.
	Keys(context.Context) ([]string, error)
}

// Clearer is implemented by a Persist that can drop all of its entries at
// once, faster than deleting them one by one.
type Clearer interface {
	Clear(context.Context) error
}

// Config controls how entries are persisted, serialized and reported.
type Config struct {
	// StoreWith is used to store and load serialized entries. Defaults to NewInMemoryStore().
	StoreWith Persist

	// Prefix namespaces this store's keys within the Persist. When empty,
	// Keys and Clear operate on the entire underlying store.
	Prefix string

	// Unmarshal function, defaults to JSON
	Unmarshal func([]byte, interface{}) error

	// Marshal function, defaults to JSON
	Marshal func(interface{}) ([]byte, error)

	// Logger receives a diagnostic for every failed operation. Defaults to a no-op logger.
	Logger *zap.Logger

	// Registerer, if set, gets a failure counter partitioned by operation.
	Registerer prometheus.Registerer
}

// Store is a typed view over a Persist. Its public operations never return
// errors: failed reads degrade to the caller's default and failed writes
// are dropped, both with a diagnostic logged.
type Store struct {
	persist   Persist
	prefix    string
	marshal   func(interface{}) ([]byte, error)
	unmarshal func([]byte, interface{}) error
	log       *zap.Logger
	metrics   *metrics
}

// New returns a Store configured by cfg; a nil cfg gets all defaults.
func New(cfg *Config) *Store {
	if cfg == nil {
		cfg = &Config{}
	}
	s := &Store{
		persist:   cfg.StoreWith,
		prefix:    cfg.Prefix,
		marshal:   cfg.Marshal,
		unmarshal: cfg.Unmarshal,
		log:       cfg.Logger,
	}
	if s.persist == nil {
		s.persist = NewInMemoryStore()
	}
	if s.marshal == nil {
		s.marshal = json.Marshal
	}
	if s.unmarshal == nil {
		s.unmarshal = json.Unmarshal
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.metrics = newMetrics(cfg.Registerer)
	return s
}

// Lookup reads and decodes the entry for key. found is false, with a nil
// error, when there is no such entry.
func Lookup[T any](ctx context.Context, s *Store, key string) (value T, found bool, err error) {
	b, err := s.persist.Load(ctx, s.prefix+key)
	if errors.Is(err, fs.ErrNotExist) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("load %s: %w", key, err)
	}
	err = s.unmarshal(b, &value)
	if err != nil {
		var zero T
		return zero, false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return value, true, nil
}

// Get returns the value stored under key, or def if there is none or it
// cannot be read as a T.
func Get[T any](ctx context.Context, s *Store, key string, def T) T {
	value, found, err := Lookup[T](ctx, s, key)
	if err != nil {
		s.fail("get", key, err)
		return def
	}
	if !found {
		return def
	}
	return value
}

// Put serializes value and stores it under key. Nothing is written if
// serialization fails.
func (s *Store) Put(ctx context.Context, key string, value interface{}) error {
	b, err := s.marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	err = s.persist.Store(ctx, s.prefix+key, b)
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// Set is Put without an error result; failures are logged and the
// previously stored value, if any, is kept.
func Set[T any](ctx context.Context, s *Store, key string, value T) {
	if err := s.Put(ctx, key, value); err != nil {
		s.fail("set", key, err)
	}
}

// Remove deletes the entry for key, if there is one.
func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.persist.Delete(ctx, s.prefix+key); err != nil {
		s.fail("remove", key, fmt.Errorf("delete %s: %w", key, err))
	}
}

// Clear deletes every entry in the store's namespace. Without a Prefix,
// that is every entry in the underlying Persist, including ones written
// by other code sharing it.
func (s *Store) Clear(ctx context.Context) {
	if err := s.clear(ctx); err != nil {
		s.fail("clear", "", err)
	}
}

func (s *Store) clear(ctx context.Context) error {
	if c, ok := s.persist.(Clearer); ok && s.prefix == "" {
		return c.Clear(ctx)
	}
	keys, err := s.persist.Keys(ctx)
	if err != nil {
		return fmt.Errorf("keys: %w", err)
	}
	var firstErr error
	for _, k := range keys {
		if !strings.HasPrefix(k, s.prefix) {
			continue
		}
		if err := s.persist.Delete(ctx, k); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return firstErr
}

// Keys returns the keys in the store's namespace, with the Prefix removed.
// It returns an empty slice if the keys cannot be listed.
func (s *Store) Keys(ctx context.Context) []string {
	all, err := s.persist.Keys(ctx)
	if err != nil {
		s.fail("keys", "", fmt.Errorf("keys: %w", err))
		return []string{}
	}
	keys := make([]string, 0, len(all))
	for _, k := range all {
		if strings.HasPrefix(k, s.prefix) {
			keys = append(keys, strings.TrimPrefix(k, s.prefix))
		}
	}
	return keys
}

func (s *Store) fail(op, key string, err error) {
	s.metrics.failed(op)
	s.log.Error("localstore operation failed",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err))
}
