package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/julianstephens/sagestudy/internal/constants"
	apperrors "github.com/julianstephens/sagestudy/internal/errors"
	"github.com/julianstephens/sagestudy/internal/logger"
)

// New builds the KV for the configured backend. It does not open or
// initialize it.
func New(backend, path, dsn string) (KV, error) {
	switch backend {
	case constants.StorageBackendJSON:
		return NewJSONStore(path), nil
	case constants.StorageBackendSQLite, "":
		return NewSQLiteStore(path), nil
	case constants.StorageBackendPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres backend requires a connection string")
		}
		return NewPostgresStore(dsn), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// Store layers typed JSON collections over a KV and serializes
// read-modify-write cycles per key.
type Store struct {
	kv KV

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(kv KV) *Store {
	return &Store{
		kv:    kv,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Store) lock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// decode loads key into v. It reports false when the key is absent or the
// stored value cannot be decoded; both cases are logged except absence.
func (s *Store) decode(key string, v interface{}) bool {
	data, err := s.kv.Get(key)
	if errors.Is(err, ErrKeyNotFound) {
		return false
	}
	if err != nil {
		logger.Warn("Failed to read stored value, using default", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("Stored value is corrupt, using default", "key", key, "bytes", len(data), "error", err)
		return false
	}
	return true
}

func (s *Store) encode(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperrors.Storage("encode "+key, err)
	}
	if err := s.kv.Set(key, data); err != nil {
		return apperrors.Storage("write "+key, err)
	}
	return nil
}

// Collection is an ordered list of T persisted under one key
type Collection[T any] struct {
	store *Store
	key   string
}

func NewCollection[T any](store *Store, key string) *Collection[T] {
	return &Collection[T]{store: store, key: key}
}

func (c *Collection[T]) load() []T {
	var items []T
	if !c.store.decode(c.key, &items) || items == nil {
		return []T{}
	}
	return items
}

func (c *Collection[T]) save(items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.store.encode(c.key, items)
}

// GetAll returns every stored item in stored order. Missing or unreadable
// data yields an empty list.
func (c *Collection[T]) GetAll() []T {
	l := c.store.lock(c.key)
	l.Lock()
	defer l.Unlock()
	return c.load()
}

// SaveAll replaces the whole collection
func (c *Collection[T]) SaveAll(items []T) error {
	l := c.store.lock(c.key)
	l.Lock()
	defer l.Unlock()
	return c.save(items)
}

// Update runs fn on the current items and persists the result while holding
// the key lock. When fn errors nothing is written.
func (c *Collection[T]) Update(fn func([]T) ([]T, error)) error {
	l := c.store.lock(c.key)
	l.Lock()
	defer l.Unlock()

	items, err := fn(c.load())
	if err != nil {
		return err
	}
	return c.save(items)
}

// Document is a single value of T persisted under one key
type Document[T any] struct {
	store *Store
	key   string
	def   func() T
}

// NewDocument binds key to T. def builds the value returned when nothing
// usable is stored; it is called fresh each time so callers may mutate it.
func NewDocument[T any](store *Store, key string, def func() T) *Document[T] {
	return &Document[T]{store: store, key: key, def: def}
}

func (d *Document[T]) load() T {
	var v T
	if !d.store.decode(d.key, &v) {
		return d.def()
	}
	return v
}

func (d *Document[T]) Get() T {
	l := d.store.lock(d.key)
	l.Lock()
	defer l.Unlock()
	return d.load()
}

func (d *Document[T]) Save(v T) error {
	l := d.store.lock(d.key)
	l.Lock()
	defer l.Unlock()
	return d.store.encode(d.key, v)
}

// Update runs fn on the current value and persists the result
func (d *Document[T]) Update(fn func(T) (T, error)) (T, error) {
	l := d.store.lock(d.key)
	l.Lock()
	defer l.Unlock()

	v, err := fn(d.load())
	if err != nil {
		var zero T
		return zero, err
	}
	if err := d.store.encode(d.key, v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Delete removes the stored value; the next Get returns the default
func (d *Document[T]) Delete() error {
	l := d.store.lock(d.key)
	l.Lock()
	defer l.Unlock()
	if err := d.store.kv.Delete(d.key); err != nil {
		return apperrors.Storage("delete "+d.key, err)
	}
	return nil
}
