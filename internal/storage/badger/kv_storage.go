package badger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/interfaces"
	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"
)

// KVEntry is a persisted key-value pair.
type KVEntry struct {
	Key   string `badgerhold:"key"`
	Value string
}

// KVStorage implements interfaces.KeyValueStorage on a Store.
type KVStorage struct {
	store  *Store
	logger *common.Logger
	mu     sync.Mutex // serialises multi-key writes
	owned  bool
}

var _ interfaces.KeyValueStorage = (*KVStorage)(nil)

// NewKVStorage returns key-value storage over an open Store. The caller keeps
// ownership of store.
func NewKVStorage(store *Store, logger *common.Logger) *KVStorage {
	return &KVStorage{store: store, logger: logger}
}

// OpenKVStorage opens a Store at path and returns storage that closes it on Close.
func OpenKVStorage(logger *common.Logger, path string) (*KVStorage, error) {
	store, err := NewStore(logger, path)
	if err != nil {
		return nil, err
	}
	kv := NewKVStorage(store, logger)
	kv.owned = true
	return kv, nil
}

func (s *KVStorage) Get(_ context.Context, key string) (string, error) {
	var entry KVEntry
	if err := s.store.db.Get(key, &entry); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return "", fmt.Errorf("key '%s': %w", key, interfaces.ErrNotFound)
		}
		return "", fmt.Errorf("failed to get key '%s': %w", key, err)
	}
	return entry.Value, nil
}

func (s *KVStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsert(key, value)
}

// SetMany upserts every pair inside one badger transaction, so either all
// keys change or none do.
func (s *KVStorage) SetMany(_ context.Context, kv map[string]string) error {
	if len(kv) == 0 {
		return nil
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.db.Badger().Update(func(tx *badgerdb.Txn) error {
		for _, k := range keys {
			entry := KVEntry{Key: k, Value: kv[k]}
			if err := s.store.db.TxUpsert(tx, k, &entry); err != nil {
				return fmt.Errorf("failed to set key '%s': %w", k, err)
			}
		}
		return nil
	})
}

func (s *KVStorage) upsert(key, value string) error {
	entry := KVEntry{Key: key, Value: value}
	if err := s.store.db.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set key '%s': %w", key, err)
	}
	return nil
}

func (s *KVStorage) Delete(_ context.Context, key string) error {
	err := s.store.db.Delete(key, KVEntry{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete key '%s': %w", key, err)
	}
	return nil
}

func (s *KVStorage) GetAll(_ context.Context) (map[string]string, error) {
	var entries []KVEntry
	if err := s.store.db.Find(&entries, nil); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		result[entry.Key] = entry.Value
	}
	return result, nil
}

// Close closes the underlying store when this storage opened it.
func (s *KVStorage) Close() error {
	if s.owned {
		return s.store.Close()
	}
	return nil
}
