// Package storage selects and constructs the key-value backend.
package storage

import (
	"context"
	"fmt"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/interfaces"
	"github.com/bobmcallan/carteira/internal/storage/badger"
	"github.com/bobmcallan/carteira/internal/storage/surrealdb"
)

// NewKeyValueStorage opens the backend named by config.Storage.Backend.
// Supported backends: "badger" (default), "surrealdb", "memory".
func NewKeyValueStorage(ctx context.Context, logger *common.Logger, config *common.Config) (interfaces.KeyValueStorage, error) {
	backend := config.Storage.Backend
	if backend == "" {
		backend = common.BackendBadger
	}

	switch backend {
	case common.BackendBadger:
		kv, err := badger.OpenKVStorage(logger, config.Storage.Badger.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger storage: %w", err)
		}
		return kv, nil

	case common.BackendSurrealDB:
		kv, err := surrealdb.Open(ctx, logger, config.Storage.SurrealDB)
		if err != nil {
			return nil, fmt.Errorf("failed to open surrealdb storage: %w", err)
		}
		return kv, nil

	case common.BackendMemory:
		logger.Warn().Msg("Using in-memory storage: the quote cache will not survive restarts")
		return NewMemoryStorage(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: badger, surrealdb, memory)", backend)
	}
}
