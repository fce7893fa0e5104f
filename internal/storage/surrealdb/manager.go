// Package surrealdb provides the SurrealDB key-value backend.
package surrealdb

import (
	"context"
	"fmt"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/surrealdb/surrealdb.go"
)

// Connect opens a SurrealDB connection, signs in and selects the namespace
// and database from config.
func Connect(ctx context.Context, config common.SurrealDBConfig) (*surrealdb.DB, error) {
	db, err := surrealdb.New(config.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB at %s: %w", config.Address, err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Username,
		"pass": config.Password,
	}); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Namespace, config.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	return db, nil
}

// Open connects using config and returns key-value storage in the default table.
func Open(ctx context.Context, logger *common.Logger, config common.SurrealDBConfig) (*KVStore, error) {
	db, err := Connect(ctx, config)
	if err != nil {
		return nil, err
	}

	kv, err := NewKVStore(ctx, db, logger, DefaultTable)
	if err != nil {
		db.Close(ctx)
		return nil, err
	}
	kv.owned = true

	logger.Info().
		Str("address", config.Address).
		Str("namespace", config.Namespace).
		Str("database", config.Database).
		Msg("SurrealDB storage initialized")

	return kv, nil
}
