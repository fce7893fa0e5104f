// Package badger provides the embedded BadgerHold key-value backend.
package badger

import (
	"fmt"
	"os"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// Store wraps a BadgerHold database.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
	path   string
}

// NewStore opens (or creates) a BadgerHold database in path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Msg("Badger store opened")

	return &Store{db: db, logger: logger, path: path}, nil
}

// Path returns the database directory.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
