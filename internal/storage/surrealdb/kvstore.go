package surrealdb

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/bobmcallan/carteira/internal/common"
	"github.com/bobmcallan/carteira/internal/interfaces"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// DefaultTable holds the quote cache slot.
const DefaultTable = "cache_kv"

// tableName limits table names to plain identifiers; they are spliced into SurrealQL.
var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

type kvRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// KVStore implements interfaces.KeyValueStorage on a SurrealDB table.
// Each key is a record id in the table.
type KVStore struct {
	db     *surrealdb.DB
	logger *common.Logger
	table  string
	owned  bool
}

var _ interfaces.KeyValueStorage = (*KVStore)(nil)

// NewKVStore defines table if needed and returns storage over it.
func NewKVStore(ctx context.Context, db *surrealdb.DB, logger *common.Logger, table string) (*KVStore, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	// SurrealDB v3 errors when selecting from an undefined table
	sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
	if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
		return nil, fmt.Errorf("failed to define table %s: %w", table, err)
	}
	return &KVStore{db: db, logger: logger, table: table}, nil
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	rec, err := surrealdb.Select[kvRecord](ctx, s.db, surrealmodels.NewRecordID(s.table, key))
	if err != nil {
		if isNotFoundError(err) {
			return "", fmt.Errorf("key '%s': %w", key, interfaces.ErrNotFound)
		}
		return "", fmt.Errorf("failed to get key '%s': %w", key, err)
	}
	if rec == nil || rec.Key == "" {
		return "", fmt.Errorf("key '%s': %w", key, interfaces.ErrNotFound)
	}
	return rec.Value, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	sql := fmt.Sprintf("UPSERT type::record('%s', $id) CONTENT $kv", s.table)
	vars := map[string]any{"id": key, "kv": kvRecord{Key: key, Value: value}}

	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		if _, err = surrealdb.Query[[]kvRecord](ctx, s.db, sql, vars); err == nil {
			return nil
		}
	}
	return fmt.Errorf("failed to set key '%s' after retries: %w", key, err)
}

// SetMany upserts every pair inside one SurrealDB transaction.
func (s *KVStore) SetMany(ctx context.Context, kv map[string]string) error {
	if len(kv) == 0 {
		return nil
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("BEGIN TRANSACTION;\n")
	vars := make(map[string]any, len(keys)*2)
	for i, k := range keys {
		fmt.Fprintf(&b, "UPSERT type::record('%s', $id%d) CONTENT $kv%d;\n", s.table, i, i)
		vars[fmt.Sprintf("id%d", i)] = k
		vars[fmt.Sprintf("kv%d", i)] = kvRecord{Key: k, Value: kv[k]}
	}
	b.WriteString("COMMIT TRANSACTION;")

	if _, err := surrealdb.Query[any](ctx, s.db, b.String(), vars); err != nil {
		return fmt.Errorf("failed to set %d keys: %w", len(keys), err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	_, err := surrealdb.Delete[kvRecord](ctx, s.db, surrealmodels.NewRecordID(s.table, key))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete key '%s': %w", key, err)
	}
	return nil
}

func (s *KVStore) GetAll(ctx context.Context) (map[string]string, error) {
	list, err := surrealdb.Select[[]kvRecord](ctx, s.db, surrealmodels.Table(s.table))
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	result := make(map[string]string)
	if list == nil {
		return result, nil
	}
	for _, rec := range *list {
		result[rec.Key] = rec.Value
	}
	return result, nil
}

// Close closes the connection when this store opened it.
func (s *KVStore) Close() error {
	if s.owned {
		return s.db.Close(context.Background())
	}
	return nil
}

func isNotFoundError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist")
}
