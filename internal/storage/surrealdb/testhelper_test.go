package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/carteira/internal/common"
	tcommon "github.com/bobmcallan/carteira/tests/common"
	surreal "github.com/surrealdb/surrealdb.go"
)

// testDB returns a connection to the shared SurrealDB container, using a
// unique database per test.
func testDB(t *testing.T) *surreal.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping SurrealDB container test in short mode")
	}

	sc := tcommon.StartSurrealDB(t)

	// SurrealDB rejects "/" in database names
	sanitized := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Connect(context.Background(), common.SurrealDBConfig{
		Address:   sc.Address(),
		Username:  "root",
		Password:  "root",
		Namespace: "carteira_test",
		Database:  fmt.Sprintf("t_%s_%d", sanitized, time.Now().UnixNano()%100000),
	})
	if err != nil {
		t.Fatalf("connect to SurrealDB: %v", err)
	}

	t.Cleanup(func() {
		db.Close(context.Background())
	})
	return db
}
