// Package testutil provides test fixtures for smartshop: migrated in-memory
// databases and a fluent builder for purchase histories.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
	"github.com/Veraticus/smartshop/internal/storage"
)

// TestDB is a migrated in-memory database closed when the test ends.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.Seed(testutil.NewHistory(42, now).Every("Milk", model.CategoryDairy, 7, 4).Build())
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{Storage: store, t: t}
}

// Seed saves purchases, failing the test on error.
func (db *TestDB) Seed(purchases []model.PurchaseRecord) {
	db.t.Helper()
	if len(purchases) == 0 {
		return
	}
	if err := db.Storage.SavePurchases(context.Background(), purchases); err != nil {
		db.t.Fatalf("failed to seed %d purchases: %v", len(purchases), err)
	}
}

// Purchases returns every stored purchase of userID.
func (db *TestDB) Purchases(userID int64) []model.PurchaseRecord {
	db.t.Helper()
	records, err := db.Storage.GetPurchases(context.Background(), userID, time.Time{})
	if err != nil {
		db.t.Fatalf("failed to load purchases: %v", err)
	}
	return records
}
