package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

var baseDate = time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

// Helper function to create test purchases, one per day from baseDate.
func createTestPurchases(userID int64, names ...string) []model.PurchaseRecord {
	purchases := make([]model.PurchaseRecord, len(names))
	for i, name := range names {
		purchases[i] = model.PurchaseRecord{
			UserID:       userID,
			ItemName:     name,
			Category:     model.CategoryOther,
			Quantity:     1,
			Unit:         model.UnitPiece,
			Price:        model.Float(float64(i+1) * 1.5),
			PurchaseDate: baseDate.AddDate(0, 0, i),
		}
	}
	return purchases
}

func TestNewSQLiteStorage(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	if store.Path() == "" {
		t.Error("Path() should not be empty")
	}

	if _, err := NewSQLiteStorage("  "); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestNewSQLiteStorage_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
}

func TestSavePurchases_RoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	purchases := createTestPurchases(42, "Milk", "Bread", "Eggs")
	purchases[0].Category = "Dairy"
	purchases[1].Price = nil

	if err := store.SavePurchases(ctx, purchases); err != nil {
		t.Fatalf("SavePurchases() error = %v", err)
	}
	for i, p := range purchases {
		if p.ID == "" {
			t.Errorf("purchase %d was not assigned an ID", i)
		}
	}

	got, err := store.GetPurchases(ctx, 42, time.Time{})
	if err != nil {
		t.Fatalf("GetPurchases() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d purchases, want 3", len(got))
	}

	if got[0].ItemName != "Milk" || got[0].Category != model.CategoryDairy {
		t.Errorf("first purchase = %+v, want Milk in dairy", got[0])
	}
	if got[1].Price != nil {
		t.Errorf("Bread price = %v, want nil", *got[1].Price)
	}
	if got[2].Price == nil || *got[2].Price != 4.5 {
		t.Errorf("Eggs price = %v, want 4.5", got[2].Price)
	}
	if !got[2].PurchaseDate.Equal(baseDate.AddDate(0, 0, 2)) {
		t.Errorf("Eggs date = %v, want %v", got[2].PurchaseDate, baseDate.AddDate(0, 0, 2))
	}
}

func TestGetPurchases_Since(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SavePurchases(ctx, createTestPurchases(1, "A", "B", "C", "D")); err != nil {
		t.Fatalf("SavePurchases() error = %v", err)
	}
	if err := store.SavePurchases(ctx, createTestPurchases(2, "Other")); err != nil {
		t.Fatalf("SavePurchases() error = %v", err)
	}

	got, err := store.GetPurchases(ctx, 1, baseDate.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("GetPurchases() error = %v", err)
	}
	if len(got) != 2 || got[0].ItemName != "C" || got[1].ItemName != "D" {
		t.Errorf("GetPurchases() = %+v, want C and D", got)
	}

	none, err := store.GetPurchases(ctx, 3, time.Time{})
	if err != nil {
		t.Fatalf("GetPurchases() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("unknown user has %d purchases", len(none))
	}
}

func TestSavePurchases_Invalid(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.PurchaseRecord)
	}{
		{name: "empty name", mutate: func(p *model.PurchaseRecord) { p.ItemName = "  " }},
		{name: "zero quantity", mutate: func(p *model.PurchaseRecord) { p.Quantity = 0 }},
		{name: "negative price", mutate: func(p *model.PurchaseRecord) { p.Price = model.Float(-1) }},
		{name: "unknown category", mutate: func(p *model.PurchaseRecord) { p.Category = "weapons" }},
		{name: "missing user", mutate: func(p *model.PurchaseRecord) { p.UserID = 0 }},
		{name: "missing date", mutate: func(p *model.PurchaseRecord) { p.PurchaseDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			purchases := createTestPurchases(1, "Milk")
			tt.mutate(&purchases[0])
			if err := store.SavePurchases(ctx, purchases); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	got, err := store.GetPurchases(ctx, 1, time.Time{})
	if err != nil {
		t.Fatalf("GetPurchases() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("invalid purchases were stored: %+v", got)
	}
}

func TestSaveReceipt(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	storeName := "SuperMart"
	receipt := &model.Receipt{
		UserID:       7,
		StoreName:    &storeName,
		PurchaseDate: baseDate,
		GrandTotal:   model.Float(8.5),
		RawText:      "SuperMart\nApples 2kg 5.00\nMilk 1L 3.50\nTotal 8.50",
		Confidence:   92,
	}
	purchases := createTestPurchases(0, "Apples", "Milk")

	if err := store.SaveReceipt(ctx, receipt, purchases); err != nil {
		t.Fatalf("SaveReceipt() error = %v", err)
	}
	if receipt.ID == "" {
		t.Fatal("receipt was not assigned an ID")
	}

	got, err := store.GetPurchases(ctx, 7, time.Time{})
	if err != nil {
		t.Fatalf("GetPurchases() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d purchases, want 2", len(got))
	}
	for _, p := range got {
		if p.ReceiptID != receipt.ID {
			t.Errorf("purchase %s receipt = %q, want %q", p.ItemName, p.ReceiptID, receipt.ID)
		}
	}

	receipts, err := store.GetReceipts(ctx, 7, 10)
	if err != nil {
		t.Fatalf("GetReceipts() error = %v", err)
	}
	if len(receipts) != 1 {
		t.Fatalf("got %d receipts, want 1", len(receipts))
	}
	if receipts[0].StoreName == nil || *receipts[0].StoreName != "SuperMart" {
		t.Errorf("store name = %v, want SuperMart", receipts[0].StoreName)
	}
	if receipts[0].GrandTotal == nil || *receipts[0].GrandTotal != 8.5 {
		t.Errorf("grand total = %v, want 8.5", receipts[0].GrandTotal)
	}
}

func TestSaveReceipt_RollsBackOnInvalidPurchase(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	purchases := createTestPurchases(0, "Apples", "Milk")
	purchases[1].Quantity = -1

	err := store.SaveReceipt(ctx, &model.Receipt{UserID: 7, PurchaseDate: baseDate}, purchases)
	if err == nil {
		t.Fatal("expected error")
	}

	receipts, err := store.GetReceipts(ctx, 7, 10)
	if err != nil {
		t.Fatalf("GetReceipts() error = %v", err)
	}
	if len(receipts) != 0 {
		t.Errorf("receipt was stored despite invalid purchases")
	}
}

func TestUpsertUser(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.UpsertUser(ctx, &model.User{ID: 5, Username: "sam"}); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}
	if err := store.UpsertUser(ctx, &model.User{ID: 5}); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	user, err := store.GetUser(ctx, 5)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if user == nil || user.Username != "sam" {
		t.Errorf("GetUser() = %+v, want username kept", user)
	}

	missing, err := store.GetUser(ctx, 99)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetUser() for unknown id = %+v, want nil", missing)
	}

	if err := store.UpsertUser(ctx, &model.User{ID: -1}); err == nil {
		t.Error("expected error for invalid id")
	}
}
