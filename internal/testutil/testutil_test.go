package testutil

import (
	"testing"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC)

func TestHistoryBuilder(t *testing.T) {
	records := NewHistory(7, now).
		Every("Milk", model.CategoryDairy, 7, 3).
		Starting(2).
		Once("Bread", model.CategoryBakery, 1).
		Build()

	require.Len(t, records, 4)
	assert.Equal(t, now.AddDate(0, 0, -14), records[0].PurchaseDate)
	assert.Equal(t, "Bread", records[2].ItemName)
	assert.Equal(t, now.AddDate(0, 0, -3), records[2].PurchaseDate)
	assert.Equal(t, now, records[3].PurchaseDate)
	for _, r := range records {
		assert.Equal(t, int64(7), r.UserID)
	}
}

func TestSetupTestDB_Seed(t *testing.T) {
	db := SetupTestDB(t)
	db.Seed(NewHistory(3, now).Every("Eggs", model.CategoryDairy, 10, 2).Build())
	db.Seed(nil)

	stored := db.Purchases(3)
	require.Len(t, stored, 2)
	assert.Equal(t, "Eggs", stored[0].ItemName)
	assert.NotEmpty(t, stored[0].ID)
	assert.Empty(t, db.Purchases(4))
}
