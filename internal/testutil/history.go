package testutil

import (
	"time"

	"github.com/Veraticus/smartshop/internal/model"
)

// HistoryBuilder assembles a user's purchase history relative to a fixed
// "now". Dates count backwards, so Every("Milk", dairy, 7, 3) yields purchases
// 0, 7 and 14 days before now.
type HistoryBuilder struct {
	now     time.Time
	records []model.PurchaseRecord
	userID  int64
	offset  int
}

// NewHistory starts a history for userID.
func NewHistory(userID int64, now time.Time) *HistoryBuilder {
	return &HistoryBuilder{userID: userID, now: now}
}

// Starting shifts later entries back by daysAgo days.
func (b *HistoryBuilder) Starting(daysAgo int) *HistoryBuilder {
	b.offset = daysAgo
	return b
}

// Once adds a single purchase daysAgo days before now, plus any offset.
func (b *HistoryBuilder) Once(name, category string, daysAgo int) *HistoryBuilder {
	b.records = append(b.records, model.PurchaseRecord{
		UserID:       b.userID,
		ItemName:     name,
		Category:     category,
		Quantity:     model.DefaultQuantity,
		Unit:         model.UnitPiece,
		PurchaseDate: b.now.AddDate(0, 0, -(b.offset + daysAgo)),
	})
	return b
}

// Every adds times purchases spaced everyDays apart.
func (b *HistoryBuilder) Every(name, category string, everyDays, times int) *HistoryBuilder {
	for i := 0; i < times; i++ {
		b.Once(name, category, i*everyDays)
	}
	return b
}

// Build returns the records oldest first.
func (b *HistoryBuilder) Build() []model.PurchaseRecord {
	out := make([]model.PurchaseRecord, len(b.records))
	copy(out, b.records)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].PurchaseDate.Before(out[j-1].PurchaseDate); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
