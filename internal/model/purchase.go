package model

import "time"

// PurchaseRecord is one persisted purchase of an item by a user.
type PurchaseRecord struct {
	PurchaseDate time.Time `json:"purchase_date"`
	Price        *float64  `json:"price,omitempty"`
	ID           string    `json:"id"`
	ReceiptID    string    `json:"receipt_id,omitempty"`
	ItemName     string    `json:"item_name"`
	Category     string    `json:"category"`
	Unit         string    `json:"unit"`
	UserID       int64     `json:"user_id"`
	Quantity     float64   `json:"quantity"`
}

// PurchaseFromItem builds a record for item bought by userID at date.
func PurchaseFromItem(userID int64, item ParsedItem, date time.Time) PurchaseRecord {
	rec := PurchaseRecord{
		UserID:       userID,
		ItemName:     item.Name,
		Category:     item.Category,
		Quantity:     item.Quantity,
		Unit:         item.Unit,
		PurchaseDate: date,
	}
	if rec.Category == "" {
		rec.Category = CategoryOther
	}
	if price, ok := item.Price(); ok {
		rec.Price = Float(price)
	}
	return rec
}

// PurchasePattern holds aggregated statistics for one item bought repeatedly.
// It is derived from PurchaseRecords on demand and never persisted.
type PurchasePattern struct {
	FirstSeen       time.Time `json:"first_seen"`
	LastSeen        time.Time `json:"last_seen"`
	ItemName        string    `json:"item_name"`
	Category        string    `json:"category"`
	Frequency       int       `json:"frequency"`
	AvgIntervalDays float64   `json:"avg_interval_days"`
	DaysSinceLast   int       `json:"days_since_last"`
}

// NamedCount pairs a name with an occurrence count.
type NamedCount struct {
	Name  string
	Count int
}

// UserStats summarizes a user's purchase history.
type UserStats struct {
	TopCategories  []NamedCount
	TopItems       []NamedCount
	TotalPurchases int
	UniqueItems    int
	Categories     int
	DaysTracked    int
}
