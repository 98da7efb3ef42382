package model

import "time"

// ReceiptExtraction is the structured result of parsing one receipt's OCR text.
// Confidence is the OCR engine's mean confidence on a 0-100 scale and is
// independent of the per-item confidence values.
type ReceiptExtraction struct {
	StoreName    *string      `json:"store_name"`
	PurchaseDate *time.Time   `json:"purchase_date"`
	GrandTotal   *float64     `json:"grand_total"`
	RawText      string       `json:"raw_text"`
	Items        []ParsedItem `json:"items"`
	Confidence   float64      `json:"confidence"`
}

// HasItems reports whether any item lines were recognized.
func (r ReceiptExtraction) HasItems() bool {
	return len(r.Items) > 0
}

// ItemsTotal sums the known prices of all items.
func (r ReceiptExtraction) ItemsTotal() float64 {
	var sum float64
	for _, item := range r.Items {
		if price, ok := item.Price(); ok {
			sum += price
		}
	}
	return sum
}

// Receipt is a processed receipt as persisted for a user.
type Receipt struct {
	PurchaseDate time.Time `json:"purchase_date"`
	CreatedAt    time.Time `json:"created_at"`
	StoreName    *string   `json:"store_name,omitempty"`
	GrandTotal   *float64  `json:"grand_total,omitempty"`
	ID           string    `json:"id"`
	RawText      string    `json:"raw_text"`
	UserID       int64     `json:"user_id"`
	Confidence   float64   `json:"confidence"`
}
