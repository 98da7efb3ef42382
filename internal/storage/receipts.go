package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
	"github.com/google/uuid"
)

// SaveReceipt stores a receipt and its purchases atomically. Purchases are
// linked to the receipt and take its ID and user.
func (s *SQLiteStorage) SaveReceipt(ctx context.Context, receipt *model.Receipt, purchases []model.PurchaseRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if receipt != nil && receipt.ID == "" {
		receipt.ID = uuid.NewString()
	}
	if err := validateReceipt(receipt); err != nil {
		return err
	}
	if receipt.CreatedAt.IsZero() {
		receipt.CreatedAt = time.Now().UTC()
	}

	prepared := preparePurchases(purchases)
	for i := range prepared {
		prepared[i].ReceiptID = receipt.ID
		prepared[i].UserID = receipt.UserID
	}
	if err := validatePurchases(prepared); err != nil {
		return err
	}

	if err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUserTx(ctx, tx, receipt.UserID); err != nil {
			return err
		}

		var store sql.NullString
		if receipt.StoreName != nil {
			store = sql.NullString{String: *receipt.StoreName, Valid: true}
		}
		var total sql.NullFloat64
		if receipt.GrandTotal != nil {
			total = sql.NullFloat64{Float64: *receipt.GrandTotal, Valid: true}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO receipts (id, user_id, store_name, purchase_date, grand_total, raw_text, confidence, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			receipt.ID, receipt.UserID, store, receipt.PurchaseDate.UTC(), total,
			receipt.RawText, receipt.Confidence, receipt.CreatedAt.UTC(),
		); err != nil {
			return fmt.Errorf("failed to insert receipt %s: %w", receipt.ID, err)
		}

		return s.savePurchasesTx(ctx, tx, prepared)
	}); err != nil {
		return err
	}

	copy(purchases, prepared)
	return nil
}

// GetReceipts returns a user's most recent receipts, newest first.
func (s *SQLiteStorage) GetReceipts(ctx context.Context, userID int64, limit int) ([]model.Receipt, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, store_name, purchase_date, grand_total, raw_text, confidence, created_at
		FROM receipts
		WHERE user_id = ?
		ORDER BY purchase_date DESC, created_at DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query receipts: %w", err)
	}
	defer rows.Close()

	var receipts []model.Receipt
	for rows.Next() {
		var (
			r     model.Receipt
			store sql.NullString
			total sql.NullFloat64
		)
		if err := rows.Scan(&r.ID, &r.UserID, &store, &r.PurchaseDate, &total,
			&r.RawText, &r.Confidence, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		if store.Valid {
			r.StoreName = &store.String
		}
		if total.Valid {
			r.GrandTotal = model.Float(total.Float64)
		}
		receipts = append(receipts, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipts: %w", err)
	}
	return receipts, nil
}
