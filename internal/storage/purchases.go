package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
	"github.com/google/uuid"
)

// SavePurchases stores purchase records. Records without an ID get a new
// one, and each category is stored in its canonical form.
func (s *SQLiteStorage) SavePurchases(ctx context.Context, purchases []model.PurchaseRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	prepared := preparePurchases(purchases)
	if err := validatePurchases(prepared); err != nil {
		return err
	}

	if err := s.withTx(ctx, func(tx *sql.Tx) error {
		return s.savePurchasesTx(ctx, tx, prepared)
	}); err != nil {
		return err
	}
	copy(purchases, prepared)
	return nil
}

func preparePurchases(purchases []model.PurchaseRecord) []model.PurchaseRecord {
	if purchases == nil {
		return nil
	}
	out := make([]model.PurchaseRecord, len(purchases))
	for i, p := range purchases {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if canonical, ok := model.CanonicalCategory(p.Category); ok {
			p.Category = canonical
		}
		p.ItemName = strings.TrimSpace(p.ItemName)
		out[i] = p
	}
	return out
}

func (s *SQLiteStorage) savePurchasesTx(ctx context.Context, tx *sql.Tx, purchases []model.PurchaseRecord) error {
	users := make(map[int64]bool)
	for _, p := range purchases {
		if users[p.UserID] {
			continue
		}
		users[p.UserID] = true
		if err := ensureUserTx(ctx, tx, p.UserID); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO purchases (
			id, user_id, receipt_id, item_name, category, quantity, unit, price, purchase_date, raw_data
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			slog.Warn("failed to close statement", "error", closeErr)
		}
	}()

	for _, p := range purchases {
		rawData, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal purchase %s: %w", p.ID, err)
		}

		var receiptID sql.NullString
		if p.ReceiptID != "" {
			receiptID = sql.NullString{String: p.ReceiptID, Valid: true}
		}
		var price sql.NullFloat64
		if p.Price != nil {
			price = sql.NullFloat64{Float64: *p.Price, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			p.ID, p.UserID, receiptID, p.ItemName, p.Category, p.Quantity, p.Unit,
			price, p.PurchaseDate.UTC(), string(rawData),
		); err != nil {
			return fmt.Errorf("failed to insert purchase %s: %w", p.ID, err)
		}
	}

	slog.Debug("saved purchases", "count", len(purchases))
	return nil
}

// GetPurchases returns a user's purchases made at or after since, oldest
// first. A zero since returns the whole history.
func (s *SQLiteStorage) GetPurchases(ctx context.Context, userID int64, since time.Time) ([]model.PurchaseRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, receipt_id, item_name, category, quantity, unit, price, purchase_date
		FROM purchases
		WHERE user_id = ?`
	args := []any{userID}
	if !since.IsZero() {
		query += ` AND purchase_date >= ?`
		args = append(args, since.UTC())
	}
	query += ` ORDER BY purchase_date, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []model.PurchaseRecord
	for rows.Next() {
		var (
			p         model.PurchaseRecord
			receiptID sql.NullString
			price     sql.NullFloat64
		)
		if err := rows.Scan(
			&p.ID, &p.UserID, &receiptID, &p.ItemName, &p.Category,
			&p.Quantity, &p.Unit, &price, &p.PurchaseDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		p.ReceiptID = receiptID.String
		if price.Valid {
			p.Price = model.Float(price.Float64)
		}
		purchases = append(purchases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}

	return purchases, nil
}
