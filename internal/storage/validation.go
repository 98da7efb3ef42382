// Package storage provides the SQLite persistence layer for smartshop.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/smartshop/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidUser        = errors.New("invalid user")
	ErrInvalidPurchase    = errors.New("invalid purchase")
	ErrInvalidReceipt     = errors.New("invalid receipt")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrInvalidPreferences = errors.New("invalid preferences")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateUserID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidUser, id)
	}
	return nil
}

// validatePurchases validates a slice of purchases.
func validatePurchases(purchases []model.PurchaseRecord) error {
	if purchases == nil {
		return fmt.Errorf("%w: purchases", ErrNilParameter)
	}
	if len(purchases) == 0 {
		return fmt.Errorf("%w: purchases", ErrEmptySlice)
	}

	for i := range purchases {
		if err := validatePurchase(&purchases[i]); err != nil {
			return fmt.Errorf("purchase at index %d: %w", i, err)
		}
	}
	return nil
}

// validatePurchase enforces the stored-record invariants: a name, a known
// category, a positive quantity and no negative price.
func validatePurchase(p *model.PurchaseRecord) error {
	if p == nil {
		return fmt.Errorf("%w: purchase", ErrNilParameter)
	}
	if p.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidPurchase)
	}
	if err := validateUserID(p.UserID); err != nil {
		return err
	}
	if strings.TrimSpace(p.ItemName) == "" {
		return fmt.Errorf("%w: missing item name", ErrInvalidPurchase)
	}
	if _, ok := model.CanonicalCategory(p.Category); !ok {
		return fmt.Errorf("%w: %w %q", ErrInvalidPurchase, ErrUnknownCategory, p.Category)
	}
	if p.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidPurchase)
	}
	if p.Price != nil && *p.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidPurchase)
	}
	if p.PurchaseDate.IsZero() {
		return fmt.Errorf("%w: missing purchase date", ErrInvalidPurchase)
	}
	return nil
}

// validateReceipt validates a receipt header.
func validateReceipt(r *model.Receipt) error {
	if r == nil {
		return fmt.Errorf("%w: receipt", ErrNilParameter)
	}
	if r.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidReceipt)
	}
	if err := validateUserID(r.UserID); err != nil {
		return err
	}
	if r.GrandTotal != nil && *r.GrandTotal < 0 {
		return fmt.Errorf("%w: total cannot be negative", ErrInvalidReceipt)
	}
	if r.Confidence < 0 || r.Confidence > 100 {
		return fmt.Errorf("%w: confidence must be between 0 and 100", ErrInvalidReceipt)
	}
	return nil
}

// validatePreferences validates user preferences.
func validatePreferences(p *model.Preferences) error {
	if p == nil {
		return fmt.Errorf("%w: preferences", ErrNilParameter)
	}
	if err := validateUserID(p.UserID); err != nil {
		return err
	}
	if _, err := model.ParseDiet(string(p.Diet)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPreferences, err)
	}
	return nil
}
