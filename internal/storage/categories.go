package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/smartshop/internal/model"
)

// GetKeywordTable returns every category with its keywords, in category
// position order. Categories without keywords are included with an empty
// list so callers see the whole closed set.
func (s *SQLiteStorage) GetKeywordTable(ctx context.Context) (model.KeywordTable, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT c.name, k.keyword
		FROM categories c
		LEFT JOIN category_keywords k ON k.category = c.name
		ORDER BY c.position, k.position`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query category keywords: %w", err)
	}
	defer rows.Close()

	var table model.KeywordTable
	for rows.Next() {
		var name string
		var keyword sql.NullString
		if err := rows.Scan(&name, &keyword); err != nil {
			return nil, fmt.Errorf("failed to scan category keyword: %w", err)
		}
		if len(table) == 0 || table[len(table)-1].Category != name {
			table = append(table, model.CategoryKeywords{Category: name, Keywords: []string{}})
		}
		if keyword.Valid {
			last := &table[len(table)-1]
			last.Keywords = append(last.Keywords, keyword.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category keywords: %w", err)
	}

	slog.Debug("retrieved keyword table", "categories", len(table))
	return table, nil
}

// SetCategoryKeywords replaces the keyword list of a category. The category
// must belong to the closed set; synonyms such as "fruit" are accepted.
func (s *SQLiteStorage) SetCategoryKeywords(ctx context.Context, categoryName string, keywords []string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(categoryName, "category"); err != nil {
		return err
	}
	canonical, ok := model.CanonicalCategory(categoryName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, categoryName)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return replaceKeywordsTx(tx, canonical, keywords)
	})
}

func replaceKeywordsTx(tx *sql.Tx, categoryName string, keywords []string) error {
	if _, err := tx.Exec(`DELETE FROM category_keywords WHERE category = ?`, categoryName); err != nil {
		return fmt.Errorf("failed to clear keywords for %s: %w", categoryName, err)
	}

	seen := make(map[string]bool, len(keywords))
	position := 0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true

		if _, err := tx.Exec(
			`INSERT INTO category_keywords (category, keyword, position) VALUES (?, ?, ?)`,
			categoryName, kw, position,
		); err != nil {
			return fmt.Errorf("failed to insert keyword %q for %s: %w", kw, categoryName, err)
		}
		position++
	}
	return nil
}
