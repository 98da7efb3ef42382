package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
)

// topN is how many categories and items GetUserStats ranks.
const topN = 5

// GetUserStats summarizes a user's whole purchase history.
func (s *SQLiteStorage) GetUserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	stats := &model.UserStats{}
	var first, last sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT LOWER(item_name)), COUNT(DISTINCT category),
			MIN(purchase_date), MAX(purchase_date)
		FROM purchases
		WHERE user_id = ?`, userID,
	).Scan(&stats.TotalPurchases, &stats.UniqueItems, &stats.Categories, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats for user %d: %w", userID, err)
	}
	if stats.TotalPurchases == 0 {
		return stats, nil
	}

	if first.Valid && last.Valid {
		firstAt, err1 := parseStoredTime(first.String)
		lastAt, err2 := parseStoredTime(last.String)
		if err1 == nil && err2 == nil {
			stats.DaysTracked = int(lastAt.Sub(firstAt)/(24*time.Hour)) + 1
		}
	}

	if stats.TopCategories, err = s.topCounts(ctx, `
		SELECT category, COUNT(*) AS n FROM purchases
		WHERE user_id = ?
		GROUP BY category
		ORDER BY n DESC, category
		LIMIT ?`, userID); err != nil {
		return nil, err
	}

	if stats.TopItems, err = s.topCounts(ctx, `
		SELECT MIN(item_name), COUNT(*) AS n FROM purchases
		WHERE user_id = ?
		GROUP BY LOWER(item_name)
		ORDER BY n DESC, LOWER(item_name)
		LIMIT ?`, userID); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *SQLiteStorage) topCounts(ctx context.Context, query string, userID int64) ([]model.NamedCount, error) {
	rows, err := s.db.QueryContext(ctx, query, userID, topN)
	if err != nil {
		return nil, fmt.Errorf("failed to query top counts: %w", err)
	}
	defer rows.Close()

	var counts []model.NamedCount
	for rows.Next() {
		var c model.NamedCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counts: %w", err)
	}
	return counts, nil
}

// parseStoredTime parses the timestamp formats the sqlite3 driver writes.
// Aggregates like MIN() come back as text rather than DATETIME.
func parseStoredTime(s string) (time.Time, error) {
	layouts := []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format %q", s)
}
