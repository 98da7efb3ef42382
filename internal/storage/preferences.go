package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
)

// GetPreferences returns a user's preferences. Users who never saved any get
// zero-value preferences, not an error.
func (s *SQLiteStorage) GetPreferences(ctx context.Context, userID int64) (*model.Preferences, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	prefs := &model.Preferences{UserID: userID}
	var diet string
	err := s.db.QueryRowContext(ctx,
		`SELECT diet, language FROM user_preferences WHERE user_id = ?`, userID,
	).Scan(&diet, &prefs.Language)
	if err == sql.ErrNoRows {
		return prefs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences for user %d: %w", userID, err)
	}

	prefs.Diet = model.Diet(diet)
	return prefs, nil
}

// SavePreferences stores a user's preferences, replacing earlier ones.
func (s *SQLiteStorage) SavePreferences(ctx context.Context, prefs *model.Preferences) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePreferences(prefs); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureUserTx(ctx, tx, prefs.UserID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO user_preferences (user_id, diet, language, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE SET
				diet = excluded.diet,
				language = excluded.language,
				updated_at = excluded.updated_at`,
			prefs.UserID, string(prefs.Diet), prefs.Language, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to save preferences for user %d: %w", prefs.UserID, err)
		}
		return nil
	})
}
