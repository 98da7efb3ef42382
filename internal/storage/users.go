package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Veraticus/smartshop/internal/model"
)

// UpsertUser records a user, refreshing the username and last-active time
// when the user already exists.
func (s *SQLiteStorage) UpsertUser(ctx context.Context, user *model.User) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if err := validateUserID(user.ID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.LastActive = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, created_at, last_active)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = CASE WHEN excluded.username = '' THEN users.username ELSE excluded.username END,
			last_active = excluded.last_active`,
		user.ID, user.Username, user.CreatedAt, user.LastActive,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", user.ID, err)
	}
	return nil
}

// GetUser returns a user by ID.
func (s *SQLiteStorage) GetUser(ctx context.Context, id int64) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var user model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, created_at, last_active FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &user.Username, &user.CreatedAt, &user.LastActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user %d: %w", id, err)
	}
	return &user, nil
}

// ensureUserTx creates a bare user row when none exists, so purchases and
// preferences can be stored for users seen for the first time.
func ensureUserTx(ctx context.Context, tx *sql.Tx, userID int64) error {
	now := time.Now().UTC()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, created_at, last_active) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET last_active = excluded.last_active`,
		userID, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure user %d: %w", userID, err)
	}
	return nil
}
