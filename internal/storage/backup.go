package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Backup errors.
var (
	ErrBackupExists    = errors.New("backup file already exists")
	ErrBackupCorrupted = errors.New("backup integrity check failed")
	ErrInvalidPath     = errors.New("invalid backup path")
)

// BackupInfo describes a completed backup. It is also written next to the
// backup as <path>.meta.json.
type BackupInfo struct {
	CreatedAt     time.Time      `json:"created_at"`
	RowCounts     map[string]int `json:"row_counts"`
	Path          string         `json:"path"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion int            `json:"schema_version"`
}

// Backup writes a consistent copy of the database to destPath, which must
// be an absolute path to a file that does not exist yet.
func (s *SQLiteStorage) Backup(ctx context.Context, destPath string) (*BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateBackupPath(destPath); err != nil {
		return nil, err
	}
	if _, err := os.Stat(destPath); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackupExists, destPath)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		slog.Debug("wal checkpoint skipped", "error", err)
	}

	// #nosec G201 - destPath is validated above
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", destPath)); err != nil {
		return nil, fmt.Errorf("failed to back up database: %w", err)
	}

	if err := verifyIntegrity(destPath); err != nil {
		if rmErr := os.Remove(destPath); rmErr != nil {
			slog.Error("failed to remove corrupt backup", "error", rmErr)
		}
		return nil, err
	}

	stat, err := os.Stat(destPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}
	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}

	info := &BackupInfo{
		Path:          destPath,
		CreatedAt:     time.Now().UTC(),
		FileSize:      stat.Size(),
		SchemaVersion: version,
		RowCounts:     s.collectRowCounts(ctx),
	}
	if err := writeBackupMetadata(destPath+".meta.json", info); err != nil {
		// The backup itself is still usable.
		slog.Warn("failed to write backup metadata", "error", err)
	}

	slog.Info("database backed up", "path", destPath, "bytes", info.FileSize)
	return info, nil
}

func validateBackupPath(path string) error {
	if !filepath.IsAbs(path) || strings.Contains(path, "..") {
		return fmt.Errorf("%w: must be absolute: %q", ErrInvalidPath, path)
	}
	if strings.ContainsAny(path, `'";`) {
		return fmt.Errorf("%w: contains forbidden characters: %q", ErrInvalidPath, path)
	}
	return nil
}

func (s *SQLiteStorage) collectRowCounts(ctx context.Context) map[string]int {
	counts := make(map[string]int)

	// Explicit queries per table; table names never come from input.
	tableQueries := map[string]string{
		"users":             "SELECT COUNT(*) FROM users",
		"receipts":          "SELECT COUNT(*) FROM receipts",
		"purchases":         "SELECT COUNT(*) FROM purchases",
		"category_keywords": "SELECT COUNT(*) FROM category_keywords",
		"user_preferences":  "SELECT COUNT(*) FROM user_preferences",
	}

	for table, query := range tableQueries {
		var count int
		if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			counts[table] = 0
			continue
		}
		counts[table] = count
	}
	return counts
}

func verifyIntegrity(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("%w: %w", ErrBackupCorrupted, err)
	}
	if result != "ok" {
		return fmt.Errorf("%w: %s", ErrBackupCorrupted, result)
	}
	return nil
}

func writeBackupMetadata(path string, info *BackupInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
