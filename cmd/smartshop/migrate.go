package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/smartshop/internal/cli"
	"github.com/Veraticus/smartshop/internal/config"
	"github.com/Veraticus/smartshop/internal/ocr/tesseract"
	"github.com/Veraticus/smartshop/internal/storage"
	"github.com/spf13/cobra"
)

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates on start, so this is mostly useful to check
the schema version with --status.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			status, _ := cmd.Flags().GetBool("status")

			store, err := storage.NewSQLiteStorage(a.settings.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			current, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if status {
				_, _ = fmt.Fprintf(out, "Database: %s\nCurrent version: %d\nLatest version:  %d\n",
					a.settings.DatabasePath, current, storage.ExpectedSchemaVersion)
				return nil
			}

			slog.Info("Running database migrations", "database", a.settings.DatabasePath, "from", current)
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			_, _ = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Database at schema version %d", storage.ExpectedSchemaVersion)))
			return nil
		},
	}

	cmd.Flags().Bool("status", false, "show the schema version without applying changes")

	return cmd
}

func (a *app) backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup [path]",
		Short: "Write a consistent copy of the database",
		Long: `Write a consistent copy of the database and a .meta.json summary next to
it. Without a path the backup goes to the database directory with a
timestamped name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			dest := a.settings.DatabasePath + "." + time.Now().Format("20060102-150405") + ".bak"
			if len(args) == 1 {
				dest = config.ExpandPath(args[0])
			}

			info, err := store.Backup(ctx, dest)
			if err != nil {
				return fmt.Errorf("backup failed: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, cli.FormatSuccess("Backup written to "+info.Path))
			_, _ = fmt.Fprintf(out, "  %d bytes, schema version %d, %d purchase(s)\n",
				info.FileSize, info.SchemaVersion, info.RowCounts["purchases"])
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "smartshop %s (tesseract %s)\n", version, tesseract.Version())
			return err
		},
	}
}
