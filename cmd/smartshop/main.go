// Command smartshop is a shopping assistant that learns from receipts.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/smartshop/internal/cli"
	"github.com/Veraticus/smartshop/internal/common"
	"github.com/Veraticus/smartshop/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app carries state shared by all commands of one invocation.
type app struct {
	v        *viper.Viper
	cfgFile  string
	settings config.Settings
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	root := &cobra.Command{
		Use:   "smartshop",
		Short: cli.CartIcon + " Smart shopping assistant",
		Long: `smartshop reads your grocery receipts, learns what you buy and how often,
and suggests what belongs on your next shopping list.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/smartshop/config.yaml)")
	flags.Int64("user", 1, "user ID to act as")
	flags.String("db", "", "database path (overrides database.path)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")

	_ = a.v.BindPFlag(config.KeyUserID, flags.Lookup("user"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))

	root.AddCommand(a.receiptCmd())
	root.AddCommand(a.addCmd())
	root.AddCommand(a.suggestCmd())
	root.AddCommand(a.statsCmd())
	root.AddCommand(a.similarCmd())
	root.AddCommand(a.nextTripCmd())
	root.AddCommand(a.categoriesCmd())
	root.AddCommand(a.prefsCmd())
	root.AddCommand(a.migrateCmd())
	root.AddCommand(a.backupCmd())
	root.AddCommand(versionCmd())

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		_, _ = fmt.Fprintln(w, cli.FormatError(common.UserMessage(err)))
		slog.Debug("command failed", "error", err)
		return
	}
	_, _ = fmt.Fprintln(w, cli.FormatError(err.Error()))
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		dir, err := config.Dir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		a.v.AddConfigPath(dir)
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	config.BindEnv(a.v)

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if db, _ := cmd.Flags().GetString("db"); db != "" {
		a.v.Set(config.KeyDatabasePath, db)
	}

	settings, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.settings = settings

	if err := setupLogging(settings.LogLevel, settings.LogFormat); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	slog.Debug("configuration loaded",
		"config_file", a.v.ConfigFileUsed(),
		"database", settings.DatabasePath,
		"user_id", settings.UserID)
	return nil
}

func setupLogging(level, format string) error {
	slogLevel, err := common.ParseLevel(level)
	if err != nil {
		return err
	}
	switch format {
	case "console", "text", "json":
	default:
		return fmt.Errorf("%w: invalid log format: %s", common.ErrInvalidConfig, format)
	}
	return common.SetupLogger(slogLevel, format)
}
