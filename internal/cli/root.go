// Package cli provides the elemsql command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tuannm99/elemsql/internal"
	"github.com/tuannm99/elemsql/internal/session"
	"github.com/tuannm99/elemsql/sqlclient"
)

// Version is set at build time.
var Version = "0.1.0"

// configKey is used to store config in context.
type configKey struct{}

type rootFlags struct {
	cfgFile string
	connect string
	timeout time.Duration
}

// NewRootCmd creates and returns the root command. Without a subcommand it
// starts the interactive shell.
func NewRootCmd() *cobra.Command {
	var rf rootFlags

	rootCmd := &cobra.Command{
		Use:   "elemsql",
		Short: "elemsql - a small in-memory relational engine",
		Long: `elemsql keeps named tables of text values in memory and runs a small
SQL dialect against them: CREATE TABLE, DROP TABLE, INSERT INTO, SELECT with
JOIN and WHERE, UPDATE, DELETE FROM and SHOW TABLES. Databases can be saved
and loaded as .dbexp or .sql files.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := internal.Load(rf.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			})))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, rf.connect, rf.timeout)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rf.cfgFile, "config", "", "config file (YAML)")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.StringP("database", "d", "", "name of the initial database")
	pf.Int("statement-cache", 0, "parsed statement cache size (0 uses config)")
	pf.Bool("color", true, "colorize output")
	pf.StringVar(&rf.connect, "connect", "", "run against a server at this address instead of in-process")
	pf.DurationVar(&rf.timeout, "timeout", 3*time.Second, "dial and request timeout for --connect")

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.Flags().String("history", "", "history file path")

	rootCmd.AddCommand(newExecCommand(&rf))
	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newClientCommand(&rf))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *internal.ElemSQLConfig {
	if c, ok := ctx.Value(configKey{}).(*internal.ElemSQLConfig); ok {
		return c
	}
	cfg, _ := internal.Load("", nil)
	return cfg
}

// newBackend opens an in-process session, or a client when addr is set.
func newBackend(ctx context.Context, cfg *internal.ElemSQLConfig, addr string, timeout time.Duration) (session.Backend, error) {
	if addr == "" {
		return session.New(session.Options{
			DatabaseName:   cfg.Database.Name,
			StatementCache: cfg.Server.StatementCache,
		}), nil
	}

	c, err := sqlclient.DialContext(ctx, addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	c.SetRWTimeout(timeout)
	if cfg.Database.Name != "" {
		if err := c.CreateDatabase(ctx, cfg.Database.Name); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}
