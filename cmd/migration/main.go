package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/riskibarqy/hockey-analytics/internal/app"
	"github.com/riskibarqy/hockey-analytics/internal/config"
	"github.com/riskibarqy/hockey-analytics/internal/platform/logging"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.NewJSON(logging.LevelInfo).With("service", "hockey-analytics-migration")
	if err := newRootCmd(logger).ExecuteContext(ctx); err != nil {
		logger.Error("migration failed", "error", err)
		_ = logger.Sync()
		stop()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func newRootCmd(logger *logging.Logger) *cobra.Command {
	var dir string
	root := &cobra.Command{
		Use:           "migration",
		Short:         "Manage the event store schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dir, "dir", os.Getenv("MIGRATIONS_DIR"), "migrations directory (default ./db/migrations)")

	withMigrator := func(fn func(*app.Migrator) error) func(*cobra.Command, []string) error {
		return func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			resolved, err := app.ResolveMigrationsDir(dir)
			if err != nil {
				return err
			}
			m, err := app.NewMigrator(cfg, resolved, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := m.Close(); err != nil {
					logger.Warn("close migrator", "error", err)
				}
			}()
			return fn(m)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE:  withMigrator((*app.Migrator).Up),
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					parsed, err := strconv.Atoi(strings.TrimSpace(args[0]))
					if err != nil {
						return fmt.Errorf("invalid down steps %q: %w", args[0], err)
					}
					steps = parsed
				}
				return withMigrator(func(m *app.Migrator) error { return m.Down(steps) })(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate up or down to a version",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 0)
				if err != nil {
					return fmt.Errorf("invalid target version %q: %w", args[0], err)
				}
				return withMigrator(func(m *app.Migrator) error { return m.Goto(uint(version)) })(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return withMigrator(func(m *app.Migrator) error { return m.Force(version) })(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(func(m *app.Migrator) error {
					v, err := m.Version()
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					if v.None {
						fmt.Fprintln(out, "version: none")
						return nil
					}
					fmt.Fprintf(out, "version: %d\ndirty: %t\n", v.Version, v.Dirty)
					return nil
				})(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Load the demo league into an empty event store",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				return app.SeedEventStore(cmd.Context(), cfg, logger)
			},
		},
	)
	return root
}
