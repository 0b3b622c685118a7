package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/hockey-analytics/internal/app"
	"github.com/riskibarqy/hockey-analytics/internal/config"
	"github.com/riskibarqy/hockey-analytics/internal/platform/logging"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

type rootOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "hockeyq",
		Short: "Query the hockey analytics engine",
		Long: `Run statistic queries, career aggregations, team records and player
cards against the configured event store. Without DB_URL the seeded
in-memory league is used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "write logs to stderr")

	root.AddCommand(
		newQueryCmd(opts),
		newCareerCmd(opts),
		newRecordCmd(opts),
		newCardCmd(opts),
		newMilestonesCmd(opts),
	)
	return root
}

// withServices builds the engine from the environment, runs fn and closes
// the event store.
func (o *rootOptions) withServices(cmd *cobra.Command, fn func(*app.Services) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewNop()
	if o.verbose {
		logger = logging.New(logging.Options{
			Level:  logging.LevelDebug,
			Format: logging.FormatConsole,
			Output: cmd.ErrOrStderr(),
		}).With("service", "hockeyq")
	}
	defer func() { _ = logger.Sync() }()

	svc, err := app.NewServices(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("open event store: %w", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("close event store", "error", err)
		}
	}()

	return fn(svc)
}
