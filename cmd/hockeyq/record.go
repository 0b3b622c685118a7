package main

import (
	"github.com/riskibarqy/hockey-analytics/internal/app"
	"github.com/riskibarqy/hockey-analytics/internal/report"
	"github.com/riskibarqy/hockey-analytics/internal/usecase"
	"github.com/spf13/cobra"
)

func newRecordCmd(root *rootOptions) *cobra.Command {
	var (
		win    windowFlags
		scope  scopeFlags
		team   string
		scorer string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Show a team's record in games meeting a scoring condition",
		Example: `  hockeyq record --team TOR --seasons 2022
  hockeyq record --team TOR --seasons 2022 --situation power_play --scorer Matthews`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := win.window()
			if err != nil {
				return err
			}
			sit, mode, seasonType := scope.values()
			query := usecase.RecordQuery{
				Team:       team,
				Window:     w,
				SeasonType: seasonType,
				Situation:  sit,
				Mode:       mode,
				Scorer:     scorer,
			}

			return root.withServices(cmd, func(svc *app.Services) error {
				record, err := svc.Stats.Record(cmd.Context(), query)
				if err != nil {
					return err
				}
				report.PrintRecord(cmd.OutOrStdout(), team, record)
				return nil
			})
		},
	}

	fs := cmd.Flags()
	win.register(fs)
	scope.register(fs)
	fs.StringVar(&team, "team", "", "team code")
	fs.StringVar(&scorer, "scorer", "", "only count games where this player scored")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}
