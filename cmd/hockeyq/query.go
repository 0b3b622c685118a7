package main

import (
	"github.com/riskibarqy/hockey-analytics/internal/app"
	"github.com/riskibarqy/hockey-analytics/internal/report"
	"github.com/riskibarqy/hockey-analytics/internal/usecase"
	"github.com/spf13/cobra"
)

func newQueryCmd(root *rootOptions) *cobra.Command {
	var (
		subject subjectFlags
		win     windowFlags
		scope   scopeFlags
		rank    rankFlags
		stats   []string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Compute statistics for one entity over a window",
		Example: `  hockeyq query --name Matthews --seasons 2022 --stat goals --stat points_per_60 --rank
  hockeyq query --kind team --team TOR --last 10 --stat goals_share --situation even_strength`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := win.window()
			if err != nil {
				return err
			}
			sit, mode, seasonType := scope.values()
			query := usecase.StatQuery{
				Entity:     subject.entity(),
				Window:     w,
				Situation:  sit,
				Mode:       mode,
				SeasonType: seasonType,
				Rank:       rank.request(),
			}

			return root.withServices(cmd, func(svc *app.Services) error {
				results, err := svc.Stats.QueryMany(cmd.Context(), query, statKinds(stats))
				if err != nil {
					return err
				}
				report.PrintResults(cmd.OutOrStdout(), results)
				return nil
			})
		},
	}

	fs := cmd.Flags()
	subject.register(fs)
	win.register(fs)
	scope.register(fs)
	rank.register(fs)
	fs.StringSliceVar(&stats, "stat", nil, "statistic to compute; repeat or comma separate")
	_ = cmd.MarkFlagRequired("stat")
	return cmd
}
