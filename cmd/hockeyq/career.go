package main

import (
	"github.com/riskibarqy/hockey-analytics/internal/app"
	"github.com/riskibarqy/hockey-analytics/internal/report"
	"github.com/riskibarqy/hockey-analytics/internal/usecase"
	"github.com/spf13/cobra"
)

func newCareerCmd(root *rootOptions) *cobra.Command {
	var (
		subject subjectFlags
		scope   scopeFlags
		rank    rankFlags
		seasons string
		stats   []string
	)

	cmd := &cobra.Command{
		Use:     "career",
		Short:   "Aggregate statistics season by season with career totals",
		Example: `  hockeyq career --name Matthews --seasons 2022-2023 --stat goals --stat shooting_percentage --rank`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := parseSeasonList(seasons)
			if err != nil {
				return err
			}
			sit, mode, seasonType := scope.values()
			query := usecase.CareerQuery{
				Entity:     subject.entity(),
				Seasons:    list,
				Situation:  sit,
				Mode:       mode,
				SeasonType: seasonType,
				Stats:      statKinds(stats),
				Rank:       rank.request(),
			}

			return root.withServices(cmd, func(svc *app.Services) error {
				summary, err := svc.Careers.Aggregate(cmd.Context(), query)
				if err != nil {
					return err
				}
				report.PrintCareer(cmd.OutOrStdout(), summary)
				return nil
			})
		},
	}

	fs := cmd.Flags()
	subject.register(fs)
	scope.register(fs)
	rank.register(fs)
	fs.StringVar(&seasons, "seasons", "", "seasons to aggregate, e.g. 2019,2021-2023")
	fs.StringSliceVar(&stats, "stat", nil, "statistic to aggregate; repeat or comma separate")
	_ = cmd.MarkFlagRequired("seasons")
	_ = cmd.MarkFlagRequired("stat")
	return cmd
}
