package main

import (
	"strings"

	"github.com/riskibarqy/hockey-analytics/internal/app"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/report"
	"github.com/riskibarqy/hockey-analytics/internal/usecase"
	"github.com/spf13/cobra"
)

func newMilestonesCmd(root *rootOptions) *cobra.Command {
	var (
		win        windowFlags
		seasonType string
		minGoals   int
	)

	cmd := &cobra.Command{
		Use:     "milestones <player>",
		Short:   "List games in which a player scored at least N goals",
		Example: `  hockeyq milestones Matthews --seasons 2022-2023 --min-goals 3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := win.window()
			if err != nil {
				return err
			}
			query := usecase.MilestoneQuery{
				Player:     strings.TrimSpace(args[0]),
				Window:     w,
				SeasonType: shot.SeasonType(strings.TrimSpace(seasonType)),
				MinGoals:   minGoals,
			}

			return root.withServices(cmd, func(svc *app.Services) error {
				items, err := svc.Stats.Milestones(cmd.Context(), query)
				if err != nil {
					return err
				}
				report.PrintMilestones(cmd.OutOrStdout(), items)
				return nil
			})
		},
	}

	fs := cmd.Flags()
	win.register(fs)
	fs.StringVar(&seasonType, "season-type", string(shot.SeasonTypeRegular), "regular, playoffs or all")
	fs.IntVar(&minGoals, "min-goals", 3, "minimum goals in a game")
	return cmd
}
