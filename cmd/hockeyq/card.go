package main

import (
	"strings"

	"github.com/riskibarqy/hockey-analytics/internal/app"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
	"github.com/riskibarqy/hockey-analytics/internal/report"
	"github.com/riskibarqy/hockey-analytics/internal/usecase"
	"github.com/spf13/cobra"
)

func newCardCmd(root *rootOptions) *cobra.Command {
	var (
		season     int
		seasonType string
		mode       string
	)

	cmd := &cobra.Command{
		Use:     "card <player>",
		Short:   "Show a player's season card with league percentiles",
		Example: `  hockeyq card Matthews --season 2022`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := usecase.CardQuery{
				Player:     strings.TrimSpace(args[0]),
				Season:     season,
				SeasonType: shot.SeasonType(strings.TrimSpace(seasonType)),
				Mode:       situation.StrengthMode(strings.TrimSpace(mode)),
			}

			return root.withServices(cmd, func(svc *app.Services) error {
				card, err := svc.Cards.Card(cmd.Context(), query)
				if err != nil {
					return err
				}
				report.PrintCard(cmd.OutOrStdout(), card)
				return nil
			})
		},
	}

	fs := cmd.Flags()
	fs.IntVar(&season, "season", 0, "season start year, defaults to the current season")
	fs.StringVar(&seasonType, "season-type", string(shot.SeasonTypeRegular), "regular, playoffs or all")
	fs.StringVar(&mode, "mode", "", "even strength mode: strict_5v5 or any_equal")
	return cmd
}
