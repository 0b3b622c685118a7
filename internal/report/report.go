package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/riskibarqy/hockey-analytics/internal/domain/stat"
	"github.com/riskibarqy/hockey-analytics/internal/usecase"
	"github.com/samber/lo"
)

const missing = "-"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintResults writes one row per statistic result.
func PrintResults(w io.Writer, results []stat.Result) {
	table := newTable(w)
	table.Header("ENTITY", "STAT", "VALUE", "EVENTS", "PCTL", "RANK", "GAMES")

	for _, r := range results {
		table.Append(
			r.Entity.Label(),
			string(r.Stat),
			displayValue(r.Status, r.Display),
			strconv.Itoa(r.Events),
			percentileCell(r),
			rankCell(r),
			gamesCell(r.GameIDs),
		)
	}
	table.Render()
}

// PrintCareer writes the per-season lines followed by the career totals.
func PrintCareer(w io.Writer, summary usecase.CareerSummary) {
	stats := lo.Map(summary.Totals, func(t usecase.CareerStat, _ int) stat.Kind { return t.Stat })

	fmt.Fprintf(w, "\n%s  |  seasons: %d", summary.Entity.Label(), len(summary.Lines))
	if len(summary.Skipped) > 0 {
		fmt.Fprintf(w, "  |  skipped: %s", joinInts(summary.Skipped))
	}
	fmt.Fprint(w, "\n\n")

	lines := newTable(w)
	lines.Header(lo.ToAnySlice(append([]string{"SEASON", "TOI"}, upper(stats)...))...)
	for _, line := range summary.Lines {
		byStat := lo.KeyBy(line.Results, func(r stat.Result) stat.Kind { return r.Stat })
		row := []string{strconv.Itoa(line.Season), formatIcetime(line.IcetimeSeconds)}
		for _, kind := range stats {
			r, ok := byStat[kind]
			if !ok {
				row = append(row, missing)
				continue
			}
			row = append(row, displayValue(r.Status, r.Display))
		}
		lines.Append(lo.ToAnySlice(row)...)
	}
	lines.Render()

	if !summary.Career {
		return
	}

	fmt.Fprint(w, "\n--- Career ---\n\n")
	totals := newTable(w)
	totals.Header("STAT", "FAMILY", "VALUE", "SEASONS", "AVG PCTL", "RANKED")
	for _, t := range summary.Totals {
		avg := missing
		if t.RankedSeasons > 0 {
			avg = strconv.FormatFloat(t.AvgPercentile, 'f', 1, 64)
		}
		totals.Append(
			string(t.Stat),
			string(t.Family),
			displayValue(t.Status, t.Display),
			strconv.Itoa(t.Seasons),
			avg,
			strconv.Itoa(t.RankedSeasons),
		)
	}
	totals.Render()
}

// PrintRecord writes a team record as a single row.
func PrintRecord(w io.Writer, team string, record stat.Record) {
	table := newTable(w)
	table.Header("TEAM", "GP", "W", "L", "OTL", "RECORD")
	table.Append(
		strings.ToUpper(team),
		strconv.Itoa(record.Total),
		strconv.Itoa(record.Wins),
		strconv.Itoa(record.RegulationLosses),
		strconv.Itoa(record.OvertimeLosses),
		record.String(),
	)
	table.Render()
}

// PrintMilestones writes one row per qualifying game, oldest first.
func PrintMilestones(w io.Writer, items []stat.Milestone) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No qualifying games.")
		return
	}

	table := newTable(w)
	table.Header("GAME", "DATE", "OPP", "G")
	for _, m := range items {
		table.Append(
			strconv.FormatInt(m.NHLGameID, 10),
			m.GameDate.Format(time.DateOnly),
			m.Opponent,
			strconv.Itoa(m.Goals),
		)
	}
	table.Render()
}

// PrintCard writes each section of a player card as its own table.
func PrintCard(w io.Writer, card usecase.PlayerCard) {
	fmt.Fprintf(w, "\n%s  |  season: %d  |  type: %s\n", card.Player.Label(), card.Season, card.SeasonType)

	sections := []struct {
		title   string
		results []stat.Result
	}{
		{"Scoring", card.Scoring},
		{"Even strength scoring", card.EvenScoring},
		{"Even strength", card.EvenStrength},
		{"Special teams", card.SpecialTeams},
		{"Rates", card.Rates},
	}
	for _, section := range sections {
		if len(section.results) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n\n", section.title)

		table := newTable(w)
		table.Header("STAT", "VALUE", "PCTL", "RANK")
		for _, r := range section.results {
			table.Append(string(r.Stat), displayValue(r.Status, r.Display), percentileCell(r), rankCell(r))
		}
		table.Render()
	}
}

func displayValue(status stat.Status, display string) string {
	if status == stat.StatusNoData || display == "" {
		return missing
	}
	return display
}

func percentileCell(r stat.Result) string {
	if r.RankStatus != stat.RankRanked {
		return missing
	}
	return strconv.FormatFloat(r.Percentile, 'f', 1, 64)
}

func rankCell(r stat.Result) string {
	switch r.RankStatus {
	case stat.RankRanked:
		return fmt.Sprintf("%d/%d", r.Rank, r.CohortSize)
	case stat.RankNotRanked:
		return "n/q"
	default:
		return missing
	}
}

func gamesCell(ids []int64) string {
	if len(ids) == 0 {
		return missing
	}
	return strconv.Itoa(len(ids))
}

// formatIcetime renders seconds as minutes:seconds.
func formatIcetime(seconds float64) string {
	if seconds <= 0 {
		return missing
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func upper(kinds []stat.Kind) []string {
	return lo.Map(kinds, func(k stat.Kind, _ int) string { return strings.ToUpper(string(k)) })
}

func joinInts(values []int) string {
	return strings.Join(lo.Map(values, func(v int, _ int) string { return strconv.Itoa(v) }), ",")
}
