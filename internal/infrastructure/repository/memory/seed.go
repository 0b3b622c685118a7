package memory

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/domain/assist"
	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
	"github.com/riskibarqy/hockey-analytics/internal/domain/stat"
)

// SeedTeam is a demo club: a forward line, a defence pairing and a goalie.
type SeedTeam struct {
	Code     string
	Forwards []string
	Defence  []string
	Goalie   string
}

func (t SeedTeam) skaters() shot.Roster {
	return append(slices.Clone(t.Forwards), t.Defence...)
}

func SeedTeams() []SeedTeam {
	return []SeedTeam{
		{
			Code:     "TOR",
			Forwards: []string{"Auston Matthews", "Mitch Marner", "William Nylander"},
			Defence:  []string{"Morgan Rielly", "Jake McCabe"},
			Goalie:   "Joseph Woll",
		},
		{
			Code:     "MTL",
			Forwards: []string{"Nick Suzuki", "Cole Caufield", "Juraj Slafkovsky"},
			Defence:  []string{"Mike Matheson", "Kaiden Guhle"},
			Goalie:   "Sam Montembeault",
		},
		{
			Code:     "BOS",
			Forwards: []string{"David Pastrnak", "Brad Marchand", "Charlie Coyle"},
			Defence:  []string{"Charlie McAvoy", "Hampus Lindholm"},
			Goalie:   "Jeremy Swayman",
		},
	}
}

// SeedData is a deterministic demo league used when no database is configured.
type SeedData struct {
	Events  []shot.Event
	Logs    []gamelog.Log
	Credits []assist.Credit
}

const (
	seedShotsPerGame  = 36
	seedGamesPerPair  = 2
	seedIcetimeAll    = 1140.0
	seedIcetimeEven   = 900.0
	seedIcetimePower  = 130.0
	seedIcetimeShort  = 110.0
	seedTeamIcetime   = 3600.0
	seedFirstGameDate = "2022-10-12"
)

// Seed builds two regular seasons and one playoff round between the demo
// clubs. The same seeds always produce the same league.
func Seed(seasons ...int) SeedData {
	if len(seasons) == 0 {
		seasons = []int{2022, 2023}
	}
	rng := rand.New(rand.NewPCG(20, 24))
	teams := SeedTeams()

	var data SeedData
	var gameID, shotID int64
	for _, season := range seasons {
		date := seasonOpener(season)
		for round := 0; round < seedGamesPerPair; round++ {
			for i := range teams {
				for j := i + 1; j < len(teams); j++ {
					home, away := teams[i], teams[j]
					if round%2 == 1 {
						home, away = away, home
					}
					gameID++
					g := seedGame{
						id:      int64(season)*100000 + gameID,
						season:  season,
						date:    date,
						playoff: false,
						home:    home,
						away:    away,
					}
					g.play(rng, &shotID)
					g.appendTo(&data)
					date = date.AddDate(0, 0, 2)
				}
			}
		}

		// one playoff game per season between the first two clubs
		gameID++
		g := seedGame{
			id:      int64(season)*100000 + 30000 + gameID,
			season:  season,
			date:    date.AddDate(0, 3, 0),
			playoff: true,
			home:    teams[0],
			away:    teams[1],
		}
		g.play(rng, &shotID)
		g.appendTo(&data)
	}
	return data
}

func seasonOpener(season int) time.Time {
	first, _ := time.Parse(time.DateOnly, seedFirstGameDate)
	return first.AddDate(season-first.Year(), 0, 0)
}

type seedGame struct {
	id      int64
	season  int
	date    time.Time
	playoff bool
	home    SeedTeam
	away    SeedTeam
	events  []shot.Event
	credits []assist.Credit
}

func (g *seedGame) play(rng *rand.Rand, shotID *int64) {
	homeGoals, awayGoals := 0, 0
	for n := 0; n < seedShotsPerGame; n++ {
		*shotID++
		shooting, defending := g.home, g.away
		if rng.IntN(2) == 1 {
			shooting, defending = g.away, g.home
		}

		ownSkaters, oppSkaters := 5, 5
		switch roll := rng.IntN(20); {
		case roll < 2:
			ownSkaters, oppSkaters = 5, 4
		case roll < 3:
			ownSkaters, oppSkaters = 4, 5
		case roll < 4:
			ownSkaters, oppSkaters = 4, 4
		}

		ev := g.shot(rng, *shotID, shooting, defending, ownSkaters, oppSkaters)
		ev.Period = 1 + n*3/seedShotsPerGame
		ev.TimeSeconds = (n * 3600 / seedShotsPerGame) % 1200

		// a late empty net attempt and a shot from behind the goal line stay in
		// the store but never reach an aggregate
		if n == seedShotsPerGame-1 {
			ev.ShotOnEmptyNet = true
			ev.GoalieName = ""
		}
		if n == seedShotsPerGame/2 {
			ev.XCordAdjusted = 92
			ev.XCord = 92
		}

		if ev.IsGoal() {
			if ev.TeamCode == g.home.Code {
				homeGoals++
			} else {
				awayGoals++
			}
			g.credit(rng, ev)
		}
		g.events = append(g.events, ev)
	}

	if homeGoals == awayGoals {
		// settle ties with an overtime winner
		*shotID++
		shooting, defending := g.home, g.away
		if rng.IntN(2) == 1 {
			shooting, defending = g.away, g.home
		}
		ev := g.shot(rng, *shotID, shooting, defending, 3, 3)
		ev.Period = stat.OvertimePeriod
		ev.TimeSeconds = 90
		ev.Event = shot.OutcomeGoal
		if shooting.Code == g.home.Code {
			homeGoals++
		} else {
			awayGoals++
		}
		g.credit(rng, ev)
		g.events = append(g.events, ev)
	}

	for i := range g.events {
		g.events[i].HomeTeamWon = homeGoals > awayGoals
	}
}

func (g *seedGame) shot(rng *rand.Rand, id int64, shooting, defending SeedTeam, ownSkaters, oppSkaters int) shot.Event {
	shootingRoster := shooting.skaters()[:ownSkaters]
	opposingRoster := defending.skaters()[:oppSkaters]
	shooter := shootingRoster[rng.IntN(len(shootingRoster))]

	xg := 0.02 + rng.Float64()*0.25
	outcome := shot.OutcomeMiss
	switch r := rng.Float64(); {
	case r < xg:
		outcome = shot.OutcomeGoal
	case r < 0.65:
		outcome = shot.OutcomeShot
	}

	homeSkaters, awaySkaters := ownSkaters, oppSkaters
	if shooting.Code == g.away.Code {
		homeSkaters, awaySkaters = oppSkaters, ownSkaters
	}
	x := 30 + rng.Float64()*55
	y := -30 + rng.Float64()*60
	return shot.Event{
		ShotID:          id,
		GameID:          g.id % 100000,
		NHLGameID:       g.id,
		Season:          g.season,
		IsPlayoffGame:   g.playoff,
		TeamCode:        shooting.Code,
		HomeTeamCode:    g.home.Code,
		AwayTeamCode:    g.away.Code,
		HomeSkaters:     homeSkaters,
		AwaySkaters:     awaySkaters,
		Event:           outcome,
		XCord:           x,
		YCord:           y,
		XCordAdjusted:   x,
		YCordAdjusted:   y,
		ShooterPlayerID: int64(len(shooter)) * 1000,
		ShooterName:     shooter,
		GoalieName:      defending.Goalie,
		XGoal:           xg,
		ShootingRoster:  slices.Clone(shootingRoster),
		OpposingRoster:  slices.Clone(opposingRoster),
		GameDate:        g.date,
	}
}

func (g *seedGame) credit(rng *rand.Rand, ev shot.Event) {
	mates := make([]string, 0, len(ev.ShootingRoster))
	for _, name := range ev.ShootingRoster {
		if name != ev.ShooterName {
			mates = append(mates, name)
		}
	}
	rng.Shuffle(len(mates), func(i, j int) { mates[i], mates[j] = mates[j], mates[i] })

	roles := []assist.Role{assist.RolePrimary, assist.RoleSecondary}
	count := 1 + rng.IntN(2)
	for i := 0; i < count && i < len(mates); i++ {
		g.credits = append(g.credits, assist.Credit{
			NHLGameID:     g.id,
			ShotID:        ev.ShotID,
			PlayerName:    mates[i],
			Role:          roles[i],
			Season:        g.season,
			IsPlayoffGame: g.playoff,
			GameDate:      g.date,
		})
	}
}

func (g *seedGame) appendTo(data *SeedData) {
	data.Events = append(data.Events, g.events...)
	data.Credits = append(data.Credits, g.credits...)
	for _, team := range []SeedTeam{g.home, g.away} {
		data.Logs = append(data.Logs, g.logs(team)...)
	}
}

var seedSituations = []struct {
	situation situation.Situation
	icetime   float64
}{
	{situation.All, seedIcetimeAll},
	{situation.EvenStrength, seedIcetimeEven},
	{situation.PowerPlay, seedIcetimePower},
	{situation.Shorthanded, seedIcetimeShort},
}

// logs derives per-situation game lines for every entity of team. Even
// strength lines count 5-on-5 play only.
func (g *seedGame) logs(team SeedTeam) []gamelog.Log {
	out := make([]gamelog.Log, 0)
	for _, sit := range seedSituations {
		base := gamelog.Log{
			TeamCode:      team.Code,
			NHLGameID:     g.id,
			Season:        g.season,
			IsPlayoffGame: g.playoff,
			GameDate:      g.date,
			Situation:     sit.situation,
		}

		for _, name := range team.skaters() {
			l := base
			l.EntityKind = entity.KindPlayer
			l.Names = shot.Roster{name}
			l.IcetimeSeconds = sit.icetime
			l.Points = g.points(name, team.Code, sit.situation)
			l.Hits = int(g.id+int64(len(name))) % 4
			l.Takeaways = int(g.id+int64(len(name))) % 2
			l.Giveaways = int(g.id+int64(len(name))) % 3
			l.BlockedShots = int(g.id+int64(len(name))) % 3
			out = append(out, l)
		}

		line := base
		line.EntityKind = entity.KindLine
		line.Names = slices.Clone(shot.Roster(team.Forwards))
		line.IcetimeSeconds = sit.icetime * 0.6
		out = append(out, line)

		pairing := base
		pairing.EntityKind = entity.KindPairing
		pairing.Names = slices.Clone(shot.Roster(team.Defence))
		pairing.IcetimeSeconds = sit.icetime * 0.7
		out = append(out, pairing)

		goalie := base
		goalie.EntityKind = entity.KindGoalie
		goalie.Names = shot.Roster{team.Goalie}
		goalie.IcetimeSeconds = seedTeamIcetime * sit.icetime / seedIcetimeAll
		goalie.ShotsFaced = g.shotsFaced(team, sit.situation)
		out = append(out, goalie)

		club := base
		club.EntityKind = entity.KindTeam
		club.IcetimeSeconds = seedTeamIcetime * sit.icetime / seedIcetimeAll
		out = append(out, club)
	}
	return out
}

func (g *seedGame) points(player, team string, sit situation.Situation) int {
	goals := make(map[int64]shot.Event)
	points := 0
	for _, ev := range g.events {
		if !ev.IsGoal() || ev.TeamCode != team || !situation.Matches(sit, ev, team, situation.Strict5v5) {
			continue
		}
		goals[ev.ShotID] = ev
		if ev.ShooterName == player {
			points++
		}
	}
	for _, c := range g.credits {
		if _, ok := goals[c.ShotID]; ok && c.PlayerName == player {
			points++
		}
	}
	return points
}

func (g *seedGame) shotsFaced(team SeedTeam, sit situation.Situation) int {
	faced := 0
	for _, ev := range g.events {
		if ev.TeamCode == team.Code || !ev.OnGoal() || ev.ShotOnEmptyNet {
			continue
		}
		if situation.Matches(sit, ev, team.Code, situation.Strict5v5) {
			faced++
		}
	}
	return faced
}
