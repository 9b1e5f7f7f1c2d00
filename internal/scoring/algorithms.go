package scoring

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/splorts/idolbot/internal/model"
	"github.com/splorts/idolbot/internal/pair"
	"github.com/splorts/idolbot/internal/snapshot"
)

// fridaysID is the Fridays' team ID in the league database.
const fridaysID = "979aee4a-6d80-4863-bf1c-ee1a78e06024"

var SO9 = Algorithm{
	ID:   "so9",
	Name: "Best by SO/9",
	Strategy: Maximize(func(x *PitcherContext) (float64, bool) {
		if x.Stats == nil {
			return 0, false
		}
		return float64(x.Stats.KPer9), true
	}),
}

var Ruthlessness = Algorithm{
	ID:           "ruthlessness",
	Name:         "Best by ruthlessness",
	Forbidden:    true,
	PrintedStats: []PrintedStat{StatSO9},
	Strategy: Maximize(func(x *PitcherContext) (float64, bool) {
		return x.Player.Ruthlessness, true
	}),
}

var StatRatio = Algorithm{
	ID:           "stat_ratio",
	Name:         "Best by (SO/9)(SO/AB)",
	PrintedStats: []PrintedStat{StatSO9},
	Strategy: Maximize(func(x *PitcherContext) (float64, bool) {
		if x.Stats == nil {
			return 0, false
		}
		mean, ok := whiffRateMean(x.Snapshot, x.Opponent)
		if !ok {
			return 0, false
		}
		return float64(x.Stats.KPer9) * (0.2 + mean), true
	}),
}

var Bestness = Algorithm{
	ID:   "bestness",
	Name: "Best by Bestness",
	Strategy: Custom(func(snap *snapshot.Snapshot) (ScoredPitcher, error) {
		return bestNamedPlayer(snap, func(p *model.Player) float64 {
			return 4.0 / float64(len(p.Name))
		})
	}),
}

var BestBest = Algorithm{
	ID:   "best_best",
	Name: "Best Best by Stars",
	Strategy: Custom(func(snap *snapshot.Snapshot) (ScoredPitcher, error) {
		return bestNamedPlayer(snap, func(p *model.Player) float64 {
			return math.Floor(p.PitchingRating*10) / 2
		})
	}),
}

var Fridays = Algorithm{
	ID:   "fridays",
	Name: "Against Fridays",
	Strategy: Maximize(func(x *PitcherContext) (float64, bool) {
		if x.Opponent.ID == fridaysID {
			return 1, true
		}
		return 0, true
	}),
}

var WorstStatRatio = Algorithm{
	ID:           "worst_stat_ratio",
	Name:         "Worst by (-SO/9)/(SO/AB)",
	PrintedStats: []PrintedStat{StatSO9},
	Strategy: Maximize(func(x *PitcherContext) (float64, bool) {
		if x.Stats == nil {
			return 0, false
		}
		mean, ok := whiffRateMean(x.Snapshot, x.Opponent)
		if !ok {
			return 0, false
		}
		return -float64(x.Stats.KPer9) / mean, true
	}),
}

var Idolization = Algorithm{
	ID:   "idols",
	Name: "Best by idolization",
	Strategy: Maximize(func(x *PitcherContext) (float64, bool) {
		rank := x.Snapshot.IdolRank(x.Player.ID)
		if rank < 0 {
			rank = 20
		}
		return -float64(rank) - 1, true
	}),
}

var BattingStars = Algorithm{
	ID:   "batting_stars",
	Name: "Best by batting stars",
	Strategy: Maximize(func(x *PitcherContext) (float64, bool) {
		return math.Floor(x.Player.HittingRating*10) / 2, true
	}),
}

var NameLength = Algorithm{
	ID:   "name_length",
	Name: "Best by name length",
	Strategy: Maximize(func(x *PitcherContext) (float64, bool) {
		return float64(len(x.Player.Name)), true
	}),
}

// Serious algorithms are sent every cycle.
func Serious() []Algorithm {
	return []Algorithm{SO9, Ruthlessness, StatRatio}
}

// Jokes fill the single rotating joke slot.
func Jokes() []Algorithm {
	return []Algorithm{Bestness, BestBest, Fridays, WorstStatRatio, Idolization, BattingStars, NameLength}
}

// ByID resolves an algorithm identifier from either set.
func ByID(id string) (Algorithm, bool) {
	for _, a := range append(Serious(), Jokes()...) {
		if a.ID == id {
			return a, true
		}
	}
	return Algorithm{}, false
}

// whiffRateMean averages strikeouts-per-at-bat over a team's lineup. It
// declines unless every lineup slot has both leaderboard entries, so a
// partially-populated leaderboard never skews the mean.
func whiffRateMean(snap *snapshot.Snapshot, team *model.Team) (float64, bool) {
	sos := snap.LineupStrikeouts(team)
	abs := snap.LineupAtBats(team)
	if len(sos) == 0 {
		return 0, false
	}
	var sum float64
	for i := range sos {
		if sos[i] == nil || abs[i] == nil {
			return 0, false
		}
		sum += float64(*sos[i]) / float64(*abs[i])
	}
	return sum / float64(len(sos)), true
}

// theVoid is the sentinel opponent synthesized when the matched player's
// team has no scheduled game. Used only by the Bestness heuristics.
var theVoid = model.Team{ID: "00000000-0000-0000-0000-000000000000", FullName: "The Void"}

// bestNamedPlayer finds the rostered player whose (normalized) name contains
// "Best", scores them with score, and locates their current game, falling
// back to a synthesized home game against a sentinel opponent when their
// team has nothing scheduled.
func bestNamedPlayer(snap *snapshot.Snapshot, score func(*model.Player) float64) (ScoredPitcher, error) {
	var pick *model.Position
	best := math.Inf(-1)
	for i := range snap.Players {
		p := &snap.Players[i]
		if !strings.Contains(norm.NFC.String(p.Data.Name), "Best") {
			continue
		}
		if s := score(&p.Data); s > best {
			pick = p
			best = s
		}
	}
	if pick == nil {
		return ScoredPitcher{}, errors.New("no Best player")
	}

	pc, err := rosterContext(snap, pick)
	if err != nil {
		return ScoredPitcher{}, err
	}
	return ScoredPitcher{Pitcher: pc, Score: best}, nil
}

// rosterContext builds a pitcher view for a player outside the per-game
// scan: from their team's scheduled game when one exists, otherwise against
// the sentinel opponent.
func rosterContext(snap *snapshot.Snapshot, pos *model.Position) (PitcherContext, error) {
	var game *model.Game
	for i := range snap.Games {
		g := &snap.Games[i]
		if g.HomeTeam == pos.TeamID || g.AwayTeam == pos.TeamID {
			game = g
			break
		}
	}

	if game == nil {
		team := snap.Team(pos.TeamID)
		if team == nil {
			team = &model.Team{ID: pos.TeamID, FullName: pos.Data.Name + "'s Team"}
		}
		synth := &model.Game{
			HomeTeam:     team.ID,
			HomeTeamName: team.FullName,
			AwayTeam:     theVoid.ID,
			AwayTeamName: theVoid.FullName,
			Season:       snap.Season,
		}
		return PitcherContext{
			ID:       pos.ID,
			Position: pos,
			Player:   &pos.Data,
			Game:     synth,
			Side:     pair.Home,
			Team:     team,
			Opponent: &theVoid,
			Snapshot: snap,
		}, nil
	}

	teams, ok := snap.TeamsFor(game)
	if !ok {
		return PitcherContext{}, fmt.Errorf("unresolvable teams for game %s", game.ID)
	}
	side := pair.Home
	if teams.Away.ID == pos.TeamID {
		side = pair.Away
	}
	return PitcherContext{
		ID:       pos.ID,
		Position: pos,
		Player:   &pos.Data,
		Game:     game,
		Side:     side,
		Team:     teams.Get(side),
		Opponent: teams.Get(side.Other()),
		Snapshot: snap,
	}, nil
}
