// Package scoring assembles per-game pitcher views from a snapshot and
// ranks them under named, interchangeable heuristics.
package scoring

import (
	"github.com/splorts/idolbot/internal/model"
	"github.com/splorts/idolbot/internal/pair"
	"github.com/splorts/idolbot/internal/snapshot"
)

// PitcherContext is a fully joined scoring-time view of one pitcher: their
// identity, optional pitching line, the game they are in, which side they
// pitch for, and both teams. It lives for one scoring pass and is never
// stored.
type PitcherContext struct {
	ID       string
	Position *model.Position
	Player   *model.Player
	Stats    *model.PitchingStats // nil when no pitching line exists yet
	Game     *model.Game
	Side     pair.Side
	Team     *model.Team
	Opponent *model.Team
	Snapshot *snapshot.Snapshot
}

// Pitchers assembles both sides' views for a game. The team and pitcher
// joins are strict: if either fails the game is skipped entirely (ok=false).
// Stats join leniently afterwards, so a view is produced for both sides even
// when only one has a pitching line.
func Pitchers(g *model.Game, snap *snapshot.Snapshot) (pair.Pair[PitcherContext], bool) {
	positions, ok := snap.PlayersFor(g)
	if !ok {
		return pair.Pair[PitcherContext]{}, false
	}
	teams, ok := snap.TeamsFor(g)
	if !ok {
		return pair.Pair[PitcherContext]{}, false
	}
	stats := snap.StatsFor(g)

	joined := pair.Zip(pair.Zip(positions, stats), teams)
	views := pair.MapSides(joined, func(own, opp pair.Two[pair.Two[*model.Position, *model.PitchingStats], *model.Team], side pair.Side) PitcherContext {
		pos := own.A.A
		return PitcherContext{
			ID:       pos.ID,
			Position: pos,
			Player:   &pos.Data,
			Stats:    own.A.B,
			Game:     g,
			Side:     side,
			Team:     own.B,
			Opponent: opp.B,
			Snapshot: snap,
		}
	})
	return views, true
}
