// Package snapshot holds one immutable point-in-time aggregate of league
// data and answers the ID joins the scoring engine needs. A Snapshot is
// built once per dispatch cycle and never mutated afterwards, so concurrent
// scoring passes share it freely.
package snapshot

import (
	"github.com/splorts/idolbot/internal/model"
	"github.com/splorts/idolbot/internal/pair"
)

type Snapshot struct {
	Season        int
	Games         []model.Game
	Teams         []model.Team
	Players       []model.Position
	PitcherStats  []model.PitchingStats
	Strikeouts    []model.StrikeoutLeader
	AtBats        []model.AtBatLeader
	Idols         []model.Idol
	SpecialEvents []model.GameUpdate
}

// Team returns the team with the given ID, or nil.
func (s *Snapshot) Team(id string) *model.Team {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return &s.Teams[i]
		}
	}
	return nil
}

// Player returns the position record for the given player ID, or nil.
func (s *Snapshot) Player(id string) *model.Position {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// PitcherStat returns the pitching line for the given player ID, or nil.
func (s *Snapshot) PitcherStat(id string) *model.PitchingStats {
	for i := range s.PitcherStats {
		if s.PitcherStats[i].PlayerID == id {
			return &s.PitcherStats[i]
		}
	}
	return nil
}

// TeamsFor joins a game's two team IDs. The join is strict: if either side
// is unmatched the whole join fails, since scoring one known side against an
// unknown opponent is meaningless.
func (s *Snapshot) TeamsFor(g *model.Game) (pair.Pair[*model.Team], bool) {
	return pair.AndThen(g.TeamIDs(), func(id string) (*model.Team, bool) {
		t := s.Team(id)
		return t, t != nil
	})
}

// PlayersFor joins a game's two pitcher IDs to position records. Strict like
// TeamsFor; a game with an unassigned pitcher on either side fails the join.
func (s *Snapshot) PlayersFor(g *model.Game) (pair.Pair[*model.Position], bool) {
	ids, ok := g.PitcherIDs()
	if !ok {
		return pair.Pair[*model.Position]{}, false
	}
	return pair.AndThen(ids, func(id string) (*model.Position, bool) {
		p := s.Player(id)
		return p, p != nil
	})
}

// StatsFor joins a game's pitcher IDs to pitching lines. Lenient per side:
// a missing stat (early season, unpitched player) leaves that slot nil
// without failing the other side.
func (s *Snapshot) StatsFor(g *model.Game) pair.Pair[*model.PitchingStats] {
	ids, ok := g.PitcherIDs()
	if !ok {
		return pair.Pair[*model.PitchingStats]{}
	}
	return pair.Map(ids, s.PitcherStat)
}

// LineupStrikeouts returns the leaderboard strikeout count per lineup slot,
// nil where the batter has no leaderboard entry. Slot order follows the
// lineup.
func (s *Snapshot) LineupStrikeouts(t *model.Team) []*int {
	out := make([]*int, len(t.Lineup))
	for i, id := range t.Lineup {
		for j := range s.Strikeouts {
			if s.Strikeouts[j].PlayerID == id {
				n := int(s.Strikeouts[j].Strikeouts)
				out[i] = &n
				break
			}
		}
	}
	return out
}

// LineupAtBats returns the leaderboard at-bat count per lineup slot, nil
// where the batter has no leaderboard entry.
func (s *Snapshot) LineupAtBats(t *model.Team) []*int {
	out := make([]*int, len(t.Lineup))
	for i, id := range t.Lineup {
		for j := range s.AtBats {
			if s.AtBats[j].PlayerID == id {
				n := int(s.AtBats[j].AtBats)
				out[i] = &n
				break
			}
		}
	}
	return out
}

// IdolRank returns the player's position on the idol board, or -1.
func (s *Snapshot) IdolRank(playerID string) int {
	for i := range s.Idols {
		if s.Idols[i].PlayerID == playerID {
			return i
		}
	}
	return -1
}
