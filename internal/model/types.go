// Package model defines the league data model and the stream event schema.
// Field names and JSON tags follow the upstream APIs; the stats API encodes
// its numeric columns as JSON strings, hence FloatString/IntString.
package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/splorts/idolbot/internal/pair"
)

// FloatString is a float64 the stats API serves as a quoted string.
type FloatString float64

func (f *FloatString) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse float %q: %w", s, err)
	}
	*f = FloatString(v)
	return nil
}

func (f FloatString) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatFloat(float64(f), 'f', -1, 64))), nil
}

// IntString is an int the stats API serves as a quoted string.
type IntString int

func (i *IntString) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*i = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("parse int %q: %w", s, err)
	}
	*i = IntString(v)
	return nil
}

func (i IntString) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.Itoa(int(i)))), nil
}

// PitchingStats is one pitcher's season-to-date pitching line.
type PitchingStats struct {
	PlayerID string      `json:"player_id"`
	KPer9    FloatString `json:"k_per_9"`
	Games    IntString   `json:"games"`
}

// StrikeoutLeader is one row of the season batting-strikeouts leaderboard.
type StrikeoutLeader struct {
	PlayerID   string    `json:"player_id"`
	Strikeouts IntString `json:"strikeouts"`
}

// AtBatLeader is one row of the season at-bats leaderboard.
type AtBatLeader struct {
	PlayerID string    `json:"player_id"`
	AtBats   IntString `json:"at_bats"`
}

// Player is the attribute bundle attached to a Position.
type Player struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Ruthlessness   float64 `json:"ruthlessness"`
	Patheticism    float64 `json:"patheticism"`
	PitchingRating float64 `json:"pitchingRating"`
	HittingRating  float64 `json:"hittingRating"`
}

// Position is a player's current team affiliation. TeamID is empty for
// free agents.
type Position struct {
	ID     string `json:"id"`
	TeamID string `json:"teamId"`
	Data   Player `json:"data"`
}

// Team is a league team with its four player-ID lists. Lineup order is
// significant for per-batter stat joins.
type Team struct {
	ID       string   `json:"id"`
	FullName string   `json:"fullName"`
	Lineup   []string `json:"lineup"`
	Rotation []string `json:"rotation"`
	Bullpen  []string `json:"bullpen"`
	Bench    []string `json:"bench"`
	PermAttr []string `json:"permAttr"`
}

// Idol is one slot of the league idol board, best first.
type Idol struct {
	PlayerID string `json:"playerId"`
}

// Game is one scheduled or in-progress game. Pitcher IDs may be absent when
// a game has no assigned pitcher yet.
type Game struct {
	ID              string  `json:"id"`
	AwayPitcher     *string `json:"awayPitcher"`
	AwayPitcherName *string `json:"awayPitcherName"`
	HomePitcher     *string `json:"homePitcher"`
	HomePitcherName *string `json:"homePitcherName"`
	AwayTeam        string  `json:"awayTeam"`
	AwayTeamName    string  `json:"awayTeamName"`
	HomeTeam        string  `json:"homeTeam"`
	HomeTeamName    string  `json:"homeTeamName"`
	AwayOdds        float64 `json:"awayOdds"`
	HomeOdds        float64 `json:"homeOdds"`
	Inning          int     `json:"inning"`
	Season          int     `json:"season"`
	Day             int     `json:"day"`
}

// TeamIDs returns the game's team IDs as a pair.
func (g *Game) TeamIDs() pair.Pair[string] {
	return pair.New(g.HomeTeam, g.AwayTeam)
}

// PitcherIDs returns both pitcher IDs, or false if either side has no
// assigned pitcher.
func (g *Game) PitcherIDs() (pair.Pair[string], bool) {
	return pair.Transpose(pair.New(g.HomePitcher, g.AwayPitcher))
}

// GameUpdate is one chronicled game record returned by an update search.
type GameUpdate struct {
	Data Game `json:"data"`
}

// GameUpdates is a page of chronicled game updates.
type GameUpdates struct {
	NextPage string       `json:"nextPage"`
	Data     []GameUpdate `json:"data"`
}
