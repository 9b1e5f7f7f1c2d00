package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splorts/idolbot/internal/model"
)

type fakeSource struct {
	teams      []model.Team
	teamsErr   error
	leadersErr error
	statsErr   error
}

func (f *fakeSource) Teams(context.Context) ([]model.Team, error) {
	return f.teams, f.teamsErr
}

func (f *fakeSource) Players(context.Context) ([]model.Position, error) {
	return []model.Position{{ID: "p-1"}}, nil
}

func (f *fakeSource) PitchingStats(_ context.Context, ids []string, _ int) ([]model.PitchingStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	stats := make([]model.PitchingStats, len(ids))
	for i, id := range ids {
		stats[i] = model.PitchingStats{PlayerID: id}
	}
	return stats, nil
}

func (f *fakeSource) StrikeoutLeaders(context.Context, int) ([]model.StrikeoutLeader, error) {
	if f.leadersErr != nil {
		return nil, f.leadersErr
	}
	return []model.StrikeoutLeader{{PlayerID: "b-1"}}, nil
}

func (f *fakeSource) AtBatLeaders(context.Context, int) ([]model.AtBatLeader, error) {
	if f.leadersErr != nil {
		return nil, f.leadersErr
	}
	return []model.AtBatLeader{{PlayerID: "b-1"}}, nil
}

func (f *fakeSource) Idols(context.Context) ([]model.Idol, error) {
	return nil, nil
}

func (f *fakeSource) SpecialGameUpdates(context.Context) ([]model.GameUpdate, error) {
	return nil, nil
}

func event(schedule, tomorrow []model.Game, season int) *model.StreamEvent {
	var ev model.StreamEvent
	ev.Value.Games.Sim.Season = season
	ev.Value.Games.Schedule = schedule
	ev.Value.Games.TomorrowSchedule = tomorrow
	return &ev
}

func TestBuildPrefersTomorrowSchedule(t *testing.T) {
	src := &fakeSource{}
	today := []model.Game{{ID: "today"}}
	tomorrow := []model.Game{{ID: "tomorrow"}}

	snap, err := Build(context.Background(), src, event(today, tomorrow, 3))
	require.NoError(t, err)
	require.Len(t, snap.Games, 1)
	assert.Equal(t, "tomorrow", snap.Games[0].ID)
	assert.Equal(t, 3, snap.Season)
}

func TestBuildFallsBackToSchedule(t *testing.T) {
	src := &fakeSource{}
	today := []model.Game{{ID: "today"}}

	snap, err := Build(context.Background(), src, event(today, nil, 3))
	require.NoError(t, err)
	require.Len(t, snap.Games, 1)
	assert.Equal(t, "today", snap.Games[0].ID)
}

func TestFromGamesDegradesOnStatFailures(t *testing.T) {
	src := &fakeSource{leadersErr: errors.New("down"), statsErr: errors.New("down")}

	snap, err := FromGames(context.Background(), src, nil, 1)
	require.NoError(t, err, "leaderboard and stat outages must not fail the build")
	assert.Empty(t, snap.Strikeouts)
	assert.Empty(t, snap.AtBats)
	assert.Empty(t, snap.PitcherStats)
}

func TestFromGamesRequiresRoster(t *testing.T) {
	src := &fakeSource{teamsErr: errors.New("down")}

	_, err := FromGames(context.Background(), src, nil, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch teams")
}

func TestFromGamesCollectsPitcherIDs(t *testing.T) {
	h, a := "p-h", "p-a"
	games := []model.Game{
		{HomePitcher: &h, AwayPitcher: &a},
		{HomePitcher: &h}, // one side unassigned, skipped entirely
	}

	snap, err := FromGames(context.Background(), &fakeSource{}, games, 1)
	require.NoError(t, err)
	require.Len(t, snap.PitcherStats, 2)
	assert.Equal(t, "p-h", snap.PitcherStats[0].PlayerID)
	assert.Equal(t, "p-a", snap.PitcherStats[1].PlayerID)
}
