package dispatch

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splorts/idolbot/internal/adapters/outbound/discord"
	"github.com/splorts/idolbot/internal/model"
	"github.com/splorts/idolbot/internal/store"
)

func strPtr(s string) *string { return &s }

// cycleSource serves a small fixed league so every serious algorithm can
// produce a line.
type cycleSource struct{}

func (cycleSource) Teams(context.Context) ([]model.Team, error) {
	return []model.Team{
		{ID: "t1", FullName: "Home Club", Lineup: []string{"b1"}},
		{ID: "t2", FullName: "Away Club", Lineup: []string{"b2"}},
	}, nil
}

func (cycleSource) Players(context.Context) ([]model.Position, error) {
	return []model.Position{
		{ID: "p1", TeamID: "t1", Data: model.Player{ID: "p1", Name: "Best Homer", Ruthlessness: 0.8, PitchingRating: 0.5, HittingRating: 0.4}},
		{ID: "p2", TeamID: "t2", Data: model.Player{ID: "p2", Name: "Road Warrior", Ruthlessness: 0.3, PitchingRating: 0.6, HittingRating: 0.2}},
	}, nil
}

func (cycleSource) PitchingStats(_ context.Context, ids []string, _ int) ([]model.PitchingStats, error) {
	stats := make([]model.PitchingStats, len(ids))
	for i, id := range ids {
		stats[i] = model.PitchingStats{PlayerID: id, KPer9: 7}
	}
	return stats, nil
}

func (cycleSource) StrikeoutLeaders(context.Context, int) ([]model.StrikeoutLeader, error) {
	return []model.StrikeoutLeader{{PlayerID: "b1", Strikeouts: 20}, {PlayerID: "b2", Strikeouts: 10}}, nil
}

func (cycleSource) AtBatLeaders(context.Context, int) ([]model.AtBatLeader, error) {
	return []model.AtBatLeader{{PlayerID: "b1", AtBats: 100}, {PlayerID: "b2", AtBats: 100}}, nil
}

func (cycleSource) Idols(context.Context) ([]model.Idol, error) {
	return []model.Idol{{PlayerID: "p1"}}, nil
}

func (cycleSource) SpecialGameUpdates(context.Context) ([]model.GameUpdate, error) {
	return nil, nil
}

func cycleEvent() *model.StreamEvent {
	var ev model.StreamEvent
	ev.Value.Games.Sim = model.Simulation{Season: 1, Day: 4, Phase: PhaseRegularSeason}
	ev.Value.Games.TomorrowSchedule = []model.Game{{
		ID:       "g1",
		HomeTeam: "t1", AwayTeam: "t2",
		HomePitcher: strPtr("p1"), AwayPitcher: strPtr("p2"),
	}}
	return &ev
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunCycleDelivers(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var hook discord.Webhook
		require.NoError(t, json.NewDecoder(r.Body).Decode(&hook))
		mu.Lock()
		bodies = append(bodies, hook.Content)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	subs := openTestStore(t)
	require.NoError(t, subs.Add(srv.URL+"/hook", nil))

	d := NewDispatcher(cycleSource{}, subs, discord.NewSender("", 100, 10), 2, false, rand.New(rand.NewSource(1)))
	require.NoError(t, d.RunCycle(context.Background(), cycleEvent()))

	require.Len(t, bodies, 1)
	assert.True(t, strings.HasPrefix(bodies[0], "**Day 6**\n"))
	assert.Contains(t, bodies[0], "Best by SO/9:")
	assert.Contains(t, bodies[0], "||Best by ruthlessness:")
}

func TestRunCycleRespectsAlgorithmFilter(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var hook discord.Webhook
		require.NoError(t, json.NewDecoder(r.Body).Decode(&hook))
		mu.Lock()
		bodies = append(bodies, hook.Content)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	subs := openTestStore(t)
	require.NoError(t, subs.Add(srv.URL+"/hook", []string{"so9"}))

	d := NewDispatcher(cycleSource{}, subs, discord.NewSender("", 100, 10), 2, false, rand.New(rand.NewSource(1)))
	require.NoError(t, d.RunCycle(context.Background(), cycleEvent()))

	require.Len(t, bodies, 1)
	assert.Contains(t, bodies[0], "Best by SO/9:")
	assert.NotContains(t, bodies[0], "ruthlessness")
}

func TestRunCycleDropsGoneWebhooks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	subs := openTestStore(t)
	require.NoError(t, subs.Add(srv.URL+"/hook", nil))

	d := NewDispatcher(cycleSource{}, subs, discord.NewSender("", 100, 10), 2, false, rand.New(rand.NewSource(1)))
	require.NoError(t, d.RunCycle(context.Background(), cycleEvent()))

	n, err := subs.Count()
	require.NoError(t, err)
	assert.Zero(t, n, "a 404 destination must be deregistered")
}

func TestComposeIncludesOneJoke(t *testing.T) {
	d := NewDispatcher(cycleSource{}, nil, nil, 1, false, rand.New(rand.NewSource(1)))

	msg, err := d.compose(context.Background(), cycleEvent())
	require.NoError(t, err)

	jokes := 0
	for _, ln := range msg.Lines {
		if ln.Joke {
			jokes++
		}
	}
	assert.Equal(t, 1, jokes)
}
