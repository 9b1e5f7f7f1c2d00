package snapshot

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/splorts/idolbot/internal/model"
	"github.com/splorts/idolbot/internal/telemetry"
)

// Source fetches the independently-hosted datasets a Snapshot is built from.
type Source interface {
	Teams(ctx context.Context) ([]model.Team, error)
	Players(ctx context.Context) ([]model.Position, error)
	PitchingStats(ctx context.Context, playerIDs []string, season int) ([]model.PitchingStats, error)
	StrikeoutLeaders(ctx context.Context, season int) ([]model.StrikeoutLeader, error)
	AtBatLeaders(ctx context.Context, season int) ([]model.AtBatLeader, error)
	Idols(ctx context.Context) ([]model.Idol, error)
	SpecialGameUpdates(ctx context.Context) ([]model.GameUpdate, error)
}

// Build assembles a Snapshot for the games a stream event announces:
// tomorrow's schedule when it has games, today's otherwise.
func Build(ctx context.Context, src Source, ev *model.StreamEvent) (*Snapshot, error) {
	games := ev.Value.Games.TomorrowSchedule
	if len(games) == 0 {
		telemetry.Warnf("snapshot: no games scheduled, falling back to current games")
		games = ev.Value.Games.Schedule
	}
	return FromGames(ctx, src, games, ev.Value.Games.Sim.Season)
}

// FromGames fetches every dataset and assembles the aggregate. Leaderboard
// and pitching-stat fetches degrade to empty collections on failure; the
// roster, idol, and special-event fetches are required.
func FromGames(ctx context.Context, src Source, games []model.Game, season int) (*Snapshot, error) {
	snap := &Snapshot{Season: season, Games: games}

	var pitcherIDs []string
	for i := range games {
		if ids, ok := games[i].PitcherIDs(); ok {
			pitcherIDs = append(pitcherIDs, ids.Slice()...)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		leaders, err := src.StrikeoutLeaders(ctx, season)
		if err != nil {
			telemetry.Warnf("snapshot: strikeout leaders unavailable: %v", err)
			return nil
		}
		snap.Strikeouts = leaders
		return nil
	})
	g.Go(func() error {
		leaders, err := src.AtBatLeaders(ctx, season)
		if err != nil {
			telemetry.Warnf("snapshot: at-bat leaders unavailable: %v", err)
			return nil
		}
		snap.AtBats = leaders
		return nil
	})
	g.Go(func() error {
		stats, err := src.PitchingStats(ctx, pitcherIDs, season)
		if err != nil {
			telemetry.Warnf("snapshot: pitching stats unavailable: %v", err)
			return nil
		}
		snap.PitcherStats = stats
		return nil
	})
	g.Go(func() error {
		teams, err := src.Teams(ctx)
		if err != nil {
			return fmt.Errorf("fetch teams: %w", err)
		}
		snap.Teams = teams
		return nil
	})
	g.Go(func() error {
		players, err := src.Players(ctx)
		if err != nil {
			return fmt.Errorf("fetch players: %w", err)
		}
		snap.Players = players
		return nil
	})
	g.Go(func() error {
		idols, err := src.Idols(ctx)
		if err != nil {
			return fmt.Errorf("fetch idols: %w", err)
		}
		snap.Idols = idols
		return nil
	})
	g.Go(func() error {
		updates, err := src.SpecialGameUpdates(ctx)
		if err != nil {
			return fmt.Errorf("fetch special game updates: %w", err)
		}
		snap.SpecialEvents = updates
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}
