package dispatch

import (
	"context"

	"github.com/splorts/idolbot/internal/model"
	"github.com/splorts/idolbot/internal/telemetry"
)

// PhaseRegularSeason is the simulation phase during which games run on the
// normal daily cadence.
const PhaseRegularSeason = 2

// postseasonPhase reports whether games are being scheduled round by round
// instead of day by day.
func postseasonPhase(phase int) bool {
	switch phase {
	case 4, 5, 6, 7:
		return true
	}
	return false
}

// EventSource yields parsed stream events; it blocks between them.
type EventSource interface {
	NextEvent(ctx context.Context) (*model.StreamEvent, error)
}

// CycleRunner runs one scoring cycle for an event.
type CycleRunner interface {
	RunCycle(ctx context.Context, ev *model.StreamEvent) error
}

// Loop decides which events trigger a cycle. During the regular season a
// cycle fires once per day change. During the postseason the day counter is
// unreliable, so a cycle fires when the upcoming schedule first becomes
// non-empty and re-arms once it empties again.
type Loop struct {
	lastDay       int
	awaitingGames bool
}

func NewLoop() *Loop {
	return &Loop{lastDay: -1}
}

// ShouldFire consumes one event and reports whether it starts a cycle,
// updating the loop's trigger state either way.
func (l *Loop) ShouldFire(ev *model.StreamEvent) bool {
	games := &ev.Value.Games

	if postseasonPhase(games.Sim.Phase) {
		if len(games.TomorrowSchedule) == 0 {
			l.awaitingGames = false
			return false
		}
		if l.awaitingGames {
			return false
		}
		l.awaitingGames = true
		return true
	}

	if games.Sim.Phase != PhaseRegularSeason {
		return false
	}
	if games.Sim.Day == l.lastDay {
		return false
	}
	l.lastDay = games.Sim.Day
	return true
}

// Run pumps events until ctx is cancelled. Cycle failures are logged and do
// not stop the loop.
func (l *Loop) Run(ctx context.Context, source EventSource, runner CycleRunner) error {
	for {
		ev, err := source.NextEvent(ctx)
		if err != nil {
			return err
		}
		if !l.ShouldFire(ev) {
			continue
		}

		sim := ev.Value.Games.Sim
		telemetry.Infof("dispatch: cycle for season %d day %d (phase %d)", sim.Season, sim.Day, sim.Phase)
		if err := runner.RunCycle(ctx, ev); err != nil {
			telemetry.Errorf("dispatch: cycle failed: %v", err)
		}
	}
}
