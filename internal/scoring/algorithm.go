package scoring

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/splorts/idolbot/internal/pair"
	"github.com/splorts/idolbot/internal/snapshot"
)

// ErrNoCandidate is returned when a scan produces an empty candidate pool:
// no game had both sides resolvable, or every scoring attempt declined.
var ErrNoCandidate = errors.New("no candidate pitcher")

// ScoredPitcher is a pitcher view with its score under one algorithm.
type ScoredPitcher struct {
	Pitcher PitcherContext
	Score   float64
}

// Strategy selects the single best pitcher from a snapshot.
type Strategy interface {
	BestPitcher(snap *snapshot.Snapshot) (ScoredPitcher, error)
}

// Maximize is the per-pitcher-formula strategy shape: the function scores
// one assembled view or declines (ok=false), and the engine keeps the
// highest score over every side of every game. NaN scores never win, and
// ties keep the first-found candidate.
type Maximize func(*PitcherContext) (float64, bool)

func (m Maximize) BestPitcher(snap *snapshot.Snapshot) (ScoredPitcher, error) {
	var best ScoredPitcher
	found := false
	for i := range snap.Games {
		views, ok := Pitchers(&snap.Games[i], snap)
		if !ok {
			continue
		}
		views.Each(func(_ pair.Side, pc PitcherContext) {
			score, ok := m(&pc)
			if !ok || math.IsNaN(score) {
				return
			}
			if !found || score > best.Score {
				best = ScoredPitcher{Pitcher: pc, Score: score}
				found = true
			}
		})
	}
	if !found {
		return ScoredPitcher{}, ErrNoCandidate
	}
	return best, nil
}

// Custom is the whole-snapshot strategy shape for heuristics too irregular
// for the per-pitcher scan. The function owns its entire selection and
// returns one scored pitcher or a descriptive error.
type Custom func(*snapshot.Snapshot) (ScoredPitcher, error)

func (c Custom) BestPitcher(snap *snapshot.Snapshot) (ScoredPitcher, error) {
	return c(snap)
}

// PrintedStat names an auxiliary statistic appended to a result line.
type PrintedStat int

const (
	StatSO9 PrintedStat = iota
)

func (p PrintedStat) Print(pc *PitcherContext) string {
	switch p {
	case StatSO9:
		if pc.Stats == nil {
			return "SO/9: -"
		}
		return fmt.Sprintf("SO/9: %v", float64(pc.Stats.KPer9))
	}
	return ""
}

// Algorithm is a named, stateless scoring heuristic. Forbidden marks its
// result line for spoiler-wrapping at render time; the content is still
// computed and transmitted either way.
type Algorithm struct {
	ID           string
	Name         string
	Forbidden    bool
	PrintedStats []PrintedStat
	Strategy     Strategy
}

func (a Algorithm) BestPitcher(snap *snapshot.Snapshot) (ScoredPitcher, error) {
	return a.Strategy.BestPitcher(snap)
}

// Format renders one result line:
//
//	<name>: <player> (<score>, <printed stats>, **<team>** vs.|@ <opponent>)
//
// with "vs." for home-side candidates and "@" for away-side ones. Forbidden
// algorithms get the whole line wrapped in a reversible spoiler marker.
func (a Algorithm) Format(sp ScoredPitcher) string {
	var stats strings.Builder
	for _, st := range a.PrintedStats {
		fmt.Fprintf(&stats, ", %s", st.Print(&sp.Pitcher))
	}

	versus := "vs."
	if sp.Pitcher.Side == pair.Away {
		versus = "@"
	}

	line := fmt.Sprintf("%s: %s (%.3f%s, **%s** %s %s)",
		a.Name, sp.Pitcher.Player.Name, sp.Score, stats.String(),
		sp.Pitcher.Team.FullName, versus, sp.Pitcher.Opponent.FullName)
	if a.Forbidden {
		return "||" + line + "||"
	}
	return line
}

// WriteBest runs the algorithm over a snapshot and appends its formatted
// line to b.
func (a Algorithm) WriteBest(snap *snapshot.Snapshot, b *strings.Builder) error {
	best, err := a.BestPitcher(snap)
	if err != nil {
		return err
	}
	b.WriteString(a.Format(best))
	b.WriteByte('\n')
	return nil
}
