package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/splorts/idolbot/internal/adapters/outbound/discord"
	"github.com/splorts/idolbot/internal/model"
	"github.com/splorts/idolbot/internal/scoring"
	"github.com/splorts/idolbot/internal/snapshot"
	"github.com/splorts/idolbot/internal/store"
	"github.com/splorts/idolbot/internal/telemetry"
)

const testModePlaceholder = "Error picking idols, ignoring due to test mode"

// Dispatcher runs one scoring cycle end to end: snapshot, scoring, message
// composition, and fan-out delivery.
type Dispatcher struct {
	source      snapshot.Source
	subs        *store.Store
	sender      *discord.Sender
	concurrency int
	testMode    bool
	rng         *rand.Rand
}

func NewDispatcher(source snapshot.Source, subs *store.Store, sender *discord.Sender, concurrency int, testMode bool, rng *rand.Rand) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{
		source:      source,
		subs:        subs,
		sender:      sender,
		concurrency: concurrency,
		testMode:    testMode,
		rng:         rng,
	}
}

// RunCycle composes the message for one event and delivers it. Composition
// is retried once with a fresh snapshot; a second failure fails the cycle
// unless test mode substitutes a placeholder.
func (d *Dispatcher) RunCycle(ctx context.Context, ev *model.StreamEvent) error {
	msg, err := d.compose(ctx, ev)
	if err != nil {
		telemetry.Warnf("dispatch: compose failed, retrying: %v", err)
		msg, err = d.compose(ctx, ev)
	}
	if err != nil {
		if d.testMode {
			telemetry.Warnf("dispatch: compose failed twice: %v", err)
			msg = NewMessage(ev.Value.Games.Sim.Day)
			msg.Append("", testModePlaceholder, false)
		} else {
			telemetry.Metrics.CycleFailures.Inc()
			return fmt.Errorf("compose: %w", err)
		}
	}

	if err := d.deliver(ctx, msg); err != nil {
		telemetry.Metrics.CycleFailures.Inc()
		return err
	}
	telemetry.Metrics.CyclesDispatched.Inc()
	return nil
}

// compose builds a snapshot and renders every serious line plus one joke.
// Individual serious algorithms may fail without failing the compose; only
// a message with no lines at all is an error.
func (d *Dispatcher) compose(ctx context.Context, ev *model.StreamEvent) (*Message, error) {
	snap, err := snapshot.Build(ctx, d.source, ev)
	if err != nil {
		return nil, err
	}

	msg := NewMessage(ev.Value.Games.Sim.Day)
	for _, a := range scoring.Serious() {
		best, err := a.BestPitcher(snap)
		if err != nil {
			telemetry.Warnf("dispatch: %s: %v", a.Name, err)
			continue
		}
		msg.Append(a.ID, a.Format(best), false)
	}

	if joke, ok := d.pickJoke(snap); ok {
		msg.Append(joke.AlgorithmID, joke.Text, true)
	}

	if len(msg.Lines) == 0 {
		return nil, errors.New("no algorithm produced a result")
	}
	return msg, nil
}

// pickJoke tries the joke algorithms in shuffled order and keeps the first
// that succeeds.
func (d *Dispatcher) pickJoke(snap *snapshot.Snapshot) (Line, bool) {
	jokes := scoring.Jokes()
	for _, i := range d.rng.Perm(len(jokes)) {
		a := jokes[i]
		best, err := a.BestPitcher(snap)
		if err != nil {
			telemetry.Warnf("dispatch: %s: %v", a.Name, err)
			continue
		}
		return Line{AlgorithmID: a.ID, Text: a.Format(best), Joke: true}, true
	}
	return Line{}, false
}

// deliver fans the message out to every destination. A 404 drops the
// destination from the registry; other failures are retried once and then
// logged, never failing the cycle for the remaining destinations.
func (d *Dispatcher) deliver(ctx context.Context, msg *Message) error {
	subs, err := d.subs.All()
	if err != nil {
		return fmt.Errorf("list subscribers: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for _, sub := range subs {
		sub := sub
		g.Go(func() error {
			content := msg.Render(sub.Algorithms)
			if content == "" {
				return nil
			}
			d.sendOne(ctx, sub, content)
			return nil
		})
	}
	return g.Wait()
}

func (d *Dispatcher) sendOne(ctx context.Context, sub store.Subscriber, content string) {
	err := d.sender.Send(ctx, sub.URL, content)
	if errors.Is(err, discord.ErrGone) {
		telemetry.Warnf("dispatch: webhook %s gone, dropping", sub.ID)
		if err := d.subs.Remove(sub.URL); err != nil {
			telemetry.Errorf("dispatch: drop webhook %s: %v", sub.ID, err)
		}
		telemetry.Metrics.SubscribersDropped.Inc()
		telemetry.Metrics.Subscribers.Dec()
		return
	}
	if err != nil {
		telemetry.Warnf("dispatch: send to %s failed, retrying: %v", sub.ID, err)
		err = d.sender.Send(ctx, sub.URL, content)
	}
	if err != nil {
		telemetry.Metrics.WebhookErrors.Inc()
		telemetry.Errorf("dispatch: send to %s: %v", sub.ID, err)
		return
	}
	telemetry.Metrics.WebhooksSent.Inc()
}
