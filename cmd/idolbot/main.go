package main

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/splorts/idolbot/internal/adapters/inbound/oauthcb"
	"github.com/splorts/idolbot/internal/adapters/inbound/streamfeed"
	"github.com/splorts/idolbot/internal/adapters/outbound/discord"
	"github.com/splorts/idolbot/internal/adapters/outbound/refdata"
	"github.com/splorts/idolbot/internal/config"
	"github.com/splorts/idolbot/internal/dispatch"
	"github.com/splorts/idolbot/internal/store"
	"github.com/splorts/idolbot/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	if err := run(cfg); err != nil && !errors.Is(err, context.Canceled) {
		telemetry.Errorf("idolbot: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		return err
	}

	subs, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer subs.Close()

	if err := subs.AddURLs(cfg.SeedWebhookURLs); err != nil {
		return err
	}
	if n, err := subs.Count(); err == nil {
		telemetry.Metrics.Subscribers.Set(int64(n))
		telemetry.Infof("idolbot: %d webhook subscriber(s)", n)
	}

	source := refdata.NewClient(cfg.LeagueBase, cfg.ChronicleBase, cfg.StatsBase)
	sender := discord.NewSender(cfg.AvatarURL, cfg.WebhookRatePerSec, cfg.WebhookBurst)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	dispatcher := dispatch.NewDispatcher(source, subs, sender, cfg.DeliveryConcurrency, cfg.TestMode, rng)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OAuthEnabled() {
		listener := oauthcb.New(oauthcb.Config{
			ListenAddr:   cfg.OAuthListenAddr,
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			AuthorizeURL: cfg.OAuthAuthorizeURL,
			TokenURL:     cfg.OAuthTokenURL,
			RedirectURI:  cfg.OAuthRedirectURI,
		}, subs)
		go func() {
			if err := listener.Run(ctx); err != nil {
				telemetry.Errorf("idolbot: signup listener: %v", err)
			}
		}()
	}

	feed, err := streamfeed.NewClient(cfg.FeedURL, streamTuning(tuning.Stream))
	if err != nil {
		return err
	}
	defer feed.Close()

	if err := feed.Connect(ctx); err != nil {
		return err
	}

	defer func() {
		telemetry.Infof("idolbot: %d events, %d reconnects, %d cycles (%d failed), %d webhooks sent (%d errors)",
			telemetry.Metrics.EventsReceived.Value(),
			telemetry.Metrics.Reconnects.Value(),
			telemetry.Metrics.CyclesDispatched.Value(),
			telemetry.Metrics.CycleFailures.Value(),
			telemetry.Metrics.WebhooksSent.Value(),
			telemetry.Metrics.WebhookErrors.Value())
	}()

	if cfg.TestMode {
		telemetry.Infof("idolbot: test mode, running a single cycle")
		ev, err := feed.NextEvent(ctx)
		if err != nil {
			return err
		}
		return dispatcher.RunCycle(ctx, ev)
	}

	return dispatch.NewLoop().Run(ctx, feed, dispatcher)
}

func streamTuning(s config.StreamTuning) streamfeed.Tuning {
	return streamfeed.Tuning{
		DialRetryWait:  s.DialRetryWait(),
		FailureWait:    s.FailureWait(),
		ShortLived:     s.ShortLived(),
		Healthy:        s.Healthy(),
		ShortLivedWait: s.ShortLivedWait(),
		MediumWait:     s.MediumWait(),
	}
}
