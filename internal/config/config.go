// Package config loads runtime settings from the environment and the
// tuning file.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	FeedURL      string
	DatabasePath string
	// SeedWebhookURLs are destinations registered at startup, on top of
	// whatever the database already holds.
	SeedWebhookURLs []string
	TestMode        bool
	LogLevel        string
	TuningPath      string
	AvatarURL       string

	LeagueBase    string
	ChronicleBase string
	StatsBase     string

	OAuthListenAddr   string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthAuthorizeURL string
	OAuthTokenURL     string
	OAuthRedirectURI  string

	DeliveryConcurrency int
	WebhookRatePerSec   float64
	WebhookBurst        int
}

// Load reads .env if present, then the environment.
func Load() *Config {
	godotenv.Load()

	return &Config{
		FeedURL:         envStr("FEED_URL", "wss://api.blaseball.com/events/streamData"),
		DatabasePath:    envStr("DATABASE_PATH", "data/idolbot.db"),
		SeedWebhookURLs: splitList(envStr("WEBHOOK_URL", "")),
		TestMode:        envBool("TEST_MODE", false),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		TuningPath:      envStr("TUNING_PATH", "internal/config/tuning.yaml"),
		AvatarURL:       envStr("AVATAR_URL", ""),

		LeagueBase:    envStr("LEAGUE_API_BASE", "https://www.blaseball.com"),
		ChronicleBase: envStr("CHRONICLE_API_BASE", "https://api.sibr.dev/chronicler"),
		StatsBase:     envStr("STATS_API_BASE", "https://api.blaseball-reference.com"),

		OAuthListenAddr:   envStr("OAUTH_LISTEN_ADDR", ":8080"),
		OAuthClientID:     envStr("OAUTH_CLIENT_ID", ""),
		OAuthClientSecret: envStr("OAUTH_CLIENT_SECRET", ""),
		OAuthAuthorizeURL: envStr("OAUTH_AUTHORIZE_URL", "https://discord.com/api/oauth2/authorize"),
		OAuthTokenURL:     envStr("OAUTH_TOKEN_URL", "https://discord.com/api/oauth2/token"),
		OAuthRedirectURI:  envStr("OAUTH_REDIRECT_URI", ""),

		DeliveryConcurrency: envInt("DELIVERY_CONCURRENCY", 4),
		WebhookRatePerSec:   float64(envInt("WEBHOOK_RATE_PER_SEC", 5)),
		WebhookBurst:        envInt("WEBHOOK_BURST", 5),
	}
}

// OAuthEnabled reports whether the signup listener has enough settings to
// run.
func (c *Config) OAuthEnabled() bool {
	return c.OAuthClientID != "" && c.OAuthClientSecret != "" && c.OAuthRedirectURI != ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
