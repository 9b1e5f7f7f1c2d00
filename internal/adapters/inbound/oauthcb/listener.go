// Package oauthcb runs the self-service signup listener: visitors are
// bounced through the chat platform's OAuth flow with the webhook.incoming
// scope, and the webhook URL minted by the token exchange is added to the
// subscriber registry.
package oauthcb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/splorts/idolbot/internal/store"
	"github.com/splorts/idolbot/internal/telemetry"
)

// Config carries the OAuth application settings.
type Config struct {
	ListenAddr   string
	ClientID     string
	ClientSecret string
	AuthorizeURL string
	TokenURL     string
	RedirectURI  string
}

type Listener struct {
	cfg    Config
	subs   *store.Store
	client *http.Client
}

func New(cfg Config, subs *store.Store) *Listener {
	return &Listener{
		cfg:    cfg,
		subs:   subs,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (l *Listener) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", l.handleIndex)
	mux.HandleFunc("/redirect", l.handleRedirect)

	srv := &http.Server{Addr: l.cfg.ListenAddr, Handler: mux}

	errc := make(chan error, 1)
	go func() {
		telemetry.Infof("oauthcb: listening on %s", l.cfg.ListenAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (l *Listener) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := url.Values{}
	q.Set("client_id", l.cfg.ClientID)
	q.Set("redirect_uri", l.cfg.RedirectURI)
	q.Set("response_type", "code")
	q.Set("scope", "webhook.incoming")
	http.Redirect(w, r, l.cfg.AuthorizeURL+"?"+q.Encode(), http.StatusFound)
}

func (l *Listener) handleRedirect(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	hookURL, err := l.exchange(r.Context(), code)
	if err != nil {
		telemetry.Errorf("oauthcb: token exchange: %v", err)
		http.Error(w, "token exchange failed", http.StatusBadGateway)
		return
	}

	if err := l.subs.Add(hookURL, nil); err != nil {
		telemetry.Errorf("oauthcb: register webhook: %v", err)
		http.Error(w, "registration failed", http.StatusInternalServerError)
		return
	}

	telemetry.Metrics.Subscribers.Inc()
	telemetry.Infof("oauthcb: registered new webhook")
	fmt.Fprintln(w, "Added!")
}

// exchange redeems an authorization code for the webhook URL embedded in the
// token response.
func (l *Listener) exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", l.cfg.ClientID)
	form.Set("client_secret", l.cfg.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", l.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token status %d", resp.StatusCode)
	}

	var token struct {
		Webhook struct {
			URL string `json:"url"`
		} `json:"webhook"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode token: %w", err)
	}
	if token.Webhook.URL == "" {
		return "", errors.New("token response missing webhook url")
	}
	return token.Webhook.URL, nil
}
