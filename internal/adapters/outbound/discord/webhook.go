// Package discord posts composed messages to webhook destinations.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ErrGone signals the destination rejected the webhook as nonexistent and
// should be dropped from the registry.
var ErrGone = errors.New("webhook gone")

// Webhook is the delivery payload shape.
type Webhook struct {
	Content   string `json:"content"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type Sender struct {
	client    *http.Client
	limiter   *rate.Limiter
	avatarURL string
}

// NewSender builds a rate-limited webhook sender. avatarURL may be empty.
func NewSender(avatarURL string, perSecond float64, burst int) *Sender {
	return &Sender{
		client:    &http.Client{Timeout: 15 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(perSecond), burst),
		avatarURL: avatarURL,
	}
}

// Send posts content to one destination. A 404 means the destination no
// longer exists and maps to ErrGone; any other non-2xx status is an error.
func (s *Sender) Send(ctx context.Context, url, content string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(Webhook{Content: content, AvatarURL: s.avatarURL})
	if err != nil {
		return fmt.Errorf("marshal webhook: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrGone
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	default:
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
}
