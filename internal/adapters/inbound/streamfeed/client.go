// Package streamfeed maintains the long-lived connection to the league's
// push feed. The client survives disconnects, malformed payloads, and
// silent stream termination by reconnecting in place; callers only ever see
// parsed events or a cancelled context.
package streamfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/splorts/idolbot/internal/model"
	"github.com/splorts/idolbot/internal/telemetry"
)

const readTimeout = 90 * time.Second

// Tuning holds the reconnect cool-downs. Stream-end cool-downs are tiered
// by connection lifetime: a connection that lived less than ShortLived
// waits ShortLivedWait (the longest), one under Healthy waits MediumWait,
// and anything older reconnects immediately.
type Tuning struct {
	DialRetryWait  time.Duration
	FailureWait    time.Duration
	ShortLived     time.Duration
	Healthy        time.Duration
	ShortLivedWait time.Duration
	MediumWait     time.Duration
}

func DefaultTuning() Tuning {
	return Tuning{
		DialRetryWait:  5 * time.Second,
		FailureWait:    5 * time.Second,
		ShortLived:     30 * time.Second,
		Healthy:        45 * time.Second,
		ShortLivedWait: 5 * time.Second,
		MediumWait:     2 * time.Second,
	}
}

type Client struct {
	url      string
	tuning   Tuning
	conn     *websocket.Conn
	openedAt time.Time
}

// NewClient validates the feed URL. A malformed URL is the one fatal,
// startup-time error this package produces.
func NewClient(rawURL string, t Tuning) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("feed url %q: scheme must be ws or wss", rawURL)
	}
	return &Client{url: rawURL, tuning: t}, nil
}

// Connect dials the feed. A transport failure is retried once after a fixed
// cool-down before the error propagates.
func (c *Client) Connect(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		telemetry.Warnf("streamfeed: connect failed: %v — retrying", err)
		if err := sleep(ctx, c.tuning.DialRetryWait); err != nil {
			return err
		}
		conn, err = c.dial(ctx)
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
	}
	c.adopt(conn)
	telemetry.Infof("streamfeed: connected to %s", c.url)
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	// Reset the deadline on server pings so quiet periods don't trigger a
	// timeout.
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})
	return conn, nil
}

func (c *Client) adopt(conn *websocket.Conn) {
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
	c.openedAt = time.Now()
}

// frame is the message envelope; its data field carries the event document.
// A frame with no data is a keep-alive.
type frame struct {
	Data json.RawMessage `json:"data"`
}

// NextEvent blocks until the next parseable event arrives. Read errors,
// malformed frames, unparseable payloads, and stream end all reconnect
// internally and keep waiting; the only error returned is the context's.
func (c *Client) NextEvent(ctx context.Context) (*model.StreamEvent, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if isStreamEnd(err) {
				open := time.Since(c.openedAt)
				wait := c.cooldownFor(open)
				telemetry.Warnf("streamfeed: stream ended after %s — reconnecting in %s", open.Round(time.Second), wait)
				if err := c.reconnect(ctx, wait); err != nil {
					return nil, err
				}
			} else {
				telemetry.Errorf("streamfeed: read: %v", err)
				if err := c.reconnect(ctx, c.tuning.FailureWait); err != nil {
					return nil, err
				}
			}
			continue
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			telemetry.Metrics.ParseErrors.Inc()
			telemetry.Errorf("streamfeed: malformed frame: %v", err)
			if err := c.reconnect(ctx, c.tuning.FailureWait); err != nil {
				return nil, err
			}
			continue
		}
		if len(f.Data) == 0 || string(f.Data) == "null" {
			// keep-alive
			continue
		}

		var ev model.StreamEvent
		if err := json.Unmarshal(f.Data, &ev); err != nil {
			telemetry.Metrics.ParseErrors.Inc()
			telemetry.Errorf("streamfeed: unparseable event, discarding: %v", err)
			if err := c.reconnect(ctx, c.tuning.FailureWait); err != nil {
				return nil, err
			}
			continue
		}

		telemetry.Metrics.EventsReceived.Inc()
		return &ev, nil
	}
}

// reconnect discards the current connection and dials until a new one is
// established, waiting FailureWait between attempts.
func (c *Client) reconnect(ctx context.Context, wait time.Duration) error {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	if err := sleep(ctx, wait); err != nil {
		return err
	}
	for {
		conn, err := c.dial(ctx)
		if err == nil {
			c.adopt(conn)
			telemetry.Metrics.Reconnects.Inc()
			telemetry.Infof("streamfeed: reconnected")
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		telemetry.Warnf("streamfeed: reconnect dial: %v", err)
		if err := sleep(ctx, c.tuning.FailureWait); err != nil {
			return err
		}
	}
}

// cooldownFor tiers the stream-end cool-down by connection lifetime. A
// flapping endpoint (short-lived connection) waits the longest; a
// long-lived connection is treated as healthy rotation and reconnects
// immediately.
func (c *Client) cooldownFor(open time.Duration) time.Duration {
	switch {
	case open < c.tuning.ShortLived:
		return c.tuning.ShortLivedWait
	case open < c.tuning.Healthy:
		return c.tuning.MediumWait
	default:
		return 0
	}
}

func isStreamEnd(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
