package streamfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRejectsBadScheme(t *testing.T) {
	_, err := NewClient("https://example.com/stream", DefaultTuning())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme")

	_, err = NewClient("wss://example.com/stream", DefaultTuning())
	assert.NoError(t, err)
}

func TestCooldownTiers(t *testing.T) {
	c := &Client{tuning: DefaultTuning()}

	assert.Equal(t, 5*time.Second, c.cooldownFor(10*time.Second), "short-lived connection waits longest")
	assert.Equal(t, 2*time.Second, c.cooldownFor(40*time.Second))
	assert.Equal(t, time.Duration(0), c.cooldownFor(60*time.Second), "healthy connection rotates immediately")
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func TestNextEventSkipsKeepAlives(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		conn.WriteMessage(websocket.TextMessage, []byte(`{}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"data": null}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"data": {"value": {"games": {"sim": {"season": 7, "day": 3, "phase": 2}}}}}`))
		// Keep the connection open until the client is done.
		conn.ReadMessage()
	}))
	defer srv.Close()

	c, err := NewClient(wsURL(srv), Tuning{})
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))

	ev, err := c.NextEvent(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, ev.Value.Games.Sim.Season)
	assert.Equal(t, 3, ev.Value.Games.Sim.Day)
}

func TestNextEventReconnectsAfterStreamEnd(t *testing.T) {
	var conns atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		if conns.Add(1) == 1 {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			return
		}
		conn.WriteMessage(websocket.TextMessage, []byte(`{"data": {"value": {"games": {"sim": {"day": 9, "phase": 2}}}}}`))
		conn.ReadMessage()
	}))
	defer srv.Close()

	c, err := NewClient(wsURL(srv), Tuning{})
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))

	ev, err := c.NextEvent(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, ev.Value.Games.Sim.Day)
	assert.GreaterOrEqual(t, conns.Load(), int32(2), "client must have reconnected")
}

func TestNextEventReturnsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		conn.ReadMessage()
	}))
	defer srv.Close()

	c, err := NewClient(wsURL(srv), Tuning{FailureWait: time.Minute})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Connect(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.NextEvent(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
