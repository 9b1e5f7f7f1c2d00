// feedmock serves a fake push feed for local development: a websocket
// endpoint that emits stream events with an advancing day counter,
// interleaved with keep-alive frames.
package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/splorts/idolbot/internal/model"
	"github.com/splorts/idolbot/internal/telemetry"
)

var (
	addr     = flag.String("addr", ":9100", "listen address")
	interval = flag.Duration("interval", 5*time.Second, "time between events")
	season   = flag.Int("season", 11, "season number")
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

func main() {
	flag.Parse()
	telemetry.Init(telemetry.ParseLogLevel("info"))

	http.HandleFunc("/events/streamData", serve)
	telemetry.Infof("feedmock: listening on %s", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		telemetry.Errorf("feedmock: %v", err)
	}
}

func serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		telemetry.Errorf("feedmock: upgrade: %v", err)
		return
	}
	defer conn.Close()
	telemetry.Infof("feedmock: client connected from %s", r.RemoteAddr)

	day := 0
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for range ticker.C {
		// Keep-alives between events, like the real feed.
		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{}`)); err != nil {
			telemetry.Infof("feedmock: client gone: %v", err)
			return
		}

		frame := map[string]any{"data": event(*season, day)}
		payload, err := json.Marshal(frame)
		if err != nil {
			telemetry.Errorf("feedmock: marshal: %v", err)
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			telemetry.Infof("feedmock: client gone: %v", err)
			return
		}
		telemetry.Infof("feedmock: sent day %d", day)
		day++
	}
}

func event(season, day int) model.StreamEvent {
	homePitcher := uuid.NewString()
	awayPitcher := uuid.NewString()
	game := model.Game{
		ID:              uuid.NewString(),
		Season:          season,
		Day:             day + 1,
		HomeTeam:        uuid.NewString(),
		AwayTeam:        uuid.NewString(),
		HomeTeamName:    "Mock Crabs",
		AwayTeamName:    "Mock Fridays",
		HomePitcher:     &homePitcher,
		AwayPitcher:     &awayPitcher,
		HomePitcherName: strPtr("Home Mockson"),
		AwayPitcherName: strPtr("Away Mockleby"),
	}

	var ev model.StreamEvent
	ev.Value.Games.Sim = model.Simulation{Season: season, Day: day, Phase: 2}
	ev.Value.Games.TomorrowSchedule = []model.Game{game}
	return ev
}

func strPtr(s string) *string { return &s }
