// Package refdata fetches rosters, stats, leaderboards, and idol standings
// from the league's reference APIs.
package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/splorts/idolbot/internal/model"
)

// Client talks to the three reference hosts: the league database, the
// chronicle archive, and the stats service. Requests are rate limited and
// deduplicated, since several datasets are fetched concurrently per cycle.
type Client struct {
	httpClient    *http.Client
	limiter       *rate.Limiter
	group         singleflight.Group
	leagueBase    string
	chronicleBase string
	statsBase     string
}

func NewClient(leagueBase, chronicleBase, statsBase string) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		limiter:       rate.NewLimiter(rate.Limit(10), 10),
		leagueBase:    strings.TrimRight(leagueBase, "/"),
		chronicleBase: strings.TrimRight(chronicleBase, "/"),
		statsBase:     strings.TrimRight(statsBase, "/"),
	}
}

// get fetches a URL and decodes the JSON body into out. Identical in-flight
// URLs share one request.
func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	body, err, _ := c.group.Do(rawURL, func() (any, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", rawURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("get %s: status %d", rawURL, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

func (c *Client) Teams(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	if err := c.get(ctx, c.leagueBase+"/database/allTeams", &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (c *Client) Players(ctx context.Context) ([]model.Position, error) {
	var resp struct {
		Data []model.Position `json:"data"`
	}
	if err := c.get(ctx, c.chronicleBase+"/v1/players?forbidden=false", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) PitchingStats(ctx context.Context, playerIDs []string, season int) ([]model.PitchingStats, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("category", "pitching")
	q.Set("season", strconv.Itoa(season))
	q.Set("playerIds", strings.Join(playerIDs, ","))

	var stats []model.PitchingStats
	if err := c.get(ctx, c.statsBase+"/v1/playerStats?"+q.Encode(), &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) StrikeoutLeaders(ctx context.Context, season int) ([]model.StrikeoutLeader, error) {
	var leaders []model.StrikeoutLeader
	if err := c.get(ctx, c.seasonLeadersURL("strikeouts", season), &leaders); err != nil {
		return nil, err
	}
	return leaders, nil
}

func (c *Client) AtBatLeaders(ctx context.Context, season int) ([]model.AtBatLeader, error) {
	var leaders []model.AtBatLeader
	if err := c.get(ctx, c.seasonLeadersURL("at_bats", season), &leaders); err != nil {
		return nil, err
	}
	return leaders, nil
}

func (c *Client) seasonLeadersURL(stat string, season int) string {
	q := url.Values{}
	q.Set("category", "batting")
	q.Set("stat", stat)
	q.Set("season", strconv.Itoa(season))
	return c.statsBase + "/v1/seasonLeaders?" + q.Encode()
}

func (c *Client) Idols(ctx context.Context) ([]model.Idol, error) {
	var resp struct {
		Idols []model.Idol `json:"idols"`
	}
	if err := c.get(ctx, c.leagueBase+"/api/getIdols", &resp); err != nil {
		return nil, err
	}
	return resp.Idols, nil
}

// SpecialGameUpdates pulls recent play-by-play entries mentioning weather
// events that change pitcher value.
func (c *Client) SpecialGameUpdates(ctx context.Context) ([]model.GameUpdate, error) {
	q := url.Values{}
	q.Set("search", `"Sun 2" or "Black Hole"`)
	q.Set("count", "1000")
	q.Set("order", "desc")

	var resp model.GameUpdates
	if err := c.get(ctx, c.chronicleBase+"/v1/games/updates?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
