package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/WilsonLimSet/fantasy-basketball-assistant/internal/retry"
)

const (
	// DefaultBaseURL is the read endpoint for fantasy basketball (game key "fba")
	DefaultBaseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/fba"
)

// Client handles ESPN Fantasy API requests. Private leagues require the
// SWID and espn_s2 cookies from a logged-in browser session.
type Client struct {
	BaseURL    string
	httpClient *http.Client
	retry      *retry.Policy
	swid       string
	espnS2     string
	userAgent  string
}

// New creates a new ESPN Fantasy API client
func New(swid, espnS2 string) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		retry:     retry.NewPolicy(3, 2*time.Second),
		swid:      swid,
		espnS2:    espnS2,
		userAgent: "Mozilla/5.0 (compatible; FantasyAssistantBot/1.0)",
	}
}

// FetchLeague fetches league state including teams, rosters, and settings
func (c *Client) FetchLeague(ctx context.Context, seasonID, leagueID int) (*LeagueResponse, error) {
	url := fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%d?view=mTeam&view=mRoster&view=mSettings",
		c.BaseURL, seasonID, leagueID)

	var league LeagueResponse
	if err := c.fetch(ctx, url, "", &league); err != nil {
		return nil, fmt.Errorf("fetching league %d: %w", leagueID, err)
	}

	return &league, nil
}

// FetchPlayers fetches the player pool including free agents, sorted by
// ownership change so trending players come first
func (c *Client) FetchPlayers(ctx context.Context, seasonID, leagueID, limit int) (*PlayersResponse, error) {
	url := fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%d?view=kona_player_info",
		c.BaseURL, seasonID, leagueID)

	filter := playerPoolFilter(limit)

	var players PlayersResponse
	if err := c.fetch(ctx, url, filter, &players); err != nil {
		return nil, fmt.Errorf("fetching player pool: %w", err)
	}

	return &players, nil
}

// FetchScoreboard fetches matchup scores for the current matchup period
func (c *Client) FetchScoreboard(ctx context.Context, seasonID, leagueID int) (*ScoreboardResponse, error) {
	url := fmt.Sprintf("%s/seasons/%d/segments/0/leagues/%d?view=mMatchupScore",
		c.BaseURL, seasonID, leagueID)

	var scoreboard ScoreboardResponse
	if err := c.fetch(ctx, url, "", &scoreboard); err != nil {
		return nil, fmt.Errorf("fetching scoreboard: %w", err)
	}

	return &scoreboard, nil
}

// playerPoolFilter builds the X-Fantasy-Filter header value the player pool
// endpoint requires. Without it ESPN returns a 50-player default page.
func playerPoolFilter(limit int) string {
	return fmt.Sprintf(`{"players":{"filterStatus":{"value":["FREEAGENT","WAIVERS","ONTEAM"]},"limit":%d,"sortPercChanged":{"sortPriority":1,"sortAsc":false}}}`, limit)
}

// fetch makes an HTTP GET request with retries and decodes the JSON response
func (c *Client) fetch(ctx context.Context, url, fantasyFilter string, out interface{}) error {
	return c.retry.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		if fantasyFilter != "" {
			req.Header.Set("X-Fantasy-Filter", fantasyFilter)
		}

		if c.swid != "" && c.espnS2 != "" {
			req.AddCookie(&http.Cookie{Name: "SWID", Value: c.swid})
			req.AddCookie(&http.Cookie{Name: "espn_s2", Value: c.espnS2})
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("making request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("ESPN API error: status=%d, body=%s", resp.StatusCode, string(body))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}

		return nil
	})
}
