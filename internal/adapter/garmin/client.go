// Package garmin adapts the Garmin Connect wellness API into raw import
// candidates.
package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// Client provides the minimal Garmin Connect interactions the adapter needs.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client authenticating with the user's access token.
func NewClient(baseURL, accessToken string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = 15 * time.Second

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// StepSample is one intraday step bucket. A day typically has 96 buckets;
// the normalizer sums them per date.
type StepSample struct {
	Steps int `json:"steps"`
}

// DailySteps fetches intraday step samples for one calendar day.
func (c *Client) DailySteps(ctx context.Context, day time.Time) ([]StepSample, error) {
	endpoint := fmt.Sprintf("%s/wellness-service/wellness/dailySummaryChart?date=%s",
		c.baseURL, day.Format("2006-01-02"))

	var samples []StepSample
	if err := c.getJSON(ctx, endpoint, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

// ActivitySession is one recorded session from the activity list endpoint.
type ActivitySession struct {
	ActivityType struct {
		TypeKey string `json:"typeKey"`
	} `json:"activityType"`
	StartTimeLocal string  `json:"startTimeLocal"`
	Duration       float64 `json:"duration"` // seconds
	Calories       float64 `json:"calories"`
}

// Activities fetches every session recorded in the range, inclusive.
func (c *Client) Activities(ctx context.Context, from, to time.Time) ([]ActivitySession, error) {
	params := url.Values{}
	params.Set("startDate", from.Format("2006-01-02"))
	params.Set("endDate", to.Format("2006-01-02"))
	endpoint := fmt.Sprintf("%s/activitylist-service/activities/search/activities?%s",
		c.baseURL, params.Encode())

	var sessions []ActivitySession
	if err := c.getJSON(ctx, endpoint, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("garmin api status %d: %s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
