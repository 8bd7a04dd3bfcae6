package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const BaseURL = "https://apis.garmin.com/wellness-api/rest"

const dateLayout = "2006-01-02"

// Client is a wellness API client
type Client struct {
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a new wellness API client
func NewClient(tokenSource oauth2.TokenSource) *Client {
	return &Client{
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		rateLimiter: NewRateLimiter(),
	}
}

// GetStressDetail fetches the stress time series for one calendar day
func (c *Client) GetStressDetail(ctx context.Context, date time.Time) (*StressDetail, error) {
	var detail StressDetail
	path := "/stressDetails/" + date.Format(dateLayout)
	if err := c.getJSON(ctx, path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetBodyBatteryDetail fetches the body battery time series for one day
func (c *Client) GetBodyBatteryDetail(ctx context.Context, date time.Time) (*BodyBatteryDetail, error) {
	var detail BodyBatteryDetail
	path := "/bodyBatteryDetails/" + date.Format(dateLayout)
	if err := c.getJSON(ctx, path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetHeartRateDetail fetches the heart rate time series for one day
func (c *Client) GetHeartRateDetail(ctx context.Context, date time.Time) (*HeartRateDetail, error) {
	var detail HeartRateDetail
	path := "/heartRateDetails/" + date.Format(dateLayout)
	if err := c.getJSON(ctx, path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetDailySummary fetches the wellness rollup for one day
func (c *Client) GetDailySummary(ctx context.Context, date time.Time) (*DailySummary, error) {
	var summary DailySummary
	path := "/dailySummaries/" + date.Format(dateLayout)
	if err := c.getJSON(ctx, path, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetSleepSummary fetches the sleep rollup for one wake-up date
func (c *Client) GetSleepSummary(ctx context.Context, date time.Time) (*SleepSummary, error) {
	var summary SleepSummary
	path := "/sleepSummaries/" + date.Format(dateLayout)
	if err := c.getJSON(ctx, path, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetActivities fetches activity summaries starting after 'after', up to
// 'limit' results per page
func (c *Client) GetActivities(ctx context.Context, after time.Time, page, limit int) ([]Activity, error) {
	params := url.Values{}
	if !after.IsZero() {
		params.Set("after", strconv.FormatInt(after.Unix(), 10))
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	var activities []Activity
	if err := c.getJSON(ctx, "/activities", params, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// GetAllActivities fetches all activities after a given time.
// It handles pagination automatically and respects rate limits.
func (c *Client) GetAllActivities(ctx context.Context, after time.Time, onProgress func(fetched int)) ([]Activity, error) {
	var all []Activity
	page := 1
	limit := 100

	for {
		activities, err := c.GetActivities(ctx, after, page, limit)
		if err != nil {
			return all, fmt.Errorf("fetching page %d: %w", page, err)
		}

		if len(activities) == 0 {
			break
		}

		all = append(all, activities...)

		if onProgress != nil {
			onProgress(len(all))
		}

		if len(activities) < limit {
			break // Last page
		}

		page++
	}

	return all, nil
}

// RateLimitStatus returns the current rate limit status
func (c *Client) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
