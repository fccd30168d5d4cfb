// Package aladhan is the gateway to the Al Adhan prayer times API. It
// fetches raw timings and normalises them; it never fabricates values.
package aladhan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

const DefaultBaseURL = "https://api.aladhan.com/v1"

// Query identifies an upstream lookup. School < 0 leaves the provider
// default in place.
type Query struct {
	Location model.Location
	Method   int
	School   int
}

// StatusError is returned when Aladhan answers with a non-success status,
// either in HTTP or in the envelope code.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("aladhan returned status %d: %s", e.StatusCode, e.Body)
}

// Client communicates with the Al Adhan API.
type Client struct {
	httpClient *http.Client
	// BaseURL is exported so tests can point it at httptest.
	BaseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		BaseURL:    baseURL,
	}
}

// Day fetches the timings for a single date.
func (c *Client) Day(ctx context.Context, date time.Time, q Query) (model.AstronomicalDay, error) {
	endpoint := fmt.Sprintf("%s/timings/%s", c.BaseURL, ProviderDate(date))

	var resp Response
	if err := c.get(ctx, endpoint, q, &resp); err != nil {
		return model.AstronomicalDay{}, err
	}
	if resp.Code != http.StatusOK {
		return model.AstronomicalDay{}, &StatusError{StatusCode: resp.Code, Body: resp.Status}
	}

	day, err := Normalize(resp.Data, date.Format(DateLayout))
	if err != nil {
		return model.AstronomicalDay{}, fmt.Errorf("failed to normalize day %s: %w", date.Format(DateLayout), err)
	}
	return day, nil
}

// Month fetches a whole calendar month in one request. Days come back in
// chronological order.
func (c *Client) Month(ctx context.Context, year int, month time.Month, q Query) ([]model.AstronomicalDay, error) {
	endpoint := fmt.Sprintf("%s/calendar/%d/%d", c.BaseURL, year, int(month))

	var resp CalendarResponse
	if err := c.get(ctx, endpoint, q, &resp); err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.Code, Body: resp.Status}
	}

	days := make([]model.AstronomicalDay, 0, len(resp.Data))
	for i, d := range resp.Data {
		fallback := time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC).Format(DateLayout)
		day, err := Normalize(d, fallback)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize %d-%02d entry %d: %w", year, int(month), i, err)
		}
		days = append(days, day)
	}

	sort.SliceStable(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q Query, out any) error {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(q.Location.Latitude, 'f', 6, 64))
	params.Set("longitude", strconv.FormatFloat(q.Location.Longitude, 'f', 6, 64))
	params.Set("method", strconv.Itoa(q.Method))
	if q.School >= 0 {
		params.Set("school", strconv.Itoa(q.School))
	}
	reqURL := endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build aladhan request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", endpoint).Msg("aladhan request failed")
		return fmt.Errorf("aladhan request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Debug().
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("aladhan response")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode aladhan response: %w", err)
	}
	return nil
}
