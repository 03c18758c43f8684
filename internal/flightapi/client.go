// Package flightapi wraps the external flight-schedule API and normalizes
// its heterogeneous response shapes into candidate flights.
package flightapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tripsplit/internal/apperr"
)

// Query identifies a one-day schedule window for a single flight number.
type Query struct {
	AirlineCode   string
	AirlineName   string
	FlightNumber  string
	DepartureDate time.Time
}

// Client talks to the schedule API. Base URL and API key come from
// configuration; both must be set before any fetch.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a schedule client. Missing base URL or key is allowed at
// construction time and reported on first use, so that deployments without
// the flight feature can still boot.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// scheduleRecord is the subset of the upstream record we interpret; the rest
// rides along in Raw for audit.
type scheduleRecord struct {
	ScheduledOut    string `json:"scheduled_out"`
	ScheduledIn     string `json:"scheduled_in"`
	OriginIATA      string `json:"origin_iata"`
	DestinationIATA string `json:"destination_iata"`
	Operator        string `json:"operator"`
	AirlineName     string `json:"airline_name"`

	raw json.RawMessage
}

// FetchSchedules queries the window [departureDate, departureDate+1) and
// returns the raw schedule records. The upstream body may be a bare array,
// {"data":[...]}, or {"scheduled":[...]}; any other shape yields an empty
// list rather than an error.
func (c *Client) FetchSchedules(ctx context.Context, q Query) ([]scheduleRecord, error) {
	if c.baseURL == "" {
		return nil, apperr.Config("flight schedule API URL is not configured")
	}
	if c.apiKey == "" {
		return nil, apperr.Config("flight schedule API key is not configured")
	}

	start := q.DepartureDate.UTC().Format("2006-01-02")
	end := q.DepartureDate.UTC().AddDate(0, 0, 1).Format("2006-01-02")
	u := fmt.Sprintf("%s/schedules/%s/%s?airline=%s&flight_number=%s",
		c.baseURL, start, end,
		url.QueryEscape(q.AirlineCode), url.QueryEscape(q.FlightNumber))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flight schedule request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.Upstream("failed to fetch flight data", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("flight schedule body: %w", err)
	}
	return decodeScheduleBody(body), nil
}

func decodeScheduleBody(body []byte) []scheduleRecord {
	var rawList []json.RawMessage
	if err := json.Unmarshal(body, &rawList); err != nil {
		var envelope struct {
			Data      []json.RawMessage `json:"data"`
			Scheduled []json.RawMessage `json:"scheduled"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil
		}
		switch {
		case envelope.Data != nil:
			rawList = envelope.Data
		case envelope.Scheduled != nil:
			rawList = envelope.Scheduled
		default:
			return nil
		}
	}

	records := make([]scheduleRecord, 0, len(rawList))
	for _, raw := range rawList {
		var rec scheduleRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		rec.raw = raw
		records = append(records, rec)
	}
	return records
}
