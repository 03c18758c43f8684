package flightapi

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"tripsplit/internal/airline"
	"tripsplit/internal/apperr"
)

// ResolvedFlight is one normalized schedule record. DepartureTime is always
// valid; records without a parseable departure timestamp never leave this
// package.
type ResolvedFlight struct {
	AirlineCode     string          `json:"airlineCode"`
	AirlineName     string          `json:"airlineName,omitempty"`
	FlightNumber    string          `json:"flightNumber"`
	DepartureTime   time.Time       `json:"departureTime"`
	ArrivalTime     *time.Time      `json:"arrivalTime,omitempty"`
	OriginCode      string          `json:"originCode,omitempty"`
	DestinationCode string          `json:"destinationCode,omitempty"`
	Raw             json.RawMessage `json:"raw,omitempty"`
}

// FetchCandidates fetches and normalizes schedule records for a query.
// Malformed records (missing/invalid departure time) are dropped silently:
// the upstream API is known to return partial garbage and one bad record
// must not sink the good ones.
func (c *Client) FetchCandidates(ctx context.Context, q Query) ([]ResolvedFlight, error) {
	records, err := c.FetchSchedules(ctx, q)
	if err != nil {
		return nil, err
	}
	flights := make([]ResolvedFlight, 0, len(records))
	for _, rec := range records {
		if f, ok := normalizeRecord(rec, q); ok {
			flights = append(flights, f)
		}
	}
	return flights, nil
}

// FetchFirstMatch returns the first usable schedule record for the direct
// itinerary-create endpoint, with hard errors where the chat flow would
// instead ask the user to clarify.
func (c *Client) FetchFirstMatch(ctx context.Context, q Query) (ResolvedFlight, error) {
	records, err := c.FetchSchedules(ctx, q)
	if err != nil {
		return ResolvedFlight{}, err
	}
	if len(records) == 0 {
		return ResolvedFlight{}, apperr.NotFound("no flight schedule found for the provided details")
	}
	flight, ok := normalizeRecord(records[0], q)
	if !ok {
		return ResolvedFlight{}, apperr.Unprocessable("flight data is missing a valid departure time")
	}
	return flight, nil
}

func normalizeRecord(rec scheduleRecord, q Query) (ResolvedFlight, bool) {
	departure, ok := parseUpstreamTime(rec.ScheduledOut)
	if !ok {
		return ResolvedFlight{}, false
	}

	var arrival *time.Time
	if t, ok := parseUpstreamTime(rec.ScheduledIn); ok {
		arrival = &t
	}

	name := rec.Operator
	if name == "" {
		name = rec.AirlineName
	}
	if name == "" {
		name = q.AirlineName
	}
	if name == "" {
		if a, ok := airline.ByCode(q.AirlineCode); ok {
			name = a.Name
		}
	}

	return ResolvedFlight{
		AirlineCode:     strings.ToUpper(q.AirlineCode),
		AirlineName:     name,
		FlightNumber:    q.FlightNumber,
		DepartureTime:   departure,
		ArrivalTime:     arrival,
		OriginCode:      strings.ToUpper(strings.TrimSpace(rec.OriginIATA)),
		DestinationCode: strings.ToUpper(strings.TrimSpace(rec.DestinationIATA)),
		Raw:             rec.raw,
	}, true
}

func parseUpstreamTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
