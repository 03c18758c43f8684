package transportchat

import (
	"testing"
	"time"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestParseReply(t *testing.T) {
	if _, ok := ParseReply(`{"flightRequests":[{"airlineCode":"UA","flightNumber":"552"}]}`); !ok {
		t.Fatal("valid reply must parse")
	}
	if _, ok := ParseReply(`{"flightRequests":[]}`); !ok {
		t.Fatal("empty array is still a valid reply")
	}
	for _, bad := range []string{"sorry, I can't", `{"flightRequests":null}`, `{"other":true}`, `{"flightRequests":"UA552"}`} {
		if _, ok := ParseReply(bad); ok {
			t.Fatalf("reply %q must not parse", bad)
		}
	}
}

func TestBuildCleanRequests(t *testing.T) {
	start := datePtr(2026, 9, 14)
	end := datePtr(2026, 9, 21)

	requests := []FlightRequest{
		// Explicit date beats hints.
		{AirlineCode: "UA", FlightNumber: "552", ExplicitDate: "2026-09-15", DepartureDateHint: "TRIP_END"},
		// Airline name resolves through the lookup table.
		{AirlineName: "Southwest", FlightNumber: "100", DepartureDateHint: "TRIP_START"},
		// Legacy departureDate spelling is accepted.
		{AirlineCode: "DL", FlightNumber: "9", DepartureDate: "2026-09-16"},
		// No resolvable date: dropped.
		{AirlineCode: "AA", FlightNumber: "77", DepartureDateHint: "UNKNOWN"},
		// No flight number: dropped.
		{AirlineCode: "UA", ExplicitDate: "2026-09-15"},
		// Unresolvable airline: dropped.
		{AirlineName: "Totally Fake Airways", FlightNumber: "1", ExplicitDate: "2026-09-15"},
		// Garbage explicit date: dropped.
		{AirlineCode: "UA", FlightNumber: "552", ExplicitDate: "next tuesday"},
	}

	clean := BuildCleanRequests(requests, start, end)
	if len(clean) != 3 {
		t.Fatalf("expected 3 clean requests, got %d: %+v", len(clean), clean)
	}
	if clean[0].AirlineCode != "UA" || clean[0].DepartureDate.Format("2006-01-02") != "2026-09-15" {
		t.Fatalf("explicit date must win: %+v", clean[0])
	}
	if clean[1].AirlineCode != "WN" || !clean[1].DepartureDate.Equal(*start) {
		t.Fatalf("TRIP_START hint must resolve to trip start: %+v", clean[1])
	}
	if clean[2].AirlineCode != "DL" {
		t.Fatalf("departureDate spelling must be honored: %+v", clean[2])
	}
}

func TestBuildCleanRequestsHintWithoutBounds(t *testing.T) {
	requests := []FlightRequest{
		{AirlineCode: "UA", FlightNumber: "552", DepartureDateHint: "TRIP_START"},
	}
	if clean := BuildCleanRequests(requests, nil, nil); len(clean) != 0 {
		t.Fatalf("hint without trip bounds is unresolvable, got %+v", clean)
	}
}

func TestCleanPassengersPrefersPassengersField(t *testing.T) {
	req := FlightRequest{
		AirlineCode:    "UA",
		FlightNumber:   "552",
		ExplicitDate:   "2026-09-15",
		Passengers:     []string{" Alice ", "", "Bob"},
		PassengerNames: []string{"ignored"},
	}
	clean := BuildCleanRequests([]FlightRequest{req}, nil, nil)
	if len(clean) != 1 {
		t.Fatalf("expected 1 clean request, got %d", len(clean))
	}
	got := clean[0].Passengers
	if len(got) != 2 || got[0] != "Alice" || got[1] != "Bob" {
		t.Fatalf("passengers must be trimmed with empties dropped, got %v", got)
	}
}
