package transportchat

import (
	"encoding/json"
	"strings"
	"time"

	"tripsplit/internal/airline"
)

// FlightRequest is one flight leg as extracted by the LLM, before any
// validation. Field pairs (departureDate/explicitDate, passengers/
// passengerNames) exist because prompt revisions changed the output shape;
// both spellings are accepted.
type FlightRequest struct {
	AirlineCode       string   `json:"airlineCode"`
	AirlineName       string   `json:"airlineName"`
	FlightNumber      string   `json:"flightNumber"`
	DepartureDate     string   `json:"departureDate"`
	ExplicitDate      string   `json:"explicitDate"`
	DepartureDateHint string   `json:"departureDateHint"`
	Passengers        []string `json:"passengers"`
	PassengerNames    []string `json:"passengerNames"`
}

// CleanRequest is a flight request that survived validation and is ready for
// a schedule lookup.
type CleanRequest struct {
	AirlineCode   string
	AirlineName   string
	FlightNumber  string
	DepartureDate time.Time
	Passengers    []string
}

// ParseReply decodes the LLM reply. ok is false when the text is not a JSON
// object carrying a flightRequests array.
func ParseReply(text string) (requests []FlightRequest, ok bool) {
	var parsed struct {
		FlightRequests []FlightRequest `json:"flightRequests"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &parsed); err != nil {
		return nil, false
	}
	if parsed.FlightRequests == nil {
		return nil, false
	}
	return parsed.FlightRequests, true
}

// selectDepartureDate picks the leg's date: an explicit date wins; otherwise
// a TRIP_START/TRIP_END hint resolves against the trip bounds when those are
// known. Unresolvable dates come back as the zero time.
func selectDepartureDate(req FlightRequest, tripStart, tripEnd *time.Time) time.Time {
	explicit := strings.TrimSpace(req.ExplicitDate)
	if explicit == "" {
		explicit = strings.TrimSpace(req.DepartureDate)
	}
	if explicit != "" {
		if t, err := time.Parse("2006-01-02", explicit); err == nil {
			return t
		}
		return time.Time{}
	}
	switch strings.ToUpper(strings.TrimSpace(req.DepartureDateHint)) {
	case "TRIP_START":
		if tripStart != nil {
			return *tripStart
		}
	case "TRIP_END":
		if tripEnd != nil {
			return *tripEnd
		}
	}
	return time.Time{}
}

func cleanPassengers(req FlightRequest) []string {
	source := req.Passengers
	if source == nil {
		source = req.PassengerNames
	}
	out := make([]string, 0, len(source))
	for _, name := range source {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// BuildCleanRequests validates LLM-extracted requests against the trip date
// bounds. Requests without a resolvable airline, flight number, or date are
// dropped silently; the caller asks the user again when nothing survives.
func BuildCleanRequests(requests []FlightRequest, tripStart, tripEnd *time.Time) []CleanRequest {
	clean := make([]CleanRequest, 0, len(requests))
	for _, req := range requests {
		input := strings.TrimSpace(req.AirlineCode)
		if input == "" {
			input = strings.TrimSpace(req.AirlineName)
		}
		carrier, found := airline.Resolve(input)
		if !found {
			continue
		}
		flightNumber := strings.TrimSpace(req.FlightNumber)
		departureDate := selectDepartureDate(req, tripStart, tripEnd)
		if flightNumber == "" || departureDate.IsZero() {
			continue
		}
		clean = append(clean, CleanRequest{
			AirlineCode:   carrier.Code,
			AirlineName:   carrier.Name,
			FlightNumber:  flightNumber,
			DepartureDate: departureDate,
			Passengers:    cleanPassengers(req),
		})
	}
	return clean
}
