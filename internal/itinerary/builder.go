// Package itinerary maps resolved flights into trip itinerary items and
// serves the direct (non-chat) flight-create path.
package itinerary

import (
	"fmt"
	"strings"

	"tripsplit/internal/airline"
	"tripsplit/internal/flightapi"
	"tripsplit/pkg/domain"
)

// BuildFlightItem maps a resolved schedule record onto an itinerary item.
// Pure; the caller assigns the id and timestamps. Airport names and addresses
// come from the static table; unknown codes leave those fields empty.
func BuildFlightItem(groupID string, flight flightapi.ResolvedFlight, memberIDs []string) domain.ItineraryItem {
	airlineName := flight.AirlineName
	if airlineName == "" {
		airlineName = flight.AirlineCode
	}

	item := domain.ItineraryItem{
		GroupID:             groupID,
		Type:                domain.ItineraryFlight,
		Status:              domain.ItineraryConfirmed,
		Title:               strings.TrimSpace(fmt.Sprintf("%s %s", airlineName, flight.FlightNumber)),
		StartDateTime:       flight.DepartureTime,
		EndDateTime:         flight.ArrivalTime,
		TransportNumber:     flight.AirlineCode + flight.FlightNumber,
		AirlineCode:         flight.AirlineCode,
		AirlineName:         flight.AirlineName,
		FlightNumber:        flight.FlightNumber,
		RawTransportPayload: flight.Raw,
		MemberIDs:           memberIDs,
	}

	item.OriginLocationCode = flight.OriginCode
	if a, ok := airline.AirportByCode(flight.OriginCode); ok {
		item.OriginName = a.Name
		item.OriginAddress = airportAddress(a)
	}
	item.DestinationLocationCode = flight.DestinationCode
	if a, ok := airline.AirportByCode(flight.DestinationCode); ok {
		item.DestinationName = a.Name
		item.DestinationAddress = airportAddress(a)
	}
	return item
}

func airportAddress(a airline.Airport) string {
	switch {
	case a.City != "" && a.Country != "":
		return a.City + ", " + a.Country
	case a.City != "":
		return a.City
	default:
		return a.Country
	}
}
