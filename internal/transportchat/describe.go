package transportchat

import (
	"fmt"
	"strings"
	"time"

	"tripsplit/internal/airline"
	"tripsplit/internal/flightapi"
)

func airportLocation(code string) *time.Location {
	airport, ok := airline.AirportByCode(code)
	if !ok || airport.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(airport.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func airportDisplayName(code, fallback string) string {
	if airport, ok := airline.AirportByCode(code); ok {
		return airport.Name
	}
	if code != "" {
		return code
	}
	return fallback
}

func dateLabel(t time.Time) string { return t.Format("January 2, 2006") }
func timeLabel(t time.Time) string { return t.Format("3:04 PM") }

// describeFlight renders one candidate for the user, with times shown in the
// local timezone of the respective airport.
func describeFlight(f flightapi.ResolvedFlight) string {
	name := f.AirlineName
	if a, ok := airline.ByCode(f.AirlineCode); ok {
		name = a.Name
	}
	if name == "" {
		name = f.AirlineCode
	}

	origin := airportDisplayName(f.OriginCode, "Origin")
	destination := airportDisplayName(f.DestinationCode, "Destination")
	originCode := f.OriginCode
	if originCode == "" {
		originCode = "UNK"
	}
	destinationCode := f.DestinationCode
	if destinationCode == "" {
		destinationCode = "UNK"
	}

	departure := f.DepartureTime.In(airportLocation(f.OriginCode))
	var when string
	if f.ArrivalTime != nil {
		arrival := f.ArrivalTime.In(airportLocation(f.DestinationCode))
		if dateLabel(departure) == dateLabel(arrival) {
			when = fmt.Sprintf("on %s departing at %s and arriving at %s",
				dateLabel(departure), timeLabel(departure), timeLabel(arrival))
		} else {
			when = fmt.Sprintf("departing on %s %s and arriving on %s %s",
				dateLabel(departure), timeLabel(departure), dateLabel(arrival), timeLabel(arrival))
		}
	} else {
		when = fmt.Sprintf("departing on %s %s", dateLabel(departure), timeLabel(departure))
	}

	return fmt.Sprintf("%s %s from %s (%s) to %s (%s) %s.",
		name, f.FlightNumber, origin, originCode, destination, destinationCode, when)
}

// listOptions renders numbered candidates, capped at five for display.
func listOptions(options []flightapi.ResolvedFlight) string {
	var b strings.Builder
	for i, f := range options {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, describeFlight(f))
	}
	return strings.TrimRight(b.String(), "\n")
}
