// Package airline holds the static IATA reference tables and best-effort
// resolvers used when turning freeform user input into airline and airport
// identities.
package airline

import (
	"sort"
	"strings"
)

// Airline is one IATA carrier entry.
type Airline struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

// airlines is the authoritative ordered list; order is the tie-break for
// partial name matching.
var airlines = []Airline{
	// Major U.S. carriers.
	{Code: "UA", Name: "United Airlines", Country: "US"},
	{Code: "DL", Name: "Delta Air Lines", Country: "US"},
	{Code: "AA", Name: "American Airlines", Country: "US"},
	{Code: "WN", Name: "Southwest Airlines", Country: "US"},
	{Code: "AS", Name: "Alaska Airlines", Country: "US"},
	{Code: "B6", Name: "JetBlue Airways", Country: "US"},
	{Code: "NK", Name: "Spirit Airlines", Country: "US"},
	{Code: "F9", Name: "Frontier Airlines", Country: "US"},
	{Code: "HA", Name: "Hawaiian Airlines", Country: "US"},
	// Canada.
	{Code: "AC", Name: "Air Canada", Country: "CA"},
	{Code: "WS", Name: "WestJet", Country: "CA"},
	// Europe.
	{Code: "BA", Name: "British Airways", Country: "UK"},
	{Code: "AF", Name: "Air France", Country: "FR"},
	{Code: "LH", Name: "Lufthansa", Country: "DE"},
	{Code: "KL", Name: "KLM Royal Dutch Airlines", Country: "NL"},
	{Code: "IB", Name: "Iberia", Country: "ES"},
	{Code: "LX", Name: "SWISS International Air Lines", Country: "CH"},
	{Code: "AZ", Name: "ITA Airways", Country: "IT"},
	{Code: "EI", Name: "Aer Lingus", Country: "IE"},
	{Code: "SK", Name: "Scandinavian Airlines", Country: "SE"},
	// Middle East.
	{Code: "EK", Name: "Emirates", Country: "AE"},
	{Code: "QR", Name: "Qatar Airways", Country: "QA"},
	{Code: "EY", Name: "Etihad Airways", Country: "AE"},
	{Code: "TK", Name: "Turkish Airlines", Country: "TR"},
	// Asia-Pacific.
	{Code: "NH", Name: "All Nippon Airways (ANA)", Country: "JP"},
	{Code: "JL", Name: "Japan Airlines", Country: "JP"},
	{Code: "SQ", Name: "Singapore Airlines", Country: "SG"},
	{Code: "CX", Name: "Cathay Pacific", Country: "HK"},
	{Code: "KE", Name: "Korean Air", Country: "KR"},
	{Code: "OZ", Name: "Asiana Airlines", Country: "KR"},
	{Code: "QF", Name: "Qantas", Country: "AU"},
	// Latin America.
	{Code: "LA", Name: "LATAM Airlines", Country: "CL"},
	{Code: "AV", Name: "Avianca", Country: "CO"},
	{Code: "CM", Name: "Copa Airlines", Country: "PA"},
	// Budget / regional international.
	{Code: "FR", Name: "Ryanair", Country: "IE"},
	{Code: "U2", Name: "easyJet", Country: "UK"},
	{Code: "VY", Name: "Vueling", Country: "ES"},
	{Code: "DY", Name: "Norwegian Air Shuttle", Country: "NO"},
}

var (
	airlinesByCode = make(map[string]Airline, len(airlines))
	airlinesByName = make(map[string]Airline, len(airlines))
)

func init() {
	for _, a := range airlines {
		airlinesByCode[a.Code] = a
		airlinesByName[strings.ToLower(a.Name)] = a
	}
}

// ListAirlines returns all known airlines sorted by name.
func ListAirlines() []Airline {
	out := make([]Airline, len(airlines))
	copy(out, airlines)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ByCode looks up an airline by IATA code, case-insensitive.
func ByCode(code string) (Airline, bool) {
	a, ok := airlinesByCode[strings.ToUpper(strings.TrimSpace(code))]
	return a, ok
}

// ByName looks up an airline by full name, case-insensitive.
func ByName(name string) (Airline, bool) {
	a, ok := airlinesByName[strings.TrimSpace(strings.ToLower(name))]
	return a, ok
}

// stripCarrierSuffix removes a trailing "air" / "airlines" word so that
// "Southwest Airlines" and "Southwest" compare equal.
func stripCarrierSuffix(name string) string {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	for _, suffix := range []string{" airlines", " air"} {
		if strings.HasSuffix(lower, suffix) {
			return strings.TrimSpace(name[:len(name)-len(suffix)])
		}
	}
	return name
}

// Resolve finds an airline from either an IATA code or a (possibly partial)
// name. Match order: exact code, exact full name, suffix-stripped name, then
// a first-word comparison that requires exact-length equality so that a
// truncated prefix ("Kor") cannot claim a longer word ("Korean").
func Resolve(input string) (Airline, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Airline{}, false
	}

	if a, ok := ByCode(input); ok {
		return a, true
	}
	if a, ok := ByName(input); ok {
		return a, true
	}
	stripped := stripCarrierSuffix(input)
	if a, ok := ByName(stripped); ok {
		return a, true
	}

	firstWord := strings.ToLower(firstField(stripped))
	if firstWord == "" {
		return Airline{}, false
	}
	for _, a := range airlines {
		// Whole-word equality only: a truncated prefix like "Kor" must not
		// claim "Korean".
		if strings.ToLower(firstField(a.Name)) == firstWord {
			return a, true
		}
	}
	return Airline{}, false
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
