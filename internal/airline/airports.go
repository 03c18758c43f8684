package airline

import (
	"sort"
	"strings"
)

// Airport is one IATA airport entry. Timezone is an IANA zone name used when
// rendering local departure/arrival times; it may be empty for lesser-known
// entries.
type Airport struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

var airports = []Airport{
	// United States: major hubs.
	{Code: "ATL", Name: "Hartsfield–Jackson Atlanta International Airport", City: "Atlanta", Country: "US", Timezone: "America/New_York"},
	{Code: "LAX", Name: "Los Angeles International Airport", City: "Los Angeles", Country: "US", Timezone: "America/Los_Angeles"},
	{Code: "ORD", Name: "O'Hare International Airport", City: "Chicago", Country: "US", Timezone: "America/Chicago"},
	{Code: "DFW", Name: "Dallas/Fort Worth International Airport", City: "Dallas–Fort Worth", Country: "US", Timezone: "America/Chicago"},
	{Code: "DEN", Name: "Denver International Airport", City: "Denver", Country: "US", Timezone: "America/Denver"},
	{Code: "JFK", Name: "John F. Kennedy International Airport", City: "New York", Country: "US", Timezone: "America/New_York"},
	{Code: "EWR", Name: "Newark Liberty International Airport", City: "Newark", Country: "US", Timezone: "America/New_York"},
	{Code: "LGA", Name: "LaGuardia Airport", City: "New York", Country: "US", Timezone: "America/New_York"},
	{Code: "SFO", Name: "San Francisco International Airport", City: "San Francisco", Country: "US", Timezone: "America/Los_Angeles"},
	{Code: "SEA", Name: "Seattle–Tacoma International Airport", City: "Seattle", Country: "US", Timezone: "America/Los_Angeles"},
	{Code: "LAS", Name: "Harry Reid International Airport", City: "Las Vegas", Country: "US", Timezone: "America/Los_Angeles"},
	{Code: "BOS", Name: "Logan International Airport", City: "Boston", Country: "US", Timezone: "America/New_York"},
	{Code: "IAH", Name: "George Bush Intercontinental Airport", City: "Houston", Country: "US", Timezone: "America/Chicago"},
	{Code: "MIA", Name: "Miami International Airport", City: "Miami", Country: "US", Timezone: "America/New_York"},
	{Code: "MCO", Name: "Orlando International Airport", City: "Orlando", Country: "US", Timezone: "America/New_York"},
	{Code: "SAN", Name: "San Diego International Airport", City: "San Diego", Country: "US", Timezone: "America/Los_Angeles"},
	{Code: "DCA", Name: "Ronald Reagan Washington National Airport", City: "Washington, D.C.", Country: "US", Timezone: "America/New_York"},
	{Code: "IAD", Name: "Washington Dulles International Airport", City: "Washington, D.C.", Country: "US", Timezone: "America/New_York"},
	{Code: "BWI", Name: "Baltimore/Washington International Airport", City: "Baltimore", Country: "US", Timezone: "America/New_York"},
	{Code: "MSP", Name: "Minneapolis–Saint Paul International Airport", City: "Minneapolis–Saint Paul", Country: "US", Timezone: "America/Chicago"},
	{Code: "DTW", Name: "Detroit Metropolitan Airport", City: "Detroit", Country: "US", Timezone: "America/New_York"},
	{Code: "PHL", Name: "Philadelphia International Airport", City: "Philadelphia", Country: "US", Timezone: "America/New_York"},
	{Code: "PHX", Name: "Phoenix Sky Harbor International Airport", City: "Phoenix", Country: "US", Timezone: "America/Phoenix"},
	{Code: "SLC", Name: "Salt Lake City International Airport", City: "Salt Lake City", Country: "US", Timezone: "America/Denver"},
	{Code: "HNL", Name: "Daniel K. Inouye International Airport", City: "Honolulu", Country: "US", Timezone: "Pacific/Honolulu"},
	// Canada.
	{Code: "YYZ", Name: "Toronto Pearson International Airport", City: "Toronto", Country: "CA", Timezone: "America/Toronto"},
	{Code: "YVR", Name: "Vancouver International Airport", City: "Vancouver", Country: "CA", Timezone: "America/Vancouver"},
	{Code: "YUL", Name: "Montréal–Trudeau International Airport", City: "Montreal", Country: "CA", Timezone: "America/Toronto"},
	// Europe.
	{Code: "LHR", Name: "Heathrow Airport", City: "London", Country: "UK", Timezone: "Europe/London"},
	{Code: "LGW", Name: "Gatwick Airport", City: "London", Country: "UK", Timezone: "Europe/London"},
	{Code: "CDG", Name: "Charles de Gaulle Airport", City: "Paris", Country: "FR", Timezone: "Europe/Paris"},
	{Code: "AMS", Name: "Amsterdam Airport Schiphol", City: "Amsterdam", Country: "NL", Timezone: "Europe/Amsterdam"},
	{Code: "FRA", Name: "Frankfurt Airport", City: "Frankfurt", Country: "DE", Timezone: "Europe/Berlin"},
	{Code: "MUC", Name: "Munich Airport", City: "Munich", Country: "DE", Timezone: "Europe/Berlin"},
	{Code: "MAD", Name: "Adolfo Suárez Madrid–Barajas Airport", City: "Madrid", Country: "ES", Timezone: "Europe/Madrid"},
	{Code: "BCN", Name: "Josep Tarradellas Barcelona–El Prat Airport", City: "Barcelona", Country: "ES", Timezone: "Europe/Madrid"},
	{Code: "FCO", Name: "Leonardo da Vinci–Fiumicino Airport", City: "Rome", Country: "IT", Timezone: "Europe/Rome"},
	{Code: "ZRH", Name: "Zurich Airport", City: "Zurich", Country: "CH", Timezone: "Europe/Zurich"},
	{Code: "VIE", Name: "Vienna International Airport", City: "Vienna", Country: "AT", Timezone: "Europe/Vienna"},
	{Code: "CPH", Name: "Copenhagen Airport", City: "Copenhagen", Country: "DK", Timezone: "Europe/Copenhagen"},
	{Code: "DUB", Name: "Dublin Airport", City: "Dublin", Country: "IE", Timezone: "Europe/Dublin"},
	{Code: "LIS", Name: "Humberto Delgado Airport", City: "Lisbon", Country: "PT", Timezone: "Europe/Lisbon"},
	{Code: "ATH", Name: "Athens International Airport", City: "Athens", Country: "GR", Timezone: "Europe/Athens"},
	// Middle East.
	{Code: "DXB", Name: "Dubai International Airport", City: "Dubai", Country: "AE", Timezone: "Asia/Dubai"},
	{Code: "DOH", Name: "Hamad International Airport", City: "Doha", Country: "QA", Timezone: "Asia/Qatar"},
	{Code: "AUH", Name: "Zayed International Airport", City: "Abu Dhabi", Country: "AE", Timezone: "Asia/Dubai"},
	{Code: "IST", Name: "Istanbul Airport", City: "Istanbul", Country: "TR", Timezone: "Europe/Istanbul"},
	// Asia-Pacific.
	{Code: "HND", Name: "Haneda Airport", City: "Tokyo", Country: "JP", Timezone: "Asia/Tokyo"},
	{Code: "NRT", Name: "Narita International Airport", City: "Tokyo", Country: "JP", Timezone: "Asia/Tokyo"},
	{Code: "ICN", Name: "Incheon International Airport", City: "Seoul", Country: "KR", Timezone: "Asia/Seoul"},
	{Code: "SIN", Name: "Singapore Changi Airport", City: "Singapore", Country: "SG", Timezone: "Asia/Singapore"},
	{Code: "HKG", Name: "Hong Kong International Airport", City: "Hong Kong", Country: "HK", Timezone: "Asia/Hong_Kong"},
	{Code: "BKK", Name: "Suvarnabhumi Airport", City: "Bangkok", Country: "TH", Timezone: "Asia/Bangkok"},
	{Code: "SYD", Name: "Sydney Kingsford Smith Airport", City: "Sydney", Country: "AU", Timezone: "Australia/Sydney"},
	{Code: "MEL", Name: "Melbourne Airport", City: "Melbourne", Country: "AU", Timezone: "Australia/Melbourne"},
	{Code: "AKL", Name: "Auckland Airport", City: "Auckland", Country: "NZ", Timezone: "Pacific/Auckland"},
	// Latin America.
	{Code: "MEX", Name: "Mexico City International Airport", City: "Mexico City", Country: "MX", Timezone: "America/Mexico_City"},
	{Code: "BOG", Name: "El Dorado International Airport", City: "Bogotá", Country: "CO", Timezone: "America/Bogota"},
	{Code: "GRU", Name: "São Paulo/Guarulhos International Airport", City: "São Paulo", Country: "BR", Timezone: "America/Sao_Paulo"},
	{Code: "EZE", Name: "Ezeiza International Airport", City: "Buenos Aires", Country: "AR", Timezone: "America/Argentina/Buenos_Aires"},
	{Code: "SCL", Name: "Arturo Merino Benítez International Airport", City: "Santiago", Country: "CL", Timezone: "America/Santiago"},
	{Code: "PTY", Name: "Tocumen International Airport", City: "Panama City", Country: "PA", Timezone: "America/Panama"},
}

var (
	airportsByCode = make(map[string]Airport, len(airports))
	airportsByName = make(map[string]Airport, len(airports))
)

func init() {
	for _, a := range airports {
		airportsByCode[a.Code] = a
		airportsByName[strings.ToLower(a.Name)] = a
	}
}

// ListAirports returns all known airports sorted by name.
func ListAirports() []Airport {
	out := make([]Airport, len(airports))
	copy(out, airports)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AirportByCode looks up an airport by IATA code, case-insensitive.
func AirportByCode(code string) (Airport, bool) {
	a, ok := airportsByCode[strings.ToUpper(strings.TrimSpace(code))]
	return a, ok
}

// ResolveAirport finds an airport from either a code or a full name.
func ResolveAirport(input string) (Airport, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Airport{}, false
	}
	if a, ok := AirportByCode(input); ok {
		return a, true
	}
	a, ok := airportsByName[strings.ToLower(input)]
	return a, ok
}
