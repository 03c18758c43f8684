package airline

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		input string
		code  string
		found bool
	}{
		{"UA", "UA", true},
		{"ua", "UA", true},
		{"KL", "KL", true},
		{"klm", "KL", true},
		{"KLM Royal Dutch Airlines", "KL", true},
		{"Southwest", "WN", true},
		{"Southwest Airlines", "WN", true},
		{"United Airlines", "UA", true},
		{"United", "UA", true},
		{"Qatar Airways", "QR", true},
		{"Air France", "AF", true},
		{"Delta", "DL", true},
		{"Emirates", "EK", true},
		// A truncated prefix must not match a longer first word.
		{"Kor", "", false},
		{"xx-nonexistent", "", false},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tc := range cases {
		got, ok := Resolve(tc.input)
		if ok != tc.found {
			t.Errorf("Resolve(%q) found=%v, want %v", tc.input, ok, tc.found)
			continue
		}
		if ok && got.Code != tc.code {
			t.Errorf("Resolve(%q) = %s, want %s", tc.input, got.Code, tc.code)
		}
	}
}

func TestResolveStripsCarrierSuffix(t *testing.T) {
	got, ok := Resolve("Alaska Air")
	if !ok || got.Code != "AS" {
		t.Fatalf("Resolve(Alaska Air) = %+v found=%v, want AS", got, ok)
	}
}

func TestByCodeCaseInsensitive(t *testing.T) {
	if _, ok := ByCode(" wn "); !ok {
		t.Fatal("expected WN lookup to tolerate whitespace and case")
	}
}

func TestAirportLookups(t *testing.T) {
	if a, ok := AirportByCode("sfo"); !ok || a.City != "San Francisco" {
		t.Fatalf("AirportByCode(sfo) = %+v found=%v", a, ok)
	}
	if _, ok := AirportByCode("ZZZ"); ok {
		t.Fatal("expected unknown airport code to miss")
	}
	if a, ok := ResolveAirport("Heathrow Airport"); !ok || a.Code != "LHR" {
		t.Fatalf("ResolveAirport(Heathrow Airport) = %+v found=%v", a, ok)
	}
}

func TestListAirlinesSorted(t *testing.T) {
	list := ListAirlines()
	if len(list) == 0 {
		t.Fatal("empty airline list")
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Fatalf("airlines not sorted at %d: %q > %q", i, list[i-1].Name, list[i].Name)
		}
	}
}
