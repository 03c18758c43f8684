package itinerary

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tripsplit/internal/apperr"
	"tripsplit/internal/flightapi"
	"tripsplit/pkg/domain"
	"tripsplit/pkg/store"
)

func newTestService(t *testing.T, scheduleBody string) (*Service, *store.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, scheduleBody)
	}))
	t.Cleanup(srv.Close)

	st := store.NewMemoryStore()
	if err := st.SaveGroup(domain.Group{ID: "g1", Name: "Trip", Type: domain.GroupTrip}); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveMember(domain.Member{ID: "m-1", GroupID: "g1", DisplayName: "Ann"}); err != nil {
		t.Fatal(err)
	}
	return NewService(st, flightapi.NewClient(srv.URL, "key"), nil), st
}

const oneFlightBody = `[{"scheduled_out":"2026-09-15T08:30:00Z","scheduled_in":"2026-09-15T17:00:00Z","origin_iata":"SFO","destination_iata":"JFK"}]`

func TestCreateFlightItem(t *testing.T) {
	svc, st := newTestService(t, oneFlightBody)

	item, err := svc.CreateFlightItem(context.Background(), "g1", CreateFlightInput{
		Airline:       "united",
		FlightNumber:  "552",
		DepartureDate: "2026-09-15",
		MemberIDs:     []string{"m-1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if item.ID == "" || item.AirlineCode != "UA" {
		t.Fatalf("item = %+v", item)
	}

	stored, found, err := st.GetItineraryItem(item.ID)
	if err != nil || !found {
		t.Fatalf("item not persisted: found=%v err=%v", found, err)
	}
	if stored.Title != "United Airlines 552" {
		t.Fatalf("stored title = %q", stored.Title)
	}
}

func TestCreateFlightItemValidation(t *testing.T) {
	tests := []struct {
		name       string
		groupID    string
		input      CreateFlightInput
		wantStatus int
	}{
		{
			name:       "unknown airline",
			groupID:    "g1",
			input:      CreateFlightInput{Airline: "Totally Fake", FlightNumber: "1", DepartureDate: "2026-09-15"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing flight number",
			groupID:    "g1",
			input:      CreateFlightInput{Airline: "UA", DepartureDate: "2026-09-15"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad date",
			groupID:    "g1",
			input:      CreateFlightInput{Airline: "UA", FlightNumber: "552", DepartureDate: "Sept 15"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "group not found",
			groupID:    "missing",
			input:      CreateFlightInput{Airline: "UA", FlightNumber: "552", DepartureDate: "2026-09-15"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "foreign member",
			groupID:    "g1",
			input:      CreateFlightInput{Airline: "UA", FlightNumber: "552", DepartureDate: "2026-09-15", MemberIDs: []string{"m-other"}},
			wantStatus: http.StatusBadRequest,
		},
	}
	svc, _ := newTestService(t, oneFlightBody)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateFlightItem(context.Background(), tc.groupID, tc.input)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := apperr.HTTPStatus(err); got != tc.wantStatus {
				t.Fatalf("status = %d, want %d (%v)", got, tc.wantStatus, err)
			}
		})
	}
}

func TestCreateFlightItemNoScheduleMatch(t *testing.T) {
	svc, _ := newTestService(t, `[]`)
	_, err := svc.CreateFlightItem(context.Background(), "g1", CreateFlightInput{
		Airline: "UA", FlightNumber: "552", DepartureDate: "2026-09-15",
	})
	if got := apperr.HTTPStatus(err); got != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (%v)", got, err)
	}
}

func TestGetMemberTransportEnrichment(t *testing.T) {
	svc, st := newTestService(t, oneFlightBody)

	if _, err := svc.CreateFlightItem(context.Background(), "g1", CreateFlightInput{
		Airline: "UA", FlightNumber: "552", DepartureDate: "2026-09-15", MemberIDs: []string{"m-1"},
	}); err != nil {
		t.Fatal(err)
	}

	views, err := svc.GetMemberTransport("m-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 1 {
		t.Fatalf("views = %d, want 1", len(views))
	}
	if views[0].OriginTimezone != "America/Los_Angeles" || views[0].DestinationTimezone != "America/New_York" {
		t.Fatalf("timezones = %q / %q", views[0].OriginTimezone, views[0].DestinationTimezone)
	}

	if views, err = svc.GetMemberTransport("m-none"); err != nil || len(views) != 0 {
		t.Fatalf("member without items: %v %v", views, err)
	}

	items, err := st.ListMemberTransportItems("m-1")
	if err != nil || len(items) != 1 {
		t.Fatalf("store lookup: %v %v", items, err)
	}
}
