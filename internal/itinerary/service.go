package itinerary

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"tripsplit/internal/airline"
	"tripsplit/internal/apperr"
	"tripsplit/internal/flightapi"
	"tripsplit/pkg/domain"
	"tripsplit/pkg/store"
)

// Service persists itinerary items. It backs both the chat flow (via
// CreateFromFlight) and the direct flight-create endpoint.
type Service struct {
	store   store.Store
	flights *flightapi.Client
	logger  *slog.Logger
}

func NewService(st store.Store, flights *flightapi.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, flights: flights, logger: logger}
}

// CreateFromFlight persists one flight item from an already-resolved schedule
// record. This is the creation path the transport chat drives.
func (s *Service) CreateFromFlight(ctx context.Context, groupID string, flight flightapi.ResolvedFlight, memberIDs []string) (domain.ItineraryItem, error) {
	item := BuildFlightItem(groupID, flight, memberIDs)
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now().UTC()
	if err := s.store.SaveItineraryItem(item); err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("save itinerary item: %w", err)
	}
	return item, nil
}

// CreateFlightInput is the direct-create request: the caller supplies the
// flight identity and the schedule lookup resolves the rest.
type CreateFlightInput struct {
	Airline       string   `json:"airline"`
	FlightNumber  string   `json:"flightNumber"`
	DepartureDate string   `json:"departureDate"`
	MemberIDs     []string `json:"memberIds"`
}

// CreateFlightItem resolves and persists a flight without the conversation:
// validate input, check the members belong to the group, take the first
// schedule match.
func (s *Service) CreateFlightItem(ctx context.Context, groupID string, in CreateFlightInput) (domain.ItineraryItem, error) {
	carrier, found := airline.Resolve(in.Airline)
	if !found {
		return domain.ItineraryItem{}, apperr.Validation("unknown airline", map[string]string{"airline": in.Airline})
	}
	if in.FlightNumber == "" {
		return domain.ItineraryItem{}, apperr.BadRequest("flightNumber is required")
	}
	departureDate, err := time.Parse("2006-01-02", in.DepartureDate)
	if err != nil {
		return domain.ItineraryItem{}, apperr.Validation("departureDate must be YYYY-MM-DD", map[string]string{"departureDate": in.DepartureDate})
	}

	_, found, err = s.store.GetGroup(groupID)
	if err != nil {
		return domain.ItineraryItem{}, fmt.Errorf("load group: %w", err)
	}
	if !found {
		return domain.ItineraryItem{}, apperr.NotFound("group not found")
	}
	if err := s.validateMembers(groupID, in.MemberIDs); err != nil {
		return domain.ItineraryItem{}, err
	}

	flight, err := s.flights.FetchFirstMatch(ctx, flightapi.Query{
		AirlineCode:   carrier.Code,
		AirlineName:   carrier.Name,
		FlightNumber:  in.FlightNumber,
		DepartureDate: departureDate,
	})
	if err != nil {
		return domain.ItineraryItem{}, err
	}

	item, err := s.CreateFromFlight(ctx, groupID, flight, in.MemberIDs)
	if err != nil {
		return domain.ItineraryItem{}, err
	}
	s.logger.Info("flight itinerary item created",
		slog.String("group_id", groupID), slog.String("item_id", item.ID))
	return item, nil
}

func (s *Service) validateMembers(groupID string, memberIDs []string) error {
	members, err := s.store.ListGroupMembers(groupID)
	if err != nil {
		return fmt.Errorf("load group members: %w", err)
	}
	valid := make(map[string]bool, len(members))
	for _, m := range members {
		valid[m.ID] = true
	}
	var bad []string
	for _, id := range memberIDs {
		if !valid[id] {
			bad = append(bad, id)
		}
	}
	if len(bad) > 0 {
		return apperr.Validation("members do not belong to the group", map[string][]string{"memberIds": bad})
	}
	return nil
}

// ListGroupItems returns a group's itinerary ordered by start time.
func (s *Service) ListGroupItems(groupID string) ([]domain.ItineraryItem, error) {
	items, err := s.store.ListGroupItineraryItems(groupID)
	if err != nil {
		return nil, fmt.Errorf("load itinerary: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartDateTime.Before(items[j].StartDateTime)
	})
	return items, nil
}

// TransportView is an itinerary item annotated with the IANA zones of its
// endpoints, so clients can render local times.
type TransportView struct {
	domain.ItineraryItem
	OriginTimezone      string `json:"originTimezone,omitempty"`
	DestinationTimezone string `json:"destinationTimezone,omitempty"`
}

// GetGroupMemberTransport is GetMemberTransport with the member checked
// against the group first.
func (s *Service) GetGroupMemberTransport(groupID, memberID string) ([]TransportView, error) {
	member, ok, err := s.store.GetMember(memberID)
	if err != nil {
		return nil, fmt.Errorf("load member: %w", err)
	}
	if !ok || member.GroupID != groupID {
		return nil, apperr.NotFound("member not found in this group")
	}
	return s.GetMemberTransport(memberID)
}

// GetMemberTransport returns the member's transport items ordered by start
// time, enriched with airport timezones.
func (s *Service) GetMemberTransport(memberID string) ([]TransportView, error) {
	items, err := s.store.ListMemberTransportItems(memberID)
	if err != nil {
		return nil, fmt.Errorf("load member transport: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartDateTime.Before(items[j].StartDateTime)
	})
	views := make([]TransportView, 0, len(items))
	for _, item := range items {
		view := TransportView{ItineraryItem: item}
		if a, ok := airline.AirportByCode(item.OriginLocationCode); ok {
			view.OriginTimezone = a.Timezone
		}
		if a, ok := airline.AirportByCode(item.DestinationLocationCode); ok {
			view.DestinationTimezone = a.Timezone
		}
		views = append(views, view)
	}
	return views, nil
}
