package server

import (
	"net/http"
	"strings"

	"tripsplit/internal/groups"
	"tripsplit/internal/itinerary"
	"tripsplit/internal/uploads"
	"tripsplit/pkg/domain"
)

// /api/groups
func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request, user domain.User) {
	switch r.Method {
	case http.MethodPost:
		var req groups.CreateInput
		if err := decodeJSON(r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		group, err := s.groups.Create(r.Context(), user.ID, req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"group": group})
	case http.MethodGet:
		mine, err := s.groups.ListMine(r.Context(), user.ID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": mine,
			"count": len(mine),
		})
	default:
		methodNotAllowed(w)
	}
}

// handleGroupSubtree dispatches everything under /api/groups/{id}/...
// Membership is enforced once here, matching the route-level group guard of
// the API contract; handlers below assume an authorized member.
func (s *Server) handleGroupSubtree(w http.ResponseWriter, r *http.Request, user domain.User) {
	path := strings.TrimPrefix(r.URL.Path, "/api/groups/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	groupID := parts[0]
	if err := s.groups.RequireMember(r.Context(), user.ID, groupID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	switch {
	case len(parts) == 1:
		s.handleGroupByID(w, r, user, groupID)
	case len(parts) == 2 && parts[1] == "members":
		s.handleAddMember(w, r, user, groupID)
	case len(parts) == 2 && parts[1] == "expenses":
		s.handleGroupExpenses(w, r, user, groupID)
	case len(parts) == 2 && parts[1] == "expense-uploads":
		s.handleCreateUpload(w, r, user, groupID)
	case len(parts) == 2 && parts[1] == "itinerary":
		s.handleGroupItinerary(w, r, groupID)
	case len(parts) == 3 && parts[1] == "transport" && parts[2] == "flights":
		s.handleCreateFlight(w, r, groupID)
	case len(parts) == 3 && parts[1] == "transport" && parts[2] == "chat":
		s.handleTransportChat(w, r, user, groupID)
	case len(parts) == 4 && parts[1] == "members" && parts[3] == "transport":
		s.handleMemberTransport(w, r, groupID, parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleGroupByID(w http.ResponseWriter, r *http.Request, user domain.User, groupID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	detail, err := s.groups.Get(r.Context(), user.ID, groupID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"group": detail})
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request, user domain.User, groupID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req groups.MemberInput
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	member, err := s.groups.AddMember(r.Context(), user.ID, groupID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"member": member})
}

func (s *Server) handleGroupExpenses(w http.ResponseWriter, r *http.Request, user domain.User, groupID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	views, err := s.expenses.ListGroup(r.Context(), user.ID, groupID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": views,
		"count": len(views),
	})
}

func (s *Server) handleCreateUpload(w http.ResponseWriter, r *http.Request, user domain.User, groupID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required (field: file)")
		return
	}
	defer file.Close()
	result, err := s.uploads.Upload(r.Context(), user.ID, groupID, uploads.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGroupItinerary(w http.ResponseWriter, r *http.Request, groupID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	items, err := s.itinerary.ListGroupItems(groupID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

type createFlightRequest struct {
	AirlineCode   string   `json:"airlineCode"`
	FlightNumber  string   `json:"flightNumber"`
	DepartureDate string   `json:"departureDate"`
	MemberIDs     []string `json:"memberIds"`
}

func (s *Server) handleCreateFlight(w http.ResponseWriter, r *http.Request, groupID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req createFlightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	item, err := s.itinerary.CreateFlightItem(r.Context(), groupID, itinerary.CreateFlightInput{
		Airline:       req.AirlineCode,
		FlightNumber:  req.FlightNumber,
		DepartureDate: req.DepartureDate,
		MemberIDs:     req.MemberIDs,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"itineraryItem": item})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleTransportChat(w http.ResponseWriter, r *http.Request, user domain.User, groupID string) {
	switch r.Method {
	case http.MethodPost:
		var req chatRequest
		if err := decodeJSON(r, &req); err != nil {
			writeServiceError(w, r, err)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			writeError(w, http.StatusBadRequest, "message is required")
			return
		}
		payload, err := s.chat.HandleMessage(r.Context(), user.ID, groupID, req.Message)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, payload)
	case http.MethodGet:
		history, err := s.chat.GetHistory(user.ID, groupID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"messages": history,
			"count":    len(history),
		})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleMemberTransport(w http.ResponseWriter, r *http.Request, groupID, memberID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	transports, err := s.itinerary.GetGroupMemberTransport(groupID, memberID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transports": transports})
}
