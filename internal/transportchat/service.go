package transportchat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"tripsplit/internal/flightapi"
	"tripsplit/pkg/ai"
	"tripsplit/pkg/domain"
	"tripsplit/pkg/store"
)

const (
	modelPrefix  = "flight-chat"
	historyLimit = 10
)

var (
	yesVocab = []string{"yes", "yep", "sure", "confirm", "yeah", "yup", "ok", "okay"}
	noVocab  = []string{"no", "nah", "nope", "cancel", "stop"}

	allVocab     = []string{"all", "both", "everything"}
	allPhrases   = []string{"add them all", "add both"}
	noneVocab    = []string{"none", "neither", "cancel", "stop", "no", "nope"}
	digitPattern = regexp.MustCompile(`\d+`)
)

// FlightCreator persists one flight itinerary item for a group. Implemented
// by the itinerary service.
type FlightCreator interface {
	CreateFromFlight(ctx context.Context, groupID string, flight flightapi.ResolvedFlight, memberIDs []string) (domain.ItineraryItem, error)
}

// Service drives the flight-assistant conversation. Each turn is handled as
// one independent request-response unit; state lives entirely in the stored
// history and is reconstructed on every call. Concurrent turns for the same
// (user, group) pair are not serialized.
type Service struct {
	store   store.Store
	flights *flightapi.Client
	llm     ai.TextGenerator
	creator FlightCreator
	logger  *slog.Logger
}

// NewService wires the conversation service.
func NewService(st store.Store, flights *flightapi.Client, llm ai.TextGenerator, creator FlightCreator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, flights: flights, llm: llm, creator: creator, logger: logger}
}

func conversationKey(groupID string) string {
	return modelPrefix + ":" + groupID
}

// HistoryEntry is one display row of the conversation.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetHistory flattens the stored turns into a display list, one user and one
// assistant row per turn.
func (s *Service) GetHistory(userID, groupID string) ([]HistoryEntry, error) {
	turns, err := s.store.ListChatTurns(userID, conversationKey(groupID), historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	entries := make([]HistoryEntry, 0, len(turns)*2)
	for _, turn := range turns {
		entries = append(entries, HistoryEntry{
			ID:        turn.ID + "-user",
			Role:      "user",
			Message:   turn.Prompt,
			CreatedAt: turn.CreatedAt,
		})
		message := turn.Response
		if payload := ParsePayload(turn.Response); payload != nil {
			message = payload.Message
		}
		if message == "" {
			message = "…"
		}
		entries = append(entries, HistoryEntry{
			ID:        turn.ID + "-assistant",
			Role:      "assistant",
			Message:   message,
			CreatedAt: turn.CreatedAt,
		})
	}
	return entries, nil
}

// HandleMessage processes one inbound user message and returns the
// assistant's reply. The reply is persisted as a new turn before it is
// returned; that write is the only way conversation state advances.
func (s *Service) HandleMessage(ctx context.Context, userID, groupID, message string) (AssistantPayload, error) {
	turns, err := s.store.ListChatTurns(userID, conversationKey(groupID), historyLimit)
	if err != nil {
		return AssistantPayload{}, fmt.Errorf("load chat history: %w", err)
	}
	state := Replay(turns)

	var payload AssistantPayload
	switch {
	case state.Pending != nil && state.Pending.Type == ActionCreateFlight:
		payload, err = s.handleCreateConfirm(ctx, groupID, message, *state.Pending)
	case state.Pending != nil && state.Pending.Type == ActionChooseFlight:
		payload, err = s.handleChoice(ctx, groupID, message, *state.Pending)
	default:
		payload, err = s.handleNewRequest(ctx, userID, groupID, message, state.Messages)
	}
	if err != nil {
		return AssistantPayload{}, err
	}

	if err := s.saveExchange(userID, groupID, message, payload); err != nil {
		return AssistantPayload{}, err
	}
	return payload, nil
}

// handleCreateConfirm resolves a yes/no question about a single candidate.
// The LLM is bypassed entirely; only the fixed vocabularies decide.
func (s *Service) handleCreateConfirm(ctx context.Context, groupID, message string, pending PendingAction) (AssistantPayload, error) {
	tokens := tokenize(message)
	switch {
	case containsAny(tokens, yesVocab):
		if pending.Flight == nil {
			// Legacy row without a flight; nothing can be created from it.
			return AssistantPayload{
				Message:      "I lost track of that flight. Tell me the airline, flight number, and date to try again.",
				Status:       StatusClarify,
				Pending:      ActionNull(),
				ResetContext: true,
			}, nil
		}
		item, err := s.creator.CreateFromFlight(ctx, groupID, *pending.Flight, pending.MemberIDs)
		if err != nil {
			return AssistantPayload{}, fmt.Errorf("create itinerary item: %w", err)
		}
		s.logger.Info("flight itinerary item created",
			slog.String("group_id", groupID), slog.String("item_id", item.ID))
		return AssistantPayload{
			Message:       fmt.Sprintf("Added %s", describeFlight(*pending.Flight)),
			Status:        StatusCreated,
			CreatedItemID: item.ID,
			Pending:       ActionNull(),
		}, nil
	case containsAny(tokens, noVocab):
		return AssistantPayload{
			Message:      "Okay, I won't add that flight. Tell me the airline, flight number, and date to try again.",
			Status:       StatusClarify,
			Pending:      ActionNull(),
			ResetContext: true,
		}, nil
	default:
		return AssistantPayload{
			Message: "Should I add this flight? Reply yes or no.",
			Status:  StatusClarify,
			Pending: ActionValue(pending),
		}, nil
	}
}

// handleChoice resolves a numbered selection among multiple candidates.
func (s *Service) handleChoice(ctx context.Context, groupID, message string, pending PendingAction) (AssistantPayload, error) {
	tokens := tokenize(message)
	normalized := strings.ToLower(strings.TrimSpace(message))

	selectAll := containsAny(tokens, allVocab)
	for _, phrase := range allPhrases {
		if strings.Contains(normalized, phrase) {
			selectAll = true
		}
	}

	if !selectAll && containsAny(tokens, noneVocab) {
		return AssistantPayload{
			Message:      "Okay, I won't add any of those flights. Tell me the airline, flight number, and date to try again.",
			Status:       StatusClarify,
			Pending:      ActionNull(),
			ResetContext: true,
		}, nil
	}

	var selection []flightapi.ResolvedFlight
	if selectAll {
		selection = pending.Options
	} else {
		for _, idx := range extractIndices(message, len(pending.Options)) {
			selection = append(selection, pending.Options[idx])
		}
	}

	if len(selection) == 0 {
		return AssistantPayload{
			Message: fmt.Sprintf("Please pick from these options:\n%s\nReply with numbers (e.g. \"1\" or \"1 and 2\"), \"all\", or \"none\".",
				listOptions(pending.Options)),
			Status:  StatusClarify,
			Pending: ActionValue(pending),
		}, nil
	}

	// Sequential, best-effort: each creation is an independent external
	// call with no rollback; failures are reported in the reply.
	var created []domain.ItineraryItem
	var createdFlights, failed []flightapi.ResolvedFlight
	for _, flight := range selection {
		item, err := s.creator.CreateFromFlight(ctx, groupID, flight, pending.MemberIDs)
		if err != nil {
			s.logger.Error("flight itinerary create failed",
				slog.String("group_id", groupID),
				slog.String("flight", flight.AirlineCode+flight.FlightNumber),
				slog.Any("error", err))
			failed = append(failed, flight)
			continue
		}
		created = append(created, item)
		createdFlights = append(createdFlights, flight)
	}

	if len(created) == 0 {
		return AssistantPayload{
			Message: "I couldn't add the selected flights. Please share the details again.",
			Status:  StatusError,
			Pending: ActionNull(),
		}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Added %d flight%s to the trip:\n", len(created), plural(len(created)))
	for _, flight := range createdFlights {
		fmt.Fprintf(&b, "- %s\n", describeFlight(flight))
	}
	for _, flight := range failed {
		fmt.Fprintf(&b, "I couldn't add %s %s.\n", flight.AirlineCode, flight.FlightNumber)
	}
	return AssistantPayload{
		Message:       strings.TrimRight(b.String(), "\n"),
		Status:        StatusCreated,
		CreatedItemID: created[0].ID,
		Pending:       ActionNull(),
	}, nil
}

// handleNewRequest runs the LLM parse path for a message with no pending
// action.
func (s *Service) handleNewRequest(ctx context.Context, userID, groupID, message string, history []ai.Message) (AssistantPayload, error) {
	transcript := append(append([]ai.Message{}, history...), ai.Message{Role: "user", Content: message})
	reply, err := s.llm.GenerateChat(ctx, flightSystemPrompt, transcript)
	if err != nil {
		return AssistantPayload{}, fmt.Errorf("llm flight parse: %w", err)
	}
	s.logger.Debug("llm flight parse reply",
		slog.String("group_id", groupID), slog.String("user_id", userID))

	requests, ok := ParseReply(reply)
	if !ok {
		return AssistantPayload{
			Message: "I couldn't understand that. Please share the airline, flight number, and date.",
			Status:  StatusClarify,
		}, nil
	}

	group, found, err := s.store.GetGroup(groupID)
	if err != nil {
		return AssistantPayload{}, fmt.Errorf("load group: %w", err)
	}
	if !found {
		return AssistantPayload{
			Message: "I couldn't find that group.",
			Status:  StatusError,
		}, nil
	}

	clean := BuildCleanRequests(requests, group.StartDate, group.EndDate)
	if len(clean) == 0 {
		return AssistantPayload{
			Message: "I need the airline, flight number, and date to find the flight. Can you provide those?",
			Status:  StatusClarify,
		}, nil
	}

	members, err := s.store.ListGroupMembers(groupID)
	if err != nil {
		return AssistantPayload{}, fmt.Errorf("load group members: %w", err)
	}

	var candidates []flightapi.ResolvedFlight
	var memberIDs, unknownPassengers []string
	seenMember := make(map[string]bool)
	seenUnknown := make(map[string]bool)
	for _, req := range clean {
		resolved, unknown := ResolveMemberIDs(req.Passengers, members, userID)
		for _, id := range resolved {
			if !seenMember[id] {
				seenMember[id] = true
				memberIDs = append(memberIDs, id)
			}
		}
		for _, name := range unknown {
			if !seenUnknown[name] {
				seenUnknown[name] = true
				unknownPassengers = append(unknownPassengers, name)
			}
		}

		flights, err := s.flights.FetchCandidates(ctx, flightapi.Query{
			AirlineCode:   req.AirlineCode,
			AirlineName:   req.AirlineName,
			FlightNumber:  req.FlightNumber,
			DepartureDate: req.DepartureDate,
		})
		if err != nil {
			return AssistantPayload{}, err
		}
		candidates = append(candidates, flights...)
	}

	switch len(candidates) {
	case 0:
		return AssistantPayload{
			Message: "I couldn't find matching flights. Can you double-check the airline, flight number, and date?",
			Status:  StatusClarify,
		}, nil
	case 1:
		extra := ""
		if len(unknownPassengers) > 0 {
			extra = fmt.Sprintf(" I couldn't match passengers: %s.", strings.Join(unknownPassengers, ", "))
		}
		return AssistantPayload{
			Message: fmt.Sprintf("I found %s Should I add it to the trip?%s", describeFlight(candidates[0]), extra),
			Status:  StatusConfirm,
			Pending: ActionValue(PendingAction{
				Type:      ActionCreateFlight,
				Flight:    &candidates[0],
				MemberIDs: memberIDs,
			}),
		}, nil
	default:
		grammar := "Reply with numbers (e.g. \"1\" or \"1 and 2\"), \"all\", or \"none\"."
		var msg string
		var status string
		if distinctDates(candidates) > 1 {
			msg = fmt.Sprintf("I found these flights on different days (likely an outbound and a return):\n%s\n%s",
				listOptions(candidates), grammar)
			status = StatusConfirm
		} else {
			msg = fmt.Sprintf("I found multiple flights on the same date. Which should I add?\n%s\n%s",
				listOptions(candidates), grammar)
			status = StatusClarify
		}
		return AssistantPayload{
			Message: msg,
			Status:  status,
			Options: candidates,
			Pending: ActionValue(PendingAction{
				Type:      ActionChooseFlight,
				Options:   candidates,
				MemberIDs: memberIDs,
			}),
		}, nil
	}
}

func (s *Service) saveExchange(userID, groupID, message string, payload AssistantPayload) error {
	response, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode assistant payload: %w", err)
	}
	turn := domain.ChatTurn{
		ID:        uuid.NewString(),
		UserID:    userID,
		Prompt:    message,
		Response:  string(response),
		Model:     conversationKey(groupID),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.AppendChatTurn(turn); err != nil {
		return fmt.Errorf("save chat turn: %w", err)
	}
	return nil
}

// tokenize lowercases the message and splits it into word tokens, so that
// vocabulary checks match whole words only ("know" must not trip "no").
func tokenize(message string) map[string]bool {
	fields := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make(map[string]bool, len(fields))
	for _, f := range fields {
		tokens[f] = true
	}
	return tokens
}

func containsAny(tokens map[string]bool, vocab []string) bool {
	for _, word := range vocab {
		if tokens[word] {
			return true
		}
	}
	return false
}

// extractIndices pulls every integer out of the message and keeps the
// in-range ones as zero-based option indices, deduplicated, in the order
// they appear.
func extractIndices(message string, optionCount int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, match := range digitPattern.FindAllString(message, -1) {
		n, err := strconv.Atoi(match)
		if err != nil || n < 1 || n > optionCount {
			continue
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n-1)
		}
	}
	return out
}

func distinctDates(flights []flightapi.ResolvedFlight) int {
	dates := make(map[string]bool)
	for _, f := range flights {
		dates[f.DepartureTime.UTC().Format("2006-01-02")] = true
	}
	return len(dates)
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
