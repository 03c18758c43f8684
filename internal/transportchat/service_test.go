package transportchat

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tripsplit/internal/flightapi"
	"tripsplit/pkg/ai"
	"tripsplit/pkg/domain"
	"tripsplit/pkg/store"
)

// scriptedLLM replies with the queued strings in order, repeating the last
// one when the queue runs dry.
type scriptedLLM struct {
	replies []string
	calls   int
}

func (l *scriptedLLM) GenerateChat(_ context.Context, _ string, _ []ai.Message) (string, error) {
	l.calls++
	if len(l.replies) == 0 {
		return "", fmt.Errorf("no scripted reply")
	}
	reply := l.replies[0]
	if len(l.replies) > 1 {
		l.replies = l.replies[1:]
	}
	return reply, nil
}

// recordingCreator records every created flight; failFlights lists flight
// numbers whose creation should fail.
type recordingCreator struct {
	created     []flightapi.ResolvedFlight
	memberIDs   [][]string
	failFlights map[string]bool
}

func (c *recordingCreator) CreateFromFlight(_ context.Context, groupID string, flight flightapi.ResolvedFlight, memberIDs []string) (domain.ItineraryItem, error) {
	if c.failFlights[flight.FlightNumber] {
		return domain.ItineraryItem{}, fmt.Errorf("create failed for %s", flight.FlightNumber)
	}
	c.created = append(c.created, flight)
	c.memberIDs = append(c.memberIDs, memberIDs)
	return domain.ItineraryItem{
		ID:      fmt.Sprintf("item-%d", len(c.created)),
		GroupID: groupID,
		Type:    domain.ItineraryFlight,
	}, nil
}

type fixture struct {
	service *Service
	store   *store.MemoryStore
	llm     *scriptedLLM
	creator *recordingCreator

	// schedules holds the JSON records the fake schedule API returns as a
	// bare array.
	schedules []string
}

const (
	fxGroupID = "g1"
	fxUserID  = "u-ann"
)

// newFixture seeds one group with two members and points the schedule client
// at a local fake API.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, "[%s]", strings.Join(f.schedules, ","))
	}))
	t.Cleanup(srv.Close)

	f.store = store.NewMemoryStore()
	if err := f.store.SaveGroup(domain.Group{ID: fxGroupID, Name: "Lisbon trip", Type: domain.GroupTrip}); err != nil {
		t.Fatal(err)
	}
	annID := fxUserID
	if err := f.store.SaveMember(domain.Member{ID: "m-ann", GroupID: fxGroupID, UserID: &annID, DisplayName: "Ann"}); err != nil {
		t.Fatal(err)
	}
	if err := f.store.SaveMember(domain.Member{ID: "m-bob", GroupID: fxGroupID, DisplayName: "Bob"}); err != nil {
		t.Fatal(err)
	}

	f.llm = &scriptedLLM{}
	f.creator = &recordingCreator{failFlights: map[string]bool{}}
	f.service = NewService(f.store, flightapi.NewClient(srv.URL, "test-key"), f.llm, f.creator, nil)
	return f
}

func scheduleRecordJSON(departure string) string {
	return fmt.Sprintf(`{"scheduled_out":%q,"origin_iata":"SFO","destination_iata":"JFK","operator":"United Airlines"}`, departure)
}

const llmReplyUA552 = `{"flightRequests":[{"airlineCode":"UA","flightNumber":"552","explicitDate":"2026-09-15","passengers":["me"]}]}`

func (f *fixture) send(t *testing.T, message string) AssistantPayload {
	t.Helper()
	payload, err := f.service.HandleMessage(context.Background(), fxUserID, fxGroupID, message)
	if err != nil {
		t.Fatalf("HandleMessage(%q): %v", message, err)
	}
	return payload
}

func (f *fixture) turnCount(t *testing.T) int {
	t.Helper()
	turns, err := f.store.ListChatTurns(fxUserID, "flight-chat:"+fxGroupID, 50)
	if err != nil {
		t.Fatal(err)
	}
	return len(turns)
}

func TestSingleCandidateConfirmFlow(t *testing.T) {
	f := newFixture(t)
	f.llm.replies = []string{llmReplyUA552}
	f.schedules = []string{scheduleRecordJSON("2026-09-15T08:30:00Z")}

	reply := f.send(t, "add my united flight 552 on sept 15")
	if reply.Status != StatusConfirm {
		t.Fatalf("status = %q, want %q", reply.Status, StatusConfirm)
	}
	if !reply.Pending.Present() || reply.Pending.Action() == nil || reply.Pending.Action().Type != ActionCreateFlight {
		t.Fatalf("expected a create-flight pending action, got %+v", reply.Pending)
	}
	if got := reply.Pending.Action().MemberIDs; len(got) != 1 || got[0] != "m-ann" {
		t.Fatalf("member ids = %v, want [m-ann]", got)
	}
	if len(f.creator.created) != 0 {
		t.Fatal("nothing may be created before confirmation")
	}

	reply = f.send(t, "yes please")
	if reply.Status != StatusCreated {
		t.Fatalf("status = %q, want %q", reply.Status, StatusCreated)
	}
	if reply.CreatedItemID != "item-1" {
		t.Fatalf("created item id = %q", reply.CreatedItemID)
	}
	if reply.Pending.Present() && reply.Pending.Action() != nil {
		t.Fatal("pending must be cleared after creation")
	}
	if len(f.creator.created) != 1 {
		t.Fatalf("creator calls = %d, want exactly 1", len(f.creator.created))
	}
	if f.turnCount(t) != 2 {
		t.Fatalf("turns = %d, want 2", f.turnCount(t))
	}
	// The LLM is only consulted for the initial parse, never for yes/no.
	if f.llm.calls != 1 {
		t.Fatalf("llm calls = %d, want 1", f.llm.calls)
	}
}

func TestConfirmNegativeResetsContext(t *testing.T) {
	f := newFixture(t)
	f.llm.replies = []string{llmReplyUA552, "I'm sorry, I don't understand."}
	f.schedules = []string{scheduleRecordJSON("2026-09-15T08:30:00Z")}

	f.send(t, "add UA 552 on the 15th")
	reply := f.send(t, "no, cancel that")
	if reply.Status != StatusClarify {
		t.Fatalf("status = %q, want %q", reply.Status, StatusClarify)
	}
	if !reply.Pending.Present() || reply.Pending.Action() != nil {
		t.Fatal("negative must write an explicit null pending action")
	}
	if !reply.ResetContext {
		t.Fatal("negative must reset the conversation context")
	}

	// A second "no" lands on a fresh context and goes back through the LLM;
	// with an unparseable reply it just asks again, creating nothing.
	reply = f.send(t, "no")
	if reply.Status != StatusClarify {
		t.Fatalf("status = %q, want %q", reply.Status, StatusClarify)
	}
	if len(f.creator.created) != 0 {
		t.Fatal("no itinerary item may ever be created on this path")
	}
	if f.llm.calls != 2 {
		t.Fatalf("llm calls = %d, want 2", f.llm.calls)
	}
}

func TestConfirmAmbiguousReasks(t *testing.T) {
	f := newFixture(t)
	f.llm.replies = []string{llmReplyUA552}
	f.schedules = []string{scheduleRecordJSON("2026-09-15T08:30:00Z")}

	f.send(t, "add UA 552 on the 15th")
	// "know" contains "no" as a substring but is not a negative token.
	reply := f.send(t, "I don't know what time it leaves")
	if reply.Status != StatusClarify {
		t.Fatalf("status = %q, want %q", reply.Status, StatusClarify)
	}
	pending := reply.Pending.Action()
	if pending == nil || pending.Type != ActionCreateFlight {
		t.Fatalf("ambiguous reply must re-emit the pending action, got %+v", pending)
	}
	if len(f.creator.created) != 0 {
		t.Fatal("ambiguous reply must not create anything")
	}

	// The re-emitted pending keeps the question alive for the next turn.
	reply = f.send(t, "yes")
	if reply.Status != StatusCreated {
		t.Fatalf("status after yes = %q, want %q", reply.Status, StatusCreated)
	}
}

func multiFixture(t *testing.T, departures ...string) *fixture {
	t.Helper()
	f := newFixture(t)
	f.llm.replies = []string{llmReplyUA552}
	for _, dep := range departures {
		f.schedules = append(f.schedules, scheduleRecordJSON(dep))
	}
	return f
}

func TestMultiCandidateSameDateAsksToChoose(t *testing.T) {
	f := multiFixture(t, "2026-09-15T08:30:00Z", "2026-09-15T17:05:00Z")

	reply := f.send(t, "add UA 552 on the 15th")
	if reply.Status != StatusClarify {
		t.Fatalf("status = %q, want %q", reply.Status, StatusClarify)
	}
	if !strings.Contains(reply.Message, "multiple flights on the same date") {
		t.Fatalf("message = %q", reply.Message)
	}
	pending := reply.Pending.Action()
	if pending == nil || pending.Type != ActionChooseFlight || len(pending.Options) != 2 {
		t.Fatalf("expected a choose-flight pending with 2 options, got %+v", pending)
	}
	if len(reply.Options) != 2 {
		t.Fatalf("options = %d, want 2", len(reply.Options))
	}
}

func TestMultiCandidateDifferentDatesConfirmFraming(t *testing.T) {
	f := multiFixture(t, "2026-09-15T08:30:00Z", "2026-09-21T17:05:00Z")

	reply := f.send(t, "add UA 552 there and back")
	if reply.Status != StatusConfirm {
		t.Fatalf("status = %q, want %q", reply.Status, StatusConfirm)
	}
	if !strings.Contains(reply.Message, "different days") {
		t.Fatalf("message = %q", reply.Message)
	}
	if pending := reply.Pending.Action(); pending == nil || pending.Type != ActionChooseFlight {
		t.Fatalf("expected a choose-flight pending, got %+v", pending)
	}
}

func TestChoiceGrammar(t *testing.T) {
	tests := []struct {
		message     string
		wantCreated int
		wantStatus  string
	}{
		{"1 and 2", 2, StatusCreated},
		{"both", 2, StatusCreated},
		{"yes, add them all", 2, StatusCreated},
		{"1", 1, StatusCreated},
		{"the second one, 2", 1, StatusCreated},
		{"none", 0, StatusClarify},
		{"no thanks", 0, StatusClarify},
	}
	for _, tc := range tests {
		t.Run(tc.message, func(t *testing.T) {
			f := multiFixture(t, "2026-09-15T08:30:00Z", "2026-09-15T17:05:00Z")
			f.send(t, "add UA 552 on the 15th")

			reply := f.send(t, tc.message)
			if reply.Status != tc.wantStatus {
				t.Fatalf("status = %q, want %q", reply.Status, tc.wantStatus)
			}
			if len(f.creator.created) != tc.wantCreated {
				t.Fatalf("created = %d, want %d", len(f.creator.created), tc.wantCreated)
			}
			if tc.wantCreated == 0 {
				if !reply.Pending.Present() || reply.Pending.Action() != nil || !reply.ResetContext {
					t.Fatal("declining must clear state with an explicit null and a reset")
				}
			} else {
				if reply.CreatedItemID != "item-1" {
					t.Fatalf("created item id = %q", reply.CreatedItemID)
				}
			}
		})
	}
}

func TestChoiceSelectsFirstOptionOnly(t *testing.T) {
	f := multiFixture(t, "2026-09-15T08:30:00Z", "2026-09-15T17:05:00Z")
	f.send(t, "add UA 552 on the 15th")
	f.send(t, "1")

	if len(f.creator.created) != 1 {
		t.Fatalf("created = %d, want 1", len(f.creator.created))
	}
	if got := f.creator.created[0].DepartureTime.UTC().Format("15:04"); got != "08:30" {
		t.Fatalf("created the wrong option, departure %s", got)
	}
}

func TestChoiceOutOfRangeReasks(t *testing.T) {
	f := multiFixture(t, "2026-09-15T08:30:00Z", "2026-09-15T17:05:00Z")
	f.send(t, "add UA 552 on the 15th")

	reply := f.send(t, "7")
	if reply.Status != StatusClarify {
		t.Fatalf("status = %q, want %q", reply.Status, StatusClarify)
	}
	if pending := reply.Pending.Action(); pending == nil || pending.Type != ActionChooseFlight {
		t.Fatalf("out-of-range pick must re-emit the pending action, got %+v", pending)
	}
	if len(f.creator.created) != 0 {
		t.Fatal("out-of-range pick must not create anything")
	}
}

func TestChoiceAllCreationsFailing(t *testing.T) {
	f := multiFixture(t, "2026-09-15T08:30:00Z", "2026-09-15T17:05:00Z")
	f.send(t, "add UA 552 on the 15th")
	f.creator.failFlights["552"] = true

	// Both options are UA 552 so both creations fail.
	reply := f.send(t, "both")
	if reply.Status != StatusError {
		t.Fatalf("status = %q, want %q", reply.Status, StatusError)
	}
	if !reply.Pending.Present() || reply.Pending.Action() != nil {
		t.Fatal("a fully failed selection must clear the pending action")
	}
}

func TestUnparseableLLMReplyAsksAgain(t *testing.T) {
	f := newFixture(t)
	f.llm.replies = []string{"Sure! Which flight did you mean?"}

	reply := f.send(t, "hello")
	if reply.Status != StatusClarify {
		t.Fatalf("status = %q, want %q", reply.Status, StatusClarify)
	}
	if reply.Pending.Present() {
		t.Fatal("a clarify reply on the parse path carries no pending action")
	}
	if f.turnCount(t) != 1 {
		t.Fatalf("turns = %d, want 1", f.turnCount(t))
	}
}

func TestUnknownGroupIsAnError(t *testing.T) {
	f := newFixture(t)
	f.llm.replies = []string{llmReplyUA552}

	payload, err := f.service.HandleMessage(context.Background(), fxUserID, "no-such-group", "add UA 552")
	if err != nil {
		t.Fatal(err)
	}
	if payload.Status != StatusError {
		t.Fatalf("status = %q, want %q", payload.Status, StatusError)
	}
	if payload.Message != "I couldn't find that group." {
		t.Fatalf("message = %q", payload.Message)
	}
}

func TestNoCandidatesAsksToDoubleCheck(t *testing.T) {
	f := newFixture(t)
	f.llm.replies = []string{llmReplyUA552}
	// schedules stays empty

	reply := f.send(t, "add UA 552 on the 15th")
	if reply.Status != StatusClarify {
		t.Fatalf("status = %q, want %q", reply.Status, StatusClarify)
	}
	if len(f.creator.created) != 0 {
		t.Fatal("nothing to create without candidates")
	}
}

func TestUnknownPassengerNoteAndSelfFallback(t *testing.T) {
	f := newFixture(t)
	f.llm.replies = []string{`{"flightRequests":[{"airlineCode":"UA","flightNumber":"552","explicitDate":"2026-09-15","passengers":["Zelda"]}]}`}
	f.schedules = []string{scheduleRecordJSON("2026-09-15T08:30:00Z")}

	reply := f.send(t, "add UA 552 for Zelda")
	if reply.Status != StatusConfirm {
		t.Fatalf("status = %q, want %q", reply.Status, StatusConfirm)
	}
	if !strings.Contains(reply.Message, "Zelda") {
		t.Fatalf("message must mention the unmatched passenger: %q", reply.Message)
	}
	if got := reply.Pending.Action().MemberIDs; len(got) != 1 || got[0] != "m-ann" {
		t.Fatalf("member ids = %v, want the sender fallback [m-ann]", got)
	}
}

func TestGetHistoryFlattensTurns(t *testing.T) {
	f := newFixture(t)
	f.llm.replies = []string{"not json"}
	f.send(t, "hello there")

	entries, err := f.service.GetHistory(fxUserID, fxGroupID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Role != "user" || entries[0].Message != "hello there" {
		t.Fatalf("user entry = %+v", entries[0])
	}
	if entries[1].Role != "assistant" || entries[1].Message == "" {
		t.Fatalf("assistant entry = %+v", entries[1])
	}
	if !strings.HasSuffix(entries[0].ID, "-user") || !strings.HasSuffix(entries[1].ID, "-assistant") {
		t.Fatalf("entry ids = %q, %q", entries[0].ID, entries[1].ID)
	}
}
