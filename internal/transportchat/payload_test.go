package transportchat

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"tripsplit/internal/flightapi"
)

func sampleFlight() flightapi.ResolvedFlight {
	return flightapi.ResolvedFlight{
		AirlineCode:   "UA",
		AirlineName:   "United Airlines",
		FlightNumber:  "552",
		DepartureTime: time.Date(2026, 9, 14, 9, 30, 0, 0, time.UTC),
		OriginCode:    "SFO",
	}
}

func TestPayloadRoundTripKeepsPendingValue(t *testing.T) {
	flight := sampleFlight()
	in := AssistantPayload{
		Message: "Should I add it?",
		Status:  StatusConfirm,
		Pending: ActionValue(PendingAction{
			Type:      ActionCreateFlight,
			Flight:    &flight,
			MemberIDs: []string{"m1"},
		}),
	}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := ParsePayload(string(raw))
	if out == nil {
		t.Fatal("expected payload")
	}
	if !out.Pending.Present() || out.Pending.Action() == nil {
		t.Fatal("pending action lost in round trip")
	}
	if out.Pending.Action().Type != ActionCreateFlight {
		t.Fatalf("unexpected type %q", out.Pending.Action().Type)
	}
	if out.Pending.Action().Flight.FlightNumber != "552" {
		t.Fatalf("flight lost: %+v", out.Pending.Action().Flight)
	}
}

func TestPayloadMarshalDistinguishesAbsentAndNull(t *testing.T) {
	absent, err := json.Marshal(AssistantPayload{Message: "hi", Status: StatusClarify})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(absent), "pendingAction") {
		t.Fatalf("absent field must be omitted, got %s", absent)
	}

	null, err := json.Marshal(AssistantPayload{Message: "hi", Status: StatusClarify, Pending: ActionNull()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(null), `"pendingAction":null`) {
		t.Fatalf("explicit null must survive serialization, got %s", null)
	}
}

func TestPayloadUnmarshalThreeWayField(t *testing.T) {
	if p := ParsePayload(`{"message":"m","status":"clarify"}`); p == nil || p.Pending.Present() {
		t.Fatalf("absent field must parse as absent: %+v", p)
	}
	p := ParsePayload(`{"message":"m","status":"clarify","pendingAction":null}`)
	if p == nil || !p.Pending.Present() || p.Pending.Action() != nil {
		t.Fatalf("explicit null must parse as present-null: %+v", p)
	}
	p = ParsePayload(`{"message":"m","pendingAction":{"type":"choose-flight","options":[],"memberIds":["m1"]}}`)
	if p == nil || p.Pending.Action() == nil || p.Pending.Action().Type != ActionChooseFlight {
		t.Fatalf("present value must parse: %+v", p)
	}
}

func TestPayloadParseFailsClosed(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"not json":         "hello there",
		"missing message":  `{"status":"clarify"}`,
		"message not text": `{"message":42}`,
	}
	for name, raw := range cases {
		if p := ParsePayload(raw); p != nil {
			t.Fatalf("%s: expected nil payload, got %+v", name, p)
		}
	}
}

func TestPayloadUnknownActionShapeIsAbsent(t *testing.T) {
	// An older payload revision with an unrecognized action tag must not
	// surface as an active pending action.
	p := ParsePayload(`{"message":"m","pendingAction":{"type":"book-hotel","hotelId":"h1"}}`)
	if p == nil {
		t.Fatal("payload with message must parse")
	}
	if p.Pending.Present() {
		t.Fatalf("unknown action tag must read as absent, got %+v", p.Pending.Action())
	}
}
