// Package transportchat implements the flight-assistant conversation: parsing
// freeform flight requests with an LLM, resolving them against the schedule
// API, and driving a confirm/choose/create workflow whose only state is the
// append-only chat history.
package transportchat

import (
	"encoding/json"

	"tripsplit/internal/flightapi"
)

// Reply statuses. Conversational failures are statuses, never errors.
const (
	StatusClarify = "clarify"
	StatusConfirm = "confirm"
	StatusCreated = "created"
	StatusError   = "error"
)

// Pending action kinds.
const (
	ActionCreateFlight = "create-flight"
	ActionChooseFlight = "choose-flight"
)

// PendingAction is the single outstanding question the assistant is waiting
// on. For create-flight, Flight holds the candidate; for choose-flight,
// Options holds the numbered candidates.
type PendingAction struct {
	Type      string                     `json:"type"`
	Flight    *flightapi.ResolvedFlight  `json:"flight,omitempty"`
	MemberIDs []string                   `json:"memberIds"`
	Options   []flightapi.ResolvedFlight `json:"options,omitempty"`
}

// Known reports whether the action carries one of the recognized kinds.
// Historical rows may hold payload shapes from older revisions; anything
// unrecognized is treated as carrying no action at all.
func (a *PendingAction) Known() bool {
	if a == nil {
		return false
	}
	return a.Type == ActionCreateFlight || a.Type == ActionChooseFlight
}

// OptionalAction distinguishes three states of the pendingAction field:
// absent (no opinion, inherit from older turns), explicit null (clear any
// earlier action), and a present value (this is now the active action).
type OptionalAction struct {
	present bool
	action  *PendingAction
}

// ActionAbsent leaves the field out of the serialized payload.
func ActionAbsent() OptionalAction { return OptionalAction{} }

// ActionNull serializes the field as an explicit null.
func ActionNull() OptionalAction { return OptionalAction{present: true} }

// ActionValue serializes the given action.
func ActionValue(a PendingAction) OptionalAction {
	return OptionalAction{present: true, action: &a}
}

// Present reports whether the field was set at all (null or value).
func (o OptionalAction) Present() bool { return o.present }

// Action returns the action value, nil when absent or explicitly null.
func (o OptionalAction) Action() *PendingAction { return o.action }

// AssistantPayload is one assistant reply, serialized verbatim into the chat
// history row it belongs to.
type AssistantPayload struct {
	Message       string
	Status        string
	Pending       OptionalAction
	Options       []flightapi.ResolvedFlight
	CreatedItemID string
	ResetContext  bool
}

type payloadWire struct {
	Message       string                     `json:"message"`
	Status        string                     `json:"status"`
	Pending       json.RawMessage            `json:"pendingAction,omitempty"`
	Options       []flightapi.ResolvedFlight `json:"options,omitempty"`
	CreatedItemID string                     `json:"createdItemId,omitempty"`
	ResetContext  bool                       `json:"resetContext,omitempty"`
}

// MarshalJSON keeps the three-way pendingAction semantics on the wire: the
// key is omitted when absent, literal null when explicitly cleared.
func (p AssistantPayload) MarshalJSON() ([]byte, error) {
	wire := payloadWire{
		Message:       p.Message,
		Status:        p.Status,
		Options:       p.Options,
		CreatedItemID: p.CreatedItemID,
		ResetContext:  p.ResetContext,
	}
	if p.Pending.present {
		if p.Pending.action == nil {
			wire.Pending = json.RawMessage("null")
		} else {
			raw, err := json.Marshal(p.Pending.action)
			if err != nil {
				return nil, err
			}
			wire.Pending = raw
		}
	}
	return json.Marshal(wire)
}

// UnmarshalJSON is permissive: a pendingAction that fails to decode, or whose
// type tag is unrecognized, is read back as absent rather than failing the
// whole payload. Every historical row is a potentially differently-shaped
// payload from an older revision.
func (p *AssistantPayload) UnmarshalJSON(data []byte) error {
	var wire payloadWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	p.Message = wire.Message
	p.Status = wire.Status
	p.Options = wire.Options
	p.CreatedItemID = wire.CreatedItemID
	p.ResetContext = wire.ResetContext
	p.Pending = ActionAbsent()

	if len(wire.Pending) == 0 {
		return nil
	}
	if string(wire.Pending) == "null" {
		p.Pending = ActionNull()
		return nil
	}
	var action PendingAction
	if err := json.Unmarshal(wire.Pending, &action); err != nil || !action.Known() {
		return nil
	}
	p.Pending = ActionValue(action)
	return nil
}

// ParsePayload decodes a stored assistant response. It fails closed: any
// parse failure, or a payload without a message string, yields nil instead
// of an error.
func ParsePayload(raw string) *AssistantPayload {
	if raw == "" {
		return nil
	}
	var probe struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil || probe.Message == nil {
		return nil
	}
	var payload AssistantPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}
	return &payload
}
