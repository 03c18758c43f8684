package transportchat

import (
	"tripsplit/pkg/ai"
	"tripsplit/pkg/domain"
)

// State is the conversation state reconstructed from the history log: the
// active pending action (if any) and the transcript to feed back to the LLM.
type State struct {
	Pending  *PendingAction
	Messages []ai.Message
}

// Replay folds the ordered turn sequence (oldest first) into a State.
//
// Pending action: the last turn whose payload sets the field wins. A turn
// with resetContext, or an explicit-null pendingAction, clears it; a present
// value with a known type replaces it; an absent field (or an unparseable
// payload) inherits from older turns.
//
// Transcript: each turn contributes a user message and an assistant message.
// A resetContext turn discards everything accumulated before it but still
// contributes its own pair; history resumes from the reset point.
func Replay(turns []domain.ChatTurn) State {
	var state State
	for _, turn := range turns {
		payload := ParsePayload(turn.Response)

		if payload != nil {
			if payload.ResetContext {
				state.Pending = nil
				state.Messages = state.Messages[:0]
			} else if payload.Pending.Present() {
				state.Pending = payload.Pending.Action()
			}
		}

		state.Messages = append(state.Messages, ai.Message{Role: "user", Content: turn.Prompt})
		assistant := turn.Response
		if payload != nil {
			assistant = payload.Message
		}
		state.Messages = append(state.Messages, ai.Message{Role: "assistant", Content: assistant})
	}
	return state
}

// BuildHistory returns the LLM transcript for the given turns.
func BuildHistory(turns []domain.ChatTurn) []ai.Message {
	return Replay(turns).Messages
}

// LatestPendingAction returns the still-active pending action, or nil when
// the most recent turn that expressed an opinion cleared it (explicit null
// or a context reset).
func LatestPendingAction(turns []domain.ChatTurn) *PendingAction {
	return Replay(turns).Pending
}
