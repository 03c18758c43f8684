package ai

import "context"

// Message is one turn of a chat transcript.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// TextGenerator generates text from a system prompt and a chat transcript.
// All LLM providers (OpenAI, Gemini) implement this interface.
type TextGenerator interface {
	GenerateChat(ctx context.Context, systemPrompt string, messages []Message) (string, error)
}

// VisionGenerator generates text from a prompt plus one inline image,
// passed as a data URL. Used for receipt parsing.
type VisionGenerator interface {
	DescribeImage(ctx context.Context, systemPrompt, userPrompt, imageDataURL string) (string, error)
}
