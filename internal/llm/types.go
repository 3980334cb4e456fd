package llm

// Conversation roles. These are also the values persisted in the chat
// history payload, so they must stay stable.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single turn in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest holds everything needed for one generation call.
type GenerateRequest struct {
	// System is the system instruction. Empty means none.
	System string

	// History is the prior conversation, chronological order.
	History []Message

	// Prompt is the final user turn.
	Prompt string

	// Temperature controls output randomness.
	Temperature float32
}
