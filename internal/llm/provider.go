// Package llm provides access to chat-completion model providers.
package llm

import "context"

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is the external chat-completion capability. Implementations
// return the assistant's text for a model id and an ordered message list.
// This is the only blocking call in the pipeline; cancellation is the
// provider's concern via ctx.
type Provider interface {
	Complete(ctx context.Context, model string, messages []Message, maxTokens int, temperature float64) (string, error)
}
