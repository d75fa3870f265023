// Package ai wraps the external chat-completion collaborator. The rest of
// the application depends only on the Client interface so the model backend
// can be stubbed in tests and swapped in deployment.
package ai

import (
	"context"
	"errors"
)

// Message roles accepted by the chat endpoint.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions tune a single completion call.
type ChatOptions struct {
	// Model overrides the client's default model when non-empty.
	Model string
}

// Client produces a chat completion for the given conversation. Calls must
// respect context cancellation and fail fast on timeout; no retries are
// performed at this layer.
type Client interface {
	Chat(ctx context.Context, messages []Message, opts ChatOptions) (string, error)
}

// ErrEmptyCompletion is returned when the backend answers without content.
var ErrEmptyCompletion = errors.New("ai: empty completion")
