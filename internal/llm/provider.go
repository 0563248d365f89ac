// Package llm is the model layer behind problem generation, level tests and
// diagnostic reports. A Provider answers one structured request; the
// factory stacks timeout, retry and event logging around the backend.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured response.
type Provider interface {
	// Generate sends req and returns its content. When req.Schema is set
	// the content has been checked against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the resolved model the provider sends requests to.
	ModelID() string
}

// Request is a single-turn generation: a system prompt with the
// worksheet or report instructions, the user message, and the schema the
// answer must follow.
type Request struct {
	System   string
	Messages []Message

	// Schema selects the backend's structured output mode. Nil requests
	// free text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the backend default.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for a response body, such as
// "problem-set" or "diagnostic-report". The name doubles as the OpenAI
// json_schema name and the validation cache key, so it must be unique per
// definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a completed generation.
type Response struct {
	// Content is the JSON body, stripped of any code fence.
	Content json.RawMessage
	Usage   Usage

	// Model is the model the backend reports having used, which may be a
	// dated snapshot of ModelID.
	Model string

	// StopReason is "end" for a complete answer. Truncated answers are
	// returned as ErrMaxTokensExceeded instead.
	StopReason string
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
