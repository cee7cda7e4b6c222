// Package llm abstracts the vision-capable model providers used by the
// offline question extraction pipeline.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for model interaction. The extraction
// pipeline calls Generate with a prompt plus a page image and receives
// structured JSON.
type Provider interface {
	// Generate sends a request to the model and returns a structured
	// response. The request's Schema field, when set, instructs the
	// provider to return JSON conforming to that schema; the response
	// Content is the validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured
	// to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation. Extraction is single-turn: one user
	// message holding the instruction and the page image.
	Messages []Message

	// Schema is the JSON Schema the response must conform to. When set,
	// the provider uses its native structured output mechanism. When
	// nil, Content is raw text as json.RawMessage.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0. Default 0.
	Temperature float64
}

// Message is a single message in the conversation. Images, when present,
// are PNG bytes attached after the text content.
type Message struct {
	Role    Role
	Content string
	Images  [][]byte
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (tool name for Anthropic, schema name
	// for OpenAI). Kebab-case, e.g. "question-page".
	Name string

	// Description tells the model what this schema represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output; validated JSON when a Schema was
	// requested.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to: "end", "max_tokens", "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
