// Package providers defines the text-generation service boundary. The scan
// core only consumes generated text and settings objects; how the service
// is reached (network, authentication, model routing) stays behind the
// LLMClient interface.
package providers

import (
	"context"
	"time"
)

// LLMClient is the single operation the core needs from a text-generation
// service.
type LLMClient interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g. "openai").
	Name() string
}

// Message represents one role-tagged chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	// Required
	Messages []Message `json:"messages"`

	// Model selection (uses client default if empty)
	Model string `json:"model,omitempty"`

	// Generation parameters. The scan protocol runs with Temperature 0
	// for determinism; MaxTokens hard-caps the response length.
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens,omitempty"`

	// ProviderOptions carries provider-specific passthrough settings
	// (e.g. switches that disable internal thinking traces). The core
	// treats these as opaque.
	ProviderOptions map[string]any `json:"provider_options,omitempty"`

	// Request tracking
	RequestID string `json:"-"`
}

// ChatResult is the response from an LLM call.
type ChatResult struct {
	Content string `json:"content"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Timing and provenance
	ExecutionTime time.Duration `json:"execution_time"`
	Provider      string        `json:"provider"`
	ModelUsed     string        `json:"model_used"`

	// Request tracking
	RequestID string `json:"request_id"`
	Attempts  int    `json:"attempts"`
}
