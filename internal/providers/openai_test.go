package providers

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestOpenAIClientDefaults(t *testing.T) {
	c := NewOpenAIClient(OpenAIConfig{APIKey: "test"})

	if c.defaultModel != openAIDefaultModel {
		t.Errorf("default model = %q, want %q", c.defaultModel, openAIDefaultModel)
	}
	if c.maxRetries != defaultMaxRetries {
		t.Errorf("max retries = %d, want %d", c.maxRetries, defaultMaxRetries)
	}
	if c.Name() != OpenAIClientName {
		t.Errorf("Name = %q, want %q", c.Name(), OpenAIClientName)
	}
}

// TestOpenAIClientIntegration exercises the real API. Requires
// OPENAI_API_KEY; skipped in short mode.
func TestOpenAIClientIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set")
	}

	c := NewOpenAIClient(OpenAIConfig{APIKey: apiKey})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := c.Chat(ctx, &ChatRequest{
		Messages: []Message{
			{Role: "system", Content: "You are a terse assistant."},
			{Role: "user", Content: "Reply with the single word: ok"},
		},
		MaxTokens: 16,
	})
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if res.Content == "" {
		t.Error("empty completion content")
	}
	if res.TotalTokens == 0 {
		t.Error("usage not reported")
	}
}
