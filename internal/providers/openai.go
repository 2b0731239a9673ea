package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIClientName   = "openai"
	openAIDefaultModel = "gpt-4o-mini"

	defaultMaxRetries = 3
	defaultRetryDelay = 500 * time.Millisecond
)

// OpenAIConfig configures the OpenAI-backed client.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string // Optional override for OpenAI-compatible endpoints
	DefaultModel string
	MaxRetries   int
	RetryDelay   time.Duration
}

// OpenAIClient implements LLMClient against the OpenAI chat completions API.
type OpenAIClient struct {
	client       openai.Client
	defaultModel string
	maxRetries   uint
	retryDelay   time.Duration
}

// NewOpenAIClient creates an OpenAI chat client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.DefaultModel
	if model == "" {
		model = openAIDefaultModel
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	return &OpenAIClient{
		client:       openai.NewClient(opts...),
		defaultModel: model,
		maxRetries:   uint(maxRetries),
		retryDelay:   retryDelay,
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIClientName
}

// Chat sends a chat completion request, retrying transient failures with
// exponential backoff.
func (c *OpenAIClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(m.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}

	// Opaque provider passthrough options are spliced into the request
	// body without interpretation.
	var reqOpts []option.RequestOption
	for key, value := range req.ProviderOptions {
		reqOpts = append(reqOpts, option.WithJSONSet(key, value))
	}

	var completion *openai.ChatCompletion
	attempts := 0
	err := retry.Do(
		func() error {
			attempts++
			resp, err := c.client.Chat.Completions.New(ctx, params, reqOpts...)
			if err != nil {
				return err
			}
			completion = resp
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetries),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai chat completion returned no choices")
	}

	return &ChatResult{
		Content:          completion.Choices[0].Message.Content,
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:      int(completion.Usage.TotalTokens),
		ExecutionTime:    time.Since(start),
		Provider:         OpenAIClientName,
		ModelUsed:        completion.Model,
		RequestID:        req.RequestID,
		Attempts:         attempts,
	}, nil
}

// Verify interface
var _ LLMClient = (*OpenAIClient)(nil)
