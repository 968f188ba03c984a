package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// Client sends one chat completion per prompt and degrades every failure to "".
type Client struct {
	model        llms.Model
	modelName    string
	systemPrompt string
	temperature  float64
	maxTokens    int
}

// NewClient builds the configured langchaingo provider.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	httpClient := &http.Client{}
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}

	var (
		model llms.Model
		err   error
	)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		httpClient.Transport = newMaxTokensTransport(nil)
		model, err = openai.New(
			openai.WithBaseURL(OpenAIBaseURL(cfg.EndpointURL)),
			openai.WithModel(cfg.Model),
			openai.WithToken(cfg.APIKey),
			openai.WithHTTPClient(httpClient),
		)
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithServerURL(OllamaServerURL(cfg.EndpointURL)),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return NewClientWithModel(model, cfg)
}

// NewClientWithModel wraps an existing langchaingo model.
func NewClientWithModel(model llms.Model, cfg config.LLMConfig) (*Client, error) {
	if model == nil {
		return nil, fmt.Errorf("llm model cannot be nil")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model name cannot be empty")
	}
	return &Client{
		model:        model,
		modelName:    cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
	}, nil
}

// Complete returns the model's reply, or "" on transport errors, non-2xx
// responses, malformed envelopes and empty choices.
func (c *Client) Complete(ctx context.Context, prompt string) string {
	l := logger.Get()
	start := time.Now()

	messages := make([]llms.MessageContent, 0, 2)
	if c.systemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, c.systemPrompt))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithModel(c.modelName),
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		l.Error("LLM call failed",
			zap.String("code", string(domain.CodeLLMServiceError)),
			zap.String("model", c.modelName),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return ""
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		l.Error("LLM returned no choices",
			zap.String("code", string(domain.CodeLLMServiceError)),
			zap.String("model", c.modelName))
		return ""
	}

	content := resp.Choices[0].Content
	l.Debug("Raw LLM response received",
		zap.String("model", c.modelName),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("raw_response", content))
	return content
}

// OpenAIBaseURL accepts either the API base (".../v1") or the full
// chat-completions URL and returns the base the openai client expects.
func OpenAIBaseURL(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	return strings.TrimSuffix(endpoint, "/chat/completions")
}

// OllamaServerURL strips an explicit "/api/chat" or "/api/generate" path.
func OllamaServerURL(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	endpoint = strings.TrimSuffix(endpoint, "/api/chat")
	return strings.TrimSuffix(endpoint, "/api/generate")
}

var _ domain.CompletionClient = (*Client)(nil)
