package oracle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the OpenAI-compatible chat completion adapter. A
// custom BaseURL points the same adapter at GitHub Models, Azure OpenAI, or
// any other OpenAI-compatible gateway.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIOracle is the production Oracle backed by an OpenAI-compatible
// chat completions API.
type OpenAIOracle struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIOracle constructs the adapter. The per-call timeout lives on the
// underlying HTTP client so a stuck backend can never block a judgment
// goroutine indefinitely.
func NewOpenAIOracle(cfg OpenAIConfig, logger *slog.Logger) *OpenAIOracle {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIOracle{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}
}

// Judge sends one chat completion request. Ordinary failures collapse to
// ("", nil) per the Oracle contract; HTTP 429 surfaces as ErrRateLimited.
func (o *OpenAIOracle) Judge(ctx context.Context, req JudgmentRequest) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		if isRateLimited(err) {
			return "", ErrRateLimited
		}
		o.logger.WarnContext(ctx, "oracle call failed",
			"model", o.model,
			"error", err,
		)
		return "", nil
	}

	if len(resp.Choices) == 0 {
		o.logger.WarnContext(ctx, "oracle returned no choices", "model", o.model)
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
