// Package provider adapts an OpenAI-compatible chat-completions API to
// the orchestrator's Provider interface.
package provider

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/emredev/devai/internal/config"
	apierrors "github.com/emredev/devai/internal/errors"
	"github.com/emredev/devai/internal/models"
)

// Temperatures per tier kind. Code output wants determinism; prose
// tolerates slightly more variety.
const (
	codeTemperature  = 0.1
	proseTemperature = 0.2
)

// OpenAIProvider calls an OpenAI-compatible endpoint with per-tier
// model selection.
type OpenAIProvider struct {
	client    *openai.Client
	cfg       config.Config
	timeout   time.Duration
	maxTokens int
}

// New creates a provider from the configuration. The API key comes
// from the environment, never from the config file.
func New(apiKey string, cfg config.Config) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.APIBase != "" {
		clientCfg.BaseURL = cfg.APIBase
	}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(clientCfg),
		cfg:       cfg,
		timeout:   time.Duration(cfg.RequestTimeout) * time.Second,
		maxTokens: cfg.MaxTokens,
	}
}

// Complete sends the conversation to the model configured for the tier
// and returns the assistant text. Failures are classified so the
// orchestrator can decide between escalation and surfacing.
func (p *OpenAIProvider) Complete(ctx context.Context, tier models.Tier, messages []models.Message) (string, error) {
	model := p.cfg.ModelForTier(tier)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    toChatMessages(messages),
		Temperature: temperatureFor(tier),
		MaxTokens:   p.maxTokens,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyError(model, err)
	}

	if len(resp.Choices) == 0 {
		return "", apierrors.NewProviderError(model, "response contained no choices", nil)
	}

	return resp.Choices[0].Message.Content, nil
}

func toChatMessages(messages []models.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		out[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}
	return out
}

func temperatureFor(tier models.Tier) float32 {
	if tier.ProducesCode() {
		return codeTemperature
	}
	return proseTemperature
}

// classifyError maps transport and API failures onto the error types
// the orchestrator keys its retry policy on.
func classifyError(model string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewTimeoutError("provider call exceeded deadline")
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if apierrors.LooksLikeContextOverflow(msg) || apiErr.Code == "context_length_exceeded" {
			return apierrors.NewContextOverflowError(model, msg)
		}
		return apierrors.NewProviderError(model, msg, err)
	}

	return apierrors.NewProviderError(model, err.Error(), err)
}
