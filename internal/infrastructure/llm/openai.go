package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"ListingForge/internal/config"
	"ListingForge/internal/ports"
)

// maxTokensCeiling bounds the per-call completion budget regardless of
// configuration.
const maxTokensCeiling = 4096

// OpenAIClient implements ports.ChatClient on the official openai-go SDK
// (chat completions).
type OpenAIClient struct {
	model       string
	temperature float64
	maxTokens   int64
	opts        []option.RequestOption
}

var _ ports.ChatClient = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from configuration.
func NewOpenAIClient(cfg config.LLMConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key missing")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm model is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 || maxTokens > maxTokensCeiling {
		maxTokens = maxTokensCeiling
	}

	return &OpenAIClient{
		model:       cfg.Model,
		temperature: cfg.TemperatureValue(),
		maxTokens:   maxTokens,
		opts:        opts,
	}, nil
}

// Complete posts the system and user prompts as one chat completion and
// returns the text payload.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	if system == "" || user == "" {
		return "", fmt.Errorf("empty prompt")
	}

	client := openai.NewClient(c.opts...)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(c.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
