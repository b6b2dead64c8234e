package generation

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// MistralBaseURL is the default OpenAI-compatible endpoint.
const MistralBaseURL = "https://api.mistral.ai/v1/"

// OpenAIConfig configures an OpenAI-compatible chat completion provider.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	HTTPClient  *http.Client
}

// OpenAIService talks to any OpenAI-compatible chat completion API (Mistral by default).
type OpenAIService struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewOpenAIService builds the provider. Retries are left to the caller's timeout.
func NewOpenAIService(cfg OpenAIConfig) (*OpenAIService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai provider: API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openai provider: model is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = MistralBaseURL
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIService{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Generate implements Service.
func (s *OpenAIService) Generate(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt(req)),
			openai.UserMessage(UserPrompt(req)),
		},
		Model:       openai.ChatModel(s.model),
		Temperature: openai.Float(s.temperature),
	}
	if s.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(s.maxTokens))
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// Healthy implements Service by looking up the configured model.
func (s *OpenAIService) Healthy(ctx context.Context) bool {
	_, err := s.client.Models.Get(ctx, s.model)
	return err == nil
}

var _ Service = (*OpenAIService)(nil)
