package generation

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	// BaseURL overrides the API endpoint; empty uses Google's.
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiService generates replies through the Gemini API.
type GeminiService struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// NewGeminiService creates a Gemini-backed provider.
func NewGeminiService(ctx context.Context, cfg GeminiConfig) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini provider: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiService{
		client:      client,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
	}, nil
}

// Generate implements Service.
func (s *GeminiService) Generate(ctx context.Context, req Request) (string, error) {
	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(req), genai.RoleUser),
		Temperature:       genai.Ptr(s.temperature),
	}
	if s.maxTokens > 0 {
		gc.MaxOutputTokens = s.maxTokens
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(UserPrompt(req)), gc)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

// Healthy implements Service.
func (s *GeminiService) Healthy(ctx context.Context) bool {
	_, err := s.client.Models.Get(ctx, s.model, nil)
	return err == nil
}

var _ Service = (*GeminiService)(nil)
