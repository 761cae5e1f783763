package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client. A missing API key is a ConfigError.
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, &ConfigError{Message: "gemini provider selected but GEMINI_API_KEY is not set"}
	}
	if config.Model == "" {
		return nil, &ConfigError{Message: "gemini provider selected but no model is configured"}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, &ConfigError{Message: "failed to create Gemini client", Cause: err}
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Complete sends prompt as a single user turn
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(c.config.Temperature)
	if c.config.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(c.config.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &APICallError{Message: "failed to generate content", Provider: ProviderGemini, Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", &APICallError{Message: "unusable response", Provider: ProviderGemini, Cause: err}
	}
	return StripMarkdownFence(text), nil
}

// Model returns the configured model id
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Provider returns ProviderGemini
func (c *GeminiClient) Provider() Provider {
	return ProviderGemini
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
