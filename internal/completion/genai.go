package completion

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"deckforge/internal/config"
	"deckforge/internal/logging"
)

// GenAIClient implements Client on top of Google's Gemini API.
type GenAIClient struct {
	client      *genai.Client
	model       string
	timeout     time.Duration
	temperature float32
}

// NewGenAIClient creates a Gemini-backed completion client.
func NewGenAIClient(ctx context.Context, cfg config.CompletionConfig) (*GenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("completion API key is required (set DECKFORGE_API_KEY)")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = config.DefaultCompletionConfig().Model
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &GenAIClient{
		client:      client,
		model:       model,
		timeout:     timeout,
		temperature: float32(cfg.Temperature),
	}, nil
}

// Complete sends a single-prompt completion request.
func (c *GenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, "", prompt)
}

// CompleteWithSystem sends a completion request with a system prompt.
func (c *GenAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.generate(ctx, systemPrompt, userPrompt)
}

func (c *GenAIClient) generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	timer := logging.StartTimer(logging.CategoryAPI, "genai.GenerateContent")
	defer timer.Stop()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if systemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	logging.APIDebug("request model=%s system=%d user=%d chars", c.model, len(systemPrompt), len(userPrompt))
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), genCfg)
	if err != nil {
		logging.APIError("GenerateContent failed: %v", err)
		return "", fmt.Errorf("genai generate: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	logging.APIDebug("response %d chars", len(text))
	return text, nil
}
