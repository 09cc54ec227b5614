package llmclient

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// DefaultModel matches the model pinned by the original deployment
const DefaultModel = "gemini-2.0-flash-exp"

// defaultCallTimeout bounds each outbound generation call
const defaultCallTimeout = 60 * time.Second

// GoogleClient wraps the Google genai SDK client
type GoogleClient struct {
	client   *genai.Client
	model    string
	strategy SystemTurnStrategy
	timeout  time.Duration
}

// GoogleOption configures a GoogleClient
type GoogleOption func(*GoogleClient)

// WithModel overrides the generation model
func WithModel(model string) GoogleOption {
	return func(c *GoogleClient) {
		c.model = model
	}
}

// WithSystemTurnStrategy selects how the system message is delivered
func WithSystemTurnStrategy(strategy SystemTurnStrategy) GoogleOption {
	return func(c *GoogleClient) {
		c.strategy = strategy
	}
}

// WithCallTimeout bounds each generation call
func WithCallTimeout(d time.Duration) GoogleOption {
	return func(c *GoogleClient) {
		c.timeout = d
	}
}

// NewGoogleClient creates a new Google client wrapper
func NewGoogleClient(ctx context.Context, apiKey string, opts ...GoogleOption) (*GoogleClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	gc := &GoogleClient{
		client:   client,
		model:    DefaultModel,
		strategy: SystemTurnAsUserTurn,
		timeout:  defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(gc)
	}
	return gc, nil
}

// assemble builds the outbound sequence and call config per the configured
// system-turn strategy.
func (c *GoogleClient) assemble(req Request) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: DefaultMaxOutputTokens,
	}

	contents := make([]*genai.Content, 0, len(req.History)+2)
	switch c.strategy {
	case SystemTurnNative:
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.SystemMessage)},
		}
	default:
		contents = append(contents, genai.NewContentFromText(req.SystemMessage, genai.RoleUser))
	}
	contents = append(contents, req.History...)
	contents = append(contents, genai.NewContentFromText(req.Prompt, genai.RoleUser))
	return contents, config
}

// Generate assembles the outbound message sequence per the configured
// system-turn strategy and invokes the model once. No retries.
func (c *GoogleClient) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents, config := c.assemble(req)
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		logrus.Errorf("Gemini generation failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrUpstream)
	}
	return text, nil
}
