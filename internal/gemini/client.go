package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Client sends prompts to the Gemini API. Credentials stay server-side;
// browsers only ever talk to our own chat endpoint.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Gemini client.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate makes exactly one generation call and returns either the
// response text or a classified GenError. It never panics past the caller
// and performs no internal retries; retry policy belongs upstream.
func (c *Client) Generate(ctx context.Context, prompt string) (string, *GenError) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		genErr := Classify(err)
		slog.Warn("Gemini generation failed", "kind", genErr.Kind.String(), "error", err)
		return "", genErr
	}

	if blocked(resp) {
		slog.Warn("Gemini response blocked by safety filters")
		return "", newGenError(KindContentBlocked, nil)
	}

	text := resp.Text()
	if text == "" {
		slog.Warn("Gemini returned an empty response")
		return "", newGenError(KindUnknown, nil)
	}
	return text, nil
}

// blocked reports whether the service refused to answer on safety
// grounds, either at the prompt or at the candidate level.
func blocked(resp *genai.GenerateContentResponse) bool {
	if resp == nil {
		return false
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		return true
	}
	for _, cand := range resp.Candidates {
		if cand != nil && cand.FinishReason == genai.FinishReasonSafety {
			return true
		}
	}
	return false
}
