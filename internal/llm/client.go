package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Client wraps the Gemini API for chat generation and embeddings.
type Client struct {
	client         *genai.Client
	model          string
	embeddingModel string
}

// NewClient creates a Gemini client. apiKey may be empty, in which case the
// SDK falls back to its ambient credential discovery.
func NewClient(ctx context.Context, apiKey, model, embeddingModel string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client:         client,
		model:          model,
		embeddingModel: embeddingModel,
	}, nil
}

// contents converts a GenerateRequest into Gemini content turns. The prior
// conversation keeps its ordering; the prompt becomes the final user turn.
func contents(req GenerateRequest) []*genai.Content {
	result := make([]*genai.Content, 0, len(req.History)+1)
	for _, msg := range req.History {
		var role genai.Role = genai.RoleUser
		if msg.Role == RoleAssistant {
			role = genai.RoleModel
		}
		result = append(result, genai.NewContentFromText(msg.Content, role))
	}
	return append(result, genai.NewContentFromText(req.Prompt, genai.RoleUser))
}

func generateConfig(req GenerateRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	return cfg
}

// Generate performs a single non-streaming generation call and returns the
// full response text.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents(req), generateConfig(req))
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", c.model)
	}
	return text, nil
}

// GenerateStream performs a streaming generation call, invoking callback for
// each text increment as soon as the model yields it. The callback returning
// an error aborts the stream.
func (c *Client) GenerateStream(ctx context.Context, req GenerateRequest, callback func(chunk string) error) error {
	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.model, contents(req), generateConfig(req)) {
		if err != nil {
			return fmt.Errorf("generation stream failed: %w", err)
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		if err := callback(chunk); err != nil {
			return fmt.Errorf("callback error: %w", err)
		}
	}
	return nil
}
