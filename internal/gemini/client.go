package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is the free-tier model the proxy serves.
const DefaultModel = "gemini-2.5-flash"

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  client.GenerativeModel(modelName),
		name:   modelName,
	}, nil
}

func (c *Client) ModelName() string {
	return c.name
}

func (c *Client) Close() {
	c.client.Close()
}

// Generate sends one prompt and returns the concatenated text parts of the
// first candidate. A candidate without text yields "(empty response)", the
// same in-band placeholder the API has always returned.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	var b strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}

	if b.Len() == 0 {
		return "(empty response)", nil
	}
	return b.String(), nil
}
