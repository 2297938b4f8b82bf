// Package ai talks to the OpenAI HTTP API: one vision-capable model turns a
// policy summary sheet photo into structured JSON, one text model writes the
// four-section health-check narrative. Both are single synchronous calls —
// no streaming, no retries; errors surface to the caller untouched.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

const chatCompletionsURL = "https://api.openai.com/v1/chat/completions"

// Client provides access to the OpenAI chat completions API.
type Client struct {
	apiKey      string
	visionModel string
	textModel   string
	httpClient  *http.Client
}

// NewClient creates a new OpenAI API client. Model names come from config so
// operators can switch models without a rebuild.
func NewClient(apiKey, visionModel, textModel string) *Client {
	return &Client{
		apiKey:      apiKey,
		visionModel: visionModel,
		textModel:   textModel,
		httpClient:  &http.Client{},
	}
}

type imageURL struct {
	URL string `json:"url"`
}

// contentPart is one element of a multimodal user message.
type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type message struct {
	Role string `json:"role"`
	// Content is a plain string for text-only messages and []contentPart for
	// multimodal ones — the API accepts both encodings.
	Content any `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *Client) chat(ctx context.Context, model string, msgs []message, temperature float64) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("openai: API key not configured")
	}

	payload, err := json.Marshal(chatRequest{Model: model, Messages: msgs, Temperature: temperature})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: API error status %d", resp.StatusCode)
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}

	log.Debug().
		Str("model", model).
		Int("total_tokens", result.Usage.TotalTokens).
		Msg("openai call completed")

	return result.Choices[0].Message.Content, nil
}
