// Package llm is the optional external reasoning collaborator: it renders the
// orchestrator's structured payload as natural language through an
// OpenAI-compatible chat completion endpoint. The core never depends on it
// for correctness, only for presentation; any failure degrades the caller to
// the structured payload.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/arvele/medassist-api/orchestrator"
)

const systemPrompt = "You are a careful medical information assistant. " +
	"Rewrite the structured decision-support payload below as short, plain prose for a patient. " +
	"Present safety findings first, keep every caveat, and do not add any medical claim that is not in the payload. " +
	"End with the disclaimer verbatim."

// Client talks to an OpenAI-compatible chat completion API (Groq-style base
// URL). A nil client or an empty API key disables rendering.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// New creates a renderer client. Returns nil when no API key is configured,
// which callers treat as rendering disabled.
func New(baseURL, model, apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		model:      model,
		apiKey:     apiKey,
	}
}

// Enabled reports whether rendering is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Render posts the aggregated response to the chat endpoint and returns the
// natural-language rendering. The structured payload is the contract; this
// output is presentation only.
func (c *Client) Render(ctx context.Context, response orchestrator.AggregatedResponse) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("renderer is not configured")
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return "", fmt.Errorf("failed to marshal response payload: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(payload)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat endpoint returned status: %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("chat endpoint returned no choices")
	}

	return chat.Choices[0].Message.Content, nil
}
