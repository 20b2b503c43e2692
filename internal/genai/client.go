// Package genai generates single-page applications through the Groq
// chat-completions API.
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"git.home.luguber.info/inful/appsmith/internal/task"
	"git.home.luguber.info/inful/appsmith/internal/version"
)

const (
	defaultAPIURL = "https://api.groq.com/openai/v1"

	// Fixed sampling parameters for app generation.
	model       = "llama-3.3-70b-versatile"
	temperature = 0.7
	maxTokens   = 8000
)

// Client calls the Groq chat-completions endpoint.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
}

// NewClient creates a Groq client. apiURL may be empty for the public endpoint.
func NewClient(apiKey, apiURL string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq client requires an API key")
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		apiURL:     apiURL,
		apiKey:     apiKey,
	}
	if c.apiURL == "" {
		c.apiURL = defaultAPIURL
	}
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateApp builds the prompt for the request and returns the generated
// HTML document as plain text. There is no retry at this layer; transport
// failures and non-2xx responses propagate to the pipeline.
func (c *Client) GenerateApp(ctx context.Context, brief string, checks []string, attachments []task.Attachment) (string, error) {
	payload := chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(brief, checks, attachments)},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	var result chatCompletionResponse
	if err := c.doRequest(ctx, "/chat/completions", payload, &result); err != nil {
		return "", fmt.Errorf("generate app: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("generate app: response contained no choices")
	}

	return ExtractHTML(result.Choices[0].Message.Content), nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, body, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+endpoint, strings.NewReader(string(jsonBody)))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Appsmith/"+version.Version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("groq API error: %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}
