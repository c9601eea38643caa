package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	anthropicAPIURL  = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"

	defaultLLMModel     = "claude-sonnet-4-20250514"
	defaultLLMMaxTokens = 1024

	llmMaxAttempts  = 3
	llmBackoffBase  = 2 * time.Second
	llmRequestLimit = 60 * time.Second
)

// AnthropicConnector generates text via the Anthropic Messages API.
// Transient and rate-limited failures are retried with exponential backoff
// inside the call, bounded by the caller's context.
type AnthropicConnector struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewAnthropicConnector(apiKey string) *AnthropicConnector {
	return &AnthropicConnector{
		apiKey: apiKey,
		apiURL: anthropicAPIURL,
		client: &http.Client{Timeout: llmRequestLimit},
	}
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *AnthropicConnector) Generate(ctx context.Context, prompt string, opts LLMOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = defaultLLMModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultLLMMaxTokens
	}

	request := anthropicRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	}
	if opts.Temperature > 0 {
		request.Temperature = &opts.Temperature
	}

	var lastErr error
	for attempt := 0; attempt < llmMaxAttempts; attempt++ {
		if attempt > 0 {
			wait := llmBackoffBase << (attempt - 1)
			if connErr, ok := AsConnectorError(lastErr); ok && connErr.RetryAfter > wait {
				wait = connErr.RetryAfter
			}
			select {
			case <-ctx.Done():
				return "", NewConnectorError(ConnectorErrTransient, "generation cancelled", ctx.Err())
			case <-time.After(wait):
			}
		}

		text, err := c.callAPI(ctx, request)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if connErr, ok := AsConnectorError(err); !ok || !connErr.Retryable() {
			return "", err
		}
	}
	return "", lastErr
}

func (c *AnthropicConnector) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Summarize the following conversation in at most three sentences, keeping names, commitments and dates:\n\n%s", text)
	return c.Generate(ctx, prompt, LLMOptions{MaxTokens: 300})
}

func (c *AnthropicConnector) callAPI(ctx context.Context, request anthropicRequest) (string, error) {
	encoded, err := json.Marshal(request)
	if err != nil {
		return "", NewConnectorError(ConnectorErrPermanent, "failed to encode llm request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(encoded))
	if err != nil {
		return "", NewConnectorError(ConnectorErrPermanent, "failed to build llm request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", NewConnectorError(ConnectorErrTransient, "llm request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewConnectorError(ConnectorErrTransient, "failed to read llm response", err)
	}

	if resp.StatusCode != http.StatusOK {
		kind := classifyHTTPStatus(resp.StatusCode)
		return "", NewConnectorError(kind, fmt.Sprintf("llm api returned %d: %s", resp.StatusCode, string(body)), nil)
	}

	var decoded anthropicResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", NewConnectorError(ConnectorErrPermanent, "failed to decode llm response", err)
	}
	if decoded.Error != nil {
		return "", NewConnectorError(ConnectorErrPermanent, decoded.Error.Message, nil)
	}
	for _, block := range decoded.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", NewConnectorError(ConnectorErrPermanent, "llm response contained no text block", nil)
}
