// Package llmchat adapts a generic OpenAI-compatible chat completion
// endpoint to legalrag.Chat (spec.md §6.3). It is the LLM provider
// external collaborator: local providers (Ollama, LM Studio) and hosted
// ones (OpenAI, Groq, OpenRouter, xAI) all speak this wire format.
package llmchat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/brunobiangulo/legalrag"
)

// Client implements legalrag.Chat against an OpenAI-compatible
// /v1/chat/completions endpoint.
type Client struct {
	cfg    legalrag.LLMConfig
	client *http.Client
}

// New builds a Client from an LLM endpoint configuration.
func New(cfg legalrag.LLMConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Complete implements legalrag.Chat. It never returns an empty string on
// a nil error (spec.md §6.3: "never returns null on success").
func (c *Client) Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	body := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	respBody, err := c.doPost(ctx, "/v1/chat/completions", body)
	if err != nil {
		if legalrag.KindOf(err) == legalrag.KindHardExternal {
			return "", err
		}
		kind := legalrag.KindTransientExternal
		if ctx.Err() != nil {
			kind = legalrag.KindHardExternal
		}
		return "", legalrag.NewError(kind, "assembler.llm_call", err)
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", legalrag.NewError(legalrag.KindHardExternal, "assembler.llm_call", fmt.Errorf("decoding chat response: %w", err))
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", legalrag.NewError(legalrag.KindHardExternal, "assembler.llm_call", fmt.Errorf("empty completion from provider"))
	}

	return resp.Choices[0].Message.Content, nil
}

// doPost posts a JSON body and retries once on a transient HTTP status,
// matching the assembler's own "retry once on transient failure"
// contract (spec.md §4.6 step 3) rather than the many-attempt backoff a
// production HTTP client might otherwise use.
func (c *Client) doPost(ctx context.Context, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	url := c.cfg.BaseURL + path

	var lastErr error
	for attempt := 0; attempt <= 1; attempt++ {
		if attempt > 0 {
			slog.Warn("llmchat: retrying completion request", "url", url, "error", lastErr)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.cfg.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("request to %s failed: %w", url, err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("reading response body: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return respBody, nil
		}

		lastErr = fmt.Errorf("llm API error %d: %s", resp.StatusCode, string(respBody))
		if !retryableStatusCode(resp.StatusCode) {
			return nil, legalrag.NewError(legalrag.KindHardExternal, "assembler.llm_call", lastErr)
		}
	}
	return nil, fmt.Errorf("completion request failed after retry: %w", lastErr)
}

func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable ||
		code == http.StatusGatewayTimeout
}
