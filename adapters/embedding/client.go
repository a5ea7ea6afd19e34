// Package embedding adapts a generic OpenAI-compatible embeddings
// endpoint to legalrag.Embedder (spec.md §6.1).
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/brunobiangulo/legalrag"
)

// Client implements legalrag.Embedder against an OpenAI-compatible
// /v1/embeddings endpoint. When AllowFallback is set, an all-zero or
// failed embedding is replaced by a deterministic pseudo-random vector
// derived from the text (spec.md §6.1: "non-production paths" only —
// callers gate AllowFallback off in production via Config.AllowEmbeddingFallback).
type Client struct {
	cfg           legalrag.LLMConfig
	dimension     int
	client        *http.Client
	AllowFallback bool
}

// New builds a Client from an embedding endpoint configuration and the
// index's declared vector dimension.
func New(cfg legalrag.LLMConfig, dimension int, allowFallback bool) *Client {
	return &Client{
		cfg:           cfg,
		dimension:     dimension,
		client:        &http.Client{Timeout: 60 * time.Second},
		AllowFallback: allowFallback,
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed implements legalrag.Embedder.
func (c *Client) Embed(ctx context.Context, texts []string) ([]legalrag.Embedding, error) {
	out := make([]legalrag.Embedding, len(texts))

	respBody, err := c.request(ctx, texts)
	if err != nil {
		if !c.AllowFallback {
			return nil, legalrag.NewError(legalrag.KindTransientExternal, "embedding.call", err)
		}
		for i, text := range texts {
			out[i] = deterministicFallback(text, c.dimension)
		}
		return out, nil
	}

	var resp embeddingResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, legalrag.NewError(legalrag.KindHardExternal, "embedding.call", fmt.Errorf("decoding embedding response: %w", err))
	}

	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			continue
		}
		out[d.Index] = legalrag.Embedding(d.Embedding)
	}

	for i, vec := range out {
		if !vec.IsZero() {
			continue
		}
		if !c.AllowFallback {
			return nil, legalrag.NewError(legalrag.KindHardExternal, "embedding.call", legalrag.ErrZeroEmbedding)
		}
		out[i] = deterministicFallback(texts[i], c.dimension)
	}
	return out, nil
}

func (c *Client) request(ctx context.Context, texts []string) ([]byte, error) {
	body := embeddingRequest{Model: c.cfg.Model, Input: texts}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/embeddings", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API error %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
