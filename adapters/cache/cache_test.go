package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/brunobiangulo/legalrag"
)

func TestEncodeDecodeEmbeddingRoundTrip(t *testing.T) {
	vec := legalrag.Embedding{0.5, -0.25, 1, 0}
	got := decodeEmbedding(encodeEmbedding(vec))
	if len(got) != len(vec) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(vec))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("index %d: got %v want %v", i, got[i], vec[i])
		}
	}
}

func TestNilEmbeddingCacheGetIsMiss(t *testing.T) {
	var c *EmbeddingCache
	if _, ok := c.Get(context.Background(), "anything"); ok {
		t.Fatal("expected miss on nil cache")
	}
}

type countingEmbedder struct {
	calls int
	texts []string
}

func (e *countingEmbedder) Embed(ctx context.Context, texts []string) ([]legalrag.Embedding, error) {
	e.calls++
	e.texts = append(e.texts, texts...)
	out := make([]legalrag.Embedding, len(texts))
	for i := range texts {
		out[i] = legalrag.Embedding{1, 0, 0}
	}
	return out, nil
}

func TestNewEmbedderPassesThroughWithNilCache(t *testing.T) {
	next := &countingEmbedder{}
	e := NewEmbedder(nil, next)
	vecs, err := e.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	if next.calls != 1 {
		t.Fatalf("expected 1 call to underlying embedder, got %d", next.calls)
	}
}

type erroringEmbedder struct{}

func (erroringEmbedder) Embed(ctx context.Context, texts []string) ([]legalrag.Embedding, error) {
	return nil, errors.New("boom")
}

func TestNewEmbedderPropagatesUnderlyingError(t *testing.T) {
	e := NewEmbedder(nil, erroringEmbedder{})
	if _, err := e.Embed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error from underlying embedder")
	}
}
