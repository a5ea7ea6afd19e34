// Package cache provides a Redis-backed memoization cache for embedding
// lookups, keyed by a content hash of (model, text) rather than the raw
// query text itself, so it never becomes a persistent store of query
// history (spec.md §5, §9 non-goals).
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brunobiangulo/legalrag"
)

// EmbeddingCache wraps a legalrag.Embedder with a bounded-TTL Redis layer.
// A nil *EmbeddingCache behaves as a no-op passthrough.
type EmbeddingCache struct {
	client *redis.Client
	ttl    time.Duration
	model  string
}

// New connects to addr and returns an EmbeddingCache with the given TTL and
// model tag (included in the cache key so switching embedding models never
// serves stale vectors from a different model).
func New(addr, password string, db int, model string, ttl time.Duration) (*EmbeddingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("pinging embedding cache: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &EmbeddingCache{client: client, ttl: ttl, model: model}, nil
}

// NewFromURL connects using a redis:// URL (as accepted by redis.ParseURL)
// instead of discrete addr/password/db fields.
func NewFromURL(rawURL, model string, ttl time.Duration) (*EmbeddingCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing embedding cache url: %w", err)
	}
	return New(opts.Addr, opts.Password, opts.DB, model, ttl)
}

// Close closes the underlying Redis connection.
func (c *EmbeddingCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *EmbeddingCache) key(text string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return "legalrag:embed:" + c.model + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached embedding for text, if present.
func (c *EmbeddingCache) Get(ctx context.Context, text string) (legalrag.Embedding, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.key(text)).Bytes()
	if err != nil {
		return nil, false
	}
	return decodeEmbedding(raw), true
}

// Set stores vec for text with the cache's configured TTL.
func (c *EmbeddingCache) Set(ctx context.Context, text string, vec legalrag.Embedding) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, c.key(text), encodeEmbedding(vec), c.ttl).Err()
}

// Embedder wraps an underlying legalrag.Embedder, serving cache hits and
// writing through on misses. Batches are split so only uncached texts reach
// the wrapped embedder.
type Embedder struct {
	cache *EmbeddingCache
	next  legalrag.Embedder
}

// NewEmbedder builds a cache-through Embedder. A nil cache degrades to
// calling next directly.
func NewEmbedder(cache *EmbeddingCache, next legalrag.Embedder) *Embedder {
	return &Embedder{cache: cache, next: next}
}

// Embed implements legalrag.Embedder, serving cached vectors and only
// calling the wrapped embedder for texts that missed.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([]legalrag.Embedding, error) {
	if e.cache == nil {
		return e.next.Embed(ctx, texts)
	}

	out := make([]legalrag.Embedding, len(texts))
	var missIdx []int
	var missTexts []string
	for i, text := range texts {
		if vec, ok := e.cache.Get(ctx, text); ok {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	fresh, err := e.next.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, idx := range missIdx {
		out[idx] = fresh[j]
		_ = e.cache.Set(ctx, missTexts[j], fresh[j])
	}
	return out, nil
}

func encodeEmbedding(vec legalrag.Embedding) []byte {
	buf := make([]byte, len(vec)*4)
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeEmbedding(raw []byte) legalrag.Embedding {
	vec := make(legalrag.Embedding, len(raw)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return vec
}
