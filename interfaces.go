package legalrag

import "context"

// ScoredRecord is one hit returned by a vector Index query, with the
// index's own similarity score (cosine or inner-product, backend
// dependent) already computed.
type ScoredRecord struct {
	ChunkID  string
	Score    float64
	Text     string
	Metadata map[string]MetadataValue
}

// ScannedRecord is one record returned by a bounded Index.Scan, used by
// the keyword-anchoring fallback.
// It carries no similarity score since it was not reached via vector
// search.
type ScannedRecord struct {
	ChunkID  string
	Text     string
	Metadata map[string]MetadataValue
}

// IndexStats reports the index's record count and declared vector
// dimension.
type IndexStats struct {
	RecordCount int
	Dimension   int
}

// Embedder is the external embedding provider collaborator (spec.md
// §6.1). Implementations may batch; callers must not assume order-only
// correlation beyond index position.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([]Embedding, error)
}

// Index is the external vector-index collaborator (spec.md §6.2).
// Implementations back it with an embedded store (sqlite-vec) or a
// production one (pgvector over Postgres).
type Index interface {
	Upsert(ctx context.Context, records []IndexRecord) error
	DeleteByFilter(ctx context.Context, filter map[string]MetadataValue) error
	ReplaceDocument(ctx context.Context, docID string, records []IndexRecord) error
	Query(ctx context.Context, vector Embedding, topK int, filter map[string]MetadataValue) ([]ScoredRecord, error)
	Scan(ctx context.Context, filter map[string]MetadataValue, limit int) ([]ScannedRecord, error)
	Stats(ctx context.Context) (IndexStats, error)
	Dimension() int
}

// Chat is the external LLM chat/completion collaborator (spec.md §6.3).
type Chat interface {
	Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error)
}
