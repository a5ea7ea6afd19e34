package legalrag

import "fmt"

// LLMConfig configures a single LLM provider endpoint, used for both the
// chat/completion role and the embedding role (spec.md §6.1, §6.3).
type LLMConfig struct {
	Provider string `json:"provider" yaml:"provider"` // ollama, lmstudio, openrouter, openai, groq, xai, gemini, custom
	Model    string `json:"model" yaml:"model"`
	BaseURL  string `json:"base_url" yaml:"base_url"`
	APIKey   string `json:"api_key" yaml:"api_key"`
}

// IndexConfig selects and configures the vector-index backing.
type IndexConfig struct {
	Backend string `json:"backend" yaml:"backend"` // "sqlitevec" or "pgvector"

	// sqlitevec backend.
	SQLitePath string `json:"sqlite_path" yaml:"sqlite_path"`

	// pgvector backend.
	PostgresDSN string `json:"postgres_dsn" yaml:"postgres_dsn"`
	Table       string `json:"table" yaml:"table"`
}

// CacheConfig configures the optional embedding memoization cache.
type CacheConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	RedisURL string `json:"redis_url" yaml:"redis_url"`
	TTLSeconds int  `json:"ttl_seconds" yaml:"ttl_seconds"`
}

// Config holds every recognized configuration option for the core
// (spec.md §6.5). It is loaded once and frozen after construction: the
// Service copies the fields it needs at New() time, so mutating a Config
// value afterward has no effect on a Service already built from it.
type Config struct {
	Chat      LLMConfig `json:"chat" yaml:"chat"`
	Embedding LLMConfig `json:"embedding" yaml:"embedding"`

	Index IndexConfig `json:"index" yaml:"index"`
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// Chunking (spec.md §4.1; words, not LLM tokens).
	ChunkSize    int `json:"chunk_size" yaml:"chunk_size"`
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"`

	// Threshold bounds T_min, T_med, T_high (spec.md §4.4).
	MinSimilarityThreshold    float64 `json:"min_similarity_threshold" yaml:"min_similarity_threshold"`
	MediumSimilarityThreshold float64 `json:"medium_similarity_threshold" yaml:"medium_similarity_threshold"`
	HighSimilarityThreshold   float64 `json:"high_similarity_threshold" yaml:"high_similarity_threshold"`
	AdaptiveThreshold         bool    `json:"adaptive_threshold" yaml:"adaptive_threshold"`
	MinResultsRequired        int     `json:"min_results_required" yaml:"min_results_required"`

	// Hybrid fusion (spec.md §4.3).
	EnableHybridSearch bool    `json:"enable_hybrid_search" yaml:"enable_hybrid_search"`
	SemanticWeight     float64 `json:"semantic_weight" yaml:"semantic_weight"`
	KeywordWeight      float64 `json:"keyword_weight" yaml:"keyword_weight"`

	// Keyword-anchoring fallback (spec.md §4.5).
	EnableKeywordAnchoring  bool `json:"enable_keyword_anchoring" yaml:"enable_keyword_anchoring"`
	MaxKeywordSearchVectors int  `json:"max_keyword_search_vectors" yaml:"max_keyword_search_vectors"`
	MaxKeywordResults       int  `json:"max_keyword_results" yaml:"max_keyword_results"`

	// Stage-1 fan-out (spec.md §4.3).
	EnableQueryEnhancement bool `json:"enable_query_enhancement" yaml:"enable_query_enhancement"`
	MaxQueryVariants       int  `json:"max_query_variants" yaml:"max_query_variants"`

	// LLM call shape (spec.md §4.6 step 3).
	LLMMaxTokens   int     `json:"llm_max_tokens" yaml:"llm_max_tokens"`
	LLMTemperature float64 `json:"llm_temperature" yaml:"llm_temperature"`

	// Deadlines (spec.md §5).
	QueryDeadlineMS int `json:"query_deadline_ms" yaml:"query_deadline_ms"`

	// Embedding (spec.md §6.1).
	EmbeddingDimension int  `json:"embedding_dimension" yaml:"embedding_dimension"`
	AllowEmbeddingFallback bool `json:"allow_embedding_fallback" yaml:"allow_embedding_fallback"`
}

// DefaultConfig returns the spec's chosen defaults (spec.md §9 Open
// Questions: the 800-word / 300-overlap sliding window, not the
// alternate 1000-token figure that also appears in the source
// documentation). Database/index defaults to an embedded sqlite-vec
// file, as the teacher repo defaults to a local sqlite database.
func DefaultConfig() Config {
	return Config{
		Chat: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.1:8b",
			BaseURL:  "http://localhost:11434",
		},
		Embedding: LLMConfig{
			Provider: "ollama",
			Model:    "nomic-embed-text",
			BaseURL:  "http://localhost:11434",
		},

		Index: IndexConfig{
			Backend:    "sqlitevec",
			SQLitePath: "legalrag.db",
			Table:      "chunks",
		},
		Cache: CacheConfig{
			Enabled:    false,
			RedisURL:   "redis://localhost:6379/0",
			TTLSeconds: 3600,
		},

		ChunkSize:    800,
		ChunkOverlap: 300,

		MinSimilarityThreshold:    0.2,
		MediumSimilarityThreshold: 0.5,
		HighSimilarityThreshold:   0.8,
		AdaptiveThreshold:         true,
		MinResultsRequired:        1,

		EnableHybridSearch: true,
		SemanticWeight:     0.7,
		KeywordWeight:      0.3,

		EnableKeywordAnchoring:  true,
		MaxKeywordSearchVectors: 1000,
		MaxKeywordResults:       3,

		EnableQueryEnhancement: true,
		MaxQueryVariants:       5,

		LLMMaxTokens:   4000,
		LLMTemperature: 0.1,

		QueryDeadlineMS: 10_000,

		EmbeddingDimension:     1024,
		AllowEmbeddingFallback: false,
	}
}

// Validate checks internal consistency, returning a KindConfiguration
// *Error for the first violation found (spec.md §7). Called once at
// Service construction time; Query/Ingest never re-validate.
func (c Config) Validate(indexDimension int) error {
	if c.ChunkSize <= 0 {
		return NewError(KindConfiguration, "config", fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize))
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return NewError(KindConfiguration, "config", fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d/%d", c.ChunkOverlap, c.ChunkSize))
	}
	if !(c.MinSimilarityThreshold <= c.MediumSimilarityThreshold && c.MediumSimilarityThreshold <= c.HighSimilarityThreshold) {
		return NewError(KindConfiguration, "config", fmt.Errorf("thresholds must satisfy T_min <= T_med <= T_high, got %v/%v/%v",
			c.MinSimilarityThreshold, c.MediumSimilarityThreshold, c.HighSimilarityThreshold))
	}
	if c.MinResultsRequired < 0 {
		return NewError(KindConfiguration, "config", fmt.Errorf("min_results_required must be >= 0"))
	}
	if c.EnableHybridSearch {
		sum := c.SemanticWeight + c.KeywordWeight
		if sum < 0.999 || sum > 1.001 {
			return NewError(KindConfiguration, "config", fmt.Errorf("%w: got %v + %v = %v", ErrFusionWeightsInvalid, c.SemanticWeight, c.KeywordWeight, sum))
		}
	}
	if c.MaxKeywordSearchVectors <= 0 {
		return NewError(KindConfiguration, "config", fmt.Errorf("max_keyword_search_vectors must be positive"))
	}
	if c.MaxKeywordResults <= 0 {
		return NewError(KindConfiguration, "config", fmt.Errorf("max_keyword_results must be positive"))
	}
	if c.MaxQueryVariants <= 0 || c.MaxQueryVariants > 5 {
		return NewError(KindConfiguration, "config", fmt.Errorf("max_query_variants must be in [1,5], got %d", c.MaxQueryVariants))
	}
	if c.LLMMaxTokens < 4000 {
		return NewError(KindConfiguration, "config", fmt.Errorf("llm_max_tokens must be >= 4000, got %d", c.LLMMaxTokens))
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 0.1 {
		return NewError(KindConfiguration, "config", fmt.Errorf("llm_temperature must be in [0, 0.1], got %v", c.LLMTemperature))
	}
	if c.QueryDeadlineMS <= 0 {
		return NewError(KindConfiguration, "config", fmt.Errorf("query_deadline_ms must be positive"))
	}
	if c.EmbeddingDimension <= 0 {
		return NewError(KindConfiguration, "config", fmt.Errorf("embedding_dimension must be positive"))
	}
	if indexDimension > 0 && c.EmbeddingDimension != indexDimension {
		return NewError(KindConfiguration, "config", fmt.Errorf("%w: configured %d, index declares %d", ErrDimensionMismatch, c.EmbeddingDimension, indexDimension))
	}
	return nil
}
