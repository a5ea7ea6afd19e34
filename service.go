package legalrag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brunobiangulo/legalrag/adapters/cache"
	"github.com/brunobiangulo/legalrag/assembler"
	"github.com/brunobiangulo/legalrag/chunker"
	"github.com/brunobiangulo/legalrag/domain"
	"github.com/brunobiangulo/legalrag/metrics"
	"github.com/brunobiangulo/legalrag/normalize"
	"github.com/brunobiangulo/legalrag/retrieval"
)

// maxQuestionBytes bounds the size of a raw question before any external
// call is attempted (spec.md §4.6 failure semantics: invalid input is a
// validation error, never escalated to the LLM).
const maxQuestionBytes = 8192

// Service is the core facade: it wires the domain dictionary, chunker,
// normalizer, hybrid retriever, and response assembler over a caller-
// supplied Embedder/Index/Chat triple (spec.md §6.4).
type Service struct {
	cfg        Config
	embedder   Embedder
	index      Index
	dict       *domain.Dictionary
	chunkr     *chunker.Chunker
	normalizer *normalize.Normalizer
	retriever  *retrieval.Engine
	assembler  *assembler.Assembler
	embedCache *cache.EmbeddingCache
}

// New builds a Service from its external collaborators, validating cfg
// against the index's declared dimension (spec.md §6.5).
func New(cfg Config, embedder Embedder, index Index, chat Chat) (*Service, error) {
	if err := cfg.Validate(index.Dimension()); err != nil {
		return nil, err
	}

	dict := domain.New()
	chunkr := chunker.New(chunker.Config{ChunkSize: cfg.ChunkSize, ChunkOverlap: cfg.ChunkOverlap}, dict)
	normalizer := normalize.New(dict)

	var embedCache *cache.EmbeddingCache
	if cfg.Cache.Enabled {
		c, err := cache.NewFromURL(cfg.Cache.RedisURL, cfg.Embedding.Model, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		if err != nil {
			return nil, NewError(KindConfiguration, "cache", err)
		}
		embedCache = c
		embedder = cache.NewEmbedder(embedCache, embedder)
	}

	// SemanticTopK has no dedicated Config field of its own (spec.md §6.5
	// names no such option); fixed at a constant fan-out width.
	retriever := retrieval.New(embedder, index, dict, retrieval.Config{
		SemanticTopK:              10,
		MinSimilarityThreshold:    cfg.MinSimilarityThreshold,
		MediumSimilarityThreshold: cfg.MediumSimilarityThreshold,
		HighSimilarityThreshold:   cfg.HighSimilarityThreshold,
		AdaptiveThreshold:         cfg.AdaptiveThreshold,
		MinResultsRequired:        cfg.MinResultsRequired,
		EnableHybridSearch:        cfg.EnableHybridSearch,
		SemanticWeight:            cfg.SemanticWeight,
		KeywordWeight:             cfg.KeywordWeight,
		EnableKeywordAnchoring:    cfg.EnableKeywordAnchoring,
		MaxKeywordSearchVectors:   cfg.MaxKeywordSearchVectors,
		MaxKeywordResults:         cfg.MaxKeywordResults,
		EnableQueryEnhancement:    cfg.EnableQueryEnhancement,
		MaxQueryVariants:          cfg.MaxQueryVariants,
	})

	asm := assembler.New(chat, assembler.Config{
		LLMMaxTokens:           cfg.LLMMaxTokens,
		LLMTemperature:         cfg.LLMTemperature,
		MinSimilarityThreshold: cfg.MinSimilarityThreshold,
	})

	return &Service{
		cfg:        cfg,
		embedder:   embedder,
		index:      index,
		dict:       dict,
		chunkr:     chunkr,
		normalizer: normalizer,
		retriever:  retriever,
		assembler:  asm,
		embedCache: embedCache,
	}, nil
}

// Close releases the embedding cache's Redis connection, if one was opened.
// Safe to call on a Service built without caching enabled.
func (s *Service) Close() error {
	return s.embedCache.Close()
}

// IngestResult is the outcome of an Ingest call (spec.md §6.4).
type IngestResult struct {
	ChunksWritten int
	Warnings      []string
}

// Ingest chunks rawText, embeds every chunk, and atomically replaces any
// prior chunks for docID (spec.md §5, §8 scenario 6). Idempotent by
// docID: re-ingestion fully replaces the prior snapshot, never merges.
func (s *Service) Ingest(ctx context.Context, docID, docTitle string, docType chunker.DocType, rawText string) (IngestResult, error) {
	if strings.TrimSpace(docID) == "" {
		return IngestResult{}, NewError(KindValidation, "ingest", ErrDocumentIDRequired)
	}
	if strings.TrimSpace(rawText) == "" {
		return IngestResult{}, NewError(KindValidation, "ingest", ErrRawTextEmpty)
	}

	chunks := s.chunkr.Chunk(docID, docTitle, docType, rawText)
	if len(chunks) == 0 {
		return IngestResult{}, NewError(KindValidation, "chunker", ErrRawTextEmpty)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return IngestResult{}, asExternalError(err, "embedding")
	}
	if len(vectors) != len(chunks) {
		return IngestResult{}, NewError(KindInternal, "embedding", fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks)))
	}

	var warnings []string
	records := make([]IndexRecord, 0, len(chunks))
	for i, c := range chunks {
		if vectors[i].IsZero() {
			warnings = append(warnings, fmt.Sprintf("chunk %s received a zero embedding and was skipped", c.ID))
			continue
		}
		records = append(records, IndexRecord{
			ChunkID:  c.ID,
			Vector:   vectors[i],
			Metadata: ChunkMetadata(c),
		})
	}

	if err := s.index.ReplaceDocument(ctx, docID, records); err != nil {
		return IngestResult{}, asExternalError(err, "vector_index")
	}
	metrics.IngestedChunks.WithLabelValues(string(docType)).Add(float64(len(records)))

	return IngestResult{ChunksWritten: len(records), Warnings: warnings}, nil
}

// queryOptions collects the optional overrides to Query (spec.md §6.4).
type queryOptions struct {
	topK          int
	baseThreshold *float64
	filter        map[string]MetadataValue
}

// QueryOption configures a single Query call.
type QueryOption func(*queryOptions)

// WithTopK overrides the number of sources returned in the final answer.
func WithTopK(k int) QueryOption {
	return func(o *queryOptions) { o.topK = k }
}

// WithBaseThreshold overrides the base similarity threshold before
// adaptive adjustment.
func WithBaseThreshold(t float64) QueryOption {
	return func(o *queryOptions) { o.baseThreshold = &t }
}

// WithFilter restricts retrieval to records matching filter.
func WithFilter(filter map[string]MetadataValue) QueryOption {
	return func(o *queryOptions) { o.filter = filter }
}

// Query runs a question through normalization, hybrid retrieval, and
// response assembly, returning a StructuredResponse (spec.md §3, §4.6).
func (s *Service) Query(ctx context.Context, question string, opts ...QueryOption) (*StructuredResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, NewError(KindValidation, "query", ErrEmptyQuestion)
	}
	if len(question) > maxQuestionBytes {
		return nil, NewError(KindValidation, "query", ErrQuestionTooLarge)
	}

	options := queryOptions{topK: 5}
	for _, o := range opts {
		o(&options)
	}
	baseThreshold := s.cfg.MediumSimilarityThreshold
	if options.baseThreshold != nil {
		baseThreshold = *options.baseThreshold
	}

	qctx := s.normalizer.Analyze(question)

	results, trace, err := s.retriever.Search(ctx, qctx, baseThreshold, options.topK, options.filter)
	if err != nil {
		return nil, asExternalError(err, "retrieval")
	}

	resp, err := s.assembler.Assemble(ctx, qctx, results, trace, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	resp.ResponseID = uuid.NewString()
	metrics.QueriesTotal.WithLabelValues(string(resp.ResponseType)).Inc()
	return resp, nil
}

// Diagnostics is the result of Analyze: the normalizer/intent-analyzer's
// output exposed directly, without running retrieval or the LLM
// (spec.md §6.4).
type Diagnostics struct {
	Normalized        string
	Intent            Intent
	Complexity        Complexity
	SubQuestions      []string
	MatchedCategories []string
}

// Analyze runs query normalization and intent analysis only, for manual
// inspection and the server's POST /analyze route (spec.md §6.4, §4.9).
// cmd/analyzecli calls the normalizer directly instead.
func (s *Service) Analyze(question string) Diagnostics {
	qctx := s.normalizer.Analyze(question)
	return Diagnostics{
		Normalized:        qctx.Normalized,
		Intent:            qctx.Intent,
		Complexity:        qctx.Complexity,
		SubQuestions:      qctx.SubQuestions,
		MatchedCategories: qctx.MatchedCategories,
	}
}

// asExternalError wraps err as KindHardExternal, preserving an existing
// *Error's kind if the callee already classified it.
func asExternalError(err error, stage string) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return NewError(KindHardExternal, stage, err)
}
