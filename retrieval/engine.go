// Package retrieval implements the Hybrid Retriever multi-stage
// pipeline (spec.md §4.3, §4.4, §4.5): semantic fan-out, keyword
// scoring, score fusion, adaptive thresholding, structural re-ranking,
// and the keyword-anchoring fallback.
package retrieval

import (
	"context"
	"sort"
	"time"

	"github.com/brunobiangulo/legalrag"
	"github.com/brunobiangulo/legalrag/domain"
	"github.com/brunobiangulo/legalrag/metrics"
)

// Config is the subset of legalrag.Config the retrieval engine consults.
type Config struct {
	SemanticTopK            int
	MinSimilarityThreshold  float64
	MediumSimilarityThreshold float64
	HighSimilarityThreshold float64
	AdaptiveThreshold       bool
	MinResultsRequired      int

	EnableHybridSearch bool
	SemanticWeight      float64
	KeywordWeight       float64

	EnableKeywordAnchoring  bool
	MaxKeywordSearchVectors int
	MaxKeywordResults       int

	EnableQueryEnhancement bool
	MaxQueryVariants       int
}

// Trace records which stages fired and what threshold was chosen, for
// the assembler's explainability audit trail (spec.md §4.6 step 9).
type Trace struct {
	ThresholdUsed float64
	Adaptive      bool
	StagesFired   []string
	FallbackUsed  bool
}

// Engine is the Hybrid Retriever. It holds no mutable state beyond its
// collaborators and is safe for concurrent use across queries.
type Engine struct {
	embedder legalrag.Embedder
	index    legalrag.Index
	dict     *domain.Dictionary
	cfg      Config
}

// New builds a retrieval Engine.
func New(embedder legalrag.Embedder, index legalrag.Index, dict *domain.Dictionary, cfg Config) *Engine {
	if cfg.SemanticTopK <= 0 {
		cfg.SemanticTopK = 10
	}
	return &Engine{embedder: embedder, index: index, dict: dict, cfg: cfg}
}

// Search runs the full pipeline for one query and returns the final,
// truncated, ordered result list.
func (e *Engine) Search(ctx context.Context, qctx legalrag.QueryContext, baseThreshold float64, returnCount int, filter map[string]legalrag.MetadataValue) ([]legalrag.RetrievalResult, Trace, error) {
	trace := Trace{Adaptive: e.cfg.AdaptiveThreshold}

	maxVariants := e.cfg.MaxQueryVariants
	if !e.cfg.EnableQueryEnhancement {
		maxVariants = 1
	}
	variants := queryVariants(qctx, maxVariants)

	stageStart := time.Now()
	candidates, err := semanticFanOut(ctx, e.embedder, e.index, variants, e.cfg.SemanticTopK, filter)
	metrics.ObserveStage("semantic_fan_out", stageStart)
	if err != nil {
		return nil, trace, err
	}
	trace.StagesFired = append(trace.StagesFired, "semantic_fan_out")

	stageStart = time.Now()
	results := fuse(candidates, qctx.Keywords, e.cfg.EnableHybridSearch, e.cfg.SemanticWeight, e.cfg.KeywordWeight)
	metrics.ObserveStage("fusion", stageStart)
	trace.StagesFired = append(trace.StagesFired, "fusion")

	scores := make([]float64, 0, len(results))
	for _, r := range results {
		scores = append(scores, r.SemanticScore)
	}

	stageStart = time.Now()
	threshold := baseThreshold
	if e.cfg.AdaptiveThreshold {
		threshold = effectiveThreshold(baseThreshold, scores, e.cfg.MinSimilarityThreshold, e.cfg.MediumSimilarityThreshold, e.cfg.HighSimilarityThreshold)
		if threshold > baseThreshold {
			metrics.RecordThresholdAdjustment("tighten")
		} else if threshold < baseThreshold {
			metrics.RecordThresholdAdjustment("loosen")
		}
	}
	trace.ThresholdUsed = threshold
	metrics.ObserveStage("adaptive_threshold", stageStart)
	trace.StagesFired = append(trace.StagesFired, "adaptive_threshold")

	survivors := filterByThreshold(results, threshold)

	minRequired := e.cfg.MinResultsRequired
	if minRequired < 0 {
		minRequired = 0
	}
	if len(survivors) < minRequired {
		threshold = e.cfg.MinSimilarityThreshold
		trace.ThresholdUsed = threshold
		survivors = filterByThreshold(results, threshold)
		sort.SliceStable(survivors, func(i, j int) bool {
			return survivors[i].CombinedScore > survivors[j].CombinedScore
		})
		if len(survivors) > minRequired {
			survivors = survivors[:minRequired]
		}
	}

	if len(survivors) == 0 {
		if e.cfg.EnableKeywordAnchoring {
			stageStart = time.Now()
			fallbackResults, err := keywordAnchoringFallback(ctx, e.index, qctx, e.dict, filter, e.cfg.MaxKeywordSearchVectors, e.cfg.MaxKeywordResults)
			metrics.ObserveStage("keyword_anchoring_fallback", stageStart)
			if err != nil {
				return nil, trace, err
			}
			trace.StagesFired = append(trace.StagesFired, "keyword_anchoring_fallback")
			if len(fallbackResults) > 0 {
				trace.FallbackUsed = true
				metrics.FallbackActivations.Inc()
				return fallbackResults, trace, nil
			}
		}
		return nil, trace, nil
	}

	stageStart = time.Now()
	survivors = rerank(survivors, qctx.MatchedCategories, qctx.Intent, e.dict)
	metrics.ObserveStage("structural_rerank", stageStart)
	trace.StagesFired = append(trace.StagesFired, "structural_rerank")

	if returnCount > 0 && len(survivors) > returnCount {
		survivors = survivors[:returnCount]
	}
	return survivors, trace, nil
}

func filterByThreshold(results []legalrag.RetrievalResult, threshold float64) []legalrag.RetrievalResult {
	out := make([]legalrag.RetrievalResult, 0, len(results))
	for _, r := range results {
		if r.CombinedScore >= threshold {
			out = append(out, r)
		}
	}
	return out
}
