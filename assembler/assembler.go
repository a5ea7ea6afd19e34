// Package assembler implements the Response Assembler (spec.md §4.6): it
// turns the Hybrid Retriever's ranked results into a StructuredResponse,
// formatting context, prompting the external LLM, extracting citations,
// scoring confidence, and attaching explainability metadata.
package assembler

import (
	"context"
	"strings"

	"github.com/brunobiangulo/legalrag"
	"github.com/brunobiangulo/legalrag/retrieval"
)

// Config is the subset of legalrag.Config the assembler consults.
type Config struct {
	LLMMaxTokens   int
	LLMTemperature float64
	MinSimilarityThreshold float64
}

// Assembler is the Response Assembler. It holds no mutable state beyond
// its LLM collaborator and is safe for concurrent use across queries.
type Assembler struct {
	chat legalrag.Chat
	cfg  Config
}

// New builds an Assembler over chat, the external LLM collaborator.
func New(chat legalrag.Chat, cfg Config) *Assembler {
	if cfg.LLMMaxTokens < 4000 {
		cfg.LLMMaxTokens = 4000
	}
	return &Assembler{chat: chat, cfg: cfg}
}

// Assemble implements spec.md §4.6's full pipeline. results is the final
// ranked list from the Hybrid Retriever (possibly empty, in which case a
// no_results response is returned without calling the LLM). trace carries
// the retrieval stages fired and whether fallback was used, for the
// explainability audit trail.
func (a *Assembler) Assemble(ctx context.Context, qctx legalrag.QueryContext, results []legalrag.RetrievalResult, trace retrieval.Trace, timestamp string) (*legalrag.StructuredResponse, error) {
	if len(results) == 0 {
		return a.noResultsResponse(qctx, trace, timestamp), nil
	}

	blocks := formatContext(results)
	formattedContext := joinFormatted(blocks)
	userBlock := buildUserBlock(formattedContext, qctx.Raw)

	answer, err := a.chat.Complete(ctx, systemDirective, userBlock, a.cfg.LLMMaxTokens, a.cfg.LLMTemperature)
	if err != nil {
		return a.errorResponse(qctx, trace, timestamp, "llm", err), nil
	}

	unanswered := unansweredSubQuestions(answer, qctx.SubQuestions)
	completeness := responseCompleteness(answer, a.cfg.LLMMaxTokens, unanswered, len(qctx.SubQuestions))

	clauseRefs := extractClauseReferences(answer, blocks)
	citationQuality := citationQualityScore(len(clauseRefs), len(qctx.SubQuestions))

	confidence := computeConfidence(results, completeness, citationQuality, len(strings.Fields(answer)), a.cfg.LLMMaxTokens)
	responseType := selectResponseType(qctx.Intent, answer)

	warnings := a.buildWarnings(confidence, trace, unanswered)
	recommendations := buildRecommendations(confidence, len(results))

	sources := buildSourceRefs(results)
	quality := legalrag.QualityIndicators{
		Completeness:  completeness,
		Specificity:   citationQuality,
		CitationCount: len(clauseRefs),
	}

	explain := legalrag.Explainability{
		QueryAnalysis: legalrag.QueryAnalysis{
			Intent:               qctx.Intent,
			Complexity:           qctx.Complexity,
			NormalizationChanges: normalizationChanges(qctx),
		},
		SourceAnalysis: buildSourceAnalysis(results),
		AuditTrail: legalrag.AuditTrail{
			Query:           qctx.Raw,
			Timestamp:       timestamp,
			ThresholdChosen: trace.ThresholdUsed,
			StagesFired:     trace.StagesFired,
		},
	}

	category := ""
	if len(qctx.MatchedCategories) > 0 {
		category = qctx.MatchedCategories[0]
	}

	return &legalrag.StructuredResponse{
		Timestamp:         timestamp,
		Answer:            answer,
		ResponseType:      responseType,
		Category:          category,
		Query:             qctx,
		Confidence:        confidence,
		Sources:           sources,
		SearchParameters: legalrag.SearchParameters{
			ThresholdUsed: trace.ThresholdUsed,
			Adaptive:      trace.Adaptive,
			Method:        dominantMethod(results),
		},
		QualityIndicators: quality,
		Warnings:          warnings,
		Recommendations:   recommendations,
		Explainability:    explain,
		ClauseReferences:  clauseRefs,
	}, nil
}

func (a *Assembler) noResultsResponse(qctx legalrag.QueryContext, trace retrieval.Trace, timestamp string) *legalrag.StructuredResponse {
	return &legalrag.StructuredResponse{
		Timestamp:    timestamp,
		Answer:       "",
		ResponseType: legalrag.ResponseNoResults,
		Query:        qctx,
		Confidence:   legalrag.Confidence{Level: legalrag.ConfidenceVeryLow},
		Warnings: []legalrag.Warning{{
			Code:    legalrag.WarningLowConfidence,
			Message: "no candidate sources survived retrieval for this query",
		}},
		Recommendations: []legalrag.Recommendation{{
			Code:    legalrag.RecommendationRephrase,
			Message: "try rephrasing the question or uploading additional relevant documents",
		}},
		Explainability: legalrag.Explainability{
			QueryAnalysis: legalrag.QueryAnalysis{
				Intent:               qctx.Intent,
				Complexity:           qctx.Complexity,
				NormalizationChanges: normalizationChanges(qctx),
			},
			AuditTrail: legalrag.AuditTrail{
				Query:           qctx.Raw,
				Timestamp:       timestamp,
				ThresholdChosen: trace.ThresholdUsed,
				StagesFired:     trace.StagesFired,
			},
		},
	}
}

func (a *Assembler) errorResponse(qctx legalrag.QueryContext, trace retrieval.Trace, timestamp, stage string, err error) *legalrag.StructuredResponse {
	return &legalrag.StructuredResponse{
		Timestamp:    timestamp,
		Answer:       "",
		ResponseType: legalrag.ResponseError,
		Query:        qctx,
		Confidence:   legalrag.Confidence{Level: legalrag.ConfidenceVeryLow},
		Explainability: legalrag.Explainability{
			QueryAnalysis: legalrag.QueryAnalysis{
				Intent:     qctx.Intent,
				Complexity: qctx.Complexity,
			},
			AuditTrail: legalrag.AuditTrail{
				Query:           qctx.Raw,
				Timestamp:       timestamp,
				ThresholdChosen: trace.ThresholdUsed,
				StagesFired:     trace.StagesFired,
				FailedStage:     stage,
			},
		},
	}
}

func (a *Assembler) buildWarnings(confidence legalrag.Confidence, trace retrieval.Trace, unanswered []int) []legalrag.Warning {
	var warnings []legalrag.Warning
	if confidence.Level == legalrag.ConfidenceLow || confidence.Level == legalrag.ConfidenceVeryLow {
		warnings = append(warnings, legalrag.Warning{
			Code:    legalrag.WarningLowConfidence,
			Message: "confidence in this answer is low; verify against the source documents",
		})
	}
	if trace.FallbackUsed {
		warnings = append(warnings, legalrag.Warning{
			Code:    legalrag.WarningFallbackUsed,
			Message: "semantic retrieval returned no survivors; results came from keyword-anchoring fallback",
		})
	}
	if trace.ThresholdUsed <= a.cfg.MinSimilarityThreshold {
		warnings = append(warnings, legalrag.Warning{
			Code:    legalrag.WarningThresholdRelaxed,
			Message: "the similarity threshold was relaxed to its floor to return any results",
		})
	}
	if w := buildSubQuestionWarning(unanswered); w != nil {
		warnings = append(warnings, *w)
	}
	return warnings
}

func buildRecommendations(confidence legalrag.Confidence, sourceCount int) []legalrag.Recommendation {
	var recs []legalrag.Recommendation
	if confidence.Level == legalrag.ConfidenceLow || confidence.Level == legalrag.ConfidenceVeryLow {
		recs = append(recs, legalrag.Recommendation{
			Code:    legalrag.RecommendationRephrase,
			Message: "try rephrasing the question to use terms closer to the source documents",
		})
	}
	if sourceCount < 3 {
		recs = append(recs, legalrag.Recommendation{
			Code:    legalrag.RecommendationUploadDocuments,
			Message: "uploading additional related documents may improve answer coverage",
		})
	}
	return recs
}

func buildSourceRefs(results []legalrag.RetrievalResult) []legalrag.SourceRef {
	refs := make([]legalrag.SourceRef, len(results))
	for i, r := range results {
		title, _ := r.Metadata["document_title"].(string)
		anchor, _ := r.Metadata["section_anchor"].(string)
		secTitle, _ := r.Metadata["section_title"].(string)
		page, _ := r.Metadata["page_number"].(int)
		refs[i] = legalrag.SourceRef{
			ChunkID:         r.ChunkID,
			DocumentTitle:   title,
			SectionAnchor:   anchor,
			SectionTitle:    secTitle,
			PageNumber:      page,
			CombinedScore:   r.CombinedScore,
			RetrievalMethod: r.RetrievalMethod,
		}
	}
	return refs
}

func buildSourceAnalysis(results []legalrag.RetrievalResult) legalrag.SourceAnalysis {
	documents := make(map[string]bool)
	pages := make(map[int]bool)
	sections := make(map[string]bool)
	methods := make(map[legalrag.RetrievalMethod]int)
	for _, r := range results {
		if docID, ok := r.Metadata["document_id"].(string); ok {
			documents[docID] = true
		}
		if page, ok := r.Metadata["page_number"].(int); ok && page > 0 {
			pages[page] = true
		}
		if anchor, ok := r.Metadata["section_anchor"].(string); ok && anchor != "" {
			sections[anchor] = true
		}
		methods[r.RetrievalMethod]++
	}
	return legalrag.SourceAnalysis{
		SourceCount:           len(results),
		DocumentsCovered:      len(documents),
		PagesCovered:          len(pages),
		SectionsCovered:       len(sections),
		RetrievalMethodCounts: methods,
	}
}

func dominantMethod(results []legalrag.RetrievalResult) legalrag.RetrievalMethod {
	counts := make(map[legalrag.RetrievalMethod]int)
	for _, r := range results {
		counts[r.RetrievalMethod]++
	}
	best := legalrag.RetrievalMethodSemantic
	bestCount := -1
	for method, count := range counts {
		if count > bestCount {
			best = method
			bestCount = count
		}
	}
	return best
}

// normalizationChanges reports a minimal diff summary between the raw and
// normalized query text for the explainability record (spec.md §4.6 step
// 9). The normalizer does not track substitutions individually, so this
// records only whether normalization changed the text at all.
func normalizationChanges(qctx legalrag.QueryContext) []string {
	if strings.TrimSpace(strings.ToLower(qctx.Raw)) == qctx.Normalized {
		return nil
	}
	return []string{"raw query normalized: \"" + qctx.Raw + "\" -> \"" + qctx.Normalized + "\""}
}
