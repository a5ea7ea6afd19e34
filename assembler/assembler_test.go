package assembler

import (
	"context"
	"testing"

	"github.com/brunobiangulo/legalrag"
	"github.com/brunobiangulo/legalrag/retrieval"
)

type fakeChat struct {
	answer string
	err    error
}

func (f fakeChat) Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	return f.answer, f.err
}

func sampleResult(chunkID string, score float64) legalrag.RetrievalResult {
	return legalrag.RetrievalResult{
		ChunkID: chunkID,
		Text:    "Section 3.2 excludes pre-existing conditions under clause 5a.",
		Metadata: map[string]legalrag.MetadataValue{
			"document_title": "Sample Policy",
			"section_anchor": "3.2",
			"section_title":  "Exclusions",
			"document_id":    "doc-1",
			"page_number":    3,
		},
		SemanticScore:   score,
		CombinedScore:   score,
		RetrievalMethod: legalrag.RetrievalMethodHybrid,
	}
}

func TestAssembleNoResultsReturnsNoResultsType(t *testing.T) {
	a := New(fakeChat{}, Config{})
	resp, err := a.Assemble(context.Background(), legalrag.QueryContext{Raw: "what is covered?"}, nil, retrieval.Trace{}, "2026-07-30T00:00:00Z")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if resp.ResponseType != legalrag.ResponseNoResults {
		t.Fatalf("expected no_results, got %s", resp.ResponseType)
	}
	if len(resp.Sources) != 0 {
		t.Fatalf("expected no sources, got %v", resp.Sources)
	}
}

func TestAssembleLLMFailureReturnsErrorType(t *testing.T) {
	a := New(fakeChat{err: legalrag.NewError(legalrag.KindHardExternal, "llm", legalrag.ErrLLMFailed)}, Config{})
	results := []legalrag.RetrievalResult{sampleResult("doc-1:1", 0.8)}
	resp, err := a.Assemble(context.Background(), legalrag.QueryContext{Raw: "is this excluded?"}, results, retrieval.Trace{}, "2026-07-30T00:00:00Z")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if resp.ResponseType != legalrag.ResponseError {
		t.Fatalf("expected error, got %s", resp.ResponseType)
	}
	if resp.Explainability.AuditTrail.FailedStage != "llm" {
		t.Fatalf("expected failed stage llm, got %q", resp.Explainability.AuditTrail.FailedStage)
	}
}

func TestAssembleSuccessPopulatesCitationsAndConfidence(t *testing.T) {
	answer := "Pre-existing conditions are excluded under clause 5a and section 3.2 of the policy."
	a := New(fakeChat{answer: answer}, Config{LLMMaxTokens: 4000, LLMTemperature: 0.1, MinSimilarityThreshold: 0.2})
	results := []legalrag.RetrievalResult{sampleResult("doc-1:1", 0.9)}
	qctx := legalrag.QueryContext{
		Raw:               "are pre-existing conditions excluded?",
		Normalized:        "are preexisting conditions excluded?",
		Intent:            legalrag.IntentExclusion,
		SubQuestions:      []string{"are pre-existing conditions excluded?"},
		MatchedCategories: []string{"preexisting_diseases"},
	}
	resp, err := a.Assemble(context.Background(), qctx, results, retrieval.Trace{ThresholdUsed: 0.5, Adaptive: true, StagesFired: []string{"semantic_fan_out", "fusion"}}, "2026-07-30T00:00:00Z")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if resp.ResponseType != legalrag.ResponseExclusion {
		t.Fatalf("expected exclusion, got %s", resp.ResponseType)
	}
	if len(resp.ClauseReferences) == 0 {
		t.Fatal("expected at least one clause reference extracted from the answer")
	}
	if resp.Confidence.Overall <= 0 {
		t.Fatalf("expected positive confidence, got %v", resp.Confidence.Overall)
	}
	if len(resp.Sources) != 1 {
		t.Fatalf("expected 1 source, got %d", len(resp.Sources))
	}
}

func TestDetectClauseIdentifiersFindsMultipleForms(t *testing.T) {
	text := "See Clause 5a, Section 3.2, Article 7, and paragraph 9 for details."
	ids := detectClauseIdentifiers(text)
	if len(ids) < 4 {
		t.Fatalf("expected at least 4 identifiers, got %v", ids)
	}
}

func TestUnansweredSubQuestionsDetectsMissingPart(t *testing.T) {
	answer := "The waiting period is 30 days."
	subs := []string{"what is the waiting period?", "what is the claim process?"}
	missing := unansweredSubQuestions(answer, subs)
	if len(missing) != 1 || missing[0] != 1 {
		t.Fatalf("expected index 1 missing, got %v", missing)
	}
}

func TestSelectResponseTypeContentCueOverridesIntent(t *testing.T) {
	rt := selectResponseType(legalrag.IntentInformationSeeking, "This condition is excluded from coverage.")
	if rt != legalrag.ResponseExclusion {
		t.Fatalf("expected exclusion override, got %s", rt)
	}
}
