package normalize

import (
	"testing"

	"github.com/brunobiangulo/legalrag"
	"github.com/brunobiangulo/legalrag/domain"
)

func TestAnalyzeSynonymSubstitution(t *testing.T) {
	n := New(domain.New())
	ctx := n.Analyze("Is PED covered under this policy?")

	if ctx.Raw != "Is PED covered under this policy?" {
		t.Errorf("raw mutated: %q", ctx.Raw)
	}
	if want := "preexisting diseases"; !contains(ctx.Normalized, want) {
		t.Errorf("normalized = %q, want substring %q", ctx.Normalized, want)
	}
}

func TestAnalyzeSubQuestionSplit(t *testing.T) {
	n := New(domain.New())
	ctx := n.Analyze("What is the waiting period, and is maternity covered?")

	if len(ctx.SubQuestions) < 2 {
		t.Fatalf("expected at least 2 sub-questions, got %d: %v", len(ctx.SubQuestions), ctx.SubQuestions)
	}
	for _, sq := range ctx.SubQuestions {
		if len(sq) < 4 {
			t.Errorf("sub-question too short: %q", sq)
		}
	}
}

func TestAnalyzeSingleQuestionNoSplitter(t *testing.T) {
	n := New(domain.New())
	ctx := n.Analyze("What is the sum insured?")
	if len(ctx.SubQuestions) != 1 {
		t.Errorf("expected 1 sub-question, got %d: %v", len(ctx.SubQuestions), ctx.SubQuestions)
	}
}

func TestAnalyzeIntentExclusionPriority(t *testing.T) {
	n := New(domain.New())
	ctx := n.Analyze("What exclusions and coverage apply to this policy?")
	if ctx.Intent != legalrag.IntentExclusion {
		t.Errorf("intent = %q, want %q", ctx.Intent, legalrag.IntentExclusion)
	}
}

func TestAnalyzeComplexityHighOnManyCategories(t *testing.T) {
	n := New(domain.New())
	ctx := n.Analyze("What are the exclusions, coverage, deductible, premium, and waiting period for this policy?")
	if ctx.Complexity != legalrag.ComplexityHigh {
		t.Errorf("complexity = %q, want high", ctx.Complexity)
	}
}

func TestAnalyzeNoCategoryMatchIsInformationSeeking(t *testing.T) {
	n := New(domain.New())
	ctx := n.Analyze("Tell me about the weather today")
	if ctx.Intent != legalrag.IntentInformationSeeking {
		t.Errorf("intent = %q, want information_seeking", ctx.Intent)
	}
	if ctx.IntentConfidence != 0 {
		t.Errorf("confidence = %v, want 0", ctx.IntentConfidence)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (func() bool {
		for i := 0; i+len(substr) <= len(s); i++ {
			if s[i:i+len(substr)] == substr {
				return true
			}
		}
		return false
	})()
}
