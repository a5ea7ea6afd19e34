// Package eval provides a small regression-testing harness for retrieval
// quality: a gold Q&A dataset plus precision/recall-style metrics computed
// against a Service's StructuredResponse, in the spirit of a legal-document
// answer's fact coverage rather than exact string matching.
package eval

// Difficulty levels for evaluation datasets.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Dataset is a collection of gold test cases for evaluation.
type Dataset struct {
	Name       string
	Difficulty string
	Tests      []TestCase
}

// TestCase defines a single evaluation question and the facts its answer
// must cover to be considered correct.
type TestCase struct {
	Question      string
	ExpectedFacts []string // substrings that should appear in the answer, case-insensitively
	Category      string   // single-fact, multi-hop, cross-document
}

// EasyDataset returns sample single-fact lookup cases over policy documents.
func EasyDataset() Dataset {
	return Dataset{
		Name:       "Easy - Single Fact Lookup",
		Difficulty: DifficultyEasy,
		Tests: []TestCase{
			{
				Question:      "What is the waiting period for pre-existing diseases?",
				ExpectedFacts: []string{"waiting period", "pre-existing"},
				Category:      "single-fact",
			},
			{
				Question:      "What is the grace period for premium payment?",
				ExpectedFacts: []string{"grace period", "premium"},
				Category:      "single-fact",
			},
			{
				Question:      "What is the sum insured under this policy?",
				ExpectedFacts: []string{"sum insured"},
				Category:      "single-fact",
			},
		},
	}
}

// MediumDataset returns sample multi-hop reasoning cases that require
// combining facts from more than one clause.
func MediumDataset() Dataset {
	return Dataset{
		Name:       "Medium - Multi-hop Reasoning",
		Difficulty: DifficultyMedium,
		Tests: []TestCase{
			{
				Question:      "Is hospitalization for a pre-existing disease covered, and if so after how long?",
				ExpectedFacts: []string{"pre-existing", "waiting period"},
				Category:      "multi-hop",
			},
			{
				Question:      "What happens to coverage if I miss a premium payment during the grace period?",
				ExpectedFacts: []string{"grace period", "premium", "coverage"},
				Category:      "multi-hop",
			},
		},
	}
}

// HardDataset returns sample cross-document synthesis cases.
func HardDataset() Dataset {
	return Dataset{
		Name:       "Hard - Cross-document Synthesis",
		Difficulty: DifficultyHard,
		Tests: []TestCase{
			{
				Question:      "Compare the claim exclusions across all ingested policy documents.",
				ExpectedFacts: []string{"exclusion", "claim"},
				Category:      "cross-document",
			},
		},
	}
}
