package legalrag

// Intent is drawn from the closed set of legal/insurance query intents.
type Intent string

const (
	IntentInformationSeeking Intent = "information_seeking"
	IntentProcedural         Intent = "procedural"
	IntentCoverage           Intent = "coverage"
	IntentExclusion          Intent = "exclusion"
	IntentFinancial          Intent = "financial"
	IntentTemporal           Intent = "temporal"
	IntentClaim              Intent = "claim"
)

// Complexity buckets a query by how much work answering it requires.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// QueryContext is the canonicalized, analyzed form of a user question,
// carried through the entire retrieval and assembly pipeline.
type QueryContext struct {
	Raw           string
	Normalized    string
	Intent        Intent
	Complexity    Complexity
	Keywords      []string
	SubQuestions  []string

	// IntentConfidence and MatchedCategories are diagnostic fields
	// (spec.md §6.4). MatchedCategories also drives the structural
	// re-ranker's category co-occurrence rank (spec.md §4.4) and the
	// keyword-anchoring fallback's keyword list; IntentConfidence is
	// not read by the pipeline.
	IntentConfidence float64
	MatchedCategories []string
}
