package legalrag

// ResponseType tags the shape of a StructuredResponse as a variant.
// Each variant constrains which fields are required -- e.g. error
// implies empty Sources -- enforced by the assembler, not the boundary.
type ResponseType string

const (
	ResponseDirectAnswer   ResponseType = "direct_answer"
	ResponseProcedural     ResponseType = "procedural"
	ResponseExclusion      ResponseType = "exclusion"
	ResponseCoverage       ResponseType = "coverage"
	ResponseClaim          ResponseType = "claim"
	ResponseWaitingPeriod  ResponseType = "waiting_period"
	ResponsePremium        ResponseType = "premium"
	ResponseRenewal        ResponseType = "renewal"
	ResponseTermination    ResponseType = "termination"
	ResponseLimitation     ResponseType = "limitation"
	ResponseGeneral        ResponseType = "general"
	ResponseError          ResponseType = "error"
	ResponseNoResults      ResponseType = "no_results"
)

// ConfidenceLevel buckets an overall confidence score for display.
type ConfidenceLevel string

const (
	ConfidenceHigh     ConfidenceLevel = "high"
	ConfidenceMedium   ConfidenceLevel = "medium"
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceVeryLow  ConfidenceLevel = "very_low"
)

// Confidence is the structured confidence breakdown attached to every
// StructuredResponse (spec.md §3, §4.6 step 6).
type Confidence struct {
	Overall               float64
	Level                 ConfidenceLevel
	SourceRelevance       float64
	ResponseCompleteness  float64
	CitationQuality       float64
}

// ClauseReference cross-references a clause/section identifier mentioned
// in the answer against the clause identifiers detected in the source
// context (spec.md §4.6 step 5).
type ClauseReference struct {
	Identifier     string
	SourceChunkID  string
	FoundInResponse bool
}

// SourceRef is the citation-facing projection of a RetrievalResult.
type SourceRef struct {
	ChunkID        string
	DocumentTitle  string
	SectionAnchor  string
	SectionTitle   string
	PageNumber     int
	CombinedScore  float64
	RetrievalMethod RetrievalMethod
}

// SearchParameters records how retrieval was configured for this query.
type SearchParameters struct {
	ThresholdUsed float64
	Adaptive      bool
	Method        RetrievalMethod
}

// QualityIndicators are coarse, assembler-computed signals about the
// final answer's shape.
type QualityIndicators struct {
	Completeness  float64
	Specificity   float64
	CitationCount int
}

// WarningCode enumerates the structured warnings the assembler can emit.
type WarningCode string

const (
	WarningLowConfidence       WarningCode = "low_confidence"
	WarningFallbackUsed        WarningCode = "fallback_used"
	WarningThresholdRelaxed    WarningCode = "threshold_relaxed_below_minimum"
	WarningSubQuestionUnanswered WarningCode = "sub_question_unanswered"
)

// Warning is a structured, machine-readable caution attached to a response.
type Warning struct {
	Code    WarningCode
	Message string
}

// RecommendationCode enumerates the structured recommendations the
// assembler can emit.
type RecommendationCode string

const (
	RecommendationRephrase         RecommendationCode = "rephrase_query"
	RecommendationUploadDocuments  RecommendationCode = "upload_additional_documents"
)

// Recommendation is a structured, actionable suggestion attached to a response.
type Recommendation struct {
	Code    RecommendationCode
	Message string
}

// QueryAnalysis is the query-analysis slice of the explainability record.
type QueryAnalysis struct {
	Intent              Intent
	Complexity          Complexity
	NormalizationChanges []string
}

// SourceAnalysis is the source-analysis slice of the explainability record.
type SourceAnalysis struct {
	SourceCount             int
	DocumentsCovered        int
	PagesCovered            int
	SectionsCovered         int
	RetrievalMethodCounts   map[RetrievalMethod]int
}

// AuditTrail is the minimal audit slice of the explainability record.
type AuditTrail struct {
	Query           string
	Timestamp       string
	ThresholdChosen float64
	StagesFired     []string
	FailedStage     string // set only for error responses
}

// Explainability is the full explainability record attached to every
// StructuredResponse (spec.md §3, §4.6 step 9).
type Explainability struct {
	QueryAnalysis  QueryAnalysis
	SourceAnalysis SourceAnalysis
	AuditTrail     AuditTrail
}

// StructuredResponse is produced once per query and never mutated
// afterward (spec.md §3).
type StructuredResponse struct {
	ResponseID        string
	Timestamp         string
	Answer            string
	ResponseType      ResponseType
	Category          string
	Query             QueryContext
	Confidence        Confidence
	Sources           []SourceRef
	SearchParameters  SearchParameters
	QualityIndicators QualityIndicators
	Warnings          []Warning
	Recommendations   []Recommendation
	Explainability    Explainability
	ClauseReferences  []ClauseReference
}
