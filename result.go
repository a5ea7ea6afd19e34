package legalrag

// RetrievalMethod records which retrieval path produced a RetrievalResult.
type RetrievalMethod string

const (
	RetrievalMethodSemantic        RetrievalMethod = "semantic"
	RetrievalMethodKeywordAnchoring RetrievalMethod = "keyword_anchoring"
	RetrievalMethodHybrid          RetrievalMethod = "hybrid"
)

// RetrievalResult is one candidate chunk surviving (or produced by
// fallback for) the retrieval pipeline, carrying every score and rank
// the re-ranker and response assembler need.
type RetrievalResult struct {
	ChunkID         string
	Text            string
	Metadata        map[string]MetadataValue
	SemanticScore   float64
	KeywordScore    float64
	CombinedScore   float64 // in [0,1]; 1 is never exceeded by construction
	StructuralRank  int     // 1, 2, or 3; 1 is best
	RetrievalMethod RetrievalMethod
	MatchedKeywords []string
}
