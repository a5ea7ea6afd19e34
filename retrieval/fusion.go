package retrieval

import "github.com/brunobiangulo/legalrag"

// fuse builds the Stage 3 RetrievalResult list from merged semantic
// candidates and the query's significant keywords (spec.md §4.3).
func fuse(candidates map[string]*candidate, keywords []string, enableKeyword bool, semanticWeight, keywordWeight float64) []legalrag.RetrievalResult {
	results := make([]legalrag.RetrievalResult, 0, len(candidates))
	for _, c := range candidates {
		var kw keywordScore
		if enableKeyword {
			kw = scoreKeywords(c.text, keywords)
		}

		combined := c.semanticScore
		method := legalrag.RetrievalMethodSemantic
		if enableKeyword && keywordWeight > 0 {
			combined = semanticWeight*c.semanticScore + keywordWeight*kw.score
			method = legalrag.RetrievalMethodHybrid
		}
		if combined > 1 {
			combined = 1
		}

		results = append(results, legalrag.RetrievalResult{
			ChunkID:         c.chunkID,
			Text:            c.text,
			Metadata:        c.metadata,
			SemanticScore:   c.semanticScore,
			KeywordScore:    kw.score,
			CombinedScore:   combined,
			RetrievalMethod: method,
			MatchedKeywords: kw.matched,
		})
	}
	return results
}
