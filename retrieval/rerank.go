package retrieval

import (
	"sort"
	"strings"

	"github.com/brunobiangulo/legalrag"
	"github.com/brunobiangulo/legalrag/domain"
)

// structuralRank implements spec.md §4.4: rank 1 when the candidate
// text shares a matched query category, rank 2 when only a generic
// legal term overlaps, rank 3 otherwise.
func structuralRank(text string, queryCategories []string, dict *domain.Dictionary) int {
	lowerText := strings.ToLower(text)
	textCategories := dict.MatchedCategories(lowerText)
	for _, qc := range queryCategories {
		if _, ok := textCategories[domain.Category(qc)]; ok {
			return 1
		}
	}

	lowerText = " " + lowerText + " "
	for _, term := range domain.GeneralLegalTerms {
		needle := " " + term + " "
		if strings.Contains(lowerText, needle) {
			return 2
		}
	}
	return 3
}

// intentSectionHints are the section-title/category phrases that count
// as a match for each intent's context-aware re-rank boost (spec.md
// §4.4, e.g. temporal intent <-> "Waiting Period").
var intentSectionHints = map[legalrag.Intent][]string{
	legalrag.IntentTemporal:    {"waiting period", "cooling period", "moratorium"},
	legalrag.IntentCoverage:    {"coverage", "benefits", "scope of cover"},
	legalrag.IntentExclusion:   {"exclusion", "limitation"},
	legalrag.IntentFinancial:   {"premium", "deductible", "co-pay", "copay"},
	legalrag.IntentClaim:       {"claim", "reimbursement"},
	legalrag.IntentProcedural:  {"renewal", "termination", "cancellation"},
}

// matchesIntentHint reports whether the candidate's section title
// carries one of the intent's hint phrases.
func matchesIntentHint(sectionTitle string, intent legalrag.Intent) bool {
	hints, ok := intentSectionHints[intent]
	if !ok {
		return false
	}
	lower := strings.ToLower(sectionTitle)
	for _, hint := range hints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// rerank orders results by structural rank ascending, applies the
// intent boost within each bucket, and re-sorts by combined score desc
// (ties broken by ascending chunk ID for determinism), per spec.md §4.4.
func rerank(results []legalrag.RetrievalResult, queryCategories []string, intent legalrag.Intent, dict *domain.Dictionary) []legalrag.RetrievalResult {
	for i := range results {
		r := &results[i]
		r.StructuralRank = structuralRank(r.Text, queryCategories, dict)

		sectionTitle, _ := r.Metadata["section_title"].(string)
		if matchesIntentHint(sectionTitle, intent) {
			boosted := r.CombinedScore * 1.1
			if boosted > 1 {
				boosted = 1
			}
			r.CombinedScore = boosted
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.StructuralRank != b.StructuralRank {
			return a.StructuralRank < b.StructuralRank
		}
		if a.CombinedScore != b.CombinedScore {
			return a.CombinedScore > b.CombinedScore
		}
		return a.ChunkID < b.ChunkID
	})
	return results
}
