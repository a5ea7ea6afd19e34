package assembler

import "github.com/brunobiangulo/legalrag"

// extractClauseReferences scans the answer for clause identifiers and
// cross-references them against the identifiers detected per source block
// (spec.md §4.6 step 5), reusing the same detector used on context.
func extractClauseReferences(answer string, blocks []contextBlock) []legalrag.ClauseReference {
	found := detectClauseIdentifiers(answer)
	if len(found) == 0 {
		return nil
	}

	refs := make([]legalrag.ClauseReference, 0, len(found))
	for _, id := range found {
		sourceChunkID := ""
		for _, block := range blocks {
			if containsID(block.clauseIDs, id) {
				sourceChunkID = block.chunkID
				break
			}
		}
		refs = append(refs, legalrag.ClauseReference{
			Identifier:      id,
			SourceChunkID:   sourceChunkID,
			FoundInResponse: true,
		})
	}
	return refs
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// verifiedCitationCount counts clause references that were matched back to
// a source chunk. The citation_quality factor does not use it: it counts
// every clause reference found in the answer.
func verifiedCitationCount(refs []legalrag.ClauseReference) int {
	n := 0
	for _, r := range refs {
		if r.SourceChunkID != "" {
			n++
		}
	}
	return n
}
