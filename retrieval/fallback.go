package retrieval

import (
	"context"
	"sort"
	"strings"

	"github.com/brunobiangulo/legalrag"
	"github.com/brunobiangulo/legalrag/domain"
)

// fallbackKeywords builds the union described in spec.md §4.5: every
// surface form of every matched category, general legal terms literally
// present in the normalized query, and query tokens on the general
// relevant-word list.
func fallbackKeywords(qctx legalrag.QueryContext, dict *domain.Dictionary) []string {
	seen := make(map[string]bool)
	var keywords []string
	add := func(term string) {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || seen[term] {
			return
		}
		seen[term] = true
		keywords = append(keywords, term)
	}

	for _, cat := range qctx.MatchedCategories {
		for _, form := range dict.SurfaceForms(domain.Category(cat)) {
			add(form)
		}
	}

	normalized := " " + qctx.Normalized + " "
	for _, term := range domain.GeneralLegalTerms {
		if strings.Contains(normalized, " "+term+" ") {
			add(term)
		}
	}

	for _, token := range strings.Fields(qctx.Normalized) {
		clean := strings.Trim(token, ".,;:?!()[]{}\"'")
		if domain.RelevantWords[clean] {
			add(clean)
		}
	}

	return keywords
}

// keywordAnchoringFallback implements spec.md §4.5: activated by the
// caller only when Stage 4 leaves zero survivors and the setting
// permits. It scans up to maxScan records and returns the top
// maxResults scored by the same keyword relevance as Stage 2.
func keywordAnchoringFallback(ctx context.Context, index legalrag.Index, qctx legalrag.QueryContext, dict *domain.Dictionary, filter map[string]legalrag.MetadataValue, maxScan, maxResults int) ([]legalrag.RetrievalResult, error) {
	keywords := fallbackKeywords(qctx, dict)
	if len(keywords) == 0 {
		return nil, nil
	}

	records, err := index.Scan(ctx, filter, maxScan)
	if err != nil {
		return nil, legalrag.NewError(legalrag.KindTransientExternal, "retrieval.fallback_scan", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	scored := make([]legalrag.RetrievalResult, 0, len(records))
	for _, rec := range records {
		kw := scoreKeywords(rec.Text, keywords)
		if kw.score <= 0 {
			continue
		}
		scored = append(scored, legalrag.RetrievalResult{
			ChunkID:         rec.ChunkID,
			Text:            rec.Text,
			Metadata:        rec.Metadata,
			SemanticScore:   0,
			KeywordScore:    kw.score,
			CombinedScore:   kw.score,
			RetrievalMethod: legalrag.RetrievalMethodKeywordAnchoring,
			MatchedKeywords: kw.matched,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].CombinedScore != scored[j].CombinedScore {
			return scored[i].CombinedScore > scored[j].CombinedScore
		}
		return scored[i].ChunkID < scored[j].ChunkID
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored, nil
}
