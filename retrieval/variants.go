package retrieval

import (
	"strings"

	"github.com/brunobiangulo/legalrag"
)

// queryVariants builds up to maxVariants phrasings of a query for the
// Stage 1 semantic fan-out: the original raw question, the normalized
// (synonym-canonicalized) form, and an intent-expanded phrasing that
// prepends the primary intent as a search hint (spec.md §4.3).
func queryVariants(ctx legalrag.QueryContext, maxVariants int) []string {
	if maxVariants <= 0 {
		maxVariants = 1
	}

	seen := make(map[string]bool)
	var variants []string
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] || len(variants) >= maxVariants {
			return
		}
		seen[v] = true
		variants = append(variants, v)
	}

	add(ctx.Raw)
	add(ctx.Normalized)
	if ctx.Intent != "" && ctx.Intent != legalrag.IntentInformationSeeking {
		add(string(ctx.Intent) + " " + ctx.Normalized)
	}
	for _, sub := range ctx.SubQuestions {
		add(sub)
		if len(variants) >= maxVariants {
			break
		}
	}

	if len(variants) == 0 {
		add(ctx.Raw)
	}
	return variants
}
