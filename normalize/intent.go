package normalize

import (
	"github.com/brunobiangulo/legalrag"
	"github.com/brunobiangulo/legalrag/domain"
)

// categoryIntent maps each domain dictionary category to the intent it
// contributes evidence for. preexisting_diseases maps to exclusion since
// pre-existing-condition language in these documents is near-exclusively
// exclusionary; renewals/terminations map to procedural since both
// describe a process the policyholder must follow.
var categoryIntent = map[domain.Category]legalrag.Intent{
	domain.CategoryExclusions:          legalrag.IntentExclusion,
	domain.CategoryPreexistingDiseases: legalrag.IntentExclusion,
	domain.CategoryCoverage:            legalrag.IntentCoverage,
	domain.CategoryWaitingPeriods:      legalrag.IntentTemporal,
	domain.CategoryPremiums:            legalrag.IntentFinancial,
	domain.CategoryDeductibles:         legalrag.IntentFinancial,
	domain.CategoryClaims:              legalrag.IntentClaim,
	domain.CategoryRenewals:            legalrag.IntentProcedural,
	domain.CategoryTerminations:        legalrag.IntentProcedural,
}

// intentPriority breaks ties between intents with equal evidence
// (spec.md §4.2), most to least important.
var intentPriority = []legalrag.Intent{
	legalrag.IntentExclusion,
	legalrag.IntentCoverage,
	legalrag.IntentTemporal,
	legalrag.IntentFinancial,
	legalrag.IntentClaim,
	legalrag.IntentProcedural,
	legalrag.IntentInformationSeeking,
}

// resolveIntent picks the primary intent from per-category match
// counts and returns it with the confidence the analyzer reports to
// callers (spec.md §4.2, §6.4 analyze()).
func resolveIntent(matched map[domain.Category]int) (legalrag.Intent, float64) {
	totals := make(map[legalrag.Intent]int, len(intentPriority))
	for cat, count := range matched {
		intent, ok := categoryIntent[cat]
		if !ok {
			continue
		}
		totals[intent] += count
	}

	best := legalrag.IntentInformationSeeking
	bestCount := 0
	for _, intent := range intentPriority {
		if totals[intent] > bestCount {
			best = intent
			bestCount = totals[intent]
		}
	}

	denominator := len(domain.AllCategories)
	if denominator < 1 {
		denominator = 1
	}
	confidence := float64(len(matched)) / float64(denominator)
	return best, confidence
}

// resolveComplexity buckets a query by the combined weight of its
// length, decomposition, and domain-category breadth (spec.md §4.2).
func resolveComplexity(wordCount, subQuestionCount, matchedCategoryCount int) legalrag.Complexity {
	if matchedCategoryCount >= 3 {
		return legalrag.ComplexityHigh
	}
	if subQuestionCount > 1 {
		if wordCount > 40 || matchedCategoryCount >= 2 {
			return legalrag.ComplexityHigh
		}
		return legalrag.ComplexityMedium
	}
	if wordCount > 30 || matchedCategoryCount >= 2 {
		return legalrag.ComplexityMedium
	}
	return legalrag.ComplexityLow
}
