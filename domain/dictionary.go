// Package domain holds the static legal/insurance domain dictionary: the
// mapping from category to surface forms used by query normalization,
// intent analysis, structural re-ranking, and keyword-anchoring fallback.
// It is loaded once at startup and never mutated afterward.
package domain

import "strings"

// Category is one of the closed set of legal/insurance categories the
// intent analyzer and structural re-ranker reason about.
type Category string

const (
	CategoryPreexistingDiseases Category = "preexisting_diseases"
	CategoryExclusions          Category = "exclusions"
	CategoryCoverage            Category = "coverage"
	CategoryClaims              Category = "claims"
	CategoryDeductibles         Category = "deductibles"
	CategoryPremiums            Category = "premiums"
	CategoryWaitingPeriods      Category = "waiting_periods"
	CategoryRenewals            Category = "renewals"
	CategoryTerminations        Category = "terminations"
)

// AllCategories lists every category in the dictionary, in a stable order.
var AllCategories = []Category{
	CategoryPreexistingDiseases,
	CategoryExclusions,
	CategoryCoverage,
	CategoryClaims,
	CategoryDeductibles,
	CategoryPremiums,
	CategoryWaitingPeriods,
	CategoryRenewals,
	CategoryTerminations,
}

// Dictionary is the read-only static surface-form table.
type Dictionary struct {
	byCategory map[Category][]string
	// canonical maps a surface form (lowercased) to its canonical token,
	// used by the normalizer's synonym substitution.
	canonical map[string]string
}

// New builds the domain dictionary. It is the single place the
// legal/insurance vocabulary is declared; all lookups are read-only
// after construction.
func New() *Dictionary {
	byCategory := map[Category][]string{
		CategoryPreexistingDiseases: {
			"preexisting diseases", "pre-existing disease", "pre-existing diseases",
			"preexisting disease", "ped", "existing illness", "prior condition",
			"prior medical condition",
		},
		CategoryExclusions: {
			"exclusions", "exclusion", "excluded", "not covered", "limitation",
			"limitations", "excludes",
		},
		CategoryCoverage: {
			"coverage", "covered", "benefits", "sum insured", "scope of cover",
			"what is covered",
		},
		CategoryClaims: {
			"claims", "claim", "claim settlement", "reimbursement", "cashless claim",
			"how to claim",
		},
		CategoryDeductibles: {
			"deductibles", "deductible", "co-pay", "copay", "co-payment",
		},
		CategoryPremiums: {
			"premiums", "premium", "premium amount", "installment", "due premium",
		},
		CategoryWaitingPeriods: {
			"waiting periods", "waiting period", "cooling period", "moratorium period",
		},
		CategoryRenewals: {
			"renewals", "renewal", "policy renewal", "renewal date",
		},
		CategoryTerminations: {
			"terminations", "termination", "policy termination", "cancellation",
			"lapse", "lapsed policy",
		},
	}

	canonical := map[string]string{}
	for cat, forms := range byCategory {
		canon := canonicalToken(cat)
		for _, f := range forms {
			canonical[strings.ToLower(f)] = canon
		}
	}

	return &Dictionary{byCategory: byCategory, canonical: canonical}
}

// canonicalToken returns the normalized-query token a category's surface
// forms are rewritten to (e.g. CategoryPreexistingDiseases -> "preexisting diseases").
func canonicalToken(cat Category) string {
	return strings.ReplaceAll(string(cat), "_", " ")
}

// SurfaceForms returns the surface forms registered for a category.
func (d *Dictionary) SurfaceForms(cat Category) []string {
	return d.byCategory[cat]
}

// Categories returns every category, in the stable AllCategories order;
// use SurfaceForms for a category's surface forms.
func (d *Dictionary) Categories() []Category {
	return AllCategories
}

// SynonymTable returns the surface-form -> canonical-token mapping used
// by the normalizer, keyed in lowercase.
func (d *Dictionary) SynonymTable() map[string]string {
	return d.canonical
}

// MatchedCategories returns every category with at least one surface
// form present (whole-word) in the normalized (already-lowercased) text,
// together with the number of distinct surface forms matched.
func (d *Dictionary) MatchedCategories(normalizedText string) map[Category]int {
	out := make(map[Category]int)
	for cat, forms := range d.byCategory {
		count := 0
		for _, f := range forms {
			if containsWholeWord(normalizedText, f) {
				count++
			}
		}
		if count > 0 {
			out[cat] = count
		}
	}
	return out
}

// GeneralLegalTerms are general legal/insurance terms used by the
// fallback's keyword extraction (spec.md §4.5) independent of category
// membership.
var GeneralLegalTerms = []string{
	"clause", "section", "article", "policy", "contract", "agreement",
	"terms and conditions", "liability", "indemnity", "jurisdiction",
	"insured", "insurer", "beneficiary", "rider", "endorsement",
}

// RelevantWords is the general relevant-word list consulted by the
// fallback when tokens from the query do not belong to any domain
// category but still look legally significant.
var RelevantWords = map[string]bool{
	"policy": true, "contract": true, "insurance": true, "coverage": true,
	"claim": true, "premium": true, "benefit": true, "liability": true,
	"clause": true, "section": true, "exclusion": true, "deductible": true,
	"renewal": true, "termination": true, "waiting": true, "period": true,
}

// containsWholeWord reports whether phrase appears in text as a
// whole-word (token-boundary) match, not as a substring of a longer word.
func containsWholeWord(text, phrase string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], phrase)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(phrase)
		leftOK := start == 0 || !isWordByte(text[start-1])
		rightOK := end == len(text) || !isWordByte(text[end])
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
		if idx >= len(text) {
			return false
		}
	}
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
