// Package normalize canonicalizes raw user questions into a
// legalrag.QueryContext: whitespace/case normalization, domain synonym
// substitution, sub-question decomposition, intent classification, and
// complexity bucketing (spec.md §4.2).
package normalize

import (
	"sort"
	"strings"

	"github.com/brunobiangulo/legalrag"
	"github.com/brunobiangulo/legalrag/domain"
)

// Normalizer is the Query Normalizer & Intent Analyzer component. It is
// safe for concurrent use: all state is read-only after New.
type Normalizer struct {
	dict     *domain.Dictionary
	synonyms []synonymEntry
}

type synonymEntry struct {
	surface   string // lowercase, space-joined
	canonical string
	wordCount int
}

// New builds a Normalizer over the given domain dictionary.
func New(dict *domain.Dictionary) *Normalizer {
	n := &Normalizer{dict: dict}
	for surface, canonical := range dict.SynonymTable() {
		n.synonyms = append(n.synonyms, synonymEntry{
			surface:   surface,
			canonical: canonical,
			wordCount: len(strings.Fields(surface)),
		})
	}
	// Longest match first so "pre-existing disease" is substituted
	// whole rather than leaving "disease" to match something shorter.
	sort.Slice(n.synonyms, func(i, j int) bool {
		return n.synonyms[i].wordCount > n.synonyms[j].wordCount
	})
	return n
}

// Analyze runs the full normalization pipeline and returns a populated
// QueryContext. Analyze never errors: a question that matches nothing
// still normalizes, still yields at least one sub-question, and still
// gets a (low-confidence) intent and complexity.
func (n *Normalizer) Analyze(raw string) legalrag.QueryContext {
	normalized := n.normalizeText(raw)
	subQuestions := splitSubQuestions(normalized)
	matched := n.dict.MatchedCategories(normalized)
	intent, confidence := resolveIntent(matched)
	complexity := resolveComplexity(len(strings.Fields(normalized)), len(subQuestions), len(matched))
	keywords := significantKeywords(normalized)

	categories := make([]string, 0, len(matched))
	for cat := range matched {
		categories = append(categories, string(cat))
	}
	sort.Strings(categories)

	return legalrag.QueryContext{
		Raw:               raw,
		Normalized:        normalized,
		Intent:            intent,
		Complexity:        complexity,
		Keywords:          keywords,
		SubQuestions:      subQuestions,
		IntentConfidence:  confidence,
		MatchedCategories: categories,
	}
}

// normalizeText lowercases, collapses internal whitespace, trims, and
// rewrites domain surface forms to their canonical token.
func (n *Normalizer) normalizeText(raw string) string {
	lower := strings.ToLower(raw)
	fields := strings.Fields(lower)
	fields = n.substituteSynonyms(fields)
	return strings.Join(fields, " ")
}

// substituteSynonyms scans the token stream left to right, replacing
// the longest matching multi-word surface form with its single
// canonical token at each position (spec.md §4.2: whole-word,
// longest-match-first).
func (n *Normalizer) substituteSynonyms(tokens []string) []string {
	if len(tokens) == 0 || len(n.synonyms) == 0 {
		return tokens
	}
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		matched := false
		for _, syn := range n.synonyms {
			end := i + syn.wordCount
			if end > len(tokens) {
				continue
			}
			if strings.Join(tokens[i:end], " ") == syn.surface {
				out = append(out, syn.canonical)
				i = end
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, tokens[i])
			i++
		}
	}
	return out
}

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "have": true,
	"how": true, "in": true, "is": true, "it": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "this": true, "to": true, "was": true,
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"will": true, "with": true, "does": true, "do": true, "can": true, "i": true,
}

// significantKeywords strips stop words and punctuation from the
// normalized query, preserving order and de-duplicating.
func significantKeywords(normalized string) []string {
	fields := strings.Fields(normalized)
	seen := make(map[string]bool)
	var keywords []string
	for _, f := range fields {
		word := strings.Trim(f, ".,;:?!()[]{}\"'")
		if word == "" || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}
	return keywords
}
