package chunker

import (
	"sort"
	"strings"

	"github.com/brunobiangulo/legalrag"
	"github.com/brunobiangulo/legalrag/domain"
)

// legalTerm is one dictionary surface form flattened for scanning.
type legalTerm struct {
	text      string // lowercase, space-joined
	wordCount int
}

// legalTermVocabulary collects every domain surface form plus the
// general legal terms into a single longest-match-first list, so a
// phrase like "pre-existing disease" is detected before its "disease"
// substring could be.
func legalTermVocabulary(dict *domain.Dictionary) []legalTerm {
	seen := make(map[string]bool)
	var terms []legalTerm

	add := func(phrase string) {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase == "" || seen[phrase] {
			return
		}
		seen[phrase] = true
		terms = append(terms, legalTerm{text: phrase, wordCount: len(strings.Fields(phrase))})
	}

	if dict != nil {
		for _, cat := range dict.Categories() {
			for _, form := range dict.SurfaceForms(cat) {
				add(form)
			}
		}
	}
	for _, term := range domain.GeneralLegalTerms {
		add(term)
	}

	sort.Slice(terms, func(i, j int) bool {
		return terms[i].wordCount > terms[j].wordCount
	})
	return terms
}

// detectLegalTerms scans word-tokenized chunk text against the domain
// vocabulary and returns an ordered, position-tagged occurrence list
// (spec.md §4.1: the flat legal_terms occurrence list, never a
// term->count map).
func detectLegalTerms(words []string, dict *domain.Dictionary) []legalrag.KeywordOccurrence {
	if len(words) == 0 {
		return nil
	}
	terms := legalTermVocabulary(dict)
	if len(terms) == 0 {
		return nil
	}

	normalized := make([]string, len(words))
	for i, w := range words {
		normalized[i] = strings.ToLower(strings.Trim(w, ".,;:()[]{}\"'"))
	}

	var occurrences []legalrag.KeywordOccurrence
	for i := 0; i < len(normalized); {
		matched := false
		for _, t := range terms {
			end := i + t.wordCount
			if end > len(normalized) {
				continue
			}
			if strings.Join(normalized[i:end], " ") == t.text {
				occurrences = append(occurrences, legalrag.KeywordOccurrence{
					Term:     t.text,
					Position: i,
				})
				i = end
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
	return occurrences
}
