package retrieval

import (
	"sort"
	"strings"
)

// keywordScore is the Stage 2 / fallback keyword-relevance computation:
// a weighted sum of density, coverage, and earliest-position bonus
// (spec.md §4.3, §4.5). Weights are fixed at 0.4 / 0.4 / 0.2.
type keywordScore struct {
	score   float64
	matched []string
}

func scoreKeywords(text string, keywords []string) keywordScore {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 || len(keywords) == 0 {
		return keywordScore{}
	}

	keywordSet := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		keywordSet[strings.ToLower(kw)] = true
	}

	occurrences := 0
	matchedSet := make(map[string]bool)
	earliestPos := -1
	for i, w := range words {
		clean := strings.Trim(w, ".,;:?!()[]{}\"'")
		if !keywordSet[clean] {
			continue
		}
		occurrences++
		matchedSet[clean] = true
		if earliestPos == -1 {
			earliestPos = i
		}
	}

	if occurrences == 0 {
		return keywordScore{}
	}

	density := float64(occurrences) / float64(len(words))
	coverage := float64(len(matchedSet)) / float64(len(keywords))
	positionBonus := 1.0 / (1.0 + float64(earliestPos))

	score := 0.4*density + 0.4*coverage + 0.2*positionBonus
	if score > 1 {
		score = 1
	}

	matched := make([]string, 0, len(matchedSet))
	for k := range matchedSet {
		matched = append(matched, k)
	}
	sort.Strings(matched)

	return keywordScore{score: score, matched: matched}
}
