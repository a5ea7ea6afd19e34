package assembler

import (
	"strconv"
	"strings"

	"github.com/brunobiangulo/legalrag"
)

// unansweredSubQuestions reports which of qctx's sub-questions have no
// trace in the answer: neither their ordinal marker ("1.", "first", ...)
// nor their first few content words appear (spec.md §4.6 step 4).
func unansweredSubQuestions(answer string, subQuestions []string) []int {
	lowerAnswer := strings.ToLower(answer)
	var missing []int
	for i, sq := range subQuestions {
		words := strings.Fields(strings.ToLower(strings.TrimSuffix(sq, "?")))
		for len(words) > 0 && leadingQuestionWords[words[0]] {
			words = words[1:]
		}
		if len(words) == 0 {
			continue
		}
		lead := words
		if len(lead) > 4 {
			lead = lead[:4]
		}
		phrase := strings.Join(lead, " ")
		if strings.Contains(lowerAnswer, phrase) {
			continue
		}
		if ordinalMarkerPresent(lowerAnswer, i) {
			continue
		}
		missing = append(missing, i)
	}
	return missing
}

// leadingQuestionWords are skipped at the start of a sub-question before its
// first content words are taken, so "what is the waiting period?" is looked
// up as "waiting period".
var leadingQuestionWords = map[string]bool{
	"what": true, "which": true, "who": true, "when": true, "where": true, "why": true, "how": true,
	"is": true, "are": true, "was": true, "were": true, "do": true, "does": true, "did": true,
	"can": true, "could": true, "will": true, "would": true, "should": true, "shall": true, "may": true,
	"the": true, "a": true, "an": true, "there": true, "i": true, "my": true, "any": true,
}

var ordinalWords = []string{"first", "second", "third", "fourth", "fifth", "sixth", "seventh", "eighth"}

func ordinalMarkerPresent(lowerAnswer string, index int) bool {
	markers := []string{strconv.Itoa(index+1) + "."}
	if index < len(ordinalWords) {
		markers = append(markers, ordinalWords[index])
	}
	for _, m := range markers {
		if strings.Contains(lowerAnswer, m) {
			return true
		}
	}
	return false
}

// responseCompleteness scores [0,1] from whether the answer ends on a
// sentence, how long it is relative to the requested output budget, and
// whether every sub-question was addressed (spec.md §4.6 step 6).
func responseCompleteness(answer string, maxTokens int, unanswered []int, totalSubQuestions int) float64 {
	score := 0.0

	trimmed := strings.TrimSpace(answer)
	if trimmed != "" {
		last := trimmed[len(trimmed)-1]
		if last == '.' || last == '!' || last == '?' || last == '"' || strings.HasSuffix(trimmed, "”") {
			score += 0.4
		}
	}

	words := len(strings.Fields(answer))
	budgetWords := maxTokens * 3 / 4 // rough tokens-to-words estimate
	if budgetWords <= 0 {
		budgetWords = 1
	}
	ratio := float64(words) / float64(budgetWords)
	switch {
	case ratio <= 0:
		// no contribution
	case ratio < 0.05:
		score += 0.1
	case ratio < 0.8:
		score += 0.3
	default:
		score += 0.2 // very close to or over budget: slightly penalized
	}

	if totalSubQuestions <= 1 {
		score += 0.3
	} else {
		answered := totalSubQuestions - len(unanswered)
		score += 0.3 * float64(answered) / float64(totalSubQuestions)
	}

	if score > 1 {
		score = 1
	}
	return score
}

func buildSubQuestionWarning(unanswered []int) *legalrag.Warning {
	if len(unanswered) == 0 {
		return nil
	}
	return &legalrag.Warning{
		Code:    legalrag.WarningSubQuestionUnanswered,
		Message: "one or more sub-questions may not be fully addressed in the answer",
	}
}
