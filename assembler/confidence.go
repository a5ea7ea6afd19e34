package assembler

import "github.com/brunobiangulo/legalrag"

// computeConfidence implements spec.md §4.6 step 6's exact weighted
// formula, grounded on the teacher's reasoning/confidence.go weighted-
// factor pattern but using the spec's own four named factors instead of
// the teacher's source-coverage/citation-accuracy/consistency/length mix.
func computeConfidence(results []legalrag.RetrievalResult, completeness, citationQuality float64, answerWords, maxTokens int) legalrag.Confidence {
	sourceRelevance := topNMeanScore(results, 3)

	lengthFactor := lengthFactorScore(answerWords, maxTokens)

	overall := 0.4*sourceRelevance + 0.3*completeness + 0.2*citationQuality + 0.1*lengthFactor
	if overall > 1 {
		overall = 1
	}
	if overall < 0 {
		overall = 0
	}

	return legalrag.Confidence{
		Overall:              overall,
		Level:                confidenceLevel(overall),
		SourceRelevance:      sourceRelevance,
		ResponseCompleteness: completeness,
		CitationQuality:      citationQuality,
	}
}

func topNMeanScore(results []legalrag.RetrievalResult, n int) float64 {
	if len(results) == 0 {
		return 0
	}
	if n > len(results) {
		n = len(results)
	}
	sum := 0.0
	for _, r := range results[:n] {
		sum += r.CombinedScore
	}
	return sum / float64(n)
}

func lengthFactorScore(words, maxTokens int) float64 {
	budgetWords := maxTokens * 3 / 4
	if budgetWords <= 0 {
		budgetWords = 1
	}
	ratio := float64(words) / float64(budgetWords)
	switch {
	case ratio < 0.02:
		return 0.1
	case ratio < 0.6:
		return 1.0
	default:
		return 0.7
	}
}

func citationQualityScore(citationsInAnswer, subQuestionCount int) float64 {
	denom := subQuestionCount
	if denom < 1 {
		denom = 1
	}
	q := float64(citationsInAnswer) / float64(denom)
	if q > 1 {
		q = 1
	}
	return q
}

func confidenceLevel(overall float64) legalrag.ConfidenceLevel {
	switch {
	case overall >= 0.8:
		return legalrag.ConfidenceHigh
	case overall >= 0.6:
		return legalrag.ConfidenceMedium
	case overall >= 0.4:
		return legalrag.ConfidenceLow
	default:
		return legalrag.ConfidenceVeryLow
	}
}
