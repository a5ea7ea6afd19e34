package eval

import (
	"strings"
	"unicode"

	"github.com/brunobiangulo/legalrag"
)

// normalizeAnswerText folds Unicode whitespace/hyphen variants an LLM
// commonly emits down to ASCII so substring matching against expected
// facts is not defeated by a non-breaking space or a fancy dash.
func normalizeAnswerText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r == '‐' || r == '‑' || r == '‒' || r == '–' || r == '—':
			b.WriteByte('-')
		case r == '​' || r == '‌' || r == '‍' || r == '﻿':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FactCoverage is the fraction of a TestCase's ExpectedFacts found as a
// case-insensitive substring of the response answer.
func FactCoverage(resp *legalrag.StructuredResponse, tc TestCase) float64 {
	if resp == nil || len(tc.ExpectedFacts) == 0 {
		return 0
	}
	answer := strings.ToLower(normalizeAnswerText(resp.Answer))
	found := 0
	for _, fact := range tc.ExpectedFacts {
		if strings.Contains(answer, strings.ToLower(fact)) {
			found++
		}
	}
	return float64(found) / float64(len(tc.ExpectedFacts))
}

// CitationPrecision is the fraction of cited sources whose section or
// document title overlaps with at least one expected fact -- a coarse
// proxy for "did the answer cite clauses actually about the question".
func CitationPrecision(resp *legalrag.StructuredResponse, tc TestCase) float64 {
	if resp == nil || len(resp.Sources) == 0 {
		return 0
	}
	relevant := 0
	for _, src := range resp.Sources {
		haystack := strings.ToLower(src.SectionTitle + " " + src.DocumentTitle)
		for _, fact := range tc.ExpectedFacts {
			if strings.Contains(haystack, strings.ToLower(fact)) {
				relevant++
				break
			}
		}
	}
	return float64(relevant) / float64(len(resp.Sources))
}

// AnsweredNonEmpty reports whether the response carries a non-empty
// answer and is not the no-results or error variant.
func AnsweredNonEmpty(resp *legalrag.StructuredResponse) bool {
	if resp == nil {
		return false
	}
	if resp.ResponseType == legalrag.ResponseNoResults || resp.ResponseType == legalrag.ResponseError {
		return false
	}
	return strings.TrimSpace(resp.Answer) != ""
}

// CaseResult is the scored outcome of running one TestCase.
type CaseResult struct {
	TestCase         TestCase
	FactCoverage     float64
	CitationPrecision float64
	Answered         bool
	Confidence       float64
}

// Summary aggregates CaseResults into dataset-level precision/recall-style
// figures.
type Summary struct {
	DatasetName        string
	CaseCount          int
	MeanFactCoverage   float64
	MeanCitationPrec   float64
	AnsweredRate       float64
	MeanConfidence     float64
	Results            []CaseResult
}

// Summarize aggregates per-case results into a Summary.
func Summarize(datasetName string, results []CaseResult) Summary {
	s := Summary{DatasetName: datasetName, CaseCount: len(results), Results: results}
	if len(results) == 0 {
		return s
	}
	var factSum, citeSum, confSum float64
	var answered int
	for _, r := range results {
		factSum += r.FactCoverage
		citeSum += r.CitationPrecision
		confSum += r.Confidence
		if r.Answered {
			answered++
		}
	}
	n := float64(len(results))
	s.MeanFactCoverage = factSum / n
	s.MeanCitationPrec = citeSum / n
	s.MeanConfidence = confSum / n
	s.AnsweredRate = float64(answered) / n
	return s
}
