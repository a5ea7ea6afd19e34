package eval

import (
	"context"
	"fmt"

	"github.com/brunobiangulo/legalrag"
)

// Evaluator runs a Dataset's TestCases against a live Service and scores
// each response, grounded on the same "ask a question, score the answer"
// idiom used to regression-test retrieval quality before a release.
type Evaluator struct {
	svc *legalrag.Service
}

// New builds an Evaluator around an already-ingested Service.
func New(svc *legalrag.Service) *Evaluator {
	return &Evaluator{svc: svc}
}

// Run queries the service once per TestCase in the dataset and scores
// the resulting StructuredResponse, returning an aggregated Summary.
func (e *Evaluator) Run(ctx context.Context, d Dataset) (Summary, error) {
	results := make([]CaseResult, 0, len(d.Tests))
	for _, tc := range d.Tests {
		resp, err := e.svc.Query(ctx, tc.Question)
		if err != nil {
			return Summary{}, fmt.Errorf("evaluating %q: %w", tc.Question, err)
		}
		results = append(results, CaseResult{
			TestCase:          tc,
			FactCoverage:      FactCoverage(resp, tc),
			CitationPrecision: CitationPrecision(resp, tc),
			Answered:          AnsweredNonEmpty(resp),
			Confidence:        resp.Confidence.Overall,
		})
	}
	return Summarize(d.Name, results), nil
}
