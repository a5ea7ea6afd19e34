package eval

import (
	"context"
	"testing"

	"github.com/brunobiangulo/legalrag"
)

type fakeEmbedder struct{ dim int }

func (f fakeEmbedder) Embed(ctx context.Context, texts []string) ([]legalrag.Embedding, error) {
	out := make([]legalrag.Embedding, len(texts))
	for i := range texts {
		vec := make(legalrag.Embedding, f.dim)
		vec[0] = 1
		out[i] = vec
	}
	return out, nil
}

type fakeIndex struct {
	dim     int
	records map[string]legalrag.IndexRecord
}

func newFakeIndex(dim int) *fakeIndex {
	return &fakeIndex{dim: dim, records: map[string]legalrag.IndexRecord{}}
}

func (f *fakeIndex) Upsert(ctx context.Context, records []legalrag.IndexRecord) error {
	for _, r := range records {
		f.records[r.ChunkID] = r
	}
	return nil
}

func (f *fakeIndex) DeleteByFilter(ctx context.Context, filter map[string]legalrag.MetadataValue) error {
	docID, _ := filter["document_id"].(string)
	for id, r := range f.records {
		if d, _ := r.Metadata["document_id"].(string); d == docID {
			delete(f.records, id)
		}
	}
	return nil
}

func (f *fakeIndex) ReplaceDocument(ctx context.Context, docID string, records []legalrag.IndexRecord) error {
	_ = f.DeleteByFilter(ctx, map[string]legalrag.MetadataValue{"document_id": docID})
	return f.Upsert(ctx, records)
}

func (f *fakeIndex) Query(ctx context.Context, vector legalrag.Embedding, topK int, filter map[string]legalrag.MetadataValue) ([]legalrag.ScoredRecord, error) {
	var out []legalrag.ScoredRecord
	for _, r := range f.records {
		out = append(out, legalrag.ScoredRecord{ChunkID: r.ChunkID, Score: 0.9, Text: r.Metadata["text"].(string), Metadata: r.Metadata})
		if len(out) >= topK {
			break
		}
	}
	return out, nil
}

func (f *fakeIndex) Scan(ctx context.Context, filter map[string]legalrag.MetadataValue, limit int) ([]legalrag.ScannedRecord, error) {
	var out []legalrag.ScannedRecord
	for _, r := range f.records {
		out = append(out, legalrag.ScannedRecord{ChunkID: r.ChunkID, Text: r.Metadata["text"].(string), Metadata: r.Metadata})
	}
	return out, nil
}

func (f *fakeIndex) Stats(ctx context.Context) (legalrag.IndexStats, error) {
	return legalrag.IndexStats{RecordCount: len(f.records), Dimension: f.dim}, nil
}

func (f *fakeIndex) Dimension() int { return f.dim }

type fakeChat struct{ answer string }

func (f fakeChat) Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	return f.answer, nil
}

func newTestService(t *testing.T) *legalrag.Service {
	t.Helper()
	cfg := legalrag.DefaultConfig()
	cfg.EmbeddingDimension = 4
	index := newFakeIndex(4)
	answer := "The waiting period for pre-existing diseases is 48 months, and the grace period for premium payment is 30 days against the sum insured."
	svc, err := legalrag.New(cfg, fakeEmbedder{dim: 4}, index, fakeChat{answer: answer})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := svc.Ingest(context.Background(), "doc-1", "Sample Policy", "health_policy",
		"Section 1. Waiting Period. Pre-existing diseases are covered after a waiting period of 48 months. "+
			"Section 2. Grace Period. The grace period for premium payment is 30 days."); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	return svc
}

func TestEvaluatorRunScoresFactCoverage(t *testing.T) {
	svc := newTestService(t)
	ev := New(svc)

	summary, err := ev.Run(context.Background(), EasyDataset())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.CaseCount != len(EasyDataset().Tests) {
		t.Fatalf("expected %d cases, got %d", len(EasyDataset().Tests), summary.CaseCount)
	}
	if summary.MeanFactCoverage <= 0 {
		t.Fatalf("expected some fact coverage, got %f", summary.MeanFactCoverage)
	}
	if summary.AnsweredRate != 1 {
		t.Fatalf("expected every case to be answered, got answered rate %f", summary.AnsweredRate)
	}
}

func TestFactCoverageCountsCaseInsensitiveSubstrings(t *testing.T) {
	resp := &legalrag.StructuredResponse{
		Answer:       "The Waiting Period for PRE-EXISTING conditions is 48 months.",
		ResponseType: legalrag.ResponseCoverage,
	}
	tc := TestCase{ExpectedFacts: []string{"waiting period", "pre-existing", "never mentioned"}}

	got := FactCoverage(resp, tc)
	want := 2.0 / 3.0
	if got != want {
		t.Fatalf("expected coverage %f, got %f", want, got)
	}
}

func TestAnsweredNonEmptyRejectsNoResultsAndError(t *testing.T) {
	cases := []struct {
		name string
		resp *legalrag.StructuredResponse
		want bool
	}{
		{"nil response", nil, false},
		{"no results", &legalrag.StructuredResponse{ResponseType: legalrag.ResponseNoResults, Answer: "x"}, false},
		{"error", &legalrag.StructuredResponse{ResponseType: legalrag.ResponseError, Answer: "x"}, false},
		{"empty answer", &legalrag.StructuredResponse{ResponseType: legalrag.ResponseCoverage, Answer: "  "}, false},
		{"answered", &legalrag.StructuredResponse{ResponseType: legalrag.ResponseCoverage, Answer: "covered"}, true},
	}
	for _, c := range cases {
		if got := AnsweredNonEmpty(c.resp); got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}
