package legalrag

import (
	"context"
	"testing"

	"github.com/brunobiangulo/legalrag/chunker"
)

type fakeEmbedder struct{ dim int }

func (f fakeEmbedder) Embed(ctx context.Context, texts []string) ([]Embedding, error) {
	out := make([]Embedding, len(texts))
	for i := range texts {
		vec := make(Embedding, f.dim)
		vec[0] = 1
		out[i] = vec
	}
	return out, nil
}

type fakeIndex struct {
	dim     int
	records map[string]IndexRecord
}

func newFakeIndex(dim int) *fakeIndex {
	return &fakeIndex{dim: dim, records: map[string]IndexRecord{}}
}

func (f *fakeIndex) Upsert(ctx context.Context, records []IndexRecord) error {
	for _, r := range records {
		f.records[r.ChunkID] = r
	}
	return nil
}

func (f *fakeIndex) DeleteByFilter(ctx context.Context, filter map[string]MetadataValue) error {
	docID, _ := filter["document_id"].(string)
	for id, r := range f.records {
		if d, _ := r.Metadata["document_id"].(string); d == docID {
			delete(f.records, id)
		}
	}
	return nil
}

func (f *fakeIndex) ReplaceDocument(ctx context.Context, docID string, records []IndexRecord) error {
	_ = f.DeleteByFilter(ctx, map[string]MetadataValue{"document_id": docID})
	return f.Upsert(ctx, records)
}

func (f *fakeIndex) Query(ctx context.Context, vector Embedding, topK int, filter map[string]MetadataValue) ([]ScoredRecord, error) {
	var out []ScoredRecord
	for _, r := range f.records {
		out = append(out, ScoredRecord{ChunkID: r.ChunkID, Score: 0.9, Text: r.Metadata["text"].(string), Metadata: r.Metadata})
		if len(out) >= topK {
			break
		}
	}
	return out, nil
}

func (f *fakeIndex) Scan(ctx context.Context, filter map[string]MetadataValue, limit int) ([]ScannedRecord, error) {
	var out []ScannedRecord
	for _, r := range f.records {
		out = append(out, ScannedRecord{ChunkID: r.ChunkID, Text: r.Metadata["text"].(string), Metadata: r.Metadata})
	}
	return out, nil
}

func (f *fakeIndex) Stats(ctx context.Context) (IndexStats, error) {
	return IndexStats{RecordCount: len(f.records), Dimension: f.dim}, nil
}

func (f *fakeIndex) Dimension() int { return f.dim }

type fakeChat struct{ answer string }

func (f fakeChat) Complete(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	return f.answer, nil
}

func newTestService(t *testing.T) (*Service, *fakeIndex) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.EmbeddingDimension = 4
	index := newFakeIndex(4)
	svc, err := New(cfg, fakeEmbedder{dim: 4}, index, fakeChat{answer: "Coverage includes hospitalization per section 2.1."})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc, index
}

func TestIngestRejectsEmptyDocumentID(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Ingest(context.Background(), "", "Title", chunker.DocTypePolicy, "some text")
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestIngestWritesChunksAndReplacesAtomically(t *testing.T) {
	svc, index := newTestService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "doc-1", "Policy", chunker.DocTypePolicy, "1 Coverage\nThis policy covers hospitalization.\n\n2 Exclusions\nPre-existing diseases are excluded.")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(index.records) == 0 {
		t.Fatal("expected records written to index")
	}

	result, err := svc.Ingest(ctx, "doc-1", "Policy", chunker.DocTypePolicy, "1 Coverage\nOnly coverage section now.")
	if err != nil {
		t.Fatalf("re-ingest: %v", err)
	}
	if result.ChunksWritten != 1 {
		t.Fatalf("expected 1 chunk after replace, got %d", result.ChunksWritten)
	}
	if len(index.records) != 1 {
		t.Fatalf("expected exactly 1 record after replace, got %d", len(index.records))
	}
}

func TestQueryRejectsEmptyQuestion(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Query(context.Background(), "")
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestQueryReturnsStructuredResponse(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Ingest(ctx, "doc-1", "Policy", chunker.DocTypePolicy, "1 Coverage\nThis policy covers hospitalization under section 2.1."); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	resp, err := svc.Query(ctx, "what does this policy cover?", WithBaseThreshold(0))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if resp.ResponseID == "" {
		t.Fatal("expected a non-empty response id")
	}
	if resp.Answer == "" {
		t.Fatal("expected a non-empty answer")
	}
}

func TestAnalyzeResolvesIntentAndCategories(t *testing.T) {
	svc, _ := newTestService(t)
	diag := svc.Analyze("what is the waiting period for pre-existing diseases?")
	if diag.Intent == "" {
		t.Fatal("expected a resolved intent")
	}
	if len(diag.MatchedCategories) == 0 {
		t.Fatal("expected at least one matched category")
	}
}
