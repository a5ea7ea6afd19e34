package retrieval

import (
	"context"
	"testing"

	"github.com/brunobiangulo/legalrag"
	"github.com/brunobiangulo/legalrag/domain"
	"github.com/brunobiangulo/legalrag/normalize"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, texts []string) ([]legalrag.Embedding, error) {
	out := make([]legalrag.Embedding, len(texts))
	for i := range texts {
		out[i] = legalrag.Embedding{1, 0, 0}
	}
	return out, nil
}

type fakeIndex struct {
	hits    []legalrag.ScoredRecord
	scanned []legalrag.ScannedRecord
}

func (f fakeIndex) Upsert(ctx context.Context, records []legalrag.IndexRecord) error { return nil }
func (f fakeIndex) DeleteByFilter(ctx context.Context, filter map[string]legalrag.MetadataValue) error {
	return nil
}
func (f fakeIndex) ReplaceDocument(ctx context.Context, docID string, records []legalrag.IndexRecord) error {
	return nil
}
func (f fakeIndex) Query(ctx context.Context, vector legalrag.Embedding, topK int, filter map[string]legalrag.MetadataValue) ([]legalrag.ScoredRecord, error) {
	return f.hits, nil
}
func (f fakeIndex) Scan(ctx context.Context, filter map[string]legalrag.MetadataValue, limit int) ([]legalrag.ScannedRecord, error) {
	return f.scanned, nil
}
func (f fakeIndex) Stats(ctx context.Context) (legalrag.IndexStats, error) {
	return legalrag.IndexStats{RecordCount: len(f.scanned), Dimension: 3}, nil
}
func (f fakeIndex) Dimension() int { return 3 }

func TestSearchReturnsHighScoringSurvivors(t *testing.T) {
	dict := domain.New()
	idx := fakeIndex{hits: []legalrag.ScoredRecord{
		{ChunkID: "c1", Text: "Exclusions: preexisting diseases are not covered.", Score: 0.9,
			Metadata: map[string]legalrag.MetadataValue{"section_title": "Exclusions"}},
		{ChunkID: "c2", Text: "Irrelevant boilerplate paragraph.", Score: 0.1},
	}}
	n := normalize.New(dict)
	qctx := n.Analyze("What exclusions apply for preexisting diseases?")

	e := New(fakeEmbedder{}, idx, dict, Config{
		SemanticTopK: 10, MinSimilarityThreshold: 0.2, MediumSimilarityThreshold: 0.5, HighSimilarityThreshold: 0.8,
		AdaptiveThreshold: true, MinResultsRequired: 1, EnableHybridSearch: true,
		SemanticWeight: 0.7, KeywordWeight: 0.3, EnableKeywordAnchoring: true,
		MaxKeywordSearchVectors: 1000, MaxKeywordResults: 3, MaxQueryVariants: 5, EnableQueryEnhancement: true,
	})

	results, trace, err := e.Search(context.Background(), qctx, 0.2, 5, nil)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) == 0 {
		t.Fatalf("expected at least one survivor")
	}
	if results[0].ChunkID != "c1" {
		t.Errorf("expected c1 to rank first, got %q", results[0].ChunkID)
	}
	if trace.ThresholdUsed <= 0 {
		t.Errorf("expected non-zero threshold in trace")
	}
}

func TestSearchFallsBackToKeywordAnchoring(t *testing.T) {
	dict := domain.New()
	idx := fakeIndex{
		hits: nil,
		scanned: []legalrag.ScannedRecord{
			{ChunkID: "c9", Text: "This clause discusses the waiting period for maternity claims."},
		},
	}
	n := normalize.New(dict)
	qctx := n.Analyze("What is the waiting period?")

	e := New(fakeEmbedder{}, idx, dict, Config{
		SemanticTopK: 10, MinSimilarityThreshold: 0.2, MediumSimilarityThreshold: 0.5, HighSimilarityThreshold: 0.8,
		AdaptiveThreshold: true, MinResultsRequired: 1, EnableHybridSearch: true,
		SemanticWeight: 0.7, KeywordWeight: 0.3, EnableKeywordAnchoring: true,
		MaxKeywordSearchVectors: 1000, MaxKeywordResults: 3, MaxQueryVariants: 5, EnableQueryEnhancement: true,
	})

	results, trace, err := e.Search(context.Background(), qctx, 0.9, 5, nil)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if !trace.FallbackUsed {
		t.Fatalf("expected fallback to be used")
	}
	if len(results) != 1 || results[0].RetrievalMethod != legalrag.RetrievalMethodKeywordAnchoring {
		t.Fatalf("expected 1 keyword_anchoring result, got %+v", results)
	}
}

func TestEffectiveThresholdClampsToBounds(t *testing.T) {
	got := effectiveThreshold(0.2, []float64{0.95, 0.9, 0.85, 0.1}, 0.2, 0.5, 0.8)
	if got < 0.2 || got > 0.8 {
		t.Errorf("threshold out of bounds: %v", got)
	}
}
