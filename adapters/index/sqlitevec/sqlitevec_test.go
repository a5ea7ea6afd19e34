//go:build cgo

package sqlitevec

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/brunobiangulo/legalrag"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	ix, err := Open(path, 4)
	if err != nil {
		t.Fatalf("opening index: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func sampleRecord(chunkID, docID string, vec legalrag.Embedding) legalrag.IndexRecord {
	return legalrag.IndexRecord{
		ChunkID: chunkID,
		Vector:  vec,
		Metadata: map[string]legalrag.MetadataValue{
			"text":        "sample chunk text for " + chunkID,
			"document_id": docID,
		},
	}
}

func TestUpsertAndQuery(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()

	err := ix.Upsert(ctx, []legalrag.IndexRecord{
		sampleRecord("doc-1:1", "doc-1", legalrag.Embedding{1, 0, 0, 0}),
		sampleRecord("doc-1:2", "doc-1", legalrag.Embedding{0, 1, 0, 0}),
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	hits, err := ix.Query(ctx, legalrag.Embedding{1, 0, 0, 0}, 1, nil)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(hits) != 1 || hits[0].ChunkID != "doc-1:1" {
		t.Fatalf("expected doc-1:1 as top hit, got %+v", hits)
	}
}

func TestReplaceDocumentIsAtomic(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()

	if err := ix.Upsert(ctx, []legalrag.IndexRecord{
		sampleRecord("doc-2:1", "doc-2", legalrag.Embedding{1, 0, 0, 0}),
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := ix.ReplaceDocument(ctx, "doc-2", []legalrag.IndexRecord{
		sampleRecord("doc-2:new", "doc-2", legalrag.Embedding{0, 0, 1, 0}),
	}); err != nil {
		t.Fatalf("ReplaceDocument: %v", err)
	}

	scanned, err := ix.Scan(ctx, map[string]legalrag.MetadataValue{"document_id": "doc-2"}, 10)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(scanned) != 1 || scanned[0].ChunkID != "doc-2:new" {
		t.Fatalf("expected only doc-2:new to survive replace, got %+v", scanned)
	}
}

func TestStats(t *testing.T) {
	ix := newTestIndex(t)
	ctx := context.Background()
	if err := ix.Upsert(ctx, []legalrag.IndexRecord{
		sampleRecord("doc-3:1", "doc-3", legalrag.Embedding{1, 0, 0, 0}),
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	stats, err := ix.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.RecordCount != 1 {
		t.Errorf("RecordCount = %d, want 1", stats.RecordCount)
	}
	if stats.Dimension != 4 {
		t.Errorf("Dimension = %d, want 4", stats.Dimension)
	}
}
