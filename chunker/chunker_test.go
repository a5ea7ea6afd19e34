package chunker

import (
	"strings"
	"testing"

	"github.com/brunobiangulo/legalrag"
	"github.com/brunobiangulo/legalrag/domain"
)

func TestChunkPolicySections(t *testing.T) {
	text := strings.Join([]string{
		"1.1 COVERAGE",
		"This policy covers hospitalization expenses up to the sum insured.",
		"1.2 EXCLUSIONS",
		"Preexisting diseases are not covered during the first 48 months.",
		"2.1 DEDUCTIBLE",
		"A deductible of 10000 applies to every claim.",
	}, "\n")

	c := New(Config{}, domain.New())
	chunks := c.Chunk("doc-1", "Sample Policy", DocTypeInsurancePolicy, text)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	wantAnchors := []string{"1.1", "1.2", "2.1"}
	for i, chunk := range chunks {
		if chunk.SectionAnchor != wantAnchors[i] {
			t.Errorf("chunk %d: anchor = %q, want %q", i, chunk.SectionAnchor, wantAnchors[i])
		}
		if chunk.ChunkingMethod != legalrag.ChunkMethodPolicySection {
			t.Errorf("chunk %d: method = %q, want %q", i, chunk.ChunkingMethod, legalrag.ChunkMethodPolicySection)
		}
		if chunk.DocumentID != "doc-1" {
			t.Errorf("chunk %d: document id = %q", i, chunk.DocumentID)
		}
		if chunk.WordCount == 0 {
			t.Errorf("chunk %d: word count not populated", i)
		}
	}

	if !strings.Contains(chunks[1].Text, "Preexisting diseases") {
		t.Errorf("chunk 1 text missing expected body: %q", chunks[1].Text)
	}
	if len(chunks[1].LegalTerms) == 0 {
		t.Errorf("chunk 1 expected legal terms detected, got none")
	}
}

func TestChunkLegalSections(t *testing.T) {
	text := strings.Join([]string{
		"ARTICLE 1 DEFINITIONS",
		"In this agreement, \"Party\" means either signatory.",
		"ARTICLE 2 TERMINATION",
		"Either party may terminate this agreement upon 30 days notice.",
	}, "\n")

	c := New(Config{}, domain.New())
	chunks := c.Chunk("doc-2", "Sample Agreement", DocTypeAgreement, text)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].SectionAnchor != "1" || chunks[1].SectionAnchor != "2" {
		t.Errorf("unexpected anchors: %q, %q", chunks[0].SectionAnchor, chunks[1].SectionAnchor)
	}
	for _, chunk := range chunks {
		if chunk.ChunkingMethod != legalrag.ChunkMethodLegalSection {
			t.Errorf("method = %q, want %q", chunk.ChunkingMethod, legalrag.ChunkMethodLegalSection)
		}
	}
}

func TestChunkFallsBackToSlidingWindow(t *testing.T) {
	text := "This is a short memo with no recognizable section headings at all."

	c := New(Config{}, domain.New())
	chunks := c.Chunk("doc-3", "Memo", DocTypeContract, text)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 sliding-window chunk, got %d", len(chunks))
	}
	if chunks[0].ChunkingMethod != legalrag.ChunkMethodSlidingWindow {
		t.Errorf("method = %q, want %q", chunks[0].ChunkingMethod, legalrag.ChunkMethodSlidingWindow)
	}
	if chunks[0].SectionAnchor != "" {
		t.Errorf("sliding-window chunk should have no section anchor, got %q", chunks[0].SectionAnchor)
	}
}

func TestChunkSlidingWindowOverlap(t *testing.T) {
	words := make([]string, 0, 2000)
	for i := 0; i < 2000; i++ {
		words = append(words, "word")
	}
	text := strings.Join(words, " ")

	c := New(Config{ChunkSize: 800, ChunkOverlap: 300}, domain.New())
	chunks := c.Chunk("doc-4", "Long Doc", DocTypeContract, text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple windows for 2000 words, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.WordCount > 800 {
			t.Errorf("chunk %d exceeds chunk size: %d words", i, chunk.WordCount)
		}
	}
}

func TestChunkEmptyTextReturnsNoChunks(t *testing.T) {
	c := New(Config{}, domain.New())
	chunks := c.Chunk("doc-5", "Empty", DocTypeContract, "   \n\t  ")
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks for blank input, got %d", len(chunks))
	}
}

func TestChunkIDFormat(t *testing.T) {
	if got := legalrag.ChunkID("doc-1", 0, "1.2"); got != "doc-1:section_1.2" {
		t.Errorf("ChunkID with anchor = %q", got)
	}
	if got := legalrag.ChunkID("doc-1", 3, ""); got != "doc-1:3" {
		t.Errorf("ChunkID without anchor = %q", got)
	}
}
