// Package chunker segments cleaned document text into an ordered list of
// legalrag.Chunk values. Method selection is driven by the document's
// declared type (spec.md §4.1): policy_section for insurance policies,
// legal_section for contracts/agreements, and sliding_window as the
// fallback for everything else (and for text that never matches a
// heading pattern).
package chunker

import (
	"strings"

	"github.com/brunobiangulo/legalrag"
	"github.com/brunobiangulo/legalrag/domain"
)

// DocType is the caller's declared document type, used only to select
// a chunking method; it is never stored on the resulting Chunk.
type DocType string

const (
	DocTypePolicy          DocType = "policy"
	DocTypeInsurancePolicy DocType = "insurance_policy"
	DocTypeHealthPolicy    DocType = "health_policy"
	DocTypeContract        DocType = "contract"
	DocTypeAgreement       DocType = "agreement"
	DocTypeLegalContract   DocType = "legal_contract"
)

// Config controls sliding-window chunking. Zero values are replaced
// with the spec's chosen defaults (800 words, 300 overlap; spec.md §9
// Open Questions).
type Config struct {
	ChunkSize    int
	ChunkOverlap int
}

// Chunker converts document text into legalrag.Chunk values.
type Chunker struct {
	cfg  Config
	dict *domain.Dictionary
}

// New returns a Chunker with the given configuration and domain
// dictionary (used for the legal-density / legal-terms metadata).
func New(cfg Config, dict *domain.Dictionary) *Chunker {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 800
	}
	if cfg.ChunkOverlap == 0 {
		cfg.ChunkOverlap = 300
	}
	return &Chunker{cfg: cfg, dict: dict}
}

// Chunk segments text into Chunks for the given document. Empty input
// returns an empty slice, never an error (spec.md §4.1 contract).
func (c *Chunker) Chunk(docID, docTitle string, docType DocType, text string) []legalrag.Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sections []headingSection
	var method legalrag.ChunkingMethod

	switch docType {
	case DocTypePolicy, DocTypeInsurancePolicy, DocTypeHealthPolicy:
		sections = splitByHeadings(text, matchPolicyHeading)
		method = legalrag.ChunkMethodPolicySection
	case DocTypeContract, DocTypeAgreement, DocTypeLegalContract:
		sections = splitByHeadings(text, matchLegalHeading)
		method = legalrag.ChunkMethodLegalSection
	}

	if len(sections) == 0 {
		return c.slidingWindow(docID, docTitle, text)
	}

	chunks := make([]legalrag.Chunk, 0, len(sections))
	for _, sec := range sections {
		body := strings.TrimSpace(sec.body)
		if body == "" {
			continue
		}
		chunk := legalrag.Chunk{
			ID:             legalrag.ChunkID(docID, 0, sec.anchor),
			DocumentID:     docID,
			DocumentTitle:  docTitle,
			SectionAnchor:  sec.anchor,
			SectionTitle:   sec.title,
			ChunkingMethod: method,
			Text:           body,
		}
		c.fillMetadata(&chunk)
		chunks = append(chunks, chunk)
	}

	if len(chunks) == 0 {
		return c.slidingWindow(docID, docTitle, text)
	}
	return chunks
}

// slidingWindow emits fixed-size overlapping windows over whitespace
// tokens. Text shorter than one window yields a single chunk (spec.md
// §4.1 contract).
func (c *Chunker) slidingWindow(docID, docTitle, text string) []legalrag.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.cfg.ChunkSize - c.cfg.ChunkOverlap
	if step <= 0 {
		step = c.cfg.ChunkSize
	}

	var chunks []legalrag.Chunk
	idx := 0
	for start := 0; start < len(words); start += step {
		end := start + c.cfg.ChunkSize
		if end > len(words) {
			end = len(words)
		}
		body := strings.Join(words[start:end], " ")
		chunk := legalrag.Chunk{
			ID:             legalrag.ChunkID(docID, idx, ""),
			DocumentID:     docID,
			DocumentTitle:  docTitle,
			ChunkingMethod: legalrag.ChunkMethodSlidingWindow,
			Text:           body,
		}
		c.fillMetadata(&chunk)
		chunks = append(chunks, chunk)
		idx++
		if end == len(words) {
			break
		}
	}
	return chunks
}

// fillMetadata computes WordCount, LegalDensity, and LegalTerms for a
// chunk whose Text is already set.
func (c *Chunker) fillMetadata(chunk *legalrag.Chunk) {
	words := strings.Fields(chunk.Text)
	chunk.WordCount = len(words)
	occurrences := detectLegalTerms(words, c.dict)
	chunk.LegalTerms = occurrences
	if len(words) > 0 {
		chunk.LegalDensity = float64(len(occurrences)) / float64(len(words))
	}
}
