package legalrag

// Embedding is a fixed-dimension vector of floats produced by the
// embedding provider. Dimension must match the index's declared
// dimension; an all-zero vector is invalid and must never be written to
// the index (spec.md §3, §6.1).
type Embedding []float32

// IsZero reports whether every component of e is zero.
func (e Embedding) IsZero() bool {
	for _, v := range e {
		if v != 0 {
			return false
		}
	}
	return true
}

// MetadataValue is any value legal as IndexRecord metadata: a string, a
// number, a boolean, or a list of strings. Dictionaries are disallowed
// because the vector index only accepts scalar or list-of-scalar
// metadata (spec.md §3, §9).
type MetadataValue any

// IndexRecord is the unit of storage the vector index holds: a chunk's
// embedding plus flattened, scalar-or-list-of-scalar metadata.
type IndexRecord struct {
	ChunkID  string
	Vector   Embedding
	Metadata map[string]MetadataValue
}

// ChunkMetadata builds the IndexRecord metadata for a Chunk, flattening
// LegalTerms into a list-of-strings (one entry per occurrence, preserving
// order) rather than a mapping of term -> count, per spec.md §9.
func ChunkMetadata(c Chunk) map[string]MetadataValue {
	terms := make([]string, len(c.LegalTerms))
	for i, occ := range c.LegalTerms {
		terms[i] = occ.Term
	}
	return map[string]MetadataValue{
		"text":            c.Text,
		"document_id":     c.DocumentID,
		"document_title":  c.DocumentTitle,
		"section_anchor":  c.SectionAnchor,
		"section_title":   c.SectionTitle,
		"page_number":     c.PageNumber,
		"word_count":      c.WordCount,
		"legal_density":   c.LegalDensity,
		"is_legal_document": c.LegalDensity > 0.01,
		"chunking_method": string(c.ChunkingMethod),
		"legal_terms":     terms,
	}
}
