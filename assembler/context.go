package assembler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/brunobiangulo/legalrag"
)

// clausePatterns matches the identifier forms the assembler must detect in
// both source context and the generated answer (spec.md §4.6 step 1/5):
// "clause N", "section N", "article N", "paragraph N", "N.M", "Na" (a
// numbered clause with a letter suffix, e.g. "12a").
var clausePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bclause\s+(\d+[a-z]?)\b`),
	regexp.MustCompile(`(?i)\bsection\s+(\d+(?:\.\d+)*[a-z]?)\b`),
	regexp.MustCompile(`(?i)\barticle\s+(\d+(?:\.\d+)*[a-z]?)\b`),
	regexp.MustCompile(`(?i)\bparagraph\s+(\d+(?:\.\d+)*[a-z]?)\b`),
	regexp.MustCompile(`\b(\d+\.\d+)\b`),
	regexp.MustCompile(`\b(\d+[a-z])\b`),
}

// detectClauseIdentifiers returns every clause/section identifier found in
// text, de-duplicated and grouped by pattern in clausePatterns order; within
// one pattern, identifiers keep their order in text.
func detectClauseIdentifiers(text string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, pattern := range clausePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			id := strings.ToLower(match[1])
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// contextBlock is one formatted source passed to the LLM, paired with the
// clause identifiers detected in its text so citations can be
// cross-referenced back to a specific chunk in step 5.
type contextBlock struct {
	chunkID     string
	text        string
	clauseIDs   []string
	formatted   string
}

// formatContext builds one contextBlock per selected result (spec.md §4.6
// step 1), in the results' existing rank order.
func formatContext(results []legalrag.RetrievalResult) []contextBlock {
	blocks := make([]contextBlock, len(results))
	for i, r := range results {
		var b strings.Builder
		fmt.Fprintf(&b, "--- Source %d", i+1)
		if title, ok := r.Metadata["document_title"].(string); ok && title != "" {
			fmt.Fprintf(&b, ": %s", title)
		}
		if anchor, ok := r.Metadata["section_anchor"].(string); ok && anchor != "" {
			fmt.Fprintf(&b, " | Section %s", anchor)
		}
		if secTitle, ok := r.Metadata["section_title"].(string); ok && secTitle != "" {
			fmt.Fprintf(&b, " (%s)", secTitle)
		}
		if page, ok := r.Metadata["page_number"].(int); ok && page > 0 {
			fmt.Fprintf(&b, " | Page %d", page)
		}
		clauseIDs := detectClauseIdentifiers(r.Text)
		if len(clauseIDs) > 0 {
			fmt.Fprintf(&b, " | Clauses: %s", strings.Join(clauseIDs, ", "))
		}
		b.WriteString(" ---\n")
		b.WriteString(r.Text)
		b.WriteString("\n")

		blocks[i] = contextBlock{
			chunkID:   r.ChunkID,
			text:      r.Text,
			clauseIDs: clauseIDs,
			formatted: b.String(),
		}
	}
	return blocks
}

func joinFormatted(blocks []contextBlock) string {
	var b strings.Builder
	for _, block := range blocks {
		b.WriteString(block.formatted)
		b.WriteString("\n")
	}
	return b.String()
}
