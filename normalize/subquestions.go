package normalize

import (
	"regexp"
	"strings"
)

// splitterPattern matches the comma/semicolon/" and " separators used to
// decompose a bundled question (spec.md §4.2). Multiple "?" is handled
// separately below since it is itself the splitter.
var splitterPattern = regexp.MustCompile(`\s*(?:,|;|\band\b)\s*`)

// splitSubQuestions decomposes a normalized query into its ordered
// sub-questions. It is total: it never errors and always returns a
// non-empty slice (spec.md §4.2).
func splitSubQuestions(normalized string) []string {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return []string{"?"}
	}

	var parts []string
	if strings.Count(normalized, "?") > 1 {
		parts = strings.Split(normalized, "?")
	} else {
		parts = splitterPattern.Split(normalized, -1)
	}

	var fragments []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) < 4 {
			continue
		}
		if !strings.HasSuffix(p, "?") {
			p += "?"
		}
		fragments = append(fragments, p)
	}

	if len(fragments) == 0 {
		if !strings.HasSuffix(normalized, "?") {
			normalized += "?"
		}
		return []string{normalized}
	}
	return fragments
}
