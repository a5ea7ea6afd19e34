package chunker

import (
	"regexp"
	"strings"
)

// headingSection is one heading-to-next-heading span of the source text.
type headingSection struct {
	anchor string
	title  string
	body   string // the heading line plus everything up to the next heading
}

// headingMatcher reports whether a line opens a new section, returning
// its anchor and title when it does.
type headingMatcher func(line string) (anchor, title string, ok bool)

// policyHeadingPattern matches numbered policy headings such as
// "1.2 EXCLUSIONS" (spec.md §4.1: ^\d+(\.\d+)?\s+[A-Z][^\n]*$).
var policyHeadingPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s+([A-Z][^\n]*)$`)

func matchPolicyHeading(line string) (anchor, title string, ok bool) {
	line = strings.TrimRight(line, " \t\r")
	m := policyHeadingPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// legalArticleSectionClausePattern matches "ARTICLE N", "SECTION N", or
// "CLAUSE N" headings, optionally followed by a title on the same line.
var legalArticleSectionClausePattern = regexp.MustCompile(`(?i)^(ARTICLE|SECTION|CLAUSE)\s+(\d+(?:\.\d+)*)\b\s*(.*)$`)

// legalNumberedAllCapsPattern matches "N. ALL CAPS TITLE" headings.
var legalNumberedAllCapsPattern = regexp.MustCompile(`^(\d+)\.\s+([A-Z][A-Z\s]*)$`)

func matchLegalHeading(line string) (anchor, title string, ok bool) {
	line = strings.TrimRight(line, " \t\r")
	if m := legalArticleSectionClausePattern.FindStringSubmatch(line); m != nil {
		return m[2], strings.TrimSpace(m[3]), true
	}
	if m := legalNumberedAllCapsPattern.FindStringSubmatch(line); m != nil {
		return m[1], strings.TrimSpace(m[2]), true
	}
	return "", "", false
}

// splitByHeadings scans text line by line, opening a new section every
// time matcher fires and otherwise appending to the current section's
// body. Lines before the first heading are discarded: a document with
// no matching heading produces no sections, and the caller falls back
// to sliding_window (spec.md §4.1: "headings that fail to match yield
// no boundary").
func splitByHeadings(text string, matcher headingMatcher) []headingSection {
	lines := strings.Split(text, "\n")

	var sections []headingSection
	var current *headingSection
	var body strings.Builder

	flush := func() {
		if current != nil {
			current.body = strings.TrimRight(body.String(), "\n")
			sections = append(sections, *current)
		}
		body.Reset()
	}

	for _, line := range lines {
		if anchor, title, ok := matcher(line); ok {
			flush()
			current = &headingSection{anchor: anchor, title: title}
		}
		if current == nil {
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()

	return sections
}
