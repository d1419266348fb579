// Package paragraph restores paragraph breaks that the scraper collapsed,
// using citation adjacency and missing sentence spacing as signals.
package paragraph

import (
	"regexp"
	"strings"
)

const breakSeq = "\n\n"

var (
	// Escaped citation immediately followed by a capital: "2000.\[9\]In May".
	citationCapitalRe = regexp.MustCompile(`(\\\[\d+\\\])([A-Z])`)

	// A run of escaped citations followed by a capital: "\[10\]\[11\]She".
	citationRunCapitalRe = regexp.MustCompile(`((?:\\\[\d+\\\])+)([A-Z])`)

	// Sentence end with no space before the next word: "Reserve.They".
	joinedSentenceRe = regexp.MustCompile(`([a-z]\.)([A-Z][a-z])`)

	abbreviationRe = regexp.MustCompile(`(?i)\b(?:Mr|Mrs|Ms|Dr|Prof|Sr|Jr|St|Ave|Inc|Corp|Ltd|vs|etc|i\.e|e\.g)$`)
)

// abbreviationWindow is how much text before a period is inspected by the
// abbreviation guard.
const abbreviationWindow = 10

// Segment inserts a blank line at each detected paragraph boundary. Running
// it on already segmented text changes nothing.
func Segment(markdown string) string {
	out := citationCapitalRe.ReplaceAllString(markdown, "${1}"+breakSeq+"${2}")
	out = citationRunCapitalRe.ReplaceAllString(out, "${1}"+breakSeq+"${2}")
	return splitJoinedSentences(out)
}

func splitJoinedSentences(s string) string {
	matches := joinedSentenceRe.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(matches)*len(breakSeq))
	last := 0
	for _, m := range matches {
		// m[3] is the end of "x.", so the period sits at m[3]-1.
		period := m[3] - 1
		if isAbbreviation(s, period) {
			continue
		}
		b.WriteString(s[last:m[3]])
		b.WriteString(breakSeq)
		last = m[3]
	}
	b.WriteString(s[last:])
	return b.String()
}

// isAbbreviation reports whether the text ending just before the period at
// index period is a known abbreviation such as "Dr" or "e.g".
func isAbbreviation(s string, period int) bool {
	start := period - abbreviationWindow
	if start < 0 {
		start = 0
	}
	return abbreviationRe.MatchString(s[start:period])
}
