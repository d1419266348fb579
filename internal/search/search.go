// Package search ranks sections of a parsed article against a query.
package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/wikiparse/internal/wiki"
)

const (
	titleScore   = 10
	contentScore = 5

	maxSentences = 2
)

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// Result is one matching section.
type Result struct {
	Section *wiki.Section `json:"section" yaml:"section"`
	Matches []string      `json:"matches" yaml:"matches"`
	Score   int           `json:"score" yaml:"score"`
}

// Sections searches every section in pre-order for a case-insensitive
// substring match on title or content. Title hits score higher than
// content-only hits; ties keep document order.
func Sections(sections []*wiki.Section, query string) []Result {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	q := strings.ToLower(query)

	var results []Result
	wiki.Walk(sections, func(s *wiki.Section) {
		titleMatch := strings.Contains(strings.ToLower(s.Title), q)
		contentMatch := strings.Contains(strings.ToLower(s.Content), q)
		if !titleMatch && !contentMatch {
			return
		}

		r := Result{Section: s, Matches: []string{}, Score: contentScore}
		if titleMatch {
			r.Matches = append(r.Matches, s.Title)
			r.Score = titleScore
		}
		if contentMatch {
			r.Matches = append(r.Matches, matchingSentences(s.Content, q)...)
		}
		results = append(results, r)
	})

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func matchingSentences(content, lowerQuery string) []string {
	var out []string
	for _, s := range sentenceSplitRe.Split(content, -1) {
		if len(out) == maxSentences {
			break
		}
		if strings.Contains(strings.ToLower(s), lowerQuery) {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// Highlight wraps every case-insensitive occurrence of query in <mark> tags.
func Highlight(text, query string) string {
	if query == "" {
		return text
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(query))
	return re.ReplaceAllString(text, "<mark>$0</mark>")
}
