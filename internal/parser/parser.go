// Package parser builds the navigable structure of a cleaned article: its
// title, a section tree keyed by heading level, and a matching table of
// contents.
package parser

import "github.com/dgallion1/wikiparse/internal/wiki"

// Summary describes a parsed article for logging.
type Summary struct {
	Title    string      `json:"title"`
	TopLevel int         `json:"top_level"`
	Sections int         `json:"sections"`
	MaxDepth int         `json:"max_depth"`
	PerLevel map[int]int `json:"per_level"`
}

// Summarize counts sections per heading level.
func Summarize(pw *wiki.ParsedWiki) Summary {
	s := Summary{PerLevel: map[int]int{}}
	if pw == nil {
		return s
	}
	s.Title = pw.Title
	s.TopLevel = len(pw.Sections)
	wiki.Walk(pw.Sections, func(sec *wiki.Section) {
		s.Sections++
		s.PerLevel[sec.Level]++
		if sec.Level > s.MaxDepth {
			s.MaxDepth = sec.Level
		}
	})
	return s
}
