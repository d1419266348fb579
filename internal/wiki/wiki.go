// Package wiki holds the data model shared by the parsing, rendering and
// search stages.
package wiki

import (
	"regexp"
	"strings"
)

// ParsedWiki is the structural view of one cleaned article.
type ParsedWiki struct {
	Title           string      `json:"title" yaml:"title"`
	Sections        []*Section  `json:"sections" yaml:"sections"`
	TableOfContents []*TocEntry `json:"tableOfContents" yaml:"tableOfContents"`
	RawMarkdown     string      `json:"rawMarkdown" yaml:"-"`
}

// Section is a heading-delimited block of the article. Level is 2..6.
type Section struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Level       int        `json:"level" yaml:"level"`
	Content     string     `json:"content" yaml:"content"`
	Anchor      string     `json:"anchor" yaml:"anchor"`
	Subsections []*Section `json:"subsections" yaml:"subsections,omitempty"`
}

// TocEntry mirrors a Section without its body.
type TocEntry struct {
	Title    string      `json:"title" yaml:"title"`
	Anchor   string      `json:"anchor" yaml:"anchor"`
	Level    int         `json:"level" yaml:"level"`
	Children []*TocEntry `json:"children" yaml:"children,omitempty"`
}

var (
	nonWordRe   = regexp.MustCompile(`[^\w\s-]`)
	separatorRe = regexp.MustCompile(`[\s_-]+`)
)

// Slugify turns heading text into an in-page anchor. The same function is
// used by the renderer to assign heading IDs, so the two always agree.
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = nonWordRe.ReplaceAllString(s, "")
	s = separatorRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Walk visits sections in pre-order.
func Walk(sections []*Section, fn func(*Section)) {
	for _, s := range sections {
		fn(s)
		Walk(s.Subsections, fn)
	}
}

// Count returns the total number of sections in the tree.
func Count(sections []*Section) int {
	n := 0
	Walk(sections, func(*Section) { n++ })
	return n
}

// Titles returns every section title in pre-order.
func Titles(sections []*Section) []string {
	var out []string
	Walk(sections, func(s *Section) { out = append(out, s.Title) })
	return out
}
