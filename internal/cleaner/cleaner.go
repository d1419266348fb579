// Package cleaner strips scraped interface chrome and leading table-of-contents
// noise from article markdown, keeping the title and the article body.
package cleaner

import (
	"regexp"
	"strings"
)

// LineKind is the classification of a single line between the title and the
// start of the article body.
type LineKind int

const (
	Unknown LineKind = iota
	Blank
	TocLike
	Banned
	Heading
	URL
	ParagraphStart
)

func (k LineKind) String() string {
	switch k {
	case Blank:
		return "blank"
	case TocLike:
		return "toc"
	case Banned:
		return "banned"
	case Heading:
		return "heading"
	case URL:
		return "url"
	case ParagraphStart:
		return "paragraph"
	default:
		return "unknown"
	}
}

// Content reports whether a line of this kind ends the skipped preamble.
func (k LineKind) Content() bool {
	return k == Heading || k == URL || k == ParagraphStart
}

// bannedPhrases are UI strings the scraper picks up from the page header.
var bannedPhrases = []string{
	"Fact-checked",
	"Toggle theme",
	"LightDarkSystem",
}

var (
	// bulletLinkRe matches "- [Text](target)" and "* [Text](target)".
	bulletLinkRe = regexp.MustCompile(`^[-*]\s*\[.+?\]\(.+?\)`)

	// bareLinkRe matches a line that opens with "[Text](target)".
	bareLinkRe = regexp.MustCompile(`^\[.+?\]\(.+?\)`)

	subHeadingRe = regexp.MustCompile(`^#{2,}`)

	sentencePunctRe = regexp.MustCompile(`[.!?,]`)
)

const (
	maxTocLineLen       = 100
	minParagraphLen     = 50
	titlePrefix         = "# "
	headingMarker       = "#"
	urlPrefix           = "http"
	terminalPunctuation = ".!?"
)

// Classify tags one line. Leading and trailing whitespace is ignored.
func Classify(line string) LineKind {
	t := strings.TrimSpace(line)
	if t == "" {
		return Blank
	}
	for _, p := range bannedPhrases {
		if strings.Contains(t, p) {
			return Banned
		}
	}
	if isTocLike(t) {
		return TocLike
	}
	if strings.HasPrefix(t, headingMarker) {
		return Heading
	}
	if strings.HasPrefix(t, urlPrefix) {
		return URL
	}
	if isParagraphStart(t) {
		return ParagraphStart
	}
	return Unknown
}

func isTocLike(t string) bool {
	if bulletLinkRe.MatchString(t) || bareLinkRe.MatchString(t) {
		return true
	}
	// A bare section name such as "Early Life and Education".
	return len(t) < maxTocLineLen &&
		!strings.Contains(t, ".") &&
		!strings.Contains(t, ",") &&
		!subHeadingRe.MatchString(t)
}

func isParagraphStart(t string) bool {
	if t[0] < 'A' || t[0] > 'Z' {
		return false
	}
	if !sentencePunctRe.MatchString(t) {
		return false
	}
	if len(t) > minParagraphLen {
		return true
	}
	// Short, but a complete sentence.
	return strings.ContainsRune(terminalPunctuation, rune(t[len(t)-1]))
}

// TitleIndex returns the index of the first "# Title" line, or -1.
func TitleIndex(lines []string) int {
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, titlePrefix) && strings.TrimSpace(t[len(titlePrefix):]) != "" {
			return i
		}
	}
	return -1
}

// Clean returns the title line followed by everything from the first body
// line onward. Without a title line the input is returned unchanged.
func Clean(markdown string) string {
	lines := strings.Split(markdown, "\n")
	titleIdx := TitleIndex(lines)
	if titleIdx == -1 {
		return markdown
	}

	start := len(lines)
	for i := titleIdx + 1; i < len(lines); i++ {
		if Classify(lines[i]).Content() {
			start = i
			break
		}
	}

	out := make([]string, 0, 1+len(lines)-start)
	out = append(out, lines[titleIdx])
	out = append(out, lines[start:]...)
	return strings.Join(out, "\n")
}

// Stats summarises what Clean would drop from a document.
type Stats struct {
	InputLines  int
	OutputLines int
	Skipped     map[LineKind]int
}

// Analyze runs the same scan as Clean and reports line counts per skipped
// kind. It is used for diagnostics only.
func Analyze(markdown string) Stats {
	lines := strings.Split(markdown, "\n")
	st := Stats{InputLines: len(lines), OutputLines: len(lines), Skipped: map[LineKind]int{}}
	titleIdx := TitleIndex(lines)
	if titleIdx == -1 {
		return st
	}
	i := titleIdx + 1
	for ; i < len(lines); i++ {
		k := Classify(lines[i])
		if k.Content() {
			break
		}
		st.Skipped[k]++
	}
	st.OutputLines = 1 + len(lines) - i
	return st
}
