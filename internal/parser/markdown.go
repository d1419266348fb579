package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/wikiparse/internal/wiki"
)

var (
	headingRe       = regexp.MustCompile(`^ {0,3}(#{1,6})\s+(.+)$`)
	closingHashesRe = regexp.MustCompile(`\s+#+\s*$`)
	fenceRe         = regexp.MustCompile("^ {0,3}(```|~~~)")
	tocLinkRe       = regexp.MustCompile(`^(\s*)-\s+\[(.+?)\]\(#(.+?)\)`)
)

// Parse splits cleaned article markdown into its title, a section tree and a
// table of contents with the same shape. It never fails: input without
// headings yields an empty tree.
func Parse(markdown string) *wiki.ParsedWiki {
	lines := strings.Split(markdown, "\n")
	result := &wiki.ParsedWiki{
		Title:           Title(markdown),
		Sections:        []*wiki.Section{},
		TableOfContents: []*wiki.TocEntry{},
		RawMarkdown:     markdown,
	}

	// Open nodes, shallowest first. Sections and TOC entries move together.
	type stackEntry struct {
		section *wiki.Section
		toc     *wiki.TocEntry
		level   int
	}
	var stack []stackEntry
	var active *wiki.Section
	var body []string
	created := 0

	flushBody := func() {
		if active != nil {
			active.Content = strings.TrimSpace(strings.Join(body, "\n"))
		}
		body = body[:0]
	}

	inFence := false
	for _, line := range lines {
		if fenceRe.MatchString(line) {
			inFence = !inFence
		}
		level, title, ok := headingLevel(line)
		if !ok || inFence {
			if active != nil {
				body = append(body, line)
			}
			continue
		}

		if level == 1 {
			// Titles create no node. Open sections stay open and keep
			// collecting body text.
			continue
		}
		flushBody()

		if level > 2 {
			for len(stack) > 0 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				// No open ancestor, so the heading and its body are dropped.
				active = nil
				continue
			}
		}

		created++
		anchor := wiki.Slugify(title)
		section := &wiki.Section{
			ID:          fmt.Sprintf("section-%s-%d", anchor, created),
			Title:       title,
			Level:       level,
			Anchor:      anchor,
			Subsections: []*wiki.Section{},
		}
		toc := &wiki.TocEntry{
			Title:    title,
			Anchor:   anchor,
			Level:    level,
			Children: []*wiki.TocEntry{},
		}

		if level == 2 {
			result.Sections = append(result.Sections, section)
			result.TableOfContents = append(result.TableOfContents, toc)
			stack = stack[:0]
		} else {
			parent := stack[len(stack)-1]
			parent.section.Subsections = append(parent.section.Subsections, section)
			parent.toc.Children = append(parent.toc.Children, toc)
		}
		stack = append(stack, stackEntry{section: section, toc: toc, level: level})
		active = section
	}
	flushBody()

	return result
}

// Title returns the text of the first level-1 heading, or "".
func Title(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		if level, title, ok := headingLevel(line); ok && level == 1 {
			return title
		}
	}
	return ""
}

// headingLevel reports the level and text of an ATX heading line.
func headingLevel(line string) (int, string, bool) {
	m := headingRe.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	title := strings.TrimSpace(closingHashesRe.ReplaceAllString(m[2], ""))
	if title == "" {
		return 0, "", false
	}
	return len(m[1]), title, true
}

// ExtractTOC reads an explicit bulleted contents list of the form
// "- [Title](#anchor)". Every two spaces of indentation add one level,
// starting from level 2. Entries are returned flat, in document order.
func ExtractTOC(markdown string) []*wiki.TocEntry {
	var entries []*wiki.TocEntry
	for _, line := range strings.Split(markdown, "\n") {
		m := tocLinkRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		entries = append(entries, &wiki.TocEntry{
			Title:    m[2],
			Anchor:   m[3],
			Level:    len(m[1])/2 + 2,
			Children: []*wiki.TocEntry{},
		})
	}
	return entries
}
