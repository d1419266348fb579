// Package reference resolves numbered citation markers against the article's
// bibliography. It extracts the References block, parses each entry, rewrites
// inline markers into linked superscripts and regenerates a normalized
// References block at the end of the body.
package reference

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dgallion1/wikiparse/internal/paragraph"
)

// Reference is one bibliography entry. Label is the number it carried in the
// source and is never reassigned. Invalid entries keep their text.
type Reference struct {
	Label    int    `json:"number" yaml:"number"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	FullText string `json:"fullText" yaml:"fullText"`
	Valid    bool   `json:"isValid" yaml:"isValid"`
}

// Result is the output of Resolve.
type Result struct {
	Content     string            `json:"content" yaml:"content"`
	References  map[int]Reference `json:"references" yaml:"references"`
	Attribution string            `json:"attribution,omitempty" yaml:"attribution,omitempty"`
}

// Sorted returns the references in ascending label order.
func (r Result) Sorted() []Reference {
	labels := sortedLabels(r.References)
	out := make([]Reference, 0, len(labels))
	for _, l := range labels {
		out = append(out, r.References[l])
	}
	return out
}

var (
	referencesHeadingRe = regexp.MustCompile(`(?i)^#{1,3}\s*references\s*$`)
	entryStartRe        = regexp.MustCompile(`^(\d+)\.\s(.+)`)
	attributionRe       = regexp.MustCompile(`(?i)^The content is adapted from`)

	// markerRe matches "[12]" and the scraper's escaped form "\[12\]".
	markerRe = regexp.MustCompile(`\\?\[(\d+)\\?\]`)
)

// Process segments paragraphs and then resolves references, which is the
// chain applied each time an article is rendered.
func Process(markdown string) Result {
	return Resolve(paragraph.Segment(markdown))
}

// Resolve rewrites citation markers and regenerates the References block.
// Without a References heading, or without any numbered entry under it, the
// input is returned unchanged with an empty map. Resolve is idempotent.
func Resolve(markdown string) Result {
	unchanged := Result{Content: markdown, References: map[int]Reference{}}

	lines := strings.Split(markdown, "\n")
	blk, ok := extractBlock(lines)
	if !ok || len(blk.entries) == 0 {
		unchanged.Attribution = blk.attribution
		return unchanged
	}

	refs := make(map[int]Reference, len(blk.entries))
	for _, e := range blk.entries {
		// A repeated label keeps the later entry.
		refs[e.label] = parseEntry(e.label, e.text)
	}

	body := lines[:blk.heading]
	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}

	var b strings.Builder
	b.WriteString(rewriteMarkers(strings.Join(body, "\n"), refs))
	writeReferenceBlock(&b, refs)
	if blk.attribution != "" {
		writeAttribution(&b, blk.attribution)
	}

	return Result{
		Content:     b.String(),
		References:  refs,
		Attribution: blk.attribution,
	}
}

type rawEntry struct {
	label int
	text  string
}

type block struct {
	heading     int
	entries     []rawEntry
	attribution string
}

// extractBlock finds the References heading and collects the numbered
// entries below it. Continuation lines are joined with a space; a blank line
// closes the current entry; the attribution line ends the block.
func extractBlock(lines []string) (block, bool) {
	blk := block{heading: -1}
	for i, line := range lines {
		if referencesHeadingRe.MatchString(strings.TrimSpace(line)) {
			blk.heading = i
			break
		}
	}
	if blk.heading == -1 {
		return blk, false
	}

	var cur *rawEntry
	closeEntry := func() {
		if cur != nil {
			blk.entries = append(blk.entries, *cur)
			cur = nil
		}
	}

	for _, line := range lines[blk.heading+1:] {
		t := strings.TrimSpace(line)
		if t == "" {
			closeEntry()
			continue
		}
		if attributionRe.MatchString(t) {
			blk.attribution = t
			break
		}
		if m := entryStartRe.FindStringSubmatch(t); m != nil {
			// A numbered line always ends the previous entry. Label 0 and
			// its continuations are discarded.
			closeEntry()
			if label, err := strconv.Atoi(m[1]); err == nil && label > 0 {
				cur = &rawEntry{label: label, text: m[2]}
			}
			continue
		}
		if cur != nil {
			cur.text += " " + t
		}
	}
	closeEntry()
	return blk, true
}

// rewriteMarkers replaces every marker whose label is known. The body is
// scanned once, so inserted markup is never rescanned.
func rewriteMarkers(body string, refs map[int]Reference) string {
	return markerRe.ReplaceAllStringFunc(body, func(m string) string {
		sub := markerRe.FindStringSubmatch(m)
		label, err := strconv.Atoi(sub[1])
		if err != nil {
			return m
		}
		ref, ok := refs[label]
		if !ok {
			return m
		}
		return citationMarkup(ref)
	})
}

func sortedLabels(refs map[int]Reference) []int {
	labels := make([]int, 0, len(refs))
	for l := range refs {
		labels = append(labels, l)
	}
	sort.Ints(labels)
	return labels
}
