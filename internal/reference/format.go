package reference

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

const externalLinkAttrs = `target="_blank" rel="noopener noreferrer"`

var (
	attributionLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

	// Applied in order; the longer delimiters go first so that "__x__" and
	// "***x***" are not left half stripped.
	emphasisRes = []*regexp.Regexp{
		regexp.MustCompile(`\*\*\*([^*]+)\*\*\*`),
		regexp.MustCompile(`\*\*([^*]+)\*\*`),
		regexp.MustCompile(`__([^_]+)__`),
		regexp.MustCompile(`_([^_]+)_`),
		regexp.MustCompile(`\*([^*]+)\*`),
	}
)

// citationMarkup is the inline superscript a marker is replaced with.
func citationMarkup(ref Reference) string {
	href := ref.URL
	attrs := ""
	if href == "" {
		href = fmt.Sprintf("#ref-%d", ref.Label)
	} else {
		attrs = " " + externalLinkAttrs
	}
	return fmt.Sprintf(
		`<sup class="citation-sup"><a href="%s"%s data-cite-title="%s" class="citation-link"><span class="bracket">[</span>%d<span class="bracket">]</span></a></sup>`,
		html.EscapeString(href), attrs, html.EscapeString(hoverText(ref)), ref.Label,
	)
}

// hoverText picks the tooltip for a citation: title, source, the link's
// domain, then a generic label.
func hoverText(ref Reference) string {
	switch {
	case ref.Title != "":
		return ref.Title
	case ref.Source != "":
		return ref.Source
	case ref.URL != "":
		return baseDomain(ref.URL)
	default:
		return fmt.Sprintf("Reference %d", ref.Label)
	}
}

func writeReferenceBlock(b *strings.Builder, refs map[int]Reference) {
	b.WriteString("\n\n## References\n\n")
	b.WriteString("<div class=\"references-grid\">\n\n")
	for _, label := range sortedLabels(refs) {
		ref := refs[label]
		fmt.Fprintf(b, "<div id=\"ref-%d\" class=\"reference-item\">\n", label)
		fmt.Fprintf(b, `<span class="reference-number">%d.</span>`, label)
		b.WriteString(`<div class="reference-content">`)
		switch {
		case ref.Valid && ref.URL != "" && ref.Title != "":
			fmt.Fprintf(b, `<a href="%s" %s class="reference-link">%s</a>`,
				html.EscapeString(ref.URL), externalLinkAttrs, html.EscapeString(ref.Title))
			if ref.Source != "" {
				fmt.Fprintf(b, ` <span class="reference-source">%s</span>`, html.EscapeString(ref.Source))
			}
		case ref.Valid && ref.URL != "":
			fmt.Fprintf(b, `<a href="%s" %s class="reference-link">%s</a>`,
				html.EscapeString(ref.URL), externalLinkAttrs, html.EscapeString(ref.URL))
		default:
			fmt.Fprintf(b, `<span class="reference-placeholder">%s</span>`,
				html.EscapeString(stripEmphasis(ref.FullText)))
		}
		b.WriteString("</div></div>\n\n")
	}
	b.WriteString("</div>\n")
}

func writeAttribution(b *strings.Builder, attribution string) {
	linked := attributionLinkRe.ReplaceAllString(attribution, `<a href="$2" `+externalLinkAttrs+`>$1</a>`)
	fmt.Fprintf(b, "\n\n<div class=\"attribution-line\">\n%s\n</div>\n", linked)
}

// stripEmphasis removes markdown bold and italic delimiters.
func stripEmphasis(s string) string {
	for _, re := range emphasisRes {
		s = re.ReplaceAllString(s, "$1")
	}
	return s
}

// baseDomain returns the host of rawURL without a leading "www.", or rawURL
// itself when it does not parse.
func baseDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
